package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is tried first for numbers written without a country code.
const DefaultRegion = "NG"

var supportedRegions = []string{
	DefaultRegion,
	"GH",
	"GB",
	"US",
}

func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	for _, region := range supportedRegions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err != nil || !phonenumbers.IsPossibleNumber(parsed) {
			continue
		}
		return phonenumbers.Format(parsed, phonenumbers.E164)
	}
	return ""
}

// NormalizePhoneOrKeep returns the E.164 form, or the trimmed input when it
// cannot be parsed so validation reports it.
func NormalizePhoneOrKeep(phone string) string {
	if normalized := NormalizePhone(phone); normalized != "" {
		return normalized
	}
	return strings.TrimSpace(phone)
}
