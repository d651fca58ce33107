package lifecycle

import (
	"encoding/json"
	"strings"
	"unicode"
	"unicode/utf8"

	"assetshare/pkg/model"

	"github.com/shopspring/decimal"
)

const (
	AuditStatusUpdated   = "Status Updated"
	AuditPaymentReceived = "Payment Received"
)

type auditDetails struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount json.RawMessage `json:"amount"`
	Ref    string          `json:"ref"`
}

// DescribeAudit renders an audit entry's details as one line of text.
// Details may arrive as a JSON object or as a JSON string holding one.
func DescribeAudit(audit model.BookingAudit) string {
	raw := []byte(audit.Details)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var embedded string
	if json.Unmarshal(raw, &embedded) == nil {
		raw = []byte(embedded)
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return string(raw)
	}

	var d auditDetails
	_ = json.Unmarshal(raw, &d)

	if audit.Action == AuditStatusUpdated && d.From != "" && d.To != "" {
		return `Status changed from "` + HumanizeStatus(d.From) + `" to "` + HumanizeStatus(d.To) + `"`
	}
	if audit.Action == AuditPaymentReceived {
		if amount, ok := parseAmount(d.Amount); ok && !amount.IsZero() {
			ref := d.Ref
			if ref == "" {
				ref = "N/A"
			}
			return "Amount: " + FormatNaira(amount) + " (Ref: " + ref + ")"
		}
	}

	compact, err := json.Marshal(generic)
	if err != nil {
		return string(raw)
	}
	return string(compact)
}

// HumanizeStatus turns "awaiting_payment" into "Awaiting Payment".
func HumanizeStatus(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

func parseAmount(raw json.RawMessage) (decimal.Decimal, bool) {
	if len(raw) == 0 {
		return decimal.Zero, false
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		return d, err == nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(raw); err != nil {
		return decimal.Zero, false
	}
	return d, true
}
