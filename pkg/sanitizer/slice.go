package sanitizer

func NormalizeStringSlice(items []string, normalizer func(string) string) []string {
	if len(items) == 0 {
		return []string{}
	}

	seen := make(map[string]bool)
	result := make([]string, 0, len(items))

	for _, item := range items {
		normalized := normalizer(item)

		if normalized == "" {
			continue
		}

		if seen[normalized] {
			continue
		}

		seen[normalized] = true
		result = append(result, normalized)
	}

	return result
}

// NormalizeTags is used for certifications, needs and duration options.
// A nil input stays nil so optional fields are omitted on the wire.
func NormalizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	return NormalizeStringSlice(tags, TrimAndNormalize)
}
