package sanitizer

const MinQuantity = 1

// NormalizeQuantity treats an unset or non-positive quantity as one unit.
func NormalizeQuantity(q int) int {
	if q < MinQuantity {
		return MinQuantity
	}
	return q
}
