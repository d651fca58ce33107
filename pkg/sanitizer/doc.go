// Package sanitizer normalizes dashboard form input before validation.
//
// All functions are idempotent and never fail: input that cannot be
// normalized comes back empty (or unchanged, where noted) and is left for
// the validator to reject.
//
// Normalization includes:
//   - Phone numbers: E.164, Nigerian national format by default
//   - Emails: trimmed and lowercased
//   - Free text: whitespace collapsed and trimmed
//   - Tag lists (certifications, needs, duration options): trimmed, deduplicated, empties dropped
//   - Quantities: clamped to at least one unit
package sanitizer
