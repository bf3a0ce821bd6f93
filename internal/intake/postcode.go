package intake

import (
	"regexp"
	"strings"
)

// ukPostcodePattern is the standard UK postcode grammar (outward code +
// space + inward code), applied after FormatPostcode normalization.
var ukPostcodePattern = regexp.MustCompile(`^[A-Z]{1,2}\d[A-Z\d]? \d[A-Z]{2}$`)

// FormatPostcode normalizes a postcode for storage: strip all whitespace,
// uppercase, and re-insert a single space before the final three characters
// when the result is long enough to have an inward code.
//
// Formatting is deliberately lossy-tolerant — it does not reject input that
// isn't a real postcode. Strict validation is ValidPostcode, applied at the
// API boundary, so a garbled transcription never blocks the rest of the
// submission from being stored.
func FormatPostcode(raw string) string {
	compact := strings.ToUpper(strings.Join(strings.Fields(raw), ""))
	if len(compact) < 5 {
		return compact
	}
	return compact[:len(compact)-3] + " " + compact[len(compact)-3:]
}

// ValidPostcode reports whether the input normalizes to a syntactically
// valid UK postcode.
func ValidPostcode(raw string) bool {
	return ukPostcodePattern.MatchString(FormatPostcode(raw))
}
