package intake

import (
	"regexp"
	"strings"
)

// dosagePattern matches a trailing dosage such as "500mg", "2.5 ml" or
// "25 MG" at the end of a medication entry. Units cover the forms seen in
// real calls; anything else is treated as part of the name.
var dosagePattern = regexp.MustCompile(`(?i)\s*(\d+(?:\.\d+)?\s*(?:mg|ml|mcg|g|iu|%|units))\s*$`)

// ParseMedicationList splits a comma-separated medication string (as spoken
// by the caller and transcribed by the provider, e.g. "Metformin 500mg,
// Lisinopril 10mg") into structured entries, separating a trailing dosage
// from the leading name where one can be recognized.
//
// This is a best-effort heuristic over free speech, not a validated medical
// parser: entries with no recognizable dosage keep the full text as the
// name with an empty strength, and nothing is ever dropped. Staff review
// the result before anything is actioned.
func ParseMedicationList(raw string) []Medication {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "null") {
		return []Medication{}
	}

	parts := strings.Split(raw, ",")
	meds := make([]Medication, 0, len(parts))
	for _, part := range parts {
		entry := strings.TrimSpace(part)
		if entry == "" {
			continue
		}
		if loc := dosagePattern.FindStringSubmatchIndex(entry); loc != nil {
			name := strings.TrimSpace(entry[:loc[0]])
			strength := normalizeStrength(entry[loc[2]:loc[3]])
			if name != "" {
				meds = append(meds, Medication{Name: name, Strength: strength})
				continue
			}
		}
		meds = append(meds, Medication{Name: entry, Strength: ""})
	}
	return meds
}

// normalizeStrength uppercases the unit and collapses internal whitespace,
// so "500 mg" and "500mg" both come out as "500MG".
func normalizeStrength(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "")
}
