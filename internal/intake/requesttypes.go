package intake

import "strings"

// negativeConfirmations are screening answers the provider sometimes
// misfiles into the fit-note illness field. An illness field holding one of
// these is a "no" to a screening question, not a fit-note request.
var negativeConfirmations = map[string]struct{}{
	"no":           {},
	"none":         {},
	"nothing":      {},
	"no thanks":    {},
	"no thank you": {},
	"fine":         {},
	"i'm fine":     {},
	"im fine":      {},
	"i am fine":    {},
	"i'm good":     {},
	"im good":      {},
	"i am good":    {},
	"all good":     {},
	"ok":           {},
	"okay":         {},
}

// normalizeRequestToken canonicalizes a declared request-type token:
// lowercase, with spaces and hyphens folded to underscores.
func normalizeRequestToken(token string) string {
	token = strings.ToLower(strings.TrimSpace(token))
	token = strings.ReplaceAll(token, " ", "_")
	token = strings.ReplaceAll(token, "-", "_")
	return token
}

// ReconcileRequestTypes merges the declared request-type string with
// fallback detection over the collected fields, producing a deduplicated
// set of recognized types in first-seen order.
//
// Fallback detection runs for exactly three types: health_problem,
// repeat_prescription and fit_note. For those the provider sometimes fails
// to tag the declared field while still populating the matching data
// fields. For the remaining five rarer types the provider pollutes
// unrelated fields with leftover text when the type was NOT requested, so
// field-based inference would produce false positives — the declared field
// is trusted exclusively for them. Do not extend the fallback list without
// evidence it is safe.
func ReconcileRequestTypes(declared string, fields FieldBag) []RequestType {
	known := make(map[string]RequestType, len(KnownRequestTypes))
	for _, rt := range KnownRequestTypes {
		known[string(rt)] = rt
	}

	var result []RequestType
	seen := make(map[RequestType]struct{})
	add := func(rt RequestType) {
		if _, dup := seen[rt]; dup {
			return
		}
		seen[rt] = struct{}{}
		result = append(result, rt)
	}

	for _, token := range strings.Split(declared, ",") {
		if rt, ok := known[normalizeRequestToken(token)]; ok {
			add(rt)
		}
	}

	if detectHealthProblem(fields) {
		add(RequestHealthProblem)
	}
	if detectRepeatPrescription(fields) {
		add(RequestRepeatPrescription)
	}
	if detectFitNote(fields) {
		add(RequestFitNote)
	}

	return result
}

func detectHealthProblem(fields FieldBag) bool {
	return fields.Get("health_problem_description") != "" ||
		fields.Get("health_problem_concerns") != ""
}

func detectRepeatPrescription(fields FieldBag) bool {
	return fields.Get("medications") != ""
}

// detectFitNote guards against two known provider misfiles: an
// emergency-screening answer landing in the illness field, and the
// health-problem description being duplicated into it.
func detectFitNote(fields FieldBag) bool {
	illness := fields.Get("fit_note_illness")
	if illness == "" {
		return false
	}
	normalized := strings.ToLower(strings.Trim(illness, " .!"))
	if _, negative := negativeConfirmations[normalized]; negative {
		return false
	}

	hasSupportingFields := fields.Get("fit_note_start_date") != "" ||
		fields.Get("fit_note_end_date") != "" ||
		fields.Get("fit_note_employer") != ""
	duplicatesHealthProblem := strings.EqualFold(
		strings.TrimSpace(illness),
		strings.TrimSpace(fields.Get("health_problem_description")),
	)
	return !duplicatesHealthProblem || hasSupportingFields
}
