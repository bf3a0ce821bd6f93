package intake

import (
	"context"
	"strings"
)

// Extractor assembles the typed patient and request records from the
// coerced collected-field bag. All extraction is pure and total: any field
// the provider failed to collect becomes the zero value for its type, never
// null, so downstream consumers can rely on every scalar being present.
type Extractor struct {
	emergency *EmergencyDetector
}

// NewExtractor creates an extractor using the given emergency detector.
func NewExtractor(emergency *EmergencyDetector) *Extractor {
	if emergency == nil {
		emergency = NewEmergencyDetector(nil)
	}
	return &Extractor{emergency: emergency}
}

// ExtractPatient builds the PatientRecord, applying the fail-safe emergency
// override: if the transcript contains an assertive emergency phrase from
// the caller, emergency_confirmed is forced to false (possible emergency,
// needs review) no matter what the declared field says. The override is
// one-directional — transcript evidence never turns an unconfirmed signal
// back into a confirmed-safe one.
func (e *Extractor) ExtractPatient(ctx context.Context, fields FieldBag, transcript []TranscriptEntry) PatientRecord {
	confirmed := fields.GetBool("emergency_confirmed")
	if confirmed && e.emergency.Detect(ctx, transcript) {
		confirmed = false
	}

	return PatientRecord{
		FirstName:          fields.Get("first_name"),
		LastName:           fields.Get("last_name"),
		Postcode:           FormatPostcode(fields.Get("postcode")),
		PhoneNumber:        fields.Get("phone_number"),
		PreferredContact:   normalizePreferredContact(fields.Get("preferred_contact")),
		EmergencyConfirmed: confirmed,
	}
}

// normalizePreferredContact maps the free-text contact preference onto the
// closed enum. Phone is the default: it is the one channel every caller is
// known to be reachable on.
func normalizePreferredContact(raw string) PreferredContact {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "text", "sms":
		return ContactText
	case "both", "either":
		return ContactBoth
	default:
		return ContactPhone
	}
}

// ExtractRequests builds one RequestRecord per reconciled request type,
// keyed by type.
func (e *Extractor) ExtractRequests(types []RequestType, fields FieldBag) map[RequestType]RequestRecord {
	if len(types) == 0 {
		return nil
	}
	out := make(map[RequestType]RequestRecord, len(types))
	for _, rt := range types {
		out[rt] = buildRequestRecord(rt, fields)
	}
	return out
}

// buildRequestRecord dispatches on the request-type tag. The switch is
// exhaustive over KnownRequestTypes; an unrecognized tag (which
// ReconcileRequestTypes never emits) degrades to an other_admin record so
// extraction stays total.
func buildRequestRecord(rt RequestType, fields FieldBag) RequestRecord {
	switch rt {
	case RequestHealthProblem:
		return RequestRecord{Type: rt, HealthProblem: &HealthProblemRequest{
			Description:      fields.Get("health_problem_description"),
			Duration:         fields.Get("health_problem_duration"),
			Progression:      fields.Get("health_problem_progression"),
			TreatmentsTried:  fields.Get("health_problem_treatments"),
			Concerns:         fields.Get("health_problem_concerns"),
			HelpRequested:    fields.Get("health_problem_help"),
			BestContactTimes: fields.Get("health_problem_contact_times"),
		}}
	case RequestRepeatPrescription:
		return RequestRecord{Type: rt, RepeatPrescription: &RepeatPrescriptionRequest{
			Medications:     ParseMedicationList(fields.Get("medications")),
			AdditionalNotes: fields.Get("medication_notes"),
		}}
	case RequestFitNote:
		return RequestRecord{Type: rt, FitNote: &FitNoteRequest{
			Illness:             fields.Get("fit_note_illness"),
			StartDate:           fields.Get("fit_note_start_date"),
			EndDate:             fields.Get("fit_note_end_date"),
			EmployerOrEducation: fields.Get("fit_note_employer"),
			AdditionalNotes:     fields.Get("fit_note_notes"),
		}}
	case RequestRoutineCare:
		return RequestRecord{Type: rt, RoutineCare: &RoutineCareRequest{
			ServiceRequested: fields.Get("routine_care_service"),
			PreferredTimes:   fields.Get("routine_care_times"),
			AdditionalNotes:  fields.Get("routine_care_notes"),
		}}
	case RequestTestResults:
		return RequestRecord{Type: rt, TestResults: &TestResultsRequest{
			TestType:        fields.Get("test_results_type"),
			TestDate:        fields.Get("test_results_date"),
			AdditionalNotes: fields.Get("test_results_notes"),
		}}
	case RequestReferralFollowup:
		return RequestRecord{Type: rt, ReferralFollowup: &ReferralFollowupRequest{
			ReferralService: fields.Get("referral_service"),
			ReferralDate:    fields.Get("referral_date"),
			Query:           fields.Get("referral_query"),
			AdditionalNotes: fields.Get("referral_notes"),
		}}
	case RequestDoctorsLetter:
		return RequestRecord{Type: rt, DoctorsLetter: &DoctorsLetterRequest{
			Purpose:         fields.Get("letter_purpose"),
			Recipient:       fields.Get("letter_recipient"),
			Deadline:        fields.Get("letter_deadline"),
			AdditionalNotes: fields.Get("letter_notes"),
		}}
	case RequestOtherAdmin:
		return RequestRecord{Type: rt, OtherAdmin: &OtherAdminRequest{
			Details: fields.Get("admin_request_details"),
		}}
	default:
		return RequestRecord{Type: RequestOtherAdmin, OtherAdmin: &OtherAdminRequest{}}
	}
}
