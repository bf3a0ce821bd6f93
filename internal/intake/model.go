package intake

// RequestType identifies one of the intake request categories a caller can
// raise during a single call.
type RequestType string

const (
	RequestHealthProblem      RequestType = "health_problem"
	RequestRepeatPrescription RequestType = "repeat_prescription"
	RequestFitNote            RequestType = "fit_note"
	RequestRoutineCare        RequestType = "routine_care"
	RequestTestResults        RequestType = "test_results"
	RequestReferralFollowup   RequestType = "referral_followup"
	RequestDoctorsLetter      RequestType = "doctors_letter"
	RequestOtherAdmin         RequestType = "other_admin"
)

// KnownRequestTypes is the closed set of recognized request types, in
// canonical display order.
var KnownRequestTypes = []RequestType{
	RequestHealthProblem,
	RequestRepeatPrescription,
	RequestFitNote,
	RequestRoutineCare,
	RequestTestResults,
	RequestReferralFollowup,
	RequestDoctorsLetter,
	RequestOtherAdmin,
}

// PreferredContact is how the patient asked to be contacted back.
type PreferredContact string

const (
	ContactText  PreferredContact = "text"
	ContactPhone PreferredContact = "phone"
	ContactBoth  PreferredContact = "both"
)

// SubmissionStatus is the workflow state of a stored submission.
//
// The ingestion pipeline only ever produces StatusRequiresReview or
// StatusFailed. StatusPending and StatusCompleted are reachable solely
// through staff action in the admin collaborator.
type SubmissionStatus string

const (
	StatusPending        SubmissionStatus = "pending"
	StatusRequiresReview SubmissionStatus = "requires_review"
	StatusCompleted      SubmissionStatus = "completed"
	StatusFailed         SubmissionStatus = "failed"
)

// PatientRecord is the caller's identity and contact details as extracted
// from the call.
//
// EmergencyConfirmed means "the patient confirmed they are safe". False
// flags the submission for urgent review. The transcript-based emergency
// override can only flip this from true to false, never the reverse.
type PatientRecord struct {
	FirstName          string           `json:"first_name"`
	LastName           string           `json:"last_name"`
	Postcode           string           `json:"postcode"`
	PhoneNumber        string           `json:"phone_number"`
	PreferredContact   PreferredContact `json:"preferred_contact"`
	EmergencyConfirmed bool             `json:"emergency_confirmed"`
}

// Medication is a single entry on a repeat-prescription request.
type Medication struct {
	Name     string `json:"name"`
	Strength string `json:"strength"`
}

// RequestRecord is a tagged union over the eight request categories.
// Type is the discriminator; exactly one of the payload pointers matching
// Type is populated. Scalar fields inside a populated payload are always
// present (empty string rather than null) so downstream consumers never
// need nil checks on individual fields.
type RequestRecord struct {
	Type RequestType `json:"type"`

	HealthProblem      *HealthProblemRequest      `json:"health_problem,omitempty"`
	RepeatPrescription *RepeatPrescriptionRequest `json:"repeat_prescription,omitempty"`
	FitNote            *FitNoteRequest            `json:"fit_note,omitempty"`
	RoutineCare        *RoutineCareRequest        `json:"routine_care,omitempty"`
	TestResults        *TestResultsRequest        `json:"test_results,omitempty"`
	ReferralFollowup   *ReferralFollowupRequest   `json:"referral_followup,omitempty"`
	DoctorsLetter      *DoctorsLetterRequest      `json:"doctors_letter,omitempty"`
	OtherAdmin         *OtherAdminRequest         `json:"other_admin,omitempty"`
}

// HealthProblemRequest captures a new or ongoing medical concern.
type HealthProblemRequest struct {
	Description      string `json:"description"`
	Duration         string `json:"duration"`
	Progression      string `json:"progression"`
	TreatmentsTried  string `json:"treatments_tried"`
	Concerns         string `json:"concerns"`
	HelpRequested    string `json:"help_requested"`
	BestContactTimes string `json:"best_contact_times"`
}

// RepeatPrescriptionRequest captures a medication re-order.
type RepeatPrescriptionRequest struct {
	Medications     []Medication `json:"medications"`
	AdditionalNotes string       `json:"additional_notes"`
}

// FitNoteRequest captures a sick/fit note request.
type FitNoteRequest struct {
	Illness             string `json:"illness"`
	StartDate           string `json:"start_date"`
	EndDate             string `json:"end_date"`
	EmployerOrEducation string `json:"employer_or_education"`
	AdditionalNotes     string `json:"additional_notes"`
}

// RoutineCareRequest captures routine/planned care (reviews, screening,
// vaccinations and similar).
type RoutineCareRequest struct {
	ServiceRequested string `json:"service_requested"`
	PreferredTimes   string `json:"preferred_times"`
	AdditionalNotes  string `json:"additional_notes"`
}

// TestResultsRequest captures a query about test results.
type TestResultsRequest struct {
	TestType        string `json:"test_type"`
	TestDate        string `json:"test_date"`
	AdditionalNotes string `json:"additional_notes"`
}

// ReferralFollowupRequest captures a chase-up on an existing referral.
type ReferralFollowupRequest struct {
	ReferralService string `json:"referral_service"`
	ReferralDate    string `json:"referral_date"`
	Query           string `json:"query"`
	AdditionalNotes string `json:"additional_notes"`
}

// DoctorsLetterRequest captures a request for a letter from the practice.
type DoctorsLetterRequest struct {
	Purpose         string `json:"purpose"`
	Recipient       string `json:"recipient"`
	Deadline        string `json:"deadline"`
	AdditionalNotes string `json:"additional_notes"`
}

// OtherAdminRequest is the catch-all for administrative requests that do
// not fit a more specific category.
type OtherAdminRequest struct {
	Details string `json:"details"`
}

// FieldBag is the provider's flat map of collected conversational data,
// pre-coercion. Values may be strings, booleans, numbers, nulls, arrays or
// wrapper objects; nothing outside the coercion utilities should inspect
// these shapes directly.
type FieldBag map[string]any
