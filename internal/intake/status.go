package intake

// CallOutcome is the provider's verdict on whether the call itself ran to
// completion.
type CallOutcome string

const (
	OutcomeDone   CallOutcome = "done"
	OutcomeFailed CallOutcome = "failed"
)

// ResolveStatus maps a call outcome to the initial workflow state.
//
// A failed call is stored as failed, unconditionally. Everything else is
// held as requires_review: no submission is ever auto-completed, regardless
// of how confident the provider's analysis looks. Completed and pending are
// set only by staff action downstream.
func ResolveStatus(outcome CallOutcome) SubmissionStatus {
	if outcome == OutcomeFailed {
		return StatusFailed
	}
	return StatusRequiresReview
}
