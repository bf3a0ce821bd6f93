package submissions

import (
	"encoding/json"
	"time"

	"github.com/oakhurst-health/intake-ai-platform/internal/intake"
)

// WriteRecord is what the ingestion pipeline hands to persistence for one
// processed call. It is deterministic for a given webhook body, so
// re-delivery of the same call is always safe to upsert on ConversationID.
type WriteRecord struct {
	ConversationID   string                                      `json:"conversation_id"`
	AgentID          string                                      `json:"agent_id"`
	CallTimestamp    time.Time                                   `json:"call_timestamp"`
	CallDurationSecs int                                         `json:"call_duration_secs"`
	CallerPhone      *string                                     `json:"caller_phone"`
	Status           intake.SubmissionStatus                     `json:"status"`
	PatientData      intake.PatientRecord                        `json:"patient_data"`
	RequestType      *string                                     `json:"request_type"`
	RequestData      map[intake.RequestType]intake.RequestRecord `json:"request_data"`
	Transcript       string                                      `json:"transcript"`
	Analysis         json.RawMessage                             `json:"analysis"`
}

// Submission is a stored row: the write record plus storage identity.
type Submission struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	WriteRecord
}
