package webhook

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oakhurst-health/intake-ai-platform/internal/intake"
)

// KindPostCallTranscription is the only webhook kind this receiver
// processes. The provider also delivers audio payloads and initiation
// failures on the same endpoint; those are rejected explicitly rather than
// half-parsed.
const KindPostCallTranscription = "post_call_transcription"

var (
	// ErrInvalidJSON is returned when the body is not valid JSON.
	ErrInvalidJSON = errors.New("webhook: invalid JSON payload")

	// ErrMissingConversationID is returned when data.conversation_id is
	// absent or empty.
	ErrMissingConversationID = errors.New("webhook: missing conversation_id")

	// ErrMissingAgentID is returned when data.agent_id is absent or empty.
	ErrMissingAgentID = errors.New("webhook: missing agent_id")
)

// UnsupportedKindError is returned for recognized-but-unhandled webhook
// kinds so the caller can report exactly what arrived.
type UnsupportedKindError struct {
	Kind string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("webhook: unsupported payload kind %q", e.Kind)
}

// Envelope is the parsed top-level webhook message.
type Envelope struct {
	Kind           string `json:"type"`
	EventTimestamp int64  `json:"event_timestamp"`
	Data           Data   `json:"data"`
}

// Data is the call-analysis body of a post_call_transcription event.
type Data struct {
	ConversationID string           `json:"conversation_id"`
	AgentID        string           `json:"agent_id"`
	Status         string           `json:"status"`
	Transcript     []TranscriptTurn `json:"transcript"`
	Metadata       CallMetadata     `json:"metadata"`
	Analysis       AnalysisResult   `json:"analysis"`
}

// TranscriptTurn is one utterance as delivered by the provider. Role is
// "agent" or "user".
type TranscriptTurn struct {
	Role           string  `json:"role"`
	Message        string  `json:"message"`
	TimeInCallSecs float64 `json:"time_in_call_secs"`
}

// CallMetadata carries call timing and billing figures.
type CallMetadata struct {
	StartTimeUnixSecs int64   `json:"start_time_unix_secs"`
	CallDurationSecs  int     `json:"call_duration_secs"`
	Cost              float64 `json:"cost"`
}

// AnalysisResult is the provider's analysis blob: the collected-field bag
// plus a free-text summary. Raw preserves the original bytes for audit
// pass-through.
type AnalysisResult struct {
	DataCollectionResults intake.FieldBag `json:"data_collection_results"`
	TranscriptSummary     string          `json:"transcript_summary"`
	CallSuccessful        string          `json:"call_successful"`

	Raw json.RawMessage `json:"-"`
}

// ParseEnvelope validates the raw webhook body into an Envelope. It fails
// closed: invalid JSON, an unsupported kind, or a missing conversation or
// agent identifier all reject the delivery before any extraction runs.
// The input is never mutated.
func ParseEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if env.Kind != KindPostCallTranscription {
		return nil, &UnsupportedKindError{Kind: env.Kind}
	}
	if env.Data.ConversationID == "" {
		return nil, ErrMissingConversationID
	}
	if env.Data.AgentID == "" {
		return nil, ErrMissingAgentID
	}

	// Re-extract the analysis blob verbatim for audit storage.
	var shell struct {
		Data struct {
			Analysis json.RawMessage `json:"analysis"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &shell); err == nil {
		env.Data.Analysis.Raw = shell.Data.Analysis
	}

	return &env, nil
}

// TranscriptEntries converts the provider transcript turns into the domain
// representation, mapping the provider's "user" role to the caller speaker.
func (d Data) TranscriptEntries() []intake.TranscriptEntry {
	entries := make([]intake.TranscriptEntry, 0, len(d.Transcript))
	for _, turn := range d.Transcript {
		speaker := intake.SpeakerCaller
		if turn.Role == "agent" {
			speaker = intake.SpeakerAgent
		}
		entries = append(entries, intake.TranscriptEntry{
			Speaker:       speaker,
			Text:          turn.Message,
			OffsetSeconds: int(turn.TimeInCallSecs),
		})
	}
	return entries
}
