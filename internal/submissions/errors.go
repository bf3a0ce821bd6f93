package submissions

import "errors"

var (
	// ErrNotFound is returned when no submission exists for the key.
	ErrNotFound = errors.New("submission not found")

	// ErrMissingConversationID is returned when a write record has no
	// conversation identifier; such a record must never reach storage.
	ErrMissingConversationID = errors.New("conversation_id is required")

	// ErrMissingAgentID is returned when a write record has no agent
	// identifier.
	ErrMissingAgentID = errors.New("agent_id is required")
)
