package submissions

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository stores processed call submissions. Upsert is keyed on
// conversation_id so provider re-deliveries update in place rather than
// duplicate.
type Repository interface {
	Upsert(ctx context.Context, rec *WriteRecord) (*Submission, error)
	GetByConversationID(ctx context.Context, conversationID string) (*Submission, error)
	ListRecent(ctx context.Context, limit int) ([]*Submission, error)
}

// Validate checks the invariants persistence relies on.
func (r *WriteRecord) Validate() error {
	if r.ConversationID == "" {
		return ErrMissingConversationID
	}
	if r.AgentID == "" {
		return ErrMissingAgentID
	}
	return nil
}

// InMemoryRepository is a map-backed Repository for tests and local
// development.
type InMemoryRepository struct {
	mu     sync.RWMutex
	byConv map[string]*Submission
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byConv: make(map[string]*Submission)}
}

// Upsert inserts or replaces the submission for the record's conversation.
func (r *InMemoryRepository) Upsert(_ context.Context, rec *WriteRecord) (*Submission, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.byConv[rec.ConversationID]; ok {
		updated := &Submission{
			ID:          existing.ID,
			CreatedAt:   existing.CreatedAt,
			UpdatedAt:   now,
			WriteRecord: *rec,
		}
		r.byConv[rec.ConversationID] = updated
		return updated, nil
	}

	sub := &Submission{
		ID:          uuid.NewString(),
		CreatedAt:   now,
		UpdatedAt:   now,
		WriteRecord: *rec,
	}
	r.byConv[rec.ConversationID] = sub
	return sub, nil
}

// GetByConversationID fetches a submission by conversation.
func (r *InMemoryRepository) GetByConversationID(_ context.Context, conversationID string) (*Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.byConv[conversationID]
	if !ok {
		return nil, ErrNotFound
	}
	return sub, nil
}

// ListRecent returns up to limit submissions, newest first.
func (r *InMemoryRepository) ListRecent(_ context.Context, limit int) ([]*Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Submission, 0, len(r.byConv))
	for _, sub := range r.byConv {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CallTimestamp.After(out[j].CallTimestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
