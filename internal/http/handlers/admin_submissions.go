package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/oakhurst-health/intake-ai-platform/internal/submissions"
	"github.com/oakhurst-health/intake-ai-platform/internal/webhook"
	"github.com/oakhurst-health/intake-ai-platform/pkg/logging"
)

// conversationFetcher is implemented by provider.Client.
type conversationFetcher interface {
	GetConversation(ctx context.Context, conversationID string) (json.RawMessage, error)
}

// dedupForgetter is implemented by dedup.Guard.
type dedupForgetter interface {
	Forget(ctx context.Context, conversationID string)
}

// AdminSubmissionsHandler serves the staff-facing submission endpoints: a
// recent listing for the dashboard collaborator and a manual resync that
// re-fetches a conversation from the provider and runs it back through the
// intake pipeline.
type AdminSubmissionsHandler struct {
	repo     submissions.Repository
	provider conversationFetcher
	pipeline *webhook.Pipeline
	guard    dedupForgetter
	logger   *logging.Logger
}

// AdminSubmissionsConfig configures the handler.
type AdminSubmissionsConfig struct {
	Repo     submissions.Repository
	Provider conversationFetcher
	Pipeline *webhook.Pipeline
	Guard    dedupForgetter
	Logger   *logging.Logger
}

// NewAdminSubmissionsHandler creates the handler.
func NewAdminSubmissionsHandler(cfg AdminSubmissionsConfig) *AdminSubmissionsHandler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Pipeline == nil {
		cfg.Pipeline = webhook.NewPipeline(nil)
	}
	return &AdminSubmissionsHandler{
		repo:     cfg.Repo,
		provider: cfg.Provider,
		pipeline: cfg.Pipeline,
		guard:    cfg.Guard,
		logger:   cfg.Logger,
	}
}

// ListRecent is the HTTP handler for GET /admin/submissions?limit=N.
func (h *AdminSubmissionsHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			http.Error(w, "limit must be between 1 and 500", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	subs, err := h.repo.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list submissions", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"submissions": subs})
}

// GetByConversation is the HTTP handler for
// GET /admin/submissions/{conversationID}.
func (h *AdminSubmissionsHandler) GetByConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	sub, err := h.repo.GetByConversationID(r.Context(), conversationID)
	if err != nil {
		if errors.Is(err, submissions.ErrNotFound) {
			http.Error(w, "submission not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to fetch submission",
			"error", err, "conversation_id", conversationID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// Resync is the HTTP handler for
// POST /admin/submissions/{conversationID}/resync. It pulls the
// conversation's analysis from the provider API and upserts the
// re-extracted submission, replacing whatever the original webhook
// delivery produced.
func (h *AdminSubmissionsHandler) Resync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conversationID := chi.URLParam(r, "conversationID")

	if h.provider == nil {
		http.Error(w, "provider API not configured", http.StatusServiceUnavailable)
		return
	}

	raw, err := h.provider.GetConversation(ctx, conversationID)
	if err != nil {
		h.logger.Error("resync: provider fetch failed",
			"error", err, "conversation_id", conversationID)
		http.Error(w, "provider fetch failed", http.StatusBadGateway)
		return
	}

	// The provider API returns the conversation in the same shape as the
	// webhook's data object; wrap it so the webhook parser validates it.
	body := append([]byte(`{"type":"`+webhook.KindPostCallTranscription+`","data":`), raw...)
	body = append(body, '}')
	env, err := webhook.ParseEnvelope(body)
	if err != nil {
		h.logger.Error("resync: provider payload invalid",
			"error", err, "conversation_id", conversationID)
		http.Error(w, "provider payload invalid", http.StatusBadGateway)
		return
	}

	rec := h.pipeline.Process(ctx, env)
	sub, err := h.repo.Upsert(ctx, rec)
	if err != nil {
		h.logger.Error("resync: failed to store submission",
			"error", err, "conversation_id", conversationID)
		http.Error(w, "storage unavailable", http.StatusBadGateway)
		return
	}
	if h.guard != nil {
		h.guard.Forget(ctx, conversationID)
	}

	h.logger.Info("resync: submission refreshed",
		"conversation_id", sub.ConversationID, "status", sub.Status)
	writeJSON(w, http.StatusOK, sub)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
