package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/oakhurst-health/intake-ai-platform/internal/dedup"
	"github.com/oakhurst-health/intake-ai-platform/internal/intake"
	"github.com/oakhurst-health/intake-ai-platform/internal/observability/metrics"
	"github.com/oakhurst-health/intake-ai-platform/internal/submissions"
	"github.com/oakhurst-health/intake-ai-platform/pkg/logging"
)

// SignatureHeader carries the provider's timestamped HMAC.
const SignatureHeader = "Provider-Signature"

// maxBodyBytes caps webhook bodies; transcripts for long calls run to a few
// hundred KB.
const maxBodyBytes = 1 << 20

// reviewNotifier is implemented by notify.Service.
type reviewNotifier interface {
	NotifyPossibleEmergency(ctx context.Context, sub *submissions.Submission)
}

// Handler receives provider post-call webhooks and runs the intake
// pipeline. Each delivery is processed independently; the handler holds no
// mutable state across requests.
type Handler struct {
	secret    string
	tolerance time.Duration
	pipeline  *Pipeline
	repo      submissions.Repository
	guard     *dedup.Guard
	notifier  reviewNotifier
	metrics   *metrics.IntakeMetrics
	logger    *logging.Logger
	now       func() time.Time
}

// HandlerConfig configures the webhook Handler.
type HandlerConfig struct {
	Secret    string
	Tolerance time.Duration
	Pipeline  *Pipeline
	Repo      submissions.Repository
	Guard     *dedup.Guard
	Notifier  reviewNotifier
	Metrics   *metrics.IntakeMetrics
	Logger    *logging.Logger
}

// NewHandler creates a webhook handler.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Pipeline == nil {
		cfg.Pipeline = NewPipeline(nil)
	}
	return &Handler{
		secret:    cfg.Secret,
		tolerance: cfg.Tolerance,
		pipeline:  cfg.Pipeline,
		repo:      cfg.Repo,
		guard:     cfg.Guard,
		notifier:  cfg.Notifier,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		now:       time.Now,
	}
}

// HandlePostCall is the HTTP handler for POST /webhooks/voice-agent/post-call.
//
// Order matters: the signature is verified against the raw bytes before any
// parsing happens, and nothing past verification runs when it fails.
func (h *Handler) HandlePostCall(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := h.now()

	if h.secret == "" {
		h.logger.Error("webhook secret not configured")
		http.Error(w, "webhook secret not configured", http.StatusInternalServerError)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.metrics.ObserveRejected("body_read")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := VerifySignature(r.Header.Get(SignatureHeader), string(body), h.secret, h.now(), h.tolerance); err != nil {
		h.metrics.ObserveRejected(signatureReason(err))
		h.logger.Warn("rejected webhook signature", "reason", err.Error())
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	env, err := ParseEnvelope(body)
	if err != nil {
		var unsupported *UnsupportedKindError
		if errors.As(err, &unsupported) {
			h.metrics.ObserveReceived(unsupported.Kind)
			h.metrics.ObserveRejected("unsupported_kind")
		} else {
			h.metrics.ObserveRejected("malformed_payload")
		}
		h.logger.Warn("rejected webhook payload", "reason", err.Error())
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.metrics.ObserveReceived(env.Kind)

	if h.guard.MarkSeen(ctx, env.Data.ConversationID) {
		h.logger.Info("duplicate webhook delivery ignored",
			"conversation_id", env.Data.ConversationID)
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "duplicate"})
		return
	}

	rec := h.pipeline.Process(ctx, env)
	sub, err := h.repo.Upsert(ctx, rec)
	if err != nil {
		// Clear the seen marker so the provider's retry is not swallowed
		// as a duplicate of a delivery we failed to store.
		h.guard.Forget(ctx, env.Data.ConversationID)
		h.metrics.ObserveRejected("persistence")
		h.logger.Error("failed to store submission",
			"error", err, "conversation_id", env.Data.ConversationID)
		http.Error(w, "storage unavailable", http.StatusBadGateway)
		return
	}

	h.metrics.ObserveProcessed(string(sub.Status), !sub.PatientData.EmergencyConfirmed)
	h.metrics.ObserveLatency(h.now().Sub(start).Seconds())
	h.logger.Info("submission stored",
		"conversation_id", sub.ConversationID,
		"status", sub.Status,
		"request_types", derefOrEmpty(sub.RequestType),
		"emergency_confirmed", sub.PatientData.EmergencyConfirmed,
	)

	if h.notifier != nil && sub.Status == intake.StatusRequiresReview && !sub.PatientData.EmergencyConfirmed {
		h.notifier.NotifyPossibleEmergency(ctx, sub)
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func signatureReason(err error) string {
	switch {
	case errors.Is(err, ErrExpiredSignature):
		return "signature_expired"
	case errors.Is(err, ErrMalformedHeader):
		return "signature_malformed"
	default:
		return "signature_mismatch"
	}
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
