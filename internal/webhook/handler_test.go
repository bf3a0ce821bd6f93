package webhook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakhurst-health/intake-ai-platform/internal/submissions"
)

const testSecret = "test-webhook-secret"

type notifierSpy struct {
	calls []*submissions.Submission
}

func (n *notifierSpy) NotifyPossibleEmergency(_ context.Context, sub *submissions.Submission) {
	n.calls = append(n.calls, sub)
}

type failingRepo struct{}

func (failingRepo) Upsert(context.Context, *submissions.WriteRecord) (*submissions.Submission, error) {
	return nil, errors.New("connection refused")
}
func (failingRepo) GetByConversationID(context.Context, string) (*submissions.Submission, error) {
	return nil, submissions.ErrNotFound
}
func (failingRepo) ListRecent(context.Context, int) ([]*submissions.Submission, error) {
	return nil, nil
}

func newTestHandler(repo submissions.Repository, notifier reviewNotifier) *Handler {
	return NewHandler(HandlerConfig{
		Secret:   testSecret,
		Repo:     repo,
		Notifier: notifier,
	})
}

func postWebhook(t *testing.T, h *Handler, body string, sign bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/voice-agent/post-call", strings.NewReader(body))
	if sign {
		req.Header.Set(SignatureHeader, signBody(t, testSecret, body, time.Now()))
	}
	w := httptest.NewRecorder()
	h.HandlePostCall(w, req)
	return w
}

func TestHandlePostCall_StoresSubmission(t *testing.T) {
	repo := submissions.NewInMemoryRepository()
	w := postWebhook(t, newTestHandler(repo, nil), validEnvelope, true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	sub, err := repo.GetByConversationID(context.Background(), "conv_123")
	require.NoError(t, err)
	assert.Equal(t, "agent_abc", sub.AgentID)
	assert.Equal(t, "Ada", sub.PatientData.FirstName)
}

func TestHandlePostCall_RejectsBadSignature(t *testing.T) {
	repo := submissions.NewInMemoryRepository()
	h := newTestHandler(repo, nil)

	// Unsigned request.
	w := postWebhook(t, h, validEnvelope, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Signed, then tampered body.
	req := httptest.NewRequest(http.MethodPost, "/webhooks/voice-agent/post-call",
		strings.NewReader(validEnvelope+" "))
	req.Header.Set(SignatureHeader, signBody(t, testSecret, validEnvelope, time.Now()))
	rec := httptest.NewRecorder()
	h.HandlePostCall(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Verification failure short-circuits: nothing was parsed or stored.
	_, err := repo.GetByConversationID(context.Background(), "conv_123")
	assert.ErrorIs(t, err, submissions.ErrNotFound)
}

func TestHandlePostCall_RejectsExpiredSignature(t *testing.T) {
	repo := submissions.NewInMemoryRepository()
	h := newTestHandler(repo, nil)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/voice-agent/post-call",
		strings.NewReader(validEnvelope))
	req.Header.Set(SignatureHeader, signBody(t, testSecret, validEnvelope, time.Now().Add(-time.Hour)))
	w := httptest.NewRecorder()
	h.HandlePostCall(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandlePostCall_RejectsUnsupportedKind(t *testing.T) {
	repo := submissions.NewInMemoryRepository()
	body := `{"type":"post_call_audio","data":{"conversation_id":"c1","agent_id":"a1"}}`

	w := postWebhook(t, newTestHandler(repo, nil), body, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "post_call_audio")

	_, err := repo.GetByConversationID(context.Background(), "c1")
	assert.ErrorIs(t, err, submissions.ErrNotFound)
}

func TestHandlePostCall_RejectsMalformedPayload(t *testing.T) {
	w := postWebhook(t, newTestHandler(submissions.NewInMemoryRepository(), nil), "{not json", true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlePostCall_PersistenceFailure(t *testing.T) {
	w := postWebhook(t, newTestHandler(failingRepo{}, nil), validEnvelope, true)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHandlePostCall_MissingSecret(t *testing.T) {
	h := NewHandler(HandlerConfig{Repo: submissions.NewInMemoryRepository()})
	w := postWebhook(t, h, validEnvelope, true)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandlePostCall_NotifiesOnPossibleEmergency(t *testing.T) {
	body := `{"type":"post_call_transcription","data":{
		"conversation_id":"conv_e","agent_id":"agent_a","status":"done",
		"transcript":[{"role":"user","message":"this is an emergency","time_in_call_secs":4}],
		"analysis":{"data_collection_results":{"emergency_confirmed":"true","first_name":"Ada"}}}}`

	spy := &notifierSpy{}
	repo := submissions.NewInMemoryRepository()
	w := postWebhook(t, newTestHandler(repo, spy), body, true)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, spy.calls, 1)
	assert.Equal(t, "conv_e", spy.calls[0].ConversationID)
	assert.False(t, spy.calls[0].PatientData.EmergencyConfirmed)
}

func TestHandlePostCall_NoAlertWhenConfirmedSafe(t *testing.T) {
	body := `{"type":"post_call_transcription","data":{
		"conversation_id":"conv_s","agent_id":"agent_a","status":"done",
		"transcript":[{"role":"user","message":"no, everything is fine","time_in_call_secs":4}],
		"analysis":{"data_collection_results":{"emergency_confirmed":"true"}}}}`

	spy := &notifierSpy{}
	w := postWebhook(t, newTestHandler(submissions.NewInMemoryRepository(), spy), body, true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, spy.calls)
}
