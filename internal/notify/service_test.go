package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakhurst-health/intake-ai-platform/internal/intake"
	"github.com/oakhurst-health/intake-ai-platform/internal/submissions"
)

type senderSpy struct {
	sent []EmailMessage
	err  error
}

func (s *senderSpy) Send(_ context.Context, msg EmailMessage) error {
	s.sent = append(s.sent, msg)
	return s.err
}

func reviewSubmission() *submissions.Submission {
	return &submissions.Submission{
		ID: "sub-1",
		WriteRecord: submissions.WriteRecord{
			ConversationID: "conv_1",
			AgentID:        "agent_a",
			CallTimestamp:  time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC),
			Status:         intake.StatusRequiresReview,
			PatientData: intake.PatientRecord{
				FirstName:   "Ada",
				LastName:    "Lovelace",
				PhoneNumber: "+447700900123",
			},
		},
	}
}

func TestNotifyPossibleEmergency(t *testing.T) {
	spy := &senderSpy{}
	svc := NewService(spy, "reviewer@example.org", nil)

	svc.NotifyPossibleEmergency(context.Background(), reviewSubmission())

	require.Len(t, spy.sent, 1)
	msg := spy.sent[0]
	assert.Equal(t, "reviewer@example.org", msg.To)
	assert.Contains(t, msg.Subject, "URGENT")
	assert.Contains(t, msg.Body, "Ada Lovelace")
	assert.Contains(t, msg.Body, "+447700900123")
	assert.Contains(t, msg.Body, "conv_1")
}

func TestNotifyPossibleEmergency_UnknownCaller(t *testing.T) {
	spy := &senderSpy{}
	svc := NewService(spy, "reviewer@example.org", nil)

	sub := reviewSubmission()
	sub.PatientData.FirstName = ""
	sub.PatientData.LastName = ""
	svc.NotifyPossibleEmergency(context.Background(), sub)

	require.Len(t, spy.sent, 1)
	assert.Contains(t, spy.sent[0].Body, "unknown caller")
}

func TestNotifyPossibleEmergency_SendFailureIsSwallowed(t *testing.T) {
	spy := &senderSpy{err: errors.New("smtp down")}
	svc := NewService(spy, "reviewer@example.org", nil)

	// Must not panic or surface the error.
	svc.NotifyPossibleEmergency(context.Background(), reviewSubmission())
	assert.Len(t, spy.sent, 1)
}

func TestNotifyPossibleEmergency_DisabledConfigurations(t *testing.T) {
	spy := &senderSpy{}

	NewService(nil, "reviewer@example.org", nil).
		NotifyPossibleEmergency(context.Background(), reviewSubmission())
	NewService(spy, "", nil).
		NotifyPossibleEmergency(context.Background(), reviewSubmission())

	assert.Empty(t, spy.sent)
}

func TestNewSendGridSender_RequiresAPIKey(t *testing.T) {
	assert.Nil(t, NewSendGridSender(SendGridConfig{FromEmail: "noreply@example.org"}, nil))

	var sender *SendGridSender
	err := sender.Send(context.Background(), EmailMessage{To: "a@b.c"})
	assert.Error(t, err)
}
