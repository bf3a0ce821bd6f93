package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/oakhurst-health/intake-ai-platform/internal/submissions"
	"github.com/oakhurst-health/intake-ai-platform/pkg/logging"
)

// Service alerts the on-duty reviewer about submissions that need urgent
// attention. All notification failures are logged and swallowed — a mail
// outage must never block or fail webhook ingestion.
type Service struct {
	email       EmailSender
	reviewEmail string
	logger      *logging.Logger
}

// NewService creates a notification service. With a nil sender or empty
// reviewer address the service is a no-op.
func NewService(email EmailSender, reviewEmail string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:       email,
		reviewEmail: strings.TrimSpace(reviewEmail),
		logger:      logger,
	}
}

// NotifyPossibleEmergency emails the reviewer when a submission arrives
// with the patient NOT confirmed safe.
func (s *Service) NotifyPossibleEmergency(ctx context.Context, sub *submissions.Submission) {
	if s == nil || s.email == nil || s.reviewEmail == "" {
		return
	}

	name := strings.TrimSpace(sub.PatientData.FirstName + " " + sub.PatientData.LastName)
	if name == "" {
		name = "unknown caller"
	}
	body := fmt.Sprintf(
		"A call submission needs urgent review.\n\n"+
			"Patient: %s\n"+
			"Phone: %s\n"+
			"Call time: %s\n"+
			"Conversation: %s\n\n"+
			"The patient did not confirm they are safe. Review the transcript "+
			"in the dashboard before taking any other action.",
		name,
		sub.PatientData.PhoneNumber,
		sub.CallTimestamp.Format("2006-01-02 15:04 MST"),
		sub.ConversationID,
	)

	msg := EmailMessage{
		To:      s.reviewEmail,
		Subject: "URGENT: possible emergency on intake call",
		Body:    body,
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("notify: failed to send emergency review alert",
			"error", err, "conversation_id", sub.ConversationID)
		return
	}
	s.logger.Info("notify: emergency review alert sent",
		"conversation_id", sub.ConversationID)
}
