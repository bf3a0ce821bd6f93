package webhook

import (
	"context"
	"strings"
	"time"

	"github.com/oakhurst-health/intake-ai-platform/internal/intake"
	"github.com/oakhurst-health/intake-ai-platform/internal/submissions"
)

// Pipeline turns a parsed envelope into a submission write record. It is
// deterministic for a given envelope (the only clock read is the fallback
// call timestamp), which keeps repeated deliveries safe to upsert.
type Pipeline struct {
	extractor *intake.Extractor
	now       func() time.Time
}

// NewPipeline creates a pipeline around the given extractor. A nil
// extractor gets the default emergency detector.
func NewPipeline(extractor *intake.Extractor) *Pipeline {
	if extractor == nil {
		extractor = intake.NewExtractor(nil)
	}
	return &Pipeline{extractor: extractor, now: time.Now}
}

// Process assembles the write record: reconciled request types, extracted
// patient and request data with the emergency override applied, resolved
// status, formatted transcript, and the raw analysis blob for audit.
func (p *Pipeline) Process(ctx context.Context, env *Envelope) *submissions.WriteRecord {
	fields := env.Data.Analysis.DataCollectionResults
	entries := env.Data.TranscriptEntries()

	types := intake.ReconcileRequestTypes(fields.Get("request_types"), fields)
	patient := p.extractor.ExtractPatient(ctx, fields, entries)
	requests := p.extractor.ExtractRequests(types, fields)

	callTimestamp := p.now().UTC()
	if env.Data.Metadata.StartTimeUnixSecs > 0 {
		callTimestamp = time.Unix(env.Data.Metadata.StartTimeUnixSecs, 0).UTC()
	}

	var callerPhone *string
	if patient.PhoneNumber != "" {
		phone := patient.PhoneNumber
		callerPhone = &phone
	}

	var requestType *string
	if len(types) > 0 {
		joined := joinTypes(types)
		requestType = &joined
	}

	return &submissions.WriteRecord{
		ConversationID:   env.Data.ConversationID,
		AgentID:          env.Data.AgentID,
		CallTimestamp:    callTimestamp,
		CallDurationSecs: env.Data.Metadata.CallDurationSecs,
		CallerPhone:      callerPhone,
		Status:           intake.ResolveStatus(intake.CallOutcome(env.Data.Status)),
		PatientData:      patient,
		RequestType:      requestType,
		RequestData:      requests,
		Transcript:       intake.FormatTranscript(entries),
		Analysis:         env.Data.Analysis.Raw,
	}
}

func joinTypes(types []intake.RequestType) string {
	parts := make([]string, len(types))
	for i, rt := range types {
		parts[i] = string(rt)
	}
	return strings.Join(parts, ",")
}
