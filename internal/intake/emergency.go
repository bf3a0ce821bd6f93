package intake

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/oakhurst-health/intake-ai-platform/pkg/logging"
)

var emergencyTracer = otel.Tracer("intake/emergency-detector")

// assertivePhrases are unambiguous self-reports of an ongoing emergency.
//
// Deliberately excluded: bare symptom names such as "chest pain" or
// "difficulty breathing". Callers routinely deny those during the agent's
// screening questions ("no chest pain, I'm fine") and substring matching
// cannot tell assertion from negation. A missed emergency here is still
// caught by staff review (every submission lands in requires_review); a
// false positive trains staff to ignore the flag. Do not add symptom names
// to this list.
var assertivePhrases = []string{
	"this is an emergency",
	"it's an emergency",
	"it is an emergency",
	"this is a real emergency",
	"call 999",
	"call an ambulance",
	"need an ambulance",
	"i am dying",
	"i'm dying",
	"having a heart attack",
	"having a stroke",
	"i've taken an overdose",
	"i have taken an overdose",
	"i want to end my life",
}

// EmergencyDetector scans call transcripts for assertive emergency language
// from the caller.
type EmergencyDetector struct {
	logger *logging.Logger
}

// NewEmergencyDetector creates a detector. A nil logger falls back to the
// default.
func NewEmergencyDetector(logger *logging.Logger) *EmergencyDetector {
	if logger == nil {
		logger = logging.Default()
	}
	return &EmergencyDetector{logger: logger}
}

// Detect reports whether any caller-authored transcript entry contains an
// assertive emergency phrase. Agent entries are never scanned: the agent's
// own emergency-screening script contains the word "emergency" on every
// call and would match constantly.
func (d *EmergencyDetector) Detect(ctx context.Context, transcript []TranscriptEntry) bool {
	_, span := emergencyTracer.Start(ctx, "emergency.detect")
	defer span.End()

	for _, entry := range transcript {
		if entry.Speaker != SpeakerCaller {
			continue
		}
		text := strings.ToLower(entry.Text)
		for _, phrase := range assertivePhrases {
			if strings.Contains(text, phrase) {
				span.SetAttributes(attribute.String("matched_phrase", phrase))
				d.logger.Warn("emergency language detected in transcript",
					"phrase", phrase,
					"offset_secs", entry.OffsetSeconds,
				)
				return true
			}
		}
	}
	return false
}
