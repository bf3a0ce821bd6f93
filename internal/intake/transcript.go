package intake

import (
	"fmt"
	"strings"
)

// Speaker identifies who produced a transcript entry.
type Speaker string

const (
	SpeakerAgent  Speaker = "agent"
	SpeakerCaller Speaker = "caller"
)

// TranscriptEntry is a single utterance in call order.
type TranscriptEntry struct {
	Speaker       Speaker
	Text          string
	OffsetSeconds int
}

// speakerLabel is the fixed display name used when rendering transcripts.
func speakerLabel(s Speaker) string {
	if s == SpeakerAgent {
		return "Agent"
	}
	return "Caller"
}

// FormatTranscript renders a transcript for storage and display, one line
// per utterance:
//
//	[MM:SS] Agent: Hello, you've reached the surgery.
//	[00:07] Caller: I'd like to order a repeat prescription.
//
// Empty utterances are skipped.
func FormatTranscript(entries []TranscriptEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		text := strings.TrimSpace(e.Text)
		if text == "" {
			continue
		}
		offset := e.OffsetSeconds
		if offset < 0 {
			offset = 0
		}
		lines = append(lines, fmt.Sprintf("[%02d:%02d] %s: %s",
			offset/60, offset%60, speakerLabel(e.Speaker), text))
	}
	return strings.Join(lines, "\n")
}
