package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcileRequestTypes_Declared(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		want     []RequestType
	}{
		{
			name:     "single type",
			declared: "fit_note",
			want:     []RequestType{RequestFitNote},
		},
		{
			name:     "multiple types keep declared order",
			declared: "fit_note,repeat_prescription",
			want:     []RequestType{RequestFitNote, RequestRepeatPrescription},
		},
		{
			name:     "dedupes preserving first-seen order",
			declared: "fit_note,fit_note,health_problem",
			want:     []RequestType{RequestFitNote, RequestHealthProblem},
		},
		{
			name:     "normalizes spaces and hyphens",
			declared: "Fit Note, repeat-prescription",
			want:     []RequestType{RequestFitNote, RequestRepeatPrescription},
		},
		{
			name:     "unknown tokens are dropped",
			declared: "fit_note,banana,doctors_letter",
			want:     []RequestType{RequestFitNote, RequestDoctorsLetter},
		},
		{
			name:     "empty declared yields nothing",
			declared: "",
			want:     nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReconcileRequestTypes(tt.declared, FieldBag{})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReconcileRequestTypes_FallbackDetection(t *testing.T) {
	t.Run("health problem inferred from description", func(t *testing.T) {
		fields := FieldBag{"health_problem_description": "persistent cough for three weeks"}
		got := ReconcileRequestTypes("", fields)
		assert.Equal(t, []RequestType{RequestHealthProblem}, got)
	})

	t.Run("health problem inferred from concerns", func(t *testing.T) {
		fields := FieldBag{"health_problem_concerns": "worried it might be serious"}
		got := ReconcileRequestTypes("", fields)
		assert.Equal(t, []RequestType{RequestHealthProblem}, got)
	})

	t.Run("repeat prescription inferred from medications", func(t *testing.T) {
		fields := FieldBag{"medications": "Metformin 500mg"}
		got := ReconcileRequestTypes("", fields)
		assert.Equal(t, []RequestType{RequestRepeatPrescription}, got)
	})

	t.Run("fallback extends declared set without duplicating", func(t *testing.T) {
		fields := FieldBag{"medications": "Sertraline 50mg"}
		got := ReconcileRequestTypes("repeat_prescription,fit_note", fields)
		assert.Equal(t, []RequestType{RequestRepeatPrescription, RequestFitNote}, got)
	})

	t.Run("no fallback for rarer types from polluted fields", func(t *testing.T) {
		// The provider leaves stray text in unrelated fields; only the
		// declared field is trusted for the five rarer types.
		fields := FieldBag{
			"letter_purpose":        "leftover text from another answer",
			"routine_care_service":  "more leftovers",
			"test_results_type":     "blood test",
			"referral_query":        "chasing",
			"admin_request_details": "junk",
		}
		got := ReconcileRequestTypes("", fields)
		assert.Empty(t, got)
	})
}

func TestReconcileRequestTypes_FitNoteGuards(t *testing.T) {
	t.Run("inferred from genuine illness", func(t *testing.T) {
		fields := FieldBag{"fit_note_illness": "lower back injury, cannot sit at a desk"}
		got := ReconcileRequestTypes("", fields)
		assert.Equal(t, []RequestType{RequestFitNote}, got)
	})

	t.Run("negative screening answer is not a fit note", func(t *testing.T) {
		for _, answer := range []string{"no", "No.", "I'm fine", "i'm good", "all good", "okay"} {
			fields := FieldBag{"fit_note_illness": answer}
			got := ReconcileRequestTypes("", fields)
			assert.Empty(t, got, "answer %q should not infer a fit note", answer)
		}
	})

	t.Run("duplicated health problem description is not a fit note", func(t *testing.T) {
		fields := FieldBag{
			"health_problem_description": "migraines most mornings",
			"fit_note_illness":           "migraines most mornings",
		}
		got := ReconcileRequestTypes("", fields)
		assert.Equal(t, []RequestType{RequestHealthProblem}, got)
	})

	t.Run("duplicated description with supporting fields is a fit note", func(t *testing.T) {
		fields := FieldBag{
			"health_problem_description": "migraines most mornings",
			"fit_note_illness":           "migraines most mornings",
			"fit_note_start_date":        "last Monday",
		}
		got := ReconcileRequestTypes("", fields)
		assert.Equal(t, []RequestType{RequestHealthProblem, RequestFitNote}, got)
	})
}
