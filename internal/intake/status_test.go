package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveStatus(t *testing.T) {
	assert.Equal(t, StatusFailed, ResolveStatus(OutcomeFailed))
	assert.Equal(t, StatusRequiresReview, ResolveStatus(OutcomeDone))

	// No outcome auto-completes; unknown outcomes are held for review too.
	assert.Equal(t, StatusRequiresReview, ResolveStatus(CallOutcome("")))
	assert.Equal(t, StatusRequiresReview, ResolveStatus(CallOutcome("processing")))
}
