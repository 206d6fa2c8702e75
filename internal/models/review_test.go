package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewValid(t *testing.T) {
	r := Review{IsApproved: true}
	assert.True(t, r.Valid())

	r.IsFlagged = true
	assert.False(t, r.Valid())

	r = Review{IsApproved: false}
	assert.False(t, r.Valid())
}

func TestReviewFlagApproveReject(t *testing.T) {
	r := Review{IsApproved: true}

	r.Flag(FlagReasonSpam)
	assert.True(t, r.IsFlagged)
	require.NotNil(t, r.FlagReason)
	assert.Equal(t, FlagReasonSpam, *r.FlagReason)
	// Flagged reviews drop out of the aggregate until moderated.
	assert.False(t, r.Valid())

	// Approving a flagged review restores it fully.
	r.Approve()
	assert.True(t, r.IsApproved)
	assert.False(t, r.IsFlagged)
	assert.Nil(t, r.FlagReason)
	assert.True(t, r.Valid())

	// Rejecting keeps the flag bookkeeping intact for the audit trail.
	r.Flag(FlagReasonOffensive)
	r.Reject()
	assert.False(t, r.IsApproved)
	assert.True(t, r.IsFlagged)
	require.NotNil(t, r.FlagReason)
	assert.Equal(t, FlagReasonOffensive, *r.FlagReason)
	assert.False(t, r.Valid())
}

func TestValidFlagReason(t *testing.T) {
	for _, reason := range []string{FlagReasonSpam, FlagReasonOffensive, FlagReasonIrrelevant, FlagReasonDuplicate} {
		assert.True(t, ValidFlagReason(reason))
	}
	assert.False(t, ValidFlagReason(""))
	assert.False(t, ValidFlagReason("nonsense"))
}
