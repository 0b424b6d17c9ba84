package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusNames(t *testing.T) {
	assert.Equal(t, "PENDING", StatusPending.String())
	assert.Equal(t, "ACCEPTED", StatusAccepted.String())
	assert.Equal(t, "REJECTED", StatusRejected.String())
	assert.Equal(t, "COMPLETED", StatusCompleted.String())
	assert.Equal(t, "UNKNOWN", RequestStatus(42).String())
}

func TestStatusLiveness(t *testing.T) {
	assert.True(t, StatusPending.Live())
	assert.True(t, StatusAccepted.Live())
	assert.False(t, StatusRejected.Live())
	assert.False(t, StatusCompleted.Live())
}

func TestLegalTransitions(t *testing.T) {
	cases := []struct {
		from, to RequestStatus
		legal    bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCompleted, false},
		{StatusAccepted, StatusCompleted, true},
		{StatusAccepted, StatusRejected, true},
		{StatusAccepted, StatusAccepted, false},
		{StatusAccepted, StatusPending, false},
		{StatusRejected, StatusPending, false},
		{StatusRejected, StatusAccepted, false},
		{StatusCompleted, StatusRejected, false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.legal, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}
