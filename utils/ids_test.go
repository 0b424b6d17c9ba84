package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanIDSet(t *testing.T) {
	got := CleanIDSet([]string{" a ", "", "b", "a", "me", "  ", "c", "b"}, "me")
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestCleanIDSetEmpty(t *testing.T) {
	assert.Empty(t, CleanIDSet(nil, "me"))
	assert.Empty(t, CleanIDSet([]string{"", "me", " "}, "me"))
}
