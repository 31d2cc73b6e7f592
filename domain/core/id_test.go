package core

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	assert.Len(t, ids, numIDs)
}

func TestNewInterviewID(t *testing.T) {
	created := time.UnixMilli(1700000000123)

	a := NewInterviewID("user-1", created)
	b := NewInterviewID("user-1", created)

	assert.True(t, strings.HasPrefix(a.String(), "user-1_1700000000123_"))
	assert.NotEqual(t, a, b, "same user and millisecond must still differ")

	parsed, err := ParseInterviewID(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, parsed)
}

func TestParseInterviewIDRejectsPaths(t *testing.T) {
	for _, raw := range []string{"", "  ", "../etc", "a/b", `a\b`} {
		_, err := ParseInterviewID(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseReportID(t *testing.T) {
	id := NewReportID()

	parsed, err := ParseReportID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseReportID("not-a-uuid")
	assert.Error(t, err)
}

func TestHashShort(t *testing.T) {
	h := HashText("prompt")
	assert.Len(t, h.Short(), 12)
	assert.Equal(t, h, HashText("prompt"))
}
