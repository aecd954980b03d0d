package meteolt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToLocalTimeWinter(t *testing.T) {
	local, err := ToLocalTime("2024-12-22 12:00:00")
	require.NoError(t, err)

	// Vilnius is UTC+2 in winter.
	assert.Equal(t, 14, local.Hour())
	assert.Equal(t, 0, local.Minute())
	assert.Equal(t, 0, local.Second())
	assert.Equal(t, "2024-12-22T14:00:00+02:00", local.Format(time.RFC3339))
}

func TestToLocalTimeSummer(t *testing.T) {
	local, err := ToLocalTime("2024-07-01 12:00:00")
	require.NoError(t, err)

	// Vilnius is UTC+3 in summer.
	assert.Equal(t, "2024-07-01T15:00:00+03:00", local.Format(time.RFC3339))
}

func TestToLocalTimeRejectsBadInput(t *testing.T) {
	for _, input := range []string{
		"",
		"2024-12-22",
		"2024-12-22T12:00:00Z",
		"22.12.2024 12:00:00",
		"not a timestamp",
	} {
		_, err := ToLocalTime(input)
		assert.True(t, IsFormat(err), "input %q should fail with a format error, got %v", input, err)
	}
}
