package meteolt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichAddsLocalTimeSiblings(t *testing.T) {
	doc := Document{
		"forecastTimestamps": []any{
			map[string]any{"forecastTimeUtc": "2024-12-22 12:00:00", "airTemperature": 2.5},
		},
		"observations": []any{
			map[string]any{"observationTimeUtc": "2024-07-01 12:00:00", "waterLevel": 123.4},
		},
	}

	enriched, err := enrichLocalTimes(doc)
	require.NoError(t, err)

	forecast := enriched["forecastTimestamps"].([]any)[0].(map[string]any)
	assert.Equal(t, "2024-12-22T14:00:00+02:00", forecast["forecastTime"])
	assert.Equal(t, 2.5, forecast["airTemperature"])

	observation := enriched["observations"].([]any)[0].(map[string]any)
	assert.Equal(t, "2024-07-01T15:00:00+03:00", observation["observationTime"])
}

func TestEnrichIsNoOpWithoutTriggerFields(t *testing.T) {
	doc := Document{
		"place":   map[string]any{"code": "vilnius"},
		"someday": "2024-12-22 12:00:00",
	}

	enriched, err := enrichLocalTimes(doc)
	require.NoError(t, err)
	assert.Equal(t, Document{
		"place":   map[string]any{"code": "vilnius"},
		"someday": "2024-12-22 12:00:00",
	}, enriched)
}

func TestEnrichSkipsElementsWithoutTimestamp(t *testing.T) {
	doc := Document{
		"observations": []any{
			map[string]any{"waterLevel": 1.0},
			map[string]any{"observationTimeUtc": "2024-12-22 12:00:00"},
		},
	}

	enriched, err := enrichLocalTimes(doc)
	require.NoError(t, err)

	items := enriched["observations"].([]any)
	_, hasLocal := items[0].(map[string]any)["observationTime"]
	assert.False(t, hasLocal)
	assert.Equal(t, "2024-12-22T14:00:00+02:00", items[1].(map[string]any)["observationTime"])
}

func TestEnrichDoesNotRecurse(t *testing.T) {
	// A nested object carrying the trigger field names must not be touched.
	doc := Document{
		"wrapper": map[string]any{
			"forecastTimestamps": []any{
				map[string]any{"forecastTimeUtc": "2024-12-22 12:00:00"},
			},
		},
	}

	enriched, err := enrichLocalTimes(doc)
	require.NoError(t, err)

	nested := enriched["wrapper"].(map[string]any)["forecastTimestamps"].([]any)[0].(map[string]any)
	_, hasLocal := nested["forecastTime"]
	assert.False(t, hasLocal)
}

func TestEnrichPropagatesBadTimestamps(t *testing.T) {
	doc := Document{
		"forecastTimestamps": []any{
			map[string]any{"forecastTimeUtc": "tomorrow-ish"},
		},
	}

	_, err := enrichLocalTimes(doc)
	assert.True(t, IsFormat(err), "unexpected error: %v", err)
}
