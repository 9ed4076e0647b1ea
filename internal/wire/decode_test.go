package wire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Eppo-exp/eppo-go-sdk/internal/obfuscation"
)

const plainDoc = `{
	"flags": {
		"flag-a": {
			"key": "flag-a",
			"enabled": true,
			"variationType": "BOOLEAN",
			"variations": {"on": {"key": "on", "value": true}},
			"totalShards": 10000,
			"allocations": [
				{
					"key": "alloc-1",
					"startAt": "2024-01-01T00:00:00Z",
					"endAt": "2024-06-01T00:00:00Z",
					"doLog": true,
					"splits": [{"variationKey": "on", "shards": []}]
				}
			]
		}
	},
	"environment": {"name": "test"},
	"createdAt": "2024-01-01T00:00:00Z",
	"format": "SERVER"
}`

func TestDecodePlainAllocationTimeWindow(t *testing.T) {
	cfg, err := Decode([]byte(plainDoc), false)
	require.NoError(t, err)

	alloc := cfg.FlagsByKey["flag-a"].Allocations[0]
	require.NotNil(t, alloc.StartAt)
	require.NotNil(t, alloc.EndAt)
	require.True(t, alloc.StartAt.Time.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.True(t, alloc.EndAt.Time.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDecodeObfuscatedAllocationTimeWindowIsBase64(t *testing.T) {
	startAt := obfuscation.EncodeString("2024-01-01T00:00:00Z")
	endAt := obfuscation.EncodeString("2024-06-01T00:00:00Z")
	doc := `{
		"flags": {
			"` + obfuscation.FlagKeyPlainToObf("flag-a") + `": {
				"key": "` + obfuscation.FlagKeyPlainToObf("flag-a") + `",
				"enabled": true,
				"variationType": "BOOLEAN",
				"variations": {"` + obfuscation.EncodeString("on") + `": {"key": "` + obfuscation.EncodeString("on") + `", "value": true}},
				"totalShards": 10000,
				"allocations": [
					{
						"key": "alloc-1",
						"startAt": "` + startAt + `",
						"endAt": "` + endAt + `",
						"doLog": true,
						"splits": []
					}
				]
			}
		},
		"environment": {"name": "test"},
		"createdAt": "2024-01-01T00:00:00Z",
		"format": "CLIENT"
	}`

	cfg, err := Decode([]byte(doc), true)
	require.NoError(t, err, "obfuscated allocations with base64-encoded time windows must decode without error")

	alloc := cfg.FlagsByKey[obfuscation.FlagKeyPlainToObf("flag-a")].Allocations[0]
	require.NotNil(t, alloc.StartAt)
	require.NotNil(t, alloc.EndAt)
	require.True(t, alloc.StartAt.Time.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.True(t, alloc.EndAt.Time.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
}

func TestTimestampRoundTripsThroughEncode(t *testing.T) {
	cfg, err := Decode([]byte(plainDoc), false)
	require.NoError(t, err)

	reencoded, err := Encode(cfg)
	require.NoError(t, err)

	cfg2, err := Decode(reencoded, false)
	require.NoError(t, err)

	alloc := cfg2.FlagsByKey["flag-a"].Allocations[0]
	require.True(t, alloc.StartAt.Time.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}
