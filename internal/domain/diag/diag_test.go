package diag

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/match"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/infrastructure/config"
)

func TestBuildExplain(t *testing.T) {
	results := []match.Result{
		{Key: "Firefox", Value: "firefox", Score: 1.0, Found: true},
		{Key: "Thunderbird", Value: "thunderbird", Score: 0.4},
		{Key: "Files", Value: "nautilus", Score: 0.6},
	}

	explain := BuildExplain("firefox", results, 0.85, 2)

	assert.Equal(t, "firefox", explain.Query)
	assert.Equal(t, 0.85, explain.Threshold)
	require.Len(t, explain.Candidates, 2)
	assert.Equal(t, "Firefox", explain.Candidates[0].Alias)
	assert.True(t, explain.Candidates[0].Accepted)
	assert.Equal(t, "Files", explain.Candidates[1].Alias)

	// statistics cover the whole distribution, not just the top N
	assert.Equal(t, 3, explain.Stats.Count)
	assert.InDelta(t, 0.6667, explain.Stats.Mean, 0.001)
	assert.Equal(t, 0.4, explain.Stats.Min)
	assert.Equal(t, 1.0, explain.Stats.Max)
	assert.Equal(t, 0.6, explain.Stats.Median)
}

func TestBuildExplainEmpty(t *testing.T) {
	explain := BuildExplain("anything", nil, 0.85, 10)
	assert.Empty(t, explain.Candidates)
	assert.Zero(t, explain.Stats.Count)
}

func TestBundleRoundTrip(t *testing.T) {
	bundle := Bundle{
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		Fingerprint: "deadbeef",
		Settings:    config.DefaultSettings(),
		Aliases:     map[string]string{"Firefox": "firefox"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBundle(&buf, bundle))

	// gzip magic bytes
	require.GreaterOrEqual(t, buf.Len(), 2)
	assert.Equal(t, byte(0x1f), buf.Bytes()[0])
	assert.Equal(t, byte(0x8b), buf.Bytes()[1])

	decoded, err := ReadBundle(&buf)
	require.NoError(t, err)
	assert.Equal(t, bundle.Fingerprint, decoded.Fingerprint)
	assert.Equal(t, bundle.Aliases, decoded.Aliases)
}
