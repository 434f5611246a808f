package resolve

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/alias"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/manifest"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/match"
)

type sliceSource []manifest.Record

func (s sliceSource) Records() iter.Seq[manifest.Record] {
	return func(yield func(manifest.Record) bool) {
		for _, r := range s {
			if !yield(r) {
				return
			}
		}
	}
}

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	source := sliceSource{
		{ID: "firefox", DisplayNames: []string{"Firefox"}, Exec: "firefox %u", ExecBase: "firefox"},
		{ID: "gimp", DisplayNames: []string{"GIMP"}, Exec: "gimp-2.10", ExecBase: "gimp-2"},
	}
	index := alias.New(source, alias.Options{}, nil)
	return New(index, match.New(match.Levenshtein(), 0.85), nil)
}

func TestResolveExact(t *testing.T) {
	r := newResolver(t)

	res := r.Resolve("firefox")
	require.True(t, res.Found)
	assert.Equal(t, "firefox %u", res.Value)
	assert.Equal(t, 1.0, res.Score)
}

func TestResolveNearMiss(t *testing.T) {
	r := newResolver(t)

	// One edit away still clears 0.85 on a seven-letter name.
	res := r.Resolve("firefoxx")
	assert.True(t, res.Found)
	assert.Equal(t, "firefox %u", res.Value)
}

func TestResolveBelowThreshold(t *testing.T) {
	r := newResolver(t)

	res := r.Resolve("spreadsheet")
	assert.False(t, res.Found)
	assert.Less(t, res.Score, 0.85)
}

func TestResolveCommand(t *testing.T) {
	r := newResolver(t)

	command, ok := r.ResolveCommand("firefox")
	require.True(t, ok)
	assert.Equal(t, "firefox %u", command)

	_, ok = r.ResolveCommand("spreadsheet")
	assert.False(t, ok)
}

func TestExplainScoresEveryAlias(t *testing.T) {
	r := newResolver(t)

	results := r.Explain("firefox")
	assert.Len(t, results, len(r.Index().Aliases()))

	accepted := 0
	for _, res := range results {
		if res.Found {
			accepted++
		}
	}
	assert.GreaterOrEqual(t, accepted, 1)
}
