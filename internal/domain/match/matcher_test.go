package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchExact(t *testing.T) {
	m := New(nil, 0.85)

	res := m.Match("Firefox", map[string]string{
		"Firefox":     "firefox",
		"Thunderbird": "thunderbird",
	})

	assert.True(t, res.Found)
	assert.Equal(t, "firefox", res.Value)
	assert.Equal(t, 1.0, res.Score)
}

func TestMatchCaseInsensitive(t *testing.T) {
	m := New(nil, 0.85)

	res := m.Match("firefox", map[string]string{"Firefox": "firefox"})
	assert.True(t, res.Found)
	assert.Equal(t, 1.0, res.Score)
}

func TestMatchBelowThreshold(t *testing.T) {
	m := New(nil, 0.85)

	res := m.Match("Spreadsheet", map[string]string{"Firefox": "firefox"})
	assert.False(t, res.Found)
}

func TestMatchEmptyCandidates(t *testing.T) {
	m := New(nil, 0.85)

	res := m.Match("Firefox", map[string]string{})
	assert.False(t, res.Found)
	assert.Zero(t, res.Score)
}

// canned metric scores by candidate key, ignoring the query.
func canned(scores map[string]float64) Metric {
	return MetricFunc(func(_, b string) float64 { return scores[b] })
}

func TestThresholdBoundary(t *testing.T) {
	candidates := map[string]string{"app": "app"}

	tests := []struct {
		name  string
		score float64
		found bool
	}{
		{"exactly at threshold accepted", 0.850, true},
		{"strictly below rejected", 0.849, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(canned(map[string]float64{"app": tt.score}), 0.85)
			res := m.Match("query", candidates)
			assert.Equal(t, tt.found, res.Found)
			assert.Equal(t, tt.score, res.Score)
		})
	}
}

func TestTieBreakDeterministic(t *testing.T) {
	// Both candidates score the same; the first key in sorted order wins.
	m := New(canned(map[string]float64{"alpha": 0.9, "beta": 0.9}), 0.85)

	for i := 0; i < 20; i++ {
		res := m.Match("query", map[string]string{"beta": "b", "alpha": "a"})
		assert.Equal(t, "alpha", res.Key)
	}
}

func TestProcessBar(t *testing.T) {
	m := NewProcess()
	assert.Equal(t, ProcessBar, m.Threshold())

	// "firefox-bin" vs "firefox" clears the process bar but would be a
	// closer call against the 0.85 alias threshold.
	score := m.Compare("firefox", "firefox")
	assert.Equal(t, 1.0, score)
}

func TestSorensenDiceWordOrder(t *testing.T) {
	dice := SorensenDice()
	lev := Levenshtein()

	a, b := "Mozilla Firefox", "Firefox Mozilla"
	assert.Greater(t, dice.Compare(a, b), lev.Compare(a, b))
}
