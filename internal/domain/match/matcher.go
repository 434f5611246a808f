package match

import (
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Metric scores the similarity of two strings in [0, 1]; 1 means equal.
// Implementations must be safe for concurrent use.
type Metric interface {
	Compare(a, b string) float64
}

// MetricFunc adapts a function to the Metric interface.
type MetricFunc func(a, b string) float64

// Compare implements Metric.
func (f MetricFunc) Compare(a, b string) float64 { return f(a, b) }

// Levenshtein returns the default metric: normalized, case-insensitive
// edit distance.
func Levenshtein() Metric {
	lev := metrics.NewLevenshtein()
	return MetricFunc(func(a, b string) float64 {
		return strutil.Similarity(strings.ToLower(a), strings.ToLower(b), lev)
	})
}

// SorensenDice returns a bigram-overlap metric. More forgiving of word
// reordering than edit distance; useful for window titles.
func SorensenDice() Metric {
	dice := metrics.NewSorensenDice()
	return MetricFunc(func(a, b string) float64 {
		return strutil.Similarity(strings.ToLower(a), strings.ToLower(b), dice)
	})
}

// Result is the outcome of a match. Found is false when the best score is
// strictly below the matcher's threshold; Value and Score then describe the
// rejected best candidate.
type Result struct {
	Key   string
	Value string
	Score float64
	Found bool
}

// ProcessBar is the fixed acceptance bar for process-name matching. OS
// process names are noisier than catalog aliases, so it sits below the
// configurable alias threshold.
const ProcessBar = 0.8

// Matcher resolves a query against candidate keys using a similarity metric
// and an acceptance threshold.
type Matcher struct {
	metric Metric
	thresh float64
}

// New creates a matcher. A nil metric defaults to Levenshtein; a threshold
// outside (0, 1] defaults to 0.85.
func New(metric Metric, thresh float64) *Matcher {
	if metric == nil {
		metric = Levenshtein()
	}
	if thresh <= 0 || thresh > 1 {
		thresh = 0.85
	}
	return &Matcher{metric: metric, thresh: thresh}
}

// NewProcess creates the process-name matcher with its fixed bar.
func NewProcess() *Matcher {
	return New(Levenshtein(), ProcessBar)
}

// Threshold returns the acceptance threshold.
func (m *Matcher) Threshold() float64 { return m.thresh }

// Compare scores a single pair with the matcher's metric.
func (m *Matcher) Compare(a, b string) float64 {
	return m.metric.Compare(a, b)
}

// Accept reports whether a score meets the threshold. Borderline scores
// count: a query scoring exactly at the threshold is accepted.
func (m *Matcher) Accept(score float64) bool {
	return score >= m.thresh
}

// Best returns the best-scoring candidate regardless of threshold.
// Candidates are scanned in sorted key order so ties are deterministic.
// ok is false only when candidates is empty.
func (m *Matcher) Best(query string, candidates map[string]string) (Result, bool) {
	if len(candidates) == 0 {
		return Result{}, false
	}

	keys := make([]string, 0, len(candidates))
	for key := range candidates {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	best := Result{Score: -1}
	for _, key := range keys {
		if score := m.metric.Compare(query, key); score > best.Score {
			best = Result{Key: key, Value: candidates[key], Score: score}
		}
	}
	return best, true
}

// Match resolves query against candidates and applies the threshold.
// A below-threshold best candidate is a normal no-match outcome, not an
// error: Found is false and the caller takes no action.
func (m *Matcher) Match(query string, candidates map[string]string) Result {
	best, ok := m.Best(query, candidates)
	if !ok {
		return Result{}
	}
	best.Found = m.Accept(best.Score)
	return best
}
