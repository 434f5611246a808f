// Package diag provides resolution diagnostics: per-query score
// distributions and a gzip'd support bundle for bug reports.
package diag

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/match"
)

// Candidate is one scored alias in an explain report.
type Candidate struct {
	Alias    string  `json:"alias"`
	Command  string  `json:"command"`
	Score    float64 `json:"score"`
	Accepted bool    `json:"accepted"`
}

// ScoreStats summarizes the score distribution over all candidates.
type ScoreStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

// Explain is the full diagnostic for one query.
type Explain struct {
	Query      string      `json:"query"`
	Threshold  float64     `json:"threshold"`
	Candidates []Candidate `json:"candidates"`
	Stats      ScoreStats  `json:"stats"`
}

// BuildExplain turns raw match results into a report: candidates sorted by
// score descending (alias ascending on ties), truncated to topN, with
// summary statistics over the whole distribution.
func BuildExplain(query string, results []match.Result, threshold float64, topN int) Explain {
	candidates := make([]Candidate, 0, len(results))
	scores := make([]float64, 0, len(results))
	for _, res := range results {
		candidates = append(candidates, Candidate{
			Alias:    res.Key,
			Command:  res.Value,
			Score:    res.Score,
			Accepted: res.Found,
		})
		scores = append(scores, res.Score)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Alias < candidates[j].Alias
	})
	if topN > 0 && len(candidates) > topN {
		candidates = candidates[:topN]
	}

	return Explain{
		Query:      query,
		Threshold:  threshold,
		Candidates: candidates,
		Stats:      summarize(scores),
	}
}

func summarize(scores []float64) ScoreStats {
	if len(scores) == 0 {
		return ScoreStats{}
	}

	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)

	stdDev := 0.0
	if len(sorted) > 1 {
		stdDev = stat.StdDev(sorted, nil)
	}

	return ScoreStats{
		Count:  len(sorted),
		Mean:   stat.Mean(sorted, nil),
		StdDev: stdDev,
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
}
