// Package match implements fuzzy string matching with an acceptance
// threshold.
//
// The similarity algorithm is pluggable behind the Metric interface; the
// default is a normalized case-insensitive Levenshtein metric. Two matcher
// instances exist in practice: the alias matcher with the configurable
// threshold (default 0.85) and the process-name matcher with a fixed 0.8
// bar, since OS process names are noisier than catalog aliases.
//
// A best candidate scoring below the threshold is a normal "no match"
// outcome surfaced through Result.Found, never an error.
package match
