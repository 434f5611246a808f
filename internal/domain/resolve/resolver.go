// Package resolve turns free-text application names into launch commands by
// running the fuzzy matcher over the alias index.
package resolve

import (
	"go.uber.org/zap"

	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/alias"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/match"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/infrastructure/logging"
)

// Resolver resolves utterance text against the alias index with the
// configured acceptance threshold.
type Resolver struct {
	index   *alias.Index
	matcher *match.Matcher
	logger  *logging.Logger
}

// New creates a resolver. A nil matcher gets the default metric and
// threshold.
func New(index *alias.Index, matcher *match.Matcher, logger *logging.Logger) *Resolver {
	if matcher == nil {
		matcher = match.New(nil, 0)
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Resolver{index: index, matcher: matcher, logger: logger}
}

// Resolve matches name against the alias index. Found is false for a
// below-threshold best candidate; that is a normal outcome, not an error.
func (r *Resolver) Resolve(name string) match.Result {
	res := r.matcher.Match(name, r.index.Aliases())
	if res.Found {
		r.logger.Info("Resolved application",
			zap.String("query", name),
			zap.String("alias", res.Key),
			zap.String("command", res.Value),
			zap.Float64("score", res.Score),
		)
	} else {
		r.logger.Debug("No application match",
			zap.String("query", name),
			zap.Float64("best_score", res.Score),
		)
	}
	return res
}

// ResolveCommand is the narrow form of Resolve used by the process and
// window controllers.
func (r *Resolver) ResolveCommand(name string) (string, bool) {
	res := r.Resolve(name)
	return res.Value, res.Found
}

// Explain scores name against every alias. Diagnostics only.
func (r *Resolver) Explain(name string) []match.Result {
	aliases := r.index.Aliases()
	results := make([]match.Result, 0, len(aliases))
	for key, value := range aliases {
		score := r.matcher.Compare(name, key)
		results = append(results, match.Result{
			Key:   key,
			Value: value,
			Score: score,
			Found: r.matcher.Accept(score),
		})
	}
	return results
}

// Threshold returns the acceptance threshold in force.
func (r *Resolver) Threshold() float64 {
	return r.matcher.Threshold()
}

// Index exposes the backing alias index.
func (r *Resolver) Index() *alias.Index {
	return r.index
}
