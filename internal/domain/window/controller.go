package window

import (
	"context"
	"os/exec"
	"runtime"
	"sort"
	"time"

	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/match"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/process"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/infrastructure/logging"
)

// Window is one enumerated window, annotated with its owning process where
// the platform exposes it.
type Window struct {
	ID      string
	PID     int32
	Created time.Time
	Title   string
	Score   float64
}

// Resolver turns an application name into a launch command.
type Resolver interface {
	ResolveCommand(name string) (command string, ok bool)
}

// Controller enumerates, activates, and closes windows. When the platform
// tool is unavailable every operation fails and callers fall back to the
// process controller; that degraded mode is deliberate, not an error.
type Controller interface {
	// Available reports whether window operations can work at all.
	Available() bool

	// Find returns the windows best matching app: every window scoring at
	// or above the bar, restricted to the single best score found (ties
	// kept, lower scores dropped), most recently created first.
	Find(ctx context.Context, app string) []Window

	// Activate raises the window. False on any tool failure.
	Activate(ctx context.Context, id string) bool

	// Close closes the window gracefully. False on any tool failure.
	Close(ctx context.Context, id string) bool
}

// Runner invokes the external platform tool. Non-zero exit is a failure.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs tools via os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	return string(out), err
}

// Detect picks the platform backend: wmctrl on Linux, osascript on macOS.
// A disabled configuration or an absent tool yields the failing no-op
// controller.
func Detect(resolver Resolver, procs process.Lister, disabled bool, logger *logging.Logger) Controller {
	if logger == nil {
		logger = logging.Nop()
	}
	if disabled {
		logger.Info("Window management disabled by configuration")
		return Disabled{}
	}

	tool := "wmctrl"
	if runtime.GOOS == "darwin" {
		tool = "osascript"
	}
	path, err := exec.LookPath(tool)
	if err != nil {
		logger.Warn("Window tool not found, falling back to process control")
		return Disabled{}
	}

	if runtime.GOOS == "darwin" {
		return NewOsascript(path, ExecRunner{}, resolver, procs, logger)
	}
	return NewWmctrl(path, ExecRunner{}, resolver, procs, logger)
}

// Disabled is the failing no-op controller.
type Disabled struct{}

// Available implements Controller.
func (Disabled) Available() bool { return false }

// Find implements Controller.
func (Disabled) Find(context.Context, string) []Window { return nil }

// Activate implements Controller.
func (Disabled) Activate(context.Context, string) bool { return false }

// Close implements Controller.
func (Disabled) Close(context.Context, string) bool { return false }

// bestTier filters scored windows to those at or above the bar, keeps only
// the subset sharing the single best score, and orders them most recently
// created first.
func bestTier(windows []Window, matcher *match.Matcher) []Window {
	best := -1.0
	for _, w := range windows {
		if matcher.Accept(w.Score) && w.Score > best {
			best = w.Score
		}
	}
	if best < 0 {
		return nil
	}

	var tier []Window
	for _, w := range windows {
		if w.Score == best {
			tier = append(tier, w)
		}
	}
	sort.SliceStable(tier, func(i, j int) bool {
		return tier[i].Created.After(tier[j].Created)
	})
	return tier
}
