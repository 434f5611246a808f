package window

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/manifest"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/match"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/process"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/infrastructure/logging"
)

// Osascript drives macOS applications through the AppleScript bridge.
// Window ids are application names: System Events exposes per-application
// activation and quit, not per-window handles.
type Osascript struct {
	tool     string
	runner   Runner
	resolver Resolver
	procs    process.Lister
	matcher  *match.Matcher
	logger   *logging.Logger
}

// NewOsascript creates the macOS backend.
func NewOsascript(tool string, runner Runner, resolver Resolver, procs process.Lister, logger *logging.Logger) *Osascript {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Osascript{
		tool:     tool,
		runner:   runner,
		resolver: resolver,
		procs:    procs,
		matcher:  match.NewProcess(),
		logger:   logger,
	}
}

// Available implements Controller.
func (o *Osascript) Available() bool { return true }

const listForegroundApps = `tell application "System Events" to get name of every process whose background only is false`

// Find implements Controller.
func (o *Osascript) Find(ctx context.Context, app string) []Window {
	command, ok := o.resolver.ResolveCommand(app)
	if !ok {
		return nil
	}
	base := manifest.ExecBasename(command)

	out, err := o.runner.Run(ctx, o.tool, "-e", listForegroundApps)
	if err != nil {
		o.logger.Warn("osascript list failed", zap.Error(err))
		return nil
	}

	byName := make(map[string]process.Handle)
	if o.procs != nil {
		for _, handle := range o.procs.Snapshot() {
			byName[handle.Name] = handle
		}
	}

	var windows []Window
	for _, name := range strings.Split(strings.TrimSpace(out), ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		win := Window{
			ID:    name,
			Title: name,
			Score: o.matcher.Compare(base, name),
		}
		if handle, known := byName[name]; known {
			win.PID = handle.PID
			win.Created = handle.Created
		}
		windows = append(windows, win)
	}

	return bestTier(windows, o.matcher)
}

// Activate implements Controller.
func (o *Osascript) Activate(ctx context.Context, id string) bool {
	return o.tell(ctx, id, "activate")
}

// Close implements Controller.
func (o *Osascript) Close(ctx context.Context, id string) bool {
	return o.tell(ctx, id, "quit")
}

func (o *Osascript) tell(ctx context.Context, app, verb string) bool {
	script := fmt.Sprintf("tell application %q to %s", app, verb)
	if _, err := o.runner.Run(ctx, o.tool, "-e", script); err != nil {
		o.logger.Warn("osascript failed",
			zap.String("app", app),
			zap.String("verb", verb),
			zap.Error(err),
		)
		return false
	}
	return true
}
