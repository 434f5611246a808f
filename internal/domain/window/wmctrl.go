package window

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/manifest"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/match"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/process"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/infrastructure/logging"
)

// Wmctrl drives X11 window management through wmctrl(1).
type Wmctrl struct {
	tool     string
	runner   Runner
	resolver Resolver
	procs    process.Lister
	matcher  *match.Matcher
	logger   *logging.Logger
}

// NewWmctrl creates the Linux backend.
func NewWmctrl(tool string, runner Runner, resolver Resolver, procs process.Lister, logger *logging.Logger) *Wmctrl {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Wmctrl{
		tool:     tool,
		runner:   runner,
		resolver: resolver,
		procs:    procs,
		matcher:  match.NewProcess(),
		logger:   logger,
	}
}

// Available implements Controller.
func (w *Wmctrl) Available() bool { return true }

// Find implements Controller. Windows come from `wmctrl -lp`; each is
// scored by the better of process-name and title similarity against the
// resolved executable basename.
func (w *Wmctrl) Find(ctx context.Context, app string) []Window {
	command, ok := w.resolver.ResolveCommand(app)
	if !ok {
		return nil
	}
	base := manifest.ExecBasename(command)

	out, err := w.runner.Run(ctx, w.tool, "-lp")
	if err != nil {
		w.logger.Warn("wmctrl list failed", zap.Error(err))
		return nil
	}

	byPID := make(map[int32]process.Handle)
	if w.procs != nil {
		for _, handle := range w.procs.Snapshot() {
			byPID[handle.PID] = handle
		}
	}

	var windows []Window
	for _, line := range strings.Split(out, "\n") {
		win, ok := parseWmctrlLine(line)
		if !ok {
			continue
		}
		if handle, known := byPID[win.PID]; known {
			win.Created = handle.Created
			win.Score = w.matcher.Compare(base, handle.Name)
		}
		if titleScore := w.matcher.Compare(base, win.Title); titleScore > win.Score {
			win.Score = titleScore
		}
		windows = append(windows, win)
	}

	return bestTier(windows, w.matcher)
}

// Activate implements Controller.
func (w *Wmctrl) Activate(ctx context.Context, id string) bool {
	if _, err := w.runner.Run(ctx, w.tool, "-i", "-a", id); err != nil {
		w.logger.Warn("wmctrl activate failed", zap.String("window", id), zap.Error(err))
		return false
	}
	return true
}

// Close implements Controller.
func (w *Wmctrl) Close(ctx context.Context, id string) bool {
	if _, err := w.runner.Run(ctx, w.tool, "-i", "-c", id); err != nil {
		w.logger.Warn("wmctrl close failed", zap.String("window", id), zap.Error(err))
		return false
	}
	return true
}

// parseWmctrlLine parses one `wmctrl -lp` line:
//
//	0x04000007  0 1234   host Window Title
func parseWmctrlLine(line string) (Window, bool) {
	fields := strings.Fields(line)
	if len(fields) < 5 || !strings.HasPrefix(fields[0], "0x") {
		return Window{}, false
	}
	pid, err := strconv.ParseInt(fields[2], 10, 32)
	if err != nil {
		return Window{}, false
	}
	return Window{
		ID:    fields[0],
		PID:   int32(pid),
		Title: strings.Join(fields[4:], " "),
	}, true
}
