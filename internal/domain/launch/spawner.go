package launch

import (
	"os/exec"
	"runtime"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"mvdan.cc/sh/v3/shell"

	"github.com/OpenVoiceOS/ovos-app-launcher/internal/infrastructure/logging"
)

// Spawner launches applications fire-and-forget: the spawned process is
// detached and never waited on for completion.
type Spawner struct {
	goos   string
	start  func(name string, args ...string) error
	logger *logging.Logger
}

// New creates a spawner for the current platform.
func New(logger *logging.Logger) *Spawner {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Spawner{goos: runtime.GOOS, logger: logger}
	s.start = s.startDetached
	return s
}

// NewWithStarter creates a spawner with an injected process starter.
func NewWithStarter(goos string, start func(name string, args ...string) error, logger *logging.Logger) *Spawner {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Spawner{goos: goos, start: start, logger: logger}
}

// Launch spawns the raw command from the alias index. Spawn failures are
// logged and surfaced as false; they never crash the caller.
func (s *Spawner) Launch(command string) bool {
	name, args, ok := s.commandLine(command)
	if !ok {
		s.logger.Warn("Unlaunchable command", zap.String("command", command))
		return false
	}

	if err := s.start(name, args...); err != nil {
		s.logger.Error("Launch failed",
			zap.String("command", command),
			zap.Error(err),
		)
		return false
	}

	s.logger.Info("Launched application", zap.String("command", command))
	return true
}

// commandLine turns a raw manifest command into an argv. On macOS
// everything goes through open(1), which handles bundle resolution; on
// Linux the desktop Exec line is shell-tokenized and stripped of
// freedesktop field codes.
func (s *Spawner) commandLine(command string) (string, []string, bool) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", nil, false
	}

	if s.goos == "darwin" {
		if strings.HasSuffix(command, ".app") || strings.ContainsRune(command, '/') {
			return "open", []string{command}, true
		}
		return "open", []string{"-a", command}, true
	}

	fields, err := shell.Fields(command, nil)
	if err != nil {
		// not shell syntax; fall back to whitespace splitting
		fields = strings.Fields(command)
	}
	fields = stripFieldCodes(fields)
	if len(fields) == 0 {
		return "", nil, false
	}
	return fields[0], fields[1:], true
}

// stripFieldCodes drops freedesktop Exec placeholders (%u, %F, ...) after
// tokenization. The launcher has no file or URL arguments to substitute.
func stripFieldCodes(fields []string) []string {
	kept := fields[:0]
	for _, field := range fields {
		if len(field) == 2 && field[0] == '%' && field != "%%" {
			continue
		}
		kept = append(kept, field)
	}
	return kept
}

// startDetached starts the process in its own session so the daemon's
// lifetime does not bound the application's.
func (s *Spawner) startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return err
	}
	// reap on exit without blocking the caller
	go cmd.Wait() //nolint:errcheck
	return nil
}
