package process

import (
	"iter"
	"sort"
	"time"

	gopsutil "github.com/shirou/gopsutil/v4/process"
	"go.uber.org/zap"

	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/manifest"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/match"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/infrastructure/logging"
)

// Handle describes one live process.
type Handle struct {
	PID      int32
	Name     string
	Created  time.Time
	Statuses []string

	kill func() error
}

// NewHandle constructs a handle with an explicit termination function.
// Intended for tests and alternate listers.
func NewHandle(pid int32, name string, created time.Time, statuses []string, kill func() error) Handle {
	return Handle{PID: pid, Name: name, Created: created, Statuses: statuses, kill: kill}
}

// Zombie reports whether the process is defunct. Zombies are never matched,
// even on a perfect name match: there is nothing left to switch to or
// terminate.
func (h Handle) Zombie() bool {
	for _, status := range h.Statuses {
		if status == gopsutil.Zombie {
			return true
		}
	}
	return false
}

// Terminate requests graceful termination.
func (h Handle) Terminate() error {
	if h.kill == nil {
		return nil
	}
	return h.kill()
}

// Lister snapshots the host process table.
type Lister interface {
	Snapshot() []Handle
}

// Resolver turns an application name into a launch command.
// *resolve.Resolver satisfies this through ResolveCommand.
type Resolver interface {
	ResolveCommand(name string) (command string, ok bool)
}

// Controller matches live processes to resolved applications and
// terminates them.
type Controller struct {
	resolver Resolver
	matcher  *match.Matcher
	lister   Lister
	logger   *logging.Logger
}

// New creates a process controller. A nil lister uses the host process
// table; the matcher defaults to the fixed process-name bar.
func New(resolver Resolver, lister Lister, logger *logging.Logger) *Controller {
	if lister == nil {
		lister = SystemLister{}
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Controller{
		resolver: resolver,
		matcher:  match.NewProcess(),
		lister:   lister,
		logger:   logger,
	}
}

// Find resolves app to a command and yields every live process whose name
// fuzzy-matches the command's executable basename, most recently launched
// first. Zombies are excluded. An unresolvable app yields nothing.
func (c *Controller) Find(app string) iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		command, ok := c.resolver.ResolveCommand(app)
		if !ok {
			return
		}
		base := manifest.ExecBasename(command)

		procs := c.lister.Snapshot()
		sort.SliceStable(procs, func(i, j int) bool {
			return procs[i].Created.After(procs[j].Created)
		})

		for _, proc := range procs {
			if proc.Zombie() {
				continue
			}
			if score := c.matcher.Compare(base, proc.Name); c.matcher.Accept(score) {
				if !yield(proc) {
					return
				}
			}
		}
	}
}

// IsRunning reports whether at least one live process matches app.
func (c *Controller) IsRunning(app string) bool {
	for range c.Find(app) {
		return true
	}
	return false
}

// Terminate requests termination of the process(es) matching app: the most
// recently launched one, or every match when all is true. Per-process
// failures (gone, access denied) are logged and non-fatal. Returns true iff
// at least one termination request succeeded.
func (c *Controller) Terminate(app string, all bool) bool {
	terminated := 0
	for proc := range c.Find(app) {
		c.logger.Info("Terminating process",
			zap.String("app", app),
			zap.String("name", proc.Name),
			zap.Int32("pid", proc.PID),
		)
		if err := proc.Terminate(); err != nil {
			c.logger.Warn("Failed to terminate process",
				zap.Int32("pid", proc.PID),
				zap.Error(err),
			)
		} else {
			terminated++
		}
		if !all {
			break
		}
	}
	return terminated > 0
}

// SystemLister reads the host process table via gopsutil.
type SystemLister struct{}

// Snapshot implements Lister. Processes whose metadata cannot be read
// (usually permission or exit races) are skipped.
func (SystemLister) Snapshot() []Handle {
	procs, err := gopsutil.Processes()
	if err != nil {
		return nil
	}

	handles := make([]Handle, 0, len(procs))
	for _, proc := range procs {
		name, err := proc.Name()
		if err != nil || name == "" {
			continue
		}
		created, err := proc.CreateTime()
		if err != nil {
			continue
		}
		statuses, _ := proc.Status()
		handles = append(handles, Handle{
			PID:      proc.Pid,
			Name:     name,
			Created:  time.UnixMilli(created),
			Statuses: statuses,
			kill:     proc.Terminate,
		})
	}
	return handles
}
