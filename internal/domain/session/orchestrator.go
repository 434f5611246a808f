package session

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/activity"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/launch"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/process"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/resolve"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/window"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/infrastructure/logging"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/infrastructure/monitoring"
)

// Answer is a yes/no prompt outcome. AnswerNone covers timeouts and
// anything that is neither yes nor no.
type Answer int

// Prompt outcomes.
const (
	AnswerNone Answer = iota
	AnswerYes
	AnswerNo
)

// Dialog names exchanged with the prompt mechanism.
const (
	DialogAlreadyRunning = "already_running"
	DialogConfirmSwitch  = "confirm_switch"
	DialogConfirmLaunch  = "confirm_launch"
)

// maxAskRetries bounds each yes/no question: a non-answer retries the
// question, and an exhausted retry budget falls through to the default
// action instead of hanging. Forward progress over strict correctness.
const maxAskRetries = 5

// Prompter is the conversational collaborator: dialog output and blocking
// yes/no questions, supplied by the bus adapter in production and by canned
// sequences in tests.
type Prompter interface {
	Notify(ctx context.Context, dialog string, data map[string]string)
	AskYesNo(ctx context.Context, dialog string) Answer
	Acknowledge(ctx context.Context)
}

// NopPrompter answers nothing. Used when the bus is disabled: every
// question exhausts its retries and takes the default action.
type NopPrompter struct{}

// Notify implements Prompter.
func (NopPrompter) Notify(context.Context, string, map[string]string) {}

// AskYesNo implements Prompter.
func (NopPrompter) AskYesNo(context.Context, string) Answer { return AnswerNone }

// Acknowledge implements Prompter.
func (NopPrompter) Acknowledge(context.Context) {}

// State identifies a position in the request state machine.
type State string

// Machine states.
const (
	StateIdle                 State = "idle"
	StateMatchApp             State = "match_app"
	StateLaunchDirect         State = "launch_direct"
	StateAlreadyRunningPrompt State = "already_running_prompt"
	StateCloseApp             State = "close_app"
	StateDone                 State = "done"
)

// Phase is the confirmation session's position inside
// StateAlreadyRunningPrompt.
type Phase string

// Confirmation phases.
const (
	PhaseAwaitingSwitchAnswer Phase = "awaiting_switch_answer"
	PhaseAwaitingLaunchAnswer Phase = "awaiting_launch_answer"
	PhaseResolved             Phase = "resolved"
)

// Session is the ephemeral state of one "already running" confirmation
// flow. Created when a launch request targets a running application,
// destroyed once resolved.
type Session struct {
	ID    string
	App   string
	Phase Phase
}

// Orchestrator drives launch and close requests through the state machine,
// delegating to the window controller where available and degrading to
// process control where not.
type Orchestrator struct {
	resolver *resolve.Resolver
	spawner  *launch.Spawner
	procs    *process.Controller
	windows  window.Controller
	prompter Prompter
	activity *activity.Log
	metrics  *monitoring.Metrics

	terminateAll bool
	logger       *logging.Logger
}

// New creates an orchestrator.
func New(
	resolver *resolve.Resolver,
	spawner *launch.Spawner,
	procs *process.Controller,
	windows window.Controller,
	prompter Prompter,
	log *activity.Log,
	terminateAll bool,
	logger *logging.Logger,
) *Orchestrator {
	if windows == nil {
		windows = window.Disabled{}
	}
	if prompter == nil {
		prompter = NopPrompter{}
	}
	if log == nil {
		log = activity.NewLog(0)
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Orchestrator{
		resolver:     resolver,
		spawner:      spawner,
		procs:        procs,
		windows:      windows,
		prompter:     prompter,
		activity:     log,
		terminateAll: terminateAll,
		logger:       logger,
	}
}

// WithMetrics adds metrics tracking to the orchestrator.
func (o *Orchestrator) WithMetrics(metrics *monitoring.Metrics) *Orchestrator {
	o.metrics = metrics
	return o
}

// HandleLaunch runs the launch state machine for a free-text application
// name. Returns true when the request terminated with an action (launch or
// switch) or a deliberate user "no".
func (o *Orchestrator) HandleLaunch(ctx context.Context, app string) bool {
	state := StateMatchApp
	o.logger.Debug("Launch request", zap.String("app", app))

	res := o.resolver.Resolve(app)
	if !res.Found {
		o.record(activity.KindNoMatch, app, "below threshold", false)
		return false
	}

	if !o.procs.IsRunning(app) {
		state = StateLaunchDirect
		o.logger.Debug("State transition", zap.String("state", string(state)))
		return o.launch(ctx, app, res.Value)
	}

	state = StateAlreadyRunningPrompt
	o.logger.Debug("State transition", zap.String("state", string(state)))
	return o.confirmRunning(ctx, app, res.Value)
}

// HandleClose runs the close state machine: graceful window close first
// when available, process termination as fallback.
func (o *Orchestrator) HandleClose(ctx context.Context, app string) bool {
	o.logger.Debug("Close request", zap.String("app", app))

	if o.windows.Available() {
		if windows := o.windows.Find(ctx, app); len(windows) > 0 {
			if o.windows.Close(ctx, windows[0].ID) {
				o.ack(ctx)
				o.record(activity.KindClose, app, "window", true)
				return true
			}
			o.logger.Warn("Window close failed, falling back to process termination",
				zap.String("app", app),
			)
		}
	}

	ok := o.procs.Terminate(app, o.terminateAll)
	if ok {
		o.ack(ctx)
	}
	o.record(activity.KindClose, app, "process", ok)
	return ok
}

// confirmRunning is the AlreadyRunningPrompt state: notify, then the
// bounded switch and launch questions.
func (o *Orchestrator) confirmRunning(ctx context.Context, app, command string) bool {
	session := Session{ID: uuid.New().String(), App: app}
	o.prompter.Notify(ctx, DialogAlreadyRunning, map[string]string{"application": app})

	if o.windows.Available() {
		session.Phase = PhaseAwaitingSwitchAnswer
		switch o.askBounded(ctx, &session, DialogConfirmSwitch) {
		case AnswerYes:
			session.Phase = PhaseResolved
			return o.switchTo(ctx, app)
		case AnswerNo, AnswerNone:
			// fall through to the launch question
		}
	}

	session.Phase = PhaseAwaitingLaunchAnswer
	answer := o.askBounded(ctx, &session, DialogConfirmLaunch)
	session.Phase = PhaseResolved

	if answer == AnswerNo {
		o.logger.Info("Launch declined", zap.String("app", app))
		return true
	}
	// yes, or exhausted retries: forward progress means launching
	return o.launch(ctx, app, command)
}

// askBounded repeats one yes/no question while the answer is neither yes
// nor no, up to the retry cap.
func (o *Orchestrator) askBounded(ctx context.Context, session *Session, dialog string) Answer {
	for attempt := 0; attempt < maxAskRetries; attempt++ {
		answer := o.prompter.AskYesNo(ctx, dialog)
		o.logger.Debug("User confirmation",
			zap.String("session", session.ID),
			zap.String("dialog", dialog),
			zap.Int("attempt", attempt+1),
			zap.Int("answer", int(answer)),
		)
		if answer == AnswerYes || answer == AnswerNo {
			return answer
		}
	}
	return AnswerNone
}

func (o *Orchestrator) launch(ctx context.Context, app, command string) bool {
	ok := o.spawner.Launch(command)
	if ok {
		o.ack(ctx)
	}
	o.record(activity.KindLaunch, app, command, ok)
	return ok
}

func (o *Orchestrator) switchTo(ctx context.Context, app string) bool {
	windows := o.windows.Find(ctx, app)
	if len(windows) == 0 {
		o.record(activity.KindSwitch, app, "no matching window", false)
		return false
	}
	ok := o.windows.Activate(ctx, windows[0].ID)
	if ok {
		o.ack(ctx)
	}
	o.record(activity.KindSwitch, app, windows[0].ID, ok)
	return ok
}

func (o *Orchestrator) ack(ctx context.Context) {
	if o.prompter != nil {
		o.prompter.Acknowledge(ctx)
	}
}

func (o *Orchestrator) record(kind activity.Kind, app, detail string, success bool) {
	o.activity.Record(kind, app, detail, success)
	if o.metrics != nil {
		o.metrics.RecordAction(string(kind), success)
	}
}
