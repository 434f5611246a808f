package bus

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/session"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/infrastructure/logging"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/infrastructure/monitoring"
)

// Engine handles the segmented intents delivered over the bus.
// *session.Orchestrator satisfies this.
type Engine interface {
	HandleLaunch(ctx context.Context, app string) bool
	HandleClose(ctx context.Context, app string) bool
}

// Client is the websocket adapter to the host message bus. It consumes
// intent envelopes, feeds them to the engine one at a time, and implements
// the engine's Prompter over dialog/ask/answer envelopes.
type Client struct {
	url        string
	engine     Engine
	logger     *logging.Logger
	metrics    *monitoring.Metrics
	askTimeout time.Duration

	writeMu sync.Mutex
	conn    *websocket.Conn

	pendingMu sync.Mutex
	pending   map[string]chan session.Answer

	intents chan Intent
	done    chan struct{}
}

// NewClient creates a bus client. The engine is attached afterwards with
// SetEngine since the orchestrator needs the client as its prompter.
func NewClient(url string, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Client{
		url:        url,
		logger:     logger,
		askTimeout: 15 * time.Second,
		pending:    make(map[string]chan session.Answer),
		intents:    make(chan Intent, 16),
		done:       make(chan struct{}),
	}
}

// WithMetrics adds metrics tracking to the client.
func (c *Client) WithMetrics(metrics *monitoring.Metrics) *Client {
	c.metrics = metrics
	return c
}

// SetEngine attaches the intent handler.
func (c *Client) SetEngine(engine Engine) {
	c.engine = engine
}

// Run connects to the bus and services it until ctx is done, reconnecting
// with backoff on connection loss. Intents are consumed by a single
// goroutine: one logical thread of control per request.
func (c *Client) Run(ctx context.Context) {
	go c.consume(ctx)

	backoff := time.Second
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
		if err != nil {
			c.logger.Warn("Bus connection failed",
				zap.String("url", c.url),
				zap.Duration("retry_in", backoff),
				zap.Error(err),
			)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}

		backoff = time.Second
		c.setConn(conn)
		c.setConnected(true)
		c.logger.Info("Connected to message bus", zap.String("url", c.url))

		c.readLoop(conn)

		c.setConnected(false)
		c.setConn(nil)
		conn.Close()
	}
}

// Close stops the client.
func (c *Client) Close() {
	close(c.done)
	c.writeMu.Lock()
	if c.conn != nil {
		c.conn.Close()
	}
	c.writeMu.Unlock()
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.logger.Warn("Bus read error", zap.Error(err))
			return
		}

		envelope, err := Decode(data)
		if err != nil {
			c.logger.Debug("Dropping malformed envelope", zap.Error(err))
			continue
		}
		c.recordMessage(envelope.Type, "in")

		switch envelope.Type {
		case TypeIntent:
			intent, err := DecodeIntent(envelope)
			if err != nil {
				c.logger.Debug("Dropping malformed intent", zap.Error(err))
				continue
			}
			select {
			case c.intents <- intent:
			default:
				c.logger.Warn("Intent queue full, dropping request",
					zap.String("application", intent.Application),
				)
			}

		case TypeAnswer:
			answer, err := DecodeAnswer(envelope)
			if err != nil {
				continue
			}
			c.deliverAnswer(answer)

		default:
			c.logger.Debug("Ignoring envelope", zap.String("type", envelope.Type))
		}
	}
}

func (c *Client) consume(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case intent := <-c.intents:
			c.dispatch(ctx, intent)
		}
	}
}

func (c *Client) dispatch(ctx context.Context, intent Intent) {
	if c.engine == nil {
		return
	}
	c.logger.Info("Intent received",
		zap.String("action", intent.Action),
		zap.String("application", intent.Application),
		zap.String("lang", intent.Lang),
	)

	switch intent.Action {
	case "launch":
		c.engine.HandleLaunch(ctx, intent.Application)
	case "close":
		c.engine.HandleClose(ctx, intent.Application)
	default:
		c.logger.Debug("Unknown intent action", zap.String("action", intent.Action))
	}
}

// Notify implements session.Prompter.
func (c *Client) Notify(_ context.Context, dialog string, data map[string]string) {
	payload := map[string]interface{}{"name": dialog}
	if len(data) > 0 {
		values := make(map[string]interface{}, len(data))
		for k, v := range data {
			values[k] = v
		}
		payload["data"] = values
	}
	c.send(Envelope{Type: TypeDialog, Data: payload})
}

// AskYesNo implements session.Prompter: emit the question, block for the
// answer envelope, and map silence to AnswerNone so the orchestrator's
// retry policy owns the outcome.
func (c *Client) AskYesNo(ctx context.Context, dialog string) session.Answer {
	id := uuid.New().String()
	ch := make(chan session.Answer, 1)

	c.pendingMu.Lock()
	c.pending[id] = ch
	c.pendingMu.Unlock()
	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
	}()

	if !c.send(Envelope{Type: TypeAsk, Data: map[string]interface{}{"session": id, "name": dialog}}) {
		return session.AnswerNone
	}

	select {
	case answer := <-ch:
		return answer
	case <-time.After(c.askTimeout):
		return session.AnswerNone
	case <-ctx.Done():
		return session.AnswerNone
	case <-c.done:
		return session.AnswerNone
	}
}

// Acknowledge implements session.Prompter.
func (c *Client) Acknowledge(context.Context) {
	c.send(Envelope{Type: TypeAck})
}

func (c *Client) deliverAnswer(answer Answer) {
	c.pendingMu.Lock()
	ch, ok := c.pending[answer.Session]
	c.pendingMu.Unlock()
	if !ok {
		c.logger.Debug("Answer for unknown session", zap.String("session", answer.Session))
		return
	}

	var mapped session.Answer
	switch strings.ToLower(strings.TrimSpace(answer.Answer)) {
	case "yes":
		mapped = session.AnswerYes
	case "no":
		mapped = session.AnswerNo
	default:
		mapped = session.AnswerNone
	}

	select {
	case ch <- mapped:
	default:
	}
}

func (c *Client) send(envelope Envelope) bool {
	data, err := Encode(envelope)
	if err != nil {
		c.logger.Error("Failed to encode envelope", zap.Error(err))
		return false
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.conn == nil {
		c.logger.Debug("Bus not connected, dropping envelope", zap.String("type", envelope.Type))
		return false
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.logger.Warn("Bus write failed", zap.Error(err))
		return false
	}
	c.recordMessage(envelope.Type, "out")
	return true
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.writeMu.Lock()
	c.conn = conn
	c.writeMu.Unlock()
}

func (c *Client) setConnected(up bool) {
	if c.metrics != nil {
		c.metrics.SetBusConnected(up)
	}
}

func (c *Client) recordMessage(msgType, direction string) {
	if c.metrics != nil {
		c.metrics.RecordBusMessage(msgType, direction)
	}
}
