package internal

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ErrorMarker is the assistant turn shown when a chat turn fails
const ErrorMarker = "Error: could not get response"

// State is the controller's position in the conversation lifecycle
type State int

const (
	StateUninitialized State = iota
	StateIdle
	StateAwaitingReply
	StateResetting
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateIdle:
		return "idle"
	case StateAwaitingReply:
		return "awaiting_reply"
	case StateResetting:
		return "resetting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// SessionIdentity hands out the session id. IdentityStore implements it.
type SessionIdentity interface {
	Resolve() string
	Rotate() string
}

// EventType names a change in controller state
type EventType int

const (
	// EventStarted fires once the session id is known and history is loaded
	EventStarted EventType = iota
	// EventTurnAppended fires for every turn added by Send
	EventTurnAppended
	// EventRequestStateChanged fires when a reply starts or stops being awaited
	EventRequestStateChanged
	// EventReset fires after a successful reset
	EventReset
)

// Event describes one change. Observers run outside the controller lock, on
// the goroutine that made the change.
type Event struct {
	Type          EventType
	SessionID     string
	Turn          Turn
	AwaitingReply bool
}

// Reply is the outcome of a Send that was accepted
type Reply struct {
	// Turn is the assistant turn appended to the transcript: the answer, or
	// ErrorMarker when the backend call failed
	Turn Turn
	// Err is the backend failure behind an ErrorMarker turn, nil on success
	Err error
}

// Controller orchestrates the identity store, the gateway and the
// transcript. State transitions happen under one lock that is released only
// around network calls.
type Controller struct {
	mu         sync.Mutex
	identity   SessionIdentity
	gateway    Gateway
	transcript *Transcript
	sessionID  string
	state      State
	started    bool
	observers  []func(Event)
}

// ControllerOption configures a Controller
type ControllerOption func(*Controller)

// WithObserver registers fn to receive change events
func WithObserver(fn func(Event)) ControllerOption {
	return func(c *Controller) {
		c.observers = append(c.observers, fn)
	}
}

// NewController creates an uninitialized controller
func NewController(identity SessionIdentity, gateway Gateway, opts ...ControllerOption) *Controller {
	c := &Controller{
		identity:   identity,
		gateway:    gateway,
		transcript: NewTranscript(),
		state:      StateUninitialized,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Observe registers fn to receive change events
func (c *Controller) Observe(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Start resolves the session id and loads its history. A failed history
// fetch leaves the transcript empty. Start runs once.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.started = true
	id := c.identity.Resolve()
	c.sessionID = id
	c.mu.Unlock()

	log := Logger().WithField("session_id", id)
	log.Debug("Loading history")

	history, err := c.fetchHistory(ctx, id)
	if err != nil {
		log.WithError(err).Warn("no history or backend down")
		history = nil
	}

	c.mu.Lock()
	c.transcript.ReplaceAll(history)
	c.state = StateIdle
	c.mu.Unlock()

	log.Debugf("Loaded %d turns", len(history))
	c.emit(Event{Type: EventStarted, SessionID: id})
	return nil
}

// Send submits one user message. A refused send returns an error and changes
// nothing. An accepted send always appends the user turn and exactly one
// assistant turn, and always leaves the controller idle.
func (c *Controller) Send(ctx context.Context, input string) (Reply, error) {
	message := strings.TrimSpace(input)

	c.mu.Lock()
	if err := c.sendGuardLocked(message); err != nil {
		c.mu.Unlock()
		return Reply{}, err
	}
	user := UserTurn(message)
	c.transcript.Append(user)
	c.state = StateAwaitingReply
	id := c.sessionID
	c.mu.Unlock()

	defer c.finishRequest(id)

	c.emit(Event{Type: EventTurnAppended, SessionID: id, Turn: user})
	c.emit(Event{Type: EventRequestStateChanged, SessionID: id, AwaitingReply: true})

	answer, err := c.sendChatTurn(ctx, id, message)
	reply := Reply{Turn: AssistantTurn(answer)}
	if err != nil {
		Logger().WithField("session_id", id).WithError(err).Error("chat error")
		reply = Reply{Turn: AssistantTurn(ErrorMarker), Err: err}
	}

	c.mu.Lock()
	c.transcript.Append(reply.Turn)
	c.mu.Unlock()
	c.emit(Event{Type: EventTurnAppended, SessionID: id, Turn: reply.Turn})

	return reply, nil
}

func (c *Controller) sendGuardLocked(message string) error {
	switch c.state {
	case StateUninitialized:
		return ErrNotStarted
	case StateAwaitingReply:
		return ErrRequestInFlight
	case StateResetting:
		return ErrResetInProgress
	}
	if message == "" {
		return ErrEmptyInput
	}
	return nil
}

// finishRequest returns to idle after a send, whatever happened in between
func (c *Controller) finishRequest(id string) {
	c.mu.Lock()
	wasAwaiting := c.state == StateAwaitingReply
	if wasAwaiting {
		c.state = StateIdle
	}
	c.mu.Unlock()

	if wasAwaiting {
		c.emit(Event{Type: EventRequestStateChanged, SessionID: id, AwaitingReply: false})
	}
}

// Reset discards the session on the backend, then rotates the session id and
// clears the transcript. If the backend call fails nothing local changes.
// Reset is refused while a reply is awaited.
func (c *Controller) Reset(ctx context.Context) (string, error) {
	c.mu.Lock()
	switch c.state {
	case StateUninitialized:
		c.mu.Unlock()
		return "", ErrNotStarted
	case StateAwaitingReply:
		c.mu.Unlock()
		return "", ErrRequestInFlight
	case StateResetting:
		c.mu.Unlock()
		return "", ErrResetInProgress
	}
	c.state = StateResetting
	oldID := c.sessionID
	c.mu.Unlock()

	if err := c.resetSession(ctx, oldID); err != nil {
		c.mu.Lock()
		c.state = StateIdle
		c.mu.Unlock()
		Logger().WithField("session_id", oldID).WithError(err).Error("reset failed")
		return "", &ResetError{SessionID: oldID, Err: err}
	}

	c.mu.Lock()
	newID := c.identity.Rotate()
	c.sessionID = newID
	c.transcript.Clear()
	c.state = StateIdle
	c.mu.Unlock()

	Logger().WithField("session_id", newID).Infof("Session reset, previous %s", oldID)
	c.emit(Event{Type: EventReset, SessionID: newID})
	return newID, nil
}

// SessionID returns the current session id, empty before Start
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// State returns the current lifecycle state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// AwaitingReply reports whether a chat turn is in flight
func (c *Controller) AwaitingReply() bool {
	return c.State() == StateAwaitingReply
}

// Snapshot returns a read-only view of the transcript
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript.Snapshot()
}

// Conversation returns the session id together with a copy of its turns
func (c *Controller) Conversation() Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Conversation{SessionID: c.sessionID, Turns: c.transcript.Snapshot().Turns()}
}

func (c *Controller) emit(ev Event) {
	c.mu.Lock()
	observers := append([]func(Event){}, c.observers...)
	c.mu.Unlock()
	for _, fn := range observers {
		fn(ev)
	}
}

// The gateway wrappers turn a panic in a Gateway implementation into an
// ordinary failure so the transcript and request state stay consistent.

func (c *Controller) fetchHistory(ctx context.Context, id string) (turns []Turn, err error) {
	defer recoverGateway("history", &err)
	return c.gateway.FetchHistory(ctx, id)
}

func (c *Controller) sendChatTurn(ctx context.Context, id, message string) (answer string, err error) {
	defer recoverGateway("chat", &err)
	return c.gateway.SendChatTurn(ctx, id, message)
}

func (c *Controller) resetSession(ctx context.Context, id string) (err error) {
	defer recoverGateway("reset", &err)
	return c.gateway.ResetSession(ctx, id)
}

func recoverGateway(op string, err *error) {
	if r := recover(); r != nil {
		*err = &GatewayError{Op: op, Err: fmt.Errorf("panic: %v", r)}
	}
}
