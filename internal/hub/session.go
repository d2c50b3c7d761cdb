package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/nerrad567/hearth/internal/entity"
)

// maxConsecutiveProtocolErrors is the defensive tolerance for malformed
// or unexpected frames. One bad frame is logged and skipped; this many
// in a row tear the connection down and feed the reconnect cycle.
const maxConsecutiveProtocolErrors = 8

// Conn is the transport the session drives: one physical connection
// moving one JSON object per frame. Satisfied by *socket.Conn.
type Conn interface {
	ReadFrame(ctx context.Context) ([]byte, error)
	WriteFrame(ctx context.Context, payload []byte) error
	Close() error
}

// Dialer opens transport connections. Satisfied by DialerFunc wrapping
// socket.Dial; tests substitute in-memory fakes.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context, url string) (Conn, error)

func (f DialerFunc) Dial(ctx context.Context, url string) (Conn, error) {
	return f(ctx, url)
}

// Logger defines the logging interface used by the Session.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// StatusListener receives coarse connection state changes for the UI
// stale marker. Invoked from the session goroutine; must not block.
type StatusListener func(Status)

// Options configures a Session.
type Options struct {
	// URL is the hub WebSocket endpoint.
	URL string

	// Token is the long-lived access token.
	Token string

	// HandshakeTimeout bounds the auth phase of each connection.
	HandshakeTimeout time.Duration

	// InitialDelay and MaxDelay shape the reconnect backoff.
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

func (o Options) withDefaults() Options {
	if o.HandshakeTimeout <= 0 {
		o.HandshakeTimeout = 10 * time.Second
	}
	if o.InitialDelay <= 0 {
		o.InitialDelay = time.Second
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = 30 * time.Second
	}
	return o
}

// Session is the protocol state machine driving one logical hub
// connection: authenticate, fetch the full-state snapshot, subscribe to
// state_changed events, then apply events to the registry until the
// connection drops, then start over.
//
// Thread Safety:
//   - Run owns all transport I/O and is the registry's single writer.
//   - State, PendingCount and the status listener are safe to consult
//     from other goroutines.
type Session struct {
	opts     Options
	dialer   Dialer
	registry *entity.Registry
	logger   Logger
	status   StatusListener

	mu             sync.Mutex
	state          State
	pending        map[int64]*PendingRequest
	nextID         int64
	subscriptionID int64
	protoErrs      int
}

// NewSession creates a protocol session bound to a registry.
func NewSession(opts Options, dialer Dialer, registry *entity.Registry) *Session {
	return &Session{
		opts:     opts.withDefaults(),
		dialer:   dialer,
		registry: registry,
		logger:   noopLogger{},
		pending:  make(map[int64]*PendingRequest),
		state:    StateDisconnected,
	}
}

// SetLogger sets the logger for the session.
func (s *Session) SetLogger(logger Logger) {
	s.logger = logger
}

// OnStatus registers the connection status listener. Wire it up before
// calling Run.
func (s *Session) OnStatus(fn StatusListener) {
	s.status = fn
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Run drives the connect/handshake/snapshot/subscribe/live loop until
// ctx is cancelled or the hub rejects the token.
//
// Transport and protocol failures are handled locally: the registry is
// flagged stale, pending requests are cancelled, and the session redials
// with exponential backoff (jittered, capped). Only ErrAuthInvalid
// propagates; retrying a known-bad token is pointless.
//
// Returns:
//   - error: ctx.Err() on shutdown, or ErrAuthInvalid
func (s *Session) Run(ctx context.Context) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.opts.InitialDelay
	bo.MaxInterval = s.opts.MaxDelay
	bo.MaxElapsedTime = 0

	for {
		wasLive, err := s.runConnection(ctx)

		if errors.Is(err, ErrAuthInvalid) {
			s.logger.Error("hub rejected access token", "error", err)
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		// Transient: keep last-known data on screen, flagged stale.
		s.registry.MarkStale()
		s.notifyStatus(StatusStale)

		if wasLive {
			// A healthy connection resets the schedule so a blip
			// reconnects quickly.
			bo.Reset()
		}

		wait := bo.NextBackOff()
		s.logger.Warn("connection lost, reconnecting",
			"error", err,
			"backoff", wait.String(),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// runConnection executes one full connection lifecycle. It reports
// whether the connection reached Live, so Run can reset the backoff.
func (s *Session) runConnection(ctx context.Context) (wasLive bool, err error) {
	s.resetConnection()
	s.setState(StateConnecting)

	conn, err := s.dialer.Dial(ctx, s.opts.URL)
	if err != nil {
		s.setState(StateDisconnected)
		return false, err
	}

	defer func() {
		_ = conn.Close()
		if n := s.failPending(); n > 0 {
			s.logger.Debug("abandoned in-flight requests", "count", n)
		}
		s.setState(StateDisconnected)
	}()

	if err := s.handshake(ctx, conn); err != nil {
		return false, err
	}

	if err := s.requestSnapshot(ctx, conn); err != nil {
		return false, err
	}

	return s.receiveLoop(ctx, conn)
}

// handshake waits for auth_required, submits the token and waits for
// the verdict. The whole phase is bounded by HandshakeTimeout; silence
// is a connect failure, not a hang.
func (s *Session) handshake(ctx context.Context, conn Conn) error {
	hctx, cancel := context.WithTimeout(ctx, s.opts.HandshakeTimeout)
	defer cancel()

	s.setState(StateAwaitingAuthRequired)

	frame, err := s.readHandshakeFrame(hctx, conn)
	if err != nil {
		return err
	}
	if frame.Type != msgAuthRequired {
		return fmt.Errorf("%w: expected %s, got %s", ErrHandshake, msgAuthRequired, frame.Type)
	}

	payload, err := json.Marshal(authFrame{Type: cmdAuth, AccessToken: s.opts.Token})
	if err != nil {
		return fmt.Errorf("%w: encoding auth: %w", ErrHandshake, err)
	}
	if err := conn.WriteFrame(hctx, payload); err != nil {
		return fmt.Errorf("%w: sending auth: %w", ErrHandshake, err)
	}
	s.registerPending(0, KindAuth)
	s.setState(StateAwaitingAuthResult)

	frame, err = s.readHandshakeFrame(hctx, conn)
	if err != nil {
		return err
	}
	s.takePending(0)

	switch frame.Type {
	case msgAuthOK:
		s.logger.Info("authenticated with hub")
		return nil
	case msgAuthInvalid:
		return fmt.Errorf("%w: %s", ErrAuthInvalid, frame.Message)
	default:
		return fmt.Errorf("%w: expected auth result, got %s", ErrHandshake, frame.Type)
	}
}

func (s *Session) readHandshakeFrame(ctx context.Context, conn Conn) (*serverFrame, error) {
	payload, err := conn.ReadFrame(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: timed out after %s", ErrHandshake, s.opts.HandshakeTimeout)
		}
		return nil, fmt.Errorf("%w: %w", ErrHandshake, err)
	}
	frame, err := decodeFrame(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHandshake, err)
	}
	return frame, nil
}

// requestSnapshot issues get_states for the initial full-state fetch.
func (s *Session) requestSnapshot(ctx context.Context, conn Conn) error {
	s.setState(StateFetchingSnapshot)
	return s.sendCommand(ctx, conn, commandFrame{
		ID:   s.nextRequestID(),
		Type: cmdGetStates,
	}, KindGetStates)
}

func (s *Session) sendCommand(ctx context.Context, conn Conn, cmd commandFrame, kind RequestKind) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", cmd.Type, err)
	}
	s.registerPending(cmd.ID, kind)
	if err := conn.WriteFrame(ctx, payload); err != nil {
		s.takePending(cmd.ID)
		return fmt.Errorf("sending %s: %w", cmd.Type, err)
	}
	s.logger.Debug("command sent", "id", cmd.ID, "type", cmd.Type)
	return nil
}

// receiveLoop decodes and dispatches inbound frames until the transport
// fails or ctx is cancelled. It is the registry's single writer.
func (s *Session) receiveLoop(ctx context.Context, conn Conn) (wasLive bool, err error) {
	for {
		payload, err := conn.ReadFrame(ctx)
		if err != nil {
			return wasLive, err
		}

		frame, err := decodeFrame(payload)
		if err != nil {
			if terr := s.noteProtocolError(err); terr != nil {
				return wasLive, terr
			}
			continue
		}

		switch frame.Type {
		case msgResult:
			if err := s.handleResult(ctx, conn, frame); err != nil {
				return wasLive, err
			}
		case msgEvent:
			if err := s.handleEvent(frame); err != nil {
				if terr := s.noteProtocolError(err); terr != nil {
					return wasLive, terr
				}
				continue
			}
		default:
			// Unknown message types are expected as the protocol
			// evolves; they are not errors.
			s.logger.Debug("ignoring message", "type", frame.Type)
		}

		s.clearProtocolErrors()
		if s.State() == StateLive {
			wasLive = true
		}
	}
}

// handleResult correlates a result frame with its pending request.
// Unmatched or late results are discarded without error: the protocol
// is asynchronous and may interleave traffic the session never asked
// about.
func (s *Session) handleResult(ctx context.Context, conn Conn, frame *serverFrame) error {
	req, ok := s.takePending(frame.ID)
	if !ok {
		s.logger.Debug("discarding unmatched result", "id", frame.ID)
		return nil
	}

	if frame.Success == nil || !*frame.Success {
		reason := "unknown"
		if frame.Error != nil {
			reason = frame.Error.Message
		}
		return fmt.Errorf("%w: %s (id %d): %s", ErrCommandFailed, req.Kind, req.ID, reason)
	}

	switch req.Kind {
	case KindGetStates:
		return s.applySnapshot(ctx, conn, frame.Result)
	case KindSubscribeEvents:
		s.setState(StateLive)
		s.notifyStatus(StatusConnected)
		s.logger.Info("subscription live", "subscription_id", req.ID)
		return nil
	default:
		return nil
	}
}

// applySnapshot bulk-loads the get_states result into the registry and
// issues the event subscription.
func (s *Session) applySnapshot(ctx context.Context, conn Conn, result json.RawMessage) error {
	var states []stateMessage
	if err := json.Unmarshal(result, &states); err != nil {
		return fmt.Errorf("%w: decoding snapshot: %w", ErrProtocol, err)
	}

	records := make([]entity.Record, 0, len(states))
	for i := range states {
		rec, err := states[i].record()
		if err != nil {
			// One malformed entity must not sink the snapshot.
			s.logger.Warn("skipping snapshot entity", "error", err)
			continue
		}
		records = append(records, rec)
	}

	s.registry.ApplySnapshot(records)
	s.logger.Info("snapshot loaded", "entities", len(records))

	s.setState(StateSubscribing)
	cmd := commandFrame{
		ID:        s.nextRequestID(),
		Type:      cmdSubscribeEvents,
		EventType: eventStateChanged,
	}

	// Events carry the subscribe command's id; remember it before the
	// acknowledgement so no event window is lost.
	s.mu.Lock()
	s.subscriptionID = cmd.ID
	s.mu.Unlock()

	return s.sendCommand(ctx, conn, cmd, KindSubscribeEvents)
}

// handleEvent applies one state_changed event to the registry as an
// upsert. Events for entities the registry has never seen insert new
// records; the hub may add entities at runtime.
func (s *Session) handleEvent(frame *serverFrame) error {
	s.mu.Lock()
	subID := s.subscriptionID
	s.mu.Unlock()

	if subID == 0 || frame.ID != subID {
		s.logger.Debug("discarding event for unknown subscription", "id", frame.ID)
		return nil
	}

	var event eventMessage
	if err := json.Unmarshal(frame.Event, &event); err != nil {
		return fmt.Errorf("%w: decoding event: %w", ErrProtocol, err)
	}

	if event.EventType != eventStateChanged {
		s.logger.Debug("ignoring event", "event_type", event.EventType)
		return nil
	}

	if event.Data.NewState == nil {
		// Entity removal; no deletion protocol is defined, the widget
		// simply stops updating.
		s.logger.Debug("ignoring state_changed without new_state", "entity_id", event.Data.EntityID)
		return nil
	}

	rec, err := event.Data.NewState.record()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProtocol, err)
	}

	s.registry.ApplyUpdate(rec)
	return nil
}

// noteProtocolError logs one tolerated protocol error and returns a
// terminal error once the consecutive threshold is crossed.
func (s *Session) noteProtocolError(err error) error {
	s.mu.Lock()
	s.protoErrs++
	count := s.protoErrs
	s.mu.Unlock()

	s.logger.Warn("protocol error", "error", err, "consecutive", count)

	if count >= maxConsecutiveProtocolErrors {
		return fmt.Errorf("%w: %d consecutive malformed frames", ErrProtocol, count)
	}
	return nil
}

func (s *Session) clearProtocolErrors() {
	s.mu.Lock()
	s.protoErrs = 0
	s.mu.Unlock()
}

// resetConnection clears per-connection correlation state. Request ids
// restart from 1 on every connection; the protocol cannot resume a
// subscription across connections.
func (s *Session) resetConnection() {
	s.mu.Lock()
	s.pending = make(map[int64]*PendingRequest)
	s.nextID = 0
	s.subscriptionID = 0
	s.protoErrs = 0
	s.mu.Unlock()
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	old := s.state
	s.state = state
	s.mu.Unlock()

	if old != state {
		s.logger.Debug("state transition", "from", old.String(), "to", state.String())
	}
}

func (s *Session) notifyStatus(status Status) {
	if s.status != nil {
		s.status(status)
	}
}
