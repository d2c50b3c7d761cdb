package hub

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nerrad567/hearth/internal/entity"
)

// Inbound message types.
const (
	msgAuthRequired = "auth_required"
	msgAuthOK       = "auth_ok"
	msgAuthInvalid  = "auth_invalid"
	msgResult       = "result"
	msgEvent        = "event"
)

// Outbound command types.
const (
	cmdAuth            = "auth"
	cmdGetStates       = "get_states"
	cmdSubscribeEvents = "subscribe_events"
)

// eventStateChanged is the only event type the dashboard subscribes to.
const eventStateChanged = "state_changed"

// serverFrame is the envelope shared by every inbound message. Fields
// are populated depending on Type; unknown fields are ignored since the
// protocol grows new message types over time.
type serverFrame struct {
	ID      int64           `json:"id"`
	Type    string          `json:"type"`
	Success *bool           `json:"success,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Event   json.RawMessage `json:"event,omitempty"`
	Error   *frameError     `json:"error,omitempty"`

	// Message carries the human-readable reason on auth_invalid.
	Message string `json:"message,omitempty"`
}

// frameError is the error detail attached to a failed result.
type frameError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// eventMessage is the payload of a type:"event" frame.
type eventMessage struct {
	EventType string `json:"event_type"`
	Data      struct {
		EntityID string        `json:"entity_id"`
		NewState *stateMessage `json:"new_state"`
	} `json:"data"`
}

// stateMessage is the wire shape of one entity state, used both in
// get_states results and state_changed events.
type stateMessage struct {
	EntityID    string            `json:"entity_id"`
	State       string            `json:"state"`
	Attributes  entity.Attributes `json:"attributes"`
	LastChanged string            `json:"last_changed"`
	LastUpdated string            `json:"last_updated"`
}

// record converts a wire state into a registry record. Timestamps that
// fail to parse become zero values rather than errors; they are
// informational, not structural.
func (m *stateMessage) record() (entity.Record, error) {
	id, err := entity.ParseID(m.EntityID)
	if err != nil {
		return entity.Record{}, fmt.Errorf("entity id %q: %w", m.EntityID, err)
	}

	return entity.Record{
		ID:          id,
		State:       m.State,
		Attributes:  m.Attributes,
		LastChanged: parseTimestamp(m.LastChanged),
		LastUpdated: parseTimestamp(m.LastUpdated),
	}, nil
}

func parseTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func decodeFrame(payload []byte) (*serverFrame, error) {
	var frame serverFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		return nil, fmt.Errorf("%w: decoding frame: %w", ErrProtocol, err)
	}
	if frame.Type == "" {
		return nil, fmt.Errorf("%w: frame missing type", ErrProtocol)
	}
	return &frame, nil
}

// authFrame is the outbound authentication command. It carries no id:
// auth responses correlate by message type, not by request id.
type authFrame struct {
	Type        string `json:"type"`
	AccessToken string `json:"access_token"`
}

// commandFrame is the outbound shape for id-correlated commands.
type commandFrame struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	EventType string `json:"event_type,omitempty"`
}
