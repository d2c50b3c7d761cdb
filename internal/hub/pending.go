package hub

import "time"

// RequestKind classifies an outstanding request for logging and
// teardown accounting.
type RequestKind int

const (
	KindAuth RequestKind = iota
	KindGetStates
	KindSubscribeEvents
)

func (k RequestKind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindGetStates:
		return "get_states"
	case KindSubscribeEvents:
		return "subscribe_events"
	default:
		return "unknown"
	}
}

// PendingRequest tracks one in-flight command awaiting its correlated
// response. Created when the request is sent; removed when the matching
// response arrives or the connection is torn down, in which case it
// fails as cancelled.
//
// Request ids increase monotonically and are unique per connection
// lifetime. The auth command is the one exception: it carries no id on
// the wire and correlates by response type, so it is tracked under id 0.
type PendingRequest struct {
	ID        int64
	Kind      RequestKind
	CreatedAt time.Time
}

// registerPending records an in-flight request.
func (s *Session) registerPending(id int64, kind RequestKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[id] = &PendingRequest{
		ID:        id,
		Kind:      kind,
		CreatedAt: time.Now(),
	}
}

// takePending matches and removes the request for a response id.
// A miss means an unmatched or late response; the caller discards it
// without error.
func (s *Session) takePending(id int64) (*PendingRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.pending[id]
	if ok {
		delete(s.pending, id)
	}
	return req, ok
}

// failPending abandons every outstanding request at connection teardown
// and returns how many were cancelled.
func (s *Session) failPending() int {
	s.mu.Lock()
	abandoned := make([]*PendingRequest, 0, len(s.pending))
	for _, req := range s.pending {
		abandoned = append(abandoned, req)
	}
	s.pending = make(map[int64]*PendingRequest)
	s.mu.Unlock()

	for _, req := range abandoned {
		s.logger.Warn("pending request cancelled",
			"id", req.ID,
			"kind", req.Kind.String(),
			"age", time.Since(req.CreatedAt).String(),
			"error", ErrCancelled,
		)
	}
	return len(abandoned)
}

// PendingCount reports the number of in-flight requests. Zero whenever
// the session is idle in Live state or fully torn down.
func (s *Session) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// nextRequestID returns the next monotonically increasing command id
// for the current connection.
func (s *Session) nextRequestID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return s.nextID
}
