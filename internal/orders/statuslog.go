package orders

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hansbeauty/dashboard-backend/internal/purchases"
	pkgerrors "github.com/hansbeauty/dashboard-backend/pkg/errors"
)

// ValidStatuses are the order states the dashboard lets an operator assign.
var ValidStatuses = []string{"pending", "processing", "shipped", "delivered", "cancelled", "returned"}

// StatusLog keeps per-session order status overrides in memory. Edits are
// view state only: they are never sent upstream and vanish when the session
// expires. Each session records an undo history in application order.
type StatusLog struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
}

type session struct {
	overrides map[string]string
	history   []change
	touched   time.Time
}

type change struct {
	orderID  string
	previous string
	had      bool
}

// NewStatusLog builds a log whose sessions expire after the supplied TTL.
func NewStatusLog(ttl time.Duration) *StatusLog {
	return &StatusLog{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Set records a status override for the order within the session.
func (l *StatusLog) Set(sessionID, orderID, status string) error {
	status = strings.ToLower(strings.TrimSpace(status))
	if !validStatus(status) {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").
			WithDetails(map[string]any{"status": status, "allowed": ValidStatuses})
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweepLocked()

	s := l.sessionLocked(sessionID)
	previous, had := s.overrides[orderID]
	s.history = append(s.history, change{orderID: orderID, previous: previous, had: had})
	s.overrides[orderID] = status
	s.touched = l.now()
	return nil
}

// Undo reverts the most recent change in the session, returning the affected
// order id. ok is false when there is nothing to undo.
func (l *StatusLog) Undo(sessionID string) (orderID string, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweepLocked()

	s, exists := l.sessions[sessionID]
	if !exists || len(s.history) == 0 {
		return "", false
	}

	last := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	if last.had {
		s.overrides[last.orderID] = last.previous
	} else {
		delete(s.overrides, last.orderID)
	}
	s.touched = l.now()
	return last.orderID, true
}

// Overrides returns a copy of the session's current override map.
func (l *StatusLog) Overrides(sessionID string) map[string]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweepLocked()

	out := make(map[string]string)
	if s, exists := l.sessions[sessionID]; exists {
		for k, v := range s.overrides {
			out[k] = v
		}
	}
	return out
}

// Apply returns a copy of the purchase list with the session's overrides
// merged in; the input is never mutated.
func (l *StatusLog) Apply(sessionID string, ps []purchases.Purchase) []purchases.Purchase {
	overrides := l.Overrides(sessionID)

	out := make([]purchases.Purchase, len(ps))
	copy(out, ps)
	if len(overrides) == 0 {
		return out
	}

	for i := range out {
		key := orderKey(out[i])
		if key == "" {
			continue
		}
		if status, ok := overrides[key]; ok {
			s := status
			out[i].Status = &s
		}
	}
	return out
}

func (l *StatusLog) sessionLocked(sessionID string) *session {
	s, exists := l.sessions[sessionID]
	if !exists {
		s = &session{overrides: make(map[string]string)}
		l.sessions[sessionID] = s
	}
	return s
}

func (l *StatusLog) sweepLocked() {
	if l.ttl <= 0 {
		return
	}
	cutoff := l.now().Add(-l.ttl)
	for id, s := range l.sessions {
		if s.touched.Before(cutoff) && !s.touched.IsZero() {
			delete(l.sessions, id)
		}
	}
}

func orderKey(p purchases.Purchase) string {
	if p.ID != nil {
		return strconv.FormatInt(*p.ID, 10)
	}
	if p.ExternalID != nil {
		return *p.ExternalID
	}
	return ""
}

func validStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}
