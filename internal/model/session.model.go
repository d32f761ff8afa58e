package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionTTL is the rolling lifetime of a conversation. Any state
// transition pushes the expiry forward by this much.
const SessionTTL = 24 * time.Hour

// SessionState is the position of a conversation in the dialogue machine.
type SessionState string

const (
	StateInitial       SessionState = "initial"
	StateMenu          SessionState = "menu"
	StateProducts      SessionState = "products"
	StateOrderStatus   SessionState = "order_status"
	StateFAQ           SessionState = "faq"
	StateHumanTransfer SessionState = "human_transfer"
)

// SessionStates lists every valid state. Handler tables are checked against
// it so a new state cannot be added without a handler.
var SessionStates = []SessionState{
	StateInitial,
	StateMenu,
	StateProducts,
	StateOrderStatus,
	StateFAQ,
	StateHumanTransfer,
}

type ContextKind string

const (
	ContextString ContextKind = "string"
	ContextNumber ContextKind = "number"
	ContextIDList ContextKind = "ids"
	ContextMap    ContextKind = "map"
)

// ContextValue is a small tagged union for per-state conversational data
// (last search term, cart product ids, ...). Keeping the shape closed makes
// session persistence and test assertions deterministic.
type ContextValue struct {
	Kind ContextKind       `json:"kind"`
	Str  string            `json:"str,omitempty"`
	Num  float64           `json:"num,omitempty"`
	IDs  []string          `json:"ids,omitempty"`
	Map  map[string]string `json:"map,omitempty"`
}

func StringValue(s string) ContextValue {
	return ContextValue{Kind: ContextString, Str: s}
}

func NumberValue(n float64) ContextValue {
	return ContextValue{Kind: ContextNumber, Num: n}
}

func IDListValue(ids []string) ContextValue {
	return ContextValue{Kind: ContextIDList, IDs: ids}
}

func MapValue(m map[string]string) ContextValue {
	return ContextValue{Kind: ContextMap, Map: m}
}

// Session is the mutable conversational record of one customer. A session
// whose ExpiresAt lies in the past is treated as absent by every lookup; at
// most one non-expired session exists per customer.
type Session struct {
	ID         string                  `json:"id"`
	CustomerID string                  `json:"customer_id"`
	State      SessionState            `json:"state"`
	Context    map[string]ContextValue `json:"context"`
	CreatedAt  time.Time               `json:"created_at"`
	UpdatedAt  time.Time               `json:"updated_at"`
	ExpiresAt  time.Time               `json:"expires_at"`
}

func NewSession(customerID string) *Session {
	now := time.Now()
	return &Session{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		State:      StateInitial,
		Context:    make(map[string]ContextValue),
		CreatedAt:  now,
		UpdatedAt:  now,
		ExpiresAt:  now.Add(SessionTTL),
	}
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

func (s *Session) TimeUntilExpiration() time.Duration {
	remaining := time.Until(s.ExpiresAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// UpdateState moves the dialogue to a new state and renews the expiry.
func (s *Session) UpdateState(newState SessionState) {
	s.State = newState
	s.UpdatedAt = time.Now()
	s.ExpiresAt = time.Now().Add(SessionTTL)
}

// Renew pushes the expiry forward without changing state.
func (s *Session) Renew() {
	s.UpdatedAt = time.Now()
	s.ExpiresAt = time.Now().Add(SessionTTL)
}

// SetContext stores a value in the context bag. Context writes touch
// UpdatedAt but do not extend the expiry on their own.
func (s *Session) SetContext(key string, value ContextValue) {
	if s.Context == nil {
		s.Context = make(map[string]ContextValue)
	}
	s.Context[key] = value
	s.UpdatedAt = time.Now()
}

func (s *Session) GetContext(key string, def ContextValue) ContextValue {
	if v, ok := s.Context[key]; ok {
		return v
	}
	return def
}

func (s *Session) HasContext(key string) bool {
	_, ok := s.Context[key]
	return ok
}

func (s *Session) RemoveContext(key string) {
	delete(s.Context, key)
	s.UpdatedAt = time.Now()
}

func (s *Session) ClearContext() {
	s.Context = make(map[string]ContextValue)
	s.UpdatedAt = time.Now()
}
