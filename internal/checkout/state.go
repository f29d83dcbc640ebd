package checkout

import (
	"encoding/json"
	"sync"
)

// Status is the submission state of the checkout screen.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// EventType names the signals a submission emits.
type EventType string

const (
	OrderRequestStarted   EventType = "order_request_started"
	OrderRequestSucceeded EventType = "order_request_succeeded"
	OrderRequestFailed    EventType = "order_request_failed"
)

// Event is one signal. Order is set only on OrderRequestSucceeded.
type Event struct {
	Type  EventType
	Order OrderResult
}

// State is what the surrounding application keeps about the current order.
type State struct {
	Status Status
	Order  OrderResult
}

// Reduce returns the state that follows s after e. Unknown events leave s
// unchanged.
func Reduce(s State, e Event) State {
	switch e.Type {
	case OrderRequestStarted:
		return State{Status: StatusPending}
	case OrderRequestSucceeded:
		order := make(json.RawMessage, len(e.Order))
		copy(order, e.Order)
		return State{Status: StatusSucceeded, Order: order}
	case OrderRequestFailed:
		return State{Status: StatusFailed}
	default:
		return s
	}
}

// Dispatcher receives submission signals.
type Dispatcher interface {
	Dispatch(Event)
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(Event)

func (f DispatcherFunc) Dispatch(e Event) { f(e) }

// Store folds dispatched events through Reduce. Updates are serialised.
type Store struct {
	mu     sync.RWMutex
	state  State
	events []Event
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Dispatch(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, e)
	s.events = append(s.events, e)
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Events returns every event dispatched so far, oldest first.
func (s *Store) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
