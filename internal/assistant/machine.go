package assistant

import (
	"fmt"
	"slices"
	"sync"

	"github.com/hafizhannan/baatcheet/internal/bus"
)

// State represents an assistant runtime state.
type State string

const (
	Idle        State = "IDLE"
	Listening   State = "LISTENING"
	Recognizing State = "RECOGNIZING"
)

// validTransitions defines allowed state transitions.
var validTransitions = map[State][]State{
	Idle:        {Listening},
	Listening:   {Recognizing, Idle},
	Recognizing: {Listening, Idle},
}

// Machine tracks and enforces assistant state transitions.
type Machine struct {
	mu      sync.RWMutex
	current State
	bus     *bus.Bus
}

// NewMachine creates a new state machine starting in Idle state.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{
		current: Idle,
		bus:     b,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition attempts to move to a new state. Returns error if transition is invalid.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == to {
		return nil
	}
	allowed := validTransitions[m.current]
	if !slices.Contains(allowed, to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	if m.bus != nil {
		m.bus.Publish(bus.Now(bus.KindAssistantState, StateChange{From: from, To: to}))
	}
	return nil
}

// StateChange is the payload for assistant state change events.
type StateChange struct {
	From State
	To   State
}
