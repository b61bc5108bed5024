// Package lifecycle models entity status fields as explicit state machines
// instead of ad hoc string comparisons scattered through services.
package lifecycle

type Machine struct {
	states map[string]struct{}
	edges  map[string]map[string]struct{}
}

// New builds a machine from a transition map. Every key and every target
// becomes a known state; a state with no outgoing edges is terminal.
func New(transitions map[string][]string) *Machine {
	m := &Machine{
		states: make(map[string]struct{}),
		edges:  make(map[string]map[string]struct{}),
	}
	for from, targets := range transitions {
		m.states[from] = struct{}{}
		if _, ok := m.edges[from]; !ok {
			m.edges[from] = make(map[string]struct{})
		}
		for _, to := range targets {
			m.states[to] = struct{}{}
			m.edges[from][to] = struct{}{}
		}
	}
	return m
}

// IsState reports whether s belongs to the machine's state set.
func (m *Machine) IsState(s string) bool {
	_, ok := m.states[s]
	return ok
}

// Can reports whether the edge from→to is allowed.
func (m *Machine) Can(from, to string) bool {
	targets, ok := m.edges[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// Unrestricted builds a machine where every state can move to every other
// state in the set, including itself. Used where only membership matters.
func Unrestricted(states ...string) *Machine {
	transitions := make(map[string][]string, len(states))
	for _, from := range states {
		transitions[from] = states
	}
	return New(transitions)
}
