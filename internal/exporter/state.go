package exporter

import (
	"fmt"
	"log/slog"
)

// State tracks where a pipeline execution is. Done and Failed are
// terminal; Failed is reachable from every non-terminal state.
type State string

const (
	StateValidating  State = "validating"
	StateToolCheck   State = "tool_check"
	StateFetching    State = "fetching"
	StateTranscoding State = "transcoding"
	StateAssembling  State = "assembling"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

var validTransitions = map[State][]State{
	StateValidating:  {StateToolCheck, StateFailed},
	StateToolCheck:   {StateFetching, StateFailed},
	StateFetching:    {StateTranscoding, StateFailed},
	StateTranscoding: {StateAssembling, StateFailed},
	StateAssembling:  {StateDone, StateFailed},
	StateDone:        {},
	StateFailed:      {},
}

type stateMachine struct {
	current State
	logger  *slog.Logger
}

func newStateMachine(logger *slog.Logger) *stateMachine {
	return &stateMachine{current: StateValidating, logger: logger}
}

func (m *stateMachine) to(next State) error {
	for _, allowed := range validTransitions[m.current] {
		if allowed == next {
			m.logger.Debug("pipeline state transition", "from", m.current, "to", next)
			m.current = next
			return nil
		}
	}
	return fmt.Errorf("invalid pipeline transition %s -> %s", m.current, next)
}

func (m *stateMachine) fail() {
	// Failed is reachable from every non-terminal state.
	if m.current != StateDone && m.current != StateFailed {
		m.logger.Debug("pipeline state transition", "from", m.current, "to", StateFailed)
		m.current = StateFailed
	}
}
