package exporter

import "testing"

func TestStateMachine_HappyPath(t *testing.T) {
	sm := newStateMachine(discardLogger())

	for _, next := range []State{
		StateToolCheck, StateFetching, StateTranscoding, StateAssembling, StateDone,
	} {
		if err := sm.to(next); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}
	if sm.current != StateDone {
		t.Errorf("final state = %s, want %s", sm.current, StateDone)
	}
}

func TestStateMachine_RejectsSkippedStages(t *testing.T) {
	sm := newStateMachine(discardLogger())

	if err := sm.to(StateTranscoding); err == nil {
		t.Error("transition validating -> transcoding allowed, want rejection")
	}
	if err := sm.to(StateDone); err == nil {
		t.Error("transition validating -> done allowed, want rejection")
	}
}

func TestStateMachine_FailedReachableFromAnyStage(t *testing.T) {
	for _, from := range []State{
		StateValidating, StateToolCheck, StateFetching, StateTranscoding, StateAssembling,
	} {
		sm := &stateMachine{current: from, logger: discardLogger()}
		sm.fail()
		if sm.current != StateFailed {
			t.Errorf("fail() from %s left state %s", from, sm.current)
		}
	}
}

func TestStateMachine_TerminalStatesStay(t *testing.T) {
	sm := &stateMachine{current: StateDone, logger: discardLogger()}
	sm.fail()
	if sm.current != StateDone {
		t.Errorf("fail() moved terminal done state to %s", sm.current)
	}

	if err := sm.to(StateFetching); err == nil {
		t.Error("transition out of done allowed, want rejection")
	}
}
