package dynamo

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestStateClone(t *testing.T) {
	s := State{1, 2}
	c := s.Clone()
	c[0] = 5
	if s[0] != 1 {
		t.Error("clone shares memory with the original")
	}
}

func TestStateIsValid(t *testing.T) {
	tests := []struct {
		s    State
		want bool
	}{
		{State{0.5, 0.5}, true},
		{State{}, true},
		{State{math.NaN(), 0}, false},
		{State{0, math.Inf(-1)}, false},
	}
	for _, tt := range tests {
		if got := tt.s.IsValid(); got != tt.want {
			t.Errorf("%v.IsValid(): got %v, expected %v", tt.s, got, tt.want)
		}
	}
}

func TestSimulationError(t *testing.T) {
	var err error = &SimulationError{Step: 12, Time: 0.99993, State: State{1e8, 0}, Wrapped: ErrStepTooSmall}

	if !errors.Is(err, ErrStepTooSmall) {
		t.Error("expected to unwrap to ErrStepTooSmall")
	}
	var se *SimulationError
	if !errors.As(err, &se) || se.Step != 12 {
		t.Errorf("errors.As failed: %v", se)
	}
	msg := err.Error()
	if !strings.Contains(msg, "step 12") || !strings.Contains(msg, "t=0.9999") {
		t.Errorf("unexpected message %q", msg)
	}
}
