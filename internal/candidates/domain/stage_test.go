package domain

import "testing"

func TestCanTransition_AllowedEdges(t *testing.T) {
	allowed := []struct {
		from, to Stage
	}{
		{StageApplied, StageScreening},
		{StageApplied, StageRejected},
		{StageScreening, StageInterviewScheduled},
		{StageScreening, StageRejected},
		{StageInterviewScheduled, StageInterviewCompleted},
		{StageInterviewScheduled, StageRejected},
		{StageInterviewCompleted, StageHired},
		{StageInterviewCompleted, StageRejected},
	}

	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}
}

func TestCanTransition_TableIsClosed(t *testing.T) {
	allowed := map[[2]Stage]bool{
		{StageApplied, StageScreening}:                      true,
		{StageApplied, StageRejected}:                       true,
		{StageScreening, StageInterviewScheduled}:           true,
		{StageScreening, StageRejected}:                     true,
		{StageInterviewScheduled, StageInterviewCompleted}:  true,
		{StageInterviewScheduled, StageRejected}:            true,
		{StageInterviewCompleted, StageHired}:               true,
		{StageInterviewCompleted, StageRejected}:            true,
	}

	for _, from := range Stages() {
		for _, to := range Stages() {
			got := CanTransition(from, to)
			want := allowed[[2]Stage{from, to}]
			if got != want {
				t.Fatalf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTerminalStagesHaveNoTargets(t *testing.T) {
	for _, s := range []Stage{StageHired, StageRejected} {
		if !s.IsTerminal() {
			t.Fatalf("expected %s to be terminal", s)
		}
		if targets := AllowedTargets(s); len(targets) != 0 {
			t.Fatalf("expected no targets for %s, got %v", s, targets)
		}
	}

	for _, s := range []Stage{StageApplied, StageScreening, StageInterviewScheduled, StageInterviewCompleted} {
		if s.IsTerminal() {
			t.Fatalf("expected %s to be non-terminal", s)
		}
	}
}

func TestCanTransition_NoOpIsNotATransition(t *testing.T) {
	for _, s := range Stages() {
		if CanTransition(s, s) {
			t.Fatalf("no-op transition %s -> %s must not be allowed", s, s)
		}
	}
}

func TestParseStage(t *testing.T) {
	if _, err := ParseStage("SCREENING"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseStage("screening"); err == nil {
		t.Fatal("expected error for lowercase stage")
	}
	if _, err := ParseStage("ARCHIVED"); err == nil {
		t.Fatal("expected error for unknown stage")
	}
}

// Replaying the happy-path sequence from a fresh candidate must be a valid
// walk through the transition graph and end in HIRED.
func TestHiringPathIsValidWalk(t *testing.T) {
	path := []Stage{StageApplied, StageScreening, StageInterviewScheduled, StageInterviewCompleted, StageHired}

	current := path[0]
	for _, next := range path[1:] {
		if !CanTransition(current, next) {
			t.Fatalf("step %s -> %s is not allowed", current, next)
		}
		current = next
	}
	if current != StageHired {
		t.Fatalf("expected final stage HIRED, got %s", current)
	}
}
