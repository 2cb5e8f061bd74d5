// Package domain holds the candidate pipeline state machine.
// Both persistence and HTTP validation go through CanTransition so the
// allowed-transition table lives in exactly one place.
package domain

import "fmt"

// Stage is a candidate's position in the hiring pipeline.
type Stage string

const (
	StageApplied            Stage = "APPLIED"
	StageScreening          Stage = "SCREENING"
	StageInterviewScheduled Stage = "INTERVIEW_SCHEDULED"
	StageInterviewCompleted Stage = "INTERVIEW_COMPLETED"
	StageHired              Stage = "HIRED"
	StageRejected           Stage = "REJECTED"
)

// allowedTransitions is the closed transition table. HIRED and REJECTED
// are terminal and have no outgoing edges.
var allowedTransitions = map[Stage][]Stage{
	StageApplied:            {StageScreening, StageRejected},
	StageScreening:          {StageInterviewScheduled, StageRejected},
	StageInterviewScheduled: {StageInterviewCompleted, StageRejected},
	StageInterviewCompleted: {StageHired, StageRejected},
	StageHired:              {},
	StageRejected:           {},
}

// ParseStage validates a raw string against the known stage set.
func ParseStage(raw string) (Stage, error) {
	s := Stage(raw)
	if _, ok := allowedTransitions[s]; !ok {
		return "", fmt.Errorf("unknown candidate stage: %q", raw)
	}
	return s, nil
}

// IsKnown reports whether s is one of the six pipeline stages.
func (s Stage) IsKnown() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// IsTerminal reports whether s has no outgoing transitions.
func (s Stage) IsTerminal() bool {
	targets, ok := allowedTransitions[s]
	return ok && len(targets) == 0
}

// CanTransition reports whether from → to is an allowed pipeline move.
// A no-op (from == to) is not a transition.
func CanTransition(from, to Stage) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// AllowedTargets returns the stages reachable from the given stage.
func AllowedTargets(from Stage) []Stage {
	targets := allowedTransitions[from]
	out := make([]Stage, len(targets))
	copy(out, targets)
	return out
}

// Stages returns all known stages in pipeline order.
func Stages() []Stage {
	return []Stage{
		StageApplied,
		StageScreening,
		StageInterviewScheduled,
		StageInterviewCompleted,
		StageHired,
		StageRejected,
	}
}
