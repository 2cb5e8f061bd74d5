// Package domain holds the interview lifecycle state machine and the
// overlap algebra used by the scheduler.
package domain

import (
	"fmt"
	"time"
)

// Status is an interview's position in its lifecycle.
type Status string

const (
	StatusScheduled   Status = "SCHEDULED"
	StatusInProgress  Status = "IN_PROGRESS"
	StatusCompleted   Status = "COMPLETED"
	StatusCancelled   Status = "CANCELLED"
	StatusRescheduled Status = "RESCHEDULED"
)

// InterviewType classifies what an interview session covers.
type InterviewType string

const (
	TypeTechnical   InterviewType = "TECHNICAL"
	TypeHR          InterviewType = "HR"
	TypeManagerial  InterviewType = "MANAGERIAL"
	TypeCulturalFit InterviewType = "CULTURAL_FIT"
)

const (
	// MinDurationMinutes and MaxDurationMinutes bound an interview slot.
	MinDurationMinutes = 15
	MaxDurationMinutes = 480

	// DefaultDurationMinutes applies when no duration is given.
	DefaultDurationMinutes = 60
)

// allowedTransitions is the closed status transition table. RESCHEDULED
// flips straight back to SCHEDULED in the same transaction; it exists so
// the history keeps a record of the reschedule.
var allowedTransitions = map[Status][]Status{
	StatusScheduled:   {StatusInProgress, StatusCompleted, StatusCancelled, StatusRescheduled},
	StatusInProgress:  {StatusCompleted, StatusCancelled},
	StatusRescheduled: {StatusScheduled},
	StatusCompleted:   {},
	StatusCancelled:   {},
}

// ParseStatus validates a raw string against the known status set.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := allowedTransitions[s]; !ok {
		return "", fmt.Errorf("unknown interview status: %q", raw)
	}
	return s, nil
}

// ParseType validates a raw string against the known interview types.
func ParseType(raw string) (InterviewType, error) {
	switch t := InterviewType(raw); t {
	case TypeTechnical, TypeHR, TypeManagerial, TypeCulturalFit:
		return t, nil
	default:
		return "", fmt.Errorf("unknown interview type: %q", raw)
	}
}

// IsTerminal reports whether s has no outgoing transitions.
func (s Status) IsTerminal() bool {
	targets, ok := allowedTransitions[s]
	return ok && len(targets) == 0
}

// CanTransition reports whether from → to is an allowed status move.
// A no-op (from == to) is not a transition.
func CanTransition(from, to Status) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Statuses returns all known statuses.
func Statuses() []Status {
	return []Status{StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled, StatusRescheduled}
}

// ValidDuration reports whether d is an acceptable slot length in minutes.
func ValidDuration(d int) bool {
	return d >= MinDurationMinutes && d <= MaxDurationMinutes
}

// Overlaps reports whether two half-open slots [s1, s1+d1) and [s2, s2+d2)
// intersect. Back-to-back slots do not overlap.
func Overlaps(s1 time.Time, d1 int, s2 time.Time, d2 int) bool {
	e1 := s1.Add(time.Duration(d1) * time.Minute)
	e2 := s2.Add(time.Duration(d2) * time.Minute)
	return s1.Before(e2) && e1.After(s2)
}

// BlocksCalendar reports whether an interview in this status occupies its
// interviewer's calendar for conflict purposes.
func (s Status) BlocksCalendar() bool {
	return s != StatusCancelled && s != StatusCompleted
}
