// Package transport defines request DTOs for the interviews API.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleInterviewRequest books a new interview slot.
type ScheduleInterviewRequest struct {
	CandidateID     uuid.UUID `json:"candidateId" validate:"required"`
	InterviewerID   uuid.UUID `json:"interviewerId" validate:"required"`
	ScheduledAt     time.Time `json:"scheduledAt" validate:"required"`
	DurationMinutes *int      `json:"durationMinutes" validate:"omitempty,min=15,max=480"`
	Type            string    `json:"type" validate:"required"`
	Location        *string   `json:"location" validate:"omitempty,max=255"`
	Notes           *string   `json:"notes" validate:"omitempty,max=2000"`
	ScheduledBy     string    `json:"scheduledBy" validate:"required,min=1,max=100"`
}

// RescheduleQuery moves an existing interview to a new slot.
type RescheduleQuery struct {
	NewScheduledAt time.Time `form:"newScheduledAt" time_format:"2006-01-02T15:04:05Z07:00" validate:"required"`
	NewDuration    *int      `form:"newDuration" validate:"omitempty,min=15,max=480"`
	RescheduledBy  string    `form:"rescheduledBy" validate:"required,min=1,max=100"`
	Reason         *string   `form:"reason" validate:"omitempty,max=500"`
}

// CancelQuery cancels an interview.
type CancelQuery struct {
	CancelledBy string  `form:"cancelledBy" validate:"required,min=1,max=100"`
	Reason      *string `form:"reason" validate:"omitempty,max=500"`
}

// UpdateStatusRequest moves an interview through its lifecycle. The
// parameters arrive as query values.
type UpdateStatusRequest struct {
	NewStatus string  `form:"newStatus" validate:"required"`
	ChangedBy string  `form:"changedBy" validate:"required,min=1,max=100"`
	Notes     *string `form:"notes" validate:"omitempty,max=500"`
}

// AvailabilityQuery asks whether a window is free.
type AvailabilityQuery struct {
	Start time.Time `form:"start" time_format:"2006-01-02T15:04:05Z07:00" validate:"required"`
	End   time.Time `form:"end" time_format:"2006-01-02T15:04:05Z07:00" validate:"required"`
}

// AvailabilityResponse reports a single interviewer's availability.
type AvailabilityResponse struct {
	InterviewerID uuid.UUID `json:"interviewerId"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Available     bool      `json:"available"`
}
