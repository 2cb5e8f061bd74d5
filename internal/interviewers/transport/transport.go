// Package transport defines request DTOs for the interviewers API.
package transport

// CreateInterviewerRequest registers a new interviewer.
type CreateInterviewerRequest struct {
	Name       string   `json:"name" validate:"required,min=2,max=100"`
	Email      string   `json:"email" validate:"required,email"`
	Department *string  `json:"department" validate:"omitempty,max=100"`
	Title      *string  `json:"title" validate:"omitempty,max=100"`
	Expertise  []string `json:"expertise" validate:"omitempty,dive,min=1,max=50"`
}

// UpdateInterviewerRequest replaces mutable interviewer fields.
// Email is immutable.
type UpdateInterviewerRequest struct {
	Name       string   `json:"name" validate:"required,min=2,max=100"`
	Department *string  `json:"department" validate:"omitempty,max=100"`
	Title      *string  `json:"title" validate:"omitempty,max=100"`
	Expertise  []string `json:"expertise" validate:"omitempty,dive,min=1,max=50"`
}
