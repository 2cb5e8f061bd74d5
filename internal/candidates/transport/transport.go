// Package transport defines request and response DTOs for the candidates API.
package transport

import (
	"time"

	"github.com/google/uuid"

	"recruiting_portal_backend/internal/candidates/repository"
)

// CreateCandidateRequest is the multipart form payload for candidate creation.
// The resume file part is handled separately by the handler.
type CreateCandidateRequest struct {
	Name  string  `form:"name" validate:"required,min=2,max=100"`
	Email string  `form:"email" validate:"required,email"`
	Phone *string `form:"phone" validate:"omitempty,min=7,max=20"`
}

// UpdateCandidateRequest updates mutable profile fields. Email is immutable.
type UpdateCandidateRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone *string `json:"phone" validate:"omitempty,min=7,max=20"`
}

// UpdateStageRequest moves a candidate to a new pipeline stage. The
// parameters arrive as query values.
type UpdateStageRequest struct {
	NewStage  string  `form:"newStage" validate:"required"`
	ChangedBy string  `form:"changedBy" validate:"required,min=1,max=100"`
	Reason    *string `form:"reason" validate:"omitempty,max=500"`
}

// ListQuery carries pagination and sorting query parameters.
type ListQuery struct {
	Page    int    `form:"page" validate:"omitempty,min=0"`
	Size    int    `form:"size" validate:"omitempty,min=1,max=100"`
	SortBy  string `form:"sortBy" validate:"omitempty,oneof=name email createdAt updatedAt currentStage"`
	SortDir string `form:"sortDir" validate:"omitempty,oneof=asc desc"`
}

// SearchQuery carries the optional candidate search filters.
type SearchQuery struct {
	Name  string `form:"name" validate:"omitempty,max=100"`
	Email string `form:"email" validate:"omitempty,max=255"`
	Stage string `form:"stage" validate:"omitempty"`
	ListQuery
}

// CandidateResponse is the API representation of a candidate.
type CandidateResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        *string   `json:"phone,omitempty"`
	CurrentStage string    `json:"currentStage"`
	HasResume    bool      `json:"hasResume"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CandidateListResponse is a paginated candidate listing.
type CandidateListResponse struct {
	Items []CandidateResponse `json:"items"`
	Total int                 `json:"total"`
	Page  int                 `json:"page"`
	Size  int                 `json:"size"`
}

// FromCandidate maps a persisted candidate to its API representation.
func FromCandidate(c repository.Candidate) CandidateResponse {
	return CandidateResponse{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		Phone:        c.Phone,
		CurrentStage: string(c.CurrentStage),
		HasResume:    c.ResumeKey != nil,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// FromCandidates maps a slice of candidates.
func FromCandidates(cs []repository.Candidate) []CandidateResponse {
	out := make([]CandidateResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, FromCandidate(c))
	}
	return out
}
