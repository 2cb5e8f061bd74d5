// Package transport defines request and response DTOs for the feedback API.
package transport

import (
	"github.com/google/uuid"

	"recruiting_portal_backend/internal/feedback/repository"
)

// SubmitFeedbackRequest records an interviewer's verdict on a completed
// interview.
type SubmitFeedbackRequest struct {
	InterviewID         uuid.UUID `json:"interviewId" validate:"required"`
	InterviewerID       uuid.UUID `json:"interviewerId" validate:"required"`
	TechnicalScore      int       `json:"technicalScore" validate:"required,min=1,max=5"`
	CommunicationScore  int       `json:"communicationScore" validate:"required,min=1,max=5"`
	ProblemSolvingScore int       `json:"problemSolvingScore" validate:"required,min=1,max=5"`
	CulturalFitScore    *int      `json:"culturalFitScore" validate:"omitempty,min=1,max=5"`
	Strengths           *string   `json:"strengths" validate:"omitempty,max=2000"`
	Weaknesses          *string   `json:"weaknesses" validate:"omitempty,max=2000"`
	Comments            *string   `json:"comments" validate:"omitempty,max=4000"`
	Recommendation      string    `json:"recommendation" validate:"required,oneof=STRONG_HIRE HIRE MAYBE NO_HIRE"`
}

// FeedbackResponse is a feedback record with its derived overall score.
type FeedbackResponse struct {
	repository.Feedback
	OverallScore float64 `json:"overallScore"`
}

// FromFeedback maps a persisted record to its API representation.
func FromFeedback(f repository.Feedback) FeedbackResponse {
	return FeedbackResponse{Feedback: f, OverallScore: f.OverallScore()}
}

// FromFeedbacks maps a slice of records.
func FromFeedbacks(fs []repository.Feedback) []FeedbackResponse {
	out := make([]FeedbackResponse, 0, len(fs))
	for _, f := range fs {
		out = append(out, FromFeedback(f))
	}
	return out
}
