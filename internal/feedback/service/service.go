// Package service implements the panel feedback aggregator.
package service

import (
	"context"

	"github.com/google/uuid"

	"recruiting_portal_backend/internal/feedback/domain"
	"recruiting_portal_backend/internal/feedback/repository"
	"recruiting_portal_backend/internal/feedback/transport"
	interviewerrepo "recruiting_portal_backend/internal/interviewers/repository"
	interviewdomain "recruiting_portal_backend/internal/interviews/domain"
	interviewrepo "recruiting_portal_backend/internal/interviews/repository"
	"recruiting_portal_backend/platform/apperr"
)

// InterviewLookup resolves interviews for submission checks.
type InterviewLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (interviewrepo.Interview, error)
}

// InterviewerLookup resolves interviewers for submission checks.
type InterviewerLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (interviewerrepo.Interviewer, error)
}

// Service provides business logic for feedback.
type Service struct {
	repo         *repository.Repo
	interviews   InterviewLookup
	interviewers InterviewerLookup
}

// New creates a new feedback service.
func New(repo *repository.Repo, interviews InterviewLookup, interviewers InterviewerLookup) *Service {
	return &Service{repo: repo, interviews: interviews, interviewers: interviewers}
}

// Submit records feedback for a completed interview. Only the interviewer
// of record may submit, and only once per interview.
func (s *Service) Submit(ctx context.Context, req transport.SubmitFeedbackRequest) (transport.FeedbackResponse, error) {
	rec, err := domain.ParseRecommendation(req.Recommendation)
	if err != nil {
		return transport.FeedbackResponse{}, apperr.Validation("Recommendation must be one of STRONG_HIRE, HIRE, MAYBE, NO_HIRE")
	}
	for _, score := range []int{req.TechnicalScore, req.CommunicationScore, req.ProblemSolvingScore} {
		if !domain.ValidScore(score) {
			return transport.FeedbackResponse{}, apperr.Validation("Scores must be between 1 and 5")
		}
	}
	if req.CulturalFitScore != nil && !domain.ValidScore(*req.CulturalFitScore) {
		return transport.FeedbackResponse{}, apperr.Validation("Scores must be between 1 and 5")
	}

	interview, err := s.interviews.GetByID(ctx, req.InterviewID)
	if err != nil {
		return transport.FeedbackResponse{}, err
	}
	if _, err := s.interviewers.GetByID(ctx, req.InterviewerID); err != nil {
		return transport.FeedbackResponse{}, err
	}

	if interview.CurrentStatus != interviewdomain.StatusCompleted {
		return transport.FeedbackResponse{}, apperr.BadRequest("Feedback can only be submitted for completed interviews")
	}
	if interview.InterviewerID != req.InterviewerID {
		return transport.FeedbackResponse{}, apperr.Forbidden("Only the interviewer of record can submit feedback for this interview")
	}

	exists, err := s.repo.ExistsForPair(ctx, req.InterviewID, req.InterviewerID)
	if err != nil {
		return transport.FeedbackResponse{}, err
	}
	if exists {
		return transport.FeedbackResponse{}, apperr.Conflict("Feedback already submitted for this interview")
	}

	created, err := s.repo.Create(ctx, repository.Feedback{
		InterviewID:         req.InterviewID,
		InterviewerID:       req.InterviewerID,
		TechnicalScore:      req.TechnicalScore,
		CommunicationScore:  req.CommunicationScore,
		ProblemSolvingScore: req.ProblemSolvingScore,
		CulturalFitScore:    req.CulturalFitScore,
		Strengths:           req.Strengths,
		Weaknesses:          req.Weaknesses,
		Comments:            req.Comments,
		Recommendation:      rec,
	})
	if err != nil {
		return transport.FeedbackResponse{}, err
	}
	return transport.FromFeedback(created), nil
}

// GetByID retrieves a feedback record by id.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.FeedbackResponse, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.FeedbackResponse{}, err
	}
	return transport.FromFeedback(f), nil
}

// ByInterview retrieves all feedback for an interview.
func (s *Service) ByInterview(ctx context.Context, interviewID uuid.UUID) ([]transport.FeedbackResponse, error) {
	if _, err := s.interviews.GetByID(ctx, interviewID); err != nil {
		return nil, err
	}
	fs, err := s.repo.ByInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	return transport.FromFeedbacks(fs), nil
}

// ByInterviewer retrieves all feedback an interviewer submitted.
func (s *Service) ByInterviewer(ctx context.Context, interviewerID uuid.UUID) ([]transport.FeedbackResponse, error) {
	if _, err := s.interviewers.GetByID(ctx, interviewerID); err != nil {
		return nil, err
	}
	fs, err := s.repo.ByInterviewer(ctx, interviewerID)
	if err != nil {
		return nil, err
	}
	return transport.FromFeedbacks(fs), nil
}

// Positive retrieves feedback arguing for hiring.
func (s *Service) Positive(ctx context.Context) ([]transport.FeedbackResponse, error) {
	fs, err := s.repo.Positive(ctx)
	if err != nil {
		return nil, err
	}
	return transport.FromFeedbacks(fs), nil
}

// CandidateAverages aggregates feedback across a candidate's completed
// interviews.
func (s *Service) CandidateAverages(ctx context.Context, candidateID uuid.UUID) (repository.CandidateAverages, error) {
	return s.repo.CandidateAverages(ctx, candidateID)
}

// InterviewerStats aggregates an interviewer's submitted feedback.
func (s *Service) InterviewerStats(ctx context.Context, interviewerID uuid.UUID) (repository.InterviewerStats, error) {
	if _, err := s.interviewers.GetByID(ctx, interviewerID); err != nil {
		return repository.InterviewerStats{}, err
	}
	return s.repo.InterviewerStats(ctx, interviewerID)
}
