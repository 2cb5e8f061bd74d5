// Package service exposes read access to the audit trail.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"recruiting_portal_backend/internal/history/repository"
	"recruiting_portal_backend/platform/apperr"
)

// Service provides read access to transition history.
type Service struct {
	repo *repository.Repo
}

// New creates a new history service.
func New(repo *repository.Repo) *Service {
	return &Service{repo: repo}
}

// CandidateHistory returns a candidate's stage transitions in order.
// Unknown candidates are a 404, not an empty list.
func (s *Service) CandidateHistory(ctx context.Context, candidateID uuid.UUID) ([]repository.StageChange, error) {
	exists, err := s.repo.CandidateExists(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("Candidate not found")
	}
	return s.repo.StageHistory(ctx, candidateID)
}

// InterviewHistory returns an interview's status transitions in order.
func (s *Service) InterviewHistory(ctx context.Context, interviewID uuid.UUID) ([]repository.StatusChange, error) {
	exists, err := s.repo.InterviewExists(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("Interview not found")
	}
	return s.repo.StatusHistory(ctx, interviewID)
}

// RecentActivity returns pipeline transitions since the given time,
// newest first.
func (s *Service) RecentActivity(ctx context.Context, since time.Time) ([]repository.StageChange, error) {
	return s.repo.RecentStageChanges(ctx, since)
}

// AverageStageDurations reports the mean dwell time per pipeline stage.
func (s *Service) AverageStageDurations(ctx context.Context) ([]repository.StageDuration, error) {
	return s.repo.AverageStageDurations(ctx)
}
