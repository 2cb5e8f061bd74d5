// Package service implements interviewer management business logic.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"recruiting_portal_backend/internal/interviewers/repository"
	"recruiting_portal_backend/internal/interviewers/transport"
	"recruiting_portal_backend/platform/apperr"
)

// Service provides business logic for interviewers.
type Service struct {
	repo *repository.Repo
	pool *pgxpool.Pool
}

// New creates a new interviewers service.
func New(repo *repository.Repo) *Service {
	return &Service{repo: repo, pool: repo.Pool()}
}

// Create registers a new interviewer, active by default.
func (s *Service) Create(ctx context.Context, req transport.CreateInterviewerRequest) (repository.Interviewer, error) {
	return s.repo.Create(ctx, repository.Interviewer{
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Department: req.Department,
		Title:      req.Title,
		Expertise:  normalizeExpertise(req.Expertise),
		IsActive:   true,
	})
}

// GetByID retrieves an interviewer by id.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.Interviewer, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves all interviewers, or only active ones.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]repository.Interviewer, error) {
	return s.repo.List(ctx, activeOnly)
}

// ByExpertise retrieves active interviewers with the given expertise tag.
func (s *Service) ByExpertise(ctx context.Context, expertise string) ([]repository.Interviewer, error) {
	return s.repo.ByExpertise(ctx, strings.ToLower(strings.TrimSpace(expertise)))
}

// Update replaces an interviewer's mutable fields.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateInterviewerRequest) (repository.Interviewer, error) {
	return s.repo.Update(ctx, id, strings.TrimSpace(req.Name), req.Department, req.Title, normalizeExpertise(req.Expertise))
}

// Deactivate marks an interviewer unavailable for new interviews.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) (repository.Interviewer, error) {
	return s.repo.SetActive(ctx, id, false)
}

// Activate restores an interviewer for scheduling.
func (s *Service) Activate(ctx context.Context, id uuid.UUID) (repository.Interviewer, error) {
	return s.repo.SetActive(ctx, id, true)
}

// Delete removes an interviewer. Interviewers with interview records are
// deactivated instead of deleted, to keep interview history intact. The
// check and the delete run in one transaction under the interviewer row
// lock, so a concurrent booking cannot slip between them.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.repo.LockTx(ctx, tx, id); err != nil {
		return err
	}
	hasInterviews, err := s.repo.HasInterviewsTx(ctx, tx, id)
	if err != nil {
		return err
	}
	if hasInterviews {
		return apperr.BusinessRule("Cannot delete an interviewer with interview records. Deactivate instead")
	}
	if err := s.repo.DeleteTx(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func normalizeExpertise(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		tag := strings.ToLower(strings.TrimSpace(t))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
