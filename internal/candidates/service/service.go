// Package service implements candidate pipeline business logic.
package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"recruiting_portal_backend/internal/adapters/storage"
	"recruiting_portal_backend/internal/candidates/domain"
	"recruiting_portal_backend/internal/candidates/repository"
	"recruiting_portal_backend/internal/candidates/transport"
	"recruiting_portal_backend/platform/apperr"
	"recruiting_portal_backend/platform/logger"
)

// SystemActor is the changedBy value for transitions the application makes
// on its own, e.g. the initial APPLIED record.
const SystemActor = "SYSTEM"

// StageRecorder appends stage transition audit records on the caller's
// transaction, so the stage write and its record commit together.
type StageRecorder interface {
	RecordStageChangeTx(ctx context.Context, tx pgx.Tx, candidateID uuid.UUID, fromStage *string, toStage, changedBy string, reason *string) error
}

// ResumeUpload carries an incoming resume file from the HTTP layer.
type ResumeUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Service provides business logic for candidates.
type Service struct {
	repo          *repository.Repo
	pool          *pgxpool.Pool
	history       StageRecorder
	store         storage.ResumeStore
	maxResumeSize int64
	log           *logger.Logger
}

// New creates a new candidates service.
func New(repo *repository.Repo, history StageRecorder, store storage.ResumeStore, maxResumeSize int64, log *logger.Logger) *Service {
	return &Service{
		repo:          repo,
		pool:          repo.Pool(),
		history:       history,
		store:         store,
		maxResumeSize: maxResumeSize,
		log:           log,
	}
}

// Create registers a new candidate in the APPLIED stage. The candidate row
// and the initial stage history record are written in one transaction. The
// resume, when provided, is stored first so a blob failure aborts before any
// database write.
func (s *Service) Create(ctx context.Context, req transport.CreateCandidateRequest, resume *ResumeUpload) (transport.CandidateResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return transport.CandidateResponse{}, err
	}
	if exists {
		return transport.CandidateResponse{}, apperr.Conflict("Candidate with this email already exists")
	}

	var resumeKey *string
	if resume != nil {
		key, err := s.storeResume(ctx, resume)
		if err != nil {
			return transport.CandidateResponse{}, err
		}
		resumeKey = &key
	}

	candidate := repository.Candidate{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Phone:        normalizeOptional(req.Phone),
		ResumeKey:    resumeKey,
		CurrentStage: domain.StageApplied,
	}

	created, err := s.inTx(ctx, func(tx pgx.Tx) (repository.Candidate, error) {
		c, err := s.repo.CreateTx(ctx, tx, candidate)
		if err != nil {
			return repository.Candidate{}, err
		}
		reason := "Candidate applied"
		if err := s.history.RecordStageChangeTx(ctx, tx, c.ID, nil, string(domain.StageApplied), SystemActor, &reason); err != nil {
			return repository.Candidate{}, err
		}
		return c, nil
	})
	if err != nil {
		if resumeKey != nil {
			// The blob is orphaned once the insert fails; drop it best effort.
			_ = s.store.Delete(ctx, *resumeKey)
		}
		return transport.CandidateResponse{}, err
	}

	return transport.FromCandidate(created), nil
}

// GetByID retrieves a candidate by id.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.CandidateResponse, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.CandidateResponse{}, err
	}
	return transport.FromCandidate(c), nil
}

// GetByEmail retrieves a candidate by email.
func (s *Service) GetByEmail(ctx context.Context, email string) (transport.CandidateResponse, error) {
	c, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return transport.CandidateResponse{}, err
	}
	return transport.FromCandidate(c), nil
}

// List retrieves a page of candidates.
func (s *Service) List(ctx context.Context, q transport.ListQuery) (transport.CandidateListResponse, error) {
	items, total, err := s.repo.List(ctx, listParams(q))
	if err != nil {
		return transport.CandidateListResponse{}, err
	}
	return listResponse(items, total, q), nil
}

// Search retrieves candidates matching the given filters.
func (s *Service) Search(ctx context.Context, q transport.SearchQuery) (transport.CandidateListResponse, error) {
	params := repository.SearchParams{
		Name:       strings.TrimSpace(q.Name),
		Email:      strings.TrimSpace(q.Email),
		ListParams: listParams(q.ListQuery),
	}
	if q.Stage != "" {
		stage, err := domain.ParseStage(q.Stage)
		if err != nil {
			return transport.CandidateListResponse{}, apperr.Validation(fmt.Sprintf("Unknown stage: %s", q.Stage))
		}
		params.Stage = &stage
	}

	items, total, err := s.repo.Search(ctx, params)
	if err != nil {
		return transport.CandidateListResponse{}, err
	}
	return listResponse(items, total, q.ListQuery), nil
}

// ByStage retrieves candidates currently in the given stage.
func (s *Service) ByStage(ctx context.Context, rawStage string) ([]transport.CandidateResponse, error) {
	stage, err := domain.ParseStage(rawStage)
	if err != nil {
		return nil, apperr.Validation(fmt.Sprintf("Unknown stage: %s", rawStage))
	}
	items, err := s.repo.ByStage(ctx, stage)
	if err != nil {
		return nil, err
	}
	return transport.FromCandidates(items), nil
}

// WithoutScreening retrieves candidates that have not been screened yet.
func (s *Service) WithoutScreening(ctx context.Context) ([]transport.CandidateResponse, error) {
	items, err := s.repo.WithoutScreening(ctx)
	if err != nil {
		return nil, err
	}
	return transport.FromCandidates(items), nil
}

// UpdateStage moves a candidate through the pipeline. The stage write and
// the history record commit in one transaction, with the candidate row
// locked so concurrent transitions serialize.
func (s *Service) UpdateStage(ctx context.Context, id uuid.UUID, req transport.UpdateStageRequest) (transport.CandidateResponse, error) {
	target, err := domain.ParseStage(req.NewStage)
	if err != nil {
		return transport.CandidateResponse{}, apperr.Validation(fmt.Sprintf("Unknown stage: %s", req.NewStage))
	}

	updated, err := s.inTx(ctx, func(tx pgx.Tx) (repository.Candidate, error) {
		c, err := s.transitionTx(ctx, tx, id, target, req.ChangedBy, req.Reason)
		if err != nil {
			return repository.Candidate{}, err
		}
		return c, nil
	})
	if err != nil {
		return transport.CandidateResponse{}, err
	}

	s.log.StageTransition(id.String(), string(updated.CurrentStage), string(target), req.ChangedBy)
	updated.CurrentStage = target
	return transport.FromCandidate(updated), nil
}

// AdvanceStageTx applies a stage transition on the caller's transaction.
// Scheduling and screening use this so their own writes and the candidate's
// stage move commit atomically.
func (s *Service) AdvanceStageTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, target domain.Stage, changedBy string, reason *string) error {
	_, err := s.transitionTx(ctx, tx, id, target, changedBy, reason)
	return err
}

// StageForUpdateTx reads a candidate's stage under a row lock on the
// caller's transaction. Scheduling uses this so the stage it validates
// cannot move underneath it before commit.
func (s *Service) StageForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (domain.Stage, error) {
	c, err := s.repo.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return "", err
	}
	return c.CurrentStage, nil
}

// CurrentStage returns a candidate's pipeline stage.
func (s *Service) CurrentStage(ctx context.Context, id uuid.UUID) (domain.Stage, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return c.CurrentStage, nil
}

// transitionTx validates and applies a transition under a row lock.
// The returned candidate carries the stage before the move.
func (s *Service) transitionTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, target domain.Stage, changedBy string, reason *string) (repository.Candidate, error) {
	c, err := s.repo.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return repository.Candidate{}, err
	}

	if c.CurrentStage == target {
		return repository.Candidate{}, apperr.BusinessRule(fmt.Sprintf("Candidate is already in stage %s", target))
	}
	if !domain.CanTransition(c.CurrentStage, target) {
		return repository.Candidate{}, apperr.BusinessRule(
			fmt.Sprintf("Cannot transition from %s to %s", c.CurrentStage, target)).
			WithMetadata("currentStage", string(c.CurrentStage)).
			WithMetadata("allowedTargets", domain.AllowedTargets(c.CurrentStage))
	}

	if err := s.repo.UpdateStageTx(ctx, tx, id, target); err != nil {
		return repository.Candidate{}, err
	}
	from := string(c.CurrentStage)
	if err := s.history.RecordStageChangeTx(ctx, tx, id, &from, string(target), changedBy, reason); err != nil {
		return repository.Candidate{}, err
	}
	return c, nil
}

// UpdateProfile updates a candidate's name and phone.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req transport.UpdateCandidateRequest) (transport.CandidateResponse, error) {
	c, err := s.repo.UpdateProfile(ctx, id, normalizeOptional(req.Name), normalizeOptional(req.Phone))
	if err != nil {
		return transport.CandidateResponse{}, err
	}
	return transport.FromCandidate(c), nil
}

// Delete removes a candidate and all owned records. Hired candidates are
// retained for the employment record and cannot be deleted.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.inTx(ctx, func(tx pgx.Tx) (repository.Candidate, error) {
		c, err := s.repo.GetForUpdateTx(ctx, tx, id)
		if err != nil {
			return repository.Candidate{}, err
		}
		if c.CurrentStage == domain.StageHired {
			return repository.Candidate{}, apperr.BusinessRule("Cannot delete hired candidates")
		}
		if err := s.repo.DeleteTx(ctx, tx, id); err != nil {
			return repository.Candidate{}, err
		}
		return c, nil
	})
	if err != nil {
		return err
	}

	if deleted.ResumeKey != nil {
		_ = s.store.Delete(ctx, *deleted.ResumeKey)
	}
	return nil
}

// UploadResume attaches or replaces a candidate's resume.
func (s *Service) UploadResume(ctx context.Context, id uuid.UUID, resume ResumeUpload) (transport.CandidateResponse, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.CandidateResponse{}, err
	}

	key, err := s.storeResume(ctx, &resume)
	if err != nil {
		return transport.CandidateResponse{}, err
	}

	_, err = s.inTx(ctx, func(tx pgx.Tx) (repository.Candidate, error) {
		return repository.Candidate{}, s.repo.SetResumeKeyTx(ctx, tx, id, key)
	})
	if err != nil {
		_ = s.store.Delete(ctx, key)
		return transport.CandidateResponse{}, err
	}

	if c.ResumeKey != nil {
		_ = s.store.Delete(ctx, *c.ResumeKey)
	}

	c.ResumeKey = &key
	return transport.FromCandidate(c), nil
}

// ResumeKey returns a candidate's resume blob key, nil when no resume is
// on file. Screening uses this to distinguish a missing candidate from a
// missing resume.
func (s *Service) ResumeKey(ctx context.Context, id uuid.UUID) (*string, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.ResumeKey, nil
}

// OpenResume streams a candidate's stored resume. The caller closes the
// returned reader.
func (s *Service) OpenResume(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if c.ResumeKey == nil {
		return nil, "", apperr.NotFound("Candidate has no resume on file")
	}

	rc, err := s.store.Open(ctx, *c.ResumeKey)
	if err != nil {
		return nil, "", apperr.Unavailable("resume-store", "Resume storage is currently unavailable")
	}
	return rc, *c.ResumeKey, nil
}

func (s *Service) storeResume(ctx context.Context, resume *ResumeUpload) (string, error) {
	if err := storage.ValidateUpload(resume.FileName, resume.Size, s.maxResumeSize); err != nil {
		return "", err
	}
	return s.store.Save(ctx, resume.FileName, resume.ContentType, resume.Reader, resume.Size)
}

// inTx runs fn in a transaction, committing on success and rolling back on
// any error.
func (s *Service) inTx(ctx context.Context, fn func(tx pgx.Tx) (repository.Candidate, error)) (repository.Candidate, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return repository.Candidate{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := fn(tx)
	if err != nil {
		return repository.Candidate{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return repository.Candidate{}, fmt.Errorf("commit tx: %w", err)
	}
	return result, nil
}

func listParams(q transport.ListQuery) repository.ListParams {
	return repository.ListParams{Page: q.Page, Size: q.Size, SortBy: q.SortBy, SortDir: q.SortDir}
}

func listResponse(items []repository.Candidate, total int, q transport.ListQuery) transport.CandidateListResponse {
	size := q.Size
	if size < 1 || size > 100 {
		size = 20
	}
	page := q.Page
	if page < 0 {
		page = 0
	}
	return transport.CandidateListResponse{
		Items: transport.FromCandidates(items),
		Total: total,
		Page:  page,
		Size:  size,
	}
}

func normalizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
