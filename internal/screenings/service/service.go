// Package service implements the screening orchestrator. The synchronous
// path runs extract, analyze and persist in the calling request; the
// asynchronous entry points hand the same pipeline to the bounded worker
// pool.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"recruiting_portal_backend/internal/adapters/storage"
	candidatedomain "recruiting_portal_backend/internal/candidates/domain"
	"recruiting_portal_backend/internal/screenings/analyzer"
	"recruiting_portal_backend/internal/screenings/extract"
	"recruiting_portal_backend/internal/screenings/pool"
	"recruiting_portal_backend/internal/screenings/repository"
	"recruiting_portal_backend/platform/apperr"
	"recruiting_portal_backend/platform/logger"
)

// AIActor is the reserved principal recorded on stage transitions the
// screening pipeline makes.
const AIActor = "AI_SYSTEM"

// asyncJobTimeout bounds a single background screening job.
const asyncJobTimeout = 5 * time.Minute

// ChatModel is the external completion endpoint. It must be safe for
// concurrent calls.
type ChatModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
}

// CandidatePipeline is the slice of the candidates service the
// orchestrator needs.
type CandidatePipeline interface {
	ResumeKey(ctx context.Context, id uuid.UUID) (*string, error)
	StageForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (candidatedomain.Stage, error)
	AdvanceStageTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, target candidatedomain.Stage, changedBy string, reason *string) error
}

// Service provides the screening orchestration business logic.
type Service struct {
	repo       *repository.Repo
	pool       *pgxpool.Pool
	candidates CandidatePipeline
	store      storage.ResumeStore
	extractor  *extract.Extractor
	llm        ChatModel
	workers    *pool.Pool
	log        *logger.Logger
}

// New creates a new screenings service.
func New(
	repo *repository.Repo,
	candidates CandidatePipeline,
	store storage.ResumeStore,
	extractor *extract.Extractor,
	llm ChatModel,
	workers *pool.Pool,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:       repo,
		pool:       repo.Pool(),
		candidates: candidates,
		store:      store,
		extractor:  extractor,
		llm:        llm,
		workers:    workers,
		log:        log,
	}
}

// Screen runs the full pipeline synchronously: extract resume text, ask
// the chat model, fall back to the keyword heuristic when the model fails,
// then persist the record and advance an APPLIED candidate to SCREENING in
// one transaction. Screening always produces a result once the resume is
// valid.
func (s *Service) Screen(ctx context.Context, candidateID uuid.UUID, jobDescription string) (repository.Screening, error) {
	start := time.Now()

	text, err := s.resumeText(ctx, candidateID)
	if err != nil {
		return repository.Screening{}, err
	}

	result, usedFallback := s.analyze(ctx, text, jobDescription)
	processingMs := time.Since(start).Milliseconds()

	screening, err := s.persist(ctx, candidateID, result, processingMs)
	if err != nil {
		return repository.Screening{}, err
	}

	s.log.ScreeningEvent(candidateID.String(), screening.MatchScore, s.llm.Model(), usedFallback, processingMs)
	return screening, nil
}

// ScreenAsync verifies the candidate and hands the pipeline to the worker
// pool. When the pool is saturated the submitting request runs the job
// itself.
func (s *Service) ScreenAsync(ctx context.Context, candidateID uuid.UUID, jobDescription string) error {
	key, err := s.candidates.ResumeKey(ctx, candidateID)
	if err != nil {
		return err
	}
	if key == nil {
		return apperr.Validation("Candidate has no resume uploaded")
	}

	s.submit(candidateID, jobDescription)
	return nil
}

// BulkAsync enqueues screening for a batch of candidates. Unknown ids are
// skipped by the background job rather than failing the batch.
func (s *Service) BulkAsync(ctx context.Context, candidateIDs []uuid.UUID, jobDescription string) (int, error) {
	if len(candidateIDs) == 0 {
		return 0, apperr.Validation("candidateIds must not be empty")
	}
	for _, id := range candidateIDs {
		s.submit(id, jobDescription)
	}
	return len(candidateIDs), nil
}

func (s *Service) submit(candidateID uuid.UUID, jobDescription string) {
	s.workers.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncJobTimeout)
		defer cancel()

		if _, err := s.Screen(ctx, candidateID, jobDescription); err != nil {
			s.log.Error("async_screening_failed",
				"candidate_id", candidateID.String(),
				"error", err.Error(),
			)
		}
	})
}

// GetByID retrieves a screening by id.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.Screening, error) {
	return s.repo.GetByID(ctx, id)
}

// ByCandidate retrieves a candidate's screenings.
func (s *Service) ByCandidate(ctx context.Context, candidateID uuid.UUID) ([]repository.Screening, error) {
	if _, err := s.candidates.ResumeKey(ctx, candidateID); err != nil {
		return nil, err
	}
	return s.repo.ByCandidate(ctx, candidateID)
}

// LatestForCandidate retrieves a candidate's most recent screening.
func (s *Service) LatestForCandidate(ctx context.Context, candidateID uuid.UUID) (repository.Screening, error) {
	return s.repo.LatestForCandidate(ctx, candidateID)
}

// HighScores retrieves screenings at or above the threshold.
func (s *Service) HighScores(ctx context.Context, minScore int) ([]repository.Screening, error) {
	if minScore < 0 || minScore > 100 {
		return nil, apperr.Validation("minScore must be between 0 and 100")
	}
	return s.repo.HighScores(ctx, minScore)
}

// InDateRange retrieves screenings in [start, end).
func (s *Service) InDateRange(ctx context.Context, start, end time.Time) ([]repository.Screening, error) {
	if !end.After(start) {
		return nil, apperr.Validation("end must be after start")
	}
	return s.repo.InDateRange(ctx, start, end)
}

// AverageScoreByStage computes mean screening scores per candidate stage.
func (s *Service) AverageScoreByStage(ctx context.Context) ([]repository.StageScore, error) {
	return s.repo.AverageScoreByStage(ctx)
}

// resumeText loads and validates the candidate's resume text.
func (s *Service) resumeText(ctx context.Context, candidateID uuid.UUID) (string, error) {
	key, err := s.candidates.ResumeKey(ctx, candidateID)
	if err != nil {
		return "", err
	}
	if key == nil {
		return "", apperr.Validation("Candidate has no resume uploaded")
	}

	rc, err := s.store.Open(ctx, *key)
	if err != nil {
		return "", apperr.Unavailable("resume-store", "Resume storage is currently unavailable")
	}
	defer rc.Close()

	text, err := s.extractor.Text(*key, rc)
	if err != nil {
		return "", err
	}
	if !extract.HasValidContent(text) {
		return "", apperr.Validation("Resume does not contain valid content")
	}
	return text, nil
}

// analyze asks the chat model and parses the reply; any failure engages
// the deterministic fallback.
func (s *Service) analyze(ctx context.Context, resumeText, jobDescription string) (analyzer.Result, bool) {
	prompt := analyzer.BuildPrompt(resumeText, jobDescription)

	response, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		s.log.Warn("llm_call_failed", "error", err.Error())
		return analyzer.Fallback(resumeText), true
	}

	result, err := analyzer.ParseResponse(response)
	if err != nil {
		s.log.Warn("llm_response_unparseable", "error", err.Error())
		return analyzer.Fallback(resumeText), true
	}
	return result, false
}

// persist writes the screening record and, when the candidate is still
// APPLIED, advances it to SCREENING in the same transaction.
func (s *Service) persist(ctx context.Context, candidateID uuid.UUID, result analyzer.Result, processingMs int64) (repository.Screening, error) {
	model := s.llm.Model()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return repository.Screening{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	screening, err := s.repo.CreateTx(ctx, tx, repository.Screening{
		CandidateID:     candidateID,
		SkillsMatched:   optional(result.SkillsMatched),
		ExperienceYears: result.ExperienceYears,
		EducationLevel:  optional(result.EducationLevel),
		CulturalFit:     optional(result.CulturalFit),
		MatchScore:      result.MatchScore,
		AnalysisText:    optional(result.AnalysisText),
		Recommendation:  result.Recommendation,
		ModelUsed:       &model,
		ProcessingMs:    processingMs,
	})
	if err != nil {
		return repository.Screening{}, err
	}

	stage, err := s.candidates.StageForUpdateTx(ctx, tx, candidateID)
	if err != nil {
		return repository.Screening{}, err
	}
	if stage == candidatedomain.StageApplied {
		reason := fmt.Sprintf("Automated AI screening completed. Score: %d/100", result.MatchScore)
		if err := s.candidates.AdvanceStageTx(ctx, tx, candidateID, candidatedomain.StageScreening, AIActor, &reason); err != nil {
			return repository.Screening{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return repository.Screening{}, fmt.Errorf("commit tx: %w", err)
	}
	return screening, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
