// Package repository implements screening persistence with PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"recruiting_portal_backend/platform/apperr"
)

// Screening is a persisted resume analysis record.
type Screening struct {
	ID              uuid.UUID `json:"id"`
	CandidateID     uuid.UUID `json:"candidateId"`
	SkillsMatched   *string   `json:"skillsMatched,omitempty"`
	ExperienceYears float64   `json:"experienceYears"`
	EducationLevel  *string   `json:"educationLevel,omitempty"`
	CulturalFit     *string   `json:"culturalFit,omitempty"`
	MatchScore      int       `json:"matchScore"`
	AnalysisText    *string   `json:"analysisText,omitempty"`
	Recommendation  string    `json:"recommendation"`
	ModelUsed       *string   `json:"modelUsed,omitempty"`
	ProcessingMs    int64     `json:"processingMs"`
	ScreenedAt      time.Time `json:"screenedAt"`
}

// StageScore is the mean screening score of candidates in a stage.
type StageScore struct {
	Stage    string  `json:"stage"`
	AvgScore float64 `json:"avgScore"`
	Count    int     `json:"count"`
}

// Repo implements screening persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new screenings repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Pool exposes the underlying pool so the service can open transactions.
func (r *Repo) Pool() *pgxpool.Pool {
	return r.pool
}

const columns = `id, candidate_id, skills_matched, experience_years, education_level, cultural_fit, match_score, analysis_text, recommendation, model_used, processing_ms, screened_at`

// CreateTx inserts a screening record on the caller's transaction, so the
// record and the candidate's stage advance commit together.
func (r *Repo) CreateTx(ctx context.Context, tx pgx.Tx, s Screening) (Screening, error) {
	err := tx.QueryRow(ctx, `
		INSERT INTO ai_screenings (candidate_id, skills_matched, experience_years, education_level, cultural_fit, match_score, analysis_text, recommendation, model_used, processing_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+columns,
		s.CandidateID, s.SkillsMatched, s.ExperienceYears, s.EducationLevel, s.CulturalFit,
		s.MatchScore, s.AnalysisText, s.Recommendation, s.ModelUsed, s.ProcessingMs,
	).Scan(&s.ID, &s.CandidateID, &s.SkillsMatched, &s.ExperienceYears, &s.EducationLevel, &s.CulturalFit,
		&s.MatchScore, &s.AnalysisText, &s.Recommendation, &s.ModelUsed, &s.ProcessingMs, &s.ScreenedAt)
	if err != nil {
		return Screening{}, fmt.Errorf("create screening: %w", err)
	}
	return s, nil
}

// GetByID retrieves a screening by id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Screening, error) {
	var s Screening
	err := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM ai_screenings WHERE id = $1`, id).
		Scan(&s.ID, &s.CandidateID, &s.SkillsMatched, &s.ExperienceYears, &s.EducationLevel, &s.CulturalFit,
			&s.MatchScore, &s.AnalysisText, &s.Recommendation, &s.ModelUsed, &s.ProcessingMs, &s.ScreenedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Screening{}, apperr.NotFound("Screening not found")
		}
		return Screening{}, fmt.Errorf("get screening: %w", err)
	}
	return s, nil
}

// ByCandidate retrieves a candidate's screenings, newest first.
func (r *Repo) ByCandidate(ctx context.Context, candidateID uuid.UUID) ([]Screening, error) {
	return r.query(ctx, `WHERE candidate_id = $1 ORDER BY screened_at DESC`, candidateID)
}

// LatestForCandidate retrieves a candidate's most recent screening.
func (r *Repo) LatestForCandidate(ctx context.Context, candidateID uuid.UUID) (Screening, error) {
	var s Screening
	err := r.pool.QueryRow(ctx, `
		SELECT `+columns+` FROM ai_screenings
		WHERE candidate_id = $1
		ORDER BY screened_at DESC
		LIMIT 1`, candidateID).
		Scan(&s.ID, &s.CandidateID, &s.SkillsMatched, &s.ExperienceYears, &s.EducationLevel, &s.CulturalFit,
			&s.MatchScore, &s.AnalysisText, &s.Recommendation, &s.ModelUsed, &s.ProcessingMs, &s.ScreenedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Screening{}, apperr.NotFound("No screening found for candidate")
		}
		return Screening{}, fmt.Errorf("latest screening: %w", err)
	}
	return s, nil
}

// HighScores retrieves screenings at or above the threshold, best first.
func (r *Repo) HighScores(ctx context.Context, minScore int) ([]Screening, error) {
	return r.query(ctx, `WHERE match_score >= $1 ORDER BY match_score DESC, screened_at DESC`, minScore)
}

// InDateRange retrieves screenings in [start, end), oldest first.
func (r *Repo) InDateRange(ctx context.Context, start, end time.Time) ([]Screening, error) {
	return r.query(ctx, `WHERE screened_at >= $1 AND screened_at < $2 ORDER BY screened_at ASC`, start, end)
}

// AverageScoreByStage computes mean screening scores grouped by the
// candidates' current stage.
func (r *Repo) AverageScoreByStage(ctx context.Context) ([]StageScore, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.current_stage, AVG(s.match_score), COUNT(*)
		FROM ai_screenings s
		JOIN candidates c ON c.id = s.candidate_id
		GROUP BY c.current_stage
		ORDER BY c.current_stage`)
	if err != nil {
		return nil, fmt.Errorf("average score by stage: %w", err)
	}
	defer rows.Close()

	var out []StageScore
	for rows.Next() {
		var sc StageScore
		if err := rows.Scan(&sc.Stage, &sc.AvgScore, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan stage score: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (r *Repo) query(ctx context.Context, clause string, args ...any) ([]Screening, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM ai_screenings `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("query screenings: %w", err)
	}
	defer rows.Close()

	var out []Screening
	for rows.Next() {
		var s Screening
		if err := rows.Scan(&s.ID, &s.CandidateID, &s.SkillsMatched, &s.ExperienceYears, &s.EducationLevel, &s.CulturalFit,
			&s.MatchScore, &s.AnalysisText, &s.Recommendation, &s.ModelUsed, &s.ProcessingMs, &s.ScreenedAt); err != nil {
			return nil, fmt.Errorf("scan screening: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
