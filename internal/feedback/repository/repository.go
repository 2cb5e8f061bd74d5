// Package repository implements feedback persistence with PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"recruiting_portal_backend/internal/feedback/domain"
	"recruiting_portal_backend/platform/apperr"
)

// Feedback is the persisted panel feedback record.
type Feedback struct {
	ID                  uuid.UUID             `json:"id"`
	InterviewID         uuid.UUID             `json:"interviewId"`
	InterviewerID       uuid.UUID             `json:"interviewerId"`
	TechnicalScore      int                   `json:"technicalScore"`
	CommunicationScore  int                   `json:"communicationScore"`
	ProblemSolvingScore int                   `json:"problemSolvingScore"`
	CulturalFitScore    *int                  `json:"culturalFitScore,omitempty"`
	Strengths           *string               `json:"strengths,omitempty"`
	Weaknesses          *string               `json:"weaknesses,omitempty"`
	Comments            *string               `json:"comments,omitempty"`
	Recommendation      domain.Recommendation `json:"recommendation"`
	SubmittedAt         time.Time             `json:"submittedAt"`
}

// OverallScore is the arithmetic mean of the record's present scores.
func (f Feedback) OverallScore() float64 {
	return domain.OverallScore(f.TechnicalScore, f.CommunicationScore, f.ProblemSolvingScore, f.CulturalFitScore)
}

// CandidateAverages aggregates feedback across a candidate's completed
// interviews.
type CandidateAverages struct {
	CandidateID       uuid.UUID `json:"candidateId"`
	AvgTechnical      float64   `json:"avgTechnical"`
	AvgCommunication  float64   `json:"avgCommunication"`
	AvgProblemSolving float64   `json:"avgProblemSolving"`
	FeedbackCount     int       `json:"feedbackCount"`
	PositiveCount     int       `json:"positiveCount"`
	StrongHireCount   int       `json:"strongHireCount"`
}

// InterviewerStats aggregates an interviewer's submitted feedback.
type InterviewerStats struct {
	InterviewerID    uuid.UUID `json:"interviewerId"`
	AvgTechnical     float64   `json:"avgTechnical"`
	AvgCommunication float64   `json:"avgCommunication"`
	FeedbackCount    int       `json:"feedbackCount"`
	StrongHireCount  int       `json:"strongHireCount"`
}

// Repo implements feedback persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new feedback repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const columns = `id, interview_id, interviewer_id, technical_score, communication_score, problem_solving_score, cultural_fit_score, strengths, weaknesses, comments, recommendation, submitted_at`

// Create inserts a feedback record. The unique constraint on
// (interview_id, interviewer_id) backs the one-feedback-per-pair rule
// against concurrent submits.
func (r *Repo) Create(ctx context.Context, f Feedback) (Feedback, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO feedback (interview_id, interviewer_id, technical_score, communication_score, problem_solving_score, cultural_fit_score, strengths, weaknesses, comments, recommendation)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+columns,
		f.InterviewID, f.InterviewerID, f.TechnicalScore, f.CommunicationScore, f.ProblemSolvingScore,
		f.CulturalFitScore, f.Strengths, f.Weaknesses, f.Comments, f.Recommendation,
	).Scan(&f.ID, &f.InterviewID, &f.InterviewerID, &f.TechnicalScore, &f.CommunicationScore, &f.ProblemSolvingScore,
		&f.CulturalFitScore, &f.Strengths, &f.Weaknesses, &f.Comments, &f.Recommendation, &f.SubmittedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Feedback{}, apperr.Conflict("Feedback already submitted for this interview")
		}
		return Feedback{}, fmt.Errorf("create feedback: %w", err)
	}
	return f, nil
}

// GetByID retrieves a feedback record by id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Feedback, error) {
	var f Feedback
	err := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM feedback WHERE id = $1`, id).
		Scan(&f.ID, &f.InterviewID, &f.InterviewerID, &f.TechnicalScore, &f.CommunicationScore, &f.ProblemSolvingScore,
			&f.CulturalFitScore, &f.Strengths, &f.Weaknesses, &f.Comments, &f.Recommendation, &f.SubmittedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Feedback{}, apperr.NotFound("Feedback not found")
		}
		return Feedback{}, fmt.Errorf("get feedback: %w", err)
	}
	return f, nil
}

// ExistsForPair reports whether the interviewer already submitted feedback
// for the interview.
func (r *Repo) ExistsForPair(ctx context.Context, interviewID, interviewerID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM feedback WHERE interview_id = $1 AND interviewer_id = $2)`,
		interviewID, interviewerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("feedback exists for pair: %w", err)
	}
	return exists, nil
}

// ByInterview retrieves all feedback for an interview.
func (r *Repo) ByInterview(ctx context.Context, interviewID uuid.UUID) ([]Feedback, error) {
	return r.query(ctx, `WHERE interview_id = $1 ORDER BY submitted_at ASC`, interviewID)
}

// ByInterviewer retrieves all feedback an interviewer submitted.
func (r *Repo) ByInterviewer(ctx context.Context, interviewerID uuid.UUID) ([]Feedback, error) {
	return r.query(ctx, `WHERE interviewer_id = $1 ORDER BY submitted_at DESC`, interviewerID)
}

// Positive retrieves feedback arguing for hiring.
func (r *Repo) Positive(ctx context.Context) ([]Feedback, error) {
	return r.query(ctx, `WHERE recommendation IN ('STRONG_HIRE', 'HIRE') ORDER BY submitted_at DESC`)
}

// CandidateAverages computes mean scores across feedback attached to the
// candidate's completed interviews.
func (r *Repo) CandidateAverages(ctx context.Context, candidateID uuid.UUID) (CandidateAverages, error) {
	agg := CandidateAverages{CandidateID: candidateID}
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(AVG(f.technical_score), 0),
		       COALESCE(AVG(f.communication_score), 0),
		       COALESCE(AVG(f.problem_solving_score), 0),
		       COUNT(*),
		       COUNT(*) FILTER (WHERE f.recommendation IN ('STRONG_HIRE', 'HIRE')),
		       COUNT(*) FILTER (WHERE f.recommendation = 'STRONG_HIRE')
		FROM feedback f
		JOIN interviews i ON i.id = f.interview_id
		WHERE i.candidate_id = $1 AND i.current_status = 'COMPLETED'`,
		candidateID,
	).Scan(&agg.AvgTechnical, &agg.AvgCommunication, &agg.AvgProblemSolving,
		&agg.FeedbackCount, &agg.PositiveCount, &agg.StrongHireCount)
	if err != nil {
		return CandidateAverages{}, fmt.Errorf("candidate feedback averages: %w", err)
	}
	return agg, nil
}

// InterviewerStats computes aggregate statistics for an interviewer.
func (r *Repo) InterviewerStats(ctx context.Context, interviewerID uuid.UUID) (InterviewerStats, error) {
	stats := InterviewerStats{InterviewerID: interviewerID}
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(AVG(technical_score), 0),
		       COALESCE(AVG(communication_score), 0),
		       COUNT(*),
		       COUNT(*) FILTER (WHERE recommendation = 'STRONG_HIRE')
		FROM feedback
		WHERE interviewer_id = $1`,
		interviewerID,
	).Scan(&stats.AvgTechnical, &stats.AvgCommunication, &stats.FeedbackCount, &stats.StrongHireCount)
	if err != nil {
		return InterviewerStats{}, fmt.Errorf("interviewer feedback stats: %w", err)
	}
	return stats, nil
}

func (r *Repo) query(ctx context.Context, clause string, args ...any) ([]Feedback, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM feedback `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	defer rows.Close()

	var out []Feedback
	for rows.Next() {
		var f Feedback
		if err := rows.Scan(&f.ID, &f.InterviewID, &f.InterviewerID, &f.TechnicalScore, &f.CommunicationScore, &f.ProblemSolvingScore,
			&f.CulturalFitScore, &f.Strengths, &f.Weaknesses, &f.Comments, &f.Recommendation, &f.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
