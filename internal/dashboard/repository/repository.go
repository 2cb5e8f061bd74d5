// Package repository implements the read-only dashboard projections with
// PostgreSQL. Every query aggregates over tables owned by other contexts;
// nothing here mutates state.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Activity is a recent candidate stage transition joined with the
// candidate's name.
type Activity struct {
	CandidateName string    `json:"candidateName"`
	FromStage     *string   `json:"fromStage"`
	ToStage       string    `json:"toStage"`
	ChangedBy     string    `json:"changedBy"`
	ChangedAt     time.Time `json:"changedAt"`
	Reason        *string   `json:"reason,omitempty"`
}

// TopCandidate is a candidate ranked by its best screening score.
type TopCandidate struct {
	CandidateID   uuid.UUID `json:"candidateId"`
	CandidateName string    `json:"candidateName"`
	Email         string    `json:"email"`
	MatchScore    int       `json:"matchScore"`
	CurrentStage  string    `json:"currentStage"`
	ScreenedAt    time.Time `json:"screenedAt"`
}

// StageAverage is the mean screening score of candidates currently in a
// stage.
type StageAverage struct {
	Stage    string  `json:"stage"`
	AvgScore float64 `json:"avgScore"`
}

// TypeStats counts interviews of one type.
type TypeStats struct {
	InterviewType string `json:"interviewType"`
	Total         int64  `json:"total"`
	Completed     int64  `json:"completed"`
}

// RecentCandidate is a candidate created within the requested window.
type RecentCandidate struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	CurrentStage string    `json:"currentStage"`
	AppliedAt    time.Time `json:"appliedAt"`
}

// UpcomingInterview is a scheduled interview joined with participant names.
type UpcomingInterview struct {
	ID              uuid.UUID `json:"id"`
	CandidateName   string    `json:"candidateName"`
	InterviewerName string    `json:"interviewerName"`
	ScheduledAt     time.Time `json:"scheduledAt"`
	InterviewType   string    `json:"interviewType"`
	CurrentStatus   string    `json:"currentStatus"`
	Location        *string   `json:"location,omitempty"`
}

// Repo implements the dashboard read model with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new dashboard repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// TotalCandidates counts all candidates.
func (r *Repo) TotalCandidates(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM candidates`)
}

// CandidatesCreatedSince counts candidates created at or after the cutoff.
func (r *Repo) CandidatesCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM candidates WHERE created_at >= $1`, since)
}

// InterviewsScheduledBetween counts interviews with a scheduled time in
// [from, to) regardless of status.
func (r *Repo) InterviewsScheduledBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM interviews WHERE scheduled_at >= $1 AND scheduled_at < $2`, from, to)
}

// PendingFeedbackCount counts completed interviews whose interviewer has
// not submitted feedback yet.
func (r *Repo) PendingFeedbackCount(ctx context.Context) (int64, error) {
	return r.count(ctx, `
		SELECT COUNT(*) FROM interviews i
		WHERE i.current_status = 'COMPLETED'
		  AND NOT EXISTS (
			SELECT 1 FROM feedback f
			WHERE f.interview_id = i.id AND f.interviewer_id = i.interviewer_id
		  )`)
}

// CandidateCountsByStage counts candidates grouped by current stage.
// Stages with no candidates are absent from the map.
func (r *Repo) CandidateCountsByStage(ctx context.Context) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT current_stage, COUNT(*) FROM candidates GROUP BY current_stage`)
	if err != nil {
		return nil, fmt.Errorf("count by stage: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var stage string
		var n int64
		if err := rows.Scan(&stage, &n); err != nil {
			return nil, fmt.Errorf("scan stage count: %w", err)
		}
		out[stage] = n
	}
	return out, rows.Err()
}

// RecentStageChanges lists stage transitions at or after the cutoff,
// newest first.
func (r *Repo) RecentStageChanges(ctx context.Context, since time.Time) ([]Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.name, h.from_stage, h.to_stage, h.changed_by, h.changed_at, h.reason
		FROM candidate_stage_history h
		JOIN candidates c ON c.id = h.candidate_id
		WHERE h.changed_at >= $1
		ORDER BY h.changed_at DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("recent stage changes: %w", err)
	}
	defer rows.Close()

	var out []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.CandidateName, &a.FromStage, &a.ToStage, &a.ChangedBy, &a.ChangedAt, &a.Reason); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// TopScoredCandidates ranks candidates by their best screening score at or
// above minScore. One row per candidate.
func (r *Repo) TopScoredCandidates(ctx context.Context, minScore, limit int) ([]TopCandidate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.name, c.email, MAX(s.match_score), c.current_stage, MAX(s.screened_at)
		FROM ai_screenings s
		JOIN candidates c ON c.id = s.candidate_id
		GROUP BY c.id, c.name, c.email, c.current_stage
		HAVING MAX(s.match_score) >= $1
		ORDER BY MAX(s.match_score) DESC
		LIMIT $2`, minScore, limit)
	if err != nil {
		return nil, fmt.Errorf("top scored candidates: %w", err)
	}
	defer rows.Close()

	var out []TopCandidate
	for rows.Next() {
		var t TopCandidate
		if err := rows.Scan(&t.CandidateID, &t.CandidateName, &t.Email, &t.MatchScore, &t.CurrentStage, &t.ScreenedAt); err != nil {
			return nil, fmt.Errorf("scan top candidate: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// AverageScoreByStage computes mean screening scores grouped by the
// candidates' current stage.
func (r *Repo) AverageScoreByStage(ctx context.Context) ([]StageAverage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.current_stage, AVG(s.match_score)
		FROM ai_screenings s
		JOIN candidates c ON c.id = s.candidate_id
		GROUP BY c.current_stage
		ORDER BY c.current_stage`)
	if err != nil {
		return nil, fmt.Errorf("average score by stage: %w", err)
	}
	defer rows.Close()

	var out []StageAverage
	for rows.Next() {
		var sa StageAverage
		if err := rows.Scan(&sa.Stage, &sa.AvgScore); err != nil {
			return nil, fmt.Errorf("scan stage average: %w", err)
		}
		out = append(out, sa)
	}
	return out, rows.Err()
}

// InterviewStatsByType counts total and completed interviews per type.
func (r *Repo) InterviewStatsByType(ctx context.Context) ([]TypeStats, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT interview_type,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE current_status = 'COMPLETED')
		FROM interviews
		GROUP BY interview_type
		ORDER BY interview_type`)
	if err != nil {
		return nil, fmt.Errorf("interview stats by type: %w", err)
	}
	defer rows.Close()

	var out []TypeStats
	for rows.Next() {
		var ts TypeStats
		if err := rows.Scan(&ts.InterviewType, &ts.Total, &ts.Completed); err != nil {
			return nil, fmt.Errorf("scan type stats: %w", err)
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

// TotalScreenings counts all screening records.
func (r *Repo) TotalScreenings(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM ai_screenings`)
}

// HighScoreScreeningCount counts screenings at or above the threshold.
func (r *Repo) HighScoreScreeningCount(ctx context.Context, minScore int) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM ai_screenings WHERE match_score >= $1`, minScore)
}

// TotalFeedback counts all feedback records.
func (r *Repo) TotalFeedback(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM feedback`)
}

// PositiveFeedbackCount counts feedback recommending a hire.
func (r *Repo) PositiveFeedbackCount(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM feedback WHERE recommendation IN ('STRONG_HIRE', 'HIRE')`)
}

// RecentCandidates lists candidates created at or after the cutoff, newest
// first.
func (r *Repo) RecentCandidates(ctx context.Context, since time.Time) ([]RecentCandidate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, current_stage, created_at
		FROM candidates
		WHERE created_at >= $1
		ORDER BY created_at DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("recent candidates: %w", err)
	}
	defer rows.Close()

	var out []RecentCandidate
	for rows.Next() {
		var rc RecentCandidate
		if err := rows.Scan(&rc.ID, &rc.Name, &rc.Email, &rc.CurrentStage, &rc.AppliedAt); err != nil {
			return nil, fmt.Errorf("scan recent candidate: %w", err)
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

// UpcomingInterviews lists interviews scheduled in [from, to) with
// participant names, soonest first.
func (r *Repo) UpcomingInterviews(ctx context.Context, from, to time.Time) ([]UpcomingInterview, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT i.id, c.name, v.name, i.scheduled_at, i.interview_type, i.current_status, i.location
		FROM interviews i
		JOIN candidates c ON c.id = i.candidate_id
		JOIN interviewers v ON v.id = i.interviewer_id
		WHERE i.scheduled_at >= $1 AND i.scheduled_at < $2
		ORDER BY i.scheduled_at ASC`, from, to)
	if err != nil {
		return nil, fmt.Errorf("upcoming interviews: %w", err)
	}
	defer rows.Close()

	var out []UpcomingInterview
	for rows.Next() {
		var u UpcomingInterview
		if err := rows.Scan(&u.ID, &u.CandidateName, &u.InterviewerName, &u.ScheduledAt, &u.InterviewType, &u.CurrentStatus, &u.Location); err != nil {
			return nil, fmt.Errorf("scan upcoming interview: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repo) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count query: %w", err)
	}
	return n, nil
}
