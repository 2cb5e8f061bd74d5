// Package repository persists the append-only transition records.
// Appends always run on the caller's transaction so an entity mutation and
// its audit record commit or roll back together. History rows are never
// updated or deleted here.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StageChange is an immutable candidate pipeline transition record.
type StageChange struct {
	ID          uuid.UUID `json:"id"`
	CandidateID uuid.UUID `json:"candidateId"`
	FromStage   *string   `json:"fromStage"`
	ToStage     string    `json:"toStage"`
	ChangedBy   string    `json:"changedBy"`
	Reason      *string   `json:"reason,omitempty"`
	ChangedAt   time.Time `json:"changedAt"`
}

// StatusChange is an immutable interview status transition record.
type StatusChange struct {
	ID          uuid.UUID `json:"id"`
	InterviewID uuid.UUID `json:"interviewId"`
	FromStatus  *string   `json:"fromStatus"`
	ToStatus    string    `json:"toStatus"`
	ChangedBy   string    `json:"changedBy"`
	Notes       *string   `json:"notes,omitempty"`
	ChangedAt   time.Time `json:"changedAt"`
}

// StageDuration is the average time candidates spend in a stage.
type StageDuration struct {
	Stage          string  `json:"stage"`
	AverageSeconds float64 `json:"averageSeconds"`
	Samples        int     `json:"samples"`
}

// Repo implements the audit recorder with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new history repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// RecordStageChangeTx appends a stage transition on the caller's transaction.
// fromStage is nil for the initial APPLIED record.
func (r *Repo) RecordStageChangeTx(ctx context.Context, tx pgx.Tx, candidateID uuid.UUID, fromStage *string, toStage, changedBy string, reason *string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO candidate_stage_history (candidate_id, from_stage, to_stage, changed_by, reason)
		VALUES ($1, $2, $3, $4, $5)
	`, candidateID, fromStage, toStage, changedBy, reason)
	if err != nil {
		return fmt.Errorf("record stage change: %w", err)
	}
	return nil
}

// RecordStatusChangeTx appends an interview status transition on the
// caller's transaction. fromStatus is nil for the initial SCHEDULED record.
func (r *Repo) RecordStatusChangeTx(ctx context.Context, tx pgx.Tx, interviewID uuid.UUID, fromStatus *string, toStatus, changedBy string, notes *string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO interview_status_history (interview_id, from_status, to_status, changed_by, notes)
		VALUES ($1, $2, $3, $4, $5)
	`, interviewID, fromStatus, toStatus, changedBy, notes)
	if err != nil {
		return fmt.Errorf("record status change: %w", err)
	}
	return nil
}

// CandidateExists reports whether the candidate is known.
func (r *Repo) CandidateExists(ctx context.Context, candidateID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM candidates WHERE id = $1)`, candidateID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("candidate exists: %w", err)
	}
	return exists, nil
}

// InterviewExists reports whether the interview is known.
func (r *Repo) InterviewExists(ctx context.Context, interviewID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM interviews WHERE id = $1)`, interviewID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("interview exists: %w", err)
	}
	return exists, nil
}

// StageHistory returns a candidate's transitions ascending by time.
func (r *Repo) StageHistory(ctx context.Context, candidateID uuid.UUID) ([]StageChange, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, candidate_id, from_stage, to_stage, changed_by, reason, changed_at
		FROM candidate_stage_history
		WHERE candidate_id = $1
		ORDER BY changed_at ASC, id ASC
	`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("stage history: %w", err)
	}
	defer rows.Close()

	return scanStageChanges(rows)
}

// StatusHistory returns an interview's transitions ascending by time.
func (r *Repo) StatusHistory(ctx context.Context, interviewID uuid.UUID) ([]StatusChange, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, interview_id, from_status, to_status, changed_by, notes, changed_at
		FROM interview_status_history
		WHERE interview_id = $1
		ORDER BY changed_at ASC, id ASC
	`, interviewID)
	if err != nil {
		return nil, fmt.Errorf("status history: %w", err)
	}
	defer rows.Close()

	var out []StatusChange
	for rows.Next() {
		var sc StatusChange
		if err := rows.Scan(&sc.ID, &sc.InterviewID, &sc.FromStatus, &sc.ToStatus, &sc.ChangedBy, &sc.Notes, &sc.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan status change: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// RecentStageChanges returns pipeline activity since the given time,
// newest first.
func (r *Repo) RecentStageChanges(ctx context.Context, since time.Time) ([]StageChange, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, candidate_id, from_stage, to_stage, changed_by, reason, changed_at
		FROM candidate_stage_history
		WHERE changed_at >= $1
		ORDER BY changed_at DESC
	`, since)
	if err != nil {
		return nil, fmt.Errorf("recent stage changes: %w", err)
	}
	defer rows.Close()

	return scanStageChanges(rows)
}

// AverageStageDurations computes the mean time spent in each stage from
// adjacent transitions per candidate. Only stages that were left at least
// once contribute samples.
func (r *Repo) AverageStageDurations(ctx context.Context) ([]StageDuration, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_stage,
		       AVG(EXTRACT(EPOCH FROM next_changed_at - changed_at)),
		       COUNT(*)
		FROM (
			SELECT candidate_id, to_stage, changed_at,
			       LEAD(changed_at) OVER (PARTITION BY candidate_id ORDER BY changed_at, id) AS next_changed_at
			FROM candidate_stage_history
		) t
		WHERE next_changed_at IS NOT NULL
		GROUP BY to_stage
		ORDER BY to_stage
	`)
	if err != nil {
		return nil, fmt.Errorf("average stage durations: %w", err)
	}
	defer rows.Close()

	var out []StageDuration
	for rows.Next() {
		var d StageDuration
		if err := rows.Scan(&d.Stage, &d.AverageSeconds, &d.Samples); err != nil {
			return nil, fmt.Errorf("scan stage duration: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanStageChanges(rows pgx.Rows) ([]StageChange, error) {
	var out []StageChange
	for rows.Next() {
		var sc StageChange
		if err := rows.Scan(&sc.ID, &sc.CandidateID, &sc.FromStage, &sc.ToStage, &sc.ChangedBy, &sc.Reason, &sc.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan stage change: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}
