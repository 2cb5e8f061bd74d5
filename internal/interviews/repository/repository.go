// Package repository implements interview persistence with PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"recruiting_portal_backend/internal/interviews/domain"
	"recruiting_portal_backend/platform/apperr"
)

// Interview is the persisted interview record.
type Interview struct {
	ID              uuid.UUID            `json:"id"`
	CandidateID     uuid.UUID            `json:"candidateId"`
	InterviewerID   uuid.UUID            `json:"interviewerId"`
	ScheduledAt     time.Time            `json:"scheduledAt"`
	DurationMinutes int                  `json:"durationMinutes"`
	CurrentStatus   domain.Status        `json:"currentStatus"`
	Type            domain.InterviewType `json:"type"`
	Location        *string              `json:"location,omitempty"`
	Notes           *string              `json:"notes,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

// Repo implements interview persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new interviews repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Pool exposes the underlying pool so the service can open transactions.
func (r *Repo) Pool() *pgxpool.Pool {
	return r.pool
}

const columns = `id, candidate_id, interviewer_id, scheduled_at, duration_minutes, current_status, interview_type, location, notes, created_at, updated_at`

// LockInterviewerTx takes a row lock on the interviewer for the duration of
// the caller's transaction. Conflict detection and the subsequent insert run
// under this lock so two concurrent schedules for the same interviewer
// serialize. Returns the interviewer's active flag.
func (r *Repo) LockInterviewerTx(ctx context.Context, tx pgx.Tx, interviewerID uuid.UUID) (bool, error) {
	var active bool
	err := tx.QueryRow(ctx, `SELECT is_active FROM interviewers WHERE id = $1 FOR UPDATE`, interviewerID).Scan(&active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, apperr.NotFound("Interviewer not found")
		}
		return false, fmt.Errorf("lock interviewer: %w", err)
	}
	return active, nil
}

// BlockingInWindowTx returns the interviewer's calendar-blocking interviews
// whose start falls inside the given window, on the caller's transaction.
// The window is a broadened candidate set; the exact half-open overlap test
// runs in the service. excludeID skips the interview being rescheduled.
func (r *Repo) BlockingInWindowTx(ctx context.Context, tx pgx.Tx, interviewerID uuid.UUID, from, to time.Time, excludeID *uuid.UUID) ([]Interview, error) {
	rows, err := tx.Query(ctx, `
		SELECT `+columns+` FROM interviews
		WHERE interviewer_id = $1
		  AND current_status NOT IN ('CANCELLED', 'COMPLETED')
		  AND scheduled_at BETWEEN $2 AND $3
		  AND ($4::uuid IS NULL OR id <> $4)
		ORDER BY scheduled_at ASC`,
		interviewerID, from, to, excludeID)
	if err != nil {
		return nil, fmt.Errorf("blocking interviews in window: %w", err)
	}
	defer rows.Close()

	return scanInterviews(rows)
}

// CreateTx inserts an interview on the caller's transaction.
func (r *Repo) CreateTx(ctx context.Context, tx pgx.Tx, iv Interview) (Interview, error) {
	err := tx.QueryRow(ctx, `
		INSERT INTO interviews (candidate_id, interviewer_id, scheduled_at, duration_minutes, current_status, interview_type, location, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+columns,
		iv.CandidateID, iv.InterviewerID, iv.ScheduledAt, iv.DurationMinutes, iv.CurrentStatus, iv.Type, iv.Location, iv.Notes,
	).Scan(&iv.ID, &iv.CandidateID, &iv.InterviewerID, &iv.ScheduledAt, &iv.DurationMinutes, &iv.CurrentStatus, &iv.Type, &iv.Location, &iv.Notes, &iv.CreatedAt, &iv.UpdatedAt)
	if err != nil {
		return Interview{}, fmt.Errorf("create interview: %w", err)
	}
	return iv, nil
}

// GetByID retrieves an interview by id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Interview, error) {
	var iv Interview
	err := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM interviews WHERE id = $1`, id).
		Scan(&iv.ID, &iv.CandidateID, &iv.InterviewerID, &iv.ScheduledAt, &iv.DurationMinutes, &iv.CurrentStatus, &iv.Type, &iv.Location, &iv.Notes, &iv.CreatedAt, &iv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Interview{}, apperr.NotFound("Interview not found")
		}
		return Interview{}, fmt.Errorf("get interview: %w", err)
	}
	return iv, nil
}

// GetForUpdateTx loads an interview under a row lock so concurrent status
// changes serialize.
func (r *Repo) GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (Interview, error) {
	var iv Interview
	err := tx.QueryRow(ctx, `SELECT `+columns+` FROM interviews WHERE id = $1 FOR UPDATE`, id).
		Scan(&iv.ID, &iv.CandidateID, &iv.InterviewerID, &iv.ScheduledAt, &iv.DurationMinutes, &iv.CurrentStatus, &iv.Type, &iv.Location, &iv.Notes, &iv.CreatedAt, &iv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Interview{}, apperr.NotFound("Interview not found")
		}
		return Interview{}, fmt.Errorf("get interview for update: %w", err)
	}
	return iv, nil
}

// UpdateStatusTx writes the new status on the caller's transaction.
func (r *Repo) UpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.Status) error {
	tag, err := tx.Exec(ctx, `UPDATE interviews SET current_status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update interview status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Interview not found")
	}
	return nil
}

// UpdateScheduleTx moves an interview to a new slot on the caller's
// transaction.
func (r *Repo) UpdateScheduleTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, scheduledAt time.Time, durationMinutes int) error {
	tag, err := tx.Exec(ctx, `
		UPDATE interviews SET scheduled_at = $2, duration_minutes = $3, updated_at = now() WHERE id = $1`,
		id, scheduledAt, durationMinutes)
	if err != nil {
		return fmt.Errorf("update interview schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Interview not found")
	}
	return nil
}

// ByCandidate retrieves a candidate's interviews, newest slot first.
func (r *Repo) ByCandidate(ctx context.Context, candidateID uuid.UUID) ([]Interview, error) {
	return r.query(ctx, `WHERE candidate_id = $1 ORDER BY scheduled_at DESC`, candidateID)
}

// ByInterviewer retrieves an interviewer's interviews, newest slot first.
func (r *Repo) ByInterviewer(ctx context.Context, interviewerID uuid.UUID) ([]Interview, error) {
	return r.query(ctx, `WHERE interviewer_id = $1 ORDER BY scheduled_at DESC`, interviewerID)
}

// Today retrieves calendar-blocking interviews scheduled within the given
// day bounds.
func (r *Repo) Today(ctx context.Context, dayStart, dayEnd time.Time) ([]Interview, error) {
	return r.query(ctx, `
		WHERE current_status NOT IN ('CANCELLED', 'COMPLETED')
		  AND scheduled_at >= $1 AND scheduled_at < $2
		ORDER BY scheduled_at ASC`, dayStart, dayEnd)
}

// Overdue retrieves interviews whose slot has passed while still SCHEDULED.
func (r *Repo) Overdue(ctx context.Context, now time.Time) ([]Interview, error) {
	return r.query(ctx, `
		WHERE current_status = 'SCHEDULED' AND scheduled_at < $1
		ORDER BY scheduled_at ASC`, now)
}

// CompletedWithoutFeedback retrieves completed interviews that have no
// feedback from their interviewer of record yet.
func (r *Repo) CompletedWithoutFeedback(ctx context.Context) ([]Interview, error) {
	return r.query(ctx, `
		WHERE current_status = 'COMPLETED'
		  AND NOT EXISTS (
			SELECT 1 FROM feedback f
			WHERE f.interview_id = interviews.id AND f.interviewer_id = interviews.interviewer_id
		  )
		ORDER BY scheduled_at ASC`)
}

// BlockingForInterviewer retrieves all calendar-blocking interviews for the
// availability checks. No lock is taken; availability is advisory.
func (r *Repo) BlockingForInterviewer(ctx context.Context, interviewerID uuid.UUID) ([]Interview, error) {
	return r.query(ctx, `
		WHERE interviewer_id = $1 AND current_status NOT IN ('CANCELLED', 'COMPLETED')
		ORDER BY scheduled_at ASC`, interviewerID)
}

// BlockingInRange retrieves calendar-blocking interviews for a set of
// interviewers whose slot could intersect [start, end).
func (r *Repo) BlockingInRange(ctx context.Context, start, end time.Time) ([]Interview, error) {
	// An interview starting up to MaxDurationMinutes before the window can
	// still reach into it.
	earliest := start.Add(-time.Duration(domain.MaxDurationMinutes) * time.Minute)
	return r.query(ctx, `
		WHERE current_status NOT IN ('CANCELLED', 'COMPLETED')
		  AND scheduled_at >= $1 AND scheduled_at < $2
		ORDER BY scheduled_at ASC`, earliest, end)
}

func (r *Repo) query(ctx context.Context, clause string, args ...any) ([]Interview, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM interviews `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("query interviews: %w", err)
	}
	defer rows.Close()

	return scanInterviews(rows)
}

func scanInterviews(rows pgx.Rows) ([]Interview, error) {
	var out []Interview
	for rows.Next() {
		var iv Interview
		if err := rows.Scan(&iv.ID, &iv.CandidateID, &iv.InterviewerID, &iv.ScheduledAt, &iv.DurationMinutes, &iv.CurrentStatus, &iv.Type, &iv.Location, &iv.Notes, &iv.CreatedAt, &iv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan interview: %w", err)
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}
