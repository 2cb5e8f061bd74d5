// Package repository implements interviewer persistence with PostgreSQL.
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

	"recruiting_portal_backend/platform/apperr"
)

// Interviewer is the persisted interviewer record.
type Interviewer struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department *string   `json:"department,omitempty"`
	Title      *string   `json:"title,omitempty"`
	Expertise  []string  `json:"expertise"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Repo implements interviewer persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new interviewers repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const columns = `id, name, email, department, title, expertise, is_active, created_at, updated_at`

// Create inserts a new interviewer.
func (r *Repo) Create(ctx context.Context, iv Interviewer) (Interviewer, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO interviewers (name, email, department, title, expertise, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+columns,
		iv.Name, iv.Email, iv.Department, iv.Title, iv.Expertise, iv.IsActive,
	).Scan(&iv.ID, &iv.Name, &iv.Email, &iv.Department, &iv.Title, &iv.Expertise, &iv.IsActive, &iv.CreatedAt, &iv.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Interviewer{}, apperr.Conflict("Interviewer with this email already exists")
		}
		return Interviewer{}, fmt.Errorf("create interviewer: %w", err)
	}
	return iv, nil
}

// GetByID retrieves an interviewer by id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Interviewer, error) {
	var iv Interviewer
	err := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM interviewers WHERE id = $1`, id).
		Scan(&iv.ID, &iv.Name, &iv.Email, &iv.Department, &iv.Title, &iv.Expertise, &iv.IsActive, &iv.CreatedAt, &iv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Interviewer{}, apperr.NotFound("Interviewer not found")
		}
		return Interviewer{}, fmt.Errorf("get interviewer: %w", err)
	}
	return iv, nil
}

// List retrieves interviewers, optionally restricted to active ones.
func (r *Repo) List(ctx context.Context, activeOnly bool) ([]Interviewer, error) {
	query := `SELECT ` + columns + ` FROM interviewers`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list interviewers: %w", err)
	}
	defer rows.Close()

	return scanInterviewers(rows)
}

// ByExpertise retrieves active interviewers carrying the given expertise tag.
func (r *Repo) ByExpertise(ctx context.Context, expertise string) ([]Interviewer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+columns+` FROM interviewers
		WHERE is_active AND $1 = ANY(expertise)
		ORDER BY name ASC`, expertise)
	if err != nil {
		return nil, fmt.Errorf("interviewers by expertise: %w", err)
	}
	defer rows.Close()

	return scanInterviewers(rows)
}

// Update replaces an interviewer's mutable fields.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, name string, department, title *string, expertise []string) (Interviewer, error) {
	var iv Interviewer
	err := r.pool.QueryRow(ctx, `
		UPDATE interviewers
		SET name = $2, department = $3, title = $4, expertise = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+columns,
		id, name, department, title, expertise,
	).Scan(&iv.ID, &iv.Name, &iv.Email, &iv.Department, &iv.Title, &iv.Expertise, &iv.IsActive, &iv.CreatedAt, &iv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Interviewer{}, apperr.NotFound("Interviewer not found")
		}
		return Interviewer{}, fmt.Errorf("update interviewer: %w", err)
	}
	return iv, nil
}

// SetActive flips the active flag. Inactive interviewers keep their history
// but cannot receive new interviews.
func (r *Repo) SetActive(ctx context.Context, id uuid.UUID, active bool) (Interviewer, error) {
	var iv Interviewer
	err := r.pool.QueryRow(ctx, `
		UPDATE interviewers SET is_active = $2, updated_at = now() WHERE id = $1
		RETURNING `+columns,
		id, active,
	).Scan(&iv.ID, &iv.Name, &iv.Email, &iv.Department, &iv.Title, &iv.Expertise, &iv.IsActive, &iv.CreatedAt, &iv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Interviewer{}, apperr.NotFound("Interviewer not found")
		}
		return Interviewer{}, fmt.Errorf("set interviewer active: %w", err)
	}
	return iv, nil
}

// LockTx takes a row lock on the interviewer. Scheduling locks the same
// row before inserting an interview, so a delete holding this lock cannot
// interleave with a concurrent booking.
func (r *Repo) LockTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	var one int
	err := tx.QueryRow(ctx, `SELECT 1 FROM interviewers WHERE id = $1 FOR UPDATE`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("Interviewer not found")
		}
		return fmt.Errorf("lock interviewer: %w", err)
	}
	return nil
}

// HasInterviewsTx reports whether any interview references the interviewer,
// on the caller's transaction.
func (r *Repo) HasInterviewsTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM interviews WHERE interviewer_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("interviewer has interviews: %w", err)
	}
	return exists, nil
}

// DeleteTx removes an interviewer on the caller's transaction. A foreign
// key violation means an interview slipped in despite the guard and maps
// to the same business rule.
func (r *Repo) DeleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM interviewers WHERE id = $1`, id)
	if err != nil {
		return deleteConflict(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Interviewer not found")
	}
	return nil
}

// Pool exposes the underlying pool for service-level transactions.
func (r *Repo) Pool() *pgxpool.Pool {
	return r.pool
}

func deleteConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return apperr.BusinessRule("Cannot delete an interviewer with interview records. Deactivate instead")
	}
	return fmt.Errorf("delete interviewer: %w", err)
}

func scanInterviewers(rows pgx.Rows) ([]Interviewer, error) {
	var out []Interviewer
	for rows.Next() {
		var iv Interviewer
		if err := rows.Scan(&iv.ID, &iv.Name, &iv.Email, &iv.Department, &iv.Title, &iv.Expertise, &iv.IsActive, &iv.CreatedAt, &iv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan interviewer: %w", err)
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}
