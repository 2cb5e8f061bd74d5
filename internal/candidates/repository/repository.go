// Package repository implements candidate persistence with PostgreSQL.
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

	"recruiting_portal_backend/internal/candidates/domain"
	"recruiting_portal_backend/platform/apperr"
)

const candidateNotFoundMessage = "Candidate not found"

// Candidate is the persisted candidate record.
type Candidate struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Phone        *string      `json:"phone,omitempty"`
	ResumeKey    *string      `json:"resumeKey,omitempty"`
	CurrentStage domain.Stage `json:"currentStage"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// ListParams controls pagination and sorting for candidate listings.
type ListParams struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
}

// SearchParams are the optional filters for candidate search.
type SearchParams struct {
	Name  string
	Email string
	Stage *domain.Stage
	ListParams
}

var sortColumns = map[string]string{
	"name":         "name",
	"email":        "email",
	"createdAt":    "created_at",
	"updatedAt":    "updated_at",
	"currentStage": "current_stage",
}

// Repo implements candidate persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new candidates repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Pool exposes the underlying pool so the service can open transactions.
func (r *Repo) Pool() *pgxpool.Pool {
	return r.pool
}

const candidateColumns = `id, name, email, phone, resume_key, current_stage, created_at, updated_at`

// EmailExists reports whether a candidate with the given email exists.
func (r *Repo) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM candidates WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("candidate email exists: %w", err)
	}
	return exists, nil
}

// CreateTx inserts a candidate on the caller's transaction.
// A unique violation on email is mapped to a conflict error so concurrent
// creates with the same address fail cleanly.
func (r *Repo) CreateTx(ctx context.Context, tx pgx.Tx, c Candidate) (Candidate, error) {
	err := tx.QueryRow(ctx, `
		INSERT INTO candidates (name, email, phone, resume_key, current_stage)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+candidateColumns,
		c.Name, c.Email, c.Phone, c.ResumeKey, c.CurrentStage,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.ResumeKey, &c.CurrentStage, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Candidate{}, apperr.Conflict("Candidate with this email already exists")
		}
		return Candidate{}, fmt.Errorf("create candidate: %w", err)
	}
	return c, nil
}

// GetByID retrieves a candidate by id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Candidate, error) {
	return r.get(ctx, r.pool, `WHERE id = $1`, id)
}

// GetByEmail retrieves a candidate by email.
func (r *Repo) GetByEmail(ctx context.Context, email string) (Candidate, error) {
	return r.get(ctx, r.pool, `WHERE email = $1`, email)
}

type queryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *Repo) get(ctx context.Context, q queryer, where string, arg any) (Candidate, error) {
	var c Candidate
	err := q.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates `+where, arg).
		Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.ResumeKey, &c.CurrentStage, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Candidate{}, apperr.NotFound(candidateNotFoundMessage)
		}
		return Candidate{}, fmt.Errorf("get candidate: %w", err)
	}
	return c, nil
}

// GetForUpdateTx loads a candidate under a row lock on the caller's
// transaction. Stage transitions read the current stage through this so
// concurrent updates serialize per candidate.
func (r *Repo) GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (Candidate, error) {
	var c Candidate
	err := tx.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1 FOR UPDATE`, id).
		Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.ResumeKey, &c.CurrentStage, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Candidate{}, apperr.NotFound(candidateNotFoundMessage)
		}
		return Candidate{}, fmt.Errorf("get candidate for update: %w", err)
	}
	return c, nil
}

// List retrieves candidates with pagination and sorting.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Candidate, int, error) {
	orderBy, limit, offset := params.normalize()

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM candidates`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count candidates: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+candidateColumns+` FROM candidates ORDER BY `+orderBy+` LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	items, err := scanCandidates(rows)
	return items, total, err
}

// Search retrieves candidates matching the given filters.
// Name and email match case-insensitively as substrings.
func (r *Repo) Search(ctx context.Context, params SearchParams) ([]Candidate, int, error) {
	orderBy, limit, offset := params.normalize()

	where := `WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		AND ($2 = '' OR email ILIKE '%' || $2 || '%')
		AND ($3::text IS NULL OR current_stage = $3)`

	var stage *string
	if params.Stage != nil {
		s := string(*params.Stage)
		stage = &s
	}

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM candidates `+where,
		params.Name, params.Email, stage).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count candidate search: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+candidateColumns+` FROM candidates `+where+` ORDER BY `+orderBy+` LIMIT $4 OFFSET $5`,
		params.Name, params.Email, stage, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("search candidates: %w", err)
	}
	defer rows.Close()

	items, err := scanCandidates(rows)
	return items, total, err
}

// ByStage retrieves candidates in the given stage.
func (r *Repo) ByStage(ctx context.Context, stage domain.Stage) ([]Candidate, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE current_stage = $1 ORDER BY created_at DESC`,
		stage)
	if err != nil {
		return nil, fmt.Errorf("candidates by stage: %w", err)
	}
	defer rows.Close()

	return scanCandidates(rows)
}

// WithoutScreening retrieves candidates that have no screening record yet.
func (r *Repo) WithoutScreening(ctx context.Context) ([]Candidate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+candidateColumns+` FROM candidates c
		WHERE NOT EXISTS (SELECT 1 FROM ai_screenings s WHERE s.candidate_id = c.id)
		ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("candidates without screening: %w", err)
	}
	defer rows.Close()

	return scanCandidates(rows)
}

// UpdateStageTx writes the new stage on the caller's transaction.
func (r *Repo) UpdateStageTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, stage domain.Stage) error {
	tag, err := tx.Exec(ctx, `UPDATE candidates SET current_stage = $2, updated_at = now() WHERE id = $1`, id, stage)
	if err != nil {
		return fmt.Errorf("update candidate stage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(candidateNotFoundMessage)
	}
	return nil
}

// UpdateProfile updates name and phone. Email is immutable.
func (r *Repo) UpdateProfile(ctx context.Context, id uuid.UUID, name, phone *string) (Candidate, error) {
	var c Candidate
	err := r.pool.QueryRow(ctx, `
		UPDATE candidates
		SET name = COALESCE($2, name), phone = COALESCE($3, phone), updated_at = now()
		WHERE id = $1
		RETURNING `+candidateColumns,
		id, name, phone,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.ResumeKey, &c.CurrentStage, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Candidate{}, apperr.NotFound(candidateNotFoundMessage)
		}
		return Candidate{}, fmt.Errorf("update candidate profile: %w", err)
	}
	return c, nil
}

// SetResumeKeyTx stores the blob key for an uploaded resume.
func (r *Repo) SetResumeKeyTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, key string) error {
	tag, err := tx.Exec(ctx, `UPDATE candidates SET resume_key = $2, updated_at = now() WHERE id = $1`, id, key)
	if err != nil {
		return fmt.Errorf("set resume key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(candidateNotFoundMessage)
	}
	return nil
}

// DeleteTx removes a candidate and everything it owns on the caller's
// transaction. Cascades are explicit so the deletion order is visible here
// rather than hidden in schema constraints.
func (r *Repo) DeleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	statements := []string{
		`DELETE FROM feedback WHERE interview_id IN (SELECT id FROM interviews WHERE candidate_id = $1)`,
		`DELETE FROM interview_status_history WHERE interview_id IN (SELECT id FROM interviews WHERE candidate_id = $1)`,
		`DELETE FROM interviews WHERE candidate_id = $1`,
		`DELETE FROM ai_screenings WHERE candidate_id = $1`,
		`DELETE FROM candidate_stage_history WHERE candidate_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return fmt.Errorf("cascade delete candidate: %w", err)
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete candidate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(candidateNotFoundMessage)
	}
	return nil
}

func (p ListParams) normalize() (orderBy string, limit, offset int) {
	col, ok := sortColumns[p.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if p.SortDir == "asc" || p.SortDir == "ASC" {
		dir = "ASC"
	}

	size := p.Size
	if size < 1 || size > 100 {
		size = 20
	}
	page := p.Page
	if page < 0 {
		page = 0
	}

	return col + " " + dir, size, page * size
}

func scanCandidates(rows pgx.Rows) ([]Candidate, error) {
	var out []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.ResumeKey, &c.CurrentStage, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
