// Package service implements the interview scheduler and lifecycle manager.
//
// Scheduling runs its conflict check and insert in one transaction under a
// row lock on the interviewer, so two concurrent schedules for the same
// interviewer serialize and cannot both observe a free window.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	candidatedomain "recruiting_portal_backend/internal/candidates/domain"
	"recruiting_portal_backend/internal/interviewers/repository"
	"recruiting_portal_backend/internal/interviews/domain"
	ivrepo "recruiting_portal_backend/internal/interviews/repository"
	"recruiting_portal_backend/internal/interviews/transport"
	"recruiting_portal_backend/platform/apperr"
	"recruiting_portal_backend/platform/logger"
)

// CandidateGate is the slice of the candidates service the scheduler needs.
// Stage reads and advances run on the scheduler's transaction.
type CandidateGate interface {
	StageForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (candidatedomain.Stage, error)
	AdvanceStageTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, target candidatedomain.Stage, changedBy string, reason *string) error
}

// StatusRecorder appends interview status audit records on the caller's
// transaction.
type StatusRecorder interface {
	RecordStatusChangeTx(ctx context.Context, tx pgx.Tx, interviewID uuid.UUID, fromStatus *string, toStatus, changedBy string, notes *string) error
}

// InterviewerDirectory resolves interviewer records for availability
// queries.
type InterviewerDirectory interface {
	List(ctx context.Context, activeOnly bool) ([]repository.Interviewer, error)
}

// schedulableStages are the candidate stages in which an interview may be
// booked.
var schedulableStages = map[candidatedomain.Stage]bool{
	candidatedomain.StageScreening:          true,
	candidatedomain.StageInterviewScheduled: true,
	candidatedomain.StageInterviewCompleted: true,
}

// Service provides the scheduling and lifecycle business logic.
type Service struct {
	repo       *ivrepo.Repo
	pool       *pgxpool.Pool
	candidates CandidateGate
	history    StatusRecorder
	directory  InterviewerDirectory
	log        *logger.Logger
}

// New creates a new interviews service.
func New(repo *ivrepo.Repo, candidates CandidateGate, history StatusRecorder, directory InterviewerDirectory, log *logger.Logger) *Service {
	return &Service{
		repo:       repo,
		pool:       repo.Pool(),
		candidates: candidates,
		history:    history,
		directory:  directory,
		log:        log,
	}
}

// Schedule books an interview slot. On success the interview is SCHEDULED,
// the initial status record is written, and a candidate in SCREENING is
// advanced to INTERVIEW_SCHEDULED, all in one transaction.
func (s *Service) Schedule(ctx context.Context, req transport.ScheduleInterviewRequest) (ivrepo.Interview, error) {
	ivType, err := domain.ParseType(req.Type)
	if err != nil {
		return ivrepo.Interview{}, apperr.Validation(fmt.Sprintf("Unknown interview type: %s", req.Type))
	}

	duration := domain.DefaultDurationMinutes
	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
	}
	if err := validateSlot(req.ScheduledAt, duration); err != nil {
		return ivrepo.Interview{}, err
	}

	created, err := s.inTx(ctx, func(tx pgx.Tx) (ivrepo.Interview, error) {
		stage, err := s.candidates.StageForUpdateTx(ctx, tx, req.CandidateID)
		if err != nil {
			return ivrepo.Interview{}, err
		}
		if !schedulableStages[stage] {
			return ivrepo.Interview{}, apperr.BusinessRule(
				fmt.Sprintf("Cannot schedule an interview for a candidate in stage %s", stage))
		}

		active, err := s.repo.LockInterviewerTx(ctx, tx, req.InterviewerID)
		if err != nil {
			return ivrepo.Interview{}, err
		}
		if !active {
			return ivrepo.Interview{}, apperr.BusinessRule("Cannot schedule with an inactive interviewer")
		}

		if err := s.checkConflictTx(ctx, tx, req.InterviewerID, req.ScheduledAt, duration, nil); err != nil {
			return ivrepo.Interview{}, err
		}

		created, err := s.repo.CreateTx(ctx, tx, ivrepo.Interview{
			CandidateID:     req.CandidateID,
			InterviewerID:   req.InterviewerID,
			ScheduledAt:     req.ScheduledAt,
			DurationMinutes: duration,
			CurrentStatus:   domain.StatusScheduled,
			Type:            ivType,
			Location:        req.Location,
			Notes:           req.Notes,
		})
		if err != nil {
			return ivrepo.Interview{}, err
		}

		if err := s.history.RecordStatusChangeTx(ctx, tx, created.ID, nil, string(domain.StatusScheduled), req.ScheduledBy, nil); err != nil {
			return ivrepo.Interview{}, err
		}

		// First interview moves the candidate forward in the pipeline.
		if stage == candidatedomain.StageScreening {
			reason := "Interview scheduled"
			if err := s.candidates.AdvanceStageTx(ctx, tx, req.CandidateID, candidatedomain.StageInterviewScheduled, req.ScheduledBy, &reason); err != nil {
				return ivrepo.Interview{}, err
			}
		}
		return created, nil
	})
	if err != nil {
		return ivrepo.Interview{}, err
	}

	s.log.StatusTransition(created.ID.String(), "", string(domain.StatusScheduled), req.ScheduledBy)
	return created, nil
}

// Reschedule moves an interview to a new slot. The history keeps both the
// RESCHEDULED record and the synthetic return to SCHEDULED, while the
// surface status stays SCHEDULED.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, q transport.RescheduleQuery) (ivrepo.Interview, error) {
	return s.inTx(ctx, func(tx pgx.Tx) (ivrepo.Interview, error) {
		iv, err := s.repo.GetForUpdateTx(ctx, tx, id)
		if err != nil {
			return ivrepo.Interview{}, err
		}
		if !domain.CanTransition(iv.CurrentStatus, domain.StatusRescheduled) {
			return ivrepo.Interview{}, apperr.BusinessRule(
				fmt.Sprintf("Cannot reschedule an interview in status %s", iv.CurrentStatus))
		}

		duration := iv.DurationMinutes
		if q.NewDuration != nil {
			duration = *q.NewDuration
		}
		if err := validateSlot(q.NewScheduledAt, duration); err != nil {
			return ivrepo.Interview{}, err
		}

		if _, err := s.repo.LockInterviewerTx(ctx, tx, iv.InterviewerID); err != nil {
			return ivrepo.Interview{}, err
		}
		if err := s.checkConflictTx(ctx, tx, iv.InterviewerID, q.NewScheduledAt, duration, &iv.ID); err != nil {
			return ivrepo.Interview{}, err
		}

		if err := s.repo.UpdateScheduleTx(ctx, tx, iv.ID, q.NewScheduledAt, duration); err != nil {
			return ivrepo.Interview{}, err
		}

		// Two history records in one transaction: the reschedule itself,
		// then the immediate return to SCHEDULED.
		from := string(iv.CurrentStatus)
		rescheduled := string(domain.StatusRescheduled)
		if err := s.history.RecordStatusChangeTx(ctx, tx, iv.ID, &from, rescheduled, q.RescheduledBy, q.Reason); err != nil {
			return ivrepo.Interview{}, err
		}
		note := fmt.Sprintf("Rescheduled to %s", q.NewScheduledAt.Format(time.RFC3339))
		if err := s.history.RecordStatusChangeTx(ctx, tx, iv.ID, &rescheduled, string(domain.StatusScheduled), q.RescheduledBy, &note); err != nil {
			return ivrepo.Interview{}, err
		}
		if err := s.repo.UpdateStatusTx(ctx, tx, iv.ID, domain.StatusScheduled); err != nil {
			return ivrepo.Interview{}, err
		}

		iv.ScheduledAt = q.NewScheduledAt
		iv.DurationMinutes = duration
		iv.CurrentStatus = domain.StatusScheduled
		return iv, nil
	})
}

// Cancel transitions an interview to CANCELLED.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, q transport.CancelQuery) (ivrepo.Interview, error) {
	return s.inTx(ctx, func(tx pgx.Tx) (ivrepo.Interview, error) {
		iv, err := s.repo.GetForUpdateTx(ctx, tx, id)
		if err != nil {
			return ivrepo.Interview{}, err
		}
		switch iv.CurrentStatus {
		case domain.StatusCompleted:
			return ivrepo.Interview{}, apperr.BusinessRule("Cannot cancel a completed interview")
		case domain.StatusCancelled:
			return ivrepo.Interview{}, apperr.BusinessRule("Interview is already cancelled")
		}

		if err := s.repo.UpdateStatusTx(ctx, tx, iv.ID, domain.StatusCancelled); err != nil {
			return ivrepo.Interview{}, err
		}
		from := string(iv.CurrentStatus)
		if err := s.history.RecordStatusChangeTx(ctx, tx, iv.ID, &from, string(domain.StatusCancelled), q.CancelledBy, q.Reason); err != nil {
			return ivrepo.Interview{}, err
		}

		iv.CurrentStatus = domain.StatusCancelled
		return iv, nil
	})
}

// UpdateStatus moves an interview through its lifecycle. A transition to
// COMPLETED drives the candidate from INTERVIEW_SCHEDULED to
// INTERVIEW_COMPLETED in the same transaction.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req transport.UpdateStatusRequest) (ivrepo.Interview, error) {
	target, err := domain.ParseStatus(req.NewStatus)
	if err != nil {
		return ivrepo.Interview{}, apperr.Validation(fmt.Sprintf("Unknown interview status: %s", req.NewStatus))
	}
	if target == domain.StatusRescheduled {
		return ivrepo.Interview{}, apperr.BusinessRule("Use the reschedule operation to move an interview")
	}

	updated, err := s.inTx(ctx, func(tx pgx.Tx) (ivrepo.Interview, error) {
		iv, err := s.repo.GetForUpdateTx(ctx, tx, id)
		if err != nil {
			return ivrepo.Interview{}, err
		}
		if iv.CurrentStatus == target {
			return ivrepo.Interview{}, apperr.BusinessRule(fmt.Sprintf("Interview is already in status %s", target))
		}
		if !domain.CanTransition(iv.CurrentStatus, target) {
			return ivrepo.Interview{}, apperr.BusinessRule(
				fmt.Sprintf("Cannot transition interview from %s to %s", iv.CurrentStatus, target))
		}

		if err := s.repo.UpdateStatusTx(ctx, tx, iv.ID, target); err != nil {
			return ivrepo.Interview{}, err
		}
		from := string(iv.CurrentStatus)
		if err := s.history.RecordStatusChangeTx(ctx, tx, iv.ID, &from, string(target), req.ChangedBy, req.Notes); err != nil {
			return ivrepo.Interview{}, err
		}

		if target == domain.StatusCompleted {
			stage, err := s.candidates.StageForUpdateTx(ctx, tx, iv.CandidateID)
			if err != nil {
				return ivrepo.Interview{}, err
			}
			if stage == candidatedomain.StageInterviewScheduled {
				reason := "Interview completed"
				if err := s.candidates.AdvanceStageTx(ctx, tx, iv.CandidateID, candidatedomain.StageInterviewCompleted, req.ChangedBy, &reason); err != nil {
					return ivrepo.Interview{}, err
				}
			}
		}

		prev := iv.CurrentStatus
		iv.CurrentStatus = target
		s.log.StatusTransition(iv.ID.String(), string(prev), string(target), req.ChangedBy)
		return iv, nil
	})
	if err != nil {
		return ivrepo.Interview{}, err
	}
	return updated, nil
}

// GetByID retrieves an interview by id.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (ivrepo.Interview, error) {
	return s.repo.GetByID(ctx, id)
}

// ByCandidate retrieves a candidate's interviews.
func (s *Service) ByCandidate(ctx context.Context, candidateID uuid.UUID) ([]ivrepo.Interview, error) {
	return s.repo.ByCandidate(ctx, candidateID)
}

// ByInterviewer retrieves an interviewer's interviews.
func (s *Service) ByInterviewer(ctx context.Context, interviewerID uuid.UUID) ([]ivrepo.Interview, error) {
	return s.repo.ByInterviewer(ctx, interviewerID)
}

// Today retrieves interviews on today's calendar.
func (s *Service) Today(ctx context.Context) ([]ivrepo.Interview, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.repo.Today(ctx, dayStart, dayStart.AddDate(0, 0, 1))
}

// Overdue retrieves interviews whose slot has passed while still SCHEDULED.
func (s *Service) Overdue(ctx context.Context) ([]ivrepo.Interview, error) {
	return s.repo.Overdue(ctx, time.Now())
}

// CompletedWithoutFeedback retrieves completed interviews still awaiting
// feedback from their interviewer of record.
func (s *Service) CompletedWithoutFeedback(ctx context.Context) ([]ivrepo.Interview, error) {
	return s.repo.CompletedWithoutFeedback(ctx)
}

// IsAvailable reports whether an interviewer has no calendar-blocking
// interview intersecting [start, end).
func (s *Service) IsAvailable(ctx context.Context, interviewerID uuid.UUID, start, end time.Time) (bool, error) {
	if !end.After(start) {
		return false, apperr.Validation("end must be after start")
	}

	blocking, err := s.repo.BlockingForInterviewer(ctx, interviewerID)
	if err != nil {
		return false, err
	}
	for _, iv := range blocking {
		if intersectsWindow(iv, start, end) {
			return false, nil
		}
	}
	return true, nil
}

// FindAvailable returns the active interviewers with no calendar-blocking
// interview intersecting [start, end).
func (s *Service) FindAvailable(ctx context.Context, start, end time.Time) ([]repository.Interviewer, error) {
	if !end.After(start) {
		return nil, apperr.Validation("end must be after start")
	}

	active, err := s.directory.List(ctx, true)
	if err != nil {
		return nil, err
	}
	blocking, err := s.repo.BlockingInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	busy := make(map[uuid.UUID]bool)
	for _, iv := range blocking {
		if intersectsWindow(iv, start, end) {
			busy[iv.InterviewerID] = true
		}
	}

	available := make([]repository.Interviewer, 0, len(active))
	for _, ivr := range active {
		if !busy[ivr.ID] {
			available = append(available, ivr)
		}
	}
	return available, nil
}

// checkConflictTx runs the exact half-open overlap test against the
// interviewer's calendar-blocking interviews near the proposed slot. The
// pre-query window spans the longest possible interview on either side so
// no overlapping candidate is missed.
func (s *Service) checkConflictTx(ctx context.Context, tx pgx.Tx, interviewerID uuid.UUID, scheduledAt time.Time, duration int, excludeID *uuid.UUID) error {
	maxSlot := time.Duration(domain.MaxDurationMinutes) * time.Minute
	windowStart := scheduledAt.Add(-maxSlot)
	windowEnd := scheduledAt.Add(time.Duration(duration) * time.Minute)

	nearby, err := s.repo.BlockingInWindowTx(ctx, tx, interviewerID, windowStart, windowEnd, excludeID)
	if err != nil {
		return err
	}
	for _, other := range nearby {
		if domain.Overlaps(scheduledAt, duration, other.ScheduledAt, other.DurationMinutes) {
			return apperr.Conflict("Interviewer already has an interview in this time slot").
				WithMetadata("interviewerId", interviewerID.String()).
				WithMetadata("conflictTime", other.ScheduledAt)
		}
	}
	return nil
}

func validateSlot(scheduledAt time.Time, duration int) error {
	if !scheduledAt.After(time.Now()) {
		return apperr.Validation("Interview must be scheduled in the future")
	}
	if !domain.ValidDuration(duration) {
		return apperr.Validation(fmt.Sprintf("Duration must be between %d and %d minutes",
			domain.MinDurationMinutes, domain.MaxDurationMinutes))
	}
	return nil
}

func intersectsWindow(iv ivrepo.Interview, start, end time.Time) bool {
	ivEnd := iv.ScheduledAt.Add(time.Duration(iv.DurationMinutes) * time.Minute)
	return iv.ScheduledAt.Before(end) && ivEnd.After(start)
}

func (s *Service) inTx(ctx context.Context, fn func(tx pgx.Tx) (ivrepo.Interview, error)) (ivrepo.Interview, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return ivrepo.Interview{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := fn(tx)
	if err != nil {
		return ivrepo.Interview{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return ivrepo.Interview{}, fmt.Errorf("commit tx: %w", err)
	}
	return result, nil
}
