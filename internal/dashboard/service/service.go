// Package service assembles the dashboard projections. The composite
// overview fans its queries out concurrently; every other method is a thin
// pass-through over the read model.
package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	candidatedomain "recruiting_portal_backend/internal/candidates/domain"
	"recruiting_portal_backend/internal/dashboard/repository"
	"recruiting_portal_backend/platform/apperr"
	"recruiting_portal_backend/platform/logger"
)

const (
	defaultTopScore  = 80
	defaultTopLimit  = 5
	defaultWindowDay = 7
)

// Overview is the composite dashboard payload.
type Overview struct {
	TotalCandidates          int64                     `json:"totalCandidates"`
	CandidatesThisMonth      int64                     `json:"candidatesThisMonth"`
	InterviewsScheduledToday int64                     `json:"interviewsScheduledToday"`
	PendingFeedbackCount     int64                     `json:"pendingFeedbackCount"`
	CandidatesByStage        map[string]int64          `json:"candidatesByStage"`
	RecentActivity           []repository.Activity     `json:"recentActivity"`
	TopCandidates            []repository.TopCandidate `json:"topCandidates"`
	AverageScoreByStage      []repository.StageAverage `json:"averageScoreByStage"`
	HiringFunnel             Funnel                    `json:"hiringFunnel"`
}

// Funnel is the per-stage candidate distribution with the overall
// applied-to-hired conversion in percent.
type Funnel struct {
	Applied               int64   `json:"applied"`
	Screening             int64   `json:"screening"`
	InterviewScheduled    int64   `json:"interviewScheduled"`
	InterviewCompleted    int64   `json:"interviewCompleted"`
	Hired                 int64   `json:"hired"`
	Rejected              int64   `json:"rejected"`
	OverallConversionRate float64 `json:"overallConversionRate"`
}

// InterviewStats summarizes interview volume.
type InterviewStats struct {
	TodayCount      int64                  `json:"todayCount"`
	PendingFeedback int64                  `json:"pendingFeedback"`
	ByType          []repository.TypeStats `json:"byType"`
}

// ScreeningStats summarizes AI screening volume and scores.
type ScreeningStats struct {
	TotalScreenings     int64                     `json:"totalScreenings"`
	HighScoreCandidates int64                     `json:"highScoreCandidates"`
	AverageScoreByStage []repository.StageAverage `json:"averageScoreByStage"`
}

// FeedbackStats summarizes feedback volume.
type FeedbackStats struct {
	TotalFeedback         int64 `json:"totalFeedback"`
	PositiveFeedbackCount int64 `json:"positiveFeedbackCount"`
}

// Service provides the dashboard read model.
type Service struct {
	repo *repository.Repo
	log  *logger.Logger
}

// New creates a new dashboard service.
func New(repo *repository.Repo, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Overview assembles the full dashboard. The aggregates are independent so
// they run concurrently; a single failing query fails the overview.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.AddDate(0, 0, -defaultWindowDay)

	var out Overview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		out.TotalCandidates, err = s.repo.TotalCandidates(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.CandidatesThisMonth, err = s.repo.CandidatesCreatedSince(gctx, startOfMonth)
		return err
	})
	g.Go(func() error {
		var err error
		out.InterviewsScheduledToday, err = s.repo.InterviewsScheduledBetween(gctx, startOfDay, startOfDay.AddDate(0, 0, 1))
		return err
	})
	g.Go(func() error {
		var err error
		out.PendingFeedbackCount, err = s.repo.PendingFeedbackCount(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.CandidatesByStage, err = s.repo.CandidateCountsByStage(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.RecentActivity, err = s.repo.RecentStageChanges(gctx, weekAgo)
		return err
	})
	g.Go(func() error {
		var err error
		out.TopCandidates, err = s.repo.TopScoredCandidates(gctx, defaultTopScore, defaultTopLimit)
		return err
	})
	g.Go(func() error {
		var err error
		out.AverageScoreByStage, err = s.repo.AverageScoreByStage(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	out.HiringFunnel = buildFunnel(out.CandidatesByStage)
	return out, nil
}

// CandidatesByStage returns candidate counts per pipeline stage.
func (s *Service) CandidatesByStage(ctx context.Context) (map[string]int64, error) {
	return s.repo.CandidateCountsByStage(ctx)
}

// RecentActivity lists stage transitions from the last N days.
func (s *Service) RecentActivity(ctx context.Context, days int) ([]repository.Activity, error) {
	if days < 1 {
		return nil, apperr.Validation("days must be at least 1")
	}
	return s.repo.RecentStageChanges(ctx, time.Now().AddDate(0, 0, -days))
}

// TopScoredCandidates ranks candidates by their best screening score.
func (s *Service) TopScoredCandidates(ctx context.Context, minScore, limit int) ([]repository.TopCandidate, error) {
	if minScore < 0 || minScore > 100 {
		return nil, apperr.Validation("minScore must be between 0 and 100")
	}
	if limit < 1 {
		return nil, apperr.Validation("limit must be at least 1")
	}
	return s.repo.TopScoredCandidates(ctx, minScore, limit)
}

// InterviewStatistics summarizes interview volume by day and type.
func (s *Service) InterviewStatistics(ctx context.Context) (InterviewStats, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var out InterviewStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		out.TodayCount, err = s.repo.InterviewsScheduledBetween(gctx, startOfDay, startOfDay.AddDate(0, 0, 1))
		return err
	})
	g.Go(func() error {
		var err error
		out.PendingFeedback, err = s.repo.PendingFeedbackCount(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.ByType, err = s.repo.InterviewStatsByType(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return InterviewStats{}, err
	}
	return out, nil
}

// ScreeningStatistics summarizes AI screening volume and scores.
func (s *Service) ScreeningStatistics(ctx context.Context) (ScreeningStats, error) {
	var out ScreeningStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		out.TotalScreenings, err = s.repo.TotalScreenings(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.HighScoreCandidates, err = s.repo.HighScoreScreeningCount(gctx, defaultTopScore)
		return err
	})
	g.Go(func() error {
		var err error
		out.AverageScoreByStage, err = s.repo.AverageScoreByStage(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return ScreeningStats{}, err
	}
	return out, nil
}

// FeedbackStatistics summarizes feedback volume.
func (s *Service) FeedbackStatistics(ctx context.Context) (FeedbackStats, error) {
	var out FeedbackStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		out.TotalFeedback, err = s.repo.TotalFeedback(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.PositiveFeedbackCount, err = s.repo.PositiveFeedbackCount(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return FeedbackStats{}, err
	}
	return out, nil
}

// HiringFunnel returns the per-stage distribution with the overall
// conversion rate.
func (s *Service) HiringFunnel(ctx context.Context) (Funnel, error) {
	counts, err := s.repo.CandidateCountsByStage(ctx)
	if err != nil {
		return Funnel{}, err
	}
	return buildFunnel(counts), nil
}

// RecentCandidates lists candidates created in the last N days.
func (s *Service) RecentCandidates(ctx context.Context, days int) ([]repository.RecentCandidate, error) {
	if days < 1 {
		return nil, apperr.Validation("days must be at least 1")
	}
	return s.repo.RecentCandidates(ctx, time.Now().AddDate(0, 0, -days))
}

// UpcomingInterviews lists interviews scheduled within the next N days.
func (s *Service) UpcomingInterviews(ctx context.Context, days int) ([]repository.UpcomingInterview, error) {
	if days < 1 {
		return nil, apperr.Validation("days must be at least 1")
	}
	now := time.Now()
	return s.repo.UpcomingInterviews(ctx, now, now.AddDate(0, 0, days))
}

func buildFunnel(counts map[string]int64) Funnel {
	f := Funnel{
		Applied:            counts[string(candidatedomain.StageApplied)],
		Screening:          counts[string(candidatedomain.StageScreening)],
		InterviewScheduled: counts[string(candidatedomain.StageInterviewScheduled)],
		InterviewCompleted: counts[string(candidatedomain.StageInterviewCompleted)],
		Hired:              counts[string(candidatedomain.StageHired)],
		Rejected:           counts[string(candidatedomain.StageRejected)],
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	if total > 0 {
		f.OverallConversionRate = float64(f.Hired) * 100 / float64(total)
	}
	return f
}
