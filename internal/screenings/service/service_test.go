package service

import (
	"context"
	"errors"
	"testing"

	"recruiting_portal_backend/platform/logger"
)

type stubModel struct {
	reply string
	err   error
}

func (m stubModel) Complete(ctx context.Context, prompt string) (string, error) {
	return m.reply, m.err
}

func (m stubModel) Model() string { return "stub-model" }

func newAnalyzeService(m ChatModel) *Service {
	return &Service{llm: m, log: logger.New("development")}
}

const structuredReply = `SKILLS:
Go - Advanced - 6

EXPERIENCE:
6 years

EDUCATION:
Master of Science

CULTURAL_FIT:
Teamwork: High, Leadership: Medium, Communication: High

MATCH_SCORE:
85

ANALYSIS:
Strong backend profile.

RECOMMENDATION:
HIRE`

func TestAnalyze_ModelFailureEngagesFallback(t *testing.T) {
	resume := "Senior engineer with Java, Python, SQL and Docker experience."
	svc := newAnalyzeService(stubModel{err: errors.New("connection refused")})

	result, usedFallback := svc.analyze(context.Background(), resume, "")
	if !usedFallback {
		t.Fatal("model failure must engage the fallback")
	}
	// java, python, sql, docker = 4 keywords
	if result.MatchScore != 40+20 {
		t.Fatalf("fallback matchScore = %d, want 60", result.MatchScore)
	}
	if result.ExperienceYears != 5.0 {
		t.Fatalf("fallback experience = %v, want 5.0 for a senior resume", result.ExperienceYears)
	}
}

func TestAnalyze_UnparseableReplyEngagesFallback(t *testing.T) {
	svc := newAnalyzeService(stubModel{reply: "I am sorry, I cannot analyze this resume."})

	result, usedFallback := svc.analyze(context.Background(), "Plain resume with no signals.", "")
	if !usedFallback {
		t.Fatal("reply without section markers must engage the fallback")
	}
	if result.MatchScore != 40 {
		t.Fatalf("fallback matchScore = %d, want 40 for no keyword hits", result.MatchScore)
	}
}

func TestAnalyze_StructuredReplyParsed(t *testing.T) {
	svc := newAnalyzeService(stubModel{reply: structuredReply})

	result, usedFallback := svc.analyze(context.Background(), "Go developer resume.", "Backend role")
	if usedFallback {
		t.Fatal("well-formed reply must not engage the fallback")
	}
	if result.MatchScore != 85 {
		t.Fatalf("matchScore = %d, want 85", result.MatchScore)
	}
	if result.Recommendation != "HIRE" {
		t.Fatalf("recommendation = %q, want HIRE", result.Recommendation)
	}
	if result.ExperienceYears != 6 {
		t.Fatalf("experience = %v, want 6", result.ExperienceYears)
	}
}
