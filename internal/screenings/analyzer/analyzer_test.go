package analyzer

import (
	"strings"
	"testing"
	"unicode/utf8"
)

const sampleResponse = `SKILLS:
Java - Advanced - 7
Spring - Advanced - 5

EXPERIENCE:
7.5 years

EDUCATION:
Master of Science in Computer Science

CULTURAL_FIT:
Teamwork: High, Leadership: Medium, Communication: High

MATCH_SCORE:
85

ANALYSIS:
Strong backend profile with deep Java and Spring experience.

RECOMMENDATION:
STRONG_HIRE`

func TestParseResponse_Structured(t *testing.T) {
	r, err := ParseResponse(sampleResponse)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(r.SkillsMatched, "Java - Advanced - 7") {
		t.Fatalf("unexpected skills: %q", r.SkillsMatched)
	}
	if r.ExperienceYears != 7.5 {
		t.Fatalf("experience = %v, want 7.5", r.ExperienceYears)
	}
	if r.EducationLevel != "Master of Science in Computer Science" {
		t.Fatalf("unexpected education: %q", r.EducationLevel)
	}
	if r.MatchScore != 85 {
		t.Fatalf("matchScore = %d, want 85", r.MatchScore)
	}
	if r.Recommendation != "STRONG_HIRE" {
		t.Fatalf("recommendation = %q, want STRONG_HIRE", r.Recommendation)
	}
}

func TestParseResponse_ScoreClamped(t *testing.T) {
	r, err := ParseResponse("MATCH_SCORE:\n150\nANALYSIS:\nx\nRECOMMENDATION:\nHIRE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.MatchScore != 100 {
		t.Fatalf("matchScore = %d, want clamp to 100", r.MatchScore)
	}
}

func TestParseResponse_MissingScoreSectionFails(t *testing.T) {
	if _, err := ParseResponse("I cannot analyze this resume."); err == nil {
		t.Fatal("expected error for unstructured response")
	}
}

func TestParseResponse_RecommendationPriority(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"STRONG_HIRE", "STRONG_HIRE"},
		{"STRONG HIRE", "STRONG_HIRE"},
		{"NO_HIRE", "NO_HIRE"},
		{"REJECT", "NO_HIRE"},
		{"MAYBE", "MAYBE"},
		{"HIRE", "HIRE"},
		{"I would suggest to hire this candidate", "HIRE"},
		{"unclear", "MAYBE"},
	}

	for _, tc := range cases {
		resp := "MATCH_SCORE:\n50\nANALYSIS:\nx\nRECOMMENDATION:\n" + tc.raw
		r, err := ParseResponse(resp)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Recommendation != tc.want {
			t.Fatalf("recommendation for %q = %q, want %q", tc.raw, r.Recommendation, tc.want)
		}
	}
}

func TestParseResponse_DefaultScore(t *testing.T) {
	r, err := ParseResponse("MATCH_SCORE:\nnot a number\nANALYSIS:\nx\nRECOMMENDATION:\nMAYBE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.MatchScore != 50 {
		t.Fatalf("matchScore = %d, want default 50", r.MatchScore)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("Ten years of Go.", "Backend engineer")

	for _, marker := range []string{"RESUME CONTENT:", "JOB REQUIREMENTS:", "SKILLS:", "MATCH_SCORE:", "RECOMMENDATION:"} {
		if !strings.Contains(prompt, marker) {
			t.Fatalf("prompt missing marker %q", marker)
		}
	}
	if !strings.Contains(prompt, "Backend engineer") {
		t.Fatal("prompt missing job description")
	}
}

func TestBuildPrompt_DefaultsAndTruncates(t *testing.T) {
	long := strings.Repeat("a", 5000)
	prompt := BuildPrompt(long, "")

	if !strings.Contains(prompt, "General software engineering position") {
		t.Fatal("prompt missing default job description")
	}
	if strings.Count(prompt, "a") > 4100 {
		t.Fatal("resume was not truncated")
	}
	if !strings.Contains(prompt, strings.Repeat("a", 4000)+"...") {
		t.Fatal("truncated resume should end with ellipsis")
	}
}

func TestBuildPrompt_TruncatesOnRuneBoundary(t *testing.T) {
	// A multi-byte rune straddling the 4,000-byte cut must be dropped
	// whole, never split into an invalid sequence.
	long := strings.Repeat("a", 3999) + "é" + strings.Repeat("b", 100)
	prompt := BuildPrompt(long, "")

	if !utf8.ValidString(prompt) {
		t.Fatal("prompt contains invalid UTF-8 after truncation")
	}
	if !strings.Contains(prompt, strings.Repeat("a", 3999)+"...") {
		t.Fatal("straddling rune should be dropped whole before the ellipsis")
	}
	if strings.Contains(prompt, "bbb") {
		t.Fatal("truncation kept bytes past the boundary")
	}
}

func TestFallback_Scoring(t *testing.T) {
	resume := "Senior engineer with Java, Python, SQL and Docker. Master of Science. Built APIs with Spring."
	r := Fallback(resume)

	// java, python, sql, docker, api, spring = 6 keywords
	if r.MatchScore != 40+30 {
		t.Fatalf("matchScore = %d, want 70", r.MatchScore)
	}
	if r.ExperienceYears != 5.0 {
		t.Fatalf("experience = %v, want 5.0 for senior", r.ExperienceYears)
	}
	if r.EducationLevel != "Master's degree or higher" {
		t.Fatalf("unexpected education: %q", r.EducationLevel)
	}
	if r.Recommendation != "HIRE" {
		t.Fatalf("recommendation = %q, want HIRE at score 70", r.Recommendation)
	}
	if r.CulturalFit != "Teamwork: Medium, Leadership: Medium, Communication: Medium" {
		t.Fatalf("unexpected cultural fit: %q", r.CulturalFit)
	}
}

func TestFallback_SkillBonusCapped(t *testing.T) {
	resume := "java python javascript react spring sql aws docker kubernetes git api microservices"
	r := Fallback(resume)
	if r.MatchScore != 70 {
		t.Fatalf("matchScore = %d, want cap at 70", r.MatchScore)
	}
}

func TestFallback_NoSignals(t *testing.T) {
	r := Fallback("short note about gardening")
	if r.MatchScore != 40 {
		t.Fatalf("matchScore = %d, want base 40", r.MatchScore)
	}
	if r.ExperienceYears != 3.0 {
		t.Fatalf("experience = %v, want default 3.0", r.ExperienceYears)
	}
	if r.Recommendation != "MAYBE" {
		t.Fatalf("recommendation = %q, want MAYBE", r.Recommendation)
	}
	if r.EducationLevel != "Education information not clearly specified" {
		t.Fatalf("unexpected education: %q", r.EducationLevel)
	}
}

func TestFallback_JuniorExperience(t *testing.T) {
	r := Fallback("junior developer, bachelor of engineering, knows git")
	if r.ExperienceYears != 1.0 {
		t.Fatalf("experience = %v, want 1.0 for junior", r.ExperienceYears)
	}
	if r.EducationLevel != "Bachelor's degree" {
		t.Fatalf("unexpected education: %q", r.EducationLevel)
	}
}
