// Package analyzer turns a resume and an optional job description into a
// structured screening result. The happy path prompts an external chat
// model and parses its sectioned free-form reply; when the call or the
// parse fails, a deterministic keyword heuristic takes over so screening
// always produces a result.
package analyzer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Result is the structured outcome of a resume analysis.
type Result struct {
	SkillsMatched   string
	ExperienceYears float64
	EducationLevel  string
	CulturalFit     string
	MatchScore      int
	AnalysisText    string
	Recommendation  string
}

const (
	// maxResumeChars caps the resume text included in the prompt; chat
	// models have token limits.
	maxResumeChars = 4000

	defaultJobDescription = "General software engineering position"
	defaultMatchScore     = 50
)

const promptTemplate = `You are an expert HR recruiter analyzing a candidate's resume.

RESUME CONTENT:
%s

JOB REQUIREMENTS:
%s

Please analyze this resume and provide a structured response in the following format:

SKILLS:
List the technical skills found (one per line, format: "Skill - Proficiency Level - Years")

EXPERIENCE:
Total years of professional experience (just a number)

EDUCATION:
Highest education level and field (one line)

CULTURAL_FIT:
Rate teamwork, leadership, and communication (High/Medium/Low for each)

MATCH_SCORE:
Overall match score from 0-100 (just the number)

ANALYSIS:
Brief summary (2-3 sentences) explaining the match score and key strengths/weaknesses.

RECOMMENDATION:
One of: STRONG_HIRE, HIRE, MAYBE, REJECT

Be concise and format your response EXACTLY as shown above with the section headers.`

var (
	decimalPattern = regexp.MustCompile(`(\d+\.?\d*)`)
	integerPattern = regexp.MustCompile(`(\d+)`)
)

// BuildPrompt renders the analysis prompt for the chat model. The resume is
// truncated to the first 4,000 characters, backing off to a rune boundary
// so the cut never leaves an invalid UTF-8 sequence in the prompt.
func BuildPrompt(resumeText, jobDescription string) string {
	resume := resumeText
	if len(resume) > maxResumeChars {
		cut := maxResumeChars
		for cut > 0 && !utf8.RuneStart(resume[cut]) {
			cut--
		}
		resume = resume[:cut] + "..."
	}
	if strings.TrimSpace(jobDescription) == "" {
		jobDescription = defaultJobDescription
	}
	return fmt.Sprintf(promptTemplate, resume, jobDescription)
}

// ParseResponse extracts the structured result from the model's sectioned
// reply. The returned error signals the caller to engage the fallback.
func ParseResponse(response string) (Result, error) {
	if !strings.Contains(response, "MATCH_SCORE:") {
		return Result{}, fmt.Errorf("response missing MATCH_SCORE section")
	}

	r := Result{
		SkillsMatched:  extractSection(response, "SKILLS:", "EXPERIENCE:"),
		EducationLevel: extractSection(response, "EDUCATION:", "CULTURAL_FIT:"),
		CulturalFit:    extractSection(response, "CULTURAL_FIT:", "MATCH_SCORE:"),
		AnalysisText:   extractSection(response, "ANALYSIS:", "RECOMMENDATION:"),
	}
	r.ExperienceYears = extractExperience(response)
	r.MatchScore = extractMatchScore(response)
	r.Recommendation = extractRecommendation(response)

	if r.AnalysisText == "" {
		r.AnalysisText = "AI analysis completed successfully."
	}
	if r.SkillsMatched == "" {
		r.SkillsMatched = "Skills analysis pending manual review."
	}
	return r, nil
}

// extractSection returns the trimmed substring between startMarker and
// endMarker. An empty endMarker reads to the end of the text.
func extractSection(text, startMarker, endMarker string) string {
	start := strings.Index(text, startMarker)
	if start == -1 {
		return ""
	}
	start += len(startMarker)

	end := len(text)
	if endMarker != "" {
		if idx := strings.Index(text[start:], endMarker); idx != -1 {
			end = start + idx
		}
	}
	return strings.TrimSpace(text[start:end])
}

// extractExperience parses the first decimal number in the EXPERIENCE
// section, defaulting to 0.
func extractExperience(text string) float64 {
	section := extractSection(text, "EXPERIENCE:", "EDUCATION:")
	match := decimalPattern.FindString(section)
	if match == "" {
		return 0
	}
	var years float64
	if _, err := fmt.Sscanf(match, "%f", &years); err != nil {
		return 0
	}
	return years
}

// extractMatchScore parses the first integer in the MATCH_SCORE section,
// clamped to [0, 100]. Defaults to 50 when absent.
func extractMatchScore(text string) int {
	section := extractSection(text, "MATCH_SCORE:", "ANALYSIS:")
	match := integerPattern.FindString(section)
	if match == "" {
		return defaultMatchScore
	}
	var score int
	if _, err := fmt.Sscanf(match, "%d", &score); err != nil {
		return defaultMatchScore
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// extractRecommendation maps the RECOMMENDATION section by substring
// containment, in priority order, defaulting to MAYBE.
func extractRecommendation(text string) string {
	rec := strings.ToUpper(extractSection(text, "RECOMMENDATION:", ""))
	switch {
	case strings.Contains(rec, "STRONG_HIRE") || strings.Contains(rec, "STRONG HIRE"):
		return "STRONG_HIRE"
	case strings.Contains(rec, "NO_HIRE") || strings.Contains(rec, "REJECT"):
		return "NO_HIRE"
	case strings.Contains(rec, "MAYBE"):
		return "MAYBE"
	case strings.Contains(rec, "HIRE"):
		return "HIRE"
	default:
		return "MAYBE"
	}
}

// techKeywords is the fixed skill vocabulary of the fallback heuristic.
var techKeywords = []string{
	"java", "python", "javascript", "react", "spring", "sql",
	"aws", "docker", "kubernetes", "git", "api", "microservices",
}

// Fallback is the deterministic keyword heuristic used when the model is
// unreachable or its reply cannot be parsed.
func Fallback(resumeText string) Result {
	lower := strings.ToLower(resumeText)

	skillCount := 0
	var skills strings.Builder
	for _, keyword := range techKeywords {
		if strings.Contains(lower, keyword) {
			skillCount++
			skills.WriteString(keyword)
			skills.WriteString(" - Mentioned\n")
		}
	}

	experience := 3.0
	switch {
	case strings.Contains(lower, "senior") || strings.Contains(lower, "lead"):
		experience = 5.0
	case strings.Contains(lower, "junior") || strings.Contains(lower, "intern"):
		experience = 1.0
	}

	education := "Education information not clearly specified"
	switch {
	case strings.Contains(lower, "master") || strings.Contains(lower, "phd"):
		education = "Master's degree or higher"
	case strings.Contains(lower, "bachelor") || strings.Contains(lower, "b.tech") || strings.Contains(lower, "b.e"):
		education = "Bachelor's degree"
	}

	skillBonus := skillCount * 5
	if skillBonus > 30 {
		skillBonus = 30
	}
	matchScore := 40 + skillBonus

	recommendation := "MAYBE"
	if matchScore >= 70 {
		recommendation = "HIRE"
	}

	return Result{
		SkillsMatched:   skills.String(),
		ExperienceYears: experience,
		EducationLevel:  education,
		CulturalFit:     "Teamwork: Medium, Leadership: Medium, Communication: Medium",
		MatchScore:      matchScore,
		AnalysisText: fmt.Sprintf(
			"Basic analysis completed. Found %d relevant technical skills. Resume shows %v years of experience. Further manual review recommended.",
			skillCount, experience),
		Recommendation: recommendation,
	}
}
