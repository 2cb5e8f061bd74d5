// Package domain holds feedback scoring rules.
package domain

import "fmt"

// Recommendation is an interviewer's hiring verdict.
type Recommendation string

const (
	RecStrongHire Recommendation = "STRONG_HIRE"
	RecHire       Recommendation = "HIRE"
	RecMaybe      Recommendation = "MAYBE"
	RecNoHire     Recommendation = "NO_HIRE"
)

const (
	// MinScore and MaxScore bound every feedback score.
	MinScore = 1
	MaxScore = 5
)

// ParseRecommendation validates a raw string against the known verdicts.
func ParseRecommendation(raw string) (Recommendation, error) {
	switch r := Recommendation(raw); r {
	case RecStrongHire, RecHire, RecMaybe, RecNoHire:
		return r, nil
	default:
		return "", fmt.Errorf("unknown recommendation: %q", raw)
	}
}

// IsPositive reports whether the verdict argues for hiring.
func (r Recommendation) IsPositive() bool {
	return r == RecStrongHire || r == RecHire
}

// ValidScore reports whether a score is in the 1..5 range.
func ValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}

// OverallScore is the arithmetic mean of the present scores. The cultural
// fit score is optional and only contributes when set.
func OverallScore(technical, communication, problemSolving int, culturalFit *int) float64 {
	sum := technical + communication + problemSolving
	count := 3
	if culturalFit != nil {
		sum += *culturalFit
		count++
	}
	return float64(sum) / float64(count)
}
