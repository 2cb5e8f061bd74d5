package domain

import (
	"math"
	"testing"
)

func TestOverallScore(t *testing.T) {
	cases := []struct {
		name        string
		tech, comm  int
		problem     int
		culturalFit *int
		want        float64
	}{
		{"without cultural fit", 5, 4, 5, nil, 14.0 / 3.0},
		{"with cultural fit", 5, 4, 5, intPtr(4), 4.5},
		{"all minimum", 1, 1, 1, nil, 1.0},
		{"all maximum", 5, 5, 5, intPtr(5), 5.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := OverallScore(tc.tech, tc.comm, tc.problem, tc.culturalFit)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("OverallScore = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestValidScore(t *testing.T) {
	for _, s := range []int{1, 3, 5} {
		if !ValidScore(s) {
			t.Fatalf("expected score %d to be valid", s)
		}
	}
	for _, s := range []int{0, 6, -1} {
		if ValidScore(s) {
			t.Fatalf("expected score %d to be invalid", s)
		}
	}
}

func TestRecommendation(t *testing.T) {
	positive := map[Recommendation]bool{
		RecStrongHire: true,
		RecHire:       true,
		RecMaybe:      false,
		RecNoHire:     false,
	}
	for rec, want := range positive {
		if got := rec.IsPositive(); got != want {
			t.Fatalf("IsPositive(%s) = %v, want %v", rec, got, want)
		}
	}

	if _, err := ParseRecommendation("STRONG_HIRE"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseRecommendation("DEFINITELY"); err == nil {
		t.Fatal("expected error for unknown recommendation")
	}
}

func intPtr(v int) *int { return &v }
