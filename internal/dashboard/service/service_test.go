package service

import (
	"math"
	"testing"
)

func TestBuildFunnelConversion(t *testing.T) {
	f := buildFunnel(map[string]int64{
		"APPLIED":             10,
		"SCREENING":           5,
		"INTERVIEW_SCHEDULED": 3,
		"INTERVIEW_COMPLETED": 2,
		"HIRED":               4,
		"REJECTED":            6,
	})

	if f.Applied != 10 || f.Screening != 5 || f.InterviewScheduled != 3 ||
		f.InterviewCompleted != 2 || f.Hired != 4 || f.Rejected != 6 {
		t.Fatalf("unexpected funnel counts: %+v", f)
	}

	want := float64(4) * 100 / 30
	if math.Abs(f.OverallConversionRate-want) > 1e-9 {
		t.Fatalf("conversion rate = %v, want %v", f.OverallConversionRate, want)
	}
}

func TestBuildFunnelEmpty(t *testing.T) {
	f := buildFunnel(map[string]int64{})
	if f.OverallConversionRate != 0 {
		t.Fatalf("conversion rate for empty pipeline = %v, want 0", f.OverallConversionRate)
	}
	if f.Applied != 0 || f.Hired != 0 {
		t.Fatalf("unexpected counts: %+v", f)
	}
}

func TestBuildFunnelMissingStages(t *testing.T) {
	f := buildFunnel(map[string]int64{"HIRED": 2, "APPLIED": 2})
	if f.OverallConversionRate != 50 {
		t.Fatalf("conversion rate = %v, want 50", f.OverallConversionRate)
	}
	if f.Screening != 0 || f.Rejected != 0 {
		t.Fatalf("missing stages should count zero: %+v", f)
	}
}
