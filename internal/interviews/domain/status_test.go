package domain

import (
	"testing"
	"time"
)

func TestCanTransition_TableIsClosed(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusScheduled, StatusInProgress}:  true,
		{StatusScheduled, StatusCompleted}:   true,
		{StatusScheduled, StatusCancelled}:   true,
		{StatusScheduled, StatusRescheduled}: true,
		{StatusInProgress, StatusCompleted}:  true,
		{StatusInProgress, StatusCancelled}:  true,
		{StatusRescheduled, StatusScheduled}: true,
	}

	for _, from := range Statuses() {
		for _, to := range Statuses() {
			got := CanTransition(from, to)
			want := allowed[[2]Status{from, to}]
			if got != want {
				t.Fatalf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusCancelled} {
		if !s.IsTerminal() {
			t.Fatalf("expected %s to be terminal", s)
		}
	}
	for _, s := range []Status{StatusScheduled, StatusInProgress, StatusRescheduled} {
		if s.IsTerminal() {
			t.Fatalf("expected %s to be non-terminal", s)
		}
	}
}

func TestBlocksCalendar(t *testing.T) {
	blocking := map[Status]bool{
		StatusScheduled:   true,
		StatusInProgress:  true,
		StatusRescheduled: true,
		StatusCompleted:   false,
		StatusCancelled:   false,
	}
	for s, want := range blocking {
		if got := s.BlocksCalendar(); got != want {
			t.Fatalf("BlocksCalendar(%s) = %v, want %v", s, got, want)
		}
	}
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		s1     time.Time
		d1     int
		s2     time.Time
		d2     int
		expect bool
	}{
		{"identical", base, 60, base, 60, true},
		{"contained", base, 120, base.Add(30 * time.Minute), 30, true},
		{"partial overlap", base, 60, base.Add(30 * time.Minute), 60, true},
		{"back to back", base, 60, base.Add(60 * time.Minute), 60, false},
		{"disjoint", base, 60, base.Add(3 * time.Hour), 60, false},
		{"one minute overlap", base, 61, base.Add(60 * time.Minute), 60, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.s1, tc.d1, tc.s2, tc.d2); got != tc.expect {
				t.Fatalf("Overlaps = %v, want %v", got, tc.expect)
			}
			// Overlap is symmetric in its arguments.
			if got := Overlaps(tc.s2, tc.d2, tc.s1, tc.d1); got != tc.expect {
				t.Fatalf("Overlaps (swapped) = %v, want %v", got, tc.expect)
			}
		})
	}
}

func TestValidDuration(t *testing.T) {
	for _, d := range []int{15, 60, 480} {
		if !ValidDuration(d) {
			t.Fatalf("expected duration %d to be valid", d)
		}
	}
	for _, d := range []int{0, 14, 481, -60} {
		if ValidDuration(d) {
			t.Fatalf("expected duration %d to be invalid", d)
		}
	}
}

func TestParseStatusAndType(t *testing.T) {
	if _, err := ParseStatus("IN_PROGRESS"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseStatus("PENDING"); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if _, err := ParseType("TECHNICAL"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseType("PAIRING"); err == nil {
		t.Fatal("expected error for unknown type")
	}
}
