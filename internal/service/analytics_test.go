package service

import (
	"sort"
	"testing"
	"time"

	"quizmaster_backend/internal/model"
)

func TestNormalizePeriod(t *testing.T) {
	tests := []struct {
		in     string
		period string
		window time.Duration
	}{
		{"7d", "7d", 7 * 24 * time.Hour},
		{"30d", "30d", 30 * 24 * time.Hour},
		{"90d", "90d", 90 * 24 * time.Hour},
		{"", "30d", 30 * 24 * time.Hour},
		{"1y", "30d", 30 * 24 * time.Hour},
	}
	for _, tt := range tests {
		period, window := NormalizePeriod(tt.in)
		if period != tt.period || window != tt.window {
			t.Errorf("NormalizePeriod(%q) = %q, %v; want %q, %v", tt.in, period, window, tt.period, tt.window)
		}
	}
}

func TestBuildAnalytics(t *testing.T) {
	at := func(day, hour int) time.Time { return time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC) }
	attempts := []model.QuizAttempt{
		{Subject: "mathematics", Score: 95, TimeSpent: 10, CompletedAt: at(12, 9)},
		{Subject: "mathematics", Score: 90, TimeSpent: 20, CompletedAt: at(10, 23)},
		{Subject: "science", Score: 75, TimeSpent: 30, CompletedAt: at(12, 1)},
		{Subject: "science", Score: 50, TimeSpent: 40, CompletedAt: at(11, 12)},
		{Subject: "history", Score: 49, TimeSpent: 50, CompletedAt: at(10, 0)},
	}

	a := BuildAnalytics(attempts, "7d", at(6, 0), at(13, 0))

	if a.TotalAttempts != 5 || a.TotalTimeSpent != 150 {
		t.Fatalf("totals = %d/%d", a.TotalAttempts, a.TotalTimeSpent)
	}
	if a.AverageScore != 71.8 {
		t.Fatalf("average = %v, want 71.8", a.AverageScore)
	}

	d := a.ScoreDistribution
	if d.Excellent != 2 || d.Good != 1 || d.Average != 1 || d.Poor != 1 {
		t.Fatalf("distribution = %+v", d)
	}
	if d.Excellent+d.Good+d.Average+d.Poor != a.TotalAttempts {
		t.Fatalf("distribution does not partition the attempts")
	}

	if sb := a.SubjectBreakdown["mathematics"]; sb.Attempts != 2 || sb.AverageScore != 92.5 || sb.TimeSpent != 30 {
		t.Fatalf("mathematics breakdown = %+v", sb)
	}
	if sb := a.SubjectBreakdown["science"]; sb.AverageScore != 62.5 {
		t.Fatalf("science breakdown = %+v", sb)
	}

	if len(a.DailyActivity) != 3 {
		t.Fatalf("daily activity = %+v", a.DailyActivity)
	}
	if !sort.SliceIsSorted(a.DailyActivity, func(i, j int) bool {
		return a.DailyActivity[i].Date < a.DailyActivity[j].Date
	}) {
		t.Fatalf("daily activity not sorted: %+v", a.DailyActivity)
	}
	if first := a.DailyActivity[0]; first.Date != "2024-03-10" || first.Attempts != 2 || first.AverageScore != 69.5 {
		t.Fatalf("first day = %+v", first)
	}
}

func TestBuildAnalyticsEmpty(t *testing.T) {
	a := BuildAnalytics(nil, "30d", time.Time{}, time.Time{})
	if a.TotalAttempts != 0 || a.AverageScore != 0 {
		t.Fatalf("unexpected totals %+v", a)
	}
	if a.DailyActivity == nil || a.SubjectBreakdown == nil {
		t.Fatalf("empty analytics should carry empty collections")
	}
}
