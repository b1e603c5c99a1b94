package service

import (
	"context"
	"testing"
	"time"

	"quizmaster_backend/internal/model"
)

var mathSubtopics = []string{"algebra", "geometry", "calculus", "statistics"}

func TestApplyResultSubtopicAndSubject(t *testing.T) {
	p := &model.Progress{}

	applyResult(p, ResultInput{Subject: "mathematics", Subtopic: "algebra", Score: 80, TimeSpent: 100, ActiveSubtopics: mathSubtopics, At: testNow})
	applyResult(p, ResultInput{Subject: "mathematics", Subtopic: "algebra", Score: 60, TimeSpent: 50, ActiveSubtopics: mathSubtopics, At: testNow})
	applyResult(p, ResultInput{Subject: "mathematics", Subtopic: "geometry", Score: 100, TimeSpent: 30, SubtopicQuizTotal: 3, ActiveSubtopics: mathSubtopics, At: testNow})

	sp := p.FindSubject("mathematics")
	if sp == nil {
		t.Fatal("subject not tracked")
	}
	algebra := sp.FindSubtopic("algebra")
	if algebra.QuizzesCompleted != 2 || algebra.AverageScore != 70 || algebra.BestScore != 80 || algebra.TimeSpent != 150 {
		t.Fatalf("algebra = %+v", algebra)
	}
	if algebra.TotalQuizzes != model.DefaultSubtopicQuizTotal {
		t.Fatalf("algebra total quizzes = %d, want default %d", algebra.TotalQuizzes, model.DefaultSubtopicQuizTotal)
	}
	if geometry := sp.FindSubtopic("geometry"); geometry.TotalQuizzes != 3 {
		t.Fatalf("geometry total quizzes = %d, want 3", geometry.TotalQuizzes)
	}

	if sp.TotalQuizzesCompleted != 3 || sp.TotalTimeSpent != 180 {
		t.Fatalf("subject totals = %+v", sp)
	}
	if sp.AverageScore != 80 {
		t.Fatalf("subject average = %v, want 80", sp.AverageScore)
	}
	// two of four subtopics touched
	if sp.OverallProgress != 50 {
		t.Fatalf("overall progress = %d, want 50", sp.OverallProgress)
	}
	if p.GlobalStats.TotalQuizzesCompleted != 3 || p.GlobalStats.TotalTimeSpent != 180 {
		t.Fatalf("global stats = %+v", p.GlobalStats)
	}
}

func TestOverallProgressFallsBackToTrackedSubtopics(t *testing.T) {
	sp := &model.SubjectProgress{Subtopics: []model.SubtopicProgress{
		{SubtopicID: "a", QuizzesCompleted: 1},
		{SubtopicID: "b"},
	}}
	if got := overallProgress(sp, nil); got != 50 {
		t.Fatalf("overallProgress = %d, want 50", got)
	}
	sp.Subtopics[1].QuizzesCompleted = 1
	if got := overallProgress(sp, nil); got != 100 {
		t.Fatalf("overallProgress = %d, want 100", got)
	}
}

func TestOverallProgressIgnoresRetiredSubtopics(t *testing.T) {
	sp := &model.SubjectProgress{Subtopics: []model.SubtopicProgress{
		{SubtopicID: "algebra", QuizzesCompleted: 2},
		{SubtopicID: "trigonometry", QuizzesCompleted: 5},
	}}

	// trigonometry was retired; only algebra of algebra+geometry counts
	if got := overallProgress(sp, []string{"algebra", "geometry"}); got != 50 {
		t.Fatalf("overallProgress = %d, want 50", got)
	}
	if got := overallProgress(sp, []string{"geometry"}); got != 0 {
		t.Fatalf("overallProgress = %d, want 0", got)
	}
	// an empty catalog is known data, not a fallback
	if got := overallProgress(sp, []string{}); got != 0 {
		t.Fatalf("overallProgress = %d, want 0", got)
	}

	p := &model.Progress{}
	applyResult(p, ResultInput{Subject: "mathematics", Subtopic: "trigonometry", Score: 90, ActiveSubtopics: []string{"algebra", "geometry"}, At: testNow})
	if got := p.FindSubject("mathematics").OverallProgress; got != 0 {
		t.Fatalf("progress after retired-subtopic result = %d, want 0", got)
	}
}

func TestApplyResultFavoriteSubject(t *testing.T) {
	p := &model.Progress{}
	applyResult(p, ResultInput{Subject: "science", Subtopic: "physics", Score: 50, At: testNow})
	applyResult(p, ResultInput{Subject: "mathematics", Subtopic: "algebra", Score: 50, At: testNow})
	if got := *p.GlobalStats.FavoriteSubject; got != "science" {
		t.Fatalf("favorite = %q, want science on a tie", got)
	}

	applyResult(p, ResultInput{Subject: "mathematics", Subtopic: "geometry", Score: 50, At: testNow})
	if got := *p.GlobalStats.FavoriteSubject; got != "mathematics" {
		t.Fatalf("favorite = %q, want mathematics", got)
	}
}

func TestApplyResultStudyStreak(t *testing.T) {
	p := &model.Progress{}
	day := func(n int) time.Time { return testNow.AddDate(0, 0, n) }

	steps := []struct {
		at              time.Time
		current, longer int
	}{
		{day(0), 1, 1},
		{day(0).Add(2 * time.Hour), 1, 1},
		{day(1), 2, 2},
		{day(2), 3, 3},
		{day(5), 1, 3},
		{day(6), 2, 3},
	}
	for i, s := range steps {
		applyResult(p, ResultInput{Subject: "mathematics", Subtopic: "algebra", Score: 70, At: s.at})
		streak := p.GlobalStats.StudyStreak
		if streak.Current != s.current || streak.Longest != s.longer {
			t.Fatalf("step %d: streak = %d/%d, want %d/%d", i, streak.Current, streak.Longest, s.current, s.longer)
		}
	}
	if !p.GlobalStats.StudyStreak.LastStudyDate.Equal(day(6)) {
		t.Fatalf("last study date = %v", p.GlobalStats.StudyStreak.LastStudyDate)
	}
}

func TestGetSubjectProgressUntracked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sp, err := f.progress.GetSubjectProgress(ctx, 42, "history")
	if err != nil {
		t.Fatalf("GetSubjectProgress: %v", err)
	}
	if sp.SubjectID != "history" || sp.TotalQuizzesCompleted != 0 || sp.Subtopics == nil {
		t.Fatalf("unexpected empty progress %+v", sp)
	}

	if err := f.progress.RecordResult(ctx, ResultInput{UserID: 42, Subject: "history", Subtopic: "ancient", Score: 90, TimeSpent: 10, At: testNow}); err != nil {
		t.Fatalf("RecordResult: %v", err)
	}
	sp, err = f.progress.GetSubjectProgress(ctx, 42, "history")
	if err != nil {
		t.Fatalf("GetSubjectProgress: %v", err)
	}
	if sp.TotalQuizzesCompleted != 1 || sp.AverageScore != 90 {
		t.Fatalf("tracked progress = %+v", sp)
	}
}

func TestRecentAttemptsAndAnalytics(t *testing.T) {
	f := newFixture(t)
	quiz := f.seedMath(t)
	ctx := context.Background()

	scores := []int{95, 72, 40}
	for i, score := range scores {
		completed := testNow.AddDate(0, 0, -i)
		attempt := &model.QuizAttempt{
			UserID:         7,
			QuizID:         quiz.ID,
			QuizPath:       quiz.Path,
			Subject:        quiz.Subject,
			Subtopic:       quiz.Subtopic,
			Answers:        []model.AttemptAnswer{},
			Score:          score,
			TotalQuestions: 4,
			TimeSpent:      60,
			TimeLimit:      quiz.TimeLimit,
			Status:         model.AttemptCompleted,
			StartedAt:      completed.Add(-time.Minute),
			CompletedAt:    completed,
		}
		if err := f.attemptRepo.Create(ctx, attempt); err != nil {
			t.Fatalf("create attempt: %v", err)
		}
	}
	// outside every window
	old := &model.QuizAttempt{
		UserID: 7, QuizID: quiz.ID, QuizPath: quiz.Path, Subject: quiz.Subject, Subtopic: quiz.Subtopic,
		Answers: []model.AttemptAnswer{}, Score: 10, Status: model.AttemptCompleted,
		StartedAt: testNow.AddDate(-1, 0, 0), CompletedAt: testNow.AddDate(-1, 0, 0),
	}
	if err := f.attemptRepo.Create(ctx, old); err != nil {
		t.Fatalf("create old attempt: %v", err)
	}

	recent, err := f.progress.RecentAttempts(ctx, 7, 2)
	if err != nil {
		t.Fatalf("RecentAttempts: %v", err)
	}
	if len(recent) != 2 || recent[0].Score != 95 || recent[1].Score != 72 {
		t.Fatalf("recent = %+v", recent)
	}

	a, err := f.progress.GetAnalytics(ctx, 7, "bogus")
	if err != nil {
		t.Fatalf("GetAnalytics: %v", err)
	}
	if a.Period != model.Period30Days {
		t.Fatalf("period = %q, want 30d", a.Period)
	}
	if a.TotalAttempts != 3 || a.TotalTimeSpent != 180 {
		t.Fatalf("analytics totals = %d attempts, %d seconds", a.TotalAttempts, a.TotalTimeSpent)
	}
	if a.AverageScore != 69 {
		t.Fatalf("average = %v, want 69", a.AverageScore)
	}
	if len(a.DailyActivity) != 3 || a.DailyActivity[2].Date != "2024-03-15" {
		t.Fatalf("daily activity = %+v", a.DailyActivity)
	}
	if !a.EndDate.Equal(testNow) || !a.StartDate.Equal(testNow.AddDate(0, 0, -30)) {
		t.Fatalf("window = %v..%v", a.StartDate, a.EndDate)
	}
}
