package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/repository"
	"quizmaster_backend/internal/util"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func TestGetQuizHidesAnswerKeys(t *testing.T) {
	f := newFixture(t)
	f.seedMath(t)

	quiz, err := f.quizzes.GetQuiz(context.Background(), "mathematics", "algebra")
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}
	if len(quiz.Questions) != 4 {
		t.Fatalf("questions = %d, want 4", len(quiz.Questions))
	}

	body, err := json.Marshal(quiz)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"correct"`, `"explanation"`} {
		if strings.Contains(string(body), key) {
			t.Fatalf("public quiz leaks %s: %s", key, body)
		}
	}
}

func TestGetQuizUnknownPath(t *testing.T) {
	f := newFixture(t)
	f.seedMath(t)

	_, err := f.quizzes.GetQuiz(context.Background(), "mathematics", "topology")
	if !errors.Is(err, util.ErrQuizNotFound) {
		t.Fatalf("err = %v, want ErrQuizNotFound", err)
	}
}

func TestSubmitQuizGradesAnswers(t *testing.T) {
	f := newFixture(t)
	f.seedMath(t)
	user := f.register(t, "grader@example.com")

	res, err := f.quizzes.SubmitQuiz(context.Background(), SubmitInput{
		UserID:    user.ID,
		Subject:   "mathematics",
		Subtopic:  "algebra",
		Answers:   rawAnswers(t, map[string]any{"1": 0, "4": "7"}),
		TimeSpent: 95,
	})
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}

	if res.CorrectAnswers != 2 || res.TotalQuestions != 4 || res.Score != 50 || res.Percentage != 50 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Status != model.AttemptCompleted {
		t.Fatalf("status = %q, want completed", res.Status)
	}
	want := []bool{true, false, false, true}
	if len(res.Results) != len(want) {
		t.Fatalf("results = %d, want %d", len(res.Results), len(want))
	}
	for i, r := range res.Results {
		if r.IsCorrect != want[i] {
			t.Errorf("question %d correct = %v, want %v", r.QuestionID, r.IsCorrect, want[i])
		}
	}
	if res.Results[0].Explanation == "" {
		t.Fatalf("graded results should carry explanations")
	}
	if res.AttemptID == "" {
		t.Fatalf("attempt id not set")
	}
}

func TestSubmitQuizUpdatesAggregates(t *testing.T) {
	f := newFixture(t)
	quiz := f.seedMath(t)
	user := f.register(t, "stats@example.com")
	ctx := context.Background()

	submissions := []struct {
		answers   map[string]any
		timeSpent int
		score     int
	}{
		{allCorrect, 60, 100},
		{map[string]any{"1": 0, "4": "7"}, 120, 50},
		{map[string]any{}, 300, 0},
	}

	var first *SubmitResult
	for i, s := range submissions {
		res, err := f.quizzes.SubmitQuiz(ctx, SubmitInput{
			UserID:    user.ID,
			Subject:   "mathematics",
			Subtopic:  "algebra",
			Answers:   rawAnswers(t, s.answers),
			TimeSpent: s.timeSpent,
		})
		if err != nil {
			t.Fatalf("submission %d: %v", i, err)
		}
		if res.Score != s.score {
			t.Fatalf("submission %d score = %d, want %d", i, res.Score, s.score)
		}
		if i == 0 {
			first = res
		}
	}

	ids := map[string]bool{}
	for _, a := range first.Achievements {
		ids[a.ID] = true
	}
	if !ids[model.AchievementFirstQuiz] || !ids[model.AchievementPerfectScore] {
		t.Fatalf("first submission achievements = %+v", first.Achievements)
	}

	stored, err := f.quizRepo.FindActiveByPath(ctx, quiz.Path)
	if err != nil {
		t.Fatalf("reload quiz: %v", err)
	}
	if stored.Metadata.TotalAttempts != 3 {
		t.Fatalf("total attempts = %d, want 3", stored.Metadata.TotalAttempts)
	}
	if math.Abs(stored.Metadata.AverageScore-50) > 1e-9 {
		t.Fatalf("average score = %v, want 50", stored.Metadata.AverageScore)
	}
	if math.Abs(stored.Metadata.AverageTimeSpent-160) > 1e-9 {
		t.Fatalf("average time = %v, want 160", stored.Metadata.AverageTimeSpent)
	}

	progress, err := f.progress.GetProgress(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	sp := progress.FindSubject("mathematics")
	if sp == nil {
		t.Fatalf("mathematics not tracked")
	}
	st := sp.FindSubtopic("algebra")
	if st == nil || st.QuizzesCompleted != 3 || st.BestScore != 100 || st.TotalQuizzes != 1 {
		t.Fatalf("unexpected subtopic progress %+v", st)
	}
	// one of two active subtopics touched
	if sp.OverallProgress != 50 {
		t.Fatalf("overall progress = %d, want 50", sp.OverallProgress)
	}
	if progress.GlobalStats.FavoriteSubject == nil || *progress.GlobalStats.FavoriteSubject != "mathematics" {
		t.Fatalf("favorite subject = %v", progress.GlobalStats.FavoriteSubject)
	}
	if progress.GlobalStats.TotalTimeSpent != 480 {
		t.Fatalf("global time = %d, want 480", progress.GlobalStats.TotalTimeSpent)
	}

	stats, err := f.users.GetStats(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.TotalQuizzesTaken != 3 || math.Abs(stats.AverageScore-50) > 1e-9 || stats.Streak.Current != 1 {
		t.Fatalf("unexpected user stats %+v", stats)
	}

	history, err := f.quizzes.History(ctx, HistoryQuery{UserID: user.ID})
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history.Attempts) != 3 || history.Pagination.Total != 3 {
		t.Fatalf("history = %d attempts, total %d", len(history.Attempts), history.Pagination.Total)
	}
	if history.Attempts[0].Quiz == nil || history.Attempts[0].Quiz.Title != "Algebra Basics" {
		t.Fatalf("history quiz summary = %+v", history.Attempts[0].Quiz)
	}
}

func TestSubmitQuizRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	f.seedMath(t)
	user := f.register(t, "invalid@example.com")

	tests := []struct {
		name string
		in   SubmitInput
		want error
	}{
		{
			name: "negative time",
			in:   SubmitInput{UserID: user.ID, Subject: "mathematics", Subtopic: "algebra", TimeSpent: -1},
			want: util.ErrInvalidInput,
		},
		{
			name: "unknown status",
			in:   SubmitInput{UserID: user.ID, Subject: "mathematics", Subtopic: "algebra", Status: "paused"},
			want: util.ErrInvalidInput,
		},
		{
			name: "unknown quiz",
			in:   SubmitInput{UserID: user.ID, Subject: "mathematics", Subtopic: "topology"},
			want: util.ErrQuizNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.quizzes.SubmitQuiz(context.Background(), tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	var count int64
	if err := f.db.Model(&model.QuizAttempt{}).Count(&count).Error; err != nil {
		t.Fatalf("count attempts: %v", err)
	}
	if count != 0 {
		t.Fatalf("rejected submissions stored %d attempts", count)
	}
}

func TestSubmitQuizTimeoutIsNotCompletion(t *testing.T) {
	f := newFixture(t)
	quiz := f.seedMath(t)
	user := f.register(t, "timeout@example.com")
	ctx := context.Background()

	res, err := f.quizzes.SubmitQuiz(ctx, SubmitInput{
		UserID:    user.ID,
		Subject:   "mathematics",
		Subtopic:  "algebra",
		Answers:   rawAnswers(t, allCorrect),
		TimeSpent: model.DefaultTimeLimit,
		Status:    model.AttemptTimeout,
	})
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}
	if res.Status != model.AttemptTimeout || res.Score != 100 {
		t.Fatalf("unexpected result %+v", res)
	}

	stored, err := f.quizRepo.FindActiveByPath(ctx, quiz.Path)
	if err != nil {
		t.Fatalf("reload quiz: %v", err)
	}
	if stored.Metadata.TotalAttempts != 1 || stored.Metadata.CompletionRate != 0 {
		t.Fatalf("metadata = %+v, want one attempt and zero completion rate", stored.Metadata)
	}
}

func TestSubmitQuizRefreshesCachedMetadata(t *testing.T) {
	f := newFixture(t)
	f.seedMath(t)
	user := f.register(t, "cached@example.com")

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	f.quizzes.Cache = repository.NewQuizCache(client, f.quizRepo, time.Hour)
	ctx := context.Background()

	before, err := f.quizzes.GetQuiz(ctx, "mathematics", "algebra")
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}
	if before.Metadata.TotalAttempts != 0 {
		t.Fatalf("attempts before submit = %d", before.Metadata.TotalAttempts)
	}
	if !mr.Exists("quiz:path:mathematics/algebra") {
		t.Fatal("quiz was not cached")
	}

	_, err = f.quizzes.SubmitQuiz(ctx, SubmitInput{
		UserID:    user.ID,
		Subject:   "mathematics",
		Subtopic:  "algebra",
		Answers:   rawAnswers(t, allCorrect),
		TimeSpent: 60,
	})
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}

	after, err := f.quizzes.GetQuiz(ctx, "mathematics", "algebra")
	if err != nil {
		t.Fatalf("GetQuiz after submit: %v", err)
	}
	if after.Metadata.TotalAttempts != 1 {
		t.Fatalf("attempts after submit = %d, want 1", after.Metadata.TotalAttempts)
	}
}
