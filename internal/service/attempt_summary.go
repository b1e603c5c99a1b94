package service

import (
	"context"
	"time"

	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/repository"
)

type QuizSummary struct {
	ID         uint             `json:"id"`
	Title      string           `json:"title"`
	Subject    string           `json:"subject"`
	Subtopic   string           `json:"subtopic"`
	Difficulty model.Difficulty `json:"difficulty"`
}

type AttemptSummary struct {
	ID             string              `json:"id"`
	Quiz           *QuizSummary        `json:"quiz"`
	QuizPath       string              `json:"quizPath"`
	Score          int                 `json:"score"`
	CorrectAnswers int                 `json:"correctAnswers"`
	TotalQuestions int                 `json:"totalQuestions"`
	TimeSpent      int                 `json:"timeSpent"`
	CompletedAt    time.Time           `json:"completedAt"`
	Status         model.AttemptStatus `json:"status"`
}

// summarizeAttempts attaches a short quiz description to each attempt. Attempts
// whose quiz no longer exists keep a nil Quiz.
func summarizeAttempts(ctx context.Context, quizRepo *repository.QuizRepository, attempts []model.QuizAttempt) ([]AttemptSummary, error) {
	ids := make([]uint, 0, len(attempts))
	seen := make(map[uint]bool, len(attempts))
	for _, a := range attempts {
		if !seen[a.QuizID] {
			seen[a.QuizID] = true
			ids = append(ids, a.QuizID)
		}
	}

	quizzes, err := quizRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*QuizSummary, len(quizzes))
	for _, q := range quizzes {
		byID[q.ID] = &QuizSummary{
			ID:         q.ID,
			Title:      q.Title,
			Subject:    q.Subject,
			Subtopic:   q.Subtopic,
			Difficulty: q.Difficulty,
		}
	}

	summaries := make([]AttemptSummary, 0, len(attempts))
	for _, a := range attempts {
		summaries = append(summaries, AttemptSummary{
			ID:             a.ID,
			Quiz:           byID[a.QuizID],
			QuizPath:       a.QuizPath,
			Score:          a.Score,
			CorrectAnswers: a.CorrectAnswers,
			TotalQuestions: a.TotalQuestions,
			TimeSpent:      a.TimeSpent,
			CompletedAt:    a.CompletedAt,
			Status:         a.Status,
		})
	}
	return summaries, nil
}
