package model

import "time"

// Achievement is stored inline on the user row.
type Achievement struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IconURL     string    `json:"iconUrl"`
	UnlockedAt  time.Time `json:"unlockedAt"`
}

const (
	AchievementFirstQuiz    = "first-quiz"
	AchievementPerfectScore = "perfect-score"
	AchievementTenQuizzes   = "ten-quizzes"
	AchievementWeekStreak   = "week-streak"
)
