package service

import (
	"time"

	"quizmaster_backend/internal/model"
)

type achievementRule struct {
	achievement model.Achievement
	unlocked    func(stats *model.UserStats, score int) bool
}

// AchievementService decides which achievements a quiz result unlocks.
type AchievementService struct {
	rules []achievementRule
}

func NewAchievementService() *AchievementService {
	return &AchievementService{rules: []achievementRule{
		{
			achievement: model.Achievement{
				ID:          model.AchievementFirstQuiz,
				Name:        "First Steps",
				Description: "Complete your first quiz",
				IconURL:     "/icons/achievements/first-quiz.svg",
			},
			unlocked: func(stats *model.UserStats, _ int) bool { return stats.TotalQuizzesTaken >= 1 },
		},
		{
			achievement: model.Achievement{
				ID:          model.AchievementPerfectScore,
				Name:        "Perfectionist",
				Description: "Score 100% on a quiz",
				IconURL:     "/icons/achievements/perfect-score.svg",
			},
			unlocked: func(_ *model.UserStats, score int) bool { return score == 100 },
		},
		{
			achievement: model.Achievement{
				ID:          model.AchievementTenQuizzes,
				Name:        "Dedicated Learner",
				Description: "Complete 10 quizzes",
				IconURL:     "/icons/achievements/ten-quizzes.svg",
			},
			unlocked: func(stats *model.UserStats, _ int) bool { return stats.TotalQuizzesTaken >= 10 },
		},
		{
			achievement: model.Achievement{
				ID:          model.AchievementWeekStreak,
				Name:        "On Fire",
				Description: "Study 7 days in a row",
				IconURL:     "/icons/achievements/week-streak.svg",
			},
			unlocked: func(stats *model.UserStats, _ int) bool { return stats.Streak.Current >= 7 },
		},
	}}
}

// Evaluate appends every newly earned achievement to the user and returns them.
func (s *AchievementService) Evaluate(user *model.User, score int, at time.Time) []model.Achievement {
	var unlocked []model.Achievement
	for _, rule := range s.rules {
		if user.HasAchievement(rule.achievement.ID) || !rule.unlocked(&user.Stats, score) {
			continue
		}
		a := rule.achievement
		a.UnlockedAt = at
		user.Achievements = append(user.Achievements, a)
		unlocked = append(unlocked, a)
	}
	return unlocked
}
