package repository

import (
	"context"
	"encoding/json"
	"testing"

	"quizmaster_backend/internal/model"
	"quizmaster_backend/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every connection to :memory: is a new database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func sampleQuiz(subject, subtopic string) *model.Quiz {
	return &model.Quiz{
		Title:     subject + " " + subtopic,
		Subject:   subject,
		Subtopic:  subtopic,
		Path:      model.QuizPath(subject, subtopic),
		TimeLimit: model.DefaultTimeLimit,
		IsActive:  true,
		Questions: []model.Question{
			{
				ID:       1,
				Type:     model.MultipleChoice,
				Question: "2 + 2?",
				Options:  []string{"3", "4"},
				Correct:  json.RawMessage(`1`),
				Points:   1,
			},
		},
	}
}

func mustCreateQuiz(t *testing.T, repo *QuizRepository, quiz *model.Quiz) *model.Quiz {
	t.Helper()
	if err := repo.Create(context.Background(), quiz); err != nil {
		t.Fatalf("create quiz %s: %v", quiz.Path, err)
	}
	return quiz
}
