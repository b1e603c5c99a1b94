package repository

import (
	"context"
	"time"

	"quizmaster_backend/internal/model"

	"gorm.io/gorm"
)

type QuizAttemptRepository struct {
	DB *gorm.DB
}

func NewQuizAttemptRepository(db *gorm.DB) *QuizAttemptRepository {
	return &QuizAttemptRepository{DB: db}
}

func (r *QuizAttemptRepository) Create(ctx context.Context, attempt *model.QuizAttempt) error {
	return r.DB.WithContext(ctx).Create(attempt).Error
}

type AttemptFilter struct {
	UserID   uint
	Subject  string
	Subtopic string
	Page     int
	Limit    int
}

// FindByUser pages through a user's attempts, newest first. Subtopic is only
// honored together with Subject.
func (r *QuizAttemptRepository) FindByUser(ctx context.Context, f AttemptFilter) ([]model.QuizAttempt, int64, error) {
	query := r.DB.WithContext(ctx).Model(&model.QuizAttempt{}).Where("user_id = ?", f.UserID)
	if f.Subject != "" {
		if f.Subtopic != "" {
			query = query.Where("quiz_path = ?", model.QuizPath(f.Subject, f.Subtopic))
		} else {
			query = query.Where("subject = ?", f.Subject)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var attempts []model.QuizAttempt
	err := query.Order("completed_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&attempts).Error
	return attempts, total, err
}

func (r *QuizAttemptRepository) FindRecent(ctx context.Context, userID uint, limit int) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Limit(limit).
		Find(&attempts).Error
	return attempts, err
}

// FindSince returns attempts completed at or after since, oldest first.
func (r *QuizAttemptRepository) FindSince(ctx context.Context, userID uint, since time.Time) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND completed_at >= ?", userID, since).
		Order("completed_at ASC").
		Find(&attempts).Error
	return attempts, err
}
