package repository

import (
	"context"

	"quizmaster_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(ctx context.Context, quiz *model.Quiz) error {
	return r.DB.WithContext(ctx).Create(quiz).Error
}

func (r *QuizRepository) FindActiveByPath(ctx context.Context, path string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.WithContext(ctx).
		Where("path = ? AND is_active = ?", path, true).
		First(&quiz).Error
	return &quiz, err
}

func (r *QuizRepository) FindAll(ctx context.Context) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&quizzes).Error
	return quizzes, err
}

type SubtopicCount struct {
	Subject  string
	Subtopic string
	Count    int64
}

// CountActiveBySubtopic counts active quizzes grouped by subject and subtopic.
func (r *QuizRepository) CountActiveBySubtopic(ctx context.Context) ([]SubtopicCount, error) {
	var counts []SubtopicCount
	err := r.DB.WithContext(ctx).Model(&model.Quiz{}).
		Select("subject, subtopic, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("subject, subtopic").
		Scan(&counts).Error
	return counts, err
}

func (r *QuizRepository) CountActive(ctx context.Context, subject, subtopic string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Quiz{}).
		Where("subject = ? AND subtopic = ? AND is_active = ?", subject, subtopic, true).
		Count(&count).Error
	return count, err
}

// RecordAttempt folds one attempt into the quiz metadata in a single statement.
// The count is assigned last: MySQL evaluates SET left to right with updated
// values, while Postgres and SQLite always read the old row.
func (r *QuizRepository) RecordAttempt(ctx context.Context, quizID uint, score, timeSpent int, completed bool) error {
	completion := 0.0
	if completed {
		completion = 100
	}
	return r.DB.WithContext(ctx).Exec(`UPDATE quizzes SET
		meta_average_score = (meta_average_score * meta_total_attempts + ?) / (meta_total_attempts + 1),
		meta_average_time_spent = (meta_average_time_spent * meta_total_attempts + ?) / (meta_total_attempts + 1),
		meta_completion_rate = (meta_completion_rate * meta_total_attempts + ?) / (meta_total_attempts + 1),
		meta_total_attempts = meta_total_attempts + 1
		WHERE id = ?`,
		float64(score), float64(timeSpent), completion, quizID,
	).Error
}

// DeleteAll removes every quiz row, soft-deleted ones included. Used by the seeder.
func (r *QuizRepository) DeleteAll(ctx context.Context) error {
	return r.DB.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&model.Quiz{}).Error
}

// FindByIDs includes soft-deleted quizzes so old attempts keep their titles.
func (r *QuizRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	if len(ids) == 0 {
		return quizzes, nil
	}
	err := r.DB.WithContext(ctx).Unscoped().Where("id IN ?", ids).Find(&quizzes).Error
	return quizzes, err
}
