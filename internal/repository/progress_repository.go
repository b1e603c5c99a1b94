package repository

import (
	"context"
	"errors"

	"quizmaster_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) FindByUser(ctx context.Context, userID uint) (*model.Progress, error) {
	var progress model.Progress
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&progress).Error
	return &progress, err
}

// GetOrCreate returns the user's progress record, creating an empty one on first use.
func (r *ProgressRepository) GetOrCreate(ctx context.Context, userID uint) (*model.Progress, error) {
	progress, err := r.FindByUser(ctx, userID)
	if err == nil {
		if progress.Subjects == nil {
			progress.Subjects = []model.SubjectProgress{}
		}
		return progress, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	progress = &model.Progress{
		UserID:   userID,
		Subjects: []model.SubjectProgress{},
	}
	if err := r.DB.WithContext(ctx).Create(progress).Error; err != nil {
		// a concurrent request may have created it first
		if existing, findErr := r.FindByUser(ctx, userID); findErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return progress, nil
}

func (r *ProgressRepository) Save(ctx context.Context, progress *model.Progress) error {
	return r.DB.WithContext(ctx).Save(progress).Error
}
