package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/repository"
	"quizmaster_backend/internal/util"
	"quizmaster_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserService struct {
	UserRepo     *repository.UserRepository
	Achievements *AchievementService
	Storage      *StorageService
}

func NewUserService(userRepo *repository.UserRepository, achievements *AchievementService, storage *StorageService) *UserService {
	return &UserService{
		UserRepo:     userRepo,
		Achievements: achievements,
		Storage:      storage,
	}
}

// UserProfile adds the derived full name to a user.
type UserProfile struct {
	*model.User
	FullName string `json:"fullName"`
}

type PreferencesUpdate struct {
	Theme              *string
	EmailNotifications *bool
	StudyReminders     *bool
}

// ProfileUpdate fields left nil are not changed.
type ProfileUpdate struct {
	FirstName   *string
	LastName    *string
	Preferences *PreferencesUpdate
}

type ListUsersQuery struct {
	Page   int
	Limit  int
	Search string
	Role   string
}

func (s *UserService) find(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	if user.Achievements == nil {
		user.Achievements = []model.Achievement{}
	}
	return user, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*UserProfile, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserProfile{User: user, FullName: user.FullName()}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in ProfileUpdate) (*UserProfile, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		name := strings.TrimSpace(*in.FirstName)
		if name == "" {
			return nil, fmt.Errorf("%w: first name must not be empty", util.ErrInvalidInput)
		}
		user.FirstName = name
	}
	if in.LastName != nil {
		name := strings.TrimSpace(*in.LastName)
		if name == "" {
			return nil, fmt.Errorf("%w: last name must not be empty", util.ErrInvalidInput)
		}
		user.LastName = name
	}
	if in.Preferences != nil {
		if err := mergePreferences(&user.Preferences, *in.Preferences); err != nil {
			return nil, err
		}
	}

	if err := s.UserRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return &UserProfile{User: user, FullName: user.FullName()}, nil
}

func (s *UserService) UpdatePreferences(ctx context.Context, userID uint, in PreferencesUpdate) (*model.Preferences, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := mergePreferences(&user.Preferences, in); err != nil {
		return nil, err
	}
	if err := s.UserRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return &user.Preferences, nil
}

func mergePreferences(p *model.Preferences, in PreferencesUpdate) error {
	if in.Theme != nil {
		if !ValidTheme(*in.Theme) {
			return fmt.Errorf("%w: theme must be light, dark or system", util.ErrInvalidInput)
		}
		p.Theme = *in.Theme
	}
	if in.EmailNotifications != nil {
		p.EmailNotifications = *in.EmailNotifications
	}
	if in.StudyReminders != nil {
		p.StudyReminders = *in.StudyReminders
	}
	return nil
}

func ValidTheme(theme string) bool {
	switch theme {
	case model.ThemeLight, model.ThemeDark, model.ThemeSystem:
		return true
	}
	return false
}

func (s *UserService) GetStats(ctx context.Context, userID uint) (*model.UserStats, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &user.Stats, nil
}

func (s *UserService) GetAchievements(ctx context.Context, userID uint) ([]model.Achievement, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Achievements, nil
}

// ApplyQuizResult updates the lifetime stats and streak, then unlocks achievements.
func (s *UserService) ApplyQuizResult(ctx context.Context, userID uint, score, timeSpent int, at time.Time) ([]model.Achievement, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	at = at.UTC()

	stats := &user.Stats
	stats.AverageScore = util.RunningAverage(stats.AverageScore, stats.TotalQuizzesTaken, float64(score))
	stats.TotalQuizzesTaken++
	stats.TotalTimeSpent += timeSpent
	stats.Streak.Current, stats.Streak.Longest = util.AdvanceStreak(
		stats.Streak.Current, stats.Streak.Longest, stats.Streak.LastActivity, at)
	if stats.Streak.LastActivity == nil || at.After(*stats.Streak.LastActivity) {
		stats.Streak.LastActivity = &at
	}

	unlocked := s.Achievements.Evaluate(user, score, at)

	if err := s.UserRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	for _, a := range unlocked {
		logger.Log.Info("Achievement unlocked", zap.Uint("userID", userID), zap.String("achievement", a.ID))
	}
	return unlocked, nil
}

func (s *UserService) ListUsers(ctx context.Context, q ListUsersQuery) ([]model.User, util.Pagination, error) {
	page, limit := util.ClampPage(q.Page, q.Limit, util.DefaultAdminPageLen, util.MaxPageLimit)

	users, total, err := s.UserRepo.List(ctx, repository.UserFilter{
		Search: q.Search,
		Role:   model.UserRole(q.Role),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, util.Pagination{}, err
	}
	if users == nil {
		users = []model.User{}
	}
	return users, util.NewPagination(page, limit, total), nil
}

// UploadAvatar stores an image of at most util.MaxAvatarSize bytes and returns its URL.
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, header *multipart.FileHeader) (string, error) {
	if header.Size > util.MaxAvatarSize {
		return "", fmt.Errorf("%w: avatar must be at most 2 MiB", util.ErrInvalidFile)
	}
	user, err := s.find(ctx, userID)
	if err != nil {
		return "", err
	}
	previous := user.Avatar

	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	mimeType, err := util.DetectImage(file)
	if err != nil {
		return "", err
	}
	if _, err := file.Seek(0, 0); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("avatars/%d/%s%s", userID, model.GenerateUUID(), util.ImageExtension(mimeType))
	url, err := s.Storage.Upload(ctx, filename, file, header.Size, mimeType)
	if err != nil {
		return "", err
	}

	if err := s.UserRepo.UpdateAvatar(ctx, userID, url); err != nil {
		return "", err
	}

	if previous != "" && previous != url {
		if err := s.Storage.Remove(ctx, previous); err != nil {
			logger.Log.Warn("Failed to remove replaced avatar",
				zap.Uint("userID", userID),
				zap.String("avatar", previous),
				zap.Error(err))
		}
	}
	return url, nil
}
