package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/repository"
	"quizmaster_backend/internal/util"
	"quizmaster_backend/pkg/logger"
	"quizmaster_backend/pkg/monitoring"
	"quizmaster_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuizService struct {
	QuizRepo    *repository.QuizRepository
	AttemptRepo *repository.QuizAttemptRepository
	Cache       *repository.QuizCache
	Catalog     *CatalogService
	Progress    *ProgressService
	Users       *UserService
	Now         func() time.Time
}

func NewQuizService(
	quizRepo *repository.QuizRepository,
	attemptRepo *repository.QuizAttemptRepository,
	cache *repository.QuizCache,
	catalog *CatalogService,
	progress *ProgressService,
	users *UserService,
) *QuizService {
	return &QuizService{
		QuizRepo:    quizRepo,
		AttemptRepo: attemptRepo,
		Cache:       cache,
		Catalog:     catalog,
		Progress:    progress,
		Users:       users,
		Now:         time.Now,
	}
}

// GetQuiz returns the active quiz at subject/subtopic without answer keys.
func (s *QuizService) GetQuiz(ctx context.Context, subject, subtopic string) (*model.PublicQuiz, error) {
	quiz, err := s.Cache.GetQuiz(ctx, model.QuizPath(subject, subtopic))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz.Public(), nil
}

type SubmitInput struct {
	UserID    uint
	Subject   string
	Subtopic  string
	Answers   map[string]json.RawMessage
	TimeSpent int
	StartedAt *time.Time
	Status    model.AttemptStatus
	IP        string
	UserAgent string
}

type SubmitResult struct {
	AttemptID      string              `json:"attemptId"`
	Score          int                 `json:"score"`
	CorrectAnswers int                 `json:"correctAnswers"`
	TotalQuestions int                 `json:"totalQuestions"`
	TimeSpent      int                 `json:"timeSpent"`
	Percentage     int                 `json:"percentage"`
	Status         model.AttemptStatus `json:"status"`
	Results        []QuestionResult    `json:"results"`
	Achievements   []model.Achievement `json:"newAchievements,omitempty"`
}

// SubmitQuiz grades a submission against the stored answer keys, records the
// attempt and folds it into the quiz, progress and user aggregates. Progress
// and user stat failures are logged and do not fail the submission.
func (s *QuizService) SubmitQuiz(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	ctx, span := tracing.Tracer.Start(ctx, "QuizService.SubmitQuiz")
	defer span.End()
	span.SetAttributes(
		attribute.String("quiz.subject", in.Subject),
		attribute.String("quiz.subtopic", in.Subtopic),
	)

	if in.TimeSpent < 0 {
		return nil, fmt.Errorf("%w: timeSpent must not be negative", util.ErrInvalidInput)
	}
	if in.Status == "" {
		in.Status = model.AttemptCompleted
	}
	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", util.ErrInvalidInput, in.Status)
	}

	path := model.QuizPath(in.Subject, in.Subtopic)
	// answer keys are always read from the database, never the cache
	quiz, err := s.QuizRepo.FindActiveByPath(ctx, path)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		span.RecordError(err)
		return nil, err
	}

	answers, results, correct := gradeQuiz(quiz.Questions, in.Answers)
	total := len(quiz.Questions)
	score := Score(correct, total)

	completedAt := s.Now().UTC()
	startedAt := completedAt.Add(-time.Duration(in.TimeSpent) * time.Second)
	if in.StartedAt != nil {
		startedAt = in.StartedAt.UTC()
	}

	attempt := &model.QuizAttempt{
		UserID:         in.UserID,
		QuizID:         quiz.ID,
		QuizPath:       path,
		Subject:        quiz.Subject,
		Subtopic:       quiz.Subtopic,
		Answers:        answers,
		Score:          score,
		TotalQuestions: total,
		CorrectAnswers: correct,
		TimeSpent:      in.TimeSpent,
		TimeLimit:      quiz.TimeLimit,
		Status:         in.Status,
		StartedAt:      startedAt,
		CompletedAt:    completedAt,
		IPAddress:      in.IP,
		UserAgent:      in.UserAgent,
	}
	if err := s.AttemptRepo.Create(ctx, attempt); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := s.QuizRepo.RecordAttempt(ctx, quiz.ID, score, in.TimeSpent, in.Status == model.AttemptCompleted); err != nil {
		span.RecordError(err)
		return nil, err
	}
	// cached documents carry the attempt counters
	if err := s.Cache.Invalidate(ctx, path); err != nil {
		logger.Log.Warn("Failed to invalidate quiz cache", zap.String("path", path), zap.Error(err))
	}

	s.recordProgress(ctx, in.UserID, quiz, score, in.TimeSpent, completedAt)
	unlocked := s.recordUserStats(ctx, in.UserID, score, in.TimeSpent, completedAt)

	monitoring.QuizSubmissions.WithLabelValues(quiz.Subject, string(in.Status)).Inc()
	monitoring.QuizScore.WithLabelValues(quiz.Subject).Observe(float64(score))

	logger.Log.Info("Quiz submitted",
		zap.Uint("userID", in.UserID),
		zap.String("path", path),
		zap.Int("score", score),
		zap.String("attemptID", attempt.ID))

	return &SubmitResult{
		AttemptID:      attempt.ID,
		Score:          score,
		CorrectAnswers: correct,
		TotalQuestions: total,
		TimeSpent:      in.TimeSpent,
		Percentage:     score,
		Status:         in.Status,
		Results:        results,
		Achievements:   unlocked,
	}, nil
}

func (s *QuizService) recordProgress(ctx context.Context, userID uint, quiz *model.Quiz, score, timeSpent int, at time.Time) {
	quizTotal, activeSubtopics, err := s.Catalog.SubtopicTotals(ctx, quiz.Subject, quiz.Subtopic)
	if err != nil {
		logger.Log.Warn("Failed to load catalog totals, using defaults",
			zap.String("path", quiz.Path), zap.Error(err))
	}

	err = s.Progress.RecordResult(ctx, ResultInput{
		UserID:               userID,
		Subject:              quiz.Subject,
		Subtopic:             quiz.Subtopic,
		Score:                score,
		TimeSpent:            timeSpent,
		SubtopicQuizTotal:    quizTotal,
		ActiveSubtopics:      activeSubtopics,
		At:                   at,
	})
	if err != nil {
		logger.Log.Error("Failed to update progress", zap.Uint("userID", userID), zap.Error(err))
	}
}

func (s *QuizService) recordUserStats(ctx context.Context, userID uint, score, timeSpent int, at time.Time) []model.Achievement {
	unlocked, err := s.Users.ApplyQuizResult(ctx, userID, score, timeSpent, at)
	if err != nil {
		logger.Log.Error("Failed to update user stats", zap.Uint("userID", userID), zap.Error(err))
		return nil
	}
	return unlocked
}

type HistoryQuery struct {
	UserID   uint
	Page     int
	Limit    int
	Subject  string
	Subtopic string
}

type HistoryResult struct {
	Attempts   []AttemptSummary `json:"attempts"`
	Pagination util.Pagination  `json:"pagination"`
}

func (s *QuizService) History(ctx context.Context, q HistoryQuery) (*HistoryResult, error) {
	page, limit := util.ClampPage(q.Page, q.Limit, util.DefaultPageLimit, util.MaxPageLimit)

	attempts, total, err := s.AttemptRepo.FindByUser(ctx, repository.AttemptFilter{
		UserID:   q.UserID,
		Subject:  q.Subject,
		Subtopic: q.Subtopic,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}

	summaries, err := summarizeAttempts(ctx, s.QuizRepo, attempts)
	if err != nil {
		return nil, err
	}
	return &HistoryResult{
		Attempts:   summaries,
		Pagination: util.NewPagination(page, limit, total),
	}, nil
}
