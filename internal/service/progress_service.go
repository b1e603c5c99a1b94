package service

import (
	"context"
	"errors"
	"time"

	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/repository"
	"quizmaster_backend/internal/util"
	"quizmaster_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	AttemptRepo  *repository.QuizAttemptRepository
	QuizRepo     *repository.QuizRepository
	Now          func() time.Time
}

func NewProgressService(progressRepo *repository.ProgressRepository, attemptRepo *repository.QuizAttemptRepository, quizRepo *repository.QuizRepository) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		AttemptRepo:  attemptRepo,
		QuizRepo:     quizRepo,
		Now:          time.Now,
	}
}

// ResultInput describes one graded submission. SubtopicQuizTotal is a live
// catalog count where zero means unknown. ActiveSubtopics lists the subject's
// active subtopic ids; nil means unknown.
type ResultInput struct {
	UserID            uint
	Subject           string
	Subtopic          string
	Score             int
	TimeSpent         int
	SubtopicQuizTotal int
	ActiveSubtopics   []string
	At                time.Time
}

// RecordResult folds one submission into the user's progress document and
// saves it in a single write. Concurrent submissions by the same user can
// overwrite each other.
func (s *ProgressService) RecordResult(ctx context.Context, in ResultInput) error {
	ctx, span := tracing.Tracer.Start(ctx, "ProgressService.RecordResult")
	defer span.End()
	span.SetAttributes(
		attribute.String("quiz.subject", in.Subject),
		attribute.String("quiz.subtopic", in.Subtopic),
	)

	progress, err := s.ProgressRepo.GetOrCreate(ctx, in.UserID)
	if err != nil {
		span.RecordError(err)
		return err
	}

	applyResult(progress, in)

	if err := s.ProgressRepo.Save(ctx, progress); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func applyResult(p *model.Progress, in ResultInput) {
	at := in.At.UTC()
	score := float64(in.Score)

	sp := p.Subject(in.Subject)
	st := sp.Subtopic(in.Subtopic)

	switch {
	case in.SubtopicQuizTotal > 0:
		st.TotalQuizzes = in.SubtopicQuizTotal
	case st.TotalQuizzes == 0:
		st.TotalQuizzes = model.DefaultSubtopicQuizTotal
	}
	st.AverageScore = util.RunningAverage(st.AverageScore, st.QuizzesCompleted, score)
	st.QuizzesCompleted++
	if in.Score > st.BestScore {
		st.BestScore = in.Score
	}
	st.TimeSpent += in.TimeSpent
	st.LastActivity = &at

	sp.AverageScore = util.RunningAverage(sp.AverageScore, sp.TotalQuizzesCompleted, score)
	sp.TotalQuizzesCompleted++
	sp.TotalTimeSpent += in.TimeSpent
	sp.LastActivity = &at
	sp.OverallProgress = overallProgress(sp, in.ActiveSubtopics)

	g := &p.GlobalStats
	g.AverageScore = util.RunningAverage(g.AverageScore, g.TotalQuizzesCompleted, score)
	g.TotalQuizzesCompleted++
	g.TotalTimeSpent += in.TimeSpent
	g.FavoriteSubject = favoriteSubject(p.Subjects)

	g.StudyStreak.Current, g.StudyStreak.Longest = util.AdvanceStreak(
		g.StudyStreak.Current, g.StudyStreak.Longest, g.StudyStreak.LastStudyDate, at)
	if g.StudyStreak.LastStudyDate == nil || at.After(*g.StudyStreak.LastStudyDate) {
		g.StudyStreak.LastStudyDate = &at
	}
}

// overallProgress is the share of active subtopics with at least one
// completion. Completions in retired subtopics do not count. With no catalog
// data it falls back to the tracked subtopics.
func overallProgress(sp *model.SubjectProgress, activeSubtopics []string) int {
	if activeSubtopics == nil {
		completed := 0
		for _, st := range sp.Subtopics {
			if st.QuizzesCompleted > 0 {
				completed++
			}
		}
		return util.Percent(completed, len(sp.Subtopics))
	}

	active := make(map[string]bool, len(activeSubtopics))
	for _, id := range activeSubtopics {
		active[id] = true
	}
	completed := 0
	for _, st := range sp.Subtopics {
		if st.QuizzesCompleted > 0 && active[st.SubtopicID] {
			completed++
		}
	}
	return util.Percent(completed, len(active))
}

// favoriteSubject picks the subject with the most completed quizzes; the
// earliest tracked subject wins a tie.
func favoriteSubject(subjects []model.SubjectProgress) *string {
	var best *model.SubjectProgress
	for i := range subjects {
		if best == nil || subjects[i].TotalQuizzesCompleted > best.TotalQuizzesCompleted {
			best = &subjects[i]
		}
	}
	if best == nil || best.TotalQuizzesCompleted == 0 {
		return nil
	}
	id := best.SubjectID
	return &id
}

func (s *ProgressService) GetProgress(ctx context.Context, userID uint) (*model.Progress, error) {
	return s.ProgressRepo.GetOrCreate(ctx, userID)
}

// GetSubjectProgress returns a zero-valued entry for a subject the user has not touched.
func (s *ProgressService) GetSubjectProgress(ctx context.Context, userID uint, subjectID string) (*model.SubjectProgress, error) {
	empty := &model.SubjectProgress{SubjectID: subjectID, Subtopics: []model.SubtopicProgress{}}

	progress, err := s.ProgressRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return empty, nil
		}
		return nil, err
	}
	if sp := progress.FindSubject(subjectID); sp != nil {
		return sp, nil
	}
	return empty, nil
}

func (s *ProgressService) RecentAttempts(ctx context.Context, userID uint, limit int) ([]AttemptSummary, error) {
	if limit <= 0 {
		limit = util.DefaultRecentLimit
	}
	if limit > util.MaxRecentLimit {
		limit = util.MaxRecentLimit
	}

	attempts, err := s.AttemptRepo.FindRecent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return summarizeAttempts(ctx, s.QuizRepo, attempts)
}

func (s *ProgressService) GetAnalytics(ctx context.Context, userID uint, period string) (*model.Analytics, error) {
	ctx, span := tracing.Tracer.Start(ctx, "ProgressService.GetAnalytics")
	defer span.End()

	period, window := NormalizePeriod(period)
	end := s.Now().UTC()
	start := end.Add(-window)
	span.SetAttributes(attribute.String("analytics.period", period))

	attempts, err := s.AttemptRepo.FindSince(ctx, userID, start)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return BuildAnalytics(attempts, period, start, end), nil
}
