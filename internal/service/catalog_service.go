package service

import (
	"context"
	"errors"
	"time"

	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/repository"
	"quizmaster_backend/internal/util"

	"gorm.io/gorm"
)

type SubtopicView struct {
	model.Subtopic
	Quizzes int64 `json:"quizzes"`
}

type SubjectView struct {
	*model.Subject
	Quizzes   int64          `json:"quizzes"`
	Subtopics []SubtopicView `json:"subtopics"`
}

type SubtopicProgressView struct {
	SubtopicView
	Progress     int        `json:"progress"`
	AverageScore float64    `json:"averageScore"`
	BestScore    int        `json:"bestScore"`
	TimeSpent    int        `json:"timeSpent"`
	LastActivity *time.Time `json:"lastActivity"`
}

type SubjectProgressView struct {
	*model.Subject
	Quizzes         int64                  `json:"quizzes"`
	Subtopics       []SubtopicProgressView `json:"subtopics"`
	OverallProgress int                    `json:"overallProgress"`
	AverageScore    float64                `json:"averageScore"`
	TotalTimeSpent  int                    `json:"totalTimeSpent"`
	LastActivity    *time.Time             `json:"lastActivity"`
}

type SubjectSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type SubtopicDetail struct {
	model.Subtopic
	Quizzes int64          `json:"quizzes"`
	Subject SubjectSummary `json:"subject"`
}

// QuizCounts maps subject -> subtopic -> active quiz count.
type QuizCounts map[string]map[string]int64

func (c QuizCounts) subtopic(subject, subtopic string) int64 {
	return c[subject][subtopic]
}

func (c QuizCounts) subject(subject string) int64 {
	var total int64
	for _, n := range c[subject] {
		total += n
	}
	return total
}

type CatalogService struct {
	SubjectRepo  *repository.SubjectRepository
	QuizRepo     *repository.QuizRepository
	ProgressRepo *repository.ProgressRepository
}

func NewCatalogService(subjectRepo *repository.SubjectRepository, quizRepo *repository.QuizRepository, progressRepo *repository.ProgressRepository) *CatalogService {
	return &CatalogService{
		SubjectRepo:  subjectRepo,
		QuizRepo:     quizRepo,
		ProgressRepo: progressRepo,
	}
}

func (s *CatalogService) QuizCountsBySubject(ctx context.Context) (QuizCounts, error) {
	rows, err := s.QuizRepo.CountActiveBySubtopic(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(QuizCounts)
	for _, r := range rows {
		if counts[r.Subject] == nil {
			counts[r.Subject] = make(map[string]int64)
		}
		counts[r.Subject][r.Subtopic] = r.Count
	}
	return counts, nil
}

func (s *CatalogService) ListSubjects(ctx context.Context) ([]SubjectView, error) {
	subjects, err := s.SubjectRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.QuizCountsBySubject(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]SubjectView, 0, len(subjects))
	for i := range subjects {
		views = append(views, subjectView(&subjects[i], counts))
	}
	return views, nil
}

func (s *CatalogService) GetSubject(ctx context.Context, id string) (*SubjectView, error) {
	subject, err := s.findSubject(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.QuizCountsBySubject(ctx)
	if err != nil {
		return nil, err
	}
	view := subjectView(subject, counts)
	return &view, nil
}

// GetSubjectWithProgress merges the user's progress into the subject's subtopics.
// Untracked subtopics report zero progress.
func (s *CatalogService) GetSubjectWithProgress(ctx context.Context, id string, userID uint) (*SubjectProgressView, error) {
	subject, err := s.findSubject(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.QuizCountsBySubject(ctx)
	if err != nil {
		return nil, err
	}

	var tracked *model.SubjectProgress
	progress, err := s.ProgressRepo.FindByUser(ctx, userID)
	switch {
	case err == nil:
		tracked = progress.FindSubject(id)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	view := &SubjectProgressView{
		Subject:   subject,
		Quizzes:   counts.subject(subject.ID),
		Subtopics: make([]SubtopicProgressView, 0, len(subject.Subtopics)),
	}
	for _, st := range subject.Subtopics {
		sv := SubtopicProgressView{
			SubtopicView: SubtopicView{Subtopic: st, Quizzes: counts.subtopic(subject.ID, st.ID)},
		}
		if tracked != nil {
			if sp := tracked.FindSubtopic(st.ID); sp != nil {
				sv.Progress = subtopicCompletion(sp.QuizzesCompleted, sv.Quizzes)
				sv.AverageScore = util.Round2(sp.AverageScore)
				sv.BestScore = sp.BestScore
				sv.TimeSpent = sp.TimeSpent
				sv.LastActivity = sp.LastActivity
			}
		}
		view.Subtopics = append(view.Subtopics, sv)
	}
	if tracked != nil {
		view.OverallProgress = tracked.OverallProgress
		view.AverageScore = util.Round2(tracked.AverageScore)
		view.TotalTimeSpent = tracked.TotalTimeSpent
		view.LastActivity = tracked.LastActivity
	}
	return view, nil
}

func (s *CatalogService) GetSubtopic(ctx context.Context, subjectID, subtopicID string) (*SubtopicDetail, error) {
	subject, err := s.findSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	st := subject.Subtopic(subtopicID)
	if st == nil {
		return nil, util.ErrSubtopicNotFound
	}
	count, err := s.QuizRepo.CountActive(ctx, subjectID, subtopicID)
	if err != nil {
		return nil, err
	}
	return &SubtopicDetail{
		Subtopic: *st,
		Quizzes:  count,
		Subject: SubjectSummary{
			ID:    subject.ID,
			Name:  subject.Name,
			Color: subject.Color,
			Icon:  subject.Icon,
		},
	}, nil
}

// SubtopicTotals returns the live quiz count of a subtopic and the ids of the
// active subtopics in its subject. An unknown subject yields nil ids.
func (s *CatalogService) SubtopicTotals(ctx context.Context, subjectID, subtopicID string) (int, []string, error) {
	count, err := s.QuizRepo.CountActive(ctx, subjectID, subtopicID)
	if err != nil {
		return 0, nil, err
	}
	subject, err := s.SubjectRepo.FindActiveByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return int(count), nil, nil
		}
		return 0, nil, err
	}
	return int(count), subject.ActiveSubtopicIDs(), nil
}

func (s *CatalogService) findSubject(ctx context.Context, id string) (*model.Subject, error) {
	subject, err := s.SubjectRepo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubjectNotFound
		}
		return nil, err
	}
	return subject, nil
}

func subjectView(subject *model.Subject, counts QuizCounts) SubjectView {
	view := SubjectView{
		Subject:   subject,
		Quizzes:   counts.subject(subject.ID),
		Subtopics: make([]SubtopicView, 0, len(subject.Subtopics)),
	}
	for _, st := range subject.Subtopics {
		view.Subtopics = append(view.Subtopics, SubtopicView{
			Subtopic: st,
			Quizzes:  counts.subtopic(subject.ID, st.ID),
		})
	}
	return view
}

// subtopicCompletion is min(100, round(100*completed/quizzes)), 0 without quizzes.
func subtopicCompletion(completed int, quizzes int64) int {
	p := util.Percent(completed, int(quizzes))
	if p > 100 {
		return 100
	}
	return p
}
