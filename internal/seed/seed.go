// Package seed loads the bundled subject and quiz catalog.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/repository"
	"quizmaster_backend/pkg/logger"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed data.yaml
var defaultData []byte

type seoDoc struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
}

func (s seoDoc) model() model.SEO {
	return model.SEO{Title: s.Title, Description: s.Description, Keywords: s.Keywords}
}

type subtopicDoc struct {
	ID                 string   `yaml:"id"`
	Name               string   `yaml:"name"`
	Description        string   `yaml:"description"`
	Difficulty         string   `yaml:"difficulty"`
	EstimatedTime      string   `yaml:"estimatedTime"`
	Order              int      `yaml:"order"`
	IsActive           *bool    `yaml:"isActive"`
	Prerequisites      []string `yaml:"prerequisites"`
	LearningObjectives []string `yaml:"learningObjectives"`
	Tags               []string `yaml:"tags"`
}

type subjectDoc struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Icon        string        `yaml:"icon"`
	Color       string        `yaml:"color"`
	Category    string        `yaml:"category"`
	Difficulty  string        `yaml:"difficulty"`
	Order       int           `yaml:"order"`
	IsActive    *bool         `yaml:"isActive"`
	Subtopics   []subtopicDoc `yaml:"subtopics"`
	SEO         seoDoc        `yaml:"seo"`
}

type questionDoc struct {
	ID          int      `yaml:"id"`
	Type        string   `yaml:"type"`
	Question    string   `yaml:"question"`
	Options     []string `yaml:"options"`
	Correct     any      `yaml:"correct"`
	Explanation string   `yaml:"explanation"`
	Difficulty  string   `yaml:"difficulty"`
	Points      int      `yaml:"points"`
	Tags        []string `yaml:"tags"`
}

type quizDoc struct {
	Title       string        `yaml:"title"`
	Subject     string        `yaml:"subject"`
	Subtopic    string        `yaml:"subtopic"`
	Description string        `yaml:"description"`
	Difficulty  string        `yaml:"difficulty"`
	TimeLimit   int           `yaml:"timeLimit"`
	Questions   []questionDoc `yaml:"questions"`
	SEO         seoDoc        `yaml:"seo"`
}

// Catalog is the parsed seed document.
type Catalog struct {
	Subjects []model.Subject
	Quizzes  []model.Quiz
}

func active(b *bool) bool {
	return b == nil || *b
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Parse decodes a seed document and checks that quiz paths and question ids are unique.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Subjects []subjectDoc `yaml:"subjects"`
		Quizzes  []quizDoc    `yaml:"quizzes"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}

	c := &Catalog{}
	subjectIDs := make(map[string]bool, len(doc.Subjects))
	for _, s := range doc.Subjects {
		if subjectIDs[s.ID] {
			return nil, fmt.Errorf("duplicate subject %q", s.ID)
		}
		subjectIDs[s.ID] = true

		subject := model.Subject{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Icon:        s.Icon,
			Color:       s.Color,
			Category:    s.Category,
			Difficulty:  model.Difficulty(s.Difficulty),
			Order:       s.Order,
			IsActive:    active(s.IsActive),
			Subtopics:   make([]model.Subtopic, 0, len(s.Subtopics)),
			SEO:         s.SEO.model(),
		}
		for _, st := range s.Subtopics {
			subject.Subtopics = append(subject.Subtopics, model.Subtopic{
				ID:                 st.ID,
				Name:               st.Name,
				Description:        st.Description,
				Difficulty:         model.Difficulty(st.Difficulty),
				EstimatedTime:      st.EstimatedTime,
				Order:              st.Order,
				IsActive:           active(st.IsActive),
				Prerequisites:      orEmpty(st.Prerequisites),
				LearningObjectives: orEmpty(st.LearningObjectives),
				Tags:               orEmpty(st.Tags),
			})
		}
		c.Subjects = append(c.Subjects, subject)
	}

	paths := make(map[string]bool, len(doc.Quizzes))
	for _, q := range doc.Quizzes {
		path := model.QuizPath(q.Subject, q.Subtopic)
		if paths[path] {
			return nil, fmt.Errorf("duplicate quiz path %q", path)
		}
		paths[path] = true

		timeLimit := q.TimeLimit
		if timeLimit <= 0 {
			timeLimit = model.DefaultTimeLimit
		}
		quiz := model.Quiz{
			Title:       q.Title,
			Subject:     q.Subject,
			Subtopic:    q.Subtopic,
			Path:        path,
			Description: q.Description,
			Difficulty:  model.Difficulty(q.Difficulty),
			TimeLimit:   timeLimit,
			IsActive:    true,
			Questions:   make([]model.Question, 0, len(q.Questions)),
			SEO:         q.SEO.model(),
		}

		questionIDs := make(map[int]bool, len(q.Questions))
		for _, qq := range q.Questions {
			if questionIDs[qq.ID] {
				return nil, fmt.Errorf("quiz %s: duplicate question id %d", path, qq.ID)
			}
			questionIDs[qq.ID] = true

			correct, err := json.Marshal(qq.Correct)
			if err != nil {
				return nil, fmt.Errorf("quiz %s question %d: %w", path, qq.ID, err)
			}
			quiz.Questions = append(quiz.Questions, model.Question{
				ID:          qq.ID,
				Type:        model.QuestionType(qq.Type),
				Question:    qq.Question,
				Options:     qq.Options,
				Correct:     correct,
				Explanation: qq.Explanation,
				Difficulty:  model.Difficulty(qq.Difficulty),
				Points:      qq.Points,
				Tags:        orEmpty(qq.Tags),
			})
		}
		c.Quizzes = append(c.Quizzes, quiz)
	}
	return c, nil
}

// Default returns the bundled catalog.
func Default() (*Catalog, error) {
	return Parse(defaultData)
}

type Seeder struct {
	DB *gorm.DB
	// Cache may be nil.
	Cache *repository.QuizCache
}

// Run clears subjects and quizzes and inserts the bundled catalog. Users,
// attempts and progress are left alone.
func (s *Seeder) Run(ctx context.Context) error {
	catalog, err := Default()
	if err != nil {
		return err
	}
	return s.Load(ctx, catalog)
}

// Load replaces the catalog in one transaction. On error the previous
// catalog stays in place.
func (s *Seeder) Load(ctx context.Context, catalog *Catalog) error {
	existing, err := repository.NewQuizRepository(s.DB).FindAll(ctx)
	if err != nil {
		return err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subjects := repository.NewSubjectRepository(tx)
		quizzes := repository.NewQuizRepository(tx)

		logger.Log.Info("Clearing existing catalog")
		if err := subjects.DeleteAll(ctx); err != nil {
			return err
		}
		if err := quizzes.DeleteAll(ctx); err != nil {
			return err
		}

		for i := range catalog.Subjects {
			if err := subjects.Create(ctx, &catalog.Subjects[i]); err != nil {
				return fmt.Errorf("seed subject %s: %w", catalog.Subjects[i].ID, err)
			}
		}
		for i := range catalog.Quizzes {
			if err := quizzes.Create(ctx, &catalog.Quizzes[i]); err != nil {
				return fmt.Errorf("seed quiz %s: %w", catalog.Quizzes[i].Path, err)
			}
		}
		return nil
	})
	if err != nil {
		logger.Log.Error("Catalog seed rolled back", zap.Error(err))
		return err
	}
	logger.Log.Info("Catalog seeded",
		zap.Int("subjects", len(catalog.Subjects)),
		zap.Int("quizzes", len(catalog.Quizzes)))

	if s.Cache != nil {
		paths := make([]string, 0, len(existing)+len(catalog.Quizzes))
		for _, q := range existing {
			paths = append(paths, q.Path)
		}
		for _, q := range catalog.Quizzes {
			paths = append(paths, q.Path)
		}
		if err := s.Cache.Invalidate(ctx, paths...); err != nil {
			logger.Log.Warn("Failed to invalidate quiz cache", zap.Error(err))
		}
	}
	return nil
}
