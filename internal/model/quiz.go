package model

import (
	"encoding/json"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	FillBlank      QuestionType = "fill-blank"
	TrueFalse      QuestionType = "true-false"
	Essay          QuestionType = "essay"
)

const DefaultTimeLimit = 1800

// Question.Correct holds an option index, a string or a bool depending on Type.
type Question struct {
	ID          int             `json:"id"`
	Type        QuestionType    `json:"type"`
	Question    string          `json:"question"`
	Options     []string        `json:"options,omitempty"`
	Correct     json.RawMessage `json:"correct"`
	Explanation string          `json:"explanation,omitempty"`
	Difficulty  Difficulty      `json:"difficulty"`
	Points      int             `json:"points"`
	Tags        []string        `json:"tags"`
}

type QuizMetadata struct {
	TotalAttempts    int     `json:"totalAttempts"`
	AverageScore     float64 `json:"averageScore"`
	AverageTimeSpent float64 `json:"averageTimeSpent"`
	CompletionRate   float64 `json:"completionRate"`
}

// swagger:model Quiz
type Quiz struct {
	BaseModel
	Title       string                        `gorm:"size:200;not null" json:"title"`
	Subject     string                        `gorm:"size:64;not null;index:idx_quiz_subject_subtopic" json:"subject"`
	Subtopic    string                        `gorm:"size:64;not null;index:idx_quiz_subject_subtopic" json:"subtopic"`
	Path        string                        `gorm:"size:130;uniqueIndex;not null" json:"path"`
	Description string                        `gorm:"type:text" json:"description"`
	Difficulty  Difficulty                    `gorm:"size:10" json:"difficulty"`
	TimeLimit   int                           `json:"timeLimit"`
	Questions   datatypes.JSONSlice[Question] `json:"questions"`
	IsActive    bool                          `gorm:"index" json:"isActive"`
	CreatedBy   *uint                         `json:"createdBy,omitempty"`
	Metadata    QuizMetadata                  `gorm:"embedded;embeddedPrefix:meta_" json:"metadata"`
	SEO         SEO                           `gorm:"embedded;embeddedPrefix:seo_" json:"seo"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

func QuizPath(subject, subtopic string) string {
	return subject + "/" + subtopic
}

// PublicQuestion is a Question without its answer key or explanation.
type PublicQuestion struct {
	ID         int          `json:"id"`
	Type       QuestionType `json:"type"`
	Question   string       `json:"question"`
	Options    []string     `json:"options,omitempty"`
	Difficulty Difficulty   `json:"difficulty"`
	Points     int          `json:"points"`
	Tags       []string     `json:"tags"`
}

// PublicQuiz is what a quiz taker sees before submitting.
type PublicQuiz struct {
	ID          uint             `json:"id"`
	Title       string           `json:"title"`
	Subject     string           `json:"subject"`
	Subtopic    string           `json:"subtopic"`
	Path        string           `json:"path"`
	Description string           `json:"description"`
	Difficulty  Difficulty       `json:"difficulty"`
	TimeLimit   int              `json:"timeLimit"`
	Questions   []PublicQuestion `json:"questions"`
	Metadata    QuizMetadata     `json:"metadata"`
	SEO         SEO              `json:"seo"`
}

func (q *Quiz) Public() *PublicQuiz {
	pq := &PublicQuiz{
		ID:          q.ID,
		Title:       q.Title,
		Subject:     q.Subject,
		Subtopic:    q.Subtopic,
		Path:        q.Path,
		Description: q.Description,
		Difficulty:  q.Difficulty,
		TimeLimit:   q.TimeLimit,
		Questions:   make([]PublicQuestion, 0, len(q.Questions)),
		Metadata:    q.Metadata,
		SEO:         q.SEO,
	}
	for _, question := range q.Questions {
		pq.Questions = append(pq.Questions, PublicQuestion{
			ID:         question.ID,
			Type:       question.Type,
			Question:   question.Question,
			Options:    question.Options,
			Difficulty: question.Difficulty,
			Points:     question.Points,
			Tags:       question.Tags,
		})
	}
	return pq
}
