package model

import (
	"time"

	"gorm.io/datatypes"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

const (
	CategorySTEM        = "STEM"
	CategoryLiberalArts = "Liberal Arts"
	CategoryTechnical   = "Technical"
	CategoryCreative    = "Creative"
	CategoryOther       = "Other"
)

type SEO struct {
	Title       string                      `gorm:"size:200" json:"title"`
	Description string                      `gorm:"size:500" json:"description"`
	Keywords    datatypes.JSONSlice[string] `json:"keywords"`
	OGImage     string                      `gorm:"size:255" json:"ogImage,omitempty"`
}

type SubjectMetadata struct {
	TotalQuizzes  int     `json:"totalQuizzes"`
	AverageRating float64 `json:"averageRating"`
	TotalStudents int     `json:"totalStudents"`
}

type Subtopic struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	Difficulty         Difficulty `json:"difficulty"`
	EstimatedTime      string     `json:"estimatedTime"`
	Order              int        `json:"order"`
	IsActive           bool       `json:"isActive"`
	Prerequisites      []string   `json:"prerequisites"`
	LearningObjectives []string   `json:"learningObjectives"`
	Tags               []string   `json:"tags"`
}

// swagger:model Subject
type Subject struct {
	ID          string                        `gorm:"primaryKey;size:64" json:"id"`
	Name        string                        `gorm:"size:100;not null" json:"name"`
	Description string                        `gorm:"type:text" json:"description"`
	Icon        string                        `gorm:"size:50" json:"icon"`
	Color       string                        `gorm:"size:50" json:"color"`
	Category    string                        `gorm:"size:30" json:"category"`
	Difficulty  Difficulty                    `gorm:"size:10" json:"difficulty"`
	Subtopics   datatypes.JSONSlice[Subtopic] `json:"subtopics"`
	IsActive    bool                          `gorm:"index" json:"isActive"`
	Order       int                           `gorm:"column:sort_order" json:"order"`
	Metadata    SubjectMetadata               `gorm:"embedded;embeddedPrefix:meta_" json:"metadata"`
	SEO         SEO                           `gorm:"embedded;embeddedPrefix:seo_" json:"seo"`
	CreatedAt   time.Time                     `json:"createdAt"`
	UpdatedAt   time.Time                     `json:"updatedAt"`
}

func (Subject) TableName() string {
	return "subjects"
}

// Subtopic returns the subtopic with the given id, or nil.
func (s *Subject) Subtopic(id string) *Subtopic {
	for i := range s.Subtopics {
		if s.Subtopics[i].ID == id {
			return &s.Subtopics[i]
		}
	}
	return nil
}

func (s *Subject) ActiveSubtopicIDs() []string {
	ids := make([]string, 0, len(s.Subtopics))
	for _, st := range s.Subtopics {
		if st.IsActive {
			ids = append(ids, st.ID)
		}
	}
	return ids
}
