package model

import (
	"time"

	"gorm.io/datatypes"
)

// DefaultSubtopicQuizTotal is used when the live quiz count for a subtopic is unknown.
const DefaultSubtopicQuizTotal = 10

type SubtopicProgress struct {
	SubtopicID       string     `json:"subtopicId"`
	QuizzesCompleted int        `json:"quizzesCompleted"`
	TotalQuizzes     int        `json:"totalQuizzes"`
	AverageScore     float64    `json:"averageScore"`
	BestScore        int        `json:"bestScore"`
	TimeSpent        int        `json:"timeSpent"`
	LastActivity     *time.Time `json:"lastActivity"`
}

type SubjectProgress struct {
	SubjectID             string             `json:"subjectId"`
	Subtopics             []SubtopicProgress `json:"subtopics"`
	OverallProgress       int                `json:"overallProgress"`
	TotalTimeSpent        int                `json:"totalTimeSpent"`
	TotalQuizzesCompleted int                `json:"totalQuizzesCompleted"`
	AverageScore          float64            `json:"averageScore"`
	LastActivity          *time.Time         `json:"lastActivity"`
}

// Subtopic returns the tracked entry for id, appending an empty one when missing.
func (s *SubjectProgress) Subtopic(id string) *SubtopicProgress {
	for i := range s.Subtopics {
		if s.Subtopics[i].SubtopicID == id {
			return &s.Subtopics[i]
		}
	}
	s.Subtopics = append(s.Subtopics, SubtopicProgress{SubtopicID: id})
	return &s.Subtopics[len(s.Subtopics)-1]
}

func (s *SubjectProgress) FindSubtopic(id string) *SubtopicProgress {
	for i := range s.Subtopics {
		if s.Subtopics[i].SubtopicID == id {
			return &s.Subtopics[i]
		}
	}
	return nil
}

type StudyStreak struct {
	Current       int        `json:"current"`
	Longest       int        `json:"longest"`
	LastStudyDate *time.Time `json:"lastStudyDate"`
}

type GlobalStats struct {
	TotalQuizzesCompleted int         `json:"totalQuizzesCompleted"`
	TotalTimeSpent        int         `json:"totalTimeSpent"`
	AverageScore          float64     `json:"averageScore"`
	FavoriteSubject       *string     `gorm:"size:64" json:"favoriteSubject"`
	StudyStreak           StudyStreak `gorm:"embedded;embeddedPrefix:streak_" json:"studyStreak"`
}

// swagger:model Progress
type Progress struct {
	BaseModel
	UserID      uint                                 `gorm:"uniqueIndex;not null" json:"user"`
	Subjects    datatypes.JSONSlice[SubjectProgress] `json:"subjects"`
	GlobalStats GlobalStats                          `gorm:"embedded;embeddedPrefix:global_" json:"globalStats"`
}

func (Progress) TableName() string {
	return "progress"
}

// Subject returns the tracked entry for id, appending an empty one when missing.
// The pointer is only valid until the next append to Subjects.
func (p *Progress) Subject(id string) *SubjectProgress {
	for i := range p.Subjects {
		if p.Subjects[i].SubjectID == id {
			return &p.Subjects[i]
		}
	}
	p.Subjects = append(p.Subjects, SubjectProgress{SubjectID: id, Subtopics: []SubtopicProgress{}})
	return &p.Subjects[len(p.Subjects)-1]
}

func (p *Progress) FindSubject(id string) *SubjectProgress {
	for i := range p.Subjects {
		if p.Subjects[i].SubjectID == id {
			return &p.Subjects[i]
		}
	}
	return nil
}
