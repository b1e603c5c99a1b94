package model

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AttemptStatus string

const (
	AttemptCompleted AttemptStatus = "completed"
	AttemptTimeout   AttemptStatus = "timeout"
	AttemptAbandoned AttemptStatus = "abandoned"
)

func (s AttemptStatus) Valid() bool {
	switch s {
	case AttemptCompleted, AttemptTimeout, AttemptAbandoned:
		return true
	}
	return false
}

var ErrAttemptImmutable = errors.New("quiz attempts cannot be modified")

type AttemptAnswer struct {
	QuestionID int             `json:"questionId"`
	Answer     json.RawMessage `json:"answer"`
	IsCorrect  bool            `json:"isCorrect"`
	TimeSpent  int             `json:"timeSpent"`
}

// swagger:model QuizAttempt
type QuizAttempt struct {
	UUIDBase
	UserID         uint                               `gorm:"not null;index:idx_attempt_user_completed,priority:1" json:"userId"`
	QuizID         uint                               `gorm:"not null;index" json:"quizId"`
	QuizPath       string                             `gorm:"size:130;index" json:"quizPath"`
	Subject        string                             `gorm:"size:64;index" json:"subject"`
	Subtopic       string                             `gorm:"size:64" json:"subtopic"`
	Answers        datatypes.JSONSlice[AttemptAnswer] `json:"answers"`
	Score          int                                `json:"score"`
	TotalQuestions int                                `json:"totalQuestions"`
	CorrectAnswers int                                `json:"correctAnswers"`
	TimeSpent      int                                `json:"timeSpent"`
	TimeLimit      int                                `json:"timeLimit"`
	Status         AttemptStatus                      `gorm:"size:20" json:"status"`
	StartedAt      time.Time                          `json:"startedAt"`
	CompletedAt    time.Time                          `gorm:"index:idx_attempt_user_completed,priority:2" json:"completedAt"`
	IPAddress      string                             `gorm:"size:64" json:"ipAddress,omitempty"`
	UserAgent      string                             `gorm:"size:255" json:"userAgent,omitempty"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

func (a *QuizAttempt) BeforeUpdate(tx *gorm.DB) error {
	return ErrAttemptImmutable
}
