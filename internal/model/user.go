package model

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case Student, Teacher, Admin:
		return true
	}
	return false
}

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

type Preferences struct {
	Theme              string `gorm:"size:10" json:"theme"`
	EmailNotifications bool   `json:"emailNotifications"`
	StudyReminders     bool   `json:"studyReminders"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Theme:              ThemeSystem,
		EmailNotifications: true,
		StudyReminders:     true,
	}
}

type Streak struct {
	Current      int        `json:"current"`
	Longest      int        `json:"longest"`
	LastActivity *time.Time `json:"lastActivity"`
}

type UserStats struct {
	TotalQuizzesTaken int     `json:"totalQuizzesTaken"`
	AverageScore      float64 `json:"averageScore"`
	TotalTimeSpent    int     `json:"totalTimeSpent"`
	Streak            Streak  `gorm:"embedded;embeddedPrefix:streak_" json:"streak"`
}

// swagger:model User
type User struct {
	BaseModel
	FirstName    string                           `gorm:"size:50;not null" json:"firstName"`
	LastName     string                           `gorm:"size:50;not null" json:"lastName"`
	Email        string                           `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password     string                           `gorm:"size:100;not null" json:"-"`
	Avatar       string                           `gorm:"size:255" json:"avatar"`
	IsVerified   bool                             `json:"isVerified"`
	Role         UserRole                         `gorm:"size:20;default:'student'" json:"role"`
	Preferences  Preferences                      `gorm:"embedded;embeddedPrefix:pref_" json:"preferences"`
	Stats        UserStats                        `gorm:"embedded;embeddedPrefix:stats_" json:"stats"`
	Achievements datatypes.JSONSlice[Achievement] `json:"achievements"`
	LastLogin    *time.Time                       `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// SetPassword stores the bcrypt hash of raw. The plain value is never kept.
func (u *User) SetPassword(raw string, cost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), cost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

func (u *User) CheckPassword(raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(raw)) == nil
}

func (u *User) HasAchievement(id string) bool {
	for _, a := range u.Achievements {
		if a.ID == id {
			return true
		}
	}
	return false
}

// NormalizeEmail lowercases and trims an address before it is stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
