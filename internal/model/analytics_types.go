package model

import "time"

// Analytics windows accepted by the progress analytics endpoint.
const (
	Period7Days  = "7d"
	Period30Days = "30d"
	Period90Days = "90d"
)

type SubjectBreakdown struct {
	Attempts     int     `json:"attempts"`
	AverageScore float64 `json:"averageScore"`
	TimeSpent    int     `json:"timeSpent"`
}

type ScoreDistribution struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Average   int `json:"average"`
	Poor      int `json:"poor"`
}

type DailyActivity struct {
	Date         string  `json:"date"`
	Attempts     int     `json:"attempts"`
	AverageScore float64 `json:"averageScore"`
}

type Analytics struct {
	Period            string                      `json:"period"`
	StartDate         time.Time                   `json:"startDate"`
	EndDate           time.Time                   `json:"endDate"`
	TotalAttempts     int                         `json:"totalAttempts"`
	AverageScore      float64                     `json:"averageScore"`
	TotalTimeSpent    int                         `json:"totalTimeSpent"`
	SubjectBreakdown  map[string]SubjectBreakdown `json:"subjectBreakdown"`
	ScoreDistribution ScoreDistribution           `json:"scoreDistribution"`
	DailyActivity     []DailyActivity             `json:"dailyActivity"`
}
