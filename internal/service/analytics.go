package service

import (
	"sort"
	"time"

	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/util"
)

var periodWindows = map[string]time.Duration{
	model.Period7Days:  7 * 24 * time.Hour,
	model.Period30Days: 30 * 24 * time.Hour,
	model.Period90Days: 90 * 24 * time.Hour,
}

// NormalizePeriod maps anything other than 7d, 30d or 90d to 30d.
func NormalizePeriod(period string) (string, time.Duration) {
	if w, ok := periodWindows[period]; ok {
		return period, w
	}
	return model.Period30Days, periodWindows[model.Period30Days]
}

func scoreBucket(d *model.ScoreDistribution, score int) {
	switch {
	case score >= 90:
		d.Excellent++
	case score >= 70:
		d.Good++
	case score >= 50:
		d.Average++
	default:
		d.Poor++
	}
}

// BuildAnalytics aggregates the attempts of one window. Daily activity is keyed
// by the UTC calendar date of completion.
func BuildAnalytics(attempts []model.QuizAttempt, period string, start, end time.Time) *model.Analytics {
	a := &model.Analytics{
		Period:           period,
		StartDate:        start,
		EndDate:          end,
		SubjectBreakdown: make(map[string]model.SubjectBreakdown),
		DailyActivity:    []model.DailyActivity{},
	}

	type day struct {
		attempts int
		total    int
	}
	days := make(map[string]*day)
	totalScore := 0

	for _, attempt := range attempts {
		a.TotalAttempts++
		a.TotalTimeSpent += attempt.TimeSpent
		totalScore += attempt.Score

		sb := a.SubjectBreakdown[attempt.Subject]
		sb.AverageScore = util.RunningAverage(sb.AverageScore, sb.Attempts, float64(attempt.Score))
		sb.Attempts++
		sb.TimeSpent += attempt.TimeSpent
		a.SubjectBreakdown[attempt.Subject] = sb

		scoreBucket(&a.ScoreDistribution, attempt.Score)

		key := attempt.CompletedAt.UTC().Format(util.DateFormat)
		d, ok := days[key]
		if !ok {
			d = &day{}
			days[key] = d
		}
		d.attempts++
		d.total += attempt.Score
	}

	if a.TotalAttempts > 0 {
		a.AverageScore = util.Round2(float64(totalScore) / float64(a.TotalAttempts))
	}
	for subject, sb := range a.SubjectBreakdown {
		sb.AverageScore = util.Round2(sb.AverageScore)
		a.SubjectBreakdown[subject] = sb
	}

	for date, d := range days {
		a.DailyActivity = append(a.DailyActivity, model.DailyActivity{
			Date:         date,
			Attempts:     d.attempts,
			AverageScore: util.Round2(float64(d.total) / float64(d.attempts)),
		})
	}
	sort.Slice(a.DailyActivity, func(i, j int) bool {
		return a.DailyActivity[i].Date < a.DailyActivity[j].Date
	})
	return a
}
