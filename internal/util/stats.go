package util

import (
	"math"
	"time"
)

// RunningAverage folds value into an average taken over count samples.
func RunningAverage(avg float64, count int, value float64) float64 {
	if count <= 0 {
		return value
	}
	return (avg*float64(count) + value) / float64(count+1)
}

// Percent returns round(100*part/whole), or 0 when whole is 0.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func utcDay(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// AdvanceStreak applies one day of activity at `at` to a streak whose last
// activity was `last`. Activity on the same UTC day leaves it unchanged, the
// next day extends it and any longer gap restarts it at 1.
func AdvanceStreak(current, longest int, last *time.Time, at time.Time) (int, int) {
	if last == nil || current <= 0 {
		current = 1
	} else {
		days := int(utcDay(at).Sub(utcDay(*last)) / (24 * time.Hour))
		switch {
		case days == 1:
			current++
		case days > 1:
			current = 1
		}
	}
	if current > longest {
		longest = current
	}
	return current, longest
}
