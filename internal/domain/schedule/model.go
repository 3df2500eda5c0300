package schedule

import "time"

// Week is one selectable calendar week of the season.
type Week struct {
	Number         int
	SeasonType     string
	FirstGameStart time.Time
	LastGameStart  time.Time
}

// Option is a Week rendered for a selector control.
type Option struct {
	Label string
	Value int
}

// DefaultWeek picks the week a fresh display should open on: the first week
// whose last game starts today or later, else the first listed week.
// Returns 0 when no weeks are known.
func DefaultWeek(weeks []Week, today time.Time) int {
	year, month, day := today.Date()
	todayDate := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	for _, w := range weeks {
		ly, lm, ld := w.LastGameStart.Date()
		lastDate := time.Date(ly, lm, ld, 0, 0, 0, 0, time.UTC)
		if !lastDate.Before(todayDate) {
			return w.Number
		}
	}
	if len(weeks) > 0 {
		return weeks[0].Number
	}
	return 0
}
