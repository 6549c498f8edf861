package progress

import "time"

type dayRelation int

const (
	noHistory dayRelation = iota
	sameDay
	previousDay
	staleDay // two or more days ago, or in the future
)

type civilDate struct {
	year  int
	month time.Month
	day   int
}

func dateOf(t time.Time) civilDate {
	y, m, d := t.Date()
	return civilDate{y, m, d}
}

// relateDay places the last completion relative to the calendar day of now in loc
func relateDay(last *time.Time, now time.Time, loc *time.Location) dayRelation {
	if last == nil {
		return noHistory
	}

	now = now.In(loc)
	today := dateOf(now)
	lastDay := dateOf(last.In(loc))
	if lastDay == today {
		return sameDay
	}

	// noon avoids landing on a skipped hour when DST starts at midnight
	yesterday := dateOf(time.Date(today.year, today.month, today.day-1, 12, 0, 0, 0, loc))
	if lastDay == yesterday {
		return previousDay
	}
	return staleDay
}
