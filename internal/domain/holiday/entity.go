package holiday

import "time"

const dateKeyLayout = "2006-01-02"

type Holiday struct {
	ID          string
	Name        string
	Date        time.Time
	Description *string
	Recurring   bool
}

// Set is a lookup of calendar dates, independent of time of day and location.
type Set map[string]struct{}

func NewSet(dates ...time.Time) Set {
	s := make(Set, len(dates))
	for _, d := range dates {
		s.Add(d)
	}
	return s
}

func (s Set) Add(date time.Time) {
	s[date.Format(dateKeyLayout)] = struct{}{}
}

func (s Set) Contains(date time.Time) bool {
	_, ok := s[date.Format(dateKeyLayout)]
	return ok
}

// ResolveInRange returns the dates of holidays that fall in [start, end].
// Recurring holidays repeat on their month and day every year; Feb 29 only
// recurs in leap years.
func ResolveInRange(holidays []Holiday, start, end time.Time) Set {
	set := NewSet()
	for _, h := range holidays {
		if !h.Recurring {
			if inRange(h.Date, start, end) {
				set.Add(h.Date)
			}
			continue
		}
		for year := start.Year(); year <= end.Year(); year++ {
			d := time.Date(year, h.Date.Month(), h.Date.Day(), 0, 0, 0, 0, time.UTC)
			if d.Month() != h.Date.Month() {
				continue
			}
			if inRange(d, start, end) {
				set.Add(d)
			}
		}
	}
	return set
}

func inRange(d, start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}
