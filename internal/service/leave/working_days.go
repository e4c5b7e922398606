package leave

import (
	"time"

	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/holiday"
	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/leave"
)

type WorkingDaysCalculator struct{}

func NewWorkingDaysCalculator() *WorkingDaysCalculator {
	return &WorkingDaysCalculator{}
}

// Count returns the number of dates in [startDate, endDate] that are neither
// a weekend nor in holidays. It returns 0 when startDate is after endDate.
func (c *WorkingDaysCalculator) Count(startDate, endDate time.Time, holidays holiday.Set) int {
	start := leave.DateOf(startDate)
	end := leave.DateOf(endDate)

	workingDays := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		if holidays.Contains(d) {
			continue
		}
		workingDays++
	}
	return workingDays
}

// maxRangeDays bounds the calendar span of a leave request or a working-day
// preview.
const maxRangeDays = 366

func exceedsMaxRange(startDate, endDate time.Time) bool {
	return leave.DateOf(endDate).Sub(leave.DateOf(startDate)) >= maxRangeDays*24*time.Hour
}
