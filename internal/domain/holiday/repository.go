package holiday

import (
	"context"
	"time"
)

// HolidayRepository is the holiday calendar collaborator. Recurring holidays
// are resolved to concrete dates by the implementation.
type HolidayRepository interface {
	HolidaysInRange(ctx context.Context, start, end time.Time) (Set, error)
}
