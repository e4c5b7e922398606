package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/holiday"
)

type holidayRepositoryImpl struct {
	store *Store
}

func NewHolidayRepository(store *Store) holiday.HolidayRepository {
	return &holidayRepositoryImpl{store: store}
}

func (r *holidayRepositoryImpl) HolidaysInRange(ctx context.Context, start, end time.Time) (holiday.Set, error) {
	defer r.store.read(ctx)()
	return holiday.ResolveInRange(r.store.holidays, start, end), nil
}
