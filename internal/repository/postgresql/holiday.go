package postgresql

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/holiday"
	"github.com/cmlabs-hris/leave-workflow-go/internal/pkg/database"
	"github.com/georgysavva/scany/v2/pgxscan"
)

type holidayRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	HolidayDate time.Time `db:"holiday_date"`
	Description *string   `db:"description"`
	Recurring   bool      `db:"recurring"`
}

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// HolidaysInRange implements holiday.HolidayRepository. Recurring holidays are
// loaded regardless of their stored year and expanded in Go.
func (r *holidayRepositoryImpl) HolidaysInRange(ctx context.Context, start, end time.Time) (holiday.Set, error) {
	query, args, err := psql.Select("id", "name", "holiday_date", "description", "recurring").
		From("holidays").
		Where(sq.Or{
			sq.Eq{"recurring": true},
			sq.And{
				sq.GtOrEq{"holiday_date": start},
				sq.LtOrEq{"holiday_date": end},
			},
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build holiday query: %w", err)
	}

	var rows []holidayRow
	if err := pgxscan.Select(ctx, GetQuerier(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}

	holidays := make([]holiday.Holiday, 0, len(rows))
	for _, row := range rows {
		holidays = append(holidays, holiday.Holiday{
			ID:          row.ID,
			Name:        row.Name,
			Date:        row.HolidayDate,
			Description: row.Description,
			Recurring:   row.Recurring,
		})
	}
	return holiday.ResolveInRange(holidays, start, end), nil
}
