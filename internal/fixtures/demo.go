package fixtures

import (
	"time"

	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/employee"
	"github.com/cmlabs-hris/leave-workflow-go/internal/domain/holiday"
)

func strPtr(s string) *string { return &s }

// Demo employee IDs. Tokens for them can be minted with cmd/devtoken.
const (
	DemoManagerID   = "emp-maya"
	DemoEmployeeID  = "emp-alice"
	DemoColleagueID = "emp-bruno"
	DemoNewHireID   = "emp-nina"
)

// Seeder accepts seeded rows. The in-memory store implements it.
type Seeder interface {
	PutEmployee(e employee.Employee)
	PutHoliday(h holiday.Holiday)
}

// SeededData lists what SeedDemoData wrote.
type SeededData struct {
	EmployeeIDs []string
	HolidayIDs  []string
}

// SeedDemoData writes a small team and a holiday calendar. Each balance is
// entitlement(joiningDate, year), where year is the year of now.
func SeedDemoData(s Seeder, now time.Time, entitlement func(joiningDate time.Time, year int) int) SeededData {
	year := now.Year()
	seeded := SeededData{}

	for _, e := range demoEmployees(year) {
		e.AnnualLeaveBalance = entitlement(e.JoiningDate, year)
		e.CreatedAt = now
		e.UpdatedAt = now
		s.PutEmployee(e)
		seeded.EmployeeIDs = append(seeded.EmployeeIDs, e.ID)
	}

	for _, h := range demoHolidays(year) {
		s.PutHoliday(h)
		seeded.HolidayIDs = append(seeded.HolidayIDs, h.ID)
	}

	return seeded
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func demoEmployees(year int) []employee.Employee {
	return []employee.Employee{
		{
			ID:          DemoManagerID,
			FullName:    "Maya Santoso",
			Email:       "maya@example.com",
			JoiningDate: date(year-6, time.March, 1),
		},
		{
			ID:          DemoEmployeeID,
			FullName:    "Alice Anders",
			Email:       "alice@example.com",
			JoiningDate: date(year-2, time.January, 10),
			ManagerID:   strPtr(DemoManagerID),
		},
		{
			ID:          DemoColleagueID,
			FullName:    "Bruno Costa",
			Email:       "bruno@example.com",
			JoiningDate: date(year-1, time.September, 15),
			ManagerID:   strPtr(DemoManagerID),
		},
		{
			ID:          DemoNewHireID,
			FullName:    "Nina Hartono",
			Email:       "nina@example.com",
			JoiningDate: date(year, time.July, 1),
			ManagerID:   strPtr(DemoManagerID),
		},
	}
}

func demoHolidays(year int) []holiday.Holiday {
	return []holiday.Holiday{
		{ID: "hol-new-year", Name: "New Year's Day", Date: date(2000, time.January, 1), Recurring: true},
		{ID: "hol-labour-day", Name: "Labour Day", Date: date(2000, time.May, 1), Recurring: true},
		{ID: "hol-christmas", Name: "Christmas Day", Date: date(2000, time.December, 25), Recurring: true},
		{
			ID:          "hol-company-day",
			Name:        "Company Day",
			Date:        date(year, time.October, 3),
			Description: strPtr("Office closed for the annual offsite"),
		},
	}
}
