package holiday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSet_IgnoresTimeOfDay(t *testing.T) {
	s := NewSet(time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC))

	assert.True(t, s.Contains(time.Date(2025, 6, 4, 17, 45, 0, 0, time.UTC)))
	assert.False(t, s.Contains(time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)))
}

func TestResolveInRange(t *testing.T) {
	holidays := []Holiday{
		{Name: "Founders Day", Date: time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)},
		{Name: "New Year", Date: time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC), Recurring: true},
		{Name: "Leap Day", Date: time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC), Recurring: true},
	}

	set := ResolveInRange(holidays,
		time.Date(2027, 12, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2028, 3, 31, 0, 0, 0, 0, time.UTC))

	assert.Len(t, set, 2)
	assert.True(t, set.Contains(time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, set.Contains(time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC)))
	assert.False(t, set.Contains(time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)))
}
