package flow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCalendar_MondayFirst(t *testing.T) {
	// 1 марта 2026 - воскресенье
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	cal := BuildCalendar(now)

	require.Len(t, cal.Weeks, 6)
	first := cal.Weeks[0]
	for i := 0; i < 6; i++ {
		assert.True(t, first[i].Blank(), "cell %d", i)
	}
	assert.Equal(t, 1, first[6].Date.Day())

	for _, week := range cal.Weeks {
		assert.Len(t, week, 7)
	}

	last := cal.Weeks[5]
	assert.Equal(t, 31, last[1].Date.Day())
	assert.True(t, last[2].Blank())
}

func TestBuildCalendar_DisabledDays(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	disabled := map[int]bool{}
	for _, week := range BuildCalendar(now).Weeks {
		for _, day := range week {
			if !day.Blank() {
				disabled[day.Date.Day()] = day.Disabled
			}
		}
	}

	assert.True(t, disabled[9], "past day")
	assert.False(t, disabled[10], "today")
	assert.False(t, disabled[14], "saturday")
	assert.True(t, disabled[15], "sunday")
	assert.False(t, disabled[31])
}

func TestSelectable(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)

	assert.True(t, Selectable(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), now))
	assert.True(t, Selectable(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, Selectable(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, Selectable(time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC), now))
}
