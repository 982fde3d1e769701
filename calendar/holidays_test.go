package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/neurosurgery/scheduler/calendar"
)

func TestDefaultWeekend_IsFriSatSun(t *testing.T) {
	wd := calendar.DefaultWeekend()
	assert.True(t, wd.IsWeekend(calendar.NewDate(2026, time.August, 7)))  // Friday
	assert.True(t, wd.IsWeekend(calendar.NewDate(2026, time.August, 8)))  // Saturday
	assert.True(t, wd.IsWeekend(calendar.NewDate(2026, time.August, 9)))  // Sunday
	assert.False(t, wd.IsWeekend(calendar.NewDate(2026, time.August, 6))) // Thursday
}

func TestParseWeekendDefinition_EmptyFallsBackToDefault(t *testing.T) {
	wd := calendar.ParseWeekendDefinition(nil)
	assert.Equal(t, calendar.DefaultWeekend(), wd)
}

func TestParseWeekendDefinition_CustomNames(t *testing.T) {
	wd := calendar.ParseWeekendDefinition([]string{"saturday", "Sunday"})
	assert.True(t, wd.IsWeekend(calendar.NewDate(2026, time.August, 8)))
	assert.False(t, wd.IsWeekend(calendar.NewDate(2026, time.August, 7)))
}

func TestParseWeekendDefinition_AllUnknownFallsBackToDefault(t *testing.T) {
	wd := calendar.ParseWeekendDefinition([]string{"funday"})
	assert.Equal(t, calendar.DefaultWeekend(), wd)
}

func TestNewHolidaySet_IncludesFixedAndConfigured(t *testing.T) {
	hs := calendar.NewHolidaySet([]string{"2026-11-26"}, 2026)

	assert.True(t, hs.IsHoliday(calendar.NewDate(2026, time.January, 1)))
	assert.True(t, hs.IsHoliday(calendar.NewDate(2026, time.December, 25)))
	assert.True(t, hs.IsHoliday(calendar.NewDate(2026, time.November, 26)))
	assert.False(t, hs.IsHoliday(calendar.NewDate(2026, time.November, 27)))
}

func TestNewHolidaySet_SkipsMalformedEntries(t *testing.T) {
	hs := calendar.NewHolidaySet([]string{"not-a-date"}, 2026)
	assert.False(t, hs.IsHoliday(calendar.NewDate(2026, time.November, 27)))
}

func TestWorkingDays_ExcludesHolidaysNotWeekends(t *testing.T) {
	holidays := calendar.NewHolidaySet(nil, 2026)
	start := calendar.NewDate(2026, time.January, 1)
	end := calendar.NewDate(2026, time.January, 7)

	// 7 days, one of which (Jan 1) is a fixed holiday; weekends still count.
	assert.Equal(t, 6, calendar.WorkingDays(start, end, holidays))
}
