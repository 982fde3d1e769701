package ruleengine

import (
	"github.com/neurosurgery/scheduler/calendar"
	"github.com/neurosurgery/scheduler/domain"
)

// CallStats is the running per-resident counters the evaluator and scorer
// both read and the monthly scheduler updates after every assignment. It
// is seeded from any existingAssignments passed into a scheduling run
// (§4.4 step 1).
type CallStats struct {
	TotalCalls    int
	NightCalls    int
	WeekendCalls  int
	HolidayCalls  int
	Points        int
	LastCallDate  calendar.Date // zero value if no prior call
	CallDates     []calendar.Date
}

// HasCalled reports whether the resident has any recorded call yet.
func (s *CallStats) HasCalled() bool { return !s.LastCallDate.IsZero() }

// DaysSinceLastCall returns the number of days between the resident's
// last call and d. Undefined (and unused) when HasCalled is false.
func (s *CallStats) DaysSinceLastCall(d calendar.Date) int {
	return calendar.DaysBetween(s.LastCallDate, d)
}

// Record updates the stats after a non-PostCall assignment of callType on
// date d is made.
func (s *CallStats) Record(d calendar.Date, callType domain.CallType, points int) {
	s.TotalCalls++
	s.Points += points
	s.LastCallDate = d
	s.CallDates = append(s.CallDates, d)
	switch callType {
	case domain.CallNight:
		s.NightCalls++
	case domain.CallWeekend:
		s.WeekendCalls++
	case domain.CallHoliday:
		s.HolidayCalls++
	}
}

// RecentCalls returns the count of calls strictly within [from, to) —
// used by the PARO rolling 1-in-4 check (§4.1 step 7), whose window is
// "ending at d (exclusive)".
func (s *CallStats) RecentCalls(from, to calendar.Date) int {
	count := 0
	for _, d := range s.CallDates {
		if d.AfterOrEqual(from) && d.Before(to) {
			count++
		}
	}
	return count
}
