/*
Package weekly implements the Weekly Schedule operation (spec §6.2
generateWeeklySchedule): given a week's pre-existing OR and clinic slots
plus any call assignments already on the books, it fills the remaining
call coverage for the seven days of the week using the same
ruleengine.Evaluator/scoring.Score machinery as monthly.Scheduler, scoped
to a single week rather than a calendar month.

Unlike monthly.Scheduler, a week carries no academic-year block context
of its own — callers pass the enclosing AcademicYear through
Input.AcademicYear. Eligibility requires a CORE_NSX assignment in the
block containing the day, so with an empty AcademicYear no call is
filled, and team lookup yields the empty Team.
*/
package weekly

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/neurosurgery/scheduler/calendar"
	"github.com/neurosurgery/scheduler/domain"
	"github.com/neurosurgery/scheduler/ruleengine"
	"github.com/neurosurgery/scheduler/schederr"
	"github.com/neurosurgery/scheduler/scoring"
	"github.com/neurosurgery/scheduler/store"
)

// Scheduler generates a single week's call coverage.
type Scheduler struct {
	Logger *log.Logger
}

func New(logger *log.Logger) *Scheduler { return &Scheduler{Logger: logger} }

func (s *Scheduler) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.New(discardWriter{}, "", 0)
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Input bundles everything a single weekly generation run needs.
type Input struct {
	WeekStart           calendar.Date
	Residents           []domain.Resident
	AcademicYear        domain.AcademicYear
	ORSlots             []store.ClinicalEntry
	ClinicSlots         []store.ClinicalEntry
	ExistingAssignments []domain.CallAssignment
	ApprovedLeave       []domain.LeaveRequest
	PendingLeave        []domain.LeaveRequest
	Config              domain.AppConfiguration
	Staffing            domain.StaffingLevel
}

// DaySchedule is one day's full picture: the OR/clinic slots already on
// the books plus whatever call coverage this run filled in.
type DaySchedule struct {
	Date            calendar.Date
	ORSlots         []store.ClinicalEntry
	ClinicSlots     []store.ClinicalEntry
	CallAssignments []domain.CallAssignment
}

// Result is the output of a weekly generation run.
type Result struct {
	ScheduleID string // "YYYY-Www"
	Days       []DaySchedule
}

// Generate produces a Result for Input, per §6.2 generateWeeklySchedule.
func (s *Scheduler) Generate(ctx context.Context, in Input) (Result, error) {
	if in.WeekStart.IsZero() {
		return Result{}, schederr.Validation("weekly: weekStartDate is required")
	}
	if len(in.Residents) == 0 {
		return Result{}, schederr.Validation("weekly: residents must not be empty")
	}

	residents := make([]domain.Resident, len(in.Residents))
	copy(residents, in.Residents)
	sort.Slice(residents, func(i, j int) bool { return residents[i].ID < residents[j].ID })

	holidays := calendar.NewHolidaySet(in.Config.Holidays, in.WeekStart.Year())
	weekend := calendar.ParseWeekendDefinition(in.Config.MonthlyScheduler.WeekendDefinition)

	stats := initStats(in.ExistingAssignments)
	alreadyCovered := coveredDates(in.ExistingAssignments)
	teamOf := teamLookup(in.AcademicYear, in.WeekStart)

	evaluator := ruleengine.New(ruleengine.Context{
		AcademicYear:  in.AcademicYear,
		ApprovedLeave: in.ApprovedLeave,
		Config:        in.Config,
		Staffing:      in.Staffing,
		Holidays:      holidays,
		Logger:        s.Logger,
	})

	postCallByDate := map[calendar.Date][]domain.CallAssignment{}

	days := make([]DaySchedule, 0, 7)
	for offset := 0; offset < 7; offset++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		d := in.WeekStart.AddDays(offset)
		day := DaySchedule{
			Date:        d,
			ORSlots:     slotsOn(in.ORSlots, d),
			ClinicSlots: slotsOn(in.ClinicSlots, d),
		}

		if !alreadyCovered[d] {
			callType := classifyDay(d, holidays, weekend)
			if callType != domain.CallNone {
				if a, ok := s.fillDay(residents, stats, evaluator, teamOf, d, callType, in.PendingLeave); ok {
					day.CallAssignments = append(day.CallAssignments, a)
					if offset+1 < 7 {
						nextDay := d.AddDays(1)
						postCallByDate[nextDay] = append(postCallByDate[nextDay], domain.CallAssignment{
							ID:         domain.CallAssignmentID(fmt.Sprintf("%s-%s-postcall", nextDay, a.ResidentID)),
							ResidentID: a.ResidentID,
							Date:       nextDay,
							Type:       domain.CallPostCall,
							Status:     domain.CallStatusPostCall,
						})
					}
				} else {
					s.logger().Printf("warn: no eligible resident for %s on %s", callType, d)
				}
			}
		}

		days = append(days, day)
	}

	for i := range days {
		days[i].CallAssignments = append(days[i].CallAssignments, postCallByDate[days[i].Date]...)
	}

	return Result{
		ScheduleID: fmt.Sprintf("%d-W%02d", in.WeekStart.Year(), isoWeek(in.WeekStart)),
		Days:       days,
	}, nil
}

func (s *Scheduler) fillDay(residents []domain.Resident, stats map[domain.ResidentID]*ruleengine.CallStats, evaluator *ruleengine.Evaluator, teamOf func(domain.ResidentID) domain.Team, d calendar.Date, callType domain.CallType, pendingLeave []domain.LeaveRequest) (domain.CallAssignment, bool) {
	avgs := scoring.ComputeRunAverages(residents, stats, teamOf)
	var candidates []scoring.Candidate
	for _, r := range residents {
		st := stats[r.ID]
		if st == nil {
			st = &ruleengine.CallStats{}
			stats[r.ID] = st
		}
		eligible, _ := evaluator.Eligible(r, d, callType, st)
		if !eligible {
			continue
		}
		breakdown := scoring.Score(r, d, callType, st, teamOf(r.ID), avgs, pendingLeave)
		candidates = append(candidates, scoring.Candidate{Resident: r, Score: breakdown, Stats: st})
	}

	best, ok := scoring.PickBest(candidates)
	if !ok {
		return domain.CallAssignment{}, false
	}

	points := callType.Points()
	a := domain.CallAssignment{
		ID:         domain.CallAssignmentID(fmt.Sprintf("%s-%s", d, best.Resident.ID)),
		ResidentID: best.Resident.ID,
		Date:       d,
		Type:       callType,
		Points:     points,
		IsHoliday:  callType == domain.CallHoliday,
		Team:       teamOf(best.Resident.ID),
		Status:     domain.CallStatusScheduled,
	}
	best.Stats.Record(d, callType, points)
	return a, true
}

func initStats(existing []domain.CallAssignment) map[domain.ResidentID]*ruleengine.CallStats {
	stats := map[domain.ResidentID]*ruleengine.CallStats{}
	sorted := make([]domain.CallAssignment, len(existing))
	copy(sorted, existing)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	for _, a := range sorted {
		if a.Type == domain.CallPostCall {
			continue
		}
		st := stats[a.ResidentID]
		if st == nil {
			st = &ruleengine.CallStats{}
			stats[a.ResidentID] = st
		}
		st.Record(a.Date, a.Type, a.Points)
	}
	return stats
}

func coveredDates(existing []domain.CallAssignment) map[calendar.Date]bool {
	covered := map[calendar.Date]bool{}
	for _, a := range existing {
		if a.Type != domain.CallPostCall {
			covered[a.Date] = true
		}
	}
	return covered
}

func slotsOn(slots []store.ClinicalEntry, d calendar.Date) []store.ClinicalEntry {
	var out []store.ClinicalEntry
	for _, e := range slots {
		if e.Date == d.String() {
			out = append(out, e)
		}
	}
	return out
}

func classifyDay(d calendar.Date, holidays calendar.HolidaySet, weekend calendar.WeekendDefinition) domain.CallType {
	switch {
	case holidays.IsHoliday(d):
		return domain.CallHoliday
	case weekend.IsWeekend(d):
		return domain.CallWeekend
	case isWeekNight(d):
		return domain.CallNight
	default:
		return domain.CallNone
	}
}

func isWeekNight(d calendar.Date) bool {
	switch d.Weekday() {
	case time.Monday, time.Tuesday, time.Wednesday, time.Thursday:
		return true
	default:
		return false
	}
}

func teamLookup(year domain.AcademicYear, weekStart calendar.Date) func(domain.ResidentID) domain.Team {
	block, ok := year.BlockAt(weekStart)
	if !ok {
		return func(domain.ResidentID) domain.Team { return "" }
	}
	teams := map[domain.ResidentID]domain.Team{}
	for _, a := range block.Assignments {
		teams[a.ResidentID] = a.Team
	}
	return func(id domain.ResidentID) domain.Team { return teams[id] }
}

// isoWeek returns the ISO-8601 week number of d's year.
func isoWeek(d calendar.Date) int {
	_, week := d.Time().ISOWeek()
	return week
}
