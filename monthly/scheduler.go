/*
Package monthly implements the Monthly Call Scheduler: day-by-day
assignment of CallAssignments for a calendar month, using
ruleengine.Evaluator for eligibility and scoring.Score for selection,
followed by post-call propagation and run metrics.

A Scheduler is purely CPU-bound and single-threaded per run: calling
Generate on a freshly constructed Scheduler with identical inputs always
produces an identical result (spec §5).
*/
package monthly

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/neurosurgery/scheduler/calendar"
	"github.com/neurosurgery/scheduler/domain"
	"github.com/neurosurgery/scheduler/ruleengine"
	"github.com/neurosurgery/scheduler/schederr"
	"github.com/neurosurgery/scheduler/scoring"
)

// Scheduler generates a month's CallAssignments.
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

// Input bundles everything a single monthly generation run needs.
type Input struct {
	Year              int
	Month             time.Month
	Residents         []domain.Resident
	AcademicYear      domain.AcademicYear
	ApprovedLeave     []domain.LeaveRequest
	PendingLeave      []domain.LeaveRequest
	Config            domain.AppConfiguration
	Staffing          domain.StaffingLevel
	ExistingAssignments []domain.CallAssignment
}

// UnfilledSlot records a day/requirement the scheduler could not staff.
type UnfilledSlot struct {
	Date     calendar.Date
	CallType domain.CallType
}

// Metrics summarizes one generation run.
type Metrics struct {
	TotalsByType  map[domain.CallType]int
	CoverageRate  decimal.Decimal
	Gini          decimal.Decimal
	UnfilledSlots []UnfilledSlot
}

// Result is the output of a monthly generation run.
type Result struct {
	Assignments []domain.CallAssignment
	Metrics     Metrics
}

type dayRequirement struct {
	date             calendar.Date
	callType         domain.CallType
	priority         int
	requiredCoverage int
}

// Generate produces a Result for Input, per §4.4.
func (s *Scheduler) Generate(ctx context.Context, in Input) (Result, error) {
	if len(in.Residents) == 0 {
		return Result{}, schederr.Validation("monthly: residents must not be empty")
	}

	residents := make([]domain.Resident, len(in.Residents))
	copy(residents, in.Residents)
	sort.Slice(residents, func(i, j int) bool { return residents[i].ID < residents[j].ID })

	holidays := calendar.NewHolidaySet(in.Config.Holidays, in.Year)
	weekend := calendar.ParseWeekendDefinition(in.Config.MonthlyScheduler.WeekendDefinition)

	stats := initStats(in.ExistingAssignments)

	teamOf := teamLookup(in.AcademicYear, in.Year, in.Month)

	evaluator := ruleengine.New(ruleengine.Context{
		AcademicYear:  in.AcademicYear,
		ApprovedLeave: in.ApprovedLeave,
		Config:        in.Config,
		Staffing:      in.Staffing,
		Holidays:      holidays,
		Logger:        s.Logger,
	})

	daysInMonth := daysInMonth(in.Year, in.Month)
	requirements := make([]dayRequirement, 0, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		d := calendar.NewDate(in.Year, in.Month, day)
		callType := classifyDay(d, holidays, weekend)
		requirements = append(requirements, dayRequirement{
			date:             d,
			callType:         callType,
			priority:         callType.Priority(),
			requiredCoverage: callType.RequiredCoverage(),
		})
	}

	sort.SliceStable(requirements, func(i, j int) bool {
		return requirements[i].priority > requirements[j].priority
	})

	var assignments []domain.CallAssignment
	var postCallByDate = map[calendar.Date][]domain.CallAssignment{}
	var unfilled []UnfilledSlot
	assignedToday := map[calendar.Date]map[domain.ResidentID]bool{}

	for _, req := range requirements {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if req.callType == domain.CallNone {
			continue
		}
		already := assignedToday[req.date]
		if already == nil {
			already = map[domain.ResidentID]bool{}
			assignedToday[req.date] = already
		}

		for i := 0; i < req.requiredCoverage; i++ {
			avgs := scoring.ComputeRunAverages(residents, stats, teamOf)
			var candidates []scoring.Candidate
			for _, r := range residents {
				if already[r.ID] {
					continue
				}
				st := stats[r.ID]
				if st == nil {
					st = &ruleengine.CallStats{}
					stats[r.ID] = st
				}
				eligible, _ := evaluator.Eligible(r, req.date, req.callType, st)
				if !eligible {
					continue
				}
				breakdown := scoring.Score(r, req.date, req.callType, st, teamOf(r.ID), avgs, in.PendingLeave)
				candidates = append(candidates, scoring.Candidate{Resident: r, Score: breakdown, Stats: st})
			}

			best, ok := scoring.PickBest(candidates)
			if !ok {
				s.logger().Printf("warn: no eligible resident for %s on %s", req.callType, req.date)
				unfilled = append(unfilled, UnfilledSlot{Date: req.date, CallType: req.callType})
				continue
			}
			if block, inBlock := in.AcademicYear.BlockAt(req.date); inBlock && best.Stats.TotalCalls >= evaluator.MaxCalls(best.Resident, block) {
				s.logger().Printf("error: selecting %s on %s would exceed max calls", best.Resident.ID, req.date)
				return Result{}, schederr.Internal("monthly: max-calls invariant violated", fmt.Errorf("resident %s on %s", best.Resident.ID, req.date))
			}

			points := req.callType.Points()
			a := domain.CallAssignment{
				ID:         domain.CallAssignmentID(fmt.Sprintf("%s-%s", req.date, best.Resident.ID)),
				ResidentID: best.Resident.ID,
				Date:       req.date,
				Type:       req.callType,
				Points:     points,
				IsHoliday:  req.callType == domain.CallHoliday,
				Team:       teamOf(best.Resident.ID),
				Status:     domain.CallStatusScheduled,
			}
			assignments = append(assignments, a)
			already[best.Resident.ID] = true
			best.Stats.Record(req.date, req.callType, points)

			if req.date.Month() == in.Month {
				nextDay := req.date.AddDays(1)
				if nextDay.Month() == in.Month {
					postCall := domain.CallAssignment{
						ID:         domain.CallAssignmentID(fmt.Sprintf("%s-%s-postcall", nextDay, best.Resident.ID)),
						ResidentID: best.Resident.ID,
						Date:       nextDay,
						Type:       domain.CallPostCall,
						Points:     0,
						Status:     domain.CallStatusPostCall,
					}
					postCallByDate[nextDay] = append(postCallByDate[nextDay], postCall)
				}
			}
		}
	}

	for day := 1; day <= daysInMonth; day++ {
		assignments = append(assignments, postCallByDate[calendar.NewDate(in.Year, in.Month, day)]...)
	}

	metrics := computeMetrics(assignments, residents, daysInMonth, unfilled)

	return Result{Assignments: assignments, Metrics: metrics}, nil
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

func daysInMonth(year int, month time.Month) int {
	return calendar.InclusiveDays(calendar.NewDate(year, month, 1), calendar.EndOfMonth(year, month))
}

func teamLookup(year domain.AcademicYear, y int, m time.Month) func(domain.ResidentID) domain.Team {
	probe := calendar.NewDate(y, m, 1)
	block, ok := year.BlockAt(probe)
	if !ok {
		return func(domain.ResidentID) domain.Team { return "" }
	}
	teams := map[domain.ResidentID]domain.Team{}
	for _, a := range block.Assignments {
		teams[a.ResidentID] = a.Team
	}
	return func(id domain.ResidentID) domain.Team { return teams[id] }
}

func computeMetrics(assignments []domain.CallAssignment, residents []domain.Resident, daysInMonth int, unfilled []UnfilledSlot) Metrics {
	totals := map[domain.CallType]int{}
	coveredDays := map[calendar.Date]bool{}
	counts := map[domain.ResidentID]int{}
	for _, r := range residents {
		counts[r.ID] = 0
	}
	for _, a := range assignments {
		totals[a.Type]++
		if a.Type != domain.CallPostCall {
			coveredDays[a.Date] = true
			counts[a.ResidentID]++
		}
	}

	coverageRate := decimal.Zero
	if daysInMonth > 0 {
		coverageRate = decimal.NewFromInt(int64(len(coveredDays))).Div(decimal.NewFromInt(int64(daysInMonth)))
	}

	return Metrics{
		TotalsByType:  totals,
		CoverageRate:  coverageRate,
		Gini:          gini(counts),
		UnfilledSlots: unfilled,
	}
}

// gini computes the Gini coefficient of the per-resident call counts
// using the standard Lorenz (mean-absolute-difference) formulation:
//
//	G = sum_i sum_j |x_i - x_j| / (2 * n^2 * mean)
func gini(counts map[domain.ResidentID]int) decimal.Decimal {
	n := len(counts)
	if n == 0 {
		return decimal.Zero
	}
	values := make([]decimal.Decimal, 0, n)
	total := decimal.Zero
	for _, c := range counts {
		v := decimal.NewFromInt(int64(c))
		values = append(values, v)
		total = total.Add(v)
	}
	if total.IsZero() {
		return decimal.Zero
	}

	sumAbsDiff := decimal.Zero
	for i := range values {
		for j := range values {
			sumAbsDiff = sumAbsDiff.Add(values[i].Sub(values[j]).Abs())
		}
	}

	mean := total.Div(decimal.NewFromInt(int64(n)))
	denominator := decimal.NewFromInt(int64(2 * n * n)).Mul(mean)
	if denominator.IsZero() {
		return decimal.Zero
	}
	return sumAbsDiff.Div(denominator)
}
