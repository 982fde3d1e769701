/*
Package scoring ranks residents already filtered eligible by
ruleengine.Evaluator for a specific day, producing the numeric score
§4.2 defines. All component arithmetic uses decimal.Decimal rather than
float64, so the running totals used across many residents' scores never
accumulate floating-point drift.
*/
package scoring

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/neurosurgery/scheduler/calendar"
	"github.com/neurosurgery/scheduler/domain"
	"github.com/neurosurgery/scheduler/ruleengine"
)

var (
	hundred = decimal.NewFromInt(100)
	zero    = decimal.Zero
	ten     = decimal.NewFromInt(10)
	thirty  = decimal.NewFromInt(30)
	twenty  = decimal.NewFromInt(20)
	three   = decimal.NewFromInt(3)
	two     = decimal.NewFromInt(2)
	five    = decimal.NewFromInt(5)
	fifty   = decimal.NewFromInt(50)
)

// Breakdown carries each component's contribution, useful for debugging
// and for tests asserting on individual components rather than the sum.
type Breakdown struct {
	Fairness       decimal.Decimal
	Rest           decimal.Decimal
	Seniority      decimal.Decimal
	PointsBalance  decimal.Decimal
	TeamBalance    decimal.Decimal
	PendingPenalty decimal.Decimal
	Total          decimal.Decimal
}

// RunAverages are the cross-resident averages of the run's current stats
// (over all residents, not only those eligible for a given day). The
// monthly and weekly schedulers recompute them before each slot they fill.
type RunAverages struct {
	AvgCalls        decimal.Decimal
	AvgPoints       decimal.Decimal
	OverallAvgCalls decimal.Decimal
	TeamAvgCalls    map[domain.Team]decimal.Decimal
}

// ComputeRunAverages derives RunAverages from every resident's stats and
// team assignment for the current run.
func ComputeRunAverages(residents []domain.Resident, stats map[domain.ResidentID]*ruleengine.CallStats, teamOf func(domain.ResidentID) domain.Team) RunAverages {
	if len(residents) == 0 {
		return RunAverages{TeamAvgCalls: map[domain.Team]decimal.Decimal{}}
	}

	totalCalls := zero
	totalPoints := zero
	teamCalls := map[domain.Team]decimal.Decimal{}
	teamCounts := map[domain.Team]int{}

	for _, r := range residents {
		s := stats[r.ID]
		calls := decimal.NewFromInt(int64(statTotalCalls(s)))
		points := decimal.NewFromInt(int64(statPoints(s)))
		totalCalls = totalCalls.Add(calls)
		totalPoints = totalPoints.Add(points)

		team := teamOf(r.ID)
		if team != "" {
			teamCalls[team] = teamCalls[team].Add(calls)
			teamCounts[team]++
		}
	}

	n := decimal.NewFromInt(int64(len(residents)))
	avg := RunAverages{
		AvgCalls:        totalCalls.Div(n),
		AvgPoints:       totalPoints.Div(n),
		OverallAvgCalls: totalCalls.Div(n),
		TeamAvgCalls:    map[domain.Team]decimal.Decimal{},
	}
	for team, sum := range teamCalls {
		count := teamCounts[team]
		if count == 0 {
			continue
		}
		avg.TeamAvgCalls[team] = sum.Div(decimal.NewFromInt(int64(count)))
	}
	return avg
}

func statTotalCalls(s *ruleengine.CallStats) int {
	if s == nil {
		return 0
	}
	return s.TotalCalls
}

func statPoints(s *ruleengine.CallStats) int {
	if s == nil {
		return 0
	}
	return s.Points
}

// Score computes the score and breakdown for resident on date d for
// callType, given its stats, the resident's team for d, the run
// averages, and any pending/denied leave requests (for the penalty
// component only — pending leave never affects eligibility).
func Score(resident domain.Resident, d calendar.Date, callType domain.CallType, stats *ruleengine.CallStats, team domain.Team, avgs RunAverages, pendingLeave []domain.LeaveRequest) Breakdown {
	calls := decimal.NewFromInt(int64(statTotalCalls(stats)))
	points := decimal.NewFromInt(int64(statPoints(stats)))

	fairness := thirty.Sub(calls.Sub(avgs.AvgCalls).Mul(ten))
	if fairness.LessThan(zero) {
		fairness = zero
	}

	var rest decimal.Decimal
	if stats == nil || !stats.HasCalled() {
		rest = thirty
	} else {
		since := decimal.NewFromInt(int64(stats.DaysSinceLastCall(d)))
		rest = since.Mul(three)
		if rest.GreaterThan(thirty) {
			rest = thirty
		}
	}

	seniority := zero
	if callType == domain.CallWeekend || callType == domain.CallHoliday {
		seniority = two.Mul(decimal.NewFromInt(int64(resident.PGYLevel)))
	}

	pointsBalance := twenty.Sub(points.Sub(avgs.AvgPoints))
	if pointsBalance.LessThan(zero) {
		pointsBalance = zero
	}

	teamBalance := zero
	if team != "" {
		teamAvg, ok := avgs.TeamAvgCalls[team]
		if ok {
			teamBalance = five.Mul(avgs.OverallAvgCalls.Sub(teamAvg)).Round(0)
		}
	}

	pendingPenalty := zero
	for _, l := range pendingLeave {
		if l.ResidentID != resident.ID {
			continue
		}
		if l.Status != domain.LeaveStatusPendingApproval && l.Status != domain.LeaveStatusDenied {
			continue
		}
		if d.InRange(l.StartDate, l.EndDate) {
			pendingPenalty = fifty.Neg()
			break
		}
	}

	total := hundred.Add(fairness).Add(rest).Add(seniority).Add(pointsBalance).Add(teamBalance).Add(pendingPenalty)
	if total.LessThan(zero) {
		total = zero
	}

	return Breakdown{
		Fairness:       fairness,
		Rest:           rest,
		Seniority:      seniority,
		PointsBalance:  pointsBalance,
		TeamBalance:    teamBalance,
		PendingPenalty: pendingPenalty,
		Total:          total,
	}
}

// Candidate is one resident considered for a day's slot, paired with its
// computed score.
type Candidate struct {
	Resident domain.Resident
	Score    Breakdown
	Stats    *ruleengine.CallStats
}

// PickBest returns the highest-scoring candidate, breaking ties by
// ascending current call count then ascending resident id (§4.2).
func PickBest(candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.Score.Total.Equal(b.Score.Total) {
			return a.Score.Total.GreaterThan(b.Score.Total)
		}
		aCalls, bCalls := statTotalCalls(a.Stats), statTotalCalls(b.Stats)
		if aCalls != bCalls {
			return aCalls < bCalls
		}
		return a.Resident.ID < b.Resident.ID
	})
	return sorted[0], true
}
