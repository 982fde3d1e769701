package analyzer

import (
	"github.com/shopspring/decimal"

	"github.com/neurosurgery/scheduler/calendar"
	"github.com/neurosurgery/scheduler/domain"
)

const (
	alternativeSearchWindowDays = 14
	maxAlternatives             = 3
)

// findAlternatives implements §4.5 Alternatives: search ±14 days in day
// steps for a period of the same duration, disjoint from the request, whose
// coverage is Low with a strictly better ratio. computeCoverage is called
// once per candidate start date with the candidate [start,end] range.
func findAlternatives(req domain.LeaveRequest, currentRatio decimal.Decimal, computeCoverage func(start, end calendar.Date) domain.CoverageImpact) []domain.AlternativeDateRange {
	duration := calendar.InclusiveDays(req.StartDate, req.EndDate)
	var alternatives []domain.AlternativeDateRange

	for offset := -alternativeSearchWindowDays; offset <= alternativeSearchWindowDays; offset++ {
		if offset == 0 {
			continue
		}
		candidateStart := req.StartDate.AddDays(offset)
		candidateEnd := candidateStart.AddDays(duration - 1)

		if calendar.Overlaps(candidateStart, candidateEnd, req.StartDate, req.EndDate) {
			continue
		}

		impact := computeCoverage(candidateStart, candidateEnd)
		if impact.RiskLevel != domain.RiskLow {
			continue
		}
		if !impact.Ratio.GreaterThan(currentRatio) {
			continue
		}

		alternatives = append(alternatives, domain.AlternativeDateRange{
			StartDate: candidateStart,
			EndDate:   candidateEnd,
			Ratio:     impact.Ratio,
		})
		if len(alternatives) == maxAlternatives {
			break
		}
	}

	return alternatives
}
