package analyzer

import (
	"github.com/shopspring/decimal"

	"github.com/neurosurgery/scheduler/calendar"
	"github.com/neurosurgery/scheduler/domain"
)

var (
	ratioLowThreshold    = decimal.NewFromFloat(0.8)
	ratioMediumThreshold = decimal.NewFromFloat(0.6)
)

// assessCoverage implements §4.5 Coverage impact.
func assessCoverage(req domain.LeaveRequest, resident domain.Resident, allResidents []domain.Resident, approvedLeave []domain.LeaveRequest, weekend calendar.WeekendDefinition) domain.CoverageImpact {
	total := onServiceSpecialtyPeers(resident, allResidents)

	overlapping := 0
	for _, l := range approvedLeave {
		if l.ResidentID == req.ResidentID {
			continue
		}
		if l.Overlaps(req.StartDate, req.EndDate) {
			overlapping++
		}
	}

	available := total - overlapping - 1
	ratio := decimal.Zero
	if total > 0 {
		ratio = decimal.NewFromInt(int64(available)).DivRound(decimal.NewFromInt(int64(total)), 6)
	}

	risk := domain.RiskHigh
	switch {
	case ratio.GreaterThanOrEqual(ratioLowThreshold):
		risk = domain.RiskLow
	case ratio.GreaterThanOrEqual(ratioMediumThreshold):
		risk = domain.RiskMedium
	}

	weekendDays := weekendDaysInRange(req.StartDate, req.EndDate, weekend)
	switch {
	case weekendDays > 4:
		risk = domain.RiskHigh
	case weekendDays > 2 && risk == domain.RiskLow:
		risk = domain.RiskMedium
	}

	return domain.CoverageImpact{
		TotalResidents:     total,
		OverlappingLeave:   overlapping,
		AvailableResidents: available,
		Ratio:              ratio,
		RiskLevel:          risk,
	}
}
