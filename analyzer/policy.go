package analyzer

import (
	"fmt"

	"github.com/neurosurgery/scheduler/calendar"
	"github.com/neurosurgery/scheduler/domain"
)

// assessPolicy implements §4.5 Policy compliance: an additive list of
// violations, none of which short-circuit the others.
func assessPolicy(req domain.LeaveRequest, policy domain.LeavePolicy, now calendar.Date, yearDaysUsed int) domain.PolicyCompliance {
	daysNotice := calendar.DaysBetween(now, req.StartDate)
	var violations []string

	if req.Type != domain.LeaveCompassionate && daysNotice < policy.MinNoticeDays {
		violations = append(violations, fmt.Sprintf(
			"only %d days notice, minimum is %d", daysNotice, policy.MinNoticeDays))
	}

	requestDays := req.Days()
	if requestDays > policy.MaxConsecutiveDays {
		violations = append(violations, fmt.Sprintf(
			"%d consecutive days requested, maximum is %d", requestDays, policy.MaxConsecutiveDays))
	}

	if yearDaysUsed+requestDays > policy.AnnualLimit {
		violations = append(violations, fmt.Sprintf(
			"%d days used this year plus %d requested exceeds annual limit of %d",
			yearDaysUsed, requestDays, policy.AnnualLimit))
	}

	return domain.PolicyCompliance{Violations: violations}
}

// sumYearDaysUsed sums the inclusive length of every approved leave request
// in historicalLeave whose start falls in the same calendar year as req.
func sumYearDaysUsed(req domain.LeaveRequest, historicalLeave []domain.LeaveRequest) int {
	total := 0
	for _, l := range historicalLeave {
		if l.Status != domain.LeaveStatusApproved {
			continue
		}
		if l.StartDate.Year() != req.StartDate.Year() {
			continue
		}
		total += l.Days()
	}
	return total
}
