package analyzer

import (
	"fmt"

	"github.com/neurosurgery/scheduler/calendar"
	"github.com/neurosurgery/scheduler/domain"
	"github.com/neurosurgery/scheduler/store"
)

func parseOrZero(s string) (calendar.Date, error) {
	return calendar.ParseDate(s)
}

// detectConflicts implements §4.5 Schedule conflicts: every date in the
// request's range is checked against the resident's own call assignments
// and clinical (OR/clinic) entries.
func detectConflicts(req domain.LeaveRequest, callAssignments []domain.CallAssignment, clinicalEntries []store.ClinicalEntry) []domain.ScheduleConflict {
	var conflicts []domain.ScheduleConflict

	for _, a := range callAssignments {
		if a.ResidentID != req.ResidentID {
			continue
		}
		if a.Type == domain.CallPostCall {
			continue
		}
		if !a.Date.InRange(req.StartDate, req.EndDate) {
			continue
		}
		severity := domain.SeverityMedium
		if a.Type == domain.CallWeekend || a.Type == domain.CallHoliday {
			severity = domain.SeverityHigh
		}
		conflicts = append(conflicts, domain.ScheduleConflict{
			Type:        domain.ConflictCall,
			Date:        a.Date,
			Description: fmt.Sprintf("%s call scheduled on %s", a.Type, a.Date),
			Severity:    severity,
		})
	}

	for _, e := range clinicalEntries {
		if e.ResidentID != req.ResidentID {
			continue
		}
		severity := domain.SeverityMedium
		if e.Type == domain.ConflictOR {
			severity = domain.SeverityHigh
		}
		d, err := parseOrZero(e.Date)
		if err != nil {
			continue
		}
		if !d.InRange(req.StartDate, req.EndDate) {
			continue
		}
		conflicts = append(conflicts, domain.ScheduleConflict{
			Type:        e.Type,
			Date:        d,
			Description: e.Description,
			Severity:    severity,
		})
	}

	return conflicts
}

func hasHighSeverity(conflicts []domain.ScheduleConflict) (domain.ScheduleConflict, bool) {
	for _, c := range conflicts {
		if c.Severity == domain.SeverityHigh {
			return c, true
		}
	}
	return domain.ScheduleConflict{}, false
}
