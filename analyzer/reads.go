package analyzer

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/neurosurgery/scheduler/calendar"
	"github.com/neurosurgery/scheduler/domain"
	"github.com/neurosurgery/scheduler/store"
)

// facts is everything the six concurrent reads gather, joined before
// synthesis begins.
type facts struct {
	resident          domain.Resident
	historicalLeave   []domain.LeaveRequest
	callConflicts     []domain.CallAssignment
	clinicalConflicts []store.ClinicalEntry
	peers             []domain.Resident
	approvedLeave     []domain.LeaveRequest
	config            domain.AppConfiguration
	peerLeave         map[domain.ResidentID][]domain.LeaveRequest
}

const trailingMonthsForFairness = 6

func gatherFacts(ctx context.Context, s store.Store, req domain.LeaveRequest) (facts, error) {
	var f facts
	g, gctx := errgroup.WithContext(ctx)

	sixMonthsAgo := req.StartDate.AddDays(-trailingMonthsForFairness * 30).String()
	requestStart := req.StartDate.String()
	requestEnd := req.EndDate.String()

	// 1. resident
	g.Go(func() error {
		r, err := s.GetResident(gctx, req.ResidentID)
		if err != nil {
			return err
		}
		f.resident = r
		return nil
	})

	// 2. historical leave for this resident, trailing window
	g.Go(func() error {
		hist, err := s.ListLeaveRequestsForResident(gctx, req.ResidentID, sixMonthsAgo)
		if err != nil {
			return err
		}
		f.historicalLeave = hist
		return nil
	})

	// 3. schedule conflicts: call assignments + clinical entries overlapping the request
	g.Go(func() error {
		calls, err := s.ListCallAssignmentsInRange(gctx, requestStart, requestEnd)
		if err != nil {
			return err
		}
		clinic, err := s.ListClinicalEntriesInRange(gctx, requestStart, requestEnd)
		if err != nil {
			return err
		}
		f.callConflicts = calls
		f.clinicalConflicts = clinic
		return nil
	})

	// 4. coverage impact data: full roster + approved leave overlapping the request
	g.Go(func() error {
		residents, err := s.ListResidents(gctx)
		if err != nil {
			return err
		}
		approved, err := s.ListApprovedLeaveInRange(gctx, requestStart, requestEnd)
		if err != nil {
			return err
		}
		f.peers = residents
		f.approvedLeave = approved
		return nil
	})

	// 5. configuration
	g.Go(func() error {
		cfg, err := s.GetConfiguration(gctx)
		if err != nil {
			return err
		}
		f.config = cfg
		return nil
	})

	// 6. peer comparison data: trailing leave history for every resident
	// sharing pgy level + specialty, fetched independently of branch 4's
	// roster so the two reads never block each other.
	g.Go(func() error {
		residents, err := s.ListResidents(gctx)
		if err != nil {
			return err
		}
		peerLeave := map[domain.ResidentID][]domain.LeaveRequest{}
		for _, r := range residents {
			if r.ID == req.ResidentID {
				continue
			}
			hist, err := s.ListLeaveRequestsForResident(gctx, r.ID, sixMonthsAgo)
			if err != nil {
				return err
			}
			peerLeave[r.ID] = hist
		}
		f.peerLeave = peerLeave
		return nil
	})

	if err := g.Wait(); err != nil {
		return facts{}, err
	}
	return f, nil
}

// samePeerGroup reports whether candidate shares pgy level + specialty
// with resident, for the fairness peer comparison.
func samePeerGroup(resident, candidate domain.Resident) bool {
	return resident.ID != candidate.ID &&
		resident.PGYLevel == candidate.PGYLevel &&
		resident.Specialty == candidate.Specialty
}

func filterPeers(resident domain.Resident, residents []domain.Resident) []domain.Resident {
	var peers []domain.Resident
	for _, r := range residents {
		if samePeerGroup(resident, r) {
			peers = append(peers, r)
		}
	}
	return peers
}

func onServiceSpecialtyPeers(resident domain.Resident, residents []domain.Resident) int {
	count := 0
	for _, r := range residents {
		if r.OnService && r.Specialty == resident.Specialty {
			count++
		}
	}
	return count
}

func weekendDaysInRange(start, end calendar.Date, weekend calendar.WeekendDefinition) int {
	count := 0
	calendar.EachDay(start, end, func(d calendar.Date) {
		if weekend.IsWeekend(d) {
			count++
		}
	})
	return count
}
