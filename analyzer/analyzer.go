/*
Package analyzer implements the Leave-Request Analyzer: six concurrent
reads joined with errgroup, followed by synchronous coverage/fairness/
conflict/policy synthesis into a recommendation, persisted atomically.
*/
package analyzer

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/neurosurgery/scheduler/calendar"
	"github.com/neurosurgery/scheduler/domain"
	"github.com/neurosurgery/scheduler/schederr"
	"github.com/neurosurgery/scheduler/store"
)

// Analyzer runs the six-read, four-assessment synthesis pipeline for one
// LeaveRequest at a time. It is a value, constructed per invocation, per
// the engine's "no singleton" design note.
type Analyzer struct {
	Store  store.Store
	Logger *log.Logger
}

func (a Analyzer) logger() *log.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return log.New(io.Discard, "", 0)
}

// Analyze loads requestID, verifies it is still Pending Analysis, gathers
// the six facts concurrently, runs the four synthesis steps, and persists
// the report plus the status transition atomically. A second invocation
// for the same request is a no-op once the first has committed.
func (a Analyzer) Analyze(ctx context.Context, requestID domain.LeaveRequestID) (domain.LeaveAnalysisReport, error) {
	req, err := a.Store.GetLeaveRequest(ctx, requestID)
	if err != nil {
		return domain.LeaveAnalysisReport{}, schederr.Wrap(schederr.KindNotFound, "load leave request", err)
	}
	if req.Status != domain.LeaveStatusPendingAnalysis {
		return domain.LeaveAnalysisReport{}, schederr.Conflict("leave request %s is not Pending Analysis (status=%s)", requestID, req.Status)
	}

	report, recErr := a.run(ctx, req)
	if recErr != nil {
		a.logger().Printf("analysis failed for %s: %v", requestID, recErr)
		failErr := a.Store.WithTx(ctx, func(tx store.Store) error {
			return tx.UpdateLeaveRequestStatus(ctx, requestID, domain.LeaveStatusAnalysisFailed, "")
		})
		if failErr != nil {
			a.logger().Printf("failed to record Analysis Failed for %s: %v", requestID, failErr)
		}
		return domain.LeaveAnalysisReport{}, schederr.Wrap(schederr.KindAnalysisFailed, "analyze leave request", recErr)
	}

	nextStatus := domain.LeaveStatusPendingApproval
	if report.Recommendation == domain.RecommendDeny {
		nextStatus = domain.LeaveStatusDenied
	}

	txErr := a.Store.WithTx(ctx, func(tx store.Store) error {
		if err := tx.PutLeaveAnalysisReport(ctx, report); err != nil {
			return err
		}
		return tx.UpdateLeaveRequestStatus(ctx, requestID, nextStatus, string(report.ID))
	})
	if txErr != nil {
		return domain.LeaveAnalysisReport{}, schederr.Wrap(schederr.KindInternal, "persist analysis report", txErr)
	}

	return report, nil
}

func (a Analyzer) run(ctx context.Context, req domain.LeaveRequest) (domain.LeaveAnalysisReport, error) {
	f, err := gatherFacts(ctx, a.Store, req)
	if err != nil {
		return domain.LeaveAnalysisReport{}, fmt.Errorf("gather facts: %w", err)
	}

	weekend := calendar.ParseWeekendDefinition(f.config.MonthlyScheduler.WeekendDefinition)

	coverage := assessCoverage(req, f.resident, f.peers, f.approvedLeave, weekend)
	peers := filterPeers(f.resident, f.peers)
	fairness := assessFairness(req, f.resident, f.historicalLeave, f.peerLeave, peers)
	conflicts := detectConflicts(req, f.callConflicts, f.clinicalConflicts)
	policy := assessPolicy(req, f.config.LeavePolicy, calendar.FromTime(time.Now()), sumYearDaysUsed(req, f.historicalLeave))

	recommendation, justification := synthesizeRecommendation(coverage, fairness, conflicts, policy)

	var alternatives []domain.AlternativeDateRange
	if recommendation != domain.RecommendApprove {
		alternatives = findAlternatives(req, coverage.Ratio, func(start, end calendar.Date) domain.CoverageImpact {
			altReq := req
			altReq.StartDate, altReq.EndDate = start, end
			return assessCoverage(altReq, f.resident, f.peers, f.approvedLeave, weekend)
		})
	}

	report := domain.LeaveAnalysisReport{
		ID:               domain.LeaveAnalysisReportID(fmt.Sprintf("report-%s", req.ID)),
		RequestID:        req.ID,
		Coverage:         coverage,
		Fairness:         fairness,
		Conflicts:        conflicts,
		PolicyCompliance: policy,
		AlternativeDates: alternatives,
		Recommendation:   recommendation,
		Justification:    justification,
	}
	return report, nil
}
