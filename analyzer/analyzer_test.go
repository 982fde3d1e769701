package analyzer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurosurgery/scheduler/analyzer"
	"github.com/neurosurgery/scheduler/calendar"
	"github.com/neurosurgery/scheduler/domain"
	"github.com/neurosurgery/scheduler/schederr"
	"github.com/neurosurgery/scheduler/store/memory"
)

func baseConfig() domain.AppConfiguration {
	return domain.AppConfiguration{
		LeavePolicy: domain.LeavePolicy{MinNoticeDays: 14, MaxConsecutiveDays: 10, AnnualLimit: 30},
	}
}

func newTestStore(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.New()
	s.SeedConfiguration(baseConfig())
	return s
}

func TestAnalyze_RequestNotFound(t *testing.T) {
	s := newTestStore(t)
	a := analyzer.Analyzer{Store: s}
	_, err := a.Analyze(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, schederr.KindNotFound, schederr.KindOf(err))
}

func TestAnalyze_RejectsRequestNotPendingAnalysis(t *testing.T) {
	s := newTestStore(t)
	s.SeedResidents(domain.Resident{ID: "r1", OnService: true, Specialty: "neurosurgery"})
	s.SeedLeaveRequest(domain.LeaveRequest{
		ID: "lr1", ResidentID: "r1", Status: domain.LeaveStatusApproved,
		StartDate: calendar.NewDate(2030, time.January, 7), EndDate: calendar.NewDate(2030, time.January, 9),
	})

	a := analyzer.Analyzer{Store: s}
	_, err := a.Analyze(context.Background(), "lr1")
	require.Error(t, err)
	assert.Equal(t, schederr.KindConflict, schederr.KindOf(err))
}

func TestAnalyze_ApprovesWhenCoverageIsHealthy(t *testing.T) {
	s := newTestStore(t)
	s.SeedResidents(
		domain.Resident{ID: "r1", PGYLevel: 3, OnService: true, Specialty: "neurosurgery"},
		domain.Resident{ID: "r2", PGYLevel: 3, OnService: true, Specialty: "neurosurgery"},
		domain.Resident{ID: "r3", PGYLevel: 3, OnService: true, Specialty: "neurosurgery"},
		domain.Resident{ID: "r4", PGYLevel: 3, OnService: true, Specialty: "neurosurgery"},
		domain.Resident{ID: "r5", PGYLevel: 3, OnService: true, Specialty: "neurosurgery"},
	)
	start := calendar.NewDate(2030, time.January, 7)  // Monday
	end := calendar.NewDate(2030, time.January, 9)     // Wednesday
	s.SeedLeaveRequest(domain.LeaveRequest{
		ID: "lr1", ResidentID: "r1", Type: domain.LeaveVacation, Status: domain.LeaveStatusPendingAnalysis,
		StartDate: start, EndDate: end,
	})

	a := analyzer.Analyzer{Store: s}
	report, err := a.Analyze(context.Background(), "lr1")
	require.NoError(t, err)

	assert.Equal(t, domain.RecommendApprove, report.Recommendation)
	assert.Empty(t, report.Conflicts)
	assert.True(t, report.PolicyCompliance.Compliant())

	updated, err := s.GetLeaveRequest(context.Background(), "lr1")
	require.NoError(t, err)
	assert.Equal(t, domain.LeaveStatusPendingApproval, updated.Status)
	assert.NotEmpty(t, updated.AnalysisReportID)
}

func TestAnalyze_DeniesOnHighSeverityScheduleConflict(t *testing.T) {
	s := newTestStore(t)
	s.SeedResidents(
		domain.Resident{ID: "r1", PGYLevel: 3, OnService: true, Specialty: "neurosurgery"},
		domain.Resident{ID: "r2", PGYLevel: 3, OnService: true, Specialty: "neurosurgery"},
	)
	start := calendar.NewDate(2030, time.January, 7)
	end := calendar.NewDate(2030, time.January, 9)
	s.SeedLeaveRequest(domain.LeaveRequest{
		ID: "lr1", ResidentID: "r1", Type: domain.LeaveVacation, Status: domain.LeaveStatusPendingAnalysis,
		StartDate: start, EndDate: end,
	})
	s.SeedCallAssignments(domain.CallAssignment{
		ResidentID: "r1", Date: start.AddDays(1), Type: domain.CallWeekend, Status: domain.CallStatusScheduled,
	})

	a := analyzer.Analyzer{Store: s}
	report, err := a.Analyze(context.Background(), "lr1")
	require.NoError(t, err)

	assert.Equal(t, domain.RecommendDeny, report.Recommendation)
	require.NotEmpty(t, report.Conflicts)
	assert.Equal(t, domain.SeverityHigh, report.Conflicts[0].Severity)

	updated, err := s.GetLeaveRequest(context.Background(), "lr1")
	require.NoError(t, err)
	assert.Equal(t, domain.LeaveStatusDenied, updated.Status)
}

func TestAnalyze_FlagsOnMediumCoverageRisk(t *testing.T) {
	s := newTestStore(t)
	s.SeedResidents(
		domain.Resident{ID: "r1", PGYLevel: 3, OnService: true, Specialty: "neurosurgery"},
		domain.Resident{ID: "r2", PGYLevel: 3, OnService: true, Specialty: "neurosurgery"},
		domain.Resident{ID: "r3", PGYLevel: 3, OnService: true, Specialty: "neurosurgery"},
	)
	start := calendar.NewDate(2030, time.January, 7)
	end := calendar.NewDate(2030, time.January, 9)
	s.SeedLeaveRequest(domain.LeaveRequest{
		ID: "lr1", ResidentID: "r1", Type: domain.LeaveVacation, Status: domain.LeaveStatusPendingAnalysis,
		StartDate: start, EndDate: end,
	})

	a := analyzer.Analyzer{Store: s}
	report, err := a.Analyze(context.Background(), "lr1")
	require.NoError(t, err)

	// total=3, overlapping=0, available=2, ratio=2/3≈0.667 -> Medium risk, one concern -> Flagged.
	assert.Equal(t, domain.RecommendFlagged, report.Recommendation)

	updated, err := s.GetLeaveRequest(context.Background(), "lr1")
	require.NoError(t, err)
	assert.Equal(t, domain.LeaveStatusPendingApproval, updated.Status)
}

func TestAnalyze_SecondCallIsNoOpOnAlreadyTransitionedRequest(t *testing.T) {
	s := newTestStore(t)
	s.SeedResidents(
		domain.Resident{ID: "r1", PGYLevel: 3, OnService: true, Specialty: "neurosurgery"},
		domain.Resident{ID: "r2", PGYLevel: 3, OnService: true, Specialty: "neurosurgery"},
		domain.Resident{ID: "r3", PGYLevel: 3, OnService: true, Specialty: "neurosurgery"},
		domain.Resident{ID: "r4", PGYLevel: 3, OnService: true, Specialty: "neurosurgery"},
		domain.Resident{ID: "r5", PGYLevel: 3, OnService: true, Specialty: "neurosurgery"},
	)
	start := calendar.NewDate(2030, time.January, 7)
	end := calendar.NewDate(2030, time.January, 9)
	s.SeedLeaveRequest(domain.LeaveRequest{
		ID: "lr1", ResidentID: "r1", Type: domain.LeaveVacation, Status: domain.LeaveStatusPendingAnalysis,
		StartDate: start, EndDate: end,
	})

	a := analyzer.Analyzer{Store: s}
	_, err := a.Analyze(context.Background(), "lr1")
	require.NoError(t, err)

	_, err = a.Analyze(context.Background(), "lr1")
	require.Error(t, err)
	assert.Equal(t, schederr.KindConflict, schederr.KindOf(err))
}
