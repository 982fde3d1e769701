package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurosurgery/scheduler/domain"
	"github.com/neurosurgery/scheduler/schederr"
	"github.com/neurosurgery/scheduler/store"
	"github.com/neurosurgery/scheduler/store/memory"
)

func TestGetResident_NotFound(t *testing.T) {
	s := memory.New()
	_, err := s.GetResident(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, schederr.KindNotFound, schederr.KindOf(err))
}

func TestSeedResidents_RoundTrips(t *testing.T) {
	s := memory.New()
	s.SeedResidents(domain.Resident{ID: "r1", PGYLevel: 3})

	r, err := s.GetResident(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, 3, r.PGYLevel)

	all, err := s.ListResidents(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetConfiguration_NotFoundUntilSeeded(t *testing.T) {
	s := memory.New()
	_, err := s.GetConfiguration(context.Background())
	assert.Equal(t, schederr.KindNotFound, schederr.KindOf(err))

	s.SeedConfiguration(domain.AppConfiguration{LeavePolicy: domain.LeavePolicy{AnnualLimit: 20}})
	cfg, err := s.GetConfiguration(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.LeavePolicy.AnnualLimit)
}

func TestPutAcademicYear_RejectsDuplicateID(t *testing.T) {
	s := memory.New()
	year := domain.AcademicYear{ID: "2026-2027"}
	require.NoError(t, s.PutAcademicYear(context.Background(), year))

	err := s.PutAcademicYear(context.Background(), year)
	assert.Equal(t, schederr.KindConflict, schederr.KindOf(err))
}

func TestPutMonthlySchedule_ConflictsWithoutForceRegenerate(t *testing.T) {
	s := memory.New()
	sched := store.MonthlySchedule{ID: "2026-03"}
	require.NoError(t, s.PutMonthlySchedule(context.Background(), sched, false))

	err := s.PutMonthlySchedule(context.Background(), sched, false)
	assert.Equal(t, schederr.KindConflict, schederr.KindOf(err))

	require.NoError(t, s.PutMonthlySchedule(context.Background(), sched, true))
}

func TestListLeaveRequestsForResident_EmptySinceDateReturnsAll(t *testing.T) {
	s := memory.New()
	s.SeedLeaveRequest(domain.LeaveRequest{ID: "lr1", ResidentID: "r1"})
	s.SeedLeaveRequest(domain.LeaveRequest{ID: "lr2", ResidentID: "r2"})

	out, err := s.ListLeaveRequestsForResident(context.Background(), "r1", "")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, domain.LeaveRequestID("lr1"), out[0].ID)
}

func TestUpdateLeaveRequestStatus_SetsStatusAndReportID(t *testing.T) {
	s := memory.New()
	s.SeedLeaveRequest(domain.LeaveRequest{ID: "lr1", ResidentID: "r1", Status: domain.LeaveStatusPendingAnalysis})

	require.NoError(t, s.UpdateLeaveRequestStatus(context.Background(), "lr1", domain.LeaveStatusApproved, "report-lr1"))

	updated, err := s.GetLeaveRequest(context.Background(), "lr1")
	require.NoError(t, err)
	assert.Equal(t, domain.LeaveStatusApproved, updated.Status)
	assert.Equal(t, "report-lr1", updated.AnalysisReportID)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	s := memory.New()
	s.SeedLeaveRequest(domain.LeaveRequest{ID: "lr1", ResidentID: "r1", Status: domain.LeaveStatusPendingAnalysis})

	boom := errors.New("boom")
	err := s.WithTx(context.Background(), func(tx store.Store) error {
		if err := tx.UpdateLeaveRequestStatus(context.Background(), "lr1", domain.LeaveStatusApproved, "r"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	unchanged, err := s.GetLeaveRequest(context.Background(), "lr1")
	require.NoError(t, err)
	assert.Equal(t, domain.LeaveStatusPendingAnalysis, unchanged.Status)
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	s := memory.New()
	s.SeedLeaveRequest(domain.LeaveRequest{ID: "lr1", ResidentID: "r1", Status: domain.LeaveStatusPendingAnalysis})

	err := s.WithTx(context.Background(), func(tx store.Store) error {
		return tx.UpdateLeaveRequestStatus(context.Background(), "lr1", domain.LeaveStatusDenied, "")
	})
	require.NoError(t, err)

	updated, err := s.GetLeaveRequest(context.Background(), "lr1")
	require.NoError(t, err)
	assert.Equal(t, domain.LeaveStatusDenied, updated.Status)
}
