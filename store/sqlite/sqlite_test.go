package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurosurgery/scheduler/calendar"
	"github.com/neurosurgery/scheduler/domain"
	"github.com/neurosurgery/scheduler/schederr"
	"github.com/neurosurgery/scheduler/store"
	"github.com/neurosurgery/scheduler/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetResident_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetResident(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, schederr.KindNotFound, schederr.KindOf(err))
}

func TestGetConfiguration_RoundTrips(t *testing.T) {
	s := newTestStore(t)
	cfg := domain.AppConfiguration{LeavePolicy: domain.LeavePolicy{AnnualLimit: 25}}
	require.NoError(t, s.PutConfiguration(context.Background(), cfg))

	got, err := s.GetConfiguration(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25, got.LeavePolicy.AnnualLimit)
}

func TestPutAcademicYear_RejectsDuplicateID(t *testing.T) {
	s := newTestStore(t)
	year := domain.AcademicYear{ID: "2026-2027"}
	require.NoError(t, s.PutAcademicYear(context.Background(), year))

	err := s.PutAcademicYear(context.Background(), year)
	assert.Equal(t, schederr.KindConflict, schederr.KindOf(err))
}

func TestGetAcademicYear_RoundTripsBlocks(t *testing.T) {
	s := newTestStore(t)
	year := domain.AcademicYear{
		ID: "2026-2027",
		Blocks: []domain.RotationBlock{
			{BlockNumber: 1, Assignments: []domain.RotationAssignment{
				{ResidentID: "r1", RotationType: domain.RotationCoreNSX},
			}},
		},
	}
	require.NoError(t, s.PutAcademicYear(context.Background(), year))

	got, err := s.GetAcademicYear(context.Background(), "2026-2027")
	require.NoError(t, err)
	require.Len(t, got.Blocks, 1)
	assert.Equal(t, domain.RotationCoreNSX, got.Blocks[0].Assignments[0].RotationType)
}

func TestPutMonthlySchedule_ConflictsWithoutForceRegenerate(t *testing.T) {
	s := newTestStore(t)
	sched := store.MonthlySchedule{ID: "2026-03", Year: 2026, Month: 3}
	require.NoError(t, s.PutMonthlySchedule(context.Background(), sched, false))

	err := s.PutMonthlySchedule(context.Background(), sched, false)
	assert.Equal(t, schederr.KindConflict, schederr.KindOf(err))

	require.NoError(t, s.PutMonthlySchedule(context.Background(), sched, true))
}

func TestPutMonthlySchedule_PersistsAssignmentsQueryableByRange(t *testing.T) {
	s := newTestStore(t)
	sched := store.MonthlySchedule{
		ID: "2026-03", Year: 2026, Month: 3,
		Assignments: []domain.CallAssignment{
			{ID: "ca1", ResidentID: "r1", Date: mustDate(t, "2026-03-05"), Type: domain.CallNight, Status: domain.CallStatusScheduled},
		},
	}
	require.NoError(t, s.PutMonthlySchedule(context.Background(), sched, false))

	got, err := s.ListCallAssignmentsInRange(context.Background(), "2026-03-01", "2026-03-31")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.ResidentID("r1"), got[0].ResidentID)
}

func TestPutCallAssignment_RejectsDuplicateScheduledDay(t *testing.T) {
	s := newTestStore(t)
	sched := store.MonthlySchedule{
		ID: "2026-03", Year: 2026, Month: 3,
		Assignments: []domain.CallAssignment{
			{ID: "ca1", ResidentID: "r1", Date: mustDate(t, "2026-03-05"), Type: domain.CallNight, Status: domain.CallStatusScheduled},
			{ID: "ca2", ResidentID: "r1", Date: mustDate(t, "2026-03-05"), Type: domain.CallWeekend, Status: domain.CallStatusScheduled},
		},
	}
	err := s.PutMonthlySchedule(context.Background(), sched, false)
	assert.Equal(t, schederr.KindConflict, schederr.KindOf(err))
}

func TestPutResident_RoundTrips(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.PutResident(context.Background(), domain.Resident{
		ID: "r1", Name: "Dr. Lin", PGYLevel: 3, Specialty: "neurosurgery", OnService: true,
	}))

	r, err := s.GetResident(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Lin", r.Name)
	assert.True(t, r.OnService)
}

func TestUpdateLeaveRequestStatus_SetsStatusAndReportID(t *testing.T) {
	s := newTestStore(t)
	seedLeaveRequest(t, s, domain.LeaveRequest{ID: "lr1", ResidentID: "r1", Status: domain.LeaveStatusPendingAnalysis})

	require.NoError(t, s.UpdateLeaveRequestStatus(context.Background(), "lr1", domain.LeaveStatusApproved, "report-lr1"))

	updated, err := s.GetLeaveRequest(context.Background(), "lr1")
	require.NoError(t, err)
	assert.Equal(t, domain.LeaveStatusApproved, updated.Status)
	assert.Equal(t, "report-lr1", updated.AnalysisReportID)
}

func TestUpdateLeaveRequestStatus_NotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.UpdateLeaveRequestStatus(context.Background(), "missing", domain.LeaveStatusApproved, "")
	assert.Equal(t, schederr.KindNotFound, schederr.KindOf(err))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	seedLeaveRequest(t, s, domain.LeaveRequest{ID: "lr1", ResidentID: "r1", Status: domain.LeaveStatusPendingAnalysis})

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
	s := newTestStore(t)
	seedLeaveRequest(t, s, domain.LeaveRequest{ID: "lr1", ResidentID: "r1", Status: domain.LeaveStatusPendingAnalysis})

	err := s.WithTx(context.Background(), func(tx store.Store) error {
		return tx.UpdateLeaveRequestStatus(context.Background(), "lr1", domain.LeaveStatusDenied, "")
	})
	require.NoError(t, err)

	updated, err := s.GetLeaveRequest(context.Background(), "lr1")
	require.NoError(t, err)
	assert.Equal(t, domain.LeaveStatusDenied, updated.Status)
}

func mustDate(t *testing.T, s string) calendar.Date {
	t.Helper()
	d, err := calendar.ParseDate(s)
	require.NoError(t, err)
	return d
}

func seedLeaveRequest(t *testing.T, s *sqlite.Store, r domain.LeaveRequest) {
	t.Helper()
	if r.StartDate.IsZero() {
		r.StartDate = mustDate(t, "2026-01-01")
	}
	if r.EndDate.IsZero() {
		r.EndDate = mustDate(t, "2026-01-02")
	}
	require.NoError(t, s.PutLeaveRequest(context.Background(), r))
}
