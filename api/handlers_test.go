package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurosurgery/scheduler/analyzer"
	"github.com/neurosurgery/scheduler/api"
	"github.com/neurosurgery/scheduler/calendar"
	"github.com/neurosurgery/scheduler/domain"
	"github.com/neurosurgery/scheduler/monthly"
	"github.com/neurosurgery/scheduler/store/memory"
	"github.com/neurosurgery/scheduler/weekly"
	"github.com/neurosurgery/scheduler/yearly"
)

func newTestHandler(t *testing.T) (*api.Handler, *memory.Store) {
	t.Helper()
	s := memory.New()
	s.SeedConfiguration(domain.AppConfiguration{
		MonthlyScheduler: domain.MonthlySchedulerConfig{
			ParoHardCaps:           []domain.ParoHardCapRule{{MinDays: 1, MaxDays: 31, Calls: 31}},
			CallRatios:             map[int]int{3: 1},
			MaxWeekendsPerRotation: 10,
		},
		LeavePolicy: domain.LeavePolicy{MinNoticeDays: 14, MaxConsecutiveDays: 14, AnnualLimit: 20},
	})
	h := &api.Handler{
		Store:    s,
		Yearly:   yearly.New(nil),
		Monthly:  monthly.New(nil),
		Weekly:   weekly.New(nil),
		Analyzer: analyzer.Analyzer{Store: s},
	}
	return h, s
}

func doRequest(t *testing.T, h *api.Handler, method, path string, body any, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	router := api.NewRouter(h, nil)

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if admin {
		req.Header.Set("X-Admin-Token", "test-token")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGenerateYearlySchedule_RequiresAdmin(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := doRequest(t, h, http.MethodPost, "/api/schedules/yearly", map[string]any{}, false)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGenerateYearlySchedule_HappyPath(t *testing.T) {
	h, _ := newTestHandler(t)
	body := map[string]any{
		"academicYearId": "2026-2027",
		"residents": []map[string]any{
			{"id": "r1", "pgyLevel": 2},
			{"id": "r2", "pgyLevel": 3},
		},
	}
	rec := doRequest(t, h, http.MethodPost, "/api/schedules/yearly", body, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp api.GenerateYearlyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.AcademicYear.Blocks, calendar.BlocksPerYear)
}

func TestGenerateYearlySchedule_RejectsMissingAcademicYearID(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := doRequest(t, h, http.MethodPost, "/api/schedules/yearly", map[string]any{"residents": []map[string]any{{"id": "r1"}}}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateMonthlySchedule_HappyPath(t *testing.T) {
	h, s := newTestHandler(t)
	start := calendar.NewDate(2026, time.March, 1)
	end := calendar.NewDate(2026, time.March, 31)
	s.SeedResidents(domain.Resident{ID: "r1", PGYLevel: 3, OnService: true})
	require.NoError(t, s.PutAcademicYear(context.Background(), domain.AcademicYear{
		ID: "2025-2026",
		Blocks: []domain.RotationBlock{
			{BlockNumber: 1, StartDate: start, EndDate: end, Assignments: []domain.RotationAssignment{
				{ResidentID: "r1", RotationType: domain.RotationCoreNSX},
			}},
		},
	}))

	body := map[string]any{"year": 2026, "month": 3}
	rec := doRequest(t, h, http.MethodPost, "/api/schedules/monthly", body, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp api.GenerateMonthlyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2026-03", resp.ScheduleID)
}

func TestGenerateMonthlySchedule_RejectsInvalidMonth(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := doRequest(t, h, http.MethodPost, "/api/schedules/monthly", map[string]any{"year": 2026, "month": 13}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateWeeklySchedule_HappyPath(t *testing.T) {
	h, _ := newTestHandler(t)
	body := map[string]any{
		"weekStartDate": "2026-03-02",
		"residents":     []map[string]any{{"id": "r1", "pgyLevel": 3, "onService": true}},
	}
	rec := doRequest(t, h, http.MethodPost, "/api/schedules/weekly", body, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp api.GenerateWeeklyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Days, 7)
}

func TestGenerateWeeklySchedule_RejectsMalformedDate(t *testing.T) {
	h, _ := newTestHandler(t)
	body := map[string]any{"weekStartDate": "not-a-date", "residents": []map[string]any{{"id": "r1"}}}
	rec := doRequest(t, h, http.MethodPost, "/api/schedules/weekly", body, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeLeaveRequest_NotFound(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := doRequest(t, h, http.MethodPost, "/api/leave-requests/missing/analyze", nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyzeLeaveRequest_HappyPath(t *testing.T) {
	h, s := newTestHandler(t)
	s.SeedResidents(
		domain.Resident{ID: "r1", PGYLevel: 3, OnService: true, Specialty: "neurosurgery"},
		domain.Resident{ID: "r2", PGYLevel: 3, OnService: true, Specialty: "neurosurgery"},
		domain.Resident{ID: "r3", PGYLevel: 3, OnService: true, Specialty: "neurosurgery"},
	)
	s.SeedLeaveRequest(domain.LeaveRequest{
		ID: "lr1", ResidentID: "r1", Type: domain.LeaveVacation, Status: domain.LeaveStatusPendingAnalysis,
		StartDate: calendar.NewDate(2030, time.January, 7), EndDate: calendar.NewDate(2030, time.January, 9),
	})

	rec := doRequest(t, h, http.MethodPost, "/api/leave-requests/lr1/analyze", nil, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp api.AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.LeaveRequestID("lr1"), resp.Report.RequestID)
}
