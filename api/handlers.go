/*
handlers.go - RPC trigger surface handlers (§6.2)

ENDPOINTS:
  POST /api/schedules/yearly              generateYearlySchedule
  POST /api/schedules/monthly             generateMonthlySchedule
  POST /api/schedules/weekly              generateWeeklySchedule
  POST /api/leave-requests/{id}/analyze   analyzeLeaveRequest

ARCHITECTURE:
  Each handler does nothing but decode the request body, build a Principal
  from a header (the three generation handlers; AnalyzeLeaveRequest makes
  no admin check), call the matching engine package, and write a structured
  JSON response via writeJSON/writeError. All generation state (residents,
  configuration, academic year, existing assignments) needed by a pure
  engine call is assembled here from the Store first, since the engine
  packages themselves never import store.

REQUEST FLOW:
  decode -> authorize (Principal.IsAdmin; generation only) -> gather inputs from Store ->
  call engine -> persist (yearly/monthly only) -> writeJSON

ERROR HANDLING:
  Errors returned by an engine package or the store are classified with
  schederr.KindOf; one that is not a *schederr.Error (e.g. a raw database
  or context error) counts as internal. statusFor maps the Kind to an HTTP status the way the teacher's writeError
  call sites map generic errors, except centralized in one place instead of
  repeated per handler.

SECURITY NOTE:
  Principal.IsAdmin is read from the X-Admin-Token header with no real
  authentication behind it. See server.go's SECURITY NOTE.
*/
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/neurosurgery/scheduler/analyzer"
	"github.com/neurosurgery/scheduler/calendar"
	"github.com/neurosurgery/scheduler/domain"
	"github.com/neurosurgery/scheduler/monthly"
	"github.com/neurosurgery/scheduler/schederr"
	"github.com/neurosurgery/scheduler/store"
	"github.com/neurosurgery/scheduler/weekly"
	"github.com/neurosurgery/scheduler/yearly"
)

// Handler holds the engine packages and the store every RPC handler reads
// and writes through.
type Handler struct {
	Store    store.Store
	Yearly   *yearly.Engine
	Monthly  *monthly.Scheduler
	Weekly   *weekly.Scheduler
	Analyzer analyzer.Analyzer
	Logger   *log.Logger
}

func (h *Handler) logger() *log.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return log.Default()
}

// Principal is the caller-is-admin authorization check §6.2 requires of
// every generation operation. There is no authentication provider behind
// it; see server.go's SECURITY NOTE.
type Principal struct {
	IsAdmin bool
}

func principalFromRequest(r *http.Request) Principal {
	return Principal{IsAdmin: r.Header.Get("X-Admin-Token") != ""}
}

// GenerateYearlySchedule handles POST /api/schedules/yearly.
func (h *Handler) GenerateYearlySchedule(w http.ResponseWriter, r *http.Request) {
	if !principalFromRequest(r).IsAdmin {
		writeError(w, http.StatusForbidden, "admin privileges required", nil)
		return
	}

	var req GenerateYearlyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.AcademicYearID == "" {
		writeError(w, http.StatusBadRequest, "academicYearId is required", nil)
		return
	}

	firstCalendarYear, err := yearly.ParseAcademicYearID(req.AcademicYearID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid academicYearId", err)
		return
	}

	residents := make([]domain.Resident, len(req.Residents))
	for i, d := range req.Residents {
		residents[i] = d.toDomain()
	}

	rotators, err := toExternalRotators(req.ExternalRotators)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid externalRotators", err)
		return
	}

	config, err := h.Store.GetConfiguration(r.Context())
	if err != nil {
		writeErrorFromErr(w, "failed to load configuration", err)
		return
	}

	year, err := h.Yearly.Generate(r.Context(), req.AcademicYearID, firstCalendarYear, residents, rotators, config)
	if err != nil {
		writeErrorFromErr(w, "yearly generation failed", err)
		return
	}

	if err := h.Store.PutAcademicYear(r.Context(), year); err != nil {
		writeErrorFromErr(w, "failed to persist academic year", err)
		return
	}

	writeJSON(w, http.StatusOK, GenerateYearlyResponse{AcademicYear: year})
}

// GenerateMonthlySchedule handles POST /api/schedules/monthly.
func (h *Handler) GenerateMonthlySchedule(w http.ResponseWriter, r *http.Request) {
	if !principalFromRequest(r).IsAdmin {
		writeError(w, http.StatusForbidden, "admin privileges required", nil)
		return
	}

	var req GenerateMonthlyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Year == 0 || req.Month < 1 || req.Month > 12 {
		writeError(w, http.StatusBadRequest, "year and month (1..12) are required", nil)
		return
	}
	staffing := domain.StaffingNormal
	if req.StaffingLevel == string(domain.StaffingShortage) {
		staffing = domain.StaffingShortage
	}

	ctx := r.Context()
	month := time.Month(req.Month)
	monthStart := calendar.NewDate(req.Year, month, 1)
	monthEnd := calendar.EndOfMonth(req.Year, month)

	residents, err := h.Store.ListResidents(ctx)
	if err != nil {
		writeErrorFromErr(w, "failed to list residents", err)
		return
	}
	config, err := h.Store.GetConfiguration(ctx)
	if err != nil {
		writeErrorFromErr(w, "failed to load configuration", err)
		return
	}
	academicYear, err := h.Store.GetAcademicYear(ctx, calendar.DeriveAcademicYearID(monthStart))
	if err != nil {
		writeErrorFromErr(w, "failed to load academic year", err)
		return
	}
	approvedLeave, err := h.Store.ListApprovedLeaveInRange(ctx, monthStart.String(), monthEnd.String())
	if err != nil {
		writeErrorFromErr(w, "failed to list approved leave", err)
		return
	}
	existing, err := h.Store.ListCallAssignmentsInRange(ctx, monthStart.AddDays(-3).String(), monthEnd.String())
	if err != nil {
		writeErrorFromErr(w, "failed to list existing assignments", err)
		return
	}

	result, err := h.Monthly.Generate(ctx, monthly.Input{
		Year:                req.Year,
		Month:               month,
		Residents:           residents,
		AcademicYear:        academicYear,
		ApprovedLeave:       approvedLeave,
		Config:              config,
		Staffing:            staffing,
		ExistingAssignments: existing,
	})
	if err != nil {
		writeErrorFromErr(w, "monthly generation failed", err)
		return
	}

	scheduleID := fmt.Sprintf("%04d-%02d", req.Year, req.Month)
	metadata := store.MonthlyScheduleMetadata{
		GeneratedAt:     time.Now(),
		GeneratedBy:     "api",
		StaffingLevel:   staffing,
		TotalCalls:      len(result.Assignments),
		UniqueResidents: uniqueResidentCount(result.Assignments),
		Version:         1,
	}

	err = h.Store.PutMonthlySchedule(ctx, store.MonthlySchedule{
		ID:          scheduleID,
		Year:        req.Year,
		Month:       month,
		Assignments: result.Assignments,
		Metadata:    metadata,
	}, req.ForceRegenerate)
	if err != nil {
		writeErrorFromErr(w, "failed to persist monthly schedule", err)
		return
	}

	writeJSON(w, http.StatusOK, GenerateMonthlyResponse{
		ScheduleID:  scheduleID,
		Assignments: result.Assignments,
		Metadata: MonthlyMetadataDTO{
			GeneratedAt:     metadata.GeneratedAt,
			GeneratedBy:     metadata.GeneratedBy,
			StaffingLevel:   metadata.StaffingLevel,
			TotalCalls:      metadata.TotalCalls,
			UniqueResidents: metadata.UniqueResidents,
			Version:         metadata.Version,
			CoverageRate:    result.Metrics.CoverageRate.String(),
			Gini:            result.Metrics.Gini.String(),
		},
	})
}

// GenerateWeeklySchedule handles POST /api/schedules/weekly. Unlike the
// yearly and monthly operations it is a pure read: the week's slots and
// existing call assignments arrive in the request body (§6.2 inputs),
// and nothing is persisted back to the store.
func (h *Handler) GenerateWeeklySchedule(w http.ResponseWriter, r *http.Request) {
	if !principalFromRequest(r).IsAdmin {
		writeError(w, http.StatusForbidden, "admin privileges required", nil)
		return
	}

	var req GenerateWeeklyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	weekStart, err := calendar.ParseDate(req.WeekStartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid weekStartDate", err)
		return
	}
	if len(req.Residents) == 0 {
		writeError(w, http.StatusBadRequest, "residents must not be empty", nil)
		return
	}

	ctx := r.Context()
	residents := make([]domain.Resident, len(req.Residents))
	for i, d := range req.Residents {
		residents[i] = d.toDomain()
	}

	config, err := h.Store.GetConfiguration(ctx)
	if err != nil {
		writeErrorFromErr(w, "failed to load configuration", err)
		return
	}
	academicYear, _ := h.Store.GetAcademicYear(ctx, calendar.DeriveAcademicYearID(weekStart))
	approvedLeave, err := h.Store.ListApprovedLeaveInRange(ctx, weekStart.String(), weekStart.AddDays(6).String())
	if err != nil {
		writeErrorFromErr(w, "failed to list approved leave", err)
		return
	}

	result, err := h.Weekly.Generate(ctx, weekly.Input{
		WeekStart:           weekStart,
		Residents:           residents,
		AcademicYear:        academicYear,
		ORSlots:             toClinicalEntries(req.ORSlots, domain.ConflictOR),
		ClinicSlots:         toClinicalEntries(req.ClinicSlots, domain.ConflictClinic),
		ExistingAssignments: req.ExistingAssignments,
		ApprovedLeave:       approvedLeave,
		Config:              config,
	})
	if err != nil {
		writeErrorFromErr(w, "weekly generation failed", err)
		return
	}

	days := make([]DayDTO, len(result.Days))
	for i, d := range result.Days {
		days[i] = DayDTO{
			Date:            d.Date.String(),
			ORSlots:         fromClinicalEntries(d.ORSlots),
			ClinicSlots:     fromClinicalEntries(d.ClinicSlots),
			CallAssignments: d.CallAssignments,
		}
	}

	writeJSON(w, http.StatusOK, GenerateWeeklyResponse{ScheduleID: result.ScheduleID, Days: days})
}

// AnalyzeLeaveRequest handles POST /api/leave-requests/{id}/analyze.
func (h *Handler) AnalyzeLeaveRequest(w http.ResponseWriter, r *http.Request) {
	id := domain.LeaveRequestID(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "leave request id is required", nil)
		return
	}

	report, err := h.Analyzer.Analyze(r.Context(), id)
	if err != nil {
		writeErrorFromErr(w, "leave analysis failed", err)
		return
	}

	writeJSON(w, http.StatusOK, AnalyzeResponse{Report: report})
}

func toExternalRotators(dtos []ExternalRotatorDTO) ([]domain.ExternalRotator, error) {
	rotators := make([]domain.ExternalRotator, len(dtos))
	for i, d := range dtos {
		start, err := calendar.ParseDate(d.StartDate)
		if err != nil {
			return nil, err
		}
		end, err := calendar.ParseDate(d.EndDate)
		if err != nil {
			return nil, err
		}
		rotators[i] = domain.ExternalRotator{ID: domain.ExternalRotatorID(d.ID), StartDate: start, EndDate: end}
	}
	return rotators, nil
}

func toClinicalEntries(slots []SlotDTO, kind domain.ConflictType) []store.ClinicalEntry {
	entries := make([]store.ClinicalEntry, len(slots))
	for i, s := range slots {
		entries[i] = store.ClinicalEntry{
			ResidentID:  domain.ResidentID(s.ResidentID),
			Date:        s.Date,
			Type:        kind,
			Description: s.Description,
		}
	}
	return entries
}

func fromClinicalEntries(entries []store.ClinicalEntry) []SlotDTO {
	slots := make([]SlotDTO, len(entries))
	for i, e := range entries {
		slots[i] = SlotDTO{ResidentID: string(e.ResidentID), Date: e.Date, Description: e.Description}
	}
	return slots
}

func uniqueResidentCount(assignments []domain.CallAssignment) int {
	seen := map[domain.ResidentID]bool{}
	for _, a := range assignments {
		if a.Type != domain.CallPostCall {
			seen[a.ResidentID] = true
		}
	}
	return len(seen)
}

// statusFor maps a schederr.Kind to the HTTP status the teacher's
// writeError call sites would use for the analogous generic error.
func statusFor(kind schederr.Kind) int {
	switch kind {
	case schederr.KindValidation:
		return http.StatusBadRequest
	case schederr.KindPermissionDenied:
		return http.StatusForbidden
	case schederr.KindNotFound:
		return http.StatusNotFound
	case schederr.KindConflict:
		return http.StatusConflict
	case schederr.KindCoverageViolation:
		return http.StatusOK
	case schederr.KindAnalysisFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func writeErrorFromErr(w http.ResponseWriter, message string, err error) {
	writeError(w, statusFor(schederr.KindOf(err)), message, err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
