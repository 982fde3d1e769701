/*
dto.go - Data Transfer Objects for the RPC trigger surface.

NAMING CONVENTION:
  - *Request: request body types from callers
  - *Response: response wrappers returned to callers

VALIDATION:
  Validation happens in handlers, not in DTOs; DTOs are pure data carriers.
*/
package api

import (
	"time"

	"github.com/neurosurgery/scheduler/domain"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// GenerateYearlyRequest is the body of POST /api/schedules/yearly.
type GenerateYearlyRequest struct {
	AcademicYearID    string                   `json:"academicYearId"`
	FirstCalendarYear int                      `json:"firstCalendarYear"`
	Residents         []ResidentDTO            `json:"residents"`
	ExternalRotators  []ExternalRotatorDTO     `json:"externalRotators"`
}

// GenerateYearlyResponse wraps the generated AcademicYear.
type GenerateYearlyResponse struct {
	AcademicYear domain.AcademicYear `json:"academicYear"`
}

// GenerateMonthlyRequest is the body of POST /api/schedules/monthly.
type GenerateMonthlyRequest struct {
	Year            int    `json:"year"`
	Month           int    `json:"month"` // 1..12
	StaffingLevel   string `json:"staffingLevel"`
	ForceRegenerate bool   `json:"forceRegenerate"`
}

// GenerateMonthlyResponse is {scheduleId, assignments[], metadata} per §6.2.
type GenerateMonthlyResponse struct {
	ScheduleID  string                   `json:"scheduleId"`
	Assignments []domain.CallAssignment `json:"assignments"`
	Metadata    MonthlyMetadataDTO       `json:"metadata"`
}

// MonthlyMetadataDTO mirrors store.MonthlyScheduleMetadata for the wire.
type MonthlyMetadataDTO struct {
	GeneratedAt     time.Time            `json:"generatedAt"`
	GeneratedBy     string               `json:"generatedBy"`
	StaffingLevel   domain.StaffingLevel `json:"staffingLevel"`
	TotalCalls      int                  `json:"totalCalls"`
	UniqueResidents int                  `json:"uniqueResidents"`
	Version         int                  `json:"version"`
	CoverageRate    string               `json:"coverageRate"`
	Gini            string               `json:"gini"`
}

// GenerateWeeklyRequest is the body of POST /api/schedules/weekly.
type GenerateWeeklyRequest struct {
	WeekStartDate       string        `json:"weekStartDate"`
	Residents           []ResidentDTO `json:"residents"`
	ORSlots             []SlotDTO     `json:"orSlots"`
	ClinicSlots         []SlotDTO     `json:"clinicSlots"`
	ExistingAssignments []domain.CallAssignment `json:"callAssignments"`
}

// SlotDTO is one OR or clinic commitment on a given day.
type SlotDTO struct {
	ResidentID  string `json:"residentId"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// GenerateWeeklyResponse is {scheduleId, days[]} per §6.2.
type GenerateWeeklyResponse struct {
	ScheduleID string      `json:"scheduleId"`
	Days       []DayDTO    `json:"days"`
}

// DayDTO mirrors weekly.DaySchedule for the wire.
type DayDTO struct {
	Date            string                   `json:"date"`
	ORSlots         []SlotDTO                `json:"orSlots"`
	ClinicSlots     []SlotDTO                `json:"clinicSlots"`
	CallAssignments []domain.CallAssignment `json:"callAssignments"`
}

// AnalyzeResponse wraps the synthesized report.
type AnalyzeResponse struct {
	Report domain.LeaveAnalysisReport `json:"report"`
}

// ResidentDTO mirrors domain.Resident for the wire.
type ResidentDTO struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	PGYLevel         int    `json:"pgyLevel"`
	Specialty        string `json:"specialty"`
	OnService        bool   `json:"onService"`
	IsChief          bool   `json:"isChief"`
	CallExempt       bool   `json:"callExempt"`
	AnnualLeaveQuota int    `json:"annualLeaveQuota"`
}

func (d ResidentDTO) toDomain() domain.Resident {
	return domain.Resident{
		ID:               domain.ResidentID(d.ID),
		Name:             d.Name,
		PGYLevel:         d.PGYLevel,
		Specialty:        d.Specialty,
		OnService:        d.OnService,
		IsChief:          d.IsChief,
		CallExempt:       d.CallExempt,
		AnnualLeaveQuota: d.AnnualLeaveQuota,
	}
}

// ExternalRotatorDTO mirrors domain.ExternalRotator for the wire.
type ExternalRotatorDTO struct {
	ID        string `json:"id"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}
