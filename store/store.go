/*
Package store defines the persistence contract (§6.1) the scheduling
engine and the leave analyzer read and write through. Two implementations
exist: store/memory (tests, grounded on the teacher's generic/store.Memory)
and store/sqlite (production, grounded on the teacher's store/sqlite).
*/
package store

import (
	"context"
	"time"

	"github.com/neurosurgery/scheduler/domain"
)

// MonthlyScheduleMetadata is written alongside a month's assignments
// (§6.1 monthlySchedules/{yyyy-MM}.metadata).
type MonthlyScheduleMetadata struct {
	GeneratedAt    time.Time
	GeneratedBy    string
	StaffingLevel  domain.StaffingLevel
	TotalCalls     int
	UniqueResidents int
	Version        int
}

// MonthlySchedule is the persisted document for one calendar month.
type MonthlySchedule struct {
	ID          string // "YYYY-MM"
	Year        int
	Month       time.Month
	Assignments []domain.CallAssignment
	Metadata    MonthlyScheduleMetadata
	Published   bool
}

// ClinicalEntry is one OR/clinic schedule slot used by the analyzer's
// schedule-conflict check.
type ClinicalEntry struct {
	ResidentID  domain.ResidentID
	Date        string // "YYYY-MM-DD"
	Type        domain.ConflictType // ConflictOR or ConflictClinic
	Description string
}

// Store is the full persistence contract. Every method is safe to call
// concurrently; WithTx is the only way to get atomicity across more than
// one write.
type Store interface {
	GetResident(ctx context.Context, id domain.ResidentID) (domain.Resident, error)
	ListResidents(ctx context.Context) ([]domain.Resident, error)

	GetConfiguration(ctx context.Context) (domain.AppConfiguration, error)

	GetAcademicYear(ctx context.Context, yearID string) (domain.AcademicYear, error)
	PutAcademicYear(ctx context.Context, year domain.AcademicYear) error

	GetMonthlySchedule(ctx context.Context, monthID string) (MonthlySchedule, bool, error)
	PutMonthlySchedule(ctx context.Context, schedule MonthlySchedule, forceRegenerate bool) error

	ListCallAssignmentsInRange(ctx context.Context, startDate, endDate string) ([]domain.CallAssignment, error)
	ListClinicalEntriesInRange(ctx context.Context, startDate, endDate string) ([]ClinicalEntry, error)

	ListApprovedLeaveInRange(ctx context.Context, startDate, endDate string) ([]domain.LeaveRequest, error)
	ListLeaveRequestsForResident(ctx context.Context, residentID domain.ResidentID, sinceDate string) ([]domain.LeaveRequest, error)
	GetLeaveRequest(ctx context.Context, id domain.LeaveRequestID) (domain.LeaveRequest, error)
	UpdateLeaveRequestStatus(ctx context.Context, id domain.LeaveRequestID, status domain.LeaveStatus, reportID string) error
	PutLeaveAnalysisReport(ctx context.Context, report domain.LeaveAnalysisReport) error

	// WithTx runs fn with a Store scoped to a single transaction: either
	// every write fn makes through it commits, or (on a non-nil return)
	// none of them are visible.
	WithTx(ctx context.Context, fn func(Store) error) error
}
