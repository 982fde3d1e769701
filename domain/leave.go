package domain

import (
	"github.com/shopspring/decimal"

	"github.com/neurosurgery/scheduler/calendar"
)

// LeaveType is a closed enumeration of the reasons a resident can request
// leave. Compassionate leave is exempt from the minimum-notice policy
// check (§4.5 Policy compliance).
type LeaveType string

const (
	LeaveVacation     LeaveType = "Vacation"
	LeaveSick         LeaveType = "Sick"
	LeaveConference   LeaveType = "Conference"
	LeaveCompassionate LeaveType = "Compassionate"
	LeaveOther        LeaveType = "Other"
)

// LeaveStatus is a closed enumeration of a LeaveRequest's lifecycle state.
type LeaveStatus string

const (
	LeaveStatusPendingAnalysis LeaveStatus = "Pending Analysis"
	LeaveStatusPendingApproval LeaveStatus = "Pending Approval"
	LeaveStatusApproved        LeaveStatus = "Approved"
	LeaveStatusDenied          LeaveStatus = "Denied"
	LeaveStatusFlagged         LeaveStatus = "Flagged for Review"
	LeaveStatusAnalysisFailed  LeaveStatus = "Analysis Failed"
)

// LeaveRequestID identifies a LeaveRequest.
type LeaveRequestID string

// LeaveRequest is created externally with status Pending Analysis; the
// Analyzer transitions it exactly once (spec §3 Lifecycles).
type LeaveRequest struct {
	ID               LeaveRequestID
	ResidentID       ResidentID
	Type             LeaveType
	Status           LeaveStatus
	StartDate        calendar.Date
	EndDate          calendar.Date
	AnalysisReportID string // empty until analyzed
}

// Days returns the inclusive length of the request in days.
func (r LeaveRequest) Days() int {
	return calendar.InclusiveDays(r.StartDate, r.EndDate)
}

// Overlaps reports whether the request's range intersects [start,end].
func (r LeaveRequest) Overlaps(start, end calendar.Date) bool {
	return calendar.Overlaps(r.StartDate, r.EndDate, start, end)
}

// RiskLevel is a closed enumeration of coverage-impact severity.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Recommendation is a closed enumeration of the Analyzer's synthesized
// outcome.
type Recommendation string

const (
	RecommendApprove Recommendation = "Approve"
	RecommendDeny    Recommendation = "Deny"
	RecommendFlagged Recommendation = "Flagged for Review"
)

// ConflictType is a closed enumeration of the kind of schedule entry a
// leave request conflicts with.
type ConflictType string

const (
	ConflictCall   ConflictType = "Call"
	ConflictOR     ConflictType = "OR"
	ConflictClinic ConflictType = "Clinic"
)

// ConflictSeverity is a closed enumeration of how serious a schedule
// conflict is.
type ConflictSeverity string

const (
	SeverityHigh   ConflictSeverity = "High"
	SeverityMedium ConflictSeverity = "Medium"
)

// ScheduleConflict is one detected clash between a leave request and an
// existing schedule entry.
type ScheduleConflict struct {
	Type        ConflictType
	Date        calendar.Date
	Description string
	Severity    ConflictSeverity
}

// CoverageImpact is the coverage-risk assessment for a leave request. Ratio
// is a decimal per the engine's numeric policy (§10.3): it feeds directly
// into the Deny/Flagged/Approve recommendation, so it never accumulates
// float64 drift.
type CoverageImpact struct {
	TotalResidents     int
	OverlappingLeave   int
	AvailableResidents int
	Ratio              decimal.Decimal
	RiskLevel          RiskLevel
}

// FairnessAssessment is the fairness score and its inputs for a leave
// request.
type FairnessAssessment struct {
	RecentDaysOff  int
	HistoricalRate decimal.Decimal
	PeerComparison decimal.Decimal
	Score          decimal.Decimal
}

// PolicyCompliance is the additive list of policy violations for a leave
// request.
type PolicyCompliance struct {
	Violations []string
}

func (p PolicyCompliance) Compliant() bool { return len(p.Violations) == 0 }

// AlternativeDateRange is one suggested alternative period returned when
// the request is not recommended for approval.
type AlternativeDateRange struct {
	StartDate calendar.Date
	EndDate   calendar.Date
	Ratio     decimal.Decimal
}

// LeaveAnalysisReportID identifies a LeaveAnalysisReport.
type LeaveAnalysisReportID string

// LeaveAnalysisReport is the write-once output of the Leave-Request
// Analyzer for one LeaveRequest.
type LeaveAnalysisReport struct {
	ID                LeaveAnalysisReportID
	RequestID         LeaveRequestID
	Coverage          CoverageImpact
	Fairness          FairnessAssessment
	Conflicts         []ScheduleConflict
	PolicyCompliance  PolicyCompliance
	AlternativeDates  []AlternativeDateRange
	Recommendation    Recommendation
	Justification     string
}
