package domain

import "github.com/neurosurgery/scheduler/calendar"

// CallType is a closed enumeration of the kinds of call assignment.
type CallType string

const (
	CallNight    CallType = "Night"
	CallWeekend  CallType = "Weekend"
	CallHoliday  CallType = "Holiday"
	CallPostCall CallType = "PostCall"
	CallNone     CallType = "None"
)

// Points returns the point value of a call type (§4.2).
func (t CallType) Points() int {
	switch t {
	case CallNight:
		return 1
	case CallWeekend:
		return 2
	case CallHoliday:
		return 3
	case CallPostCall, CallNone:
		return 0
	default:
		return 0
	}
}

// Priority returns the day-requirement priority used to sort the month's
// days before assignment (§4.4 step 3): Holiday > Weekend > Night > None.
func (t CallType) Priority() int {
	switch t {
	case CallHoliday:
		return 3
	case CallWeekend:
		return 2
	case CallNight:
		return 1
	default:
		return 0
	}
}

// RequiredCoverage returns how many residents must be assigned for a day
// of this call type (§4.4 step 2).
func (t CallType) RequiredCoverage() int {
	switch t {
	case CallHoliday:
		return 2
	case CallWeekend, CallNight:
		return 1
	default:
		return 0
	}
}

// CallStatus is a closed enumeration of a CallAssignment's lifecycle
// state. The engine writes CallStatusScheduled for calls and
// CallStatusPostCall for post-call entries; later transitions happen
// through external systems (spec §3 Lifecycles).
type CallStatus string

const (
	CallStatusScheduled CallStatus = "Scheduled"
	CallStatusPostCall  CallStatus = "PostCall"
)

// CallAssignmentID identifies a CallAssignment.
type CallAssignmentID string

// CallAssignment is one resident's on-call duty for one calendar day.
// Append-only once written (spec §3 Lifecycles).
type CallAssignment struct {
	ID         CallAssignmentID
	ResidentID ResidentID
	Date       calendar.Date
	Type       CallType
	Points     int
	IsHoliday  bool
	Team       Team // empty if not applicable
	Status     CallStatus
}
