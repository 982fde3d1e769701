/*
Package domain holds the entities and closed enumerations the scheduling
engine operates on: residents, rotations, academic years, call
assignments, leave requests, and the configuration they all read.

Every closed enumeration in this package (RotationType, CallType,
LeaveStatus, Team, StaffingLevel, RiskLevel, Recommendation) is modeled as
a typed string constant with exhaustive switch handling at every use site,
rather than a registry or interface hierarchy — the set of values is fixed
by hospital policy, not extensible at runtime.
*/
package domain

import "github.com/neurosurgery/scheduler/calendar"

// ResidentID identifies a Resident. Typed to prevent mixing with other id
// kinds at call sites.
type ResidentID string

// Resident is immutable for the duration of any single engine run.
type Resident struct {
	ID                ResidentID
	Name              string
	PGYLevel          int
	Specialty         string
	OnService         bool
	IsChief           bool
	CallExempt        bool
	AnnualLeaveQuota  int
}

// Eligible reports whether the resident is part of the call pool at all,
// independent of any particular day or rule — chiefs who are exempt from
// call, and residents not currently on service, never take call.
func (r Resident) Eligible() bool {
	if !r.OnService {
		return false
	}
	if r.IsChief && r.CallExempt {
		return false
	}
	return true
}

// ExternalRotatorID identifies an ExternalRotator.
type ExternalRotatorID string

// ExternalRotator is a resident visiting from another program, counted
// only as coverage augmentation in yearly validation — never scheduled
// for call by this engine.
type ExternalRotator struct {
	ID        ExternalRotatorID
	StartDate calendar.Date
	EndDate   calendar.Date
}
