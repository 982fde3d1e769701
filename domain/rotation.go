package domain

import (
	"time"

	"github.com/neurosurgery/scheduler/calendar"
)

// RotationType is a closed enumeration of the kinds of block assignment a
// resident can hold.
type RotationType string

const (
	RotationCoreNSX          RotationType = "CORE_NSX"
	RotationMandatoryOff     RotationType = "MANDATORY_OFF_SERVICE"
	RotationExamLeave        RotationType = "EXAM_LEAVE"
	RotationHolidayLeave     RotationType = "HOLIDAY_LEAVE"
	RotationFlexible         RotationType = "FLEXIBLE"
)

// Team is a closed enumeration of the two call teams a CORE_NSX resident
// can be balanced onto.
type Team string

const (
	TeamRed  Team = "Red"
	TeamBlue Team = "Blue"
)

// HolidayType distinguishes which competitive holiday block a
// HOLIDAY_LEAVE assignment covers.
type HolidayType string

const (
	HolidayChristmas HolidayType = "Christmas"
	HolidayNewYear   HolidayType = "NewYear"
)

// RotationAssignment is one resident's assignment for one block. There is
// at most one per (block, resident) pair — Invariant 1.
type RotationAssignment struct {
	ResidentID   ResidentID
	RotationName string
	RotationType RotationType
	Team         Team // empty if not applicable
	HolidayType  HolidayType // empty unless RotationType == RotationHolidayLeave
}

// RotationBlock is one of the 13 fixed 28-day blocks in an academic year.
type RotationBlock struct {
	BlockNumber int
	StartDate   calendar.Date
	EndDate     calendar.Date
	Assignments []RotationAssignment
}

// AssignmentFor returns the assignment for residentID in this block, and
// whether one exists.
func (b RotationBlock) AssignmentFor(residentID ResidentID) (RotationAssignment, bool) {
	for _, a := range b.Assignments {
		if a.ResidentID == residentID {
			return a, true
		}
	}
	return RotationAssignment{}, false
}

// CoverageViolation records a single coverage-rule failure discovered
// during yearly validation (§4.3 phase 7). It is informational — it never
// aborts generation.
type CoverageViolation struct {
	BlockNumber int
	RuleID      string
	Message     string
}

// AcademicYearMetadata carries bookkeeping written once alongside the
// generated blocks.
type AcademicYearMetadata struct {
	GeneratedAt time.Time
}

// AcademicYear is the write-once output of the Yearly Rotation Engine.
type AcademicYear struct {
	ID         string // "YYYY-YYYY"
	Blocks     []RotationBlock
	Violations []CoverageViolation
	Metadata   AcademicYearMetadata
}

// BlockAt returns the block containing d, and whether one was found.
func (y AcademicYear) BlockAt(d calendar.Date) (RotationBlock, bool) {
	for _, b := range y.Blocks {
		if d.InRange(b.StartDate, b.EndDate) {
			return b, true
		}
	}
	return RotationBlock{}, false
}
