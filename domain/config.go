package domain

// StaffingLevel is a closed enumeration of whether PGY-ratio targets apply
// on top of the PARO hard cap (Normal) or are relaxed (Shortage).
type StaffingLevel string

const (
	StaffingNormal   StaffingLevel = "Normal"
	StaffingShortage StaffingLevel = "Shortage"
)

// ParoHardCapRule is one bracket of config.monthlySchedulerConfig.paroHardCaps:
// the maximum calls allowed for a block whose working-day count W falls in
// [MinDays, MaxDays].
type ParoHardCapRule struct {
	MinDays int
	MaxDays int
	Calls   int
}

// MandatoryRotationRule places every resident at a PGY level in
// PGYLevels onto BlockNumber with RotationName, during yearly phase 1/2.
type MandatoryRotationRule struct {
	BlockNumber  int
	PGYLevels    []int
	RotationName string
}

// CoverageRuleKind is a closed enumeration of the two coverage-rule shapes
// evaluated during yearly validation (§4.3 phase 7).
type CoverageRuleKind string

const (
	CoverageRuleSpecialty       CoverageRuleKind = "SPECIALTY"
	CoverageRuleSpecialtyPGYMin CoverageRuleKind = "SPECIALTY_PGY_MIN"
)

// CoverageRule is one enabled rule checked against each block's CORE_NSX
// roster plus overlapping external rotators.
type CoverageRule struct {
	ID          string
	Kind        CoverageRuleKind
	BlockNumber int // 0 = every block
	Specialty   string
	MinPGYLevel int // only used by CoverageRuleSpecialtyPGYMin
	MinCount    int
	Enabled     bool
}

// LeavePolicy is config.leavePolicy.
type LeavePolicy struct {
	MinNoticeDays      int
	MaxConsecutiveDays int
	AnnualLimit        int
}

// MonthlySchedulerConfig is config.monthlySchedulerConfig.
type MonthlySchedulerConfig struct {
	ParoHardCaps           []ParoHardCapRule
	CallRatios             map[int]int // pgyLevel -> ratio
	MaxWeekendsPerRotation int
	WeekendDefinition      []string
}

// YearlySchedulerConfig is config.yearlySchedulerConfig.
type YearlySchedulerConfig struct {
	MandatoryRotations []MandatoryRotationRule
	ExamLeave          []MandatoryRotationRule
}

// AppConfiguration is the read-only-per-run configuration singleton.
type AppConfiguration struct {
	MonthlyScheduler MonthlySchedulerConfig
	YearlyScheduler  YearlySchedulerConfig
	CoverageRules    []CoverageRule
	LeavePolicy      LeavePolicy
	Holidays         []string // "YYYY-MM-DD"
}

// ParoCapFor returns the paroCap bracket matching W, defaulting to 8 per
// §4.1.1 when no configured bracket matches.
func (c MonthlySchedulerConfig) ParoCapFor(workingDays int) int {
	for _, rule := range c.ParoHardCaps {
		if workingDays >= rule.MinDays && workingDays <= rule.MaxDays {
			return rule.Calls
		}
	}
	return 8
}
