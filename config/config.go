/*
Package config loads the scheduler's AppConfiguration from a YAML file on
disk, grounded on the teacher's timeoff/policies.go pre-built-configuration
pattern: code carries sane defaults, and the file overrides only the
fields it sets, the same way a caller there starts from
StandardPTOPolicy and customizes individual fields afterward.

AVAILABLE
  Default: the in-code AppConfiguration used when no file is supplied or a
           field is left unset in the file.
  Load:    reads a YAML file and merges it field-by-field over Default.

FORMAT
  See spec §6.3 for the full field list. Top level keys:
  monthlySchedulerConfig, yearlySchedulerConfig, coverageRules,
  leavePolicy, holidays.
*/
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/neurosurgery/scheduler/domain"
)

// Default returns the baked-in configuration used when no override file
// is supplied, or when a section is absent from it.
func Default() domain.AppConfiguration {
	return domain.AppConfiguration{
		MonthlyScheduler: domain.MonthlySchedulerConfig{
			ParoHardCaps: []domain.ParoHardCapRule{
				{MinDays: 1, MaxDays: 31, Calls: 8},
			},
			CallRatios:             map[int]int{2: 5, 3: 4, 4: 3, 5: 3},
			MaxWeekendsPerRotation: 2,
			WeekendDefinition:      []string{"Fri", "Sat", "Sun"},
		},
		YearlyScheduler: domain.YearlySchedulerConfig{
			MandatoryRotations: nil,
			ExamLeave:          nil,
		},
		CoverageRules: nil,
		LeavePolicy: domain.LeavePolicy{
			MinNoticeDays:      14,
			MaxConsecutiveDays: 14,
			AnnualLimit:        20,
		},
		Holidays: nil,
	}
}

// fileConfig mirrors domain.AppConfiguration but every field is optional,
// so Load can tell "absent from the file" apart from "zero value".
type fileConfig struct {
	MonthlyScheduler *struct {
		ParoHardCaps           []domain.ParoHardCapRule `yaml:"paroHardCaps"`
		CallRatios             map[int]int              `yaml:"callRatios"`
		MaxWeekendsPerRotation *int                      `yaml:"maxWeekendsPerRotation"`
		WeekendDefinition      []string                  `yaml:"weekendDefinition"`
	} `yaml:"monthlySchedulerConfig"`
	YearlyScheduler *struct {
		MandatoryRotations []domain.MandatoryRotationRule `yaml:"mandatoryRotations"`
		ExamLeave          []domain.MandatoryRotationRule `yaml:"examLeave"`
	} `yaml:"yearlySchedulerConfig"`
	CoverageRules []domain.CoverageRule `yaml:"coverageRules"`
	LeavePolicy   *struct {
		MinNoticeDays      *int `yaml:"minNoticeDays"`
		MaxConsecutiveDays *int `yaml:"maxConsecutiveDays"`
		AnnualLimit        *int `yaml:"annualLimit"`
	} `yaml:"leavePolicy"`
	Holidays []string `yaml:"holidays"`
}

// Load reads path and merges it field-by-field over Default(). A missing
// file is not an error: Default() is returned unchanged, matching the
// teacher's convenience-constructor-first, customize-after posture.
func Load(path string) (domain.AppConfiguration, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return domain.AppConfiguration{}, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return domain.AppConfiguration{}, err
	}

	applyOverrides(&cfg, fc)
	return cfg, nil
}

func applyOverrides(cfg *domain.AppConfiguration, fc fileConfig) {
	if fc.MonthlyScheduler != nil {
		if fc.MonthlyScheduler.ParoHardCaps != nil {
			cfg.MonthlyScheduler.ParoHardCaps = fc.MonthlyScheduler.ParoHardCaps
		}
		if fc.MonthlyScheduler.CallRatios != nil {
			cfg.MonthlyScheduler.CallRatios = fc.MonthlyScheduler.CallRatios
		}
		if fc.MonthlyScheduler.MaxWeekendsPerRotation != nil {
			cfg.MonthlyScheduler.MaxWeekendsPerRotation = *fc.MonthlyScheduler.MaxWeekendsPerRotation
		}
		if fc.MonthlyScheduler.WeekendDefinition != nil {
			cfg.MonthlyScheduler.WeekendDefinition = fc.MonthlyScheduler.WeekendDefinition
		}
	}
	if fc.YearlyScheduler != nil {
		if fc.YearlyScheduler.MandatoryRotations != nil {
			cfg.YearlyScheduler.MandatoryRotations = fc.YearlyScheduler.MandatoryRotations
		}
		if fc.YearlyScheduler.ExamLeave != nil {
			cfg.YearlyScheduler.ExamLeave = fc.YearlyScheduler.ExamLeave
		}
	}
	if fc.CoverageRules != nil {
		cfg.CoverageRules = fc.CoverageRules
	}
	if fc.LeavePolicy != nil {
		if fc.LeavePolicy.MinNoticeDays != nil {
			cfg.LeavePolicy.MinNoticeDays = *fc.LeavePolicy.MinNoticeDays
		}
		if fc.LeavePolicy.MaxConsecutiveDays != nil {
			cfg.LeavePolicy.MaxConsecutiveDays = *fc.LeavePolicy.MaxConsecutiveDays
		}
		if fc.LeavePolicy.AnnualLimit != nil {
			cfg.LeavePolicy.AnnualLimit = *fc.LeavePolicy.AnnualLimit
		}
	}
	if fc.Holidays != nil {
		cfg.Holidays = fc.Holidays
	}
}
