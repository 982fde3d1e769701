/*
Package yearly implements the Yearly Rotation Engine: an 8-phase,
strictly-ordered placement of rotation assignments onto a 13-block,
N-resident grid, followed by non-fatal coverage validation.

The engine is a value, constructed per request and discarded after use —
there is no package-level mutable state (spec §9).
*/
package yearly

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/neurosurgery/scheduler/calendar"
	"github.com/neurosurgery/scheduler/domain"
	"github.com/neurosurgery/scheduler/schederr"
)

// Engine generates an AcademicYear from a fixed set of inputs.
type Engine struct {
	Logger *log.Logger
}

// New constructs an Engine. Logger may be nil.
func New(logger *log.Logger) *Engine {
	return &Engine{Logger: logger}
}

func (e *Engine) logger() *log.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return log.New(discardWriter{}, "", 0)
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// grid is a 13 x N matrix of optional assignments, indexed by block
// number (1-based, slot 0 unused) and resident id.
type grid struct {
	cells [calendar.BlocksPerYear + 1]map[domain.ResidentID]domain.RotationAssignment
}

func newGrid() *grid {
	g := &grid{}
	for i := range g.cells {
		g.cells[i] = map[domain.ResidentID]domain.RotationAssignment{}
	}
	return g
}

func (g *grid) get(block int, resident domain.ResidentID) (domain.RotationAssignment, bool) {
	a, ok := g.cells[block][resident]
	return a, ok
}

func (g *grid) setIfEmpty(block int, resident domain.ResidentID, a domain.RotationAssignment) bool {
	if _, exists := g.cells[block][resident]; exists {
		return false
	}
	g.cells[block][resident] = a
	return true
}

// Generate produces an AcademicYear for residents over 13 blocks starting
// July 1 of firstCalendarYear, identified by academicYearID (accepted
// explicitly per the spec's Open Question decision — never derived from a
// date inside the engine).
func (e *Engine) Generate(ctx context.Context, academicYearID string, firstCalendarYear int, residents []domain.Resident, externalRotators []domain.ExternalRotator, config domain.AppConfiguration) (domain.AcademicYear, error) {
	if len(residents) == 0 {
		return domain.AcademicYear{}, schederr.Validation("yearly: residents must not be empty")
	}

	sorted := make([]domain.Resident, len(residents))
	copy(sorted, residents)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	yearStart := calendar.AcademicYearStart(firstCalendarYear)
	g := newGrid()

	phases := []func(context.Context, *grid, []domain.Resident, []domain.ExternalRotator, domain.AppConfiguration, calendar.Date) error{
		e.phasePlaceExternalRotators,
		e.phaseMandatoryOffService,
		e.phaseExamLeave,
		e.phaseHolidayLeave,
		e.phaseCoreFill,
		e.phaseFlexible,
		e.phaseTeamBalancing,
	}

	for i, phase := range phases {
		if err := ctx.Err(); err != nil {
			return domain.AcademicYear{}, err
		}
		if err := phase(ctx, g, sorted, externalRotators, config, yearStart); err != nil {
			return domain.AcademicYear{}, schederr.Internal(fmt.Sprintf("yearly: phase %d failed", i), err)
		}
	}

	blocks := make([]domain.RotationBlock, 0, calendar.BlocksPerYear)
	for b := 1; b <= calendar.BlocksPerYear; b++ {
		start, end := calendar.BlockRange(yearStart, b)
		assignments := make([]domain.RotationAssignment, 0, len(sorted))
		for _, r := range sorted {
			if a, ok := g.get(b, r.ID); ok {
				assignments = append(assignments, a)
			}
		}
		blocks = append(blocks, domain.RotationBlock{
			BlockNumber: b,
			StartDate:   start,
			EndDate:     end,
			Assignments: assignments,
		})
	}

	residentsByID := make(map[domain.ResidentID]domain.Resident, len(sorted))
	for _, r := range sorted {
		residentsByID[r.ID] = r
	}

	year := domain.AcademicYear{ID: academicYearID, Blocks: blocks}
	year.Violations = e.validate(blocks, externalRotators, config, residentsByID)
	for _, v := range year.Violations {
		e.logger().Printf("warn: coverage violation in %s: %s", academicYearID, v.Message)
	}
	return year, nil
}

// phasePlaceExternalRotators consumes no grid cells; external rotators
// are only used later for coverage validation (phase 7).
func (e *Engine) phasePlaceExternalRotators(_ context.Context, _ *grid, _ []domain.Resident, _ []domain.ExternalRotator, _ domain.AppConfiguration, _ calendar.Date) error {
	return nil
}

func (e *Engine) applyMandatoryRules(g *grid, residents []domain.Resident, rules []domain.MandatoryRotationRule, rotationType domain.RotationType) {
	for _, rule := range rules {
		levels := map[int]bool{}
		for _, l := range rule.PGYLevels {
			levels[l] = true
		}
		for _, r := range residents {
			if !levels[r.PGYLevel] {
				continue
			}
			g.setIfEmpty(rule.BlockNumber, r.ID, domain.RotationAssignment{
				ResidentID:   r.ID,
				RotationName: rule.RotationName,
				RotationType: rotationType,
			})
		}
	}
}

func (e *Engine) phaseMandatoryOffService(_ context.Context, g *grid, residents []domain.Resident, _ []domain.ExternalRotator, config domain.AppConfiguration, _ calendar.Date) error {
	e.applyMandatoryRules(g, residents, config.YearlyScheduler.MandatoryRotations, domain.RotationMandatoryOff)
	return nil
}

func (e *Engine) phaseExamLeave(_ context.Context, g *grid, residents []domain.Resident, _ []domain.ExternalRotator, config domain.AppConfiguration, _ calendar.Date) error {
	e.applyMandatoryRules(g, residents, config.YearlyScheduler.ExamLeave, domain.RotationExamLeave)
	return nil
}

// phaseHolidayLeave implements the competitive Christmas/New Year
// allocation among seniors (PGY >= 4), sorted descending by PGY level,
// stable by id.
func (e *Engine) phaseHolidayLeave(_ context.Context, g *grid, residents []domain.Resident, _ []domain.ExternalRotator, _ domain.AppConfiguration, _ calendar.Date) error {
	seniors := make([]domain.Resident, 0)
	for _, r := range residents {
		if r.PGYLevel >= 4 {
			seniors = append(seniors, r)
		}
	}
	sort.SliceStable(seniors, func(i, j int) bool { return seniors[i].PGYLevel > seniors[j].PGYLevel })

	const christmasBlock, newYearBlock = 6, 7
	for k, r := range seniors {
		block := christmasBlock
		holiday := domain.HolidayChristmas
		if k%2 == 1 {
			block = newYearBlock
			holiday = domain.HolidayNewYear
		}
		g.setIfEmpty(block, r.ID, domain.RotationAssignment{
			ResidentID:   r.ID,
			RotationName: string(holiday) + " Leave",
			RotationType: domain.RotationHolidayLeave,
			HolidayType:  holiday,
		})
	}
	return nil
}

func (e *Engine) phaseCoreFill(_ context.Context, g *grid, residents []domain.Resident, _ []domain.ExternalRotator, _ domain.AppConfiguration, _ calendar.Date) error {
	for b := 1; b <= calendar.BlocksPerYear; b++ {
		for _, r := range residents {
			g.setIfEmpty(b, r.ID, domain.RotationAssignment{
				ResidentID:   r.ID,
				RotationName: "Core Neurosurgery",
				RotationType: domain.RotationCoreNSX,
			})
		}
	}
	return nil
}

// phaseFlexible is reserved: in this revision it writes nothing, since no
// elective/preference data is supplied to the engine.
func (e *Engine) phaseFlexible(_ context.Context, _ *grid, _ []domain.Resident, _ []domain.ExternalRotator, _ domain.AppConfiguration, _ calendar.Date) error {
	return nil
}

func (e *Engine) phaseTeamBalancing(_ context.Context, g *grid, residents []domain.Resident, _ []domain.ExternalRotator, _ domain.AppConfiguration, _ calendar.Date) error {
	for b := 1; b <= calendar.BlocksPerYear; b++ {
		redCount, blueCount := 0, 0
		var untagged []domain.ResidentID
		for _, r := range residents {
			a, ok := g.get(b, r.ID)
			if !ok || a.RotationType != domain.RotationCoreNSX {
				continue
			}
			switch a.Team {
			case domain.TeamRed:
				redCount++
			case domain.TeamBlue:
				blueCount++
			default:
				untagged = append(untagged, r.ID)
			}
		}
		for _, residentID := range untagged {
			a, _ := g.get(b, residentID)
			var team domain.Team
			if redCount <= blueCount {
				team = domain.TeamRed
				redCount++
			} else {
				team = domain.TeamBlue
				blueCount++
			}
			a.Team = team
			g.cells[b][residentID] = a
		}
	}
	return nil
}

func (e *Engine) validate(blocks []domain.RotationBlock, externalRotators []domain.ExternalRotator, config domain.AppConfiguration, residentsByID map[domain.ResidentID]domain.Resident) []domain.CoverageViolation {
	var violations []domain.CoverageViolation
	for _, block := range blocks {
		externalCount := 0
		for _, er := range externalRotators {
			if calendar.Overlaps(er.StartDate, er.EndDate, block.StartDate, block.EndDate) {
				externalCount++
			}
		}
		for _, rule := range config.CoverageRules {
			if !rule.Enabled {
				continue
			}
			if rule.BlockNumber != 0 && rule.BlockNumber != block.BlockNumber {
				continue
			}
			count := externalCount
			for _, a := range block.Assignments {
				if a.RotationType != domain.RotationCoreNSX {
					continue
				}
				resident, ok := residentsByID[a.ResidentID]
				if !ok || !matchesCoverageRule(resident, rule) {
					continue
				}
				count++
			}
			if count < rule.MinCount {
				violations = append(violations, domain.CoverageViolation{
					BlockNumber: block.BlockNumber,
					RuleID:      rule.ID,
					Message:     fmt.Sprintf("block %d: coverage rule %s requires %d, got %d", block.BlockNumber, rule.ID, rule.MinCount, count),
				})
			}
		}
	}
	return violations
}

// matchesCoverageRule checks the rule's specialty (and, for
// SPECIALTY_PGY_MIN, PGY floor) against resident.
func matchesCoverageRule(resident domain.Resident, rule domain.CoverageRule) bool {
	if resident.Specialty != rule.Specialty {
		return false
	}
	if rule.Kind == domain.CoverageRuleSpecialtyPGYMin && resident.PGYLevel < rule.MinPGYLevel {
		return false
	}
	return true
}

// DeriveAcademicYearIDFromRange is a convenience that mirrors
// calendar.DeriveAcademicYearID but accepts the already-known first
// calendar year, avoiding re-deriving it from a date.
func DeriveAcademicYearIDFromRange(firstCalendarYear int) string {
	return strconv.Itoa(firstCalendarYear) + "-" + strconv.Itoa(firstCalendarYear+1)
}

// ParseAcademicYearID extracts the first calendar year from an
// "YYYY-YYYY" id.
func ParseAcademicYearID(id string) (int, error) {
	parts := strings.Split(id, "-")
	if len(parts) != 2 {
		return 0, schederr.Validation("yearly: malformed academic year id %q", id)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, schederr.Validation("yearly: malformed academic year id %q", id)
	}
	return year, nil
}
