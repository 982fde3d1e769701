package yearly_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurosurgery/scheduler/calendar"
	"github.com/neurosurgery/scheduler/domain"
	"github.com/neurosurgery/scheduler/schederr"
	"github.com/neurosurgery/scheduler/yearly"
)

func TestGenerate_EmptyResidentsIsValidationError(t *testing.T) {
	e := yearly.New(nil)
	_, err := e.Generate(context.Background(), "2026-2027", 2026, nil, nil, domain.AppConfiguration{})
	require.Error(t, err)
	assert.Equal(t, schederr.KindValidation, schederr.KindOf(err))
}

func TestGenerate_ProducesThirteenBlocks(t *testing.T) {
	e := yearly.New(nil)
	residents := []domain.Resident{{ID: "r1", PGYLevel: 2}, {ID: "r2", PGYLevel: 3}}
	year, err := e.Generate(context.Background(), "2026-2027", 2026, residents, nil, domain.AppConfiguration{})
	require.NoError(t, err)
	assert.Len(t, year.Blocks, calendar.BlocksPerYear)
}

func TestGenerate_OneAssignmentPerResidentPerBlock(t *testing.T) {
	e := yearly.New(nil)
	residents := []domain.Resident{{ID: "r1", PGYLevel: 2}, {ID: "r2", PGYLevel: 4}, {ID: "r3", PGYLevel: 5}}
	year, err := e.Generate(context.Background(), "2026-2027", 2026, residents, nil, domain.AppConfiguration{})
	require.NoError(t, err)

	for _, block := range year.Blocks {
		seen := map[domain.ResidentID]bool{}
		for _, a := range block.Assignments {
			assert.False(t, seen[a.ResidentID], "resident %s double-assigned in block %d", a.ResidentID, block.BlockNumber)
			seen[a.ResidentID] = true
		}
	}
}

func TestGenerate_MandatoryRotationOverridesCoreFill(t *testing.T) {
	e := yearly.New(nil)
	residents := []domain.Resident{{ID: "r1", PGYLevel: 2}}
	cfg := domain.AppConfiguration{
		YearlyScheduler: domain.YearlySchedulerConfig{
			MandatoryRotations: []domain.MandatoryRotationRule{
				{BlockNumber: 3, PGYLevels: []int{2}, RotationName: "Neuro ICU"},
			},
		},
	}
	year, err := e.Generate(context.Background(), "2026-2027", 2026, residents, nil, cfg)
	require.NoError(t, err)

	block := year.Blocks[2] // block number 3
	a, ok := block.AssignmentFor("r1")
	require.True(t, ok)
	assert.Equal(t, domain.RotationMandatoryOff, a.RotationType)
	assert.Equal(t, "Neuro ICU", a.RotationName)
}

func TestGenerate_HolidayLeaveAlternatesAmongSeniors(t *testing.T) {
	e := yearly.New(nil)
	residents := []domain.Resident{
		{ID: "r1", PGYLevel: 5},
		{ID: "r2", PGYLevel: 4},
	}
	year, err := e.Generate(context.Background(), "2026-2027", 2026, residents, nil, domain.AppConfiguration{})
	require.NoError(t, err)

	christmas, newYear := year.Blocks[5], year.Blocks[6] // blocks 6 and 7
	onChristmas, okChristmas := christmas.AssignmentFor("r1")
	onNewYear, okNewYear := newYear.AssignmentFor("r2")
	assert.True(t, okChristmas)
	assert.True(t, okNewYear)
	assert.Equal(t, domain.HolidayChristmas, onChristmas.HolidayType)
	assert.Equal(t, domain.HolidayNewYear, onNewYear.HolidayType)
}

func TestGenerate_TeamsStayWithinOneOfEachOther(t *testing.T) {
	e := yearly.New(nil)
	residents := make([]domain.Resident, 0, 9)
	for i := 0; i < 9; i++ {
		residents = append(residents, domain.Resident{ID: domain.ResidentID(string(rune('a' + i))), PGYLevel: 2})
	}
	year, err := e.Generate(context.Background(), "2026-2027", 2026, residents, nil, domain.AppConfiguration{})
	require.NoError(t, err)

	for _, block := range year.Blocks {
		red, blue := 0, 0
		for _, a := range block.Assignments {
			switch a.Team {
			case domain.TeamRed:
				red++
			case domain.TeamBlue:
				blue++
			}
		}
		diff := red - blue
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqual(t, diff, 1, "block %d team imbalance red=%d blue=%d", block.BlockNumber, red, blue)
	}
}

func TestGenerate_CoverageViolationReportedNotFatal(t *testing.T) {
	e := yearly.New(nil)
	residents := []domain.Resident{{ID: "r1", PGYLevel: 2, Specialty: "neurosurgery"}}
	cfg := domain.AppConfiguration{
		CoverageRules: []domain.CoverageRule{
			{ID: "min-two", Enabled: true, MinCount: 2, Specialty: "neurosurgery"},
		},
	}
	year, err := e.Generate(context.Background(), "2026-2027", 2026, residents, nil, cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, year.Violations)
}

func TestGenerate_IsDeterministicUnderResidentReordering(t *testing.T) {
	e := yearly.New(nil)
	forward := []domain.Resident{{ID: "r1", PGYLevel: 2}, {ID: "r2", PGYLevel: 3}, {ID: "r3", PGYLevel: 4}}
	reversed := []domain.Resident{{ID: "r3", PGYLevel: 4}, {ID: "r2", PGYLevel: 3}, {ID: "r1", PGYLevel: 2}}

	yearA, err := e.Generate(context.Background(), "2026-2027", 2026, forward, nil, domain.AppConfiguration{})
	require.NoError(t, err)
	yearB, err := e.Generate(context.Background(), "2026-2027", 2026, reversed, nil, domain.AppConfiguration{})
	require.NoError(t, err)

	assert.Equal(t, yearA.Blocks, yearB.Blocks)
}

func TestDeriveAcademicYearIDFromRange(t *testing.T) {
	assert.Equal(t, "2026-2027", yearly.DeriveAcademicYearIDFromRange(2026))
}

func TestParseAcademicYearID(t *testing.T) {
	year, err := yearly.ParseAcademicYearID("2026-2027")
	require.NoError(t, err)
	assert.Equal(t, 2026, year)

	_, err = yearly.ParseAcademicYearID("not-a-range")
	assert.Error(t, err)
}
