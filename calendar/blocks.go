package calendar

import (
	"strconv"
	"time"
)

// BlocksPerYear is the fixed number of 28-day rotation blocks in an
// academic year.
const BlocksPerYear = 13

// BlockLengthDays is the fixed length of a rotation block.
const BlockLengthDays = 28

// AcademicYearStart returns the civil date the academic year starting in
// firstCalendarYear begins on: July 1st of that year.
func AcademicYearStart(firstCalendarYear int) Date {
	return NewDate(firstCalendarYear, time.July, 1)
}

// BlockRange returns the inclusive [start,end] date range of the given
// 1-indexed block number (1..13) within an academic year starting on
// yearStart.
func BlockRange(yearStart Date, blockNumber int) (start, end Date) {
	offset := (blockNumber - 1) * BlockLengthDays
	start = yearStart.AddDays(offset)
	end = start.AddDays(BlockLengthDays - 1)
	return start, end
}

// BlockContaining returns the 1-indexed block number whose range contains
// d, or 0 if d falls outside the 13-block year starting at yearStart.
func BlockContaining(yearStart Date, d Date) int {
	offset := DaysBetween(yearStart, d)
	if offset < 0 || offset >= BlocksPerYear*BlockLengthDays {
		return 0
	}
	return offset/BlockLengthDays + 1
}

// DeriveAcademicYearID best-effort derives an "YYYY-YYYY" academic-year id
// from a civil date, treating July as the start of the academic year.
//
// This is a convenience for CLI/edge use only. The engine never calls it
// implicitly — every operation that needs an academic year id takes it as
// an explicit parameter, because naively deriving it from a month in the
// second half of the academic year (e.g. January) would otherwise silently
// pick the wrong year pair.
func DeriveAcademicYearID(d Date) string {
	first := d.Year()
	if d.Month() < time.July {
		first--
	}
	return formatYearPair(first)
}

func formatYearPair(firstCalendarYear int) string {
	return strconv.Itoa(firstCalendarYear) + "-" + strconv.Itoa(firstCalendarYear+1)
}
