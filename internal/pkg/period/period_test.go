package period

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/office"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestForOffice_Calendar(t *testing.T) {
	o := office.Office{CycleType: office.CycleCalendar}

	p := ForOffice(o, date(2025, time.February, 15))
	assert.Equal(t, date(2025, time.February, 1), p.Start)
	assert.Equal(t, date(2025, time.February, 28), p.End)
	assert.Equal(t, "February 2025", p.Label)
}

func TestForOffice_CalendarLeapYear(t *testing.T) {
	o := office.Office{CycleType: office.CycleCalendar}

	p := ForOffice(o, date(2024, time.February, 10))
	assert.Equal(t, date(2024, time.February, 29), p.End)
}

func TestForOffice_CustomBeforeStartDay(t *testing.T) {
	o := office.Office{CycleType: office.CycleCustom, CycleStartDay: 26}

	p := ForOffice(o, date(2025, time.January, 10))
	assert.Equal(t, date(2024, time.December, 26), p.Start)
	assert.Equal(t, date(2025, time.January, 25), p.End)
}

func TestForOffice_CustomOnOrAfterStartDay(t *testing.T) {
	o := office.Office{CycleType: office.CycleCustom, CycleStartDay: 26}

	p := ForOffice(o, date(2025, time.January, 30))
	assert.Equal(t, date(2025, time.January, 26), p.Start)
	assert.Equal(t, date(2025, time.February, 25), p.End)

	// Boundary: the start day itself opens a new period.
	p = ForOffice(o, date(2025, time.January, 26))
	assert.Equal(t, date(2025, time.January, 26), p.Start)
}

func TestForOffice_CustomShortMonth(t *testing.T) {
	o := office.Office{CycleType: office.CycleCustom, CycleStartDay: 28}

	// Period starting Jan 28 must end Feb 27, not underflow.
	p := ForOffice(o, date(2025, time.January, 28))
	assert.Equal(t, date(2025, time.January, 28), p.Start)
	assert.Equal(t, date(2025, time.February, 27), p.End)
}

func TestForOffice_CustomYearRollover(t *testing.T) {
	o := office.Office{CycleType: office.CycleCustom, CycleStartDay: 26}

	p := ForOffice(o, date(2024, time.December, 27))
	assert.Equal(t, date(2024, time.December, 26), p.Start)
	assert.Equal(t, date(2025, time.January, 25), p.End)
}

func TestForOffice_InvalidCustomConfigFallsBackToCalendar(t *testing.T) {
	o := office.Office{CycleType: office.CycleCustom, CycleStartDay: 0}

	p := ForOffice(o, date(2025, time.March, 12))
	assert.Equal(t, date(2025, time.March, 1), p.Start)
	assert.Equal(t, date(2025, time.March, 31), p.End)
}

func TestPeriodContains(t *testing.T) {
	p := Period{Start: date(2025, time.January, 26), End: date(2025, time.February, 25)}

	assert.True(t, p.Contains(date(2025, time.January, 26)))
	assert.True(t, p.Contains(time.Date(2025, time.February, 25, 23, 30, 0, 0, time.UTC)))
	assert.False(t, p.Contains(date(2025, time.February, 26)))
	assert.False(t, p.Contains(date(2025, time.January, 25)))
}
