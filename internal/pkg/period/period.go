package period

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/office"
)

// Period is an attendance accounting window. Start and End are inclusive
// calendar dates at midnight UTC.
type Period struct {
	Start time.Time
	End   time.Time
	Label string
}

// ForOffice computes the active accounting period containing the reference
// date for the given office. Calendar offices use the reference month; custom
// offices run from cycle_start_day D of one month through D-1 of the next
// (the "26th to 25th" payroll cycle, generalized).
func ForOffice(o office.Office, ref time.Time) Period {
	if o.CycleType == office.CycleCustom && o.CycleStartDay >= 1 && o.CycleStartDay <= 28 {
		return customPeriod(o.CycleStartDay, ref)
	}
	return calendarPeriod(ref)
}

func calendarPeriod(ref time.Time) Period {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return Period{
		Start: start,
		End:   end,
		Label: start.Format("January 2006"),
	}
}

func customPeriod(startDay int, ref time.Time) Period {
	start := time.Date(ref.Year(), ref.Month(), startDay, 0, 0, 0, 0, time.UTC)
	if ref.Day() < startDay {
		start = start.AddDate(0, -1, 0)
	}
	// End is one day before the next cycle start, which keeps short months
	// from underflowing into invalid dates.
	end := start.AddDate(0, 1, 0).AddDate(0, 0, -1)
	return Period{
		Start: start,
		End:   end,
		Label: fmt.Sprintf("%s - %s", start.Format("2 Jan 2006"), end.Format("2 Jan 2006")),
	}
}

// Contains reports whether the given date falls inside the period, ignoring
// the time-of-day component.
func (p Period) Contains(date time.Time) bool {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(p.Start) && !d.After(p.End)
}
