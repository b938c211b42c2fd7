package engine

import (
	"time"

	"github.com/campus-transit/shuttle-ops-api/internal/models"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// ApplyLifecycle derives trip statuses from wall-clock time and returns the
// number of transitions made. The pass is idempotent: completed and
// cancelled trips are terminal, and a trip with missing or malformed time
// fields is left unchanged.
func ApplyLifecycle(snap *models.Snapshot, now time.Time) int {
	transitions := 0
	for i := range snap.Trips {
		t := &snap.Trips[i]
		if t.Status.Terminal() {
			continue
		}

		start, okStart := combine(t.Date, t.StartTime, now.Location())
		end, okEnd := combine(t.Date, t.EndTime, now.Location())
		if !okStart || !okEnd {
			continue
		}

		switch {
		case !now.Before(end):
			t.Status = models.TripCompleted
			t.UpdatedAt = now
			transitions++
		case t.Status == models.TripScheduled && !now.Before(start):
			t.Status = models.TripActive
			t.UpdatedAt = now
			transitions++
		}
	}
	return transitions
}

// combine parses "2006-01-02" + "15:04" into an absolute timestamp.
func combine(date, clock string, loc *time.Location) (time.Time, bool) {
	if date == "" || clock == "" {
		return time.Time{}, false
	}
	ts, err := time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// TripDurationMinutes computes endTime minus startTime on a fixed reference
// date. Malformed values yield 0.
func TripDurationMinutes(startTime, endTime string) int {
	start, err1 := time.Parse(timeLayout, startTime)
	end, err2 := time.Parse(timeLayout, endTime)
	if err1 != nil || err2 != nil {
		return 0
	}
	return int(end.Sub(start).Minutes())
}
