package window

import "time"

// DateOf reduces an instant to its calendar day in the reference timezone,
// represented as UTC midnight so that windows compare and format uniformly.
func DateOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Plan computes the inclusive [start, end] query window for a run.
//
// end is always today in the reference timezone. start is the persisted
// cursor, except on Mondays, where it is forced back three days so that a
// weekday-only schedule still picks up weekend submissions. The Monday
// branch deliberately compensates only the Saturday/Sunday gap, not
// arbitrary multi-day outages. A cursor ahead of today produces an
// inverted window; the upstream feed answers those with zero records.
func Plan(cursor time.Time, now time.Time, loc *time.Location) (start, end time.Time) {
	today := DateOf(now, loc)
	end = today

	if today.Weekday() == time.Monday {
		return today.AddDate(0, 0, -3), end
	}

	if cursor.IsZero() {
		return today.AddDate(0, 0, -1), end
	}

	return cursor, end
}
