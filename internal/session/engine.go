// Package session closes and opens tracking intervals on a record.
//
// All functions are pure: they take a record value and return the new one.
// Persisting the result is the caller's job.
package session

import (
	"time"

	"track/internal/event"
	"track/internal/record"
)

// Clock returns the current time in microseconds since the Unix epoch.
type Clock func() uint64

// SystemClock reads the wall clock.
func SystemClock() uint64 {
	return uint64(time.Now().UnixMicro())
}

// Fixed returns a clock that always reports us.
func Fixed(us uint64) Clock {
	return func() uint64 { return us }
}

// Update credits the time since SessionStart to the current status and
// restarts the interval at now. A clock that went backwards credits nothing;
// rolledBack reports that case.
func Update(r record.Record, now uint64) (out record.Record, rolledBack bool) {
	var delta uint64
	if now >= r.SessionStart {
		delta = now - r.SessionStart
	} else {
		rolledBack = true
	}
	r.Add(r.Status, delta)
	r.SessionStart = now
	return r, rolledBack
}

// ChangeStatus switches the current status. Call Update first.
func ChangeStatus(r record.Record, s record.Status) record.Record {
	r.Status = s
	return r
}

// Reset discards all history.
func Reset(record.Record) record.Record {
	return record.Record{}
}

// Transition is Update followed by ChangeStatus. It returns the interval that
// was closed so it can be journaled.
func Transition(r record.Record, now uint64, next record.Status) (record.Record, event.Session, bool) {
	closed := event.Session{
		Status: r.Status,
		Start:  r.SessionStart,
		End:    now,
	}
	before := r.Total(r.Status)
	r, rolledBack := Update(r, now)
	closed.Elapsed = r.Total(closed.Status) - before
	return ChangeStatus(r, next), closed, rolledBack
}
