package event

import (
	"time"

	"track/internal/record"
)

// Session is one closed tracking interval, as stored in the journal
type Session struct {
	ID      int64         `db:"id"`
	Status  record.Status `db:"status"`
	Start   uint64        `db:"started_at"` // microseconds since epoch
	End     uint64        `db:"ended_at"`
	Elapsed uint64        `db:"elapsed"` // time credited to the counter
}

func (s Session) StartTime() time.Time {
	return time.UnixMicro(int64(s.Start))
}

func (s Session) EndTime() time.Time {
	return time.UnixMicro(int64(s.End))
}

// Tracked reports whether the session credited any category counter.
func (s Session) Tracked() bool {
	return s.Status != record.NotTracking && s.Elapsed > 0
}
