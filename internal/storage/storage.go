package storage

import (
	"context"

	"track/internal/event"
	"track/internal/record"
)

// RecordStore persists the single tracking record.
type RecordStore interface {
	Load() (record.Record, error)
	Save(r record.Record) error
	Path() string
}

// Journal keeps a log of closed sessions.
type Journal interface {
	Init(ctx context.Context) error
	SaveSession(ctx context.Context, s event.Session) (int64, error)
	RecentSessions(ctx context.Context, limit int) ([]event.Session, error)
	Clear(ctx context.Context) error
	Close() error
}
