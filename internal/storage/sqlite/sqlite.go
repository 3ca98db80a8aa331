package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"track/internal/event"
	"track/internal/record"
	"track/internal/storage"
)

// SQLiteStore is a Journal backed by a SQLite database file.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	log    logrus.FieldLogger
}

func NewSQLiteStore(dbPath string, log logrus.FieldLogger) storage.Journal {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		log = l
	}
	return &SQLiteStore{dbPath: dbPath, log: log.WithField("journal", dbPath)}
}

const createSessionsTableSQL = `
CREATE TABLE IF NOT EXISTS sessions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	status INTEGER NOT NULL,
	token TEXT NOT NULL,
	started_at INTEGER NOT NULL,
	ended_at INTEGER NOT NULL,
	elapsed INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions (ended_at);
`

func (s *SQLiteStore) Init(ctx context.Context) error {
	dir := filepath.Dir(s.dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create journal directory %s: %w", dir, err)
	}

	s.log.Debug("opening session journal")
	db, err := sql.Open("sqlite3", s.dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	s.db = db

	// one writer per invocation
	s.db.SetMaxOpenConns(1)
	s.db.SetMaxIdleConns(1)
	s.db.SetConnMaxLifetime(time.Minute)

	if err := s.db.PingContext(ctx); err != nil {
		s.db.Close()
		s.db = nil
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, createSessionsTableSQL); err != nil {
		s.db.Close()
		s.db = nil
		return fmt.Errorf("failed to create sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SaveSession(ctx context.Context, e event.Session) (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("journal not initialized")
	}
	query := `INSERT INTO sessions (status, token, started_at, ended_at, elapsed)
	          VALUES (?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, query,
		int64(e.Status), e.Status.Token(), int64(e.Start), int64(e.End), int64(e.Elapsed))
	if err != nil {
		return 0, fmt.Errorf("failed to insert session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	s.log.WithFields(logrus.Fields{"id": id, "status": e.Status.Token(), "elapsed_us": e.Elapsed}).Debug("session journaled")
	return id, nil
}

// RecentSessions returns up to limit sessions, newest first. A limit of zero
// or less returns every session.
func (s *SQLiteStore) RecentSessions(ctx context.Context, limit int) ([]event.Session, error) {
	if s.db == nil {
		return nil, fmt.Errorf("journal not initialized")
	}
	query := `SELECT id, status, started_at, ended_at, elapsed
	          FROM sessions
	          ORDER BY ended_at DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []event.Session
	for rows.Next() {
		var (
			e                       event.Session
			status                  int64
			start, end, elapsedTime int64
		)
		if err := rows.Scan(&e.ID, &status, &start, &end, &elapsedTime); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		e.Status = record.Status(status)
		if !e.Status.Valid() {
			return nil, fmt.Errorf("session %d has invalid status %d", e.ID, status)
		}
		e.Start = uint64(start)
		e.End = uint64(end)
		e.Elapsed = uint64(elapsedTime)
		sessions = append(sessions, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session rows: %w", err)
	}

	return sessions, nil
}

// Clear removes every session, used when the totals are reset.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("journal not initialized")
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("failed to clear sessions: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}
