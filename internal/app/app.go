package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"track/internal/config"
	"track/internal/record"
	"track/internal/report"
	"track/internal/session"
	"track/internal/storage"
	"track/internal/trackerr"
)

// App runs one tracking operation against the store per invocation.
type App struct {
	cfg     *config.Config
	store   storage.RecordStore
	journal storage.Journal // nil when history is disabled
	clock   session.Clock
	log     logrus.FieldLogger
	out     io.Writer
}

type Options struct {
	Config  *config.Config
	Store   storage.RecordStore
	Journal storage.Journal
	Clock   session.Clock
	Log     logrus.FieldLogger
	Out     io.Writer
}

func NewApp(opts Options) *App {
	a := &App{
		cfg:     opts.Config,
		store:   opts.Store,
		journal: opts.Journal,
		clock:   opts.Clock,
		log:     opts.Log,
		out:     opts.Out,
	}
	if a.cfg == nil {
		a.cfg = &config.Config{}
	}
	if a.clock == nil {
		a.clock = session.SystemClock
	}
	if a.log == nil {
		a.log = logrus.StandardLogger()
	}
	if a.out == nil {
		a.out = io.Discard
	}
	return a
}

// Track closes the running session and starts tracking the status named by
// token. Nothing is read or written when the token is not recognized.
func (a *App) Track(ctx context.Context, token string) error {
	next, ok := record.ParseStatus(token)
	if !ok {
		return trackerr.IllegalArgument(token)
	}

	r, err := a.store.Load()
	if err != nil {
		return err
	}

	now := a.clock()
	r, closed, rolledBack := session.Transition(r, now, next)
	if rolledBack {
		a.log.WithFields(logrus.Fields{
			"session_start": closed.Start,
			"now":           now,
		}).Warn("clock moved backwards, previous session credited with no time")
	}

	if err := a.store.Save(r); err != nil {
		return err
	}
	a.log.WithFields(logrus.Fields{
		"from":       closed.Status.Token(),
		"to":         next.Token(),
		"elapsed_us": closed.Elapsed,
	}).Info("status changed")

	if a.journal != nil && closed.Tracked() {
		if _, err := a.journal.SaveSession(ctx, closed); err != nil {
			a.log.WithError(err).Warn("failed to journal session")
		}
	}
	return nil
}

// Reset zeroes all totals, creating the data file if needed.
func (a *App) Reset(ctx context.Context) error {
	if err := a.store.Save(session.Reset(record.Record{})); err != nil {
		return err
	}
	a.log.WithField("path", a.store.Path()).Info("statistics reset")

	if a.journal != nil {
		if err := a.journal.Clear(ctx); err != nil {
			a.log.WithError(err).Warn("failed to clear session journal")
		}
	}
	return nil
}

// Report prints accumulated totals as text, or as JSON when asJSON is set.
func (a *App) Report(precise, asJSON bool) error {
	r, err := a.store.Load()
	if err != nil {
		return err
	}
	if asJSON {
		return report.WriteJSON(a.out, r, precise)
	}
	_, err = io.WriteString(a.out, report.FormatReport(r, precise))
	return err
}

// History prints the most recent journaled sessions.
func (a *App) History(ctx context.Context, limit int, precise bool) error {
	if a.journal == nil {
		return trackerr.New(trackerr.CodeConfigInvalid, "session history is disabled")
	}
	if limit <= 0 {
		limit = a.cfg.History.Limit
	}
	sessions, err := a.journal.RecentSessions(ctx, limit)
	if err != nil {
		return trackerr.Wrap(err, trackerr.CodeIOFailure, "failed to read session history")
	}
	now := time.UnixMicro(int64(a.clock()))
	_, err = io.WriteString(a.out, report.FormatHistory(sessions, now, precise))
	return err
}

func (a *App) Close() error {
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			return fmt.Errorf("close journal: %w", err)
		}
	}
	return nil
}
