package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"discipline-dashboard/internal/domain"
	"discipline-dashboard/internal/errors"
	"discipline-dashboard/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

const sessionColumns = `id, session_id, iso_year, iso_week, date, wall_clock, duration_minutes, recorded_at`

// SessionLog stores completed sessions in a SQLite database. It satisfies
// repository.SessionLog and additionally keeps the wall-clock time and
// session id of every entry.
type SessionLog struct {
	db           *sql.DB
	writeTimeout time.Duration
	dirPerm      os.FileMode
	now          func() time.Time
}

// Option configures a SessionLog
type Option func(*SessionLog)

// WithWriteTimeout bounds each insert
func WithWriteTimeout(d time.Duration) Option {
	return func(l *SessionLog) {
		l.writeTimeout = d
	}
}

// WithDirPermissions sets the mode used when creating the database directory
func WithDirPermissions(perm os.FileMode) Option {
	return func(l *SessionLog) {
		l.dirPerm = perm
	}
}

// WithClock overrides the time source used for recorded_at
func WithClock(now func() time.Time) Option {
	return func(l *SessionLog) {
		l.now = now
	}
}

// New opens (creating if needed) the database at dbPath and migrates it
func New(dbPath string, opts ...Option) (*SessionLog, error) {
	l := &SessionLog{
		writeTimeout: 5 * time.Second,
		dirPerm:      0755,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), l.dirPerm); err != nil {
			return nil, errors.NewIOError("create database directory", filepath.Dir(dbPath), err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}
	// one connection keeps ":memory:" databases alive across calls and serializes writers
	db.SetMaxOpenConns(1)

	// Run migrations
	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	l.db = db
	return l, nil
}

// Close closes the database connection
func (l *SessionLog) Close() error {
	return l.db.Close()
}

// Append inserts one session. Entries without a session id get a fresh one.
func (l *SessionLog) Append(ctx context.Context, entry domain.SessionEntry) error {
	if entry.SessionID == "" {
		entry.SessionID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(ctx, l.writeTimeout)
	defer cancel()

	row := FromDomainSessionEntry(entry, l.now())
	query := `
	INSERT INTO sessions (session_id, iso_year, iso_week, date, wall_clock, duration_minutes, recorded_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := ExecuteWithLastInsertID(ctx, l.db, query,
		row.SessionID,
		row.ISOYear,
		row.ISOWeek,
		row.Date,
		NullableString(row.WallClock.String),
		row.DurationMinutes,
		FormatTimeForDB(row.RecordedAt),
	)
	return err
}

// Rows returns every session in insertion order, rendered as canonical log rows
func (l *SessionLog) Rows(ctx context.Context) ([]domain.LogRow, error) {
	sessions, err := l.list(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.LogRow, len(sessions))
	for i, s := range sessions {
		rows[i] = ToLogRow(s)
	}
	return rows, nil
}

// Entries returns every session in insertion order with wall-clock time and session id
func (l *SessionLog) Entries(ctx context.Context) ([]domain.SessionEntry, error) {
	sessions, err := l.list(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.SessionEntry, len(sessions))
	for i, s := range sessions {
		entries[i] = ToDomainSessionEntry(s)
	}
	return entries, nil
}

func (l *SessionLog) list(ctx context.Context) ([]*SessionRow, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions ORDER BY id ASC`
	return QueryMultiple(ctx, l.db, query, ScanSessions, "sessions")
}
