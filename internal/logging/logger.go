package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// New returns a text logger writing to w. Verbose lowers the level to
// debug; DASH_DEBUG does the same regardless of verbose.
func New(w io.Writer, verbose bool) *slog.Logger {
	if w == nil {
		return Discard()
	}
	level := slog.LevelInfo
	if verbose || DebugEnabled() {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}

// OpenFile opens (appending) a log file under dir for full-screen modes where
// stderr belongs to the terminal UI. The caller closes the returned file.
func OpenFile(dir, name string, perm os.FileMode) (*os.File, error) {
	if err := os.MkdirAll(dir, perm); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
