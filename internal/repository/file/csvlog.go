package file

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"discipline-dashboard/internal/domain"
	apperrors "discipline-dashboard/internal/errors"
)

// CSVLog is the session log as a headerless CSV file in the canonical
// year,week,date,duration column order.
type CSVLog struct {
	path    string
	dirPerm os.FileMode
	mu      sync.Mutex
}

// NewCSVLog returns a CSVLog backed by path. The file is created on first append.
func NewCSVLog(path string, dirPerm os.FileMode) *CSVLog {
	if dirPerm == 0 {
		dirPerm = 0755
	}
	return &CSVLog{path: path, dirPerm: dirPerm}
}

// Path returns the location of the log file.
func (l *CSVLog) Path() string {
	return l.path
}

// Append writes entry as one line. The whole line goes out in a single
// write on an O_APPEND descriptor so a concurrent reader never sees half a row.
func (l *CSVLog) Append(ctx context.Context, entry domain.SessionEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(entry.Row()); err != nil {
		return apperrors.NewIOError("encode log row", l.path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return apperrors.NewIOError("encode log row", l.path, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), l.dirPerm); err != nil {
		return apperrors.NewIOError("create log directory", filepath.Dir(l.path), err)
	}

	fh, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return apperrors.NewIOError("open log", l.path, err)
	}
	if _, err := fh.Write(buf.Bytes()); err != nil {
		fh.Close()
		return apperrors.NewIOError("append log row", l.path, err)
	}
	if err := fh.Close(); err != nil {
		return apperrors.NewIOError("close log", l.path, err)
	}
	return nil
}

// Rows reads every row of the log. Rows may have any number of columns;
// checking them is left to the caller.
func (l *CSVLog) Rows(ctx context.Context) ([]domain.LogRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fh, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.LogRow{}, nil
	}
	if err != nil {
		return nil, apperrors.NewIOError("open log", l.path, err)
	}
	defer fh.Close()

	r := csv.NewReader(fh)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows := []domain.LogRow{}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				// quoting errors affect one line only; keep it for the caller to reject
				rows = append(rows, domain.LogRow{})
				continue
			}
			return nil, apperrors.NewIOError("read log", l.path, err)
		}
		rows = append(rows, domain.LogRow(record))
	}
	return rows, nil
}

// Close is a no-op; the log holds no open descriptor between calls.
func (l *CSVLog) Close() error {
	return nil
}
