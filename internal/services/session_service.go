package services

import (
	"context"
	"log/slog"

	"discipline-dashboard/internal/domain"
	"discipline-dashboard/internal/errors"
	"discipline-dashboard/internal/logging"
	"discipline-dashboard/internal/repository"
	"discipline-dashboard/internal/validation"
)

// sessionServiceImpl implements the SessionService interface
type sessionServiceImpl struct {
	log              repository.SessionLog
	sessionValidator *validation.SessionValidator
	logger           *slog.Logger
}

// NewSessionService creates a new SessionService instance
func NewSessionService(log repository.SessionLog, validator *validation.Validator, logger *slog.Logger) SessionService {
	return &sessionServiceImpl{
		log:              log,
		sessionValidator: validation.NewSessionValidator(validator),
		logger:           logging.OrDiscard(logger),
	}
}

// RecordSession validates and appends the entry for a completed session.
// The entry is filed under the ISO week of the completion time.
func (s *sessionServiceImpl) RecordSession(ctx context.Context, done domain.CompletedSession) (*domain.SessionEntry, error) {
	entry := done.Entry()
	if err := s.record(ctx, entry); err != nil {
		level := slog.LevelWarn
		if errors.ShouldLogError(err) {
			level = slog.LevelError
		}
		s.logger.Log(ctx, level, "record session failed", "session_id", done.ID, "error", err)
		return nil, err
	}

	s.logger.Info("session recorded",
		"session_id", done.ID,
		"week", entry.Week().String(),
		"duration", entry.Duration())
	return &entry, nil
}

func (s *sessionServiceImpl) record(ctx context.Context, entry domain.SessionEntry) error {
	if err := s.sessionValidator.ValidateEntry(entry); err != nil {
		return errors.NewValidationError("invalid session entry", err)
	}
	return s.log.Append(ctx, entry)
}

// Entries lists the log. Backends that keep wall-clock times and session ids
// supply them; otherwise raw rows are parsed and malformed rows skipped.
func (s *sessionServiceImpl) Entries(ctx context.Context) ([]domain.SessionEntry, error) {
	if lister, ok := s.log.(repository.EntryLister); ok {
		return lister.Entries(ctx)
	}

	rows, err := s.log.Rows(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.SessionEntry, 0, len(rows))
	for i, row := range rows {
		entry, err := domain.ParseLogRow(row)
		if err != nil {
			s.logger.Debug("skipping malformed log row", "line", i+1, "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
