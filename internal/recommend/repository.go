package recommend

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/jhpark-coder/fitcoach/internal/errors"
	"github.com/jhpark-coder/fitcoach/internal/sqlite"
	"github.com/mattn/go-sqlite3"
)

const timestampFormat = "2006-01-02T15:04:05.000Z"

var (
	// ErrNotFound marks a missing row.
	ErrNotFound = errors.NewSentinel("not found")
	// ErrConflict marks a preference update that kept losing optimistic
	// concurrency races after retries.
	ErrConflict = errors.NewSentinel("concurrent preference update conflict")
	// ErrInvalidInput marks a request rejected before any computation.
	ErrInvalidInput = errors.NewSentinel("invalid input")
)

// baseRepository carries the shared dependencies of the SQLite repositories.
type baseRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newBaseRepository(db *sqlite.Database, logger *slog.Logger) baseRepository {
	return baseRepository{
		db:     db,
		logger: logger,
	}
}

// repository bundles the per-concern repositories behind one handle.
type repository struct {
	exercises *sqliteExerciseRepository
	feedback  *sqliteFeedbackRepository
	prefs     *sqlitePreferenceRepository
}

// repositoryFactory wires repositories with their shared dependencies.
type repositoryFactory struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newRepositoryFactory(db *sqlite.Database, logger *slog.Logger) *repositoryFactory {
	return &repositoryFactory{
		db:     db,
		logger: logger,
	}
}

func (f *repositoryFactory) newRepository() *repository {
	return &repository{
		exercises: newSQLiteExerciseRepository(f.db, f.logger),
		feedback:  newSQLiteFeedbackRepository(f.db, f.logger),
		prefs:     newSQLitePreferenceRepository(f.db, f.logger),
	}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampFormat)
}

func parseTimestamp(timestampStr string) (time.Time, error) {
	t, err := time.Parse(timestampFormat, timestampStr)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "parse timestamp",
			slog.String("timestamp", timestampStr))
	}
	return t, nil
}

// isConstraintViolation reports whether err is a SQLite constraint error such
// as a primary key collision.
func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}

// parseNullableTimestamp parses a timestamp from a nullable database string.
func parseNullableTimestamp(timestampStr sql.NullString) (*time.Time, error) {
	if !timestampStr.Valid {
		return nil, nil //nolint:nilnil // absence of a timestamp is not an error.
	}
	t, err := parseTimestamp(timestampStr.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
