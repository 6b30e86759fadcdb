package recommend

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jhpark-coder/fitcoach/internal/contexthelpers"
	"github.com/jhpark-coder/fitcoach/internal/errors"
	"github.com/jhpark-coder/fitcoach/internal/sqlite"
)

// maxUpdateAttempts bounds the optimistic concurrency retry loop.
const maxUpdateAttempts = 3

// sqlitePreferenceRepository stores learned exercise preferences.
type sqlitePreferenceRepository struct {
	baseRepository
}

func newSQLitePreferenceRepository(db *sqlite.Database, logger *slog.Logger) *sqlitePreferenceRepository {
	return &sqlitePreferenceRepository{
		baseRepository: newBaseRepository(db, logger),
	}
}

// Get retrieves the preference row for an exercise.
func (r *sqlitePreferenceRepository) Get(ctx context.Context, exerciseName string) (ExercisePreference, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)
	pref, _, err := r.get(ctx, userID, exerciseName)
	return pref, err
}

// List retrieves all preference rows of the user keyed by exercise name.
func (r *sqlitePreferenceRepository) List(ctx context.Context) (_ map[string]ExercisePreference, err error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT exercise_name, preference_score, effectiveness_score, data_points, last_performed
		FROM exercise_preferences
		WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("query exercise preferences: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	prefs := map[string]ExercisePreference{}
	for rows.Next() {
		var (
			pref             ExercisePreference
			lastPerformedStr sql.NullString
		)
		if err = rows.Scan(
			&pref.ExerciseName,
			&pref.PreferenceScore,
			&pref.EffectivenessScore,
			&pref.DataPoints,
			&lastPerformedStr,
		); err != nil {
			return nil, fmt.Errorf("scan preference row: %w", err)
		}
		if pref.LastPerformed, err = parseNullableTimestamp(lastPerformedStr); err != nil {
			return nil, err
		}
		prefs[pref.ExerciseName] = pref
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return prefs, nil
}

// Update applies updateFn to the preference row under optimistic concurrency
// control. A missing row starts from the neutral default. Concurrent updates
// of the same row are retried with a fresh read up to maxUpdateAttempts and
// then surfaced as ErrConflict.
func (r *sqlitePreferenceRepository) Update(
	ctx context.Context,
	exerciseName string,
	updateFn func(pref *ExercisePreference) error,
) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		pref, version, err := r.get(ctx, userID, exerciseName)
		if errors.Is(err, ErrNotFound) {
			pref = defaultPreference(exerciseName)
			version = -1
		} else if err != nil {
			return err
		}

		if err = updateFn(&pref); err != nil {
			return fmt.Errorf("update preference: %w", err)
		}

		written, err := r.write(ctx, userID, pref, version)
		if err != nil {
			return err
		}
		if written {
			return nil
		}
		// Someone else changed the row between the read and the write.
	}

	return errors.Wrap(ErrConflict, "update exercise preference",
		slog.String("exerciseName", exerciseName))
}

// defaultPreference synthesizes the row a never-performed exercise gets on
// first read.
func defaultPreference(exerciseName string) ExercisePreference {
	return ExercisePreference{
		ExerciseName:       exerciseName,
		PreferenceScore:    0,
		EffectivenessScore: 0.5,
		DataPoints:         0,
		LastPerformed:      nil,
	}
}

func (r *sqlitePreferenceRepository) get(
	ctx context.Context,
	userID int64,
	exerciseName string,
) (ExercisePreference, int64, error) {
	var (
		pref             ExercisePreference
		version          int64
		lastPerformedStr sql.NullString
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT exercise_name, preference_score, effectiveness_score, data_points, last_performed, version
		FROM exercise_preferences
		WHERE user_id = ? AND exercise_name = ?`,
		userID, exerciseName).Scan(
		&pref.ExerciseName,
		&pref.PreferenceScore,
		&pref.EffectivenessScore,
		&pref.DataPoints,
		&lastPerformedStr,
		&version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ExercisePreference{}, 0, ErrNotFound
	}
	if err != nil {
		return ExercisePreference{}, 0, fmt.Errorf("query exercise preference: %w", err)
	}
	if pref.LastPerformed, err = parseNullableTimestamp(lastPerformedStr); err != nil {
		return ExercisePreference{}, 0, err
	}
	return pref, version, nil
}

// write persists the preference when the stored version still matches the one
// read. It reports whether a row was written.
func (r *sqlitePreferenceRepository) write(
	ctx context.Context,
	userID int64,
	pref ExercisePreference,
	version int64,
) (bool, error) {
	var lastPerformed any
	if pref.LastPerformed != nil {
		lastPerformed = formatTimestamp(*pref.LastPerformed)
	}

	if version < 0 {
		// First write for this exercise. A concurrent insert makes the
		// conflict visible as a primary key violation.
		_, err := r.db.ReadWrite.ExecContext(ctx, `
			INSERT INTO exercise_preferences (
				user_id, exercise_name, preference_score, effectiveness_score,
				data_points, last_performed, version
			) VALUES (?, ?, ?, ?, ?, ?, 0)`,
			userID, pref.ExerciseName, pref.PreferenceScore, pref.EffectivenessScore,
			pref.DataPoints, lastPerformed)
		if err != nil {
			if isConstraintViolation(err) {
				return false, nil
			}
			return false, fmt.Errorf("insert exercise preference: %w", err)
		}
		return true, nil
	}

	result, err := r.db.ReadWrite.ExecContext(ctx, `
		UPDATE exercise_preferences
		SET preference_score = ?, effectiveness_score = ?, data_points = ?,
		    last_performed = ?, version = version + 1
		WHERE user_id = ? AND exercise_name = ? AND version = ?`,
		pref.PreferenceScore, pref.EffectivenessScore, pref.DataPoints,
		lastPerformed, userID, pref.ExerciseName, version)
	if err != nil {
		return false, fmt.Errorf("update exercise preference: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected == 1, nil
}
