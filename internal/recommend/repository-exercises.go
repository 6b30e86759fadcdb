package recommend

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jhpark-coder/fitcoach/internal/errors"
	"github.com/jhpark-coder/fitcoach/internal/sqlite"
)

// sqliteExerciseRepository serves the exercise catalog.
type sqliteExerciseRepository struct {
	baseRepository
}

func newSQLiteExerciseRepository(db *sqlite.Database, logger *slog.Logger) *sqliteExerciseRepository {
	return &sqliteExerciseRepository{
		baseRepository: newBaseRepository(db, logger),
	}
}

// Get retrieves a single exercise template by name.
func (r *sqliteExerciseRepository) Get(ctx context.Context, name string) (ExerciseTemplate, error) {
	var template ExerciseTemplate
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT name, muscle_group, difficulty, mets, base_sets, base_reps, base_rest_seconds
		FROM exercises
		WHERE name = ?`, name).Scan(
		&template.Name,
		&template.MuscleGroup,
		&template.Difficulty,
		&template.METs,
		&template.BaseSets,
		&template.BaseReps,
		&template.BaseRestSeconds,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ExerciseTemplate{}, ErrNotFound
	}
	if err != nil {
		return ExerciseTemplate{}, fmt.Errorf("query exercise: %w", err)
	}
	return template, nil
}

// List retrieves the whole exercise catalog keyed by name.
func (r *sqliteExerciseRepository) List(ctx context.Context) (_ map[string]ExerciseTemplate, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT name, muscle_group, difficulty, mets, base_sets, base_reps, base_rest_seconds
		FROM exercises`)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	catalog := map[string]ExerciseTemplate{}
	for rows.Next() {
		var template ExerciseTemplate
		if err = rows.Scan(
			&template.Name,
			&template.MuscleGroup,
			&template.Difficulty,
			&template.METs,
			&template.BaseSets,
			&template.BaseReps,
			&template.BaseRestSeconds,
		); err != nil {
			return nil, fmt.Errorf("scan exercise row: %w", err)
		}
		catalog[template.Name] = template
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return catalog, nil
}
