package recommend

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jhpark-coder/fitcoach/internal/contexthelpers"
	"github.com/jhpark-coder/fitcoach/internal/errors"
	"github.com/jhpark-coder/fitcoach/internal/sqlite"
)

// sqliteFeedbackRepository stores completed-session feedback with the
// per-exercise executions.
type sqliteFeedbackRepository struct {
	baseRepository
}

func newSQLiteFeedbackRepository(db *sqlite.Database, logger *slog.Logger) *sqliteFeedbackRepository {
	return &sqliteFeedbackRepository{
		baseRepository: newBaseRepository(db, logger),
	}
}

// Create persists a feedback record and its executions in one transaction.
// Feedback is immutable once written.
func (r *sqliteFeedbackRepository) Create(ctx context.Context, record FeedbackRecord) (err error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rollbackErr))
			}
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO feedback_records (
			user_id, session_id, completed_at, completion_rate,
			difficulty, satisfaction, energy_after, muscle_soreness,
			would_repeat, comment
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID,
		record.SessionID,
		formatTimestamp(record.CompletedAt),
		record.CompletionRate,
		nullableInt(record.Difficulty),
		nullableInt(record.Satisfaction),
		nullableInt(record.EnergyAfter),
		nullableInt(record.MuscleSoreness),
		record.WouldRepeat,
		record.Comment,
	)
	if err != nil {
		return fmt.Errorf("insert feedback record: %w", err)
	}

	for _, execution := range record.Executions {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO exercise_executions (
				user_id, session_id, exercise_name,
				planned_sets, completed_sets, planned_reps, completed_reps,
				planned_duration_sec, actual_duration_sec,
				rpe, form_accuracy, performed_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			userID,
			record.SessionID,
			execution.ExerciseName,
			execution.PlannedSets,
			execution.CompletedSets,
			execution.PlannedReps,
			execution.CompletedReps,
			execution.PlannedDurationSec,
			execution.ActualDurationSec,
			nullableInt(execution.RPE),
			nullableFloat(execution.FormAccuracy),
			formatTimestamp(execution.PerformedAt),
		)
		if err != nil {
			return fmt.Errorf("insert exercise execution: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ListSince retrieves feedback records newer than the given time with their
// executions, ordered oldest first.
func (r *sqliteFeedbackRepository) ListSince(ctx context.Context, since time.Time) (_ []FeedbackRecord, err error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT session_id, completed_at, completion_rate,
		       difficulty, satisfaction, energy_after, muscle_soreness,
		       would_repeat, comment
		FROM feedback_records
		WHERE user_id = ? AND completed_at > ?
		ORDER BY completed_at ASC`,
		userID, formatTimestamp(since))
	if err != nil {
		return nil, fmt.Errorf("query feedback records: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var records []FeedbackRecord
	for rows.Next() {
		var (
			record         FeedbackRecord
			completedAtStr string
			difficulty     sql.NullInt64
			satisfaction   sql.NullInt64
			energyAfter    sql.NullInt64
			muscleSoreness sql.NullInt64
		)
		if err = rows.Scan(
			&record.SessionID,
			&completedAtStr,
			&record.CompletionRate,
			&difficulty,
			&satisfaction,
			&energyAfter,
			&muscleSoreness,
			&record.WouldRepeat,
			&record.Comment,
		); err != nil {
			return nil, fmt.Errorf("scan feedback row: %w", err)
		}
		if record.CompletedAt, err = parseTimestamp(completedAtStr); err != nil {
			return nil, err
		}
		record.Difficulty = intPointer(difficulty)
		record.Satisfaction = intPointer(satisfaction)
		record.EnergyAfter = intPointer(energyAfter)
		record.MuscleSoreness = intPointer(muscleSoreness)

		if record.Executions, err = r.loadExecutions(ctx, userID, record.SessionID); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return records, nil
}

// ListExecutionsSince retrieves executions of one exercise newer than the
// given time, ordered oldest first.
func (r *sqliteFeedbackRepository) ListExecutionsSince(
	ctx context.Context,
	exerciseName string,
	since time.Time,
) (_ []ExerciseExecution, err error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT exercise_name, planned_sets, completed_sets, planned_reps, completed_reps,
		       planned_duration_sec, actual_duration_sec, rpe, form_accuracy, performed_at
		FROM exercise_executions
		WHERE user_id = ? AND exercise_name = ? AND performed_at > ?
		ORDER BY performed_at ASC`,
		userID, exerciseName, formatTimestamp(since))
	if err != nil {
		return nil, fmt.Errorf("query exercise executions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	executions, err := scanExecutions(rows)
	if err != nil {
		return nil, err
	}
	return executions, nil
}

// ListRecentExerciseNames retrieves distinct exercise names ordered by most
// recent execution, capped at limit.
func (r *sqliteFeedbackRepository) ListRecentExerciseNames(ctx context.Context, limit int) (_ []string, err error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT exercise_name
		FROM exercise_executions
		WHERE user_id = ?
		GROUP BY exercise_name
		ORDER BY MAX(performed_at) DESC
		LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent exercise names: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var names []string
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan exercise name: %w", err)
		}
		names = append(names, name)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return names, nil
}

func (r *sqliteFeedbackRepository) loadExecutions(
	ctx context.Context,
	userID int64,
	sessionID string,
) (_ []ExerciseExecution, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT exercise_name, planned_sets, completed_sets, planned_reps, completed_reps,
		       planned_duration_sec, actual_duration_sec, rpe, form_accuracy, performed_at
		FROM exercise_executions
		WHERE user_id = ? AND session_id = ?
		ORDER BY performed_at ASC`,
		userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query session executions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	executions, err := scanExecutions(rows)
	if err != nil {
		return nil, err
	}
	return executions, nil
}

func scanExecutions(rows *sql.Rows) ([]ExerciseExecution, error) {
	var executions []ExerciseExecution
	for rows.Next() {
		var (
			execution      ExerciseExecution
			rpe            sql.NullInt64
			formAccuracy   sql.NullFloat64
			performedAtStr string
		)
		if err := rows.Scan(
			&execution.ExerciseName,
			&execution.PlannedSets,
			&execution.CompletedSets,
			&execution.PlannedReps,
			&execution.CompletedReps,
			&execution.PlannedDurationSec,
			&execution.ActualDurationSec,
			&rpe,
			&formAccuracy,
			&performedAtStr,
		); err != nil {
			return nil, fmt.Errorf("scan execution row: %w", err)
		}
		execution.RPE = intPointer(rpe)
		if formAccuracy.Valid {
			execution.FormAccuracy = &formAccuracy.Float64
		}
		var err error
		if execution.PerformedAt, err = parseTimestamp(performedAtStr); err != nil {
			return nil, err
		}
		executions = append(executions, execution)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return executions, nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func intPointer(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
