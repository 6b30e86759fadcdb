package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/jhpark-coder/fitcoach/internal/contexthelpers"
	"github.com/jhpark-coder/fitcoach/internal/errors"
	"github.com/jhpark-coder/fitcoach/internal/sqlite"
)

const (
	minDurationMinutes = 15
	maxDurationMinutes = 180
)

// Service handles the business logic of workout recommendation and
// preference learning.
type Service struct {
	repo   *repository
	logger *slog.Logger
	// now is swappable so tests can pin the clock.
	now func() time.Time
}

// NewService creates a new recommendation service.
func NewService(db *sqlite.Database, logger *slog.Logger) *Service {
	factory := newRepositoryFactory(db, logger)
	return &Service{
		repo:   factory.newRepository(),
		logger: logger,
		now:    time.Now,
	}
}

// Recommend builds a workout plan for the authenticated user.
func (s *Service) Recommend(ctx context.Context, req RecommendationRequest) (Plan, error) {
	if err := validateRequest(ctx, req); err != nil {
		return Plan{}, err
	}
	now := s.now()

	records, err := s.recentFeedback(ctx, now)
	if err != nil {
		return Plan{}, err
	}
	prefs, err := s.repo.prefs.List(ctx)
	if err != nil {
		return Plan{}, fmt.Errorf("list preferences: %w", err)
	}
	catalog, err := s.repo.exercises.List(ctx)
	if err != nil {
		return Plan{}, fmt.Errorf("list exercise catalog: %w", err)
	}

	profile := calculateProfile(req.Goal, req.Experience, records)

	selected := selectExercises(selectInput{
		profile:        profile,
		goal:           req.Goal,
		experience:     req.Experience,
		targetMinutes:  req.DurationMinutes,
		records:        records,
		preferences:    prefs,
		catalog:        catalog,
		qualitySignals: req.QualitySignals,
		now:            now,
	})

	adapted := make([]PlannedExercise, 0, len(selected))
	progressSince := now.AddDate(0, 0, -progressWindowDays)
	for _, template := range selected {
		if _, ok := catalog[template.Name]; !ok {
			// Catalog misses are served by the generic template, not failed.
			s.logger.LogAttrs(ctx, slog.LevelWarn, "exercise missing from catalog",
				slog.String("exerciseName", template.Name))
		}
		executions, err := s.repo.feedback.ListExecutionsSince(ctx, template.Name, progressSince)
		if err != nil {
			return Plan{}, fmt.Errorf("list executions for %s: %w", template.Name, err)
		}
		adapted = append(adapted, adaptExercise(profile, template, progressFor(executions)))
	}

	return assemblePlan(profile, adapted, req.DurationMinutes, req.BodyWeightKg), nil
}

// SubmitFeedback persists a completed session and folds it into the learned
// preferences of every executed exercise.
func (s *Service) SubmitFeedback(ctx context.Context, record FeedbackRecord) error {
	if err := validateFeedback(ctx, record); err != nil {
		return err
	}

	if err := s.repo.feedback.Create(ctx, record); err != nil {
		return fmt.Errorf("create feedback record: %w", err)
	}

	for _, execution := range record.Executions {
		incoming := observationFromSession(record, execution)
		performedAt := execution.PerformedAt
		err := s.repo.prefs.Update(ctx, execution.ExerciseName, func(pref *ExercisePreference) error {
			applyObservation(pref, incoming.preference, incoming.effectiveness)
			if pref.LastPerformed == nil || performedAt.After(*pref.LastPerformed) {
				pref.LastPerformed = &performedAt
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("learn preference for %s: %w", execution.ExerciseName, err)
		}
	}
	return nil
}

// Profile exposes the derived fitness profile of the authenticated user.
func (s *Service) Profile(ctx context.Context, goal Goal, exp Experience) (FitnessProfile, error) {
	if err := requireUser(ctx); err != nil {
		return FitnessProfile{}, err
	}
	records, err := s.recentFeedback(ctx, s.now())
	if err != nil {
		return FitnessProfile{}, err
	}
	return calculateProfile(goal, exp, records), nil
}

// Preferences lists the learned preference rows of the authenticated user.
func (s *Service) Preferences(ctx context.Context) ([]ExercisePreference, error) {
	if err := requireUser(ctx); err != nil {
		return nil, err
	}
	prefs, err := s.repo.prefs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	result := make([]ExercisePreference, 0, len(prefs))
	for _, pref := range prefs {
		result = append(result, pref)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ExerciseName < result[j].ExerciseName
	})
	return result, nil
}

func (s *Service) recentFeedback(ctx context.Context, now time.Time) ([]FeedbackRecord, error) {
	since := now.AddDate(0, 0, -historyWindowDays)
	records, err := s.repo.feedback.ListSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("list recent feedback: %w", err)
	}
	return records, nil
}

func validateRequest(ctx context.Context, req RecommendationRequest) error {
	if err := requireUser(ctx); err != nil {
		return err
	}
	if req.Goal == "" {
		return errors.Wrap(ErrInvalidInput, "goal is required")
	}
	if req.DurationMinutes < minDurationMinutes || req.DurationMinutes > maxDurationMinutes {
		return errors.Wrap(ErrInvalidInput, "duration out of range",
			slog.Int("durationMinutes", req.DurationMinutes))
	}
	if req.BodyWeightKg <= 0 {
		return errors.Wrap(ErrInvalidInput, "body weight must be positive")
	}
	return nil
}

func validateFeedback(ctx context.Context, record FeedbackRecord) error {
	if err := requireUser(ctx); err != nil {
		return err
	}
	if record.SessionID == "" {
		return errors.Wrap(ErrInvalidInput, "session id is required")
	}
	if record.CompletedAt.IsZero() {
		return errors.Wrap(ErrInvalidInput, "completion time is required")
	}
	for _, execution := range record.Executions {
		if execution.ExerciseName == "" {
			return errors.Wrap(ErrInvalidInput, "execution exercise name is required")
		}
	}
	return nil
}

func requireUser(ctx context.Context) error {
	if contexthelpers.AuthenticatedUserID(ctx) == 0 {
		return errors.Wrap(ErrInvalidInput, "missing authenticated user")
	}
	return nil
}
