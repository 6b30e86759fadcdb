package recommend_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jhpark-coder/fitcoach/internal/contexthelpers"
	"github.com/jhpark-coder/fitcoach/internal/errors"
	"github.com/jhpark-coder/fitcoach/internal/ptr"
	"github.com/jhpark-coder/fitcoach/internal/recommend"
	"github.com/jhpark-coder/fitcoach/internal/sqlite"
	"github.com/jhpark-coder/fitcoach/internal/testhelpers"
)

func newTestService(t *testing.T) (*recommend.Service, context.Context) {
	t.Helper()
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))

	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("create test database: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Errorf("close database: %v", closeErr)
		}
	})

	svc := recommend.NewService(db, logger)
	return svc, contexthelpers.AuthenticateContext(ctx, 1)
}

func TestService_RecommendForNewUser(t *testing.T) {
	svc, ctx := newTestService(t)

	plan, err := svc.Recommend(ctx, recommend.RecommendationRequest{
		Goal:            recommend.GoalDiet,
		DurationMinutes: 45,
		BodyWeightKg:    70,
		Experience:      recommend.ExperienceBeginner,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if len(plan.Exercises) < 3 || len(plan.Exercises) > 4 {
		t.Errorf("got %d exercises, want 3-4 for a new beginner", len(plan.Exercises))
	}
	if plan.EstimatedCalories <= 0 {
		t.Errorf("EstimatedCalories = %v, want positive", plan.EstimatedCalories)
	}
	if len(plan.Warmup) == 0 || len(plan.Cooldown) == 0 {
		t.Error("plan must include warmup and cooldown blocks")
	}
	for _, exercise := range plan.Exercises {
		if exercise.Sets < 2 || exercise.Sets > 6 {
			t.Errorf("%s: Sets = %d, want within [2, 6]", exercise.Name, exercise.Sets)
		}
		if exercise.Reps < 5 {
			t.Errorf("%s: Reps = %d, want >= 5", exercise.Name, exercise.Reps)
		}
		if exercise.RestSeconds < 30 {
			t.Errorf("%s: RestSeconds = %d, want >= 30", exercise.Name, exercise.RestSeconds)
		}
	}
}

func TestService_RecommendValidatesInput(t *testing.T) {
	svc, ctx := newTestService(t)

	tests := []struct {
		name string
		ctx  context.Context
		req  recommend.RecommendationRequest
	}{
		{
			name: "missing user",
			ctx:  t.Context(),
			req: recommend.RecommendationRequest{
				Goal: recommend.GoalDiet, DurationMinutes: 45, BodyWeightKg: 70,
			},
		},
		{
			name: "missing goal",
			ctx:  ctx,
			req:  recommend.RecommendationRequest{DurationMinutes: 45, BodyWeightKg: 70},
		},
		{
			name: "duration too short",
			ctx:  ctx,
			req: recommend.RecommendationRequest{
				Goal: recommend.GoalDiet, DurationMinutes: 5, BodyWeightKg: 70,
			},
		},
		{
			name: "non-positive body weight",
			ctx:  ctx,
			req: recommend.RecommendationRequest{
				Goal: recommend.GoalDiet, DurationMinutes: 45, BodyWeightKg: -1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Recommend(tt.ctx, tt.req)
			if !errors.Is(err, recommend.ErrInvalidInput) {
				t.Errorf("Recommend error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestService_FeedbackDrivesPreferences(t *testing.T) {
	svc, ctx := newTestService(t)

	now := time.Now()
	err := svc.SubmitFeedback(ctx, recommend.FeedbackRecord{
		SessionID:      "session-1",
		CompletedAt:    now.Add(-time.Hour),
		CompletionRate: 1.0,
		Satisfaction:   ptr.Ref(5),
		WouldRepeat:    true,
		Executions: []recommend.ExerciseExecution{
			{
				ExerciseName: "Squat",
				PlannedSets:  3, CompletedSets: 3,
				PlannedReps: 12, CompletedReps: 12,
				RPE:         ptr.Ref(6),
				PerformedAt: now.Add(-time.Hour),
			},
		},
	})
	if err != nil {
		t.Fatalf("SubmitFeedback: %v", err)
	}

	prefs, err := svc.Preferences(ctx)
	if err != nil {
		t.Fatalf("Preferences: %v", err)
	}
	if len(prefs) != 1 {
		t.Fatalf("got %d preference rows, want 1", len(prefs))
	}
	pref := prefs[0]
	if pref.ExerciseName != "Squat" {
		t.Errorf("ExerciseName = %q, want Squat", pref.ExerciseName)
	}
	if pref.DataPoints != 1 {
		t.Errorf("DataPoints = %d, want 1", pref.DataPoints)
	}
	if pref.PreferenceScore <= 0 {
		t.Errorf("PreferenceScore = %v, want positive after a great session", pref.PreferenceScore)
	}
	if pref.LastPerformed == nil {
		t.Error("LastPerformed should be set after feedback")
	}
}

func TestService_PreferenceConvergesOverSessions(t *testing.T) {
	svc, ctx := newTestService(t)

	now := time.Now()
	var lastScore float64
	lastDelta := 2.0
	for i := 0; i < 10; i++ {
		performedAt := now.Add(-time.Duration(10-i) * 24 * time.Hour)
		err := svc.SubmitFeedback(ctx, recommend.FeedbackRecord{
			SessionID:      fmt.Sprintf("session-%d", i),
			CompletedAt:    performedAt,
			CompletionRate: 1.0,
			Satisfaction:   ptr.Ref(5),
			WouldRepeat:    true,
			Executions: []recommend.ExerciseExecution{
				{
					ExerciseName: "Squat",
					PlannedSets:  3, CompletedSets: 3,
					PlannedReps: 12, CompletedReps: 12,
					RPE:         ptr.Ref(6),
					PerformedAt: performedAt,
				},
			},
		})
		if err != nil {
			t.Fatalf("SubmitFeedback %d: %v", i, err)
		}

		prefs, err := svc.Preferences(ctx)
		if err != nil {
			t.Fatalf("Preferences: %v", err)
		}
		if len(prefs) != 1 {
			t.Fatalf("got %d preference rows, want 1", len(prefs))
		}
		delta := prefs[0].PreferenceScore - lastScore
		if delta <= 0 {
			t.Fatalf("update %d: score did not move toward the incoming value", i+1)
		}
		if delta >= lastDelta {
			t.Fatalf("update %d: delta %v did not shrink from %v", i+1, delta, lastDelta)
		}
		lastScore = prefs[0].PreferenceScore
		lastDelta = delta
	}

	prefs, err := svc.Preferences(ctx)
	if err != nil {
		t.Fatalf("Preferences: %v", err)
	}
	if got := prefs[0].Confidence(); got != 1.0 {
		t.Errorf("Confidence = %v, want 1.0 after 10 sessions", got)
	}
	if prefs[0].PreferenceScore <= 0.5 {
		t.Errorf("PreferenceScore = %v, want converged well above 0.5", prefs[0].PreferenceScore)
	}
}

func TestService_ProfileReflectsHistory(t *testing.T) {
	svc, ctx := newTestService(t)

	// Before any feedback the profile is the experience-tier default.
	profile, err := svc.Profile(ctx, recommend.GoalMuscleGain, recommend.ExperienceAdvanced)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if profile.FitnessLevel != 0.7 {
		t.Errorf("default FitnessLevel = %v, want 0.7 for advanced", profile.FitnessLevel)
	}
	if profile.DataPoints != 0 {
		t.Errorf("DataPoints = %d, want 0", profile.DataPoints)
	}

	now := time.Now()
	for i := 0; i < 4; i++ {
		performedAt := now.Add(-time.Duration(8-2*i) * 24 * time.Hour)
		err = svc.SubmitFeedback(ctx, recommend.FeedbackRecord{
			SessionID:      fmt.Sprintf("session-%d", i),
			CompletedAt:    performedAt,
			CompletionRate: 0.9,
			Satisfaction:   ptr.Ref(4),
			Difficulty:     ptr.Ref(3),
			EnergyAfter:    ptr.Ref(4),
			MuscleSoreness: ptr.Ref(2),
			WouldRepeat:    true,
		})
		if err != nil {
			t.Fatalf("SubmitFeedback %d: %v", i, err)
		}
	}

	profile, err = svc.Profile(ctx, recommend.GoalMuscleGain, recommend.ExperienceAdvanced)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if profile.DataPoints != 4 {
		t.Errorf("DataPoints = %d, want 4", profile.DataPoints)
	}
	if profile.Confidence <= 0.3 {
		t.Errorf("Confidence = %v, want above 0.3 with 4 consistent sessions", profile.Confidence)
	}
	if profile.PreferredDifficulty != 3.0 {
		t.Errorf("PreferredDifficulty = %v, want 3.0", profile.PreferredDifficulty)
	}
}

func TestService_UsersAreIsolated(t *testing.T) {
	svc, ctx := newTestService(t)

	now := time.Now()
	err := svc.SubmitFeedback(ctx, recommend.FeedbackRecord{
		SessionID:      "session-1",
		CompletedAt:    now.Add(-time.Hour),
		CompletionRate: 1.0,
		Satisfaction:   ptr.Ref(5),
		WouldRepeat:    true,
		Executions: []recommend.ExerciseExecution{
			{
				ExerciseName: "Squat",
				PlannedSets:  3, CompletedSets: 3,
				PlannedReps: 12, CompletedReps: 12,
				PerformedAt: now.Add(-time.Hour),
			},
		},
	})
	if err != nil {
		t.Fatalf("SubmitFeedback: %v", err)
	}

	otherCtx := contexthelpers.AuthenticateContext(t.Context(), 2)
	prefs, err := svc.Preferences(otherCtx)
	if err != nil {
		t.Fatalf("Preferences: %v", err)
	}
	if len(prefs) != 0 {
		t.Errorf("user 2 sees %d preference rows, want 0", len(prefs))
	}
}

func TestService_FeedbackValidation(t *testing.T) {
	svc, ctx := newTestService(t)

	err := svc.SubmitFeedback(ctx, recommend.FeedbackRecord{
		CompletedAt:    time.Now(),
		CompletionRate: 1.0,
	})
	if !errors.Is(err, recommend.ErrInvalidInput) {
		t.Errorf("missing session id error = %v, want ErrInvalidInput", err)
	}

	err = svc.SubmitFeedback(ctx, recommend.FeedbackRecord{
		SessionID:      "session-1",
		CompletedAt:    time.Now(),
		CompletionRate: 1.0,
		Executions:     []recommend.ExerciseExecution{{}},
	})
	if !errors.Is(err, recommend.ErrInvalidInput) {
		t.Errorf("unnamed execution error = %v, want ErrInvalidInput", err)
	}
}
