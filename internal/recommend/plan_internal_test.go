package recommend

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEstimateCalories(t *testing.T) {
	exercises := []PlannedExercise{
		{Name: "Burpee", Intensity: 8.0},
	}

	// 40 minutes leaves a 30 minute main block for one exercise:
	// 8.0 METs * 70kg * 3.5 / 200 * 30min = 294 kcal.
	got := estimateCalories(exercises, 40, 70)
	if math.Abs(got-294) > 1e-9 {
		t.Errorf("estimateCalories = %v, want 294", got)
	}
}

func TestEstimateCalories_SplitsMainBlockEvenly(t *testing.T) {
	exercises := []PlannedExercise{
		{Name: "Squat", Intensity: 5.0},
		{Name: "Plank", Intensity: 3.0},
	}

	// 70 minutes leaves a 60 minute main block, 30 minutes per exercise:
	// (5.0 + 3.0) * 70 * 3.5 / 200 * 30 = 294 kcal.
	got := estimateCalories(exercises, 70, 70)
	if math.Abs(got-294) > 1e-9 {
		t.Errorf("estimateCalories = %v, want 294", got)
	}
}

func TestEstimateCalories_DegenerateInputs(t *testing.T) {
	if got := estimateCalories(nil, 40, 70); got != 0 {
		t.Errorf("no exercises should estimate 0 kcal, got %v", got)
	}
	if got := estimateCalories([]PlannedExercise{{Intensity: 5}}, 40, 0); got != 0 {
		t.Errorf("zero body weight should estimate 0 kcal, got %v", got)
	}
	// A duration shorter than the warmup and cooldown still yields a
	// positive main block.
	if got := estimateCalories([]PlannedExercise{{Intensity: 5}}, 5, 70); got <= 0 {
		t.Errorf("short duration should still estimate positive kcal, got %v", got)
	}
}

func TestTipsForProfile(t *testing.T) {
	tests := []struct {
		name     string
		profile  FitnessProfile
		wantTips int
	}{
		{
			name: "neutral profile gets the consistency tip",
			profile: FitnessProfile{
				FitnessLevel: 0.5, ProgressTrend: 0,
				MotivationLevel: 0.5, RecoveryPattern: 3,
			},
			wantTips: 1,
		},
		{
			name: "struggling profile gets several tips",
			profile: FitnessProfile{
				FitnessLevel: 0.2, ProgressTrend: -0.3,
				MotivationLevel: 0.2, RecoveryPattern: 1.5,
			},
			wantTips: 4,
		},
		{
			name: "thriving profile gets encouragement",
			profile: FitnessProfile{
				FitnessLevel: 0.8, ProgressTrend: 0.3,
				MotivationLevel: 0.9, RecoveryPattern: 4,
			},
			wantTips: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tips := tipsForProfile(tt.profile)
			if len(tips) != tt.wantTips {
				t.Errorf("got %d tips %q, want %d", len(tips), tips, tt.wantTips)
			}
			// Identical profiles must yield identical tips.
			if diff := cmp.Diff(tips, tipsForProfile(tt.profile)); diff != "" {
				t.Errorf("tips not deterministic:\n%s", diff)
			}
		})
	}
}

func TestAssemblePlan(t *testing.T) {
	profile := FitnessProfile{
		Goal: GoalDiet, FitnessLevel: 0.5, ProgressTrend: 0,
		MotivationLevel: 0.5, RecoveryPattern: 3,
	}
	exercises := []PlannedExercise{
		{Name: "Burpee", MuscleGroup: "full_body", Sets: 3, Reps: 10, RestSeconds: 60, Intensity: 8},
		{Name: "Squat", MuscleGroup: "lower", Sets: 3, Reps: 12, RestSeconds: 60, Intensity: 5},
	}

	plan := assemblePlan(profile, exercises, 45, 70)

	if plan.Goal != GoalDiet {
		t.Errorf("Goal = %v, want diet", plan.Goal)
	}
	if len(plan.Warmup) == 0 || len(plan.Cooldown) == 0 {
		t.Error("plan must include warmup and cooldown blocks")
	}
	if plan.DurationMinutes != 45 {
		t.Errorf("DurationMinutes = %d, want 45", plan.DurationMinutes)
	}
	if plan.EstimatedCalories <= 0 {
		t.Errorf("EstimatedCalories = %v, want positive", plan.EstimatedCalories)
	}
	if len(plan.Tips) == 0 {
		t.Error("plan must include at least one tip")
	}
	if diff := cmp.Diff(exercises, plan.Exercises); diff != "" {
		t.Errorf("exercises altered by assembly (-want +got):\n%s", diff)
	}
}
