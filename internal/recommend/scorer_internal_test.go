package recommend

import (
	"testing"
	"time"

	"github.com/jhpark-coder/fitcoach/internal/ptr"
)

func TestScoringWeights_SumToOne(t *testing.T) {
	sum := weightGoalFit + weightQualitySignal + weightLearnedPreference +
		weightFitnessLevelFit + weightRecentFeedback + weightNoveltyBonus
	if sum != 1.0 {
		t.Errorf("scoring weights sum to %v, want exactly 1.0", sum)
	}
}

func TestScoreExercise_StaysBounded(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	template := ExerciseTemplate{Name: "Burpee", MuscleGroup: "full_body", Difficulty: 0.7}

	tests := []struct {
		name string
		in   scoreInput
	}{
		{
			name: "everything favorable",
			in: scoreInput{
				profile:  FitnessProfile{FitnessLevel: 0.7, Confidence: 1},
				template: template,
				goal:     GoalDiet,
				preference: ExercisePreference{
					ExerciseName: "Burpee", PreferenceScore: 1, DataPoints: 10,
				},
				qualitySignal: ptr.Ref(1.0),
			},
		},
		{
			name: "everything hostile",
			in: scoreInput{
				profile:  FitnessProfile{FitnessLevel: 0, Confidence: 1},
				template: ExerciseTemplate{Name: "Burpee", MuscleGroup: "full_body", Difficulty: 1},
				goal:     Goal("unknown"),
				preference: ExercisePreference{
					ExerciseName: "Burpee", PreferenceScore: -1, DataPoints: 10,
				},
				qualitySignal:      ptr.Ref(-3.0),
				recentPerformCount: 9,
			},
		},
		{
			name: "out-of-range stored data",
			in: scoreInput{
				profile:  FitnessProfile{FitnessLevel: 5, Confidence: 1},
				template: ExerciseTemplate{Name: "Burpee", Difficulty: -2},
				goal:     GoalDiet,
				preference: ExercisePreference{
					ExerciseName: "Burpee", PreferenceScore: 7, DataPoints: 100,
				},
				qualitySignal: ptr.Ref(12.0),
				recentSessions: []FeedbackRecord{
					{CompletedAt: now, Satisfaction: ptr.Ref(9), Difficulty: ptr.Ref(-4)},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := scoreExercise(tt.in)
			assertInRange(t, "score", score, 0, 1)
		})
	}
}

func TestLearnedPreference_GatedByConfidence(t *testing.T) {
	liked := ExercisePreference{ExerciseName: "Squat", PreferenceScore: 0.8}

	liked.DataPoints = 2
	if got := learnedPreference(liked); got != 0 {
		t.Errorf("learnedPreference with 2 data points = %v, want neutral 0", got)
	}

	liked.DataPoints = 3
	if got := learnedPreference(liked); got != 0.8 {
		t.Errorf("learnedPreference with 3 data points = %v, want raw score 0.8", got)
	}

	disliked := ExercisePreference{ExerciseName: "Burpee", PreferenceScore: -0.4, DataPoints: 5}
	if got := learnedPreference(disliked); got != -0.4 {
		t.Errorf("learnedPreference of a confident negative score = %v, want -0.4", got)
	}
}

func TestLearnedPreference_NeutralScoreHasNoInfluence(t *testing.T) {
	// Crossing the confidence threshold with a neutral score must not change
	// the term, otherwise candidates with trusted history would jump ahead of
	// candidates without any.
	neutral := ExercisePreference{ExerciseName: "Plank", PreferenceScore: 0}

	neutral.DataPoints = 0
	untrusted := learnedPreference(neutral)
	neutral.DataPoints = 10
	trusted := learnedPreference(neutral)

	if untrusted != 0 || trusted != 0 {
		t.Errorf("learnedPreference neutral = %v untrusted, %v trusted, want 0 for both",
			untrusted, trusted)
	}
}

func TestNoveltyBonus_Tiers(t *testing.T) {
	tests := []struct {
		count int
		want  float64
	}{
		{count: 0, want: 1.0},
		{count: 1, want: 0.7},
		{count: 2, want: 0.7},
		{count: 3, want: 0.3},
		{count: 4, want: 0.3},
		{count: 5, want: 0.0},
	}
	for _, tt := range tests {
		if got := noveltyBonus(tt.count); got != tt.want {
			t.Errorf("noveltyBonus(%d) = %v, want %v", tt.count, got, tt.want)
		}
	}
}

func TestQualitySignal_NeutralWhenAbsent(t *testing.T) {
	if got := qualitySignal(nil); got != 0.5 {
		t.Errorf("qualitySignal(nil) = %v, want 0.5", got)
	}
	if got := qualitySignal(ptr.Ref(0.9)); got != 0.9 {
		t.Errorf("qualitySignal(0.9) = %v, want 0.9", got)
	}
}

func TestRecentFeedbackQuality_RecencyBias(t *testing.T) {
	if got := recentFeedbackQuality(nil); got != 0.5 {
		t.Errorf("recentFeedbackQuality(nil) = %v, want neutral 0.5", got)
	}

	// A bad session followed by a good one must score higher than the
	// reverse order, because later sessions weigh more.
	bad := FeedbackRecord{Satisfaction: ptr.Ref(1), Difficulty: ptr.Ref(5), WouldRepeat: false}
	good := FeedbackRecord{Satisfaction: ptr.Ref(5), Difficulty: ptr.Ref(3), WouldRepeat: true}

	improving := recentFeedbackQuality([]FeedbackRecord{bad, good})
	declining := recentFeedbackQuality([]FeedbackRecord{good, bad})

	if improving <= declining {
		t.Errorf("improving history scored %v, declining %v, want improving higher",
			improving, declining)
	}
}

func TestGoalFit_DefaultForUnknownPairs(t *testing.T) {
	if got := goalFit(GoalMuscleGain, "Jump Rope"); got != defaultSuitability {
		t.Errorf("goalFit for unmapped exercise = %v, want default %v", got, defaultSuitability)
	}
	if got := goalFit(GoalDiet, "Burpee"); got != 0.95 {
		t.Errorf("goalFit(diet, Burpee) = %v, want 0.95", got)
	}
}

func TestPerformCountSince_CountsWithinWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []FeedbackRecord{
		{
			CompletedAt: now.AddDate(0, 0, -2),
			Executions: []ExerciseExecution{
				{ExerciseName: "Squat", PerformedAt: now.AddDate(0, 0, -2)},
				{ExerciseName: "Plank", PerformedAt: now.AddDate(0, 0, -2)},
			},
		},
		{
			CompletedAt: now.AddDate(0, 0, -20),
			Executions: []ExerciseExecution{
				{ExerciseName: "Squat", PerformedAt: now.AddDate(0, 0, -20)},
			},
		},
	}

	if got := performCountSince(records, "Squat", now); got != 1 {
		t.Errorf("performCountSince = %d, want 1 (old execution outside window)", got)
	}
	if got := len(sessionsWithExercise(records, "Squat", now)); got != 2 {
		t.Errorf("sessionsWithExercise = %d, want 2 (21-day window)", got)
	}
}
