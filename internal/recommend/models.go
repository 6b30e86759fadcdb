// Package recommend builds adaptive workout plans from workout history and
// learned exercise preferences.
package recommend

import "time"

// Goal is a training goal that selects the exercise pool and scoring profile.
type Goal string

const (
	GoalDiet       Goal = "diet"
	GoalMuscleGain Goal = "muscle_gain"
	GoalEndurance  Goal = "endurance"
)

// Experience buckets users by self-reported training background.
type Experience string

const (
	ExperienceBeginner     Experience = "beginner"
	ExperienceIntermediate Experience = "intermediate"
	ExperienceAdvanced     Experience = "advanced"
)

// FeedbackRecord is a completed workout session with the user's subjective
// ratings. The rating fields are optional because clients may submit partial
// feedback.
type FeedbackRecord struct {
	SessionID      string
	CompletedAt    time.Time
	CompletionRate float64
	Difficulty     *int
	Satisfaction   *int
	EnergyAfter    *int
	MuscleSoreness *int
	WouldRepeat    bool
	Comment        string
	Executions     []ExerciseExecution
}

// ExerciseExecution records how a single exercise went within a session.
type ExerciseExecution struct {
	ExerciseName       string
	PlannedSets        int
	CompletedSets      int
	PlannedReps        int
	CompletedReps      int
	PlannedDurationSec int
	ActualDurationSec  int
	RPE                *int
	FormAccuracy       *float64
	PerformedAt        time.Time
}

// CompletionRate is the fraction of planned work that was performed.
func (e ExerciseExecution) CompletionRate() float64 {
	planned := e.PlannedSets * e.PlannedReps
	if planned == 0 {
		return 0
	}
	return clamp01(float64(e.CompletedSets*e.CompletedReps) / float64(planned))
}

// FitnessProfile summarizes the user's recent training state.
type FitnessProfile struct {
	Goal                Goal
	FitnessLevel        float64
	AvgCompletionRate   float64
	PreferredDifficulty float64
	ProgressTrend       float64
	RecoveryPattern     float64
	MotivationLevel     float64
	Confidence          float64
	DataPoints          int
}

// ExercisePreference is the learned affinity for a single exercise.
// PreferenceScore ranges -1..1 and EffectivenessScore 0..1.
type ExercisePreference struct {
	ExerciseName       string
	PreferenceScore    float64
	EffectivenessScore float64
	DataPoints         int
	LastPerformed      *time.Time
}

// Confidence grows linearly with observations and saturates at 1.
func (p ExercisePreference) Confidence() float64 {
	return min(1, float64(p.DataPoints)*0.1)
}

// ExerciseTemplate is a catalog entry with baseline prescription values.
type ExerciseTemplate struct {
	Name            string
	MuscleGroup     string
	Difficulty      float64
	METs            float64
	BaseSets        int
	BaseReps        int
	BaseRestSeconds int
}

// PlannedExercise is one prescribed exercise in a workout plan.
type PlannedExercise struct {
	Name        string
	MuscleGroup string
	Sets        int
	Reps        int
	RestSeconds int
	Intensity   float64
}

// Plan is a complete workout recommendation.
type Plan struct {
	Goal              Goal
	Warmup            []string
	Exercises         []PlannedExercise
	Cooldown          []string
	DurationMinutes   int
	EstimatedCalories float64
	Tips              []string
}

// RecommendationRequest carries the per-request inputs of plan generation.
// QualitySignals are optional external per-exercise quality scores in 0..1.
type RecommendationRequest struct {
	Goal            Goal
	DurationMinutes int
	BodyWeightKg    float64
	Experience      Experience
	QualitySignals  map[string]float64
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}
