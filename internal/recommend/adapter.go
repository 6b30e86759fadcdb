package recommend

import "math"

const (
	// adaptationFactorLimit bounds how far the profile can push a plan away
	// from the base template in one step.
	adaptationFactorLimit = 0.3
	// progressWindowDays bounds the per-exercise progress lookback.
	progressWindowDays = 21

	minSets          = 2
	maxSets          = 6
	minReps          = 5
	minRestSeconds   = 30
	minIntensityMETs = 2.0
)

// exerciseProgress summarizes how one exercise has been going recently.
type exerciseProgress struct {
	completionRate float64
	// difficulty is on the 1..5 session scale, derived from RPE.
	difficulty float64
	dataPoints int
}

// adaptationFactor condenses the profile into a single progression signal.
func adaptationFactor(profile FitnessProfile) float64 {
	factor := 0.0
	if profile.AvgCompletionRate > 0.9 {
		factor += 0.15
	} else if profile.AvgCompletionRate < 0.7 {
		factor -= 0.15
	}
	if profile.PreferredDifficulty < 2.5 {
		factor += 0.1
	} else if profile.PreferredDifficulty > 4.0 {
		factor -= 0.1
	}
	if profile.ProgressTrend < -0.1 {
		// Plateau-breaking nudge.
		factor += 0.05
	}
	return clamp(factor, -adaptationFactorLimit, adaptationFactorLimit)
}

// progressFor computes recency-weighted progress from one exercise's recent
// executions, ordered oldest first. Later executions weigh more.
func progressFor(executions []ExerciseExecution) exerciseProgress {
	if len(executions) == 0 {
		return exerciseProgress{}
	}

	var completionSum, completionWeight float64
	var difficultySum, difficultyWeight float64
	for i, e := range executions {
		weight := float64(i + 1)
		completionSum += weight * e.CompletionRate()
		completionWeight += weight
		if e.RPE != nil {
			difficultySum += weight * clamp(float64(*e.RPE), 1, 10) / 2
			difficultyWeight += weight
		}
	}
	progress := exerciseProgress{
		completionRate: completionSum / completionWeight,
		difficulty:     3.0,
		dataPoints:     len(executions),
	}
	if difficultyWeight > 0 {
		progress.difficulty = clamp(difficultySum/difficultyWeight, 1, 5)
	}
	return progress
}

// adaptExercise turns a base template into a prescription tuned to the
// profile and the user's recent history with this exercise. Deterministic
// for identical inputs.
func adaptExercise(profile FitnessProfile, template ExerciseTemplate, progress exerciseProgress) PlannedExercise {
	factor := adaptationFactor(profile)

	sets := template.BaseSets + int(math.Round(factor*2))
	if progress.dataPoints > 0 {
		switch {
		case progress.completionRate > 0.9 && progress.difficulty < 2.5:
			sets = template.BaseSets + 1
		case progress.completionRate < 0.7 || progress.difficulty > 4.0:
			sets = template.BaseSets - 1
		}
	}
	sets = clampInt(sets, minSets, maxSets)

	reps := float64(template.BaseReps) * (1 + factor*0.3)
	if progress.dataPoints > 0 {
		switch {
		case progress.completionRate > 0.95 && progress.difficulty < 2.5:
			reps = float64(template.BaseReps) * 1.2
		case progress.completionRate < 0.6 || progress.difficulty > 4.0:
			reps = float64(template.BaseReps) * 0.8
		}
	}
	repsInt := int(math.Round(reps))
	if repsInt < minReps {
		repsInt = minReps
	}

	rest := float64(template.BaseRestSeconds) * (1 - ((profile.RecoveryPattern-3)/2)*0.2)
	restInt := int(math.Round(rest))
	if restInt < minRestSeconds {
		restInt = minRestSeconds
	}

	intensity := template.METs * (1 + factor*0.15)
	if intensity < minIntensityMETs {
		intensity = minIntensityMETs
	}

	return PlannedExercise{
		Name:        template.Name,
		MuscleGroup: template.MuscleGroup,
		Sets:        sets,
		Reps:        repsInt,
		RestSeconds: restInt,
		Intensity:   intensity,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
