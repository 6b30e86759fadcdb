package recommend

const (
	warmupMinutes   = 5
	cooldownMinutes = 5
)

// assemblePlan wraps the adapted exercises with warm-up and cool-down blocks
// and estimates the session's calories from MET values.
func assemblePlan(profile FitnessProfile, exercises []PlannedExercise, durationMinutes int, bodyWeightKg float64) Plan {
	return Plan{
		Goal:              profile.Goal,
		Warmup:            warmupBlock(),
		Exercises:         exercises,
		Cooldown:          cooldownBlock(),
		DurationMinutes:   durationMinutes,
		EstimatedCalories: estimateCalories(exercises, durationMinutes, bodyWeightKg),
		Tips:              tipsForProfile(profile),
	}
}

// estimateCalories sums per-exercise burn using the standard MET formula
// calories/min = METs * kg * 3.5 / 200, splitting the main block evenly.
func estimateCalories(exercises []PlannedExercise, durationMinutes int, bodyWeightKg float64) float64 {
	if len(exercises) == 0 || bodyWeightKg <= 0 {
		return 0
	}
	mainMinutes := durationMinutes - warmupMinutes - cooldownMinutes
	if mainMinutes < len(exercises) {
		mainMinutes = len(exercises)
	}
	perExercise := float64(mainMinutes) / float64(len(exercises))

	var total float64
	for _, e := range exercises {
		total += e.Intensity * bodyWeightKg * 3.5 / 200 * perExercise
	}
	return total
}

// tipsForProfile picks coaching tips from fixed profile thresholds. The
// checks run in a fixed order so identical profiles yield identical tips.
func tipsForProfile(profile FitnessProfile) []string {
	var tips []string
	if profile.FitnessLevel < 0.4 {
		tips = append(tips, "Focus on form over speed while you build a base.")
	} else if profile.FitnessLevel > 0.7 {
		tips = append(tips, "You are ready to push intensity on your strong lifts.")
	}
	if profile.ProgressTrend < -0.1 {
		tips = append(tips, "Recent sessions dipped. A lighter week can restart progress.")
	} else if profile.ProgressTrend > 0.1 {
		tips = append(tips, "You are trending up. Keep the current routine going.")
	}
	if profile.MotivationLevel < 0.4 {
		tips = append(tips, "Shorter sessions count too. Consistency beats volume.")
	}
	if profile.RecoveryPattern < 2.5 {
		tips = append(tips, "Soreness is lingering. Prioritize sleep and rest days.")
	}
	if len(tips) == 0 {
		tips = append(tips, "Stay consistent and log your sessions for better plans.")
	}
	return tips
}
