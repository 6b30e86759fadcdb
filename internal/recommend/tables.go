package recommend

// Static lookup data of the engine. These tables are read-only after
// initialization and must not be mutated at runtime.

// goalPools lists candidate exercise names per goal in priority order.
// Pool order breaks score ties and drives backfill.
func goalPools() map[Goal][]string {
	return map[Goal][]string{
		GoalDiet: {
			"Burpee", "Jumping Jack", "Mountain Climber", "Jump Rope",
			"Squat", "Lunge", "Kettlebell Swing", "Push-up", "Plank",
			"Step-up", "Bear Crawl", "Russian Twist",
		},
		GoalMuscleGain: {
			"Bench Press", "Squat", "Deadlift", "Pull-up", "Shoulder Press",
			"Dumbbell Row", "Leg Press", "Lunge", "Tricep Dip", "Bicep Curl",
			"Glute Bridge", "Plank", "Leg Raise",
		},
		GoalEndurance: {
			"Jump Rope", "Jumping Jack", "Mountain Climber", "Burpee",
			"Step-up", "Squat", "Lunge", "Push-up", "Bear Crawl",
			"Plank", "Calf Raise", "Crunch",
		},
	}
}

// defaultPool serves unknown goals.
func defaultPool() []string {
	return []string{
		"Push-up", "Squat", "Plank", "Lunge", "Dumbbell Row",
		"Glute Bridge", "Jumping Jack", "Crunch", "Step-up", "Burpee",
	}
}

// goalSuitability maps how well each exercise serves a goal, 0..1.
// Exercises absent from a goal's map score the neutral defaultSuitability.
const defaultSuitability = 0.6

func goalSuitability() map[Goal]map[string]float64 {
	return map[Goal]map[string]float64{
		GoalDiet: {
			"Burpee": 0.95, "Jumping Jack": 0.9, "Mountain Climber": 0.9,
			"Jump Rope": 0.95, "Kettlebell Swing": 0.85, "Squat": 0.75,
			"Lunge": 0.7, "Bear Crawl": 0.8, "Step-up": 0.75,
			"Push-up": 0.65, "Plank": 0.6, "Russian Twist": 0.6,
		},
		GoalMuscleGain: {
			"Bench Press": 0.95, "Squat": 0.95, "Deadlift": 0.95,
			"Pull-up": 0.9, "Shoulder Press": 0.85, "Dumbbell Row": 0.85,
			"Leg Press": 0.8, "Lunge": 0.75, "Tricep Dip": 0.75,
			"Bicep Curl": 0.7, "Glute Bridge": 0.7, "Plank": 0.6,
			"Leg Raise": 0.6,
		},
		GoalEndurance: {
			"Jump Rope": 0.95, "Jumping Jack": 0.9, "Mountain Climber": 0.85,
			"Burpee": 0.85, "Step-up": 0.8, "Squat": 0.7, "Lunge": 0.7,
			"Push-up": 0.7, "Bear Crawl": 0.75, "Plank": 0.65,
			"Calf Raise": 0.6, "Crunch": 0.6,
		},
	}
}

// tierLimits bounds the exercise count and caps exercises per muscle group
// for an experience tier.
type tierLimits struct {
	minExercises  int
	maxExercises  int
	muscleTargets map[string]int
}

func limitsForExperience(exp Experience) tierLimits {
	switch exp {
	case ExperienceIntermediate:
		return tierLimits{
			minExercises: 5,
			maxExercises: 5,
			muscleTargets: map[string]int{
				"upper": 2, "lower": 2, "core": 1, "full_body": 1,
			},
		}
	case ExperienceAdvanced:
		return tierLimits{
			minExercises: 6,
			maxExercises: 7,
			muscleTargets: map[string]int{
				"upper": 3, "lower": 2, "core": 1, "full_body": 1,
			},
		}
	default:
		return tierLimits{
			minExercises: 3,
			maxExercises: 4,
			muscleTargets: map[string]int{
				"upper": 1, "lower": 1, "core": 1, "full_body": 1,
			},
		}
	}
}

// fitnessLevelForExperience seeds the default profile before enough history
// has accumulated.
func fitnessLevelForExperience(exp Experience) float64 {
	switch exp {
	case ExperienceIntermediate:
		return 0.5
	case ExperienceAdvanced:
		return 0.7
	default:
		return 0.3
	}
}

// genericTemplate serves exercises missing from the catalog.
func genericTemplate(name string) ExerciseTemplate {
	return ExerciseTemplate{
		Name:            name,
		MuscleGroup:     "full_body",
		Difficulty:      0.5,
		METs:            4.0,
		BaseSets:        3,
		BaseReps:        12,
		BaseRestSeconds: 60,
	}
}

func warmupBlock() []string {
	return []string{
		"5 minutes of light cardio",
		"Arm circles and shoulder rolls",
		"Dynamic leg swings",
		"Torso rotations",
	}
}

func cooldownBlock() []string {
	return []string{
		"5 minutes of walking",
		"Standing quad stretch",
		"Chest and shoulder stretch",
		"Deep breathing",
	}
}
