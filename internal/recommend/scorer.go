package recommend

import (
	"math"
	"time"
)

// Scoring weights. They sum to exactly 1 so a fully favorable candidate
// cannot exceed 1 before the final clamp.
const (
	weightGoalFit           = 0.25
	weightQualitySignal     = 0.20
	weightLearnedPreference = 0.20
	weightFitnessLevelFit   = 0.15
	weightRecentFeedback    = 0.10
	weightNoveltyBonus      = 0.10
)

const (
	// feedbackQualityWindowDays bounds the recent-feedback component.
	feedbackQualityWindowDays = 21
	// noveltyWindowDays bounds how far back repetitions count against novelty.
	noveltyWindowDays = 14
)

// scoreInput gathers everything the scorer needs about one candidate.
type scoreInput struct {
	profile    FitnessProfile
	template   ExerciseTemplate
	goal       Goal
	preference ExercisePreference
	// qualitySignal is the optional external quality metric, nil when the
	// collaborator supplied nothing for this exercise.
	qualitySignal *float64
	// recentSessions are sessions within the feedback window that included
	// this exercise, sorted oldest first.
	recentSessions []FeedbackRecord
	// recentPerformCount is how many times the exercise was performed within
	// the novelty window.
	recentPerformCount int
}

// scoreExercise computes the candidate's suitability in [0,1].
func scoreExercise(in scoreInput) float64 {
	score := weightGoalFit*goalFit(in.goal, in.template.Name) +
		weightQualitySignal*qualitySignal(in.qualitySignal) +
		weightLearnedPreference*learnedPreference(in.preference) +
		weightFitnessLevelFit*fitnessLevelFit(in.profile, in.template) +
		weightRecentFeedback*recentFeedbackQuality(in.recentSessions) +
		weightNoveltyBonus*noveltyBonus(in.recentPerformCount)
	return clamp01(score)
}

func goalFit(goal Goal, name string) float64 {
	if fit, ok := goalSuitability()[goal][name]; ok {
		return clamp01(fit)
	}
	return defaultSuitability
}

func qualitySignal(signal *float64) float64 {
	if signal == nil {
		return 0.5
	}
	return clamp01(*signal)
}

// learnedPreference is the stored -1..1 preference score when the evidence is
// trustworthy, or 0 when it is too thin to move the ranking. A confident
// neutral score carries the same zero influence as an untrusted one.
func learnedPreference(pref ExercisePreference) float64 {
	if pref.Confidence() < preferenceConfidenceThreshold {
		return 0
	}
	return clamp(pref.PreferenceScore, -1, 1)
}

func fitnessLevelFit(profile FitnessProfile, template ExerciseTemplate) float64 {
	level := profile.FitnessLevel
	if profile.Confidence < preferenceConfidenceThreshold {
		level = 0.5
	}
	difficulty := template.Difficulty
	if difficulty == 0 {
		difficulty = 0.5
	}
	return clamp01(1 - math.Abs(level-clamp01(difficulty)))
}

// recentFeedbackQuality blends satisfaction, difficulty appropriateness, and
// repeat intent over recent sessions that included the exercise, weighting
// later sessions more heavily. Sessions must be sorted oldest first.
func recentFeedbackQuality(sessions []FeedbackRecord) float64 {
	if len(sessions) == 0 {
		return 0.5
	}
	var weightedSum, totalWeight float64
	for i, r := range sessions {
		weight := float64(i + 1)
		weightedSum += weight * sessionQuality(r)
		totalWeight += weight
	}
	return clamp01(weightedSum / totalWeight)
}

func sessionQuality(r FeedbackRecord) float64 {
	var sum float64
	var n int
	if r.Satisfaction != nil {
		sum += clamp01((clamp(float64(*r.Satisfaction), 1, 5) - 1) / 4)
		n++
	}
	if r.Difficulty != nil {
		sum += clamp01(1 - math.Abs(clamp(float64(*r.Difficulty), 1, 5)-3)/2)
		n++
	}
	if r.WouldRepeat {
		sum++
	}
	n++
	return sum / float64(n)
}

func noveltyBonus(recentPerformCount int) float64 {
	switch {
	case recentPerformCount == 0:
		return 1.0
	case recentPerformCount <= 2:
		return 0.7
	case recentPerformCount <= 4:
		return 0.3
	default:
		return 0.0
	}
}

// sessionsWithExercise filters sessions that executed the named exercise
// within the feedback window.
func sessionsWithExercise(records []FeedbackRecord, name string, now time.Time) []FeedbackRecord {
	cutoff := now.AddDate(0, 0, -feedbackQualityWindowDays)
	var matched []FeedbackRecord
	for _, r := range records {
		if !r.CompletedAt.After(cutoff) {
			continue
		}
		for _, e := range r.Executions {
			if e.ExerciseName == name {
				matched = append(matched, r)
				break
			}
		}
	}
	return matched
}

// performCountSince counts executions of the named exercise within the
// novelty window.
func performCountSince(records []FeedbackRecord, name string, now time.Time) int {
	cutoff := now.AddDate(0, 0, -noveltyWindowDays)
	count := 0
	for _, r := range records {
		for _, e := range r.Executions {
			if e.ExerciseName == name && e.PerformedAt.After(cutoff) {
				count++
			}
		}
	}
	return count
}
