package recommend

import (
	"sort"
	"time"
)

const (
	// recencyExclusionDays keeps recently performed exercises out of new
	// plans while the plan still has room for variety.
	recencyExclusionDays = 7
	// recencyExclusionFloor disables the recency rule until this many
	// exercises are accepted, so small pools cannot starve the plan.
	recencyExclusionFloor = 4
	// vetoPreferenceScore is the hard cutoff for disliked exercises.
	vetoPreferenceScore = -0.3
	// vetoMinDataPoints is how much evidence the veto requires.
	vetoMinDataPoints = 3
	// minutesPerExercise sizes the plan against the requested duration.
	minutesPerExercise = 8
)

// selectInput gathers the state the selector draws candidates from.
type selectInput struct {
	profile        FitnessProfile
	goal           Goal
	experience     Experience
	targetMinutes  int
	records        []FeedbackRecord
	preferences    map[string]ExercisePreference
	catalog        map[string]ExerciseTemplate
	qualitySignals map[string]float64
	now            time.Time
}

type scoredCandidate struct {
	template ExerciseTemplate
	score    float64
}

// selectExercises assembles a balanced exercise set for the goal. The result
// preserves acceptance order.
func selectExercises(in selectInput) []ExerciseTemplate {
	pool := goalPools()[in.goal]
	if len(pool) == 0 {
		pool = defaultPool()
	}

	candidates := make([]scoredCandidate, 0, len(pool))
	for _, name := range pool {
		template := lookupTemplate(in.catalog, name)
		candidates = append(candidates, scoredCandidate{
			template: template,
			score:    scoreExercise(candidateScoreInput(in, template)),
		})
	}
	// Stable sort keeps pool order as the tie-breaker.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	limits := limitsForExperience(in.experience)
	maxCount := limits.maxExercises
	if byDuration := in.targetMinutes / minutesPerExercise; byDuration < maxCount {
		maxCount = max(byDuration, limits.minExercises)
	}

	recentNames := namesPerformedSince(in.records, in.now.AddDate(0, 0, -recencyExclusionDays))

	var selected []ExerciseTemplate
	groupCounts := map[string]int{}
	accepted := map[string]bool{}
	for _, c := range candidates {
		if len(selected) >= maxCount {
			break
		}
		if len(selected) >= recencyExclusionFloor && recentNames[c.template.Name] {
			continue
		}
		if pref, ok := in.preferences[c.template.Name]; ok &&
			pref.PreferenceScore <= vetoPreferenceScore && pref.DataPoints >= vetoMinDataPoints {
			continue
		}
		if target, ok := limits.muscleTargets[c.template.MuscleGroup]; ok &&
			groupCounts[c.template.MuscleGroup] >= target {
			continue
		}
		selected = append(selected, c.template)
		groupCounts[c.template.MuscleGroup]++
		accepted[c.template.Name] = true
	}

	// Backfill in pool order, ignoring exclusion rules, until the minimum is
	// met or the pool runs out.
	for _, name := range pool {
		if len(selected) >= limits.minExercises {
			break
		}
		if accepted[name] {
			continue
		}
		template := lookupTemplate(in.catalog, name)
		selected = append(selected, template)
		accepted[name] = true
	}

	return selected
}

func candidateScoreInput(in selectInput, template ExerciseTemplate) scoreInput {
	var signal *float64
	if v, ok := in.qualitySignals[template.Name]; ok {
		signal = &v
	}
	return scoreInput{
		profile:            in.profile,
		template:           template,
		goal:               in.goal,
		preference:         in.preferences[template.Name],
		qualitySignal:      signal,
		recentSessions:     sessionsWithExercise(in.records, template.Name, in.now),
		recentPerformCount: performCountSince(in.records, template.Name, in.now),
	}
}

func lookupTemplate(catalog map[string]ExerciseTemplate, name string) ExerciseTemplate {
	if template, ok := catalog[name]; ok {
		return template
	}
	return genericTemplate(name)
}

func namesPerformedSince(records []FeedbackRecord, cutoff time.Time) map[string]bool {
	names := map[string]bool{}
	for _, r := range records {
		for _, e := range r.Executions {
			if e.PerformedAt.After(cutoff) {
				names[e.ExerciseName] = true
			}
		}
	}
	return names
}
