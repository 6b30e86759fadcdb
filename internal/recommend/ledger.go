package recommend

import "math"

// Preference learning. Each observed execution moves the stored scores toward
// the incoming observation with a learning rate that shrinks as evidence
// accumulates, so early sessions dominate less and less over time.

// preferenceConfidenceThreshold gates learned scores: below it consumers
// treat the preference as unknown.
const preferenceConfidenceThreshold = 0.3

// learningRate returns the weight of the next observation given how many
// observations came before it.
func learningRate(dataPoints int) float64 {
	switch {
	case dataPoints <= 1:
		return 0.3
	case dataPoints <= 3:
		return 0.2
	case dataPoints <= 5:
		return 0.15
	case dataPoints <= 10:
		return 0.1
	default:
		return 0.05
	}
}

// applyObservation folds one observation into a preference in place.
func applyObservation(pref *ExercisePreference, incomingPreference, incomingEffectiveness float64) {
	rate := learningRate(pref.DataPoints)
	pref.PreferenceScore = clamp(pref.PreferenceScore*(1-rate)+clamp(incomingPreference, -1, 1)*rate, -1, 1)
	pref.EffectivenessScore = clamp01(pref.EffectivenessScore*(1-rate) + clamp01(incomingEffectiveness)*rate)
	pref.DataPoints++
}

// observation is the per-exercise signal extracted from one session.
type observation struct {
	preference    float64
	effectiveness float64
}

// observationFromSession derives the incoming scores for one executed
// exercise from the session-level ratings and the execution itself.
func observationFromSession(record FeedbackRecord, execution ExerciseExecution) observation {
	// Preference follows satisfaction, nudged by repeat intent.
	preference := 0.0
	if record.Satisfaction != nil {
		preference = (clamp(float64(*record.Satisfaction), 1, 5) - 3) / 2
	}
	if record.WouldRepeat {
		preference += 0.2
	} else {
		preference -= 0.2
	}

	// Effectiveness follows how much of the planned work got done, blended
	// with how appropriate the exertion was when RPE is available.
	effectiveness := execution.CompletionRate()
	if execution.RPE != nil {
		rpe := clamp(float64(*execution.RPE), 1, 10)
		appropriateness := clamp01(1 - math.Abs(rpe-6)/4)
		effectiveness = 0.7*effectiveness + 0.3*appropriateness
	}

	return observation{
		preference:    clamp(preference, -1, 1),
		effectiveness: clamp01(effectiveness),
	}
}
