package recommend

import (
	"math"
	"sort"
)

const (
	// historyWindowDays bounds how far back the profile looks.
	historyWindowDays = 28
	// minDataPoints is how many sessions a personalized profile requires.
	minDataPoints = 3
	// trendSampleSize is how many sessions each end of the trend compares.
	trendSampleSize = 3
)

// calculateProfile derives a fitness profile from recent feedback. With fewer
// than minDataPoints records it returns a low-confidence default seeded from
// the experience tier.
func calculateProfile(goal Goal, exp Experience, records []FeedbackRecord) FitnessProfile {
	if len(records) < minDataPoints {
		return defaultProfile(goal, exp, len(records))
	}

	sorted := make([]FeedbackRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CompletedAt.Before(sorted[j].CompletedAt)
	})

	avgCompletion := meanCompletionRate(sorted)
	satisfactions := collect(sorted, func(r FeedbackRecord) *int { return r.Satisfaction })
	difficulties := collect(sorted, func(r FeedbackRecord) *int { return r.Difficulty })
	energies := collect(sorted, func(r FeedbackRecord) *int { return r.EnergyAfter })
	sorenesses := collect(sorted, func(r FeedbackRecord) *int { return r.MuscleSoreness })

	normalizedSatisfaction := 0.5
	if len(satisfactions) > 0 {
		normalizedSatisfaction = clamp01((mean(satisfactions) - 1) / 4)
	}
	avgDifficulty := 3.0
	if len(difficulties) > 0 {
		avgDifficulty = clamp(mean(difficulties), 1, 5)
	}

	fitnessLevel := clamp01(
		0.4*avgCompletion +
			0.3*normalizedSatisfaction +
			0.3*(1-math.Abs(avgDifficulty-3)/2))

	recovery := 3.0
	if len(energies) > 0 || len(sorenesses) > 0 {
		meanEnergy := 3.0
		if len(energies) > 0 {
			meanEnergy = mean(energies)
		}
		meanSoreness := 3.0
		if len(sorenesses) > 0 {
			meanSoreness = mean(sorenesses)
		}
		recovery = clamp(3.0+0.5*(meanEnergy-3)-0.3*(meanSoreness-3), 1, 5)
	}

	repeatCount := 0
	for _, r := range sorted {
		if r.WouldRepeat {
			repeatCount++
		}
	}
	repeatRate := float64(repeatCount) / float64(len(sorted))
	frequencyTerm := math.Min(float64(len(sorted))/2, 4) / 4
	motivation := clamp01(0.4*repeatRate + 0.4*normalizedSatisfaction + 0.2*frequencyTerm)

	consistency := 0.2
	if len(satisfactions) > 0 {
		consistency = math.Max(0.1, 1-stddev(satisfactions)/2)
	}
	confidence := math.Min(1, math.Min(float64(len(sorted))/10, 0.8)+consistency)

	return FitnessProfile{
		Goal:                goal,
		FitnessLevel:        fitnessLevel,
		AvgCompletionRate:   avgCompletion,
		PreferredDifficulty: preferredDifficulty(sorted),
		ProgressTrend:       progressTrend(sorted),
		RecoveryPattern:     recovery,
		MotivationLevel:     motivation,
		Confidence:          confidence,
		DataPoints:          len(sorted),
	}
}

func defaultProfile(goal Goal, exp Experience, recordCount int) FitnessProfile {
	return FitnessProfile{
		Goal:                goal,
		FitnessLevel:        fitnessLevelForExperience(exp),
		AvgCompletionRate:   0.7,
		PreferredDifficulty: 3.0,
		ProgressTrend:       0,
		RecoveryPattern:     3.0,
		MotivationLevel:     0.5,
		Confidence:          0.5 * float64(recordCount) / minDataPoints,
		DataPoints:          recordCount,
	}
}

// preferredDifficulty averages overall difficulty of well-rated sessions.
func preferredDifficulty(records []FeedbackRecord) float64 {
	var sum float64
	var n int
	for _, r := range records {
		if r.Satisfaction == nil || r.Difficulty == nil || *r.Satisfaction < 4 {
			continue
		}
		sum += float64(*r.Difficulty)
		n++
	}
	if n == 0 {
		return 3.0
	}
	return clamp(sum/float64(n), 1, 5)
}

// progressTrend compares the newest sessions against the oldest ones in the
// window. Records must be sorted oldest first.
func progressTrend(records []FeedbackRecord) float64 {
	if len(records) < trendSampleSize {
		return 0
	}
	oldest := records[:trendSampleSize]
	newest := records[len(records)-trendSampleSize:]
	return clamp(meanSuccessScore(newest)-meanSuccessScore(oldest), -1, 1)
}

// successScore blends completion with satisfaction when the latter exists.
func successScore(r FeedbackRecord) float64 {
	rate := clamp01(r.CompletionRate)
	if r.Satisfaction == nil {
		return rate
	}
	normalized := clamp01((float64(*r.Satisfaction) - 1) / 4)
	return 0.6*rate + 0.4*normalized
}

func meanSuccessScore(records []FeedbackRecord) float64 {
	var sum float64
	for _, r := range records {
		sum += successScore(r)
	}
	return sum / float64(len(records))
}

func meanCompletionRate(records []FeedbackRecord) float64 {
	var sum float64
	for _, r := range records {
		sum += clamp01(r.CompletionRate)
	}
	return sum / float64(len(records))
}

func collect(records []FeedbackRecord, field func(FeedbackRecord) *int) []float64 {
	var values []float64
	for _, r := range records {
		if v := field(r); v != nil {
			values = append(values, clamp(float64(*v), 1, 5))
		}
	}
	return values
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)))
}
