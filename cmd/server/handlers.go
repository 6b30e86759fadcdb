package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jhpark-coder/fitcoach/internal/recommend"
)

type recommendationRequest struct {
	Goal            string             `json:"goal"`
	DurationMinutes int                `json:"duration_minutes"`
	BodyWeightKg    float64            `json:"body_weight_kg"`
	Experience      string             `json:"experience"`
	QualitySignals  map[string]float64 `json:"quality_signals,omitempty"`
}

type plannedExerciseResponse struct {
	Name        string  `json:"name"`
	MuscleGroup string  `json:"muscle_group"`
	Sets        int     `json:"sets"`
	Reps        int     `json:"reps"`
	RestSeconds int     `json:"rest_seconds"`
	Intensity   float64 `json:"intensity_mets"`
}

type planResponse struct {
	Goal              string                    `json:"goal"`
	Warmup            []string                  `json:"warmup"`
	Exercises         []plannedExerciseResponse `json:"exercises"`
	Cooldown          []string                  `json:"cooldown"`
	DurationMinutes   int                       `json:"duration_minutes"`
	EstimatedCalories float64                   `json:"estimated_calories"`
	Tips              []string                  `json:"tips"`
}

type executionRequest struct {
	ExerciseName       string   `json:"exercise_name"`
	PlannedSets        int      `json:"planned_sets"`
	CompletedSets      int      `json:"completed_sets"`
	PlannedReps        int      `json:"planned_reps"`
	CompletedReps      int      `json:"completed_reps"`
	PlannedDurationSec int      `json:"planned_duration_sec"`
	ActualDurationSec  int      `json:"actual_duration_sec"`
	RPE                *int     `json:"rpe,omitempty"`
	FormAccuracy       *float64 `json:"form_accuracy,omitempty"`
	PerformedAt        string   `json:"performed_at"`
}

type feedbackRequest struct {
	SessionID      string             `json:"session_id"`
	CompletedAt    string             `json:"completed_at"`
	CompletionRate float64            `json:"completion_rate"`
	Difficulty     *int               `json:"difficulty,omitempty"`
	Satisfaction   *int               `json:"satisfaction,omitempty"`
	EnergyAfter    *int               `json:"energy_after,omitempty"`
	MuscleSoreness *int               `json:"muscle_soreness,omitempty"`
	WouldRepeat    bool               `json:"would_repeat"`
	Comment        string             `json:"comment,omitempty"`
	Executions     []executionRequest `json:"executions"`
}

type profileResponse struct {
	Goal                string  `json:"goal"`
	FitnessLevel        float64 `json:"fitness_level"`
	AvgCompletionRate   float64 `json:"avg_completion_rate"`
	PreferredDifficulty float64 `json:"preferred_difficulty"`
	ProgressTrend       float64 `json:"progress_trend"`
	RecoveryPattern     float64 `json:"recovery_pattern"`
	MotivationLevel     float64 `json:"motivation_level"`
	Confidence          float64 `json:"confidence"`
	DataPoints          int     `json:"data_points"`
}

type preferenceResponse struct {
	ExerciseName       string     `json:"exercise_name"`
	PreferenceScore    float64    `json:"preference_score"`
	EffectivenessScore float64    `json:"effectiveness_score"`
	Confidence         float64    `json:"confidence"`
	DataPoints         int        `json:"data_points"`
	LastPerformed      *time.Time `json:"last_performed,omitempty"`
}

func (app *application) recommendationsPOST(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "malformed JSON body")
		return
	}

	plan, err := app.recommendService.Recommend(r.Context(), recommend.RecommendationRequest{
		Goal:            recommend.Goal(req.Goal),
		DurationMinutes: req.DurationMinutes,
		BodyWeightKg:    req.BodyWeightKg,
		Experience:      recommend.Experience(req.Experience),
		QualitySignals:  req.QualitySignals,
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	exercises := make([]plannedExerciseResponse, 0, len(plan.Exercises))
	for _, exercise := range plan.Exercises {
		exercises = append(exercises, plannedExerciseResponse{
			Name:        exercise.Name,
			MuscleGroup: exercise.MuscleGroup,
			Sets:        exercise.Sets,
			Reps:        exercise.Reps,
			RestSeconds: exercise.RestSeconds,
			Intensity:   exercise.Intensity,
		})
	}
	app.writeJSON(w, r, http.StatusOK, planResponse{
		Goal:              string(plan.Goal),
		Warmup:            plan.Warmup,
		Exercises:         exercises,
		Cooldown:          plan.Cooldown,
		DurationMinutes:   plan.DurationMinutes,
		EstimatedCalories: plan.EstimatedCalories,
		Tips:              plan.Tips,
	})
}

func (app *application) feedbackPOST(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "malformed JSON body")
		return
	}

	completedAt, err := time.Parse(time.RFC3339, req.CompletedAt)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, "completed_at must be RFC 3339")
		return
	}
	executions := make([]recommend.ExerciseExecution, 0, len(req.Executions))
	for _, execution := range req.Executions {
		performedAt, parseErr := time.Parse(time.RFC3339, execution.PerformedAt)
		if parseErr != nil {
			app.clientError(w, r, http.StatusBadRequest, "performed_at must be RFC 3339")
			return
		}
		executions = append(executions, recommend.ExerciseExecution{
			ExerciseName:       execution.ExerciseName,
			PlannedSets:        execution.PlannedSets,
			CompletedSets:      execution.CompletedSets,
			PlannedReps:        execution.PlannedReps,
			CompletedReps:      execution.CompletedReps,
			PlannedDurationSec: execution.PlannedDurationSec,
			ActualDurationSec:  execution.ActualDurationSec,
			RPE:                execution.RPE,
			FormAccuracy:       execution.FormAccuracy,
			PerformedAt:        performedAt,
		})
	}

	err = app.recommendService.SubmitFeedback(r.Context(), recommend.FeedbackRecord{
		SessionID:      req.SessionID,
		CompletedAt:    completedAt,
		CompletionRate: req.CompletionRate,
		Difficulty:     req.Difficulty,
		Satisfaction:   req.Satisfaction,
		EnergyAfter:    req.EnergyAfter,
		MuscleSoreness: req.MuscleSoreness,
		WouldRepeat:    req.WouldRepeat,
		Comment:        req.Comment,
		Executions:     executions,
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) profileGET(w http.ResponseWriter, r *http.Request) {
	goal := r.URL.Query().Get("goal")
	if goal == "" {
		app.clientError(w, r, http.StatusBadRequest, "goal query parameter is required")
		return
	}
	experience := r.URL.Query().Get("experience")

	profile, err := app.recommendService.Profile(r.Context(),
		recommend.Goal(goal), recommend.Experience(experience))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, profileResponse{
		Goal:                string(profile.Goal),
		FitnessLevel:        profile.FitnessLevel,
		AvgCompletionRate:   profile.AvgCompletionRate,
		PreferredDifficulty: profile.PreferredDifficulty,
		ProgressTrend:       profile.ProgressTrend,
		RecoveryPattern:     profile.RecoveryPattern,
		MotivationLevel:     profile.MotivationLevel,
		Confidence:          profile.Confidence,
		DataPoints:          profile.DataPoints,
	})
}

func (app *application) preferencesGET(w http.ResponseWriter, r *http.Request) {
	prefs, err := app.recommendService.Preferences(r.Context())
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	response := make([]preferenceResponse, 0, len(prefs))
	for _, pref := range prefs {
		response = append(response, preferenceResponse{
			ExerciseName:       pref.ExerciseName,
			PreferenceScore:    pref.PreferenceScore,
			EffectivenessScore: pref.EffectivenessScore,
			Confidence:         pref.Confidence(),
			DataPoints:         pref.DataPoints,
			LastPerformed:      pref.LastPerformed,
		})
	}
	app.writeJSON(w, r, http.StatusOK, response)
}

// healthy responds with a JSON object indicating that the server is healthy.
func (app *application) healthy(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
