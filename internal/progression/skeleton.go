// Package progression builds weekly session skeletons, computes per-exercise
// progressive-overload targets from logged history, and detects when a deload
// week is due. All functions are pure over immutable inputs.
package progression

import (
	"github.com/Divyansh-9/Urja/internal/domain"
)

// SessionTemplate is one day of a split template.
type SessionTemplate struct {
	Day                string
	SessionType        domain.SessionType
	TargetMuscleGroups []string
	DurationMins       int
}

// VolumeTarget is the per-session set/rep target attached to each skeleton
// session.
type VolumeTarget struct {
	Sets      int
	RepsMin   int
	RepsMax   int
}

// SkeletonSession is one planned session in the weekly skeleton.
type SkeletonSession struct {
	SessionTemplate
	Volume VolumeTarget
}

// PlanSkeleton is the weekly frame the generation step fills with concrete
// exercises.
type PlanSkeleton struct {
	DaysPerWeek int
	Sessions    []SkeletonSession
}

// WorkoutProfile is the subset of user state the skeleton builder needs.
type WorkoutProfile struct {
	FitnessLevel      domain.FitnessLevel
	DaysPerWeek       int
	SessionLengthMins int
	Goal              domain.GoalType
}

// splitTemplates keys weekly split layouts by days per week (2–6).
var splitTemplates = map[int][]SessionTemplate{
	2: {
		{Day: "Day 1", SessionType: domain.SessionStrength, TargetMuscleGroups: []string{"chest", "shoulders", "triceps", "core"}, DurationMins: 45},
		{Day: "Day 2", SessionType: domain.SessionStrength, TargetMuscleGroups: []string{"back", "biceps", "legs", "core"}, DurationMins: 45},
	},
	3: {
		{Day: "Day 1", SessionType: domain.SessionStrength, TargetMuscleGroups: []string{"chest", "shoulders", "triceps"}, DurationMins: 45},
		{Day: "Day 2", SessionType: domain.SessionStrength, TargetMuscleGroups: []string{"back", "biceps", "core"}, DurationMins: 45},
		{Day: "Day 3", SessionType: domain.SessionStrength, TargetMuscleGroups: []string{"legs", "glutes", "core"}, DurationMins: 45},
	},
	4: {
		{Day: "Day 1", SessionType: domain.SessionStrength, TargetMuscleGroups: []string{"chest", "triceps"}, DurationMins: 50},
		{Day: "Day 2", SessionType: domain.SessionStrength, TargetMuscleGroups: []string{"back", "biceps"}, DurationMins: 50},
		{Day: "Day 3", SessionType: domain.SessionStrength, TargetMuscleGroups: []string{"legs", "glutes"}, DurationMins: 50},
		{Day: "Day 4", SessionType: domain.SessionStrength, TargetMuscleGroups: []string{"shoulders", "core", "arms"}, DurationMins: 45},
	},
	5: {
		{Day: "Day 1", SessionType: domain.SessionStrength, TargetMuscleGroups: []string{"chest"}, DurationMins: 50},
		{Day: "Day 2", SessionType: domain.SessionStrength, TargetMuscleGroups: []string{"back"}, DurationMins: 50},
		{Day: "Day 3", SessionType: domain.SessionStrength, TargetMuscleGroups: []string{"legs"}, DurationMins: 50},
		{Day: "Day 4", SessionType: domain.SessionStrength, TargetMuscleGroups: []string{"shoulders", "triceps"}, DurationMins: 45},
		{Day: "Day 5", SessionType: domain.SessionCardio, TargetMuscleGroups: []string{"full_body", "core"}, DurationMins: 40},
	},
	6: {
		{Day: "Day 1", SessionType: domain.SessionStrength, TargetMuscleGroups: []string{"chest", "triceps"}, DurationMins: 50},
		{Day: "Day 2", SessionType: domain.SessionStrength, TargetMuscleGroups: []string{"back", "biceps"}, DurationMins: 50},
		{Day: "Day 3", SessionType: domain.SessionStrength, TargetMuscleGroups: []string{"legs"}, DurationMins: 50},
		{Day: "Day 4", SessionType: domain.SessionStrength, TargetMuscleGroups: []string{"shoulders"}, DurationMins: 45},
		{Day: "Day 5", SessionType: domain.SessionStrength, TargetMuscleGroups: []string{"arms", "core"}, DurationMins: 40},
		{Day: "Day 6", SessionType: domain.SessionCardio, TargetMuscleGroups: []string{"full_body"}, DurationMins: 35},
	},
}

// BuildSkeleton builds the weekly session skeleton for a profile. Days per
// week clamps to [2,6]; session durations cap at the user's session-length
// ceiling.
func BuildSkeleton(profile WorkoutProfile) PlanSkeleton {
	days := profile.DaysPerWeek
	if days < 2 {
		days = 2
	}
	if days > 6 {
		days = 6
	}
	template := splitTemplates[days]

	var repsMin, repsMax int
	switch profile.Goal {
	case domain.GoalBuildMuscle:
		repsMin, repsMax = 6, 12
	case domain.GoalLoseFat:
		repsMin, repsMax = 12, 15
	default:
		repsMin, repsMax = 8, 12
	}

	var setsPerSession int
	switch profile.FitnessLevel {
	case domain.FitnessBeginner:
		setsPerSession = 12
	case domain.FitnessIntermediate:
		setsPerSession = 16
	default:
		setsPerSession = 20
	}

	sessions := make([]SkeletonSession, 0, len(template))
	for _, t := range template {
		s := SkeletonSession{SessionTemplate: t, Volume: VolumeTarget{Sets: setsPerSession, RepsMin: repsMin, RepsMax: repsMax}}
		if profile.SessionLengthMins > 0 && s.DurationMins > profile.SessionLengthMins {
			s.DurationMins = profile.SessionLengthMins
		}
		sessions = append(sessions, s)
	}

	return PlanSkeleton{DaysPerWeek: days, Sessions: sessions}
}
