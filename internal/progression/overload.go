package progression

import (
	"fmt"

	"github.com/Divyansh-9/Urja/internal/domain"
)

// OverloadTargets is the per-exercise prescription for the coming week.
type OverloadTargets struct {
	ExerciseID      string
	WeekNumber      int
	Sets            int
	RepsMin         int
	RepsMax         int
	WeightKg        float64
	RestSeconds     int
	AdvanceVariant  bool // bodyweight only: progress to a harder variant
	ProgressionNote string
}

// bodyweightLadders orders bodyweight variants easiest to hardest per
// movement pattern. AdvanceVariant means "move one rung up".
var bodyweightLadders = map[string][]string{
	"pushup": {"knee_pushup", "pushup", "archer_pushup", "diamond_pushup", "one_arm_pushup_negatives"},
	"squat":  {"squat", "pause_squat", "bulgarian_split_squat", "pistol_squat_assisted", "pistol_squat"},
	"pullup": {"dead_hang", "scapular_retraction", "band_assisted_pullup", "negative_pullup", "pullup"},
	"hinge":  {"good_morning", "single_leg_rdl_bw", "nordic_curl_assisted", "nordic_curl"},
	"plank":  {"knee_plank", "plank", "plank_shoulder_tap", "side_plank", "plank_leg_raise"},
}

// NextVariant returns the next-harder bodyweight variant for an exercise, or
// "" if the exercise is not on a ladder or already at the top.
func NextVariant(exerciseSlug string) string {
	for _, ladder := range bodyweightLadders {
		for i, slug := range ladder {
			if slug == exerciseSlug && i+1 < len(ladder) {
				return ladder[i+1]
			}
		}
	}
	return ""
}

// readyToEscalate checks the escalation gate: the last two logged sessions
// both hit at least 12 reps at energy 3 or better.
func readyToEscalate(history domain.ExerciseHistory) bool {
	if len(history.Logs) < 2 {
		return false
	}
	lastTwo := history.Logs[len(history.Logs)-2:]
	for _, log := range lastTwo {
		if log.Reps < 12 || log.EnergyLevel < 3 {
			return false
		}
	}
	return true
}

// Overload computes the next-week prescription for one exercise from its
// logged history. Weighted exercises escalate by adding 2.5kg and dropping
// to a 6–10 rep target; bodyweight exercises flag progression to a harder
// variant. Without escalation, volume builds incrementally: reps creep up
// and sets grow with the week number.
func Overload(exerciseID string, weekNumber int, history domain.ExerciseHistory, hasWeights bool) OverloadTargets {
	escalate := readyToEscalate(history)

	if hasWeights {
		var lastWeight float64
		if n := len(history.Logs); n > 0 {
			lastWeight = history.Logs[n-1].WeightKg
		}

		t := OverloadTargets{
			ExerciseID:  exerciseID,
			WeekNumber:  weekNumber,
			Sets:        3 + weekNumber/4,
			RepsMin:     8,
			RepsMax:     12,
			WeightKg:    lastWeight,
			RestSeconds: 90,
			ProgressionNote: "Focus on hitting top of rep range before adding weight.",
		}
		if escalate {
			t.WeightKg = lastWeight + 2.5
			t.RepsMin, t.RepsMax = 6, 10
			t.ProgressionNote = "Increase weight by 2.5kg. Drop reps to 6-10."
		}
		return t
	}

	sets := 3 + weekNumber/3
	if sets > 5 {
		sets = 5
	}
	repsBump := weekNumber
	if repsBump > 4 {
		repsBump = 4
	}
	repsMaxBump := weekNumber
	if repsMaxBump > 6 {
		repsMaxBump = 6
	}

	t := OverloadTargets{
		ExerciseID:  exerciseID,
		WeekNumber:  weekNumber,
		Sets:        sets,
		RepsMin:     8 + repsBump,
		RepsMax:     12 + repsMaxBump,
		RestSeconds: 60,
		ProgressionNote: "Build volume — add 1-2 reps per set this week.",
	}
	if escalate {
		t.AdvanceVariant = true
		t.ProgressionNote = "Consider advancing to harder variation next week."
		if next := NextVariant(exerciseID); next != "" {
			t.ProgressionNote = fmt.Sprintf("Consider advancing to %s next week.", next)
		}
	}
	return t
}
