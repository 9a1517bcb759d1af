// internal/domain/checkin.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CheckIn is one daily self-report. Stored newest-first when queried.
type CheckIn struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"userId" json:"userId"`
	Date        time.Time          `bson:"date" json:"date"`
	EnergyLevel int                `bson:"energyLevel" json:"energyLevel"` // 1–5
	SleepHours  float64            `bson:"sleepHours" json:"sleepHours"`
	StressLevel int                `bson:"stressLevel" json:"stressLevel"` // 1–5
	ExamWeek    bool               `bson:"examWeek" json:"examWeek"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// TriggerType is the kind of adaptation a trigger suggests.
type TriggerType string

const (
	TriggerDeload          TriggerType = "deload"
	TriggerReduceIntensity TriggerType = "reduce_intensity"
	TriggerExamMode        TriggerType = "exam_mode"
	TriggerAddRecovery     TriggerType = "add_recovery"
)

// TriggerSeverity grades how strongly a trigger should be surfaced.
type TriggerSeverity string

const (
	TriggerMild     TriggerSeverity = "mild"
	TriggerModerate TriggerSeverity = "moderate"
)

// AdaptationTrigger is an advisory signal that an existing plan should be
// overridden. Emitted transiently; callers may log it but it is not an entity.
type AdaptationTrigger struct {
	Type     TriggerType     `json:"type"`
	Reason   string          `json:"reason"`
	Severity TriggerSeverity `json:"severity"`
}

// ExerciseSetLog is one logged performance of an exercise.
type ExerciseSetLog struct {
	Date        time.Time `bson:"date" json:"date"`
	Sets        int       `bson:"sets" json:"sets"`
	Reps        int       `bson:"reps" json:"reps"`
	WeightKg    float64   `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	EnergyLevel int       `bson:"energyLevel" json:"energyLevel"`
}

// ExerciseHistory is the logged history for one exercise.
type ExerciseHistory struct {
	ExerciseID string           `bson:"exerciseId" json:"exerciseId"`
	Logs       []ExerciseSetLog `bson:"logs" json:"logs"` // oldest first
}

// WeeklyLog aggregates one week of training.
type WeeklyLog struct {
	WeekNumber        int     `bson:"weekNumber" json:"weekNumber"`
	CompletedSessions int     `bson:"completedSessions" json:"completedSessions"`
	PlannedSessions   int     `bson:"plannedSessions" json:"plannedSessions"`
	AvgEnergyLevel    float64 `bson:"avgEnergyLevel" json:"avgEnergyLevel"`
	TotalVolume       float64 `bson:"totalVolume" json:"totalVolume"`
}

// WorkoutHistory is the per-user rolling weekly history the deload detector
// consumes, oldest week first.
type WorkoutHistory struct {
	WeeklyLogs []WeeklyLog `bson:"weeklyLogs" json:"weeklyLogs"`
}
