// internal/domain/uco.go
package domain

import (
	"time"
)

// Sex classification used by the BMR calculation.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"
)

// GoalType is the user's primary training goal.
type GoalType string

const (
	GoalLoseFat          GoalType = "lose_fat"
	GoalBuildMuscle      GoalType = "build_muscle"
	GoalMaintain         GoalType = "maintain"
	GoalImproveEndurance GoalType = "improve_endurance"
	GoalFlexibility      GoalType = "flexibility"
	GoalGeneralHealth    GoalType = "general_health"
)

// Urgency controls how aggressive the caloric adjustment is.
type Urgency string

const (
	UrgencySlow       Urgency = "slow"
	UrgencyModerate   Urgency = "moderate"
	UrgencyAggressive Urgency = "aggressive"
)

// EnvironmentSetting is where the user primarily trains.
type EnvironmentSetting string

const (
	SettingHostel  EnvironmentSetting = "hostel"
	SettingHome    EnvironmentSetting = "home"
	SettingGym     EnvironmentSetting = "gym"
	SettingOutdoor EnvironmentSetting = "outdoor"
	SettingMixed   EnvironmentSetting = "mixed"
)

// FitnessLevel buckets training experience for prompt persona and volume caps.
type FitnessLevel string

const (
	FitnessBeginner     FitnessLevel = "beginner"
	FitnessIntermediate FitnessLevel = "intermediate"
	FitnessAdvanced     FitnessLevel = "advanced"
)

// Injury is a reported injury on the user's health record. Only active
// injuries feed the Safety Gate and the eligibility exclusions.
type Injury struct {
	BodyPart string `bson:"bodyPart" json:"bodyPart"`
	Severity string `bson:"severity" json:"severity"` // mild | moderate | severe
	IsActive bool   `bson:"isActive" json:"isActive"`
	Notes    string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// DateRange marks a span of days, e.g. an exam period.
type DateRange struct {
	Start time.Time `bson:"start" json:"start"`
	End   time.Time `bson:"end" json:"end"`
}

// EnergyLog is one self-reported energy reading (1–5).
type EnergyLog struct {
	Date  time.Time `bson:"date" json:"date"`
	Level int       `bson:"level" json:"level"`
}

// MoodLog is one self-reported mood reading (1–5).
type MoodLog struct {
	Date  time.Time `bson:"date" json:"date"`
	Mood  int       `bson:"mood" json:"mood"`
	Notes string    `bson:"notes,omitempty" json:"notes,omitempty"`
}

// MeasurementLog is one body-measurement snapshot.
type MeasurementLog struct {
	Date     time.Time `bson:"date" json:"date"`
	WeightKg float64   `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	WaistCm  float64   `bson:"waistCm,omitempty" json:"waistCm,omitempty"`
	ChestCm  float64   `bson:"chestCm,omitempty" json:"chestCm,omitempty"`
}

// --- UCO sections ---

type UCOMeta struct {
	UserID             string    `bson:"userId" json:"userId"`
	Version            int       `bson:"version" json:"version"`
	LastUpdated        time.Time `bson:"lastUpdated" json:"lastUpdated"`
	OnboardingComplete bool      `bson:"onboardingComplete" json:"onboardingComplete"`
}

type Physical struct {
	Age            int     `bson:"age" json:"age"`
	Sex            Sex     `bson:"sex" json:"sex"`
	HeightCm       float64 `bson:"heightCm" json:"heightCm"`
	WeightKg       float64 `bson:"weightKg" json:"weightKg"`
	BodyFatPercent float64 `bson:"bodyFatPercent,omitempty" json:"bodyFatPercent,omitempty"`

	FitnessLevel FitnessLevel `bson:"fitnessLevel" json:"fitnessLevel"`

	// Derived fields. Never set directly; recomputed on every mutation that
	// touches physical or lifestyle data.
	BMI  float64 `bson:"bmi" json:"bmi"`
	BMR  int     `bson:"bmr" json:"bmr"`
	TDEE int     `bson:"tdee" json:"tdee"`
}

type Goals struct {
	Primary        GoalType  `bson:"primary" json:"primary"`
	Secondary      []string  `bson:"secondary,omitempty" json:"secondary,omitempty"`
	TargetWeightKg float64   `bson:"targetWeightKg,omitempty" json:"targetWeightKg,omitempty"`
	TargetDate     time.Time `bson:"targetDate,omitempty" json:"targetDate,omitempty"`
	Urgency        Urgency   `bson:"urgency" json:"urgency"`
}

type Health struct {
	Injuries           []Injury    `bson:"injuries" json:"injuries"`
	Medications        []string    `bson:"medications" json:"medications"`
	Conditions         []string    `bson:"conditions" json:"conditions"`
	EatingDisorderRisk bool        `bson:"eatingDisorderRisk" json:"eatingDisorderRisk"`
	SafetyClearance    SafetyLevel `bson:"safetyClearance" json:"safetyClearance"`
	GPReferralFlag     bool        `bson:"gpReferralFlag" json:"gpReferralFlag"`
}

type Lifestyle struct {
	ExamPeriods        []DateRange `bson:"examPeriods,omitempty" json:"examPeriods,omitempty"`
	SleepHours         float64     `bson:"sleepHours" json:"sleepHours"`
	StressLevel        int         `bson:"stressLevel" json:"stressLevel"` // 1–5
	CommuteMins        int         `bson:"commuteMins" json:"commuteMins"`
	WorkoutDaysPerWeek int         `bson:"workoutDaysPerWeek" json:"workoutDaysPerWeek"`
	SessionLengthMins  int         `bson:"sessionLengthMins" json:"sessionLengthMins"`
}

type Environment struct {
	Setting            EnvironmentSetting `bson:"setting" json:"setting"`
	RoomType           RoomType           `bson:"roomType,omitempty" json:"roomType,omitempty"`
	EquipmentAvailable []Equipment        `bson:"equipmentAvailable" json:"equipmentAvailable"`
	GymAccess          bool               `bson:"gymAccess" json:"gymAccess"`
	HasKitchen         bool               `bson:"hasKitchen" json:"hasKitchen"`
	HasMess            bool               `bson:"hasMess" json:"hasMess"`
}

type Nutrition struct {
	Region          FoodRegion `bson:"region" json:"region"`
	DietType        DietType   `bson:"dietType" json:"dietType"`
	Allergies       []string   `bson:"allergies,omitempty" json:"allergies,omitempty"`
	DislikedFoods   []string   `bson:"dislikedFoods,omitempty" json:"dislikedFoods,omitempty"`
	DailyFoodBudget float64    `bson:"dailyFoodBudget" json:"dailyFoodBudget"`
	Currency        string     `bson:"currency" json:"currency"`
}

type Adaptive struct {
	CurrentPlanID      string           `bson:"currentPlanId" json:"currentPlanId"`
	PlanStartDate      time.Time        `bson:"planStartDate" json:"planStartDate"`
	WeekNumber         int              `bson:"weekNumber" json:"weekNumber"`
	EnergyLevelHistory []EnergyLog      `bson:"energyLevelHistory" json:"energyLevelHistory"`
	AdherenceRate      float64          `bson:"adherenceRate" json:"adherenceRate"`
	LastCheckIn        time.Time        `bson:"lastCheckIn" json:"lastCheckIn"`
	MoodHistory        []MoodLog        `bson:"moodHistory,omitempty" json:"moodHistory,omitempty"`
	Measurements       []MeasurementLog `bson:"measurements,omitempty" json:"measurements,omitempty"`
	ActiveTrack        string           `bson:"activeTrack,omitempty" json:"activeTrack,omitempty"` // "", "exam_survival", "90_day_bulk"
}

type Privacy struct {
	DataRetentionDays int  `bson:"dataRetentionDays" json:"dataRetentionDays"`
	AllowAITraining   bool `bson:"allowAITraining" json:"allowAITraining"`
}

// UserContextObject (UCO) is the canonical, versioned snapshot of one user's
// state. A UCO is read as an immutable value for the duration of a pipeline
// run; all mutation goes through PatchUCO-style paths that bump meta.version
// and recompute derived fields.
type UserContextObject struct {
	Meta        UCOMeta     `bson:"meta" json:"meta"`
	Physical    Physical    `bson:"physical" json:"physical"`
	Goals       Goals       `bson:"goals" json:"goals"`
	Health      Health      `bson:"health" json:"health"`
	Lifestyle   Lifestyle   `bson:"lifestyle" json:"lifestyle"`
	Environment Environment `bson:"environment" json:"environment"`
	Nutrition   Nutrition   `bson:"nutrition" json:"nutrition"`
	Adaptive    Adaptive    `bson:"adaptive" json:"adaptive"`
	Privacy     Privacy     `bson:"privacy" json:"privacy"`
}

// UCOPatch is a partial update. Nil sections are left untouched.
type UCOPatch struct {
	Physical    *Physical    `json:"physical,omitempty"`
	Goals       *Goals       `json:"goals,omitempty"`
	Health      *Health      `json:"health,omitempty"`
	Lifestyle   *Lifestyle   `json:"lifestyle,omitempty"`
	Environment *Environment `json:"environment,omitempty"`
	Nutrition   *Nutrition   `json:"nutrition,omitempty"`
	Adaptive    *Adaptive    `json:"adaptive,omitempty"`
	Privacy     *Privacy     `json:"privacy,omitempty"`
}

// ActiveInjuryBodyParts returns the body parts of currently active injuries.
// These become excluded body parts for the eligibility filter.
func (u *UserContextObject) ActiveInjuryBodyParts() []string {
	var parts []string
	for _, inj := range u.Health.Injuries {
		if inj.IsActive {
			parts = append(parts, inj.BodyPart)
		}
	}
	return parts
}

// IsExamPeriodAt reports whether t falls inside any declared exam period.
func (u *UserContextObject) IsExamPeriodAt(t time.Time) bool {
	for _, p := range u.Lifestyle.ExamPeriods {
		if !t.Before(p.Start) && !t.After(p.End) {
			return true
		}
	}
	return false
}
