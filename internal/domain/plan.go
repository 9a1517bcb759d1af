// internal/domain/plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanType distinguishes the two generated plan kinds.
type PlanType string

const (
	PlanTypeWorkout   PlanType = "workout"
	PlanTypeNutrition PlanType = "nutrition"
)

// SessionType classifies a workout day.
type SessionType string

const (
	SessionStrength SessionType = "strength"
	SessionCardio   SessionType = "cardio"
	SessionMobility SessionType = "mobility"
	SessionRest     SessionType = "rest"
)

// MealType classifies a meal slot.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// --- Generation request envelope ---

// PlanGoals is the goal/target section of the request envelope.
type PlanGoals struct {
	Primary       GoalType     `json:"primary"`
	CaloricTarget int          `json:"caloricTarget"`
	MacroTargets  MacroTargets `json:"macroTargets"`
	WeekNumber    int          `json:"weekNumber"`
}

// PlanConstraints bounds what the generation step may reference.
type PlanConstraints struct {
	AllowedExerciseIDs []string    `json:"allowedExerciseIds"`
	ExcludedExerciseIDs []string   `json:"excludedExerciseIds"`
	AllowedFoodIDs     []string    `json:"allowedFoodIds"`
	SessionLengthMins  int         `json:"sessionLengthMins"`
	DaysPerWeek        int         `json:"daysPerWeek"`
	EquipmentList      []Equipment `json:"equipmentList"`
	DailyFoodBudget    float64     `json:"dailyFoodBudget"`
}

// PlanPersona is the who-is-this-for section of the envelope.
type PlanPersona struct {
	FitnessLevel FitnessLevel `json:"fitnessLevel"`
	FoodRegion   FoodRegion   `json:"foodRegion"`
	DietType     DietType     `json:"dietType"`
	HasKitchen   bool         `json:"hasKitchen"`
	HasMess      bool         `json:"hasMess"`
	IsExamWeek   bool         `json:"isExamWeek"`
}

// PlanHistory summarizes recent adherence for the generation step.
type PlanHistory struct {
	AdherenceRate          float64  `json:"adherenceRate"`
	AvgEnergyLevel         float64  `json:"avgEnergyLevel"`
	RecentSkippedExercises []string `json:"recentSkippedExerciseIds"`
	RecentDislikedMeals    []string `json:"recentDislikedMeals"`
}

// PlanContext is the bounded request envelope handed to the generation step.
// Built fresh per request; never persisted directly.
type PlanContext struct {
	Goals       PlanGoals       `json:"goals"`
	Constraints PlanConstraints `json:"constraints"`
	Persona     PlanPersona     `json:"persona"`
	History     PlanHistory     `json:"history"`
}

// --- Generation response wire contract ---
//
// Field names below are checked bit-exact by the response validators; they
// must match the schema the prompts advertise.

// ExerciseInPlan is one prescribed exercise inside a workout day.
type ExerciseInPlan struct {
	ExerciseID  string `bson:"exerciseId" json:"exerciseId"`
	Sets        int    `bson:"sets" json:"sets"`
	RepsMin     int    `bson:"repsMin" json:"repsMin"`
	RepsMax     int    `bson:"repsMax" json:"repsMax"`
	RestSeconds int    `bson:"restSeconds" json:"restSeconds"`
	Notes       string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// WorkoutDay is one day of a generated workout plan.
type WorkoutDay struct {
	DayName      string           `bson:"dayName" json:"dayName"`
	SessionType  SessionType      `bson:"sessionType" json:"sessionType"`
	DurationMins int              `bson:"durationMins" json:"durationMins"`
	Exercises    []ExerciseInPlan `bson:"exercises" json:"exercises"`
	Warmup       []string         `bson:"warmup" json:"warmup"`
	Cooldown     []string         `bson:"cooldown" json:"cooldown"`
}

// WorkoutPlan is the validated workout generation output.
type WorkoutPlan struct {
	ID          string       `bson:"id" json:"id"`
	UserID      string       `bson:"userId" json:"userId"`
	WeekNumber  int          `bson:"weekNumber" json:"weekNumber"`
	Days        []WorkoutDay `bson:"days" json:"days"`
	CoachNote   string       `bson:"coachNote" json:"coachNote"`
	GeneratedAt time.Time    `bson:"generatedAt" json:"generatedAt"`
}

// MealItem is one food portion inside a meal.
type MealItem struct {
	FoodID       string  `bson:"foodId" json:"foodId"`
	ServingGrams float64 `bson:"servingGrams" json:"servingGrams"`
	Calories     float64 `bson:"calories" json:"calories"`
	Protein      float64 `bson:"protein" json:"protein"`
}

// Meal is one meal slot of a nutrition day.
type Meal struct {
	MealType      MealType   `bson:"mealType" json:"mealType"`
	Items         []MealItem `bson:"items" json:"items"`
	TotalCalories float64    `bson:"totalCalories" json:"totalCalories"`
	PrepNotes     string     `bson:"prepNotes,omitempty" json:"prepNotes,omitempty"`
}

// NutritionDay is one day of a generated nutrition plan.
type NutritionDay struct {
	Day           int       `bson:"day" json:"day"`
	Meals         []Meal    `bson:"meals" json:"meals"`
	DailyTotals   MacroData `bson:"dailyTotals" json:"dailyTotals"`
	EstimatedCost float64   `bson:"estimatedCost" json:"estimatedCost"`
}

// GroceryItem is one weekly grocery-list entry.
type GroceryItem struct {
	FoodID   string `bson:"foodId" json:"foodId"`
	Quantity string `bson:"quantity" json:"quantity"`
}

// NutritionPlan is the validated nutrition generation output.
type NutritionPlan struct {
	ID                string         `bson:"id" json:"id"`
	UserID            string         `bson:"userId" json:"userId"`
	WeekNumber        int            `bson:"weekNumber" json:"weekNumber"`
	Days              []NutritionDay `bson:"days" json:"days"`
	WeeklyGroceryList []GroceryItem  `bson:"weeklyGroceryList" json:"weeklyGroceryList"`
	DietitianNote     string         `bson:"dietitianNote" json:"dietitianNote"`
	GeneratedAt       time.Time      `bson:"generatedAt" json:"generatedAt"`
}

// PlanRecord is the persisted wrapper around a finalized plan. Keyed by
// (userId, weekNumber, type).
type PlanRecord struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         string             `bson:"userId" json:"userId"`
	Type           PlanType           `bson:"type" json:"type"`
	WeekNumber     int                `bson:"weekNumber" json:"weekNumber"`
	Workout        *WorkoutPlan       `bson:"workout,omitempty" json:"workout,omitempty"`
	Nutrition      *NutritionPlan     `bson:"nutrition,omitempty" json:"nutrition,omitempty"`
	SafetyWarnings []SafetyWarning    `bson:"safetyWarnings,omitempty" json:"safetyWarnings,omitempty"`
	ModelVersion   string             `bson:"modelVersion,omitempty" json:"modelVersion,omitempty"`
	GeneratedAt    time.Time          `bson:"generatedAt" json:"generatedAt"`
}
