// Package metrics computes derived physiology values (BMI, BMR, TDEE,
// caloric and macro targets) from a user's physical and lifestyle data.
// Everything here is pure and stateless; inputs are validated upstream.
package metrics

import (
	"math"

	"github.com/Divyansh-9/Urja/internal/domain"
)

// Derived bundles the three derived physiology fields stored on the UCO.
type Derived struct {
	BMI  float64
	BMR  int
	TDEE int
}

// BMI computes body mass index from height (cm) and weight (kg), rounded to
// one decimal place.
func BMI(heightCm, weightKg float64) float64 {
	heightM := heightCm / 100
	return math.Round(weightKg/(heightM*heightM)*10) / 10
}

// BMR computes basal metabolic rate via the Mifflin–St Jeor equation,
// rounded to the nearest kcal. The "other" sex classification takes the
// arithmetic mean of the male (+5) and female (−161) offsets.
func BMR(weightKg, heightCm float64, age int, sex domain.Sex) int {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)

	switch sex {
	case domain.SexMale:
		return int(math.Round(base + 5))
	case domain.SexFemale:
		return int(math.Round(base - 161))
	default:
		return int(math.Round(base + (5-161)/2.0))
	}
}

// ActivityMultiplier derives the TDEE multiplier from workout cadence,
// commute time, and environment setting. Bands follow standard activity
// factors; commute and setting nudge the band by ±0.05 steps.
func ActivityMultiplier(workoutDaysPerWeek, commuteMins int, setting domain.EnvironmentSetting) float64 {
	var multiplier float64
	switch {
	case workoutDaysPerWeek <= 1:
		multiplier = 1.2 // sedentary
	case workoutDaysPerWeek <= 3:
		multiplier = 1.375 // lightly active
	case workoutDaysPerWeek <= 5:
		multiplier = 1.55 // moderately active
	default:
		multiplier = 1.725 // very active
	}

	// Commute bonus (walking/cycling), applied cumulatively
	if commuteMins > 30 {
		multiplier += 0.05
	}
	if commuteMins > 60 {
		multiplier += 0.05
	}

	// Hostel rooms mean less incidental movement; outdoor means more
	switch setting {
	case domain.SettingHostel:
		multiplier -= 0.05
	case domain.SettingOutdoor:
		multiplier += 0.05
	}

	return multiplier
}

// TDEE computes total daily energy expenditure from BMR and the activity
// multiplier inputs, rounded to the nearest kcal.
func TDEE(bmr int, workoutDaysPerWeek, commuteMins int, setting domain.EnvironmentSetting) int {
	return int(math.Round(float64(bmr) * ActivityMultiplier(workoutDaysPerWeek, commuteMins, setting)))
}

// Compute returns all derived fields for the given physical, lifestyle and
// environment data. The caller is responsible for writing them back to the
// UCO before persisting.
func Compute(physical domain.Physical, lifestyle domain.Lifestyle, setting domain.EnvironmentSetting) Derived {
	bmi := BMI(physical.HeightCm, physical.WeightKg)
	bmr := BMR(physical.WeightKg, physical.HeightCm, physical.Age, physical.Sex)
	tdee := TDEE(bmr, lifestyle.WorkoutDaysPerWeek, lifestyle.CommuteMins, setting)
	return Derived{BMI: bmi, BMR: bmr, TDEE: tdee}
}

// caloricAdjustments maps (goal, urgency) to the kcal adjustment on top of
// TDEE. Missing combinations fall back to 0.
var caloricAdjustments = map[domain.GoalType]map[domain.Urgency]int{
	domain.GoalLoseFat:          {domain.UrgencySlow: -250, domain.UrgencyModerate: -400, domain.UrgencyAggressive: -500},
	domain.GoalBuildMuscle:      {domain.UrgencySlow: 200, domain.UrgencyModerate: 300, domain.UrgencyAggressive: 400},
	domain.GoalMaintain:         {domain.UrgencySlow: 0, domain.UrgencyModerate: 0, domain.UrgencyAggressive: 0},
	domain.GoalImproveEndurance: {domain.UrgencySlow: 100, domain.UrgencyModerate: 200, domain.UrgencyAggressive: 200},
	domain.GoalFlexibility:      {domain.UrgencySlow: 0, domain.UrgencyModerate: 0, domain.UrgencyAggressive: 0},
	domain.GoalGeneralHealth:    {domain.UrgencySlow: 0, domain.UrgencyModerate: -100, domain.UrgencyAggressive: -200},
}

// CaloricTarget computes the daily calorie target from TDEE, goal and urgency.
func CaloricTarget(tdee int, goal domain.GoalType, urgency domain.Urgency) int {
	return tdee + caloricAdjustments[goal][urgency]
}

// MacroTargets splits the caloric target into daily protein/carb/fat grams.
// Protein scales with body weight (higher for fat loss to preserve muscle),
// fat takes a fixed share of calories, carbs get the remainder with a 50g
// floor.
func MacroTargets(caloricTarget int, weightKg float64, goal domain.GoalType) domain.MacroTargets {
	var proteinMultiplier, fatPercent float64
	switch goal {
	case domain.GoalBuildMuscle:
		proteinMultiplier = 2.0
		fatPercent = 0.25
	case domain.GoalLoseFat:
		proteinMultiplier = 2.2
		fatPercent = 0.25
	default:
		proteinMultiplier = 1.6
		fatPercent = 0.30
	}

	proteinG := int(math.Round(weightKg * proteinMultiplier))
	fatG := int(math.Round(float64(caloricTarget) * fatPercent / 9))
	carbsG := int(math.Round(float64(caloricTarget-proteinG*4-fatG*9) / 4))
	if carbsG < 50 {
		carbsG = 50
	}

	return domain.MacroTargets{ProteinG: proteinG, CarbsG: carbsG, FatG: fatG}
}
