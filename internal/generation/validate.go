package generation

import (
	"fmt"
	"strings"

	"github.com/Divyansh-9/Urja/internal/domain"
)

// calorieTolerance is the validator's hard window around the caloric target.
// The prompt asks for ±50; anything beyond ±100 is a validation failure.
const calorieTolerance = 100

// ValidationError is one field-level business-constraint violation.
type ValidationError struct {
	Field   string
	Message string
	Code    string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult aggregates all violations of one validation pass.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// Feedback renders the violations as corrective feedback for a retry.
func (r ValidationResult) Feedback() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

func invalid(errors ...ValidationError) ValidationResult {
	return ValidationResult{Valid: false, Errors: errors}
}

// ValidateWorkoutPlan enforces the hard constraints on a parsed workout
// response: every referenced exercise id must be in the allowed list
// (unknown ids are a hard failure, never silently dropped) and no day may
// exceed the session-length ceiling.
func ValidateWorkoutPlan(plan *domain.WorkoutPlan, allowedExerciseIDs []string, maxSessionMins int) ValidationResult {
	if len(plan.Days) == 0 {
		return invalid(ValidationError{Field: "days", Message: "Missing or invalid days array", Code: "MISSING_FIELD"})
	}

	allowed := make(map[string]struct{}, len(allowedExerciseIDs))
	for _, id := range allowedExerciseIDs {
		allowed[id] = struct{}{}
	}

	var errors []ValidationError
	for _, day := range plan.Days {
		if maxSessionMins > 0 && day.DurationMins > maxSessionMins {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("day.%s.durationMins", day.DayName),
				Message: fmt.Sprintf("Session duration %d exceeds max of %d minutes. Reduce exercises or rest times.", day.DurationMins, maxSessionMins),
				Code:    "DURATION_EXCEEDED",
			})
		}

		for _, ex := range day.Exercises {
			if _, ok := allowed[ex.ExerciseID]; !ok {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("exercises.%s", ex.ExerciseID),
					Message: fmt.Sprintf("Exercise ID %q not in allowed list", ex.ExerciseID),
					Code:    "INVALID_EXERCISE",
				})
			}
		}
	}

	return ValidationResult{Valid: len(errors) == 0, Errors: errors}
}

// ValidateNutritionPlan enforces the hard constraints on a parsed nutrition
// response: every referenced food id must be allowed and every day's calorie
// total must land within the tolerance window around the caloric target.
func ValidateNutritionPlan(plan *domain.NutritionPlan, allowedFoodIDs []string, caloricTarget int) ValidationResult {
	if len(plan.Days) == 0 {
		return invalid(ValidationError{Field: "days", Message: "Missing or invalid days array", Code: "MISSING_FIELD"})
	}

	allowed := make(map[string]struct{}, len(allowedFoodIDs))
	for _, id := range allowedFoodIDs {
		allowed[id] = struct{}{}
	}

	var errors []ValidationError
	for _, day := range plan.Days {
		calDiff := day.DailyTotals.Calories - float64(caloricTarget)
		if calDiff < 0 {
			calDiff = -calDiff
		}
		if calDiff > calorieTolerance {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("day%d.calories", day.Day),
				Message: fmt.Sprintf("Calories %.0f differ from target %d by %.0f", day.DailyTotals.Calories, caloricTarget, calDiff),
				Code:    "CALORIE_MISMATCH",
			})
		}

		for _, meal := range day.Meals {
			for _, item := range meal.Items {
				if _, ok := allowed[item.FoodID]; !ok {
					errors = append(errors, ValidationError{
						Field:   fmt.Sprintf("day%d.%s.%s", day.Day, meal.MealType, item.FoodID),
						Message: fmt.Sprintf("Food ID %q not in allowed list", item.FoodID),
						Code:    "INVALID_FOOD",
					})
				}
			}
		}
	}

	return ValidationResult{Valid: len(errors) == 0, Errors: errors}
}
