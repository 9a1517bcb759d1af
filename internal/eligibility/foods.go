package eligibility

import (
	"math"

	"github.com/Divyansh-9/Urja/internal/domain"
)

// dietExcludedTags maps each diet type to the food tags it forbids.
var dietExcludedTags = map[domain.DietType][]string{
	domain.DietVegetarian: {"non_veg", "meat", "fish", "seafood"},
	domain.DietVegan:      {"non_veg", "meat", "fish", "seafood", "dairy", "egg"},
	domain.DietEggetarian: {"non_veg", "meat", "fish", "seafood"},
	domain.DietJain:       {"non_veg", "meat", "fish", "seafood", "root_vegetable", "onion", "garlic"},
	domain.DietHalal:      {"pork", "alcohol"},
	domain.DietKosher:     {"pork", "shellfish"},
	domain.DietOmnivore:   {},
}

// maxItemBudgetShare caps what a single serving may cost relative to the
// daily food budget.
const maxItemBudgetShare = 0.4

// FilterFoods returns the foods matching the user's region (exact match or
// the universal "global" region), diet exclusion list, and budget ceiling:
// no single serving may cost more than 40% of the daily budget. Pool order
// is preserved.
func FilterFoods(pool []domain.Food, region domain.FoodRegion, diet domain.DietType, dailyBudget float64) []domain.Food {
	excluded := dietExcludedTags[diet]

	out := make([]domain.Food, 0, len(pool))
	for _, food := range pool {
		if food.RegionCode != region && food.RegionCode != domain.RegionGlobal {
			continue
		}
		if intersects(food.Tags, excluded) {
			continue
		}
		servingCost := food.PriceEstimate / 100 * food.CommonServingG
		if servingCost > dailyBudget*maxItemBudgetShare {
			continue
		}
		out = append(out, food)
	}
	return out
}

// FoodMacros scales a food's per-100g macros to the given serving size.
// Calories round to whole kcal, gram values to one decimal.
func FoodMacros(food domain.Food, servingGrams float64) domain.MacroData {
	factor := servingGrams / 100
	round1 := func(v float64) float64 { return math.Round(v*10) / 10 }
	return domain.MacroData{
		Calories: math.Round(food.CaloriesPer100 * factor),
		Protein:  round1(food.ProteinG * factor),
		Carbs:    round1(food.CarbsG * factor),
		Fat:      round1(food.FatG * factor),
		Fiber:    round1(food.FiberG * factor),
	}
}

// EstimatePlanCost totals the daily cost of a set of meal items against the
// food pool and extrapolates a weekly figure. Unknown food ids contribute
// nothing; the validator has already rejected them by the time plans are
// costed.
func EstimatePlanCost(items []domain.MealItem, pool []domain.Food, currency string) domain.CostEstimate {
	bySlug := make(map[string]domain.Food, len(pool))
	for _, f := range pool {
		bySlug[f.Slug] = f
	}

	var daily float64
	for _, item := range items {
		if food, ok := bySlug[item.FoodID]; ok {
			daily += food.PriceEstimate / 100 * item.ServingGrams
		}
	}

	return domain.CostEstimate{
		DailyCost:  math.Round(daily),
		WeeklyCost: math.Round(daily * 7),
		Currency:   currency,
	}
}
