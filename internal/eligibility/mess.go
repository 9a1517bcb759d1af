package eligibility

import (
	"math"
	"strings"

	"github.com/Divyansh-9/Urja/internal/domain"
)

// messUncertaintyPercent is the stated error band on every mess estimate;
// mess portions vary too much for anything tighter.
const messUncertaintyPercent = 15

type messMacroBand struct {
	min, max, avg domain.MacroData
}

// messMealMacros holds the per-category macro bands for a medium portion.
var messMealMacros = map[domain.MessMealCategory]messMacroBand{
	domain.MessDalRoti: {
		min: domain.MacroData{Calories: 280, Protein: 10, Carbs: 40, Fat: 8, Fiber: 5},
		max: domain.MacroData{Calories: 420, Protein: 16, Carbs: 60, Fat: 14, Fiber: 8},
		avg: domain.MacroData{Calories: 350, Protein: 13, Carbs: 50, Fat: 11, Fiber: 6.5},
	},
	domain.MessRiceDal: {
		min: domain.MacroData{Calories: 320, Protein: 10, Carbs: 55, Fat: 6, Fiber: 4},
		max: domain.MacroData{Calories: 480, Protein: 16, Carbs: 80, Fat: 12, Fiber: 7},
		avg: domain.MacroData{Calories: 400, Protein: 13, Carbs: 67, Fat: 9, Fiber: 5.5},
	},
	domain.MessRiceSambhar: {
		min: domain.MacroData{Calories: 300, Protein: 8, Carbs: 50, Fat: 7, Fiber: 5},
		max: domain.MacroData{Calories: 450, Protein: 14, Carbs: 75, Fat: 12, Fiber: 8},
		avg: domain.MacroData{Calories: 375, Protein: 11, Carbs: 62, Fat: 9.5, Fiber: 6.5},
	},
	domain.MessRajmaRice: {
		min: domain.MacroData{Calories: 380, Protein: 14, Carbs: 60, Fat: 8, Fiber: 8},
		max: domain.MacroData{Calories: 520, Protein: 20, Carbs: 82, Fat: 14, Fiber: 12},
		avg: domain.MacroData{Calories: 450, Protein: 17, Carbs: 71, Fat: 11, Fiber: 10},
	},
	domain.MessCholeBhature: {
		min: domain.MacroData{Calories: 450, Protein: 12, Carbs: 55, Fat: 20, Fiber: 6},
		max: domain.MacroData{Calories: 650, Protein: 18, Carbs: 80, Fat: 32, Fiber: 10},
		avg: domain.MacroData{Calories: 550, Protein: 15, Carbs: 67, Fat: 26, Fiber: 8},
	},
	domain.MessSabziRoti: {
		min: domain.MacroData{Calories: 250, Protein: 8, Carbs: 38, Fat: 7, Fiber: 5},
		max: domain.MacroData{Calories: 380, Protein: 12, Carbs: 55, Fat: 13, Fiber: 8},
		avg: domain.MacroData{Calories: 315, Protein: 10, Carbs: 46, Fat: 10, Fiber: 6.5},
	},
	domain.MessPoha: {
		min: domain.MacroData{Calories: 200, Protein: 4, Carbs: 38, Fat: 5, Fiber: 2},
		max: domain.MacroData{Calories: 320, Protein: 7, Carbs: 55, Fat: 10, Fiber: 4},
		avg: domain.MacroData{Calories: 260, Protein: 5.5, Carbs: 46, Fat: 7.5, Fiber: 3},
	},
	domain.MessUpma: {
		min: domain.MacroData{Calories: 180, Protein: 4, Carbs: 32, Fat: 5, Fiber: 2},
		max: domain.MacroData{Calories: 300, Protein: 7, Carbs: 50, Fat: 10, Fiber: 4},
		avg: domain.MacroData{Calories: 240, Protein: 5.5, Carbs: 41, Fat: 7.5, Fiber: 3},
	},
	domain.MessIdliSambar: {
		min: domain.MacroData{Calories: 220, Protein: 6, Carbs: 40, Fat: 3, Fiber: 3},
		max: domain.MacroData{Calories: 350, Protein: 10, Carbs: 62, Fat: 7, Fiber: 6},
		avg: domain.MacroData{Calories: 285, Protein: 8, Carbs: 51, Fat: 5, Fiber: 4.5},
	},
	domain.MessEggCurry: {
		min: domain.MacroData{Calories: 300, Protein: 14, Carbs: 20, Fat: 18, Fiber: 2},
		max: domain.MacroData{Calories: 450, Protein: 22, Carbs: 35, Fat: 28, Fiber: 4},
		avg: domain.MacroData{Calories: 375, Protein: 18, Carbs: 27, Fat: 23, Fiber: 3},
	},
	domain.MessChickenCurry: {
		min: domain.MacroData{Calories: 350, Protein: 25, Carbs: 15, Fat: 20, Fiber: 2},
		max: domain.MacroData{Calories: 520, Protein: 38, Carbs: 25, Fat: 32, Fiber: 4},
		avg: domain.MacroData{Calories: 435, Protein: 31, Carbs: 20, Fat: 26, Fiber: 3},
	},
	domain.MessFriedRice: {
		min: domain.MacroData{Calories: 350, Protein: 8, Carbs: 55, Fat: 12, Fiber: 2},
		max: domain.MacroData{Calories: 500, Protein: 14, Carbs: 78, Fat: 20, Fiber: 4},
		avg: domain.MacroData{Calories: 425, Protein: 11, Carbs: 66, Fat: 16, Fiber: 3},
	},
	domain.MessChapatiPlain: {
		min: domain.MacroData{Calories: 70, Protein: 2, Carbs: 14, Fat: 1, Fiber: 1},
		max: domain.MacroData{Calories: 120, Protein: 4, Carbs: 22, Fat: 3, Fiber: 2},
		avg: domain.MacroData{Calories: 95, Protein: 3, Carbs: 18, Fat: 2, Fiber: 1.5},
	},
	domain.MessSalad: {
		min: domain.MacroData{Calories: 30, Protein: 1, Carbs: 6, Fat: 0.5, Fiber: 2},
		max: domain.MacroData{Calories: 80, Protein: 3, Carbs: 15, Fat: 2, Fiber: 4},
		avg: domain.MacroData{Calories: 55, Protein: 2, Carbs: 10, Fat: 1.2, Fiber: 3},
	},
}

// portionMultipliers scales the medium-portion bands.
var portionMultipliers = map[domain.PortionSize]float64{
	domain.PortionSmall:  0.7,
	domain.PortionMedium: 1.0,
	domain.PortionLarge:  1.3,
}

// EstimateMessMealMacros returns the banded macro estimate for one mess meal
// at the given portion size. ok is false for an unknown category; unknown
// portion sizes fall back to medium.
func EstimateMessMealMacros(category domain.MessMealCategory, portion domain.PortionSize) (domain.MacroEstimate, bool) {
	band, ok := messMealMacros[category]
	if !ok {
		return domain.MacroEstimate{}, false
	}

	multiplier, ok := portionMultipliers[portion]
	if !ok {
		multiplier = 1.0
	}

	scale := func(d domain.MacroData) domain.MacroData {
		round1 := func(v float64) float64 { return math.Round(v*10) / 10 }
		return domain.MacroData{
			Calories: math.Round(d.Calories * multiplier),
			Protein:  round1(d.Protein * multiplier),
			Carbs:    round1(d.Carbs * multiplier),
			Fat:      round1(d.Fat * multiplier),
			Fiber:    round1(d.Fiber * multiplier),
		}
	}

	return domain.MacroEstimate{
		Min:                scale(band.min),
		Max:                scale(band.max),
		Avg:                scale(band.avg),
		UncertaintyPercent: messUncertaintyPercent,
	}, true
}

// SearchFoods returns up to limit foods in the user's region (or global)
// whose name or local name contains the query, case-insensitive. Pool order
// is preserved.
func SearchFoods(pool []domain.Food, query string, region domain.FoodRegion, limit int) []domain.Food {
	if limit <= 0 {
		limit = 20
	}
	q := strings.ToLower(query)

	var out []domain.Food
	for _, food := range pool {
		if len(out) == limit {
			break
		}
		if food.RegionCode != region && food.RegionCode != domain.RegionGlobal {
			continue
		}
		if !strings.Contains(strings.ToLower(food.Name), q) &&
			!strings.Contains(strings.ToLower(food.NameLocal), q) {
			continue
		}
		out = append(out, food)
	}
	return out
}
