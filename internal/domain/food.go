// internal/domain/food.go
package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FoodRegion localizes the food pool. "global" items match every region.
type FoodRegion string

const (
	RegionNorthIndia FoodRegion = "north_india"
	RegionSouthIndia FoodRegion = "south_india"
	RegionEastIndia  FoodRegion = "east_india"
	RegionWestIndia  FoodRegion = "west_india"
	RegionGlobal     FoodRegion = "global"
)

// DietType selects which food tags are excluded.
type DietType string

const (
	DietOmnivore   DietType = "omnivore"
	DietVegetarian DietType = "vegetarian"
	DietVegan      DietType = "vegan"
	DietEggetarian DietType = "eggetarian"
	DietJain       DietType = "jain"
	DietHalal      DietType = "halal"
	DietKosher     DietType = "kosher"
)

// Food is one entry in the read-only food library. Macros are per 100g.
type Food struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slug           string             `bson:"slug" json:"slug"`
	Name           string             `bson:"name" json:"name"`
	NameLocal      string             `bson:"nameLocal,omitempty" json:"nameLocal,omitempty"`
	RegionCode     FoodRegion         `bson:"regionCode" json:"regionCode"`
	CaloriesPer100 float64            `bson:"caloriesPer100g" json:"caloriesPer100g"`
	ProteinG       float64            `bson:"proteinG" json:"proteinG"`
	CarbsG         float64            `bson:"carbsG" json:"carbsG"`
	FatG           float64            `bson:"fatG" json:"fatG"`
	FiberG         float64            `bson:"fiberG" json:"fiberG"`
	CommonServingG float64            `bson:"commonServingG" json:"commonServingG"`
	PriceEstimate  float64            `bson:"priceEstimate" json:"priceEstimate"` // per 100g, user currency
	Tags           []string           `bson:"tags" json:"tags"`
}

// MacroData is an absolute macro breakdown in grams plus calories.
type MacroData struct {
	Calories float64 `bson:"calories" json:"calories"`
	Protein  float64 `bson:"protein" json:"protein"`
	Carbs    float64 `bson:"carbs" json:"carbs"`
	Fat      float64 `bson:"fat" json:"fat"`
	Fiber    float64 `bson:"fiber" json:"fiber"`
}

// MacroTargets are the daily gram targets derived from the caloric target.
type MacroTargets struct {
	ProteinG int `bson:"proteinG" json:"proteinG"`
	CarbsG   int `bson:"carbsG" json:"carbsG"`
	FatG     int `bson:"fatG" json:"fatG"`
}

// CostEstimate summarizes the money cost of a meal plan.
type CostEstimate struct {
	DailyCost  float64 `json:"dailyCost"`
	WeeklyCost float64 `json:"weeklyCost"`
	Currency   string  `json:"currency"`
}

// MessMealCategory identifies a common mess/canteen dish. Mess portions have
// no reliable per-100g data, so macros come from a banded lookup instead.
type MessMealCategory string

const (
	MessDalRoti      MessMealCategory = "dal_roti"
	MessRiceDal      MessMealCategory = "rice_dal"
	MessRiceSambhar  MessMealCategory = "rice_sambhar"
	MessRajmaRice    MessMealCategory = "rajma_rice"
	MessCholeBhature MessMealCategory = "chole_bhature"
	MessSabziRoti    MessMealCategory = "sabzi_roti"
	MessPoha         MessMealCategory = "poha"
	MessUpma         MessMealCategory = "upma"
	MessIdliSambar   MessMealCategory = "idli_sambar"
	MessEggCurry     MessMealCategory = "egg_curry"
	MessChickenCurry MessMealCategory = "chicken_curry"
	MessFriedRice    MessMealCategory = "fried_rice"
	MessChapatiPlain MessMealCategory = "chapati_plain"
	MessSalad        MessMealCategory = "salad"
)

// PortionSize scales a mess meal estimate.
type PortionSize string

const (
	PortionSmall  PortionSize = "small"
	PortionMedium PortionSize = "medium"
	PortionLarge  PortionSize = "large"
)

// MacroEstimate is a banded macro guess for food without exact data.
type MacroEstimate struct {
	Min                MacroData `json:"min"`
	Max                MacroData `json:"max"`
	Avg                MacroData `json:"avg"`
	UncertaintyPercent int       `json:"uncertaintyPercent"`
}
