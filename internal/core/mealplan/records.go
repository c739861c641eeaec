package mealplan

import (
	"time"

	"github.com/shopspring/decimal"
)

// 預設值
const (
	DefaultUnit     = "unit"
	DefaultServings = 1
	StatusActive    = "active"
)

// UserRef 記錄擁有者
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
}

// IngredientRecord 食譜中的一筆食材
type IngredientRecord struct {
	ID       string           `json:"id"`
	RecipeID string           `json:"recipe_id"`
	Name     string           `json:"name"`
	Quantity *decimal.Decimal `json:"quantity"`
	Unit     string           `json:"unit"`
	Calories *decimal.Decimal `json:"calories"`
	Protein  *decimal.Decimal `json:"protein"`
	Carbs    *decimal.Decimal `json:"carbs"`
	Fat      *decimal.Decimal `json:"fat"`
}

// RecipeRecord 由一餐產生的食譜
type RecipeRecord struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	CuisineType  string             `json:"cuisine_type,omitempty"`
	MealType     string             `json:"meal_type,omitempty"`
	PrepTime     *int               `json:"prep_time,omitempty"`
	CookTime     *int               `json:"cook_time,omitempty"`
	Servings     int                `json:"servings"`
	Difficulty   string             `json:"difficulty,omitempty"`
	ImageURL     string             `json:"image_url,omitempty"`
	Instructions string             `json:"instructions,omitempty"`
	CreatedBy    UserRef            `json:"created_by"`
	Ingredients  []IngredientRecord `json:"ingredients"`
	CreatedAt    time.Time          `json:"created_at"`
}

// MealPlanRecord 餐點計畫容器
type MealPlanRecord struct {
	ID            string     `json:"id"`
	Owner         UserRef    `json:"owner"`
	Name          string     `json:"name,omitempty"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	TotalCalories int        `json:"total_calories"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
}

// MealPlanItemRecord 連結天數、餐別與食譜
type MealPlanItemRecord struct {
	ID         string        `json:"id"`
	MealPlanID string        `json:"meal_plan_id"`
	RecipeID   string        `json:"recipe_id"`
	DayNumber  int           `json:"day_of_week"`
	MealType   string        `json:"meal_type"`
	Recipe     *RecipeRecord `json:"recipe,omitempty"`
}

// Materialization 物化結果
type Materialization struct {
	Plan    MealPlanRecord       `json:"meal_plan"`
	Items   []MealPlanItemRecord `json:"items"`
	Skipped []Skip               `json:"skipped,omitempty"`
}

// Recipes 依項目順序回傳食譜
func (m *Materialization) Recipes() []RecipeRecord {
	recipes := make([]RecipeRecord, 0, len(m.Items))
	for _, item := range m.Items {
		if item.Recipe != nil {
			recipes = append(recipes, *item.Recipe)
		}
	}
	return recipes
}
