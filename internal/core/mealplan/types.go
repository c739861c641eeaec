package mealplan

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// IngredientKind 標記食材在模型輸出中的原始形狀
type IngredientKind int

const (
	// IngredientNamed 來源為單純的食材名稱字串
	IngredientNamed IngredientKind = iota + 1
	// IngredientStructured 來源為含數量、單位與營養的物件
	IngredientStructured
)

func (k IngredientKind) String() string {
	switch k {
	case IngredientNamed:
		return "named"
	case IngredientStructured:
		return "structured"
	default:
		return "unknown"
	}
}

// ParsedIngredient 解析後的食材；Kind 在反序列化時決定一次
type ParsedIngredient struct {
	Kind     IngredientKind   `json:"kind"`
	Name     string           `json:"name"`
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
	Unit     string           `json:"unit,omitempty"`
	Calories *decimal.Decimal `json:"calories,omitempty"`
	Protein  *decimal.Decimal `json:"protein,omitempty"`
	Carbs    *decimal.Decimal `json:"carbs,omitempty"`
	Fat      *decimal.Decimal `json:"fat,omitempty"`
}

// ParsedNutrition 模型給的營養描述，值為自由格式字串如 "~300 kcal"
type ParsedNutrition struct {
	Calories string `json:"calories,omitempty"`
	Protein  string `json:"protein,omitempty"`
	Carbs    string `json:"carbs,omitempty"`
	Fat      string `json:"fat,omitempty"`
	Fiber    string `json:"fiber,omitempty"`
}

// ParsedMeal 單一餐點
type ParsedMeal struct {
	Type         string             `json:"type"`
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	CuisineType  string             `json:"cuisineType,omitempty"`
	PrepTime     *int               `json:"prepTime,omitempty"`
	CookTime     *int               `json:"cookTime,omitempty"`
	Servings     int                `json:"servings"`
	Difficulty   string             `json:"difficulty,omitempty"`
	ImageURL     string             `json:"imageUrl,omitempty"`
	Instructions string             `json:"instructions,omitempty"`
	Ingredients  []ParsedIngredient `json:"ingredients"`
	Nutrition    *ParsedNutrition   `json:"nutrition,omitempty"`
}

// DayPlan 一天的餐點
type DayPlan struct {
	DayNumber int          `json:"day"`
	Meals     []ParsedMeal `json:"meals"`
}

// ParsedMealPlan 解析結果；Skipped 記錄被略過的格式錯誤項目
type ParsedMealPlan struct {
	Days    []DayPlan `json:"days"`
	Skipped []Skip    `json:"skipped,omitempty"`
}

// MealCount 回傳所有天數的餐點總數
func (p *ParsedMealPlan) MealCount() int {
	n := 0
	for _, d := range p.Days {
		n += len(d.Meals)
	}
	return n
}

// Skip 單一被略過的天、餐點或食材，不影響整體結果
type Skip struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

func (s Skip) String() string {
	return s.Path + ": " + s.Reason
}

// ParseError 模型輸出不是合法 JSON 或缺少必要結構，屬於致命錯誤
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("meal plan parse error: %s: %v", e.Reason, e.Err)
	}
	return "meal plan parse error: " + e.Reason
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
