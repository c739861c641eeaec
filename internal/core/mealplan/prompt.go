package mealplan

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Profile 產生餐點計畫所需的使用者條件
type Profile struct {
	Goal              string           `json:"goal"`
	DietaryPreference string           `json:"dietary_preference"`
	Allergies         string           `json:"allergies"`
	BudgetPerMeal     *decimal.Decimal `json:"budget_per_meal"`
	ActivityLevel     string           `json:"activity_level"`
}

const mealPlanPromptTemplate = `Create a %d-day meal plan for:
%s

Return only JSON with structure:
{
  "days": [
    {
      "day": 1,
      "meals": [
        {
          "type": "breakfast",
          "name": "...",
          "description": "...",
          "cuisineType": "...",
          "prepTime": 10,
          "cookTime": 15,
          "servings": 1,
          "difficulty": "easy",
          "ingredients": [{"name": "...", "quantity": 100, "unit": "g"}],
          "instructions": "...",
          "nutrition": {"calories": "...", "protein": "...", "carbs": "...", "fat": "..."}
        }
      ]
    }
  ]
}`

// Describe 以條列方式描述使用者條件，未填的欄位寫 "not specified"
func (p Profile) Describe() string {
	budget := "not specified"
	if p.BudgetPerMeal != nil {
		budget = "$" + p.BudgetPerMeal.StringFixed(2)
	}
	return fmt.Sprintf("- Goal: %s\n- Dietary preference: %s\n- Allergies: %s\n- Budget per meal: %s\n- Activity level: %s",
		orUnspecified(p.Goal),
		orUnspecified(p.DietaryPreference),
		orUnspecified(p.Allergies),
		budget,
		orUnspecified(p.ActivityLevel),
	)
}

// BuildMealPlanPrompt 依使用者條件組出 days 天的餐點計畫 prompt
func BuildMealPlanPrompt(p Profile, days int) string {
	return fmt.Sprintf(mealPlanPromptTemplate, days, p.Describe())
}

func orUnspecified(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "not specified"
	}
	return s
}
