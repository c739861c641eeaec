package shopping

import (
	"strings"

	"meal-planner/internal/core/mealplan"
)

const shoppingPromptHeader = `Create a consolidated grocery shopping list for the recipes below.
Merge duplicate ingredients, convert units where it makes sense, and assign each item one category:
Meat & Seafood, Dairy, Vegetables, Fruits, Grains & Bakery, Condiments & Spices, Other.

Recipes:
`

const shoppingPromptFooter = `
Return only a JSON array, no prose:
[{"name": "...", "quantity": 1, "unit": "...", "category": "..."}]`

// BuildShoppingPrompt 列出每道食譜及其食材行（數量、單位、名稱）
func BuildShoppingPrompt(recipes []mealplan.RecipeRecord) string {
	var sb strings.Builder
	sb.WriteString(shoppingPromptHeader)

	for _, r := range recipes {
		sb.WriteString("- ")
		sb.WriteString(r.Name)
		sb.WriteString(":\n")
		for _, ing := range r.Ingredients {
			sb.WriteString("  - ")
			sb.WriteString(ingredientLine(ing))
			sb.WriteString("\n")
		}
	}

	sb.WriteString(shoppingPromptFooter)
	return sb.String()
}

func ingredientLine(ing mealplan.IngredientRecord) string {
	parts := make([]string, 0, 3)
	if ing.Quantity != nil {
		parts = append(parts, ing.Quantity.String())
	}
	if unit := strings.TrimSpace(ing.Unit); unit != "" {
		parts = append(parts, unit)
	}
	parts = append(parts, ing.Name)
	return strings.Join(parts, " ")
}
