package suggestion

import (
	"fmt"
	"strings"

	"meal-planner/internal/core/mealplan"
)

const recipesPromptTemplate = `Suggest %d recipes based on:
%s

Return only a JSON array. Each element:
{"name": "...", "description": "...", "cuisineType": "...", "prepTime": 10, "cookTime": 20,
 "difficulty": "easy", "estimatedCost": 4.50,
 "ingredients": [{"name": "...", "quantity": 100, "unit": "g"}]}`

const substitutesPromptTemplate = `Suggest substitutes for ingredient: %s
Reason: %s

Return only a JSON array. Each element:
{"name": "...", "ratio": "1:1", "notes": "..."}`

// BuildRecipesPrompt 依使用者條件組出推薦食譜 prompt
func BuildRecipesPrompt(p mealplan.Profile, count int) string {
	return fmt.Sprintf(recipesPromptTemplate, count, p.Describe())
}

// BuildSubstitutesPrompt 組出食材替代 prompt；未給原因時視為一般替代
func BuildSubstitutesPrompt(ingredient, reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "general substitute"
	}
	return fmt.Sprintf(substitutesPromptTemplate, strings.TrimSpace(ingredient), reason)
}
