package shopping

import (
	"strings"

	"meal-planner/internal/core/mealplan"

	"github.com/shopspring/decimal"
)

// Aggregate 合併所有食譜的食材。
// 同名同單位（不分大小寫）的數量相加；同名不同單位另立 "名稱_單位" 項目。
// 輸出依首次出現的順序排列，名稱與單位的大小寫沿用首次出現者，每筆都已分類。
func Aggregate(recipes []mealplan.RecipeRecord) []AggregatedIngredient {
	var out []AggregatedIngredient
	index := make(map[string]int)

	for _, recipe := range recipes {
		for _, ing := range recipe.Ingredients {
			unit := strings.TrimSpace(ing.Unit)
			if unit == "" {
				unit = mealplan.DefaultUnit
			}
			qty := decimal.Zero
			if ing.Quantity != nil {
				qty = *ing.Quantity
			}

			key := strings.ToLower(ing.Name)
			if i, ok := index[key]; ok && !strings.EqualFold(out[i].Unit, unit) {
				key = key + "_" + strings.ToLower(unit)
			}

			if i, ok := index[key]; ok {
				out[i].Quantity = out[i].Quantity.Add(qty)
				continue
			}

			index[key] = len(out)
			out = append(out, AggregatedIngredient{
				Key:      key,
				Name:     ing.Name,
				Quantity: qty,
				Unit:     unit,
				Category: Categorize(ing.Name),
			})
		}
	}

	return out
}

// ToShoppingItems 將合併結果轉為未勾選的清單項目
func ToShoppingItems(aggregated []AggregatedIngredient) []ShoppingListItem {
	items := make([]ShoppingListItem, 0, len(aggregated))
	for _, a := range aggregated {
		items = append(items, ShoppingListItem{
			IngredientName: a.Name,
			Quantity:       a.Quantity,
			Unit:           a.Unit,
			Category:       a.Category,
		})
	}
	return items
}
