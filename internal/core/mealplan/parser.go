package mealplan

import (
	"encoding/json"
	"fmt"

	"meal-planner/internal/pkg/common"
)

// Parse 將清理過的 JSON 轉為 ParsedMealPlan。
// 只有整體不是 JSON、不是物件、缺少 days 或 days 不是陣列時才回傳 *ParseError；
// 個別格式錯誤的天、餐點或食材會被略過並記錄在 Skipped。
func Parse(sanitized string) (*ParsedMealPlan, error) {
	var top object
	if err := common.ParseJSONPrefix(sanitized, &top); err != nil {
		return nil, &ParseError{Reason: "invalid JSON", Err: err}
	}
	if top == nil {
		return nil, &ParseError{Reason: "top-level value is not an object"}
	}

	rawDays, ok := top.lookup("days")
	if !ok {
		return nil, &ParseError{Reason: "missing days"}
	}
	days, ok := asArray(rawDays)
	if !ok {
		return nil, &ParseError{Reason: "days is not an array"}
	}

	plan := &ParsedMealPlan{Days: make([]DayPlan, 0, len(days))}
	for i, raw := range days {
		path := fmt.Sprintf("days[%d]", i)
		day, ok := asObject(raw)
		if !ok {
			plan.skip(path, "day is not an object")
			continue
		}
		plan.Days = append(plan.Days, plan.parseDay(path, i, day))
	}

	return plan, nil
}

func (p *ParsedMealPlan) skip(path, reason string) {
	p.Skipped = append(p.Skipped, Skip{Path: path, Reason: reason})
}

func (p *ParsedMealPlan) parseDay(path string, index int, day object) DayPlan {
	dp := DayPlan{DayNumber: index + 1}
	if n := day.integer("day", "dayNumber", "day_number"); n != nil && *n >= 1 {
		dp.DayNumber = *n
	}

	rawMeals, ok := day.lookup("meals")
	if !ok {
		return dp
	}
	meals, ok := asArray(rawMeals)
	if !ok {
		p.skip(path+".meals", "meals is not an array")
		return dp
	}

	for j, raw := range meals {
		mealPath := fmt.Sprintf("%s.meals[%d]", path, j)
		obj, ok := asObject(raw)
		if !ok {
			p.skip(mealPath, "meal is not an object")
			continue
		}
		meal, ok := p.parseMeal(mealPath, obj)
		if !ok {
			continue
		}
		dp.Meals = append(dp.Meals, meal)
	}
	return dp
}

func (p *ParsedMealPlan) parseMeal(path string, obj object) (ParsedMeal, bool) {
	meal := ParsedMeal{
		Type:         obj.str("type", "mealType", "meal_type"),
		Name:         obj.str("name"),
		Description:  obj.str("description"),
		CuisineType:  obj.str("cuisineType", "cuisine_type", "cuisine"),
		PrepTime:     obj.integer("prepTime", "prep_time", "prepTimeMin"),
		CookTime:     obj.integer("cookTime", "cook_time", "cookTimeMin"),
		Servings:     1,
		Difficulty:   obj.str("difficulty"),
		ImageURL:     obj.str("imageUrl", "image_url"),
		Instructions: obj.str("instructions"),
	}
	if meal.Name == "" {
		p.skip(path, "meal has no name")
		return ParsedMeal{}, false
	}
	if s := obj.integer("servings"); s != nil && *s > 0 {
		meal.Servings = *s
	}

	if raw, ok := obj.lookup("ingredients"); ok {
		if items, ok := asArray(raw); ok {
			meal.Ingredients = p.parseIngredients(path, items)
		} else {
			p.skip(path+".ingredients", "ingredients is not an array")
		}
	}

	if raw, ok := obj.lookup("nutrition"); ok {
		if n, ok := asObject(raw); ok {
			meal.Nutrition = &ParsedNutrition{
				Calories: n.str("calories"),
				Protein:  n.str("protein"),
				Carbs:    n.str("carbs", "carbohydrates"),
				Fat:      n.str("fat", "fats"),
				Fiber:    n.str("fiber"),
			}
		} else {
			p.skip(path+".nutrition", "nutrition is not an object")
		}
	}

	return meal, true
}

// parseIngredients 逐一判斷元素是字串或物件
func (p *ParsedMealPlan) parseIngredients(path string, items []json.RawMessage) []ParsedIngredient {
	out := make([]ParsedIngredient, 0, len(items))
	for k, raw := range items {
		itemPath := fmt.Sprintf("%s.ingredients[%d]", path, k)

		switch firstByte(raw) {
		case '"':
			name := lenientString(raw)
			if name == "" {
				p.skip(itemPath, "empty ingredient name")
				continue
			}
			out = append(out, ParsedIngredient{Kind: IngredientNamed, Name: name})
		case '{':
			obj, ok := asObject(raw)
			if !ok {
				p.skip(itemPath, "malformed ingredient object")
				continue
			}
			ing := ParsedIngredient{
				Kind:     IngredientStructured,
				Name:     obj.str("name", "ingredient"),
				Quantity: obj.dec("quantity", "amount"),
				Unit:     obj.str("unit"),
				Calories: obj.dec("calories"),
				Protein:  obj.dec("protein"),
				Carbs:    obj.dec("carbs", "carbohydrates"),
				Fat:      obj.dec("fat", "fats"),
			}
			if ing.Name == "" {
				p.skip(itemPath, "ingredient has no name")
				continue
			}
			out = append(out, ing)
		default:
			p.skip(itemPath, "ingredient is neither a string nor an object")
		}
	}
	return out
}
