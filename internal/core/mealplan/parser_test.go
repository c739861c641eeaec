package mealplan

import (
	"errors"
	"testing"
)

func TestParseMixedIngredients(t *testing.T) {
	in := `{
		"days": [
			{"day": 1, "meals": [
				{"type": "breakfast", "name": "Oatmeal", "extra": true,
				 "ingredients": ["oats", {"name": "milk", "quantity": "250", "unit": "ml", "calories": 120}],
				 "nutrition": {"calories": "~300 kcal", "carbohydrates": 40, "fats": "5g"}}
			]}
		],
		"notes": "ignored"
	}`

	plan, err := Parse(in)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(plan.Days) != 1 || len(plan.Days[0].Meals) != 1 {
		t.Fatalf("unexpected plan: %+v", plan)
	}

	meal := plan.Days[0].Meals[0]
	if meal.Servings != 1 {
		t.Errorf("servings = %d, want 1", meal.Servings)
	}
	if len(meal.Ingredients) != 2 {
		t.Fatalf("ingredients = %d, want 2", len(meal.Ingredients))
	}

	oats, milk := meal.Ingredients[0], meal.Ingredients[1]
	if oats.Kind != IngredientNamed || oats.Name != "oats" || oats.Quantity != nil {
		t.Errorf("unexpected named ingredient: %+v", oats)
	}
	if milk.Kind != IngredientStructured || milk.Unit != "ml" || milk.Quantity == nil || milk.Quantity.String() != "250" {
		t.Errorf("unexpected structured ingredient: %+v", milk)
	}
	if milk.Calories == nil || milk.Calories.String() != "120" {
		t.Errorf("calories = %v, want 120", milk.Calories)
	}

	n := meal.Nutrition
	if n == nil || n.Calories != "~300 kcal" || n.Carbs != "40" || n.Fat != "5g" {
		t.Errorf("unexpected nutrition: %+v", n)
	}
}

func TestParseAliases(t *testing.T) {
	in := `{"days":[{"dayNumber":3,"meals":[{"meal_type":"lunch","name":"Soup","cuisine_type":"Thai",
		"prep_time":"15 minutes","cookTime":20,"servings":"2",
		"ingredients":[{"ingredient":"rice","amount":"1/2","unit":"cup"}],
		"nutrition":{"carbs":"10g","carbohydrates":"99g","fat":"1g","fats":"9g"}}]}]}`

	plan, err := Parse(in)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	day := plan.Days[0]
	if day.DayNumber != 3 {
		t.Errorf("day = %d, want 3", day.DayNumber)
	}
	meal := day.Meals[0]
	if meal.Type != "lunch" || meal.CuisineType != "Thai" {
		t.Errorf("aliases not applied: %+v", meal)
	}
	if meal.PrepTime == nil || *meal.PrepTime != 15 || meal.CookTime == nil || *meal.CookTime != 20 {
		t.Errorf("times = %v/%v", meal.PrepTime, meal.CookTime)
	}
	if meal.Servings != 2 {
		t.Errorf("servings = %d, want 2", meal.Servings)
	}
	rice := meal.Ingredients[0]
	if rice.Name != "rice" || rice.Quantity == nil || rice.Quantity.String() != "0.5" {
		t.Errorf("unexpected rice: %+v", rice)
	}
	if meal.Nutrition.Carbs != "10g" || meal.Nutrition.Fat != "1g" {
		t.Errorf("primary keys should win: %+v", meal.Nutrition)
	}
}

func TestParseDropsOutOfRangeIntegers(t *testing.T) {
	in := `{"days":[{"day":1,"meals":[{"type":"dinner","name":"Stew",
		"prepTime":1e30,"cookTime":"99999999999 minutes","servings":-5e12}]}]}`

	plan, err := Parse(in)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	meal := plan.Days[0].Meals[0]
	if meal.PrepTime != nil || meal.CookTime != nil {
		t.Errorf("times = %v/%v, want nil", meal.PrepTime, meal.CookTime)
	}
	if meal.Servings != DefaultServings {
		t.Errorf("servings = %d, want %d", meal.Servings, DefaultServings)
	}
}

func TestParseDefaultsDayNumberToPosition(t *testing.T) {
	plan, err := Parse(`{"days":[{"meals":[]},{"day":0,"meals":[]}]}`)
	if err != nil {
		t.Fatal(err)
	}
	if plan.Days[0].DayNumber != 1 || plan.Days[1].DayNumber != 2 {
		t.Fatalf("unexpected day numbers: %+v", plan.Days)
	}
}

func TestParseSkipsMalformedItems(t *testing.T) {
	in := `{"days":[
		"not a day",
		{"day":1,"meals":[
			42,
			{"type":"dinner"},
			{"name":"Salad","ingredients":[7, "", {"unit":"g"}, "lettuce"]}
		]}
	]}`

	plan, err := Parse(in)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(plan.Days) != 1 || plan.MealCount() != 1 {
		t.Fatalf("unexpected plan: %+v", plan)
	}
	if got := plan.Days[0].Meals[0].Ingredients; len(got) != 1 || got[0].Name != "lettuce" {
		t.Fatalf("unexpected ingredients: %+v", got)
	}
	if len(plan.Skipped) != 6 {
		t.Fatalf("skipped = %d (%v), want 6", len(plan.Skipped), plan.Skipped)
	}
	if plan.Skipped[0].Path != "days[0]" {
		t.Errorf("first skip path = %q", plan.Skipped[0].Path)
	}
}

func TestParseFatalErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not json", "I cannot help with that."},
		{"trailing comma", `{"days":[1,],}`},
		{"array top level", `[{"days":[]}]`},
		{"null top level", `null`},
		{"missing days", `{"meals":[]}`},
		{"null days", `{"days":null}`},
		{"days not array", `{"days":{"day":1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
		})
	}
}

func TestParseIgnoresTrailingText(t *testing.T) {
	plan, err := Parse(`{"days":[{"day":1,"meals":[{"name":"Toast"}]}]} Let me know if you need changes.`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if plan.MealCount() != 1 {
		t.Fatalf("meal count = %d", plan.MealCount())
	}
}
