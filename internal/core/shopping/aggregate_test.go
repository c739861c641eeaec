package shopping

import (
	"sort"
	"strings"
	"testing"

	"meal-planner/internal/core/mealplan"

	"github.com/shopspring/decimal"
)

func qty(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func recipe(name string, ings ...mealplan.IngredientRecord) mealplan.RecipeRecord {
	return mealplan.RecipeRecord{Name: name, Ingredients: ings}
}

func ing(name, quantity, unit string) mealplan.IngredientRecord {
	r := mealplan.IngredientRecord{Name: name, Unit: unit}
	if quantity != "" {
		r.Quantity = qty(quantity)
	}
	return r
}

func TestAggregateEggs(t *testing.T) {
	got := Aggregate([]mealplan.RecipeRecord{
		recipe("Omelette", ing("egg", "2", "pieces")),
		recipe("Fried rice", ing("egg", "2", "pieces")),
	})

	if len(got) != 1 {
		t.Fatalf("entries = %d, want 1: %+v", len(got), got)
	}
	e := got[0]
	if e.Name != "egg" || !e.Quantity.Equal(decimal.NewFromInt(4)) || e.Unit != "pieces" || e.Category != CategoryOther {
		t.Fatalf("unexpected entry: %+v", e)
	}
}

func TestAggregateUnitMismatch(t *testing.T) {
	got := Aggregate([]mealplan.RecipeRecord{
		recipe("Grill", ing("chicken breast", "200", "g")),
		recipe("Salad", ing("chicken breast", "1", "piece")),
		recipe("Wrap", ing("Chicken Breast", "100", "G"), ing("chicken breast", "2", "piece")),
	})

	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2: %+v", len(got), got)
	}
	if got[0].Key != "chicken breast" || !got[0].Quantity.Equal(decimal.NewFromInt(300)) {
		t.Errorf("grams entry = %+v", got[0])
	}
	if got[1].Key != "chicken breast_piece" || !got[1].Quantity.Equal(decimal.NewFromInt(3)) {
		t.Errorf("piece entry = %+v", got[1])
	}
	for _, e := range got {
		if e.Category != CategoryMeat {
			t.Errorf("%s category = %q", e.Key, e.Category)
		}
	}
}

func TestAggregateDefaults(t *testing.T) {
	got := Aggregate([]mealplan.RecipeRecord{
		recipe("Snack", ing("almonds", "", "")),
		recipe("Snack 2", ing("almonds", "10", "unit")),
	})
	if len(got) != 1 {
		t.Fatalf("entries = %d: %+v", len(got), got)
	}
	if got[0].Unit != mealplan.DefaultUnit || !got[0].Quantity.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected entry: %+v", got[0])
	}
}

func TestAggregateExactDecimals(t *testing.T) {
	got := Aggregate([]mealplan.RecipeRecord{
		recipe("A", ing("milk", "0.1", "l")),
		recipe("B", ing("milk", "0.2", "l")),
	})
	if got[0].Quantity.String() != "0.3" {
		t.Fatalf("quantity = %s, want 0.3", got[0].Quantity)
	}
}

func TestAggregateEmpty(t *testing.T) {
	if got := Aggregate(nil); len(got) != 0 {
		t.Fatalf("expected no entries, got %+v", got)
	}
}

func TestAggregateCommutative(t *testing.T) {
	recipes := []mealplan.RecipeRecord{
		recipe("A", ing("egg", "2", "pieces"), ing("flour", "200", "g"), ing("milk", "250", "ml")),
		recipe("B", ing("Egg", "100", "g"), ing("sugar", "", "")),
		recipe("C", ing("flour", "1", "cup"), ing("egg", "1", "Pieces"), ing("milk", "0.5", "l")),
		recipe("D", ing("flour", "50", "G"), ing("egg", "50", "g")),
	}

	reversed := make([]mealplan.RecipeRecord, len(recipes))
	for i, r := range recipes {
		reversed[len(recipes)-1-i] = r
	}

	a, b := multiset(Aggregate(recipes)), multiset(Aggregate(reversed))
	if strings.Join(a, ";") != strings.Join(b, ";") {
		t.Fatalf("aggregation depends on order:\n%v\n%v", a, b)
	}
}

// multiset 以小寫名稱、單位與數量排序後比較
func multiset(entries []AggregatedIngredient) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.ToLower(e.Name)+"|"+strings.ToLower(e.Unit)+"|"+e.Quantity.String())
	}
	sort.Strings(out)
	return out
}

func TestAggregateKeepsFirstSeenCasing(t *testing.T) {
	a := recipe("A", ing("Egg", "2", "Pieces"))
	b := recipe("B", ing("egg", "2", "pieces"))

	forward := Aggregate([]mealplan.RecipeRecord{a, b})
	reverse := Aggregate([]mealplan.RecipeRecord{b, a})

	if len(forward) != 1 || len(reverse) != 1 {
		t.Fatalf("entries = %d/%d", len(forward), len(reverse))
	}
	if forward[0].Name != "Egg" || forward[0].Unit != "Pieces" {
		t.Errorf("forward = %+v", forward[0])
	}
	if reverse[0].Name != "egg" || reverse[0].Unit != "pieces" {
		t.Errorf("reverse = %+v", reverse[0])
	}
	if forward[0].Key != reverse[0].Key || !forward[0].Quantity.Equal(reverse[0].Quantity) {
		t.Errorf("key or quantity differ: %+v vs %+v", forward[0], reverse[0])
	}
}

func TestToShoppingItems(t *testing.T) {
	items := ToShoppingItems([]AggregatedIngredient{
		{Key: "egg", Name: "egg", Quantity: decimal.NewFromInt(4), Unit: "pieces", Category: CategoryOther},
	})
	if len(items) != 1 {
		t.Fatalf("items = %d", len(items))
	}
	it := items[0]
	if it.IngredientName != "egg" || it.Checked || it.Unit != "pieces" || it.Category != CategoryOther {
		t.Fatalf("unexpected item: %+v", it)
	}
}
