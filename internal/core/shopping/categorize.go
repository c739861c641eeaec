package shopping

import "strings"

// 分類名稱
const (
	CategoryMeat       = "Meat & Seafood"
	CategoryDairy      = "Dairy"
	CategoryVegetables = "Vegetables"
	CategoryFruits     = "Fruits"
	CategoryGrains     = "Grains & Bakery"
	CategoryCondiments = "Condiments & Spices"
	CategoryOther      = "Other"
)

// categoryRules 由上而下比對，第一個命中的分類勝出
var categoryRules = []struct {
	category string
	keywords []string
}{
	{CategoryMeat, []string{"chicken", "beef", "pork", "fish", "meat", "lamb"}},
	{CategoryDairy, []string{"milk", "cheese", "yogurt", "butter", "cream"}},
	{CategoryVegetables, []string{"carrot", "potato", "onion", "tomato", "lettuce", "spinach", "broccoli"}},
	{CategoryFruits, []string{"apple", "banana", "orange", "berry", "grape", "lemon"}},
	{CategoryGrains, []string{"bread", "pasta", "rice", "flour", "cereal"}},
	{CategoryCondiments, []string{"salt", "pepper", "sugar", "spice", "herb", "sauce"}},
}

// Categorize 依食材名稱的關鍵字判斷分類
func Categorize(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return CategoryOther
}
