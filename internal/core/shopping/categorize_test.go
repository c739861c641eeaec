package shopping

import "testing"

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Chicken Breast", CategoryMeat},
		{"ground beef", CategoryMeat},
		{"salmon fish fillet", CategoryMeat},
		{"Greek Yogurt", CategoryDairy},
		{"butter", CategoryDairy},
		{"cherry tomatoes", CategoryVegetables},
		{"sweet potato", CategoryVegetables},
		{"blueberry", CategoryFruits},
		{"lemon juice", CategoryFruits},
		{"brown rice", CategoryGrains},
		{"whole wheat bread", CategoryGrains},
		{"sea salt", CategoryCondiments},
		{"soy sauce", CategoryCondiments},
		{"egg", CategoryOther},
		{"", CategoryOther},
		// 優先順序：meat 早於 dairy 與 condiments
		{"chicken cream sauce", CategoryMeat},
		// "pepperoni" 含 pepper，但不含任何肉類關鍵字
		{"pepperoni", CategoryCondiments},
		// "buttermilk bread" 先命中 dairy
		{"buttermilk bread", CategoryDairy},
	}

	for _, tt := range tests {
		if got := Categorize(tt.name); got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
