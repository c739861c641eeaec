package suggestion

import "github.com/shopspring/decimal"

// Ingredient 推薦食譜中的食材
type Ingredient struct {
	Name     string           `json:"name"`
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
	Unit     string           `json:"unit,omitempty"`
}

// Recipe 模型推薦的食譜
type Recipe struct {
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	CuisineType   string           `json:"cuisine_type,omitempty"`
	PrepTime      *int             `json:"prep_time,omitempty"`
	CookTime      *int             `json:"cook_time,omitempty"`
	Difficulty    string           `json:"difficulty,omitempty"`
	EstimatedCost *decimal.Decimal `json:"estimated_cost,omitempty"`
	Ingredients   []Ingredient     `json:"ingredients"`
}

// Substitute 食材替代品
type Substitute struct {
	Name  string `json:"name"`
	Ratio string `json:"ratio,omitempty"`
	Notes string `json:"notes,omitempty"`
}
