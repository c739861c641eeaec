package shopping

import "github.com/shopspring/decimal"

// AggregatedIngredient 合併後的一筆食材
type AggregatedIngredient struct {
	Key      string          `json:"key"`
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	Category string          `json:"category"`
}

// ShoppingListItem 購物清單項目；ID 與 ShoppingListID 由儲存層指定
type ShoppingListItem struct {
	ID             string          `json:"id,omitempty"`
	ShoppingListID string          `json:"shopping_list_id,omitempty"`
	IngredientName string          `json:"ingredient_name"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit"`
	Category       string          `json:"category"`
	Checked        bool            `json:"checked"`
}

// ShoppingList 綁定餐點計畫的購物清單
type ShoppingList struct {
	ID         string             `json:"id"`
	MealPlanID string             `json:"meal_plan_id,omitempty"`
	OwnerID    string             `json:"owner_id,omitempty"`
	Items      []ShoppingListItem `json:"items"`
}

// Source 標示清單由哪條路徑產生
type Source string

const (
	SourceAI        Source = "ai"
	SourceAggregate Source = "aggregate"
)

// Result 產生購物清單的結果
type Result struct {
	Items   []ShoppingListItem `json:"items"`
	Source  Source             `json:"source"`
	Failure *AIPathFailure     `json:"-"`
}
