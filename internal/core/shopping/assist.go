package shopping

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/pkg/common"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// AI 路徑失敗的階段
const (
	StageComplete  = "complete"
	StageErrorText = "error_text"
	StageNotArray  = "not_array"
	StageItem      = "item"
	StageEmpty     = "empty"
	StagePanic     = "panic"
)

// AIPathFailure AI 路徑失敗的原因，一律由備援合併處理，不會回傳給呼叫端
type AIPathFailure struct {
	Stage  string
	Reason string
	Err    error
}

func (f *AIPathFailure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("ai shopping list %s: %s: %v", f.Stage, f.Reason, f.Err)
	}
	return fmt.Sprintf("ai shopping list %s: %s", f.Stage, f.Reason)
}

func (f *AIPathFailure) Unwrap() error {
	return f.Err
}

// Generator 以模型整理購物清單，失敗時改用 Aggregate
type Generator struct {
	ai        provider.Completer
	aiEnabled bool
}

// NewGenerator 創建購物清單產生器；ai 為 nil 時只使用合併邏輯
func NewGenerator(ai provider.Completer, aiEnabled bool) *Generator {
	return &Generator{ai: ai, aiEnabled: aiEnabled && ai != nil}
}

// GenerateShoppingList 產生購物清單項目，不會回傳錯誤
func (g *Generator) GenerateShoppingList(ctx context.Context, recipes []mealplan.RecipeRecord) []ShoppingListItem {
	return g.Generate(ctx, recipes, true).Items
}

// Generate 產生購物清單；useAI 為 false 或 AI 停用時直接合併
func (g *Generator) Generate(ctx context.Context, recipes []mealplan.RecipeRecord, useAI bool) Result {
	if !useAI || !g.aiEnabled {
		return Result{Items: ToShoppingItems(Aggregate(recipes)), Source: SourceAggregate}
	}

	items, failure := g.tryAI(ctx, recipes)
	if failure == nil {
		common.LogInfo("AI 購物清單產生完成",
			zap.Int("recipes", len(recipes)),
			zap.Int("items", len(items)),
		)
		return Result{Items: items, Source: SourceAI}
	}

	fields := []zap.Field{
		zap.String("stage", failure.Stage),
		zap.Int("recipes", len(recipes)),
	}
	if failure.Err != nil {
		fields = append(fields, zap.Error(failure.Err))
	}
	common.LogFallback("shopping_list", failure.Reason, fields...)

	return Result{
		Items:   ToShoppingItems(Aggregate(recipes)),
		Source:  SourceAggregate,
		Failure: failure,
	}
}

// tryAI 執行 AI 路徑；任何 panic 都轉為失敗
func (g *Generator) tryAI(ctx context.Context, recipes []mealplan.RecipeRecord) (items []ShoppingListItem, failure *AIPathFailure) {
	defer func() {
		if r := recover(); r != nil {
			items = nil
			failure = &AIPathFailure{Stage: StagePanic, Reason: fmt.Sprint(r)}
		}
	}()

	text, err := g.ai.Complete(ctx, BuildShoppingPrompt(recipes))
	if err != nil {
		return nil, &AIPathFailure{Stage: StageComplete, Reason: "model call failed", Err: err}
	}
	if provider.IsErrorText(text) {
		return nil, &AIPathFailure{Stage: StageErrorText, Reason: common.Truncate(text, 200)}
	}

	items, failure = ParseItems(text)
	if failure != nil {
		return nil, failure
	}
	if len(items) == 0 {
		return nil, &AIPathFailure{Stage: StageEmpty, Reason: "model returned no items"}
	}
	return items, nil
}

// ParseItems 從模型輸出讀取購物清單陣列。
// 每個元素都需要 name、數值 quantity 與 unit；category 缺少時為 "Other"。
func ParseItems(text string) ([]ShoppingListItem, *AIPathFailure) {
	arr, ok := mealplan.ExtractArray(text)
	if !ok {
		return nil, &AIPathFailure{Stage: StageNotArray, Reason: "response is not a JSON array"}
	}

	elems := arr.Array()
	items := make([]ShoppingListItem, 0, len(elems))
	for i, el := range elems {
		item, err := parseItem(el)
		if err != nil {
			return nil, &AIPathFailure{Stage: StageItem, Reason: fmt.Sprintf("item %d", i), Err: err}
		}
		items = append(items, item)
	}
	return items, nil
}

func parseItem(el gjson.Result) (ShoppingListItem, error) {
	if !el.IsObject() {
		return ShoppingListItem{}, errors.New("element is not an object")
	}

	name := el.Get("name")
	if !name.Exists() || strings.TrimSpace(name.String()) == "" {
		return ShoppingListItem{}, errors.New("missing name")
	}

	q := el.Get("quantity")
	if !q.Exists() {
		return ShoppingListItem{}, errors.New("missing quantity")
	}
	qty, err := quantityOf(q)
	if err != nil {
		return ShoppingListItem{}, err
	}

	unit := el.Get("unit")
	if !unit.Exists() || unit.Type == gjson.Null {
		return ShoppingListItem{}, errors.New("missing unit")
	}
	u := strings.TrimSpace(unit.String())
	if u == "" {
		u = mealplan.DefaultUnit
	}

	category := strings.TrimSpace(el.Get("category").String())
	if category == "" {
		category = CategoryOther
	}

	return ShoppingListItem{
		IngredientName: strings.TrimSpace(name.String()),
		Quantity:       qty,
		Unit:           u,
		Category:       category,
	}, nil
}

func quantityOf(q gjson.Result) (decimal.Decimal, error) {
	switch q.Type {
	case gjson.Number:
		return decimal.NewFromString(q.Raw)
	case gjson.String:
		d, err := decimal.NewFromString(strings.TrimSpace(q.Str))
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("non-numeric quantity %q", q.Str)
		}
		return d, nil
	default:
		return decimal.Decimal{}, fmt.Errorf("non-numeric quantity %s", q.Raw)
	}
}
