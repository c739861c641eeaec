package suggestion

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/pkg/common"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// 推薦數量
const (
	DefaultRecipeCount = 5
	MaxRecipeCount     = 10
)

// Service 食譜推薦與食材替代服務
type Service struct {
	ai provider.Completer
}

// NewService 創建推薦服務
func NewService(ai provider.Completer) *Service {
	return &Service{ai: ai}
}

// SuggestRecipes 依使用者條件推薦食譜；count 為 0 時使用預設數量
func (s *Service) SuggestRecipes(ctx context.Context, profile mealplan.Profile, count int) ([]Recipe, error) {
	if count == 0 {
		count = DefaultRecipeCount
	}
	if count < 1 || count > MaxRecipeCount {
		return nil, common.WrapError(common.ErrInvalidRequest,
			common.NewValidationError(fmt.Sprintf("count must be between 1 and %d", MaxRecipeCount)))
	}

	arr, err := s.completeArray(ctx, BuildRecipesPrompt(profile, count), "recipes")
	if err != nil {
		return nil, err
	}

	recipes := make([]Recipe, 0, len(arr))
	for i, el := range arr {
		name := strings.TrimSpace(el.Get("name").String())
		if !el.IsObject() || name == "" {
			common.LogWarn("略過無效的推薦食譜", zap.Int("index", i))
			continue
		}
		recipes = append(recipes, Recipe{
			Name:          name,
			Description:   strings.TrimSpace(firstOf(el, "description").String()),
			CuisineType:   strings.TrimSpace(firstOf(el, "cuisineType", "cuisine_type").String()),
			PrepTime:      intOf(firstOf(el, "prepTime", "prep_time")),
			CookTime:      intOf(firstOf(el, "cookTime", "cook_time")),
			Difficulty:    strings.TrimSpace(el.Get("difficulty").String()),
			EstimatedCost: decimalOf(firstOf(el, "estimatedCost", "estimated_cost", "cost")),
			Ingredients:   ingredientsOf(el.Get("ingredients")),
		})
	}
	if len(recipes) == 0 {
		return nil, common.WrapError(common.ErrAIParseError, errors.New("no usable recipes"))
	}
	return recipes, nil
}

// SuggestSubstitutes 推薦食材替代品
func (s *Service) SuggestSubstitutes(ctx context.Context, ingredient, reason string) ([]Substitute, error) {
	if strings.TrimSpace(ingredient) == "" {
		return nil, common.WrapError(common.ErrInvalidRequest, common.NewValidationError("ingredient is required"))
	}

	arr, err := s.completeArray(ctx, BuildSubstitutesPrompt(ingredient, reason), "substitutes")
	if err != nil {
		return nil, err
	}

	subs := make([]Substitute, 0, len(arr))
	for _, el := range arr {
		var sub Substitute
		switch {
		case el.Type == gjson.String:
			sub.Name = strings.TrimSpace(el.Str)
		case el.IsObject():
			sub = Substitute{
				Name:  strings.TrimSpace(firstOf(el, "name", "substitute").String()),
				Ratio: strings.TrimSpace(el.Get("ratio").String()),
				Notes: strings.TrimSpace(firstOf(el, "notes", "properties").String()),
			}
		}
		if sub.Name != "" {
			subs = append(subs, sub)
		}
	}
	if len(subs) == 0 {
		return nil, common.WrapError(common.ErrAIParseError, errors.New("no usable substitutes"))
	}
	return subs, nil
}

// completeArray 呼叫模型並讀取 JSON 陣列；模型若包成 {"<key>": [...]} 也接受
func (s *Service) completeArray(ctx context.Context, prompt, key string) ([]gjson.Result, error) {
	text, err := s.ai.Complete(ctx, prompt)
	if err != nil {
		if _, ok := common.AsCustomError(err); ok {
			return nil, err
		}
		return nil, common.WrapError(common.ErrAIServiceError, err)
	}
	if provider.IsErrorText(text) {
		return nil, common.WrapError(common.ErrAIServiceError, errors.New(common.Truncate(text, 200)))
	}

	if arr, ok := mealplan.ExtractArray(text); ok {
		return arr.Array(), nil
	}
	payload := mealplan.SanitizeJSON(mealplan.ExtractJSON(text))
	if wrapped := gjson.Get(payload, key); gjson.Valid(payload) && wrapped.IsArray() {
		return wrapped.Array(), nil
	}

	common.LogWarn("推薦結果不是 JSON 陣列", zap.String("preview", common.Truncate(text, 200)))
	return nil, common.WrapError(common.ErrAIParseError, errors.New("response is not a JSON array"))
}

func firstOf(el gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := el.Get(k); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

func decimalOf(v gjson.Result) *decimal.Decimal {
	var s string
	switch v.Type {
	case gjson.Number:
		s = v.Raw
	case gjson.String:
		s = strings.TrimPrefix(strings.TrimSpace(v.Str), "$")
	default:
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

func intOf(v gjson.Result) *int {
	d := decimalOf(v)
	if d == nil || d.IsNegative() || d.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return nil
	}
	n := int(d.IntPart())
	return &n
}

func ingredientsOf(v gjson.Result) []Ingredient {
	out := []Ingredient{}
	if !v.IsArray() {
		return out
	}
	for _, el := range v.Array() {
		switch {
		case el.Type == gjson.String:
			if name := strings.TrimSpace(el.Str); name != "" {
				out = append(out, Ingredient{Name: name})
			}
		case el.IsObject():
			name := strings.TrimSpace(firstOf(el, "name", "ingredient").String())
			if name == "" {
				continue
			}
			out = append(out, Ingredient{
				Name:     name,
				Quantity: decimalOf(firstOf(el, "quantity", "amount")),
				Unit:     strings.TrimSpace(el.Get("unit").String()),
			})
		}
	}
	return out
}
