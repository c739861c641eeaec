package mealplan

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// ParseAndMaterialize 執行 Extract → Sanitize → Parse → Materialize。
// 致命失敗一律包成 common.ErrAIParseError。
func ParseAndMaterialize(raw string, owner UserRef) (*Materialization, error) {
	payload := SanitizeJSON(ExtractJSON(raw))

	plan, err := Parse(payload)
	if err != nil {
		common.LogWarn("AI 回應解析失敗",
			zap.Error(err),
			zap.Int("ai_response_length", len(raw)),
			zap.String("raw_response", common.Truncate(raw, 200)),
		)
		return nil, common.WrapError(common.ErrAIParseError, err)
	}

	m, err := Materialize(plan, owner)
	if err != nil {
		return nil, common.WrapError(common.ErrAIParseError, err)
	}
	return m, nil
}

// Materialize 將解析結果轉為食譜、食材與計畫項目紀錄。
// 格式錯誤的餐點或食材會被略過，只有計畫為空時才回傳錯誤。
func Materialize(plan *ParsedMealPlan, owner UserRef) (*Materialization, error) {
	if plan == nil || len(plan.Days) == 0 {
		return nil, &ParseError{Reason: "meal plan has no days"}
	}

	now := time.Now().UTC()
	m := &Materialization{
		Plan: MealPlanRecord{
			ID:        common.GenerateUUID(),
			Owner:     owner,
			Status:    StatusActive,
			CreatedAt: now,
		},
		Skipped: append([]Skip(nil), plan.Skipped...),
	}

	for i, day := range plan.Days {
		for j, meal := range day.Meals {
			path := fmt.Sprintf("days[%d].meals[%d]", i, j)
			if strings.TrimSpace(meal.Name) == "" {
				m.Skipped = append(m.Skipped, Skip{Path: path, Reason: "meal has no name"})
				continue
			}

			recipe := m.newRecipe(path, meal, owner, now)
			m.Items = append(m.Items, MealPlanItemRecord{
				ID:         common.GenerateUUID(),
				MealPlanID: m.Plan.ID,
				RecipeID:   recipe.ID,
				DayNumber:  day.DayNumber,
				MealType:   meal.Type,
				Recipe:     recipe,
			})

			if meal.Nutrition != nil {
				m.Plan.TotalCalories += CaloriesFromString(meal.Nutrition.Calories)
			}
		}
	}

	if len(m.Skipped) > 0 {
		common.LogWarn("部分餐點或食材格式錯誤，已略過",
			zap.Int("skipped", len(m.Skipped)),
			zap.String("first", m.Skipped[0].String()),
		)
	}
	common.LogInfo("餐點計畫物化完成",
		zap.String("meal_plan_id", m.Plan.ID),
		zap.Int("days", len(plan.Days)),
		zap.Int("items", len(m.Items)),
		zap.Int("total_calories", m.Plan.TotalCalories),
	)

	return m, nil
}

func (m *Materialization) newRecipe(path string, meal ParsedMeal, owner UserRef, now time.Time) *RecipeRecord {
	servings := meal.Servings
	if servings <= 0 {
		servings = DefaultServings
	}

	description := meal.Description
	if description == "" {
		description = DescribeNutrition(meal.Nutrition)
	}

	recipe := &RecipeRecord{
		ID:           common.GenerateUUID(),
		Name:         strings.TrimSpace(meal.Name),
		Description:  description,
		CuisineType:  meal.CuisineType,
		MealType:     meal.Type,
		PrepTime:     meal.PrepTime,
		CookTime:     meal.CookTime,
		Servings:     servings,
		Difficulty:   meal.Difficulty,
		ImageURL:     meal.ImageURL,
		Instructions: meal.Instructions,
		CreatedBy:    owner,
		Ingredients:  make([]IngredientRecord, 0, len(meal.Ingredients)),
		CreatedAt:    now,
	}

	for k, ing := range meal.Ingredients {
		name := strings.TrimSpace(ing.Name)
		if name == "" {
			m.Skipped = append(m.Skipped, Skip{
				Path:   fmt.Sprintf("%s.ingredients[%d]", path, k),
				Reason: "ingredient has no name",
			})
			continue
		}
		unit := strings.TrimSpace(ing.Unit)
		if unit == "" {
			unit = DefaultUnit
		}
		recipe.Ingredients = append(recipe.Ingredients, IngredientRecord{
			ID:       common.GenerateUUID(),
			RecipeID: recipe.ID,
			Name:     name,
			Quantity: ing.Quantity,
			Unit:     unit,
			Calories: ing.Calories,
			Protein:  ing.Protein,
			Carbs:    ing.Carbs,
			Fat:      ing.Fat,
		})
	}

	return recipe
}

// DescribeNutrition 以營養字串組出描述，全部為空時回傳空字串
func DescribeNutrition(n *ParsedNutrition) string {
	if n == nil {
		return ""
	}
	parts := make([]string, 0, 5)
	for _, f := range []struct{ label, value string }{
		{"Calories", n.Calories},
		{"Protein", n.Protein},
		{"Carbs", n.Carbs},
		{"Fat", n.Fat},
		{"Fiber", n.Fiber},
	} {
		if f.value != "" {
			parts = append(parts, f.label+": "+f.value)
		}
	}
	return strings.Join(parts, ", ")
}

// CaloriesFromString 移除所有非數字字元後轉為整數。
// "~300 kcal" 得到 300；範圍 "250-300" 會得到 250300，沿用既有行為。
// 無數字或超出 32 位元範圍時回傳 0。
func CaloriesFromString(s string) int {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			sb.WriteByte(s[i])
		}
	}
	if sb.Len() == 0 {
		return 0
	}
	n, err := strconv.ParseInt(sb.String(), 10, 32)
	if err != nil {
		return 0
	}
	return int(n)
}
