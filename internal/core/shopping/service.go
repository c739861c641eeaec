package shopping

import (
	"context"
	"fmt"
	"strings"

	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Store 購物清單的持久化介面
type Store interface {
	CreateShoppingList(ctx context.Context, list *ShoppingList) error
	GetShoppingList(ctx context.Context, id string) (*ShoppingList, error)
	ReplaceShoppingListItems(ctx context.Context, listID string, items []ShoppingListItem) ([]ShoppingListItem, error)
	ToggleItem(ctx context.Context, listID, itemID string) (*ShoppingListItem, error)
	ClearShoppingList(ctx context.Context, listID string) error
}

// MealPlanReader 讀取清單綁定的餐點計畫
type MealPlanReader interface {
	GetMealPlan(ctx context.Context, id string) (*mealplan.Materialization, error)
}

// Service 購物清單服務
type Service struct {
	store     Store
	plans     MealPlanReader
	generator *Generator
}

// NewService 創建購物清單服務
func NewService(store Store, plans MealPlanReader, generator *Generator) *Service {
	return &Service{store: store, plans: plans, generator: generator}
}

// Create 建立綁定餐點計畫的空清單
func (s *Service) Create(ctx context.Context, mealPlanID string) (*ShoppingList, error) {
	if strings.TrimSpace(mealPlanID) == "" {
		return nil, common.WrapError(common.ErrInvalidRequest, common.NewValidationError("meal_plan_id is required"))
	}

	plan, err := s.plans.GetMealPlan(ctx, mealPlanID)
	if err != nil {
		return nil, err
	}

	list := &ShoppingList{
		ID:         common.GenerateUUID(),
		MealPlanID: mealPlanID,
		OwnerID:    plan.Plan.Owner.ID,
		Items:      []ShoppingListItem{},
	}
	if err := s.store.CreateShoppingList(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to create shopping list: %w", err)
	}
	return list, nil
}

// GenerateForList 以計畫內所有食譜重新產生清單項目
func (s *Service) GenerateForList(ctx context.Context, listID string, useAI bool) (*Result, error) {
	list, err := s.store.GetShoppingList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list.MealPlanID == "" {
		return nil, common.ErrShoppingListUnlinked
	}

	plan, err := s.plans.GetMealPlan(ctx, list.MealPlanID)
	if err != nil {
		return nil, err
	}

	res := s.generator.Generate(ctx, plan.Recipes(), useAI)
	saved, err := s.store.ReplaceShoppingListItems(ctx, listID, res.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to save shopping list items: %w", err)
	}
	res.Items = saved

	common.LogInfo("購物清單已產生",
		zap.String("shopping_list_id", listID),
		zap.String("source", string(res.Source)),
		zap.Int("items", len(saved)),
	)
	return &res, nil
}

// Generate 不落地，直接由食譜產生清單
func (s *Service) Generate(ctx context.Context, recipes []mealplan.RecipeRecord, useAI bool) Result {
	return s.generator.Generate(ctx, recipes, useAI)
}

// Get 取得購物清單
func (s *Service) Get(ctx context.Context, id string) (*ShoppingList, error) {
	return s.store.GetShoppingList(ctx, id)
}

// ToggleItem 切換項目勾選狀態
func (s *Service) ToggleItem(ctx context.Context, listID, itemID string) (*ShoppingListItem, error) {
	return s.store.ToggleItem(ctx, listID, itemID)
}

// Clear 清空購物清單
func (s *Service) Clear(ctx context.Context, listID string) error {
	if err := s.store.ClearShoppingList(ctx, listID); err != nil {
		return err
	}
	common.LogInfo("購物清單已清空", zap.String("shopping_list_id", listID))
	return nil
}
