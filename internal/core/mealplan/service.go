package mealplan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// 計畫天數範圍
const (
	MinDays = 1
	MaxDays = 30
)

// Store 餐點計畫的持久化介面
type Store interface {
	SaveMealPlan(ctx context.Context, m *Materialization) error
	GetMealPlan(ctx context.Context, id string) (*Materialization, error)
	ReplaceDayItems(ctx context.Context, mealPlanID string, day int, items []MealPlanItemRecord) error
}

// GenerateRequest 產生餐點計畫的參數
type GenerateRequest struct {
	OwnerID   string
	Name      string
	Days      int
	StartDate *time.Time
	Profile   Profile
}

// Service 餐點計畫服務
type Service struct {
	store Store
	ai    provider.Completer
}

// NewService 創建餐點計畫服務
func NewService(store Store, ai provider.Completer) *Service {
	return &Service{store: store, ai: ai}
}

// GenerateMealPlan 呼叫模型產生計畫、解析並儲存
func (s *Service) GenerateMealPlan(ctx context.Context, req GenerateRequest) (*Materialization, error) {
	if req.Days < MinDays || req.Days > MaxDays {
		return nil, common.WrapError(common.ErrInvalidRequest,
			common.NewValidationError(fmt.Sprintf("days must be between %d and %d", MinDays, MaxDays)))
	}
	if strings.TrimSpace(req.OwnerID) == "" {
		return nil, common.WrapError(common.ErrInvalidRequest, common.NewValidationError("owner_id is required"))
	}

	text, err := s.complete(ctx, BuildMealPlanPrompt(req.Profile, req.Days))
	if err != nil {
		return nil, err
	}

	m, err := ParseAndMaterialize(text, UserRef{ID: req.OwnerID})
	if err != nil {
		return nil, err
	}

	m.Plan.Name = req.Name
	if m.Plan.Name == "" {
		m.Plan.Name = fmt.Sprintf("%d-day meal plan", req.Days)
	}
	if req.StartDate != nil {
		start := req.StartDate.UTC()
		end := start.AddDate(0, 0, req.Days-1)
		m.Plan.StartDate = &start
		m.Plan.EndDate = &end
	}

	if err := s.store.SaveMealPlan(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to save meal plan: %w", err)
	}
	return m, nil
}

// RegenerateDay 以單日計畫取代既有計畫中指定天數的項目
func (s *Service) RegenerateDay(ctx context.Context, mealPlanID string, day int, profile Profile) ([]MealPlanItemRecord, error) {
	if day < MinDays || day > MaxDays {
		return nil, common.WrapError(common.ErrInvalidRequest,
			common.NewValidationError(fmt.Sprintf("day must be between %d and %d", MinDays, MaxDays)))
	}

	existing, err := s.store.GetMealPlan(ctx, mealPlanID)
	if err != nil {
		return nil, err
	}

	text, err := s.complete(ctx, BuildMealPlanPrompt(profile, 1))
	if err != nil {
		return nil, err
	}

	m, err := ParseAndMaterialize(text, existing.Plan.Owner)
	if err != nil {
		return nil, err
	}

	items := make([]MealPlanItemRecord, 0, len(m.Items))
	for _, item := range m.Items {
		item.MealPlanID = mealPlanID
		item.DayNumber = day
		items = append(items, item)
	}

	if err := s.store.ReplaceDayItems(ctx, mealPlanID, day, items); err != nil {
		return nil, fmt.Errorf("failed to replace day %d: %w", day, err)
	}

	common.LogInfo("餐點計畫單日已重新產生",
		zap.String("meal_plan_id", mealPlanID),
		zap.Int("day", day),
		zap.Int("items", len(items)),
	)
	return items, nil
}

// Get 取得餐點計畫
func (s *Service) Get(ctx context.Context, id string) (*Materialization, error) {
	return s.store.GetMealPlan(ctx, id)
}

// complete 呼叫模型；錯誤與 "Error" 開頭的字串都視為 AI 服務失敗
func (s *Service) complete(ctx context.Context, prompt string) (string, error) {
	text, err := s.ai.Complete(ctx, prompt)
	if err != nil {
		if _, ok := common.AsCustomError(err); ok {
			return "", err
		}
		return "", common.WrapError(common.ErrAIServiceError, err)
	}
	if provider.IsErrorText(text) {
		return "", common.WrapError(common.ErrAIServiceError, errors.New(common.Truncate(text, 200)))
	}
	return text, nil
}
