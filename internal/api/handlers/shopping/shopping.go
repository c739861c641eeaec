package shopping

import (
	"errors"
	"net/http"
	"strconv"

	"meal-planner/internal/api/handlers"
	"meal-planner/internal/core/mealplan"
	core "meal-planner/internal/core/shopping"

	"github.com/gin-gonic/gin"
)

// CreateRequest 建立購物清單
type CreateRequest struct {
	MealPlanID string `json:"meal_plan_id" binding:"required"`
}

// AggregateRequest 不落地產生購物清單
type AggregateRequest struct {
	Recipes []mealplan.RecipeRecord `json:"recipes"`
	AI      *bool                   `json:"ai,omitempty"`
}

// ToggleResponse 切換後的項目
type ToggleResponse struct {
	Item *core.ShoppingListItem `json:"item"`
}

// Handler 購物清單處理程序
type Handler struct {
	service *core.Service
	debug   bool
}

// NewHandler 創建新的購物清單處理程序
func NewHandler(service *core.Service, debug bool) *Handler {
	return &Handler{service: service, debug: debug}
}

// HandleCreate 建立綁定計畫的清單
func (h *Handler) HandleCreate(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondBadRequest(c, err, h.debug)
		return
	}

	list, err := h.service.Create(c.Request.Context(), req.MealPlanID)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusCreated, list)
}

// HandleGenerate 以計畫食譜產生清單項目，?ai=false 時只做合併
func (h *Handler) HandleGenerate(c *gin.Context) {
	useAI, err := strconv.ParseBool(c.DefaultQuery("ai", "true"))
	if err != nil {
		handlers.RespondBadRequest(c, errors.New("ai must be a boolean"), h.debug)
		return
	}

	res, err := h.service.GenerateForList(c.Request.Context(), c.Param("id"), useAI)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, res)
}

// HandleAggregate 直接由請求中的食譜產生清單
func (h *Handler) HandleAggregate(c *gin.Context) {
	var req AggregateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondBadRequest(c, err, h.debug)
		return
	}

	useAI := true
	if req.AI != nil {
		useAI = *req.AI
	}
	c.JSON(http.StatusOK, h.service.Generate(c.Request.Context(), req.Recipes, useAI))
}

// HandleGet 取得購物清單
func (h *Handler) HandleGet(c *gin.Context) {
	list, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, list)
}

// HandleToggleItem 切換項目勾選狀態
func (h *Handler) HandleToggleItem(c *gin.Context) {
	item, err := h.service.ToggleItem(c.Request.Context(), c.Param("id"), c.Param("itemId"))
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, ToggleResponse{Item: item})
}

// HandleClear 清空清單
func (h *Handler) HandleClear(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context(), c.Param("id")); err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.Status(http.StatusNoContent)
}
