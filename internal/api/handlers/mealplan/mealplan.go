package mealplan

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"meal-planner/internal/api/handlers"
	core "meal-planner/internal/core/mealplan"
	"meal-planner/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// ParseRequest 直接解析一段模型輸出
type ParseRequest struct {
	OwnerID  string `json:"owner_id" binding:"required"`
	Username string `json:"username,omitempty"`
	Content  string `json:"content" binding:"required"`
}

// GenerateRequest 產生並儲存餐點計畫
type GenerateRequest struct {
	OwnerID   string       `json:"owner_id" binding:"required"`
	Name      string       `json:"name,omitempty"`
	Days      int          `json:"days" binding:"required"`
	StartDate string       `json:"start_date,omitempty"`
	Profile   core.Profile `json:"profile"`
}

// RegenerateDayRequest 重新產生單日的條件
type RegenerateDayRequest struct {
	Profile core.Profile `json:"profile"`
}

// RegenerateDayResponse 重新產生的單日項目
type RegenerateDayResponse struct {
	MealPlanID string                    `json:"meal_plan_id"`
	Day        int                       `json:"day"`
	Items      []core.MealPlanItemRecord `json:"items"`
}

// Handler 餐點計畫處理程序
type Handler struct {
	service *core.Service
	debug   bool
}

// NewHandler 創建新的餐點計畫處理程序
func NewHandler(service *core.Service, debug bool) *Handler {
	return &Handler{service: service, debug: debug}
}

// HandleParse 解析模型輸出並回傳物化結果，不呼叫模型也不儲存
func (h *Handler) HandleParse(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondBadRequest(c, err, h.debug)
		return
	}

	m, err := core.ParseAndMaterialize(req.Content, core.UserRef{ID: req.OwnerID, Username: req.Username})
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, m)
}

// HandleGenerate 產生餐點計畫
func (h *Handler) HandleGenerate(c *gin.Context) {
	requestID := requestid.Get(c)

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondBadRequest(c, err, h.debug)
		return
	}

	var start *time.Time
	if req.StartDate != "" {
		t, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			handlers.RespondBadRequest(c, errors.New("start_date must be YYYY-MM-DD"), h.debug)
			return
		}
		start = &t
	}

	common.LogInfo("開始產生餐點計畫",
		zap.String("request_id", requestID),
		zap.String("owner_id", req.OwnerID),
		zap.Int("days", req.Days),
	)

	m, err := h.service.GenerateMealPlan(c.Request.Context(), core.GenerateRequest{
		OwnerID:   req.OwnerID,
		Name:      req.Name,
		Days:      req.Days,
		StartDate: start,
		Profile:   req.Profile,
	})
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}

	c.JSON(http.StatusCreated, m)
}

// HandleGet 取得餐點計畫
func (h *Handler) HandleGet(c *gin.Context) {
	m, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, m)
}

// HandleRegenerateDay 重新產生指定天數
func (h *Handler) HandleRegenerateDay(c *gin.Context) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		handlers.RespondBadRequest(c, errors.New("day must be an integer"), h.debug)
		return
	}

	var req RegenerateDayRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			handlers.RespondBadRequest(c, err, h.debug)
			return
		}
	}

	id := c.Param("id")
	items, err := h.service.RegenerateDay(c.Request.Context(), id, day, req.Profile)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}

	c.JSON(http.StatusOK, RegenerateDayResponse{MealPlanID: id, Day: day, Items: items})
}
