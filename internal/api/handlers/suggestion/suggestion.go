package suggestion

import (
	"net/http"

	"meal-planner/internal/api/handlers"
	"meal-planner/internal/core/mealplan"
	core "meal-planner/internal/core/suggestion"

	"github.com/gin-gonic/gin"
)

// RecipesRequest 推薦食譜
type RecipesRequest struct {
	Profile mealplan.Profile `json:"profile"`
	Count   int              `json:"count,omitempty"`
}

// RecipesResponse 推薦結果
type RecipesResponse struct {
	Recipes []core.Recipe `json:"recipes"`
}

// SubstituteRequest 食材替代
type SubstituteRequest struct {
	Ingredient string `json:"ingredient" binding:"required"`
	Reason     string `json:"reason,omitempty"`
}

// SubstituteResponse 替代結果
type SubstituteResponse struct {
	Ingredient  string            `json:"ingredient"`
	Substitutes []core.Substitute `json:"substitutes"`
}

// Handler 推薦處理程序
type Handler struct {
	service *core.Service
	debug   bool
}

// NewHandler 創建推薦處理程序
func NewHandler(service *core.Service, debug bool) *Handler {
	return &Handler{service: service, debug: debug}
}

// HandleSuggestRecipes 依使用者條件推薦食譜
func (h *Handler) HandleSuggestRecipes(c *gin.Context) {
	var req RecipesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondBadRequest(c, err, h.debug)
		return
	}

	recipes, err := h.service.SuggestRecipes(c.Request.Context(), req.Profile, req.Count)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, RecipesResponse{Recipes: recipes})
}

// HandleSubstituteIngredient 推薦食材替代品
func (h *Handler) HandleSubstituteIngredient(c *gin.Context) {
	var req SubstituteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondBadRequest(c, err, h.debug)
		return
	}

	subs, err := h.service.SuggestSubstitutes(c.Request.Context(), req.Ingredient, req.Reason)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, SubstituteResponse{Ingredient: req.Ingredient, Substitutes: subs})
}
