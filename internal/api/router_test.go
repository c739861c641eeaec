package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/core/shopping"
	"meal-planner/internal/core/suggestion"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/storage"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

const onePlan = "Here is your plan:\n```json\n" + `{"days":[{"day":1,"meals":[
	{"type":"breakfast","name":"Omelette","nutrition":{"calories":"350"},
	 "ingredients":[{"name":"Egg","quantity":"2","unit":"pieces"},{"name":"milk","quantity":"50","unit":"ml"}]},
	{"type":"lunch","name":"Pancakes","nutrition":{"calories":"500"},
	 "ingredients":[{"name":"egg","quantity":"2","unit":"pieces"},{"name":"flour","quantity":"200","unit":"g"}]}
]}]}` + "\n```"

func testConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Env: "test", Version: "test"},
		Server: config.ServerConfig{RequestTimeout: 5 * time.Second, MaxBodyBytes: 1 << 20},
		AI:     config.AIConfig{Provider: config.ProviderOpenRouter},
	}
}

func setupTestRouter(t *testing.T, cfg *config.Config, ai provider.Completer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := storage.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	router, cleanup := SetupRouter(cfg, Dependencies{
		DB:          db,
		MealPlans:   mealplan.NewService(db, ai),
		Shopping:    shopping.NewService(db, db, shopping.NewGenerator(ai, true)),
		Suggestions: suggestion.NewService(ai),
	})
	t.Cleanup(cleanup)
	return router
}

func planCompleter() provider.Completer {
	return provider.CompleterFunc(func(context.Context, string) (string, error) {
		return onePlan, nil
	})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp common.ErrorResponse
	decode(t, w, &resp)
	return resp.Code
}

func TestMealPlanAndShoppingFlow(t *testing.T) {
	router := setupTestRouter(t, testConfig(), planCompleter())

	w := doJSON(t, router, http.MethodPost, "/api/v1/meal-plans/generate", gin.H{
		"owner_id":   "user-1",
		"days":       1,
		"start_date": "2026-03-02",
		"profile":    gin.H{"goal": "maintenance"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("generate status = %d, body = %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}

	var m mealplan.Materialization
	decode(t, w, &m)
	if m.Plan.TotalCalories != 850 || len(m.Items) != 2 {
		t.Fatalf("unexpected plan: %+v", m.Plan)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/meal-plans/"+m.Plan.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/shopping-lists", gin.H{"meal_plan_id": m.Plan.ID})
	if w.Code != http.StatusCreated {
		t.Fatalf("create list status = %d, body = %s", w.Code, w.Body.String())
	}
	var list shopping.ShoppingList
	decode(t, w, &list)

	w = doJSON(t, router, http.MethodPost, "/api/v1/shopping-lists/"+list.ID+"/generate?ai=false", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("generate list status = %d, body = %s", w.Code, w.Body.String())
	}
	var res shopping.Result
	decode(t, w, &res)
	if res.Source != shopping.SourceAggregate || len(res.Items) != 3 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Items[0].IngredientName != "Egg" || res.Items[0].Quantity.String() != "4" {
		t.Errorf("eggs not merged: %+v", res.Items[0])
	}

	w = doJSON(t, router, http.MethodPatch, "/api/v1/shopping-lists/"+list.ID+"/items/"+res.Items[0].ID+"/toggle", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("toggle status = %d, body = %s", w.Code, w.Body.String())
	}
	var toggled struct {
		Item shopping.ShoppingListItem `json:"item"`
	}
	decode(t, w, &toggled)
	if !toggled.Item.Checked {
		t.Error("item should be checked after toggle")
	}

	w = doJSON(t, router, http.MethodDelete, "/api/v1/shopping-lists/"+list.ID+"/items", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("clear status = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/shopping-lists/"+list.ID, nil)
	decode(t, w, &list)
	if len(list.Items) != 0 {
		t.Errorf("items after clear = %d", len(list.Items))
	}
}

func TestRegenerateDay(t *testing.T) {
	router := setupTestRouter(t, testConfig(), planCompleter())

	w := doJSON(t, router, http.MethodPost, "/api/v1/meal-plans/generate", gin.H{"owner_id": "user-1", "days": 1})
	var m mealplan.Materialization
	decode(t, w, &m)

	w = doJSON(t, router, http.MethodPost, "/api/v1/meal-plans/"+m.Plan.ID+"/days/1/regenerate", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("regenerate status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/meal-plans/"+m.Plan.ID+"/days/abc/regenerate", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric day status = %d", w.Code)
	}
}

func TestParseEndpoint(t *testing.T) {
	router := setupTestRouter(t, testConfig(), planCompleter())

	w := doJSON(t, router, http.MethodPost, "/api/v1/meal-plans/parse", gin.H{"owner_id": "user-1", "content": onePlan})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/meal-plans/parse", gin.H{"owner_id": "user-1", "content": "not json"})
	if w.Code != http.StatusUnprocessableEntity || errorCode(t, w) != common.ErrCodeUnprocessable {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestAggregateEndpointUsesAI(t *testing.T) {
	ai := provider.CompleterFunc(func(context.Context, string) (string, error) {
		return `[{"name":"Eggs","quantity":4,"unit":"pieces","category":"Dairy & Eggs"}]`, nil
	})
	router := setupTestRouter(t, testConfig(), ai)

	m, err := mealplan.ParseAndMaterialize(onePlan, mealplan.UserRef{ID: "user-1"})
	if err != nil {
		t.Fatalf("ParseAndMaterialize: %v", err)
	}

	w := doJSON(t, router, http.MethodPost, "/api/v1/shopping-lists/aggregate", gin.H{"recipes": m.Recipes()})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var res shopping.Result
	decode(t, w, &res)
	if res.Source != shopping.SourceAI || len(res.Items) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestErrorResponses(t *testing.T) {
	failing := provider.CompleterFunc(func(context.Context, string) (string, error) {
		return "Error: upstream unavailable", nil
	})
	router := setupTestRouter(t, testConfig(), failing)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{"missing plan", http.MethodGet, "/api/v1/meal-plans/missing", nil, http.StatusNotFound, "MEAL_PLAN_NOT_FOUND"},
		{"missing list", http.MethodGet, "/api/v1/shopping-lists/missing", nil, http.StatusNotFound, "SHOPPING_LIST_NOT_FOUND"},
		{"too many days", http.MethodPost, "/api/v1/meal-plans/generate", gin.H{"owner_id": "u", "days": 31}, http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{"bad start date", http.MethodPost, "/api/v1/meal-plans/generate", gin.H{"owner_id": "u", "days": 2, "start_date": "03/02/2026"}, http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{"ai error text", http.MethodPost, "/api/v1/meal-plans/generate", gin.H{"owner_id": "u", "days": 3}, http.StatusServiceUnavailable, "AI_SERVICE_ERROR"},
		{"create for missing plan", http.MethodPost, "/api/v1/shopping-lists", gin.H{"meal_plan_id": "missing"}, http.StatusNotFound, "MEAL_PLAN_NOT_FOUND"},
		{"bad ai flag", http.MethodPost, "/api/v1/shopping-lists/x/generate?ai=maybe", nil, http.StatusBadRequest, common.ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, tt.method, tt.path, tt.body)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d, body = %s", w.Code, tt.status, w.Body.String())
			}
			if code := errorCode(t, w); code != tt.code {
				t.Errorf("code = %q, want %q", code, tt.code)
			}
		})
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := setupTestRouter(t, testConfig(), planCompleter())

	for _, path := range []string{"/health", "/ready", "/live"} {
		w := doJSON(t, router, http.MethodGet, path, nil)
		if w.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, w.Code)
		}
	}

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	if !strings.Contains(w.Body.String(), `"version":"test"`) {
		t.Errorf("unexpected health body: %s", w.Body.String())
	}
}

func TestSuggestionEndpoints(t *testing.T) {
	ai := provider.CompleterFunc(func(_ context.Context, prompt string) (string, error) {
		if strings.HasPrefix(prompt, "Suggest substitutes") {
			return `[{"name":"flax egg","ratio":"1:1"}]`, nil
		}
		return "```json\n" + `[{"name":"Chickpea Curry","ingredients":["chickpeas"]}]` + "\n```", nil
	})
	router := setupTestRouter(t, testConfig(), ai)

	w := doJSON(t, router, http.MethodPost, "/api/v1/ai/suggest-recipes", gin.H{
		"profile": gin.H{"dietary_preference": "vegan"},
		"count":   3,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("suggest status = %d, body = %s", w.Code, w.Body.String())
	}
	var recipes struct {
		Recipes []suggestion.Recipe `json:"recipes"`
	}
	decode(t, w, &recipes)
	if len(recipes.Recipes) != 1 || recipes.Recipes[0].Name != "Chickpea Curry" {
		t.Fatalf("recipes = %+v", recipes.Recipes)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/ai/substitute-ingredient", gin.H{"ingredient": "egg", "reason": "vegan"})
	if w.Code != http.StatusOK {
		t.Fatalf("substitute status = %d, body = %s", w.Code, w.Body.String())
	}
	var subs struct {
		Ingredient  string                  `json:"ingredient"`
		Substitutes []suggestion.Substitute `json:"substitutes"`
	}
	decode(t, w, &subs)
	if subs.Ingredient != "egg" || len(subs.Substitutes) != 1 || subs.Substitutes[0].Ratio != "1:1" {
		t.Fatalf("unexpected substitutes: %+v", subs)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/ai/substitute-ingredient", gin.H{"reason": "vegan"})
	if w.Code != http.StatusBadRequest || errorCode(t, w) != common.ErrCodeInvalidRequest {
		t.Fatalf("missing ingredient status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestSuggestionErrorText(t *testing.T) {
	failing := provider.CompleterFunc(func(context.Context, string) (string, error) {
		return "Error: quota exceeded", nil
	})
	router := setupTestRouter(t, testConfig(), failing)

	w := doJSON(t, router, http.MethodPost, "/api/v1/ai/suggest-recipes", gin.H{})
	if w.Code != http.StatusServiceUnavailable || errorCode(t, w) != "AI_SERVICE_ERROR" {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestUnknownRoute(t *testing.T) {
	router := setupTestRouter(t, testConfig(), planCompleter())

	w := doJSON(t, router, http.MethodGet, "/api/v1/recipes", nil)
	if w.Code != http.StatusNotFound || errorCode(t, w) != common.ErrCodeNotFound {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestReadinessFailsWhenDatabaseClosed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := storage.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	db.Close()

	router, cleanup := SetupRouter(testConfig(), Dependencies{
		DB:          db,
		MealPlans:   mealplan.NewService(db, planCompleter()),
		Shopping:    shopping.NewService(db, db, shopping.NewGenerator(planCompleter(), false)),
		Suggestions: suggestion.NewService(planCompleter()),
	})
	defer cleanup()

	w := doJSON(t, router, http.MethodGet, "/ready", nil)
	if w.Code != http.StatusServiceUnavailable || errorCode(t, w) != common.ErrCodeServiceUnavailable {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestBodySizeLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.MaxBodyBytes = 64
	router := setupTestRouter(t, cfg, planCompleter())

	w := doJSON(t, router, http.MethodPost, "/api/v1/meal-plans/parse", gin.H{
		"owner_id": "user-1",
		"content":  strings.Repeat("x", 200),
	})
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d", w.Code)
	}
}
