package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/pkg/common"

	"github.com/shopspring/decimal"
)

// execer 讓 *sql.DB 與 *sql.Tx 共用寫入函式
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SaveMealPlan 在同一個交易中寫入計畫、食譜、食材與項目
func (s *SQLite) SaveMealPlan(ctx context.Context, m *mealplan.Materialization) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	p := m.Plan
	_, err = tx.ExecContext(ctx, `
        INSERT INTO meal_plans (id, owner_id, owner_username, name, start_date, end_date, total_calories, status, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, p.ID, p.Owner.ID, p.Owner.Username, p.Name, nullTime(p.StartDate), nullTime(p.EndDate),
		p.TotalCalories, p.Status, formatTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert meal plan: %w", err)
	}

	if err := insertItems(ctx, tx, m.Items); err != nil {
		return err
	}
	return tx.Commit()
}

// ReplaceDayItems 刪除指定天數的項目與其食譜，再寫入新項目
func (s *SQLite) ReplaceDayItems(ctx context.Context, mealPlanID string, day int, items []mealplan.MealPlanItemRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM meal_plans WHERE id = ?`, mealPlanID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrMealPlanNotFound
		}
		return fmt.Errorf("failed to query meal plan: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
        DELETE FROM recipes WHERE id IN (
            SELECT recipe_id FROM meal_plan_items WHERE meal_plan_id = ? AND day_number = ?
        )
    `, mealPlanID, day)
	if err != nil {
		return fmt.Errorf("failed to delete recipes for day %d: %w", day, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM meal_plan_items WHERE meal_plan_id = ? AND day_number = ?`, mealPlanID, day); err != nil {
		return fmt.Errorf("failed to delete items for day %d: %w", day, err)
	}

	if err := insertItems(ctx, tx, items); err != nil {
		return err
	}
	return tx.Commit()
}

func insertItems(ctx context.Context, tx execer, items []mealplan.MealPlanItemRecord) error {
	for pos, item := range items {
		if item.Recipe != nil {
			if err := insertRecipe(ctx, tx, item.Recipe); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx, `
            INSERT INTO meal_plan_items (id, meal_plan_id, recipe_id, day_number, meal_type, position)
            VALUES (?, ?, ?, ?, ?, ?)
        `, item.ID, item.MealPlanID, item.RecipeID, item.DayNumber, item.MealType, pos)
		if err != nil {
			return fmt.Errorf("failed to insert meal plan item: %w", err)
		}
	}
	return nil
}

func insertRecipe(ctx context.Context, tx execer, r *mealplan.RecipeRecord) error {
	_, err := tx.ExecContext(ctx, `
        INSERT INTO recipes (id, name, description, cuisine_type, meal_type, prep_time, cook_time, servings,
            difficulty, image_url, instructions, created_by, created_by_username, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, r.ID, r.Name, r.Description, r.CuisineType, r.MealType, nullInt(r.PrepTime), nullInt(r.CookTime),
		r.Servings, r.Difficulty, r.ImageURL, r.Instructions, r.CreatedBy.ID, r.CreatedBy.Username, formatTime(r.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert recipe: %w", err)
	}

	for pos, ing := range r.Ingredients {
		_, err := tx.ExecContext(ctx, `
            INSERT INTO ingredients (id, recipe_id, position, name, quantity, unit, calories, protein, carbs, fat)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        `, ing.ID, r.ID, pos, ing.Name, nullDecimal(ing.Quantity), ing.Unit,
			nullDecimal(ing.Calories), nullDecimal(ing.Protein), nullDecimal(ing.Carbs), nullDecimal(ing.Fat))
		if err != nil {
			return fmt.Errorf("failed to insert ingredient: %w", err)
		}
	}
	return nil
}

// GetMealPlan 讀取計畫及其項目、食譜與食材
func (s *SQLite) GetMealPlan(ctx context.Context, id string) (*mealplan.Materialization, error) {
	m := &mealplan.Materialization{}
	p := &m.Plan
	var start, end sql.NullString
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
        SELECT id, owner_id, owner_username, name, start_date, end_date, total_calories, status, created_at
        FROM meal_plans WHERE id = ?
    `, id).Scan(&p.ID, &p.Owner.ID, &p.Owner.Username, &p.Name, &start, &end, &p.TotalCalories, &p.Status, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrMealPlanNotFound
		}
		return nil, fmt.Errorf("failed to query meal plan: %w", err)
	}
	if p.StartDate, err = timePtr(start); err != nil {
		return nil, fmt.Errorf("failed to parse start_date: %w", err)
	}
	if p.EndDate, err = timePtr(end); err != nil {
		return nil, fmt.Errorf("failed to parse end_date: %w", err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	if m.Items, err = s.loadItems(ctx, id); err != nil {
		return nil, err
	}
	for i := range m.Items {
		if err := s.loadIngredients(ctx, m.Items[i].Recipe); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (s *SQLite) loadItems(ctx context.Context, mealPlanID string) ([]mealplan.MealPlanItemRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT i.id, i.meal_plan_id, i.recipe_id, i.day_number, i.meal_type,
               r.name, r.description, r.cuisine_type, r.meal_type, r.prep_time, r.cook_time, r.servings,
               r.difficulty, r.image_url, r.instructions, r.created_by, r.created_by_username, r.created_at
        FROM meal_plan_items i
        JOIN recipes r ON r.id = i.recipe_id
        WHERE i.meal_plan_id = ?
        ORDER BY i.day_number, i.position
    `, mealPlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query meal plan items: %w", err)
	}
	defer rows.Close()

	var items []mealplan.MealPlanItemRecord
	for rows.Next() {
		var item mealplan.MealPlanItemRecord
		r := &mealplan.RecipeRecord{}
		var prep, cook sql.NullInt64
		var createdAt string

		err := rows.Scan(&item.ID, &item.MealPlanID, &item.RecipeID, &item.DayNumber, &item.MealType,
			&r.Name, &r.Description, &r.CuisineType, &r.MealType, &prep, &cook, &r.Servings,
			&r.Difficulty, &r.ImageURL, &r.Instructions, &r.CreatedBy.ID, &r.CreatedBy.Username, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal plan item: %w", err)
		}
		r.ID = item.RecipeID
		r.PrepTime = intPtr(prep)
		r.CookTime = intPtr(cook)
		if r.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse recipe created_at: %w", err)
		}
		item.Recipe = r
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *SQLite) loadIngredients(ctx context.Context, r *mealplan.RecipeRecord) error {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, name, quantity, unit, calories, protein, carbs, fat
        FROM ingredients
        WHERE recipe_id = ?
        ORDER BY position
    `, r.ID)
	if err != nil {
		return fmt.Errorf("failed to query ingredients: %w", err)
	}
	defer rows.Close()

	r.Ingredients = []mealplan.IngredientRecord{}
	for rows.Next() {
		ing := mealplan.IngredientRecord{RecipeID: r.ID}
		var qty, cal, protein, carbs, fat decimal.NullDecimal
		if err := rows.Scan(&ing.ID, &ing.Name, &qty, &ing.Unit, &cal, &protein, &carbs, &fat); err != nil {
			return fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ing.Quantity = decimalPtr(qty)
		ing.Calories = decimalPtr(cal)
		ing.Protein = decimalPtr(protein)
		ing.Carbs = decimalPtr(carbs)
		ing.Fat = decimalPtr(fat)
		r.Ingredients = append(r.Ingredients, ing)
	}
	return rows.Err()
}

func nullDecimal(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func decimalPtr(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}
