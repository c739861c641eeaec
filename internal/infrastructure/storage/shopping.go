package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"meal-planner/internal/core/shopping"
	"meal-planner/internal/pkg/common"

	"github.com/shopspring/decimal"
)

// CreateShoppingList 建立購物清單
func (s *SQLite) CreateShoppingList(ctx context.Context, list *shopping.ShoppingList) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO shopping_lists (id, meal_plan_id, owner_id, created_at)
        VALUES (?, ?, ?, ?)
    `, list.ID, nullString(list.MealPlanID), list.OwnerID, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to insert shopping list: %w", err)
	}
	return nil
}

// GetShoppingList 讀取購物清單及其項目
func (s *SQLite) GetShoppingList(ctx context.Context, id string) (*shopping.ShoppingList, error) {
	list := &shopping.ShoppingList{}
	var mealPlanID sql.NullString

	err := s.db.QueryRowContext(ctx, `
        SELECT id, meal_plan_id, owner_id FROM shopping_lists WHERE id = ?
    `, id).Scan(&list.ID, &mealPlanID, &list.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrShoppingListNotFound
		}
		return nil, fmt.Errorf("failed to query shopping list: %w", err)
	}
	list.MealPlanID = mealPlanID.String

	if list.Items, err = s.loadShoppingItems(ctx, id); err != nil {
		return nil, err
	}
	return list, nil
}

// ReplaceShoppingListItems 以新項目取代清單內容，回傳帶有 ID 的項目
func (s *SQLite) ReplaceShoppingListItems(ctx context.Context, listID string, items []shopping.ShoppingListItem) ([]shopping.ShoppingListItem, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := listExists(ctx, tx, listID); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM shopping_list_items WHERE shopping_list_id = ?`, listID); err != nil {
		return nil, fmt.Errorf("failed to clear shopping list items: %w", err)
	}

	saved := make([]shopping.ShoppingListItem, 0, len(items))
	for pos, item := range items {
		item.ID = common.GenerateUUID()
		item.ShoppingListID = listID
		_, err := tx.ExecContext(ctx, `
            INSERT INTO shopping_list_items (id, shopping_list_id, position, ingredient_name, quantity, unit, category, checked)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        `, item.ID, listID, pos, item.IngredientName, item.Quantity.String(), item.Unit, item.Category, item.Checked)
		if err != nil {
			return nil, fmt.Errorf("failed to insert shopping list item: %w", err)
		}
		saved = append(saved, item)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit shopping list items: %w", err)
	}
	return saved, nil
}

// ToggleItem 切換項目的勾選狀態
func (s *SQLite) ToggleItem(ctx context.Context, listID, itemID string) (*shopping.ShoppingListItem, error) {
	res, err := s.db.ExecContext(ctx, `
        UPDATE shopping_list_items SET checked = 1 - checked
        WHERE id = ? AND shopping_list_id = ?
    `, itemID, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle item: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, common.ErrShoppingItemNotFound
	}

	item := &shopping.ShoppingListItem{}
	var qty string
	err = s.db.QueryRowContext(ctx, `
        SELECT id, shopping_list_id, ingredient_name, quantity, unit, category, checked
        FROM shopping_list_items WHERE id = ?
    `, itemID).Scan(&item.ID, &item.ShoppingListID, &item.IngredientName, &qty, &item.Unit, &item.Category, &item.Checked)
	if err != nil {
		return nil, fmt.Errorf("failed to query item: %w", err)
	}
	if err := parseQuantity(qty, item); err != nil {
		return nil, err
	}
	return item, nil
}

// ClearShoppingList 刪除清單內所有項目
func (s *SQLite) ClearShoppingList(ctx context.Context, listID string) error {
	if err := listExists(ctx, s.db, listID); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM shopping_list_items WHERE shopping_list_id = ?`, listID); err != nil {
		return fmt.Errorf("failed to clear shopping list: %w", err)
	}
	return nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func listExists(ctx context.Context, q queryRower, listID string) error {
	var exists int
	if err := q.QueryRowContext(ctx, `SELECT 1 FROM shopping_lists WHERE id = ?`, listID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrShoppingListNotFound
		}
		return fmt.Errorf("failed to query shopping list: %w", err)
	}
	return nil
}

func (s *SQLite) loadShoppingItems(ctx context.Context, listID string) ([]shopping.ShoppingListItem, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, shopping_list_id, ingredient_name, quantity, unit, category, checked
        FROM shopping_list_items
        WHERE shopping_list_id = ?
        ORDER BY position
    `, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shopping list items: %w", err)
	}
	defer rows.Close()

	items := []shopping.ShoppingListItem{}
	for rows.Next() {
		var item shopping.ShoppingListItem
		var qty string
		if err := rows.Scan(&item.ID, &item.ShoppingListID, &item.IngredientName, &qty, &item.Unit, &item.Category, &item.Checked); err != nil {
			return nil, fmt.Errorf("failed to scan shopping list item: %w", err)
		}
		if err := parseQuantity(qty, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func parseQuantity(s string, item *shopping.ShoppingListItem) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("failed to parse quantity %q: %w", s, err)
	}
	item.Quantity = d
	return nil
}
