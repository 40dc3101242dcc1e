package planner

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLRepository is a SQLite-backed Repository. Insertion order is kept by the
// autoincrement seq column.
type SQLRepository struct {
	db *sql.DB
}

// NewSQLRepository creates a new SQLRepository. The planned_meals table must
// already exist (see database.RunMigrations).
func NewSQLRepository(d *sql.DB) *SQLRepository {
	return &SQLRepository{db: d}
}

const selectMealColumns = `SELECT id, recipe_id, meal_date, meal_type, created_at FROM planned_meals`

// Insert stores a new planned meal.
func (r *SQLRepository) Insert(ctx context.Context, meal PlannedMeal) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO planned_meals (id, recipe_id, meal_date, meal_type, created_at) VALUES (?, ?, ?, ?, ?)`,
		meal.ID, meal.RecipeID, meal.Date, string(meal.MealType), meal.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert planned meal: %w", err)
	}
	return nil
}

// Delete removes a planned meal by id, reporting whether a row was removed.
func (r *SQLRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM planned_meals WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete planned meal %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// List returns every planned meal in insertion order.
func (r *SQLRepository) List(ctx context.Context) ([]PlannedMeal, error) {
	rows, err := r.db.QueryContext(ctx, selectMealColumns+` ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list planned meals: %w", err)
	}
	return scanMeals(rows)
}

// ListBetween returns the meals dated within [from, to] in insertion order.
func (r *SQLRepository) ListBetween(ctx context.Context, from, to string) ([]PlannedMeal, error) {
	rows, err := r.db.QueryContext(ctx,
		selectMealColumns+` WHERE meal_date BETWEEN ? AND ? ORDER BY seq`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list planned meals between %s and %s: %w", from, to, err)
	}
	return scanMeals(rows)
}

// DeleteBetween removes the meals dated within [from, to].
func (r *SQLRepository) DeleteBetween(ctx context.Context, from, to string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM planned_meals WHERE meal_date BETWEEN ? AND ?`, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to delete planned meals between %s and %s: %w", from, to, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return int(n), nil
}

// Count returns the number of planned meals.
func (r *SQLRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM planned_meals`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count planned meals: %w", err)
	}
	return n, nil
}

func scanMeals(rows *sql.Rows) ([]PlannedMeal, error) {
	defer rows.Close()

	var meals []PlannedMeal
	for rows.Next() {
		var (
			m         PlannedMeal
			mealType  string
			createdAt string
		)
		if err := rows.Scan(&m.ID, &m.RecipeID, &m.Date, &mealType, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan planned meal: %w", err)
		}
		m.MealType = MealType(mealType)

		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at %q for meal %s: %w", createdAt, m.ID, err)
		}
		m.CreatedAt = ts
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate planned meals: %w", err)
	}
	return meals, nil
}
