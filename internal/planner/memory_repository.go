package planner

import (
	"context"
	"slices"
)

// Repository persists planned meals. Implementations keep insertion order and
// treat deleting an unknown id as a no-op.
type Repository interface {
	Insert(ctx context.Context, meal PlannedMeal) error
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]PlannedMeal, error)
	// ListBetween returns meals dated from..to inclusive (YYYY-MM-DD).
	ListBetween(ctx context.Context, from, to string) ([]PlannedMeal, error)
	// DeleteBetween removes meals dated from..to inclusive and returns how many were removed.
	DeleteBetween(ctx context.Context, from, to string) (int, error)
	Count(ctx context.Context) (int, error)
}

// MemoryRepository keeps planned meals in a slice for the lifetime of the process.
// It does no locking of its own; Store serializes access.
type MemoryRepository struct {
	meals []PlannedMeal
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Insert(_ context.Context, meal PlannedMeal) error {
	r.meals = append(r.meals, meal)
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) (bool, error) {
	i := slices.IndexFunc(r.meals, func(m PlannedMeal) bool { return m.ID == id })
	if i < 0 {
		return false, nil
	}
	r.meals = slices.Delete(r.meals, i, i+1)
	return true, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]PlannedMeal, error) {
	return slices.Clone(r.meals), nil
}

func (r *MemoryRepository) ListBetween(_ context.Context, from, to string) ([]PlannedMeal, error) {
	var out []PlannedMeal
	for _, m := range r.meals {
		if m.Date >= from && m.Date <= to {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MemoryRepository) DeleteBetween(_ context.Context, from, to string) (int, error) {
	before := len(r.meals)
	r.meals = slices.DeleteFunc(r.meals, func(m PlannedMeal) bool {
		return m.Date >= from && m.Date <= to
	})
	return before - len(r.meals), nil
}

func (r *MemoryRepository) Count(_ context.Context) (int, error) {
	return len(r.meals), nil
}
