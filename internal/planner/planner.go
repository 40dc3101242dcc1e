package planner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"household-organizer/internal/calendar"
	"household-organizer/internal/recipe"
	"household-organizer/internal/shopping"

	"github.com/google/uuid"
)

var (
	_ Repository = (*MemoryRepository)(nil)
	_ Repository = (*SQLRepository)(nil)
)

// Options configures a Store.
type Options struct {
	// WeekStartsOn is the first day of a planning week.
	WeekStartsOn time.Weekday
	// Today seeds the week cursor. Zero means time.Now().
	Today time.Time
}

// Store owns the planned meals and the current-week cursor, and derives
// grocery lists from them. All methods are safe for concurrent use; mutations
// are serialized by a single lock.
type Store struct {
	mu           sync.RWMutex
	repo         Repository
	recipes      recipe.Lookup
	weekStartsOn time.Weekday
	weekStart    time.Time

	newID func() string
	now   func() time.Time
}

// NewStore creates a Store on top of repo, resolving recipes through recipes.
func NewStore(repo Repository, recipes recipe.Lookup, opts Options) *Store {
	today := opts.Today
	if today.IsZero() {
		today = time.Now()
	}
	return &Store{
		repo:         repo,
		recipes:      recipes,
		weekStartsOn: opts.WeekStartsOn,
		weekStart:    calendar.StartOfWeek(today, opts.WeekStartsOn),
		newID:        uuid.NewString,
		now:          time.Now,
	}
}

// AddMeal plans recipeID into the (date, mealType) slot. The recipe id is not
// checked against the catalog; unknown recipes are skipped when the grocery
// list is generated.
func (s *Store) AddMeal(ctx context.Context, recipeID, date string, mealType string) (PlannedMeal, error) {
	recipeID = strings.TrimSpace(recipeID)
	if recipeID == "" {
		return PlannedMeal{}, &InputError{Field: "recipe_id", Err: errors.New("must not be empty")}
	}
	day, err := calendar.ParseDate(date)
	if err != nil {
		return PlannedMeal{}, &InputError{Field: "date", Err: err}
	}
	mt, err := ParseMealType(mealType)
	if err != nil {
		return PlannedMeal{}, &InputError{Field: "meal_type", Err: err}
	}

	meal := PlannedMeal{
		ID:        s.newID(),
		RecipeID:  recipeID,
		Date:      calendar.FormatDate(day),
		MealType:  mt,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Insert(ctx, meal); err != nil {
		return PlannedMeal{}, fmt.Errorf("failed to add meal to plan: %w", err)
	}
	return meal, nil
}

// RemoveMeal removes a planned meal. Removing an unknown id is not an error.
func (s *Store) RemoveMeal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to remove meal from plan: %w", err)
	}
	return nil
}

// MealsForDay returns the meals planned on date, in the order they were added.
func (s *Store) MealsForDay(ctx context.Context, date string) ([]PlannedMeal, error) {
	day, err := calendar.ParseDate(date)
	if err != nil {
		return nil, &InputError{Field: "date", Err: err}
	}
	d := calendar.FormatDate(day)

	s.mu.RLock()
	defer s.mu.RUnlock()

	meals, err := s.repo.ListBetween(ctx, d, d)
	if err != nil {
		return nil, fmt.Errorf("failed to get meals for %s: %w", d, err)
	}
	return meals, nil
}

// MealsForWeek returns the meals inside the current week window.
func (s *Store) MealsForWeek(ctx context.Context) ([]PlannedMeal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	from, to := s.weekBounds()
	meals, err := s.repo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get meals for week of %s: %w", from, err)
	}
	return meals, nil
}

// MealsBetween returns the meals dated from..to inclusive. An inverted range
// yields no meals.
func (s *Store) MealsBetween(ctx context.Context, from, to time.Time) ([]PlannedMeal, error) {
	f, t := calendar.FormatDate(from), calendar.FormatDate(to)
	if f > t {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	meals, err := s.repo.ListBetween(ctx, f, t)
	if err != nil {
		return nil, fmt.Errorf("failed to get meals for %s..%s: %w", f, t, err)
	}
	return meals, nil
}

// ClearWeek removes every meal dated inside the current week window and
// returns how many were removed. Meals outside the window are untouched.
func (s *Store) ClearWeek(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	from, to := s.weekBounds()
	n, err := s.repo.DeleteBetween(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to clear week of %s: %w", from, err)
	}
	log.Printf("Cleared %d planned meal(s) for week %s..%s", n, from, to)
	return n, nil
}

// CurrentWeekStart returns the first day of the week being browsed.
func (s *Store) CurrentWeekStart() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weekStart
}

// SetCurrentWeekStart moves the week cursor to the week containing t.
func (s *Store) SetCurrentWeekStart(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weekStart = calendar.StartOfWeek(t, s.weekStartsOn)
}

// NextWeek advances the cursor by seven days.
func (s *Store) NextWeek() time.Time {
	return s.shiftWeek(1)
}

// PreviousWeek moves the cursor back by seven days.
func (s *Store) PreviousWeek() time.Time {
	return s.shiftWeek(-1)
}

func (s *Store) shiftWeek(n int) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weekStart = calendar.AddDays(s.weekStart, 7*n)
	return s.weekStart
}

// WeekStartsOn returns the configured first day of the week.
func (s *Store) WeekStartsOn() time.Weekday {
	return s.weekStartsOn
}

// Count returns the number of planned meals.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repo.Count(ctx)
}

// GenerateGroceryList aggregates the ingredients of every planned meal, across
// all dates, into a shopping list.
func (s *Store) GenerateGroceryList(ctx context.Context) (shopping.GroceryList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meals, err := s.repo.List(ctx)
	if err != nil {
		return shopping.GroceryList{}, fmt.Errorf("failed to generate grocery list: %w", err)
	}

	refs := make([]shopping.MealRef, len(meals))
	for i, m := range meals {
		refs[i] = shopping.MealRef{MealID: m.ID, RecipeID: m.RecipeID}
	}

	list := shopping.Aggregate(s.recipes, refs)
	if n := len(list.SkippedMealIDs); n > 0 {
		log.Printf("Warning: %d planned meal(s) reference unknown recipes and were skipped: %v", n, list.SkippedMealIDs)
	}
	return list, nil
}

// weekBounds must be called with s.mu held.
func (s *Store) weekBounds() (string, string) {
	return calendar.FormatDate(s.weekStart), calendar.FormatDate(calendar.AddDays(s.weekStart, 6))
}
