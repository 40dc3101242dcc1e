package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"household-organizer/internal/calendar"
	"household-organizer/internal/config"
	"household-organizer/internal/database"
	"household-organizer/internal/planner"
	"household-organizer/internal/recipe"
	"household-organizer/internal/shopping"
	"household-organizer/internal/storage"
)

// App holds the application's dependencies.
type App struct {
	cfg     *config.Config
	catalog *recipe.Catalog
	store   *planner.Store
	exports *storage.ListStore
	db      *database.DB
}

// NewApp creates an App from already built components. exports may be nil,
// which disables saving grocery list snapshots.
func NewApp(cfg *config.Config, catalog *recipe.Catalog, store *planner.Store, exports *storage.ListStore) *App {
	return &App{
		cfg:     cfg,
		catalog: catalog,
		store:   store,
		exports: exports,
	}
}

// Open builds the App described by cfg: the bundled recipe catalog, and a
// SQLite backed plan when DatabasePath is set or an in-memory one otherwise.
func Open(cfg *config.Config) (*App, error) {
	catalog, err := recipe.DefaultCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe catalog: %w", err)
	}

	var (
		repo planner.Repository = planner.NewMemoryRepository()
		db   *database.DB
	)
	if cfg.DatabasePath != "" {
		db, err = database.NewDB(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		repo = planner.NewSQLRepository(db.SQL)
	} else {
		log.Println("DATABASE_PATH not set, meal plan will not be persisted")
	}

	exports, err := storage.NewListStore(cfg.ExportPath)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, fmt.Errorf("failed to initialize export store: %w", err)
	}

	store := planner.NewStore(repo, catalog, planner.Options{WeekStartsOn: cfg.WeekStartsOn})
	a := NewApp(cfg, catalog, store, exports)
	a.db = db
	return a, nil
}

// Close releases the database connection, if any.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Store returns the meal plan store.
func (a *App) Store() *planner.Store {
	return a.store
}

// Catalog returns the recipe catalog.
func (a *App) Catalog() *recipe.Catalog {
	return a.catalog
}

// ListRecipes prints the recipe catalog. With verbose set every ingredient is shown.
func (a *App) ListRecipes(w io.Writer, verbose bool) {
	for _, r := range a.catalog.List() {
		if verbose {
			fmt.Fprintf(w, "[%s] %s\n", r.ID, r.ToText())
			continue
		}
		fmt.Fprintf(w, "%-4s %s (serves %d)\n", r.ID, r.Name, r.Servings)
	}
}

// AddMeal plans a recipe and prints the new meal.
func (a *App) AddMeal(ctx context.Context, w io.Writer, recipeID, date, mealType string) error {
	meal, err := a.store.AddMeal(ctx, recipeID, date, mealType)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Planned %s for %s %s (id %s)\n", a.recipeName(meal.RecipeID), meal.Date, meal.MealType, meal.ID)
	if _, ok := a.catalog.Get(meal.RecipeID); !ok {
		fmt.Fprintf(w, "Warning: recipe %s is not in the catalog and will be left out of the grocery list\n", meal.RecipeID)
	}
	return nil
}

// RemoveMeal removes a planned meal. Unknown ids are not an error.
func (a *App) RemoveMeal(ctx context.Context, w io.Writer, id string) error {
	if err := a.store.RemoveMeal(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(w, "Removed %s\n", id)
	return nil
}

// Day prints the meals planned on date.
func (a *App) Day(ctx context.Context, w io.Writer, date string) error {
	meals, err := a.store.MealsForDay(ctx, date)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s\n", date)
	if len(meals) == 0 {
		fmt.Fprintln(w, "  nothing planned")
	}
	for _, m := range meals {
		fmt.Fprintf(w, "  %-9s %s [%s]\n", m.MealType, a.recipeName(m.RecipeID), m.ID)
	}
	return nil
}

// Week prints the week containing start, or the current week if start is empty,
// shifted by offset weeks.
func (a *App) Week(ctx context.Context, w io.Writer, start string, offset int) error {
	if err := a.moveWeek(start, offset); err != nil {
		return err
	}

	weekStart := a.store.CurrentWeekStart()
	meals, err := a.store.MealsForWeek(ctx)
	if err != nil {
		return err
	}

	byDate := groupByDate(meals)
	fmt.Fprintf(w, "Week of %s\n", calendar.FormatDate(weekStart))
	for _, d := range calendar.WeekDays(weekStart) {
		date := calendar.FormatDate(d)
		fmt.Fprintf(w, "%-9s %s\n", d.Weekday(), date)
		for _, m := range byDate[date] {
			fmt.Fprintf(w, "  %-9s %s\n", m.MealType, a.recipeName(m.RecipeID))
		}
	}
	return nil
}

// ClearWeek removes every meal in the week selected like Week.
func (a *App) ClearWeek(ctx context.Context, w io.Writer, start string, offset int) error {
	if err := a.moveWeek(start, offset); err != nil {
		return err
	}

	n, err := a.store.ClearWeek(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Removed %d meal(s) from the week of %s\n", n, calendar.FormatDate(a.store.CurrentWeekStart()))
	return nil
}

// Groceries prints the grocery list for the whole plan and optionally saves a
// snapshot of it.
func (a *App) Groceries(ctx context.Context, w io.Writer, save bool) error {
	list, err := a.store.GenerateGroceryList(ctx)
	if err != nil {
		return err
	}
	io.WriteString(w, shopping.FormatText(list))

	if !save {
		return nil
	}
	if a.exports == nil {
		return fmt.Errorf("failed to save grocery list: no export directory configured")
	}
	path, err := a.exports.Save(list, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save grocery list: %w", err)
	}
	fmt.Fprintf(w, "Saved to %s\n", path)
	return nil
}

// Month prints a calendar grid for the month with the number of meals planned
// on each day.
func (a *App) Month(ctx context.Context, w io.Writer, year int, month time.Month) error {
	if month < time.January || month > time.December {
		return &planner.InputError{Field: "month", Err: fmt.Errorf("must be between 1 and 12, got %d", month)}
	}

	grid := calendar.MonthGrid(year, month, a.store.WeekStartsOn())
	meals, err := a.store.MealsBetween(ctx, grid[0], grid[len(grid)-1])
	if err != nil {
		return err
	}
	counts := make(map[string]int)
	for _, m := range meals {
		counts[m.Date]++
	}

	fmt.Fprintf(w, "%s %d\n", month, year)
	header := make([]string, 7)
	for i := range header {
		day := (a.store.WeekStartsOn() + time.Weekday(i)) % 7
		header[i] = fmt.Sprintf("%-6s", day.String()[:3])
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(header, ""), " "))

	for row := 0; row < len(grid); row += 7 {
		cells := make([]string, 7)
		for i, d := range grid[row : row+7] {
			cell := "  "
			if d.Month() == month {
				cell = fmt.Sprintf("%2d", d.Day())
			}
			if n := counts[calendar.FormatDate(d)]; n > 0 {
				cell += fmt.Sprintf("(%d)", n)
			}
			cells[i] = fmt.Sprintf("%-6s", cell)
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, ""), " "))
	}
	return nil
}

// moveWeek positions the week cursor for one-shot CLI commands.
func (a *App) moveWeek(start string, offset int) error {
	if start != "" {
		t, err := calendar.ParseDate(start)
		if err != nil {
			return &planner.InputError{Field: "start", Err: err}
		}
		a.store.SetCurrentWeekStart(t)
	}
	for ; offset > 0; offset-- {
		a.store.NextWeek()
	}
	for ; offset < 0; offset++ {
		a.store.PreviousWeek()
	}
	return nil
}

func (a *App) recipeName(id string) string {
	if r, ok := a.catalog.Get(id); ok {
		return r.Name
	}
	return "unknown recipe " + id
}

func groupByDate(meals []planner.PlannedMeal) map[string][]planner.PlannedMeal {
	byDate := make(map[string][]planner.PlannedMeal)
	for _, m := range meals {
		byDate[m.Date] = append(byDate[m.Date], m)
	}
	return byDate
}
