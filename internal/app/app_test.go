package app

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"household-organizer/internal/config"
	"household-organizer/internal/planner"
	"household-organizer/internal/recipe"
	"household-organizer/internal/storage"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	catalog, err := recipe.NewCatalog([]recipe.Recipe{
		{ID: "1", Name: "Recipe A", Servings: 2, Ingredients: []recipe.Ingredient{
			{Name: "Rice", Quantity: 2, Unit: "kg"},
			{Name: "Salt", Quantity: 1, Unit: "tsp"},
		}},
		{ID: "2", Name: "Recipe B", Servings: 2, Ingredients: []recipe.Ingredient{
			{Name: "Rice", Quantity: 1, Unit: "kg"},
			{Name: "Pepper", Quantity: 2, Unit: "tsp"},
		}},
	})
	if err != nil {
		t.Fatalf("Failed to build catalog: %v", err)
	}

	exports, err := storage.NewListStore(filepath.Join(t.TempDir(), "exports"))
	if err != nil {
		t.Fatalf("Failed to create export store: %v", err)
	}

	store := planner.NewStore(planner.NewMemoryRepository(), catalog, planner.Options{
		WeekStartsOn: time.Monday,
		Today:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	return NewApp(&config.Config{WeekStartsOn: time.Monday}, catalog, store, exports)
}

func TestGroceriesScenario(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	var out bytes.Buffer

	for _, m := range []struct{ recipeID, date, mealType string }{
		{"1", "2025-03-01", "breakfast"},
		{"2", "2025-03-02", "dinner"},
		{"99", "2025-03-03", "lunch"},
	} {
		if err := a.AddMeal(ctx, &out, m.recipeID, m.date, m.mealType); err != nil {
			t.Fatalf("AddMeal(%s) failed: %v", m.recipeID, err)
		}
	}
	if !strings.Contains(out.String(), "Warning: recipe 99 is not in the catalog") {
		t.Errorf("Expected unknown recipe warning, got:\n%s", out.String())
	}

	out.Reset()
	if err := a.Groceries(ctx, &out, true); err != nil {
		t.Fatalf("Groceries failed: %v", err)
	}

	want := "[ ] Pepper 2 tsp (Recipe B)\n" +
		"[ ] Rice 3 kg (Recipe A, Recipe B)\n" +
		"[ ] Salt 1 tsp (Recipe A)\n" +
		"Warning: 1 planned meal(s) reference unknown recipes and were skipped.\n"
	if !strings.HasPrefix(out.String(), want) {
		t.Errorf("Unexpected grocery list:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Saved to ") {
		t.Errorf("Expected a saved snapshot, got:\n%s", out.String())
	}

	snap, err := a.exports.Latest()
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if len(snap.List.Items) != 3 || len(snap.List.SkippedMealIDs) != 1 {
		t.Errorf("Unexpected snapshot: %+v", snap.List)
	}
}

func TestDayAndRemove(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	var out bytes.Buffer

	if err := a.AddMeal(ctx, &out, "1", "2025-03-05", "dinner"); err != nil {
		t.Fatalf("AddMeal failed: %v", err)
	}
	meals, _ := a.Store().MealsForDay(ctx, "2025-03-05")
	if len(meals) != 1 {
		t.Fatalf("Expected 1 meal, got %d", len(meals))
	}

	out.Reset()
	if err := a.Day(ctx, &out, "2025-03-05"); err != nil {
		t.Fatalf("Day failed: %v", err)
	}
	if !strings.Contains(out.String(), "dinner    Recipe A ["+meals[0].ID+"]") {
		t.Errorf("Unexpected day output:\n%s", out.String())
	}

	for i := 0; i < 2; i++ {
		if err := a.RemoveMeal(ctx, &out, meals[0].ID); err != nil {
			t.Errorf("RemoveMeal %d failed: %v", i+1, err)
		}
	}

	out.Reset()
	if err := a.Day(ctx, &out, "2025-03-05"); err != nil {
		t.Fatalf("Day failed: %v", err)
	}
	if !strings.Contains(out.String(), "nothing planned") {
		t.Errorf("Expected empty day, got:\n%s", out.String())
	}

	var inErr *planner.InputError
	if err := a.Day(ctx, &out, "05/03/2025"); !errors.As(err, &inErr) {
		t.Errorf("Expected InputError, got %v", err)
	}
}

func TestWeekAndClearWeek(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	var out bytes.Buffer

	for _, date := range []string{"2025-03-09", "2025-03-10", "2025-03-16", "2025-03-17"} {
		if err := a.AddMeal(ctx, &out, "2", date, "lunch"); err != nil {
			t.Fatalf("AddMeal failed: %v", err)
		}
	}

	out.Reset()
	if err := a.Week(ctx, &out, "", 2); err != nil {
		t.Fatalf("Week failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "Week of 2025-03-10\n") {
		t.Errorf("Expected week of 2025-03-10, got:\n%s", out.String())
	}
	if strings.Count(out.String(), "Recipe B") != 2 {
		t.Errorf("Expected 2 meals in the week, got:\n%s", out.String())
	}

	out.Reset()
	if err := a.ClearWeek(ctx, &out, "2025-03-12", 0); err != nil {
		t.Fatalf("ClearWeek failed: %v", err)
	}
	if !strings.Contains(out.String(), "Removed 2 meal(s) from the week of 2025-03-10") {
		t.Errorf("Unexpected clear output: %s", out.String())
	}
	if n, _ := a.Store().Count(ctx); n != 2 {
		t.Errorf("Expected meals outside the week to survive, got %d", n)
	}

	var inErr *planner.InputError
	if err := a.Week(ctx, &out, "next tuesday", 0); !errors.As(err, &inErr) {
		t.Errorf("Expected InputError, got %v", err)
	}
}

func TestMonth(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	var out bytes.Buffer

	a.AddMeal(ctx, &out, "1", "2025-03-05", "lunch")
	a.AddMeal(ctx, &out, "2", "2025-03-05", "dinner")

	out.Reset()
	if err := a.Month(ctx, &out, 2025, time.March); err != nil {
		t.Fatalf("Month failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 8 {
		t.Fatalf("Expected title, header and 6 weeks, got %d lines:\n%s", len(lines), out.String())
	}
	if lines[0] != "March 2025" {
		t.Errorf("Expected 'March 2025', got '%s'", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Mon   Tue") {
		t.Errorf("Expected Monday first header, got '%s'", lines[1])
	}
	if !strings.Contains(lines[3], " 5(2)") {
		t.Errorf("Expected 2 meals on the 5th, got '%s'", lines[3])
	}

	var inErr *planner.InputError
	if err := a.Month(ctx, &out, 2025, 13); !errors.As(err, &inErr) {
		t.Errorf("Expected InputError, got %v", err)
	}
}

func TestListRecipes(t *testing.T) {
	a := newTestApp(t)
	var out bytes.Buffer

	a.ListRecipes(&out, false)
	if !strings.Contains(out.String(), "1    Recipe A (serves 2)") {
		t.Errorf("Unexpected recipe list:\n%s", out.String())
	}

	out.Reset()
	a.ListRecipes(&out, true)
	if !strings.Contains(out.String(), "Pepper") {
		t.Errorf("Expected ingredients in verbose list:\n%s", out.String())
	}
}

func TestOpenInMemory(t *testing.T) {
	cfg := &config.Config{WeekStartsOn: time.Sunday, ExportPath: filepath.Join(t.TempDir(), "exports")}
	a, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer a.Close()

	if a.Catalog().Len() == 0 {
		t.Error("Expected the bundled catalog to be loaded")
	}
	if got := a.Store().CurrentWeekStart().Weekday(); got != time.Sunday {
		t.Errorf("Expected week to start on Sunday, got %s", got)
	}
}

func TestOpenWithDatabase(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := &config.Config{
		WeekStartsOn: time.Monday,
		DatabasePath: filepath.Join(dir, "organizer.db"),
		ExportPath:   filepath.Join(dir, "exports"),
	}

	a, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	var out bytes.Buffer
	if err := a.AddMeal(ctx, &out, "1", "2025-03-05", "dinner"); err != nil {
		t.Fatalf("AddMeal failed: %v", err)
	}
	a.Close()

	reopened, err := Open(cfg)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close()

	meals, err := reopened.Store().MealsForDay(ctx, "2025-03-05")
	if err != nil || len(meals) != 1 {
		t.Errorf("Expected the meal to persist, got %+v, %v", meals, err)
	}
}
