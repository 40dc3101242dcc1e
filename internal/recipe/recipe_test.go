package recipe

import (
	"errors"
	"strings"
	"testing"
)

func sampleRecipes() []Recipe {
	return []Recipe{
		{
			ID:       "1",
			Name:     "Recipe A",
			Servings: 2,
			Tags:     []string{"dinner"},
			Ingredients: []Ingredient{
				{Name: "Rice", Quantity: 2, Unit: "kg"},
				{Name: "Salt", Quantity: 1, Unit: "tsp"},
			},
		},
		{
			ID:       "2",
			Name:     "Recipe B",
			Servings: 4,
			Ingredients: []Ingredient{
				{Name: "Rice", Quantity: 1, Unit: "kg"},
				{Name: "Pepper", Quantity: 2, Unit: "tsp"},
			},
		},
	}
}

func TestNewCatalog(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		c, err := NewCatalog(sampleRecipes())
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if c.Len() != 2 {
			t.Errorf("Expected 2 recipes, got %d", c.Len())
		}

		r, ok := c.Get("2")
		if !ok {
			t.Fatal("Expected recipe '2' to be found")
		}
		if r.Name != "Recipe B" {
			t.Errorf("Expected name 'Recipe B', got '%s'", r.Name)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		c, _ := NewCatalog(sampleRecipes())
		if _, ok := c.Get("99"); ok {
			t.Error("Expected recipe '99' to be missing")
		}
	})

	t.Run("DuplicateID", func(t *testing.T) {
		recipes := append(sampleRecipes(), Recipe{ID: "1", Name: "Dup", Servings: 1})
		_, err := NewCatalog(recipes)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("Expected a ValidationError, got %v", err)
		}
		if vErr.RecipeID != "1" {
			t.Errorf("Expected error for recipe '1', got '%s'", vErr.RecipeID)
		}
	})

	t.Run("NonPositiveQuantity", func(t *testing.T) {
		recipes := sampleRecipes()
		recipes[0].Ingredients[1].Quantity = 0
		_, err := NewCatalog(recipes)
		if err == nil || !strings.Contains(err.Error(), "positive quantity") {
			t.Errorf("Expected positive quantity error, got %v", err)
		}
	})

	t.Run("NonPositiveServings", func(t *testing.T) {
		recipes := sampleRecipes()
		recipes[1].Servings = 0
		if _, err := NewCatalog(recipes); err == nil {
			t.Error("Expected an error for zero servings, got nil")
		}
	})

	t.Run("ReturnsCopies", func(t *testing.T) {
		c, _ := NewCatalog(sampleRecipes())
		r, _ := c.Get("1")
		r.Ingredients[0].Quantity = 100
		r.Tags[0] = "changed"

		again, _ := c.Get("1")
		if again.Ingredients[0].Quantity != 2 {
			t.Errorf("Expected catalog quantity to stay 2, got %v", again.Ingredients[0].Quantity)
		}
		if again.Tags[0] != "dinner" {
			t.Errorf("Expected catalog tag to stay 'dinner', got '%s'", again.Tags[0])
		}
	})
}

func TestLoadCatalog(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		data := []byte(`
version: 1
recipes:
  - id: "10"
    name: Toast
    servings: 1
    tags: [breakfast]
    ingredients:
      - {name: Bread, quantity: 2, unit: slices}
      - {name: Butter, quantity: 0.5, unit: tbsp}
`)
		c, err := LoadCatalog(data)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		r, ok := c.Get("10")
		if !ok {
			t.Fatal("Expected recipe '10' to be found")
		}
		if len(r.Ingredients) != 2 || r.Ingredients[1].Quantity != 0.5 {
			t.Errorf("Unexpected ingredients: %+v", r.Ingredients)
		}
	})

	t.Run("UnsupportedVersion", func(t *testing.T) {
		_, err := LoadCatalog([]byte("version: 2\nrecipes: []\n"))
		if err == nil || !strings.HasPrefix(err.Error(), "unsupported recipe dataset version") {
			t.Errorf("Expected a version error, got %v", err)
		}
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		_, err := LoadCatalog([]byte("version: [1"))
		if err == nil || !strings.HasPrefix(err.Error(), "failed to parse recipe dataset") {
			t.Errorf("Expected a parse error, got %v", err)
		}
	})
}

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("Bundled dataset failed to load: %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("Expected bundled dataset to contain recipes")
	}
	list := c.List()
	if list[0].ID != "1" {
		t.Errorf("Expected dataset order to be kept, first id '%s'", list[0].ID)
	}
}

func TestToText(t *testing.T) {
	r := sampleRecipes()[0]
	text := r.ToText()
	if !strings.Contains(text, "Recipe A (serves 2)") {
		t.Errorf("Missing header in %q", text)
	}
	if !strings.Contains(text, "- 2 kg Rice") {
		t.Errorf("Missing ingredient line in %q", text)
	}
}

func TestFormatQuantity(t *testing.T) {
	tests := map[float64]string{2: "2", 0.5: "0.5", 1.25: "1.25", 3.1: "3.1", 100: "100"}
	for in, want := range tests {
		if got := FormatQuantity(in); got != want {
			t.Errorf("FormatQuantity(%v): expected %s, got %s", in, want, got)
		}
	}
}
