package recipe

import (
	"fmt"
	"strings"
)

// Ingredient is a single line of a recipe's ingredient list.
type Ingredient struct {
	Name     string  `json:"name" yaml:"name"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
	Unit     string  `json:"unit" yaml:"unit"`
}

// Recipe is an immutable catalog entry.
type Recipe struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Servings    int          `json:"servings" yaml:"servings"`
	Tags        []string     `json:"tags" yaml:"tags"`
	Ingredients []Ingredient `json:"ingredients" yaml:"ingredients"`
}

// ValidationError reports a recipe that breaks a catalog invariant.
type ValidationError struct {
	RecipeID string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid recipe %q: %s", e.RecipeID, e.Reason)
}

// Validate checks the invariants every catalog recipe must hold.
func (r Recipe) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return &ValidationError{RecipeID: r.ID, Reason: "id is empty"}
	}
	if strings.TrimSpace(r.Name) == "" {
		return &ValidationError{RecipeID: r.ID, Reason: "name is empty"}
	}
	if r.Servings <= 0 {
		return &ValidationError{RecipeID: r.ID, Reason: fmt.Sprintf("servings must be positive, got %d", r.Servings)}
	}
	for i, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return &ValidationError{RecipeID: r.ID, Reason: fmt.Sprintf("ingredient %d has no name", i)}
		}
		if !(ing.Quantity > 0) {
			return &ValidationError{
				RecipeID: r.ID,
				Reason:   fmt.Sprintf("ingredient %q must have a positive quantity, got %v", ing.Name, ing.Quantity),
			}
		}
	}
	return nil
}

// clone returns a deep copy so catalog data cannot be mutated through a returned value.
func (r Recipe) clone() Recipe {
	c := r
	c.Tags = append([]string(nil), r.Tags...)
	c.Ingredients = append([]Ingredient(nil), r.Ingredients...)
	return c
}

// ToText renders the recipe as a short human readable block.
func (r Recipe) ToText() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (serves %d)\n", r.Name, r.Servings)
	if len(r.Tags) > 0 {
		fmt.Fprintf(&sb, "Tags: %s\n", strings.Join(r.Tags, ", "))
	}
	for _, ing := range r.Ingredients {
		fmt.Fprintf(&sb, "- %s %s %s\n", FormatQuantity(ing.Quantity), ing.Unit, ing.Name)
	}
	return sb.String()
}

// FormatQuantity prints a quantity without trailing zeros ("2", "0.5").
func FormatQuantity(q float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", q), "0"), ".")
}
