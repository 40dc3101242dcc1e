package shopping

// GroceryListItem is one merged line of a derived shopping list.
type GroceryListItem struct {
	Name        string   `json:"name"`
	Quantity    float64  `json:"quantity"`
	Unit        string   `json:"unit"`
	Checked     bool     `json:"checked"`
	FromRecipes []string `json:"from_recipes"`
}

// GroceryList is the result of aggregating a meal plan. It is recomputed on
// demand and never stored.
type GroceryList struct {
	Items []GroceryListItem `json:"items"`
	// SkippedMealIDs lists planned meals whose recipe could not be resolved.
	SkippedMealIDs []string `json:"skipped_meal_ids"`
}

// MealRef is the part of a planned meal the aggregation needs.
type MealRef struct {
	MealID   string
	RecipeID string
}
