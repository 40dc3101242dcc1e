package shopping

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"household-organizer/internal/recipe"
)

type mergeKey struct {
	name string
	unit string
}

// Aggregate merges the ingredients of every resolvable meal into a shopping list.
// Lines merge when their lowercased name and unit match exactly; quantities are
// summed. Meals whose recipe is unknown contribute nothing and are reported in
// SkippedMealIDs. Items are sorted by case-insensitive name, ties keeping
// first-seen order.
func Aggregate(lookup recipe.Lookup, meals []MealRef) GroceryList {
	index := make(map[mergeKey]int)
	items := []GroceryListItem{}
	skipped := []string{}

	for _, meal := range meals {
		rec, ok := lookup.Get(meal.RecipeID)
		if !ok {
			skipped = append(skipped, meal.MealID)
			continue
		}

		for _, ing := range rec.Ingredients {
			key := mergeKey{name: strings.ToLower(ing.Name), unit: ing.Unit}
			if i, exists := index[key]; exists {
				items[i].Quantity += ing.Quantity
				if !slices.Contains(items[i].FromRecipes, rec.Name) {
					items[i].FromRecipes = append(items[i].FromRecipes, rec.Name)
				}
				continue
			}

			index[key] = len(items)
			items = append(items, GroceryListItem{
				Name:        ing.Name,
				Quantity:    ing.Quantity,
				Unit:        ing.Unit,
				FromRecipes: []string{rec.Name},
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})

	return GroceryList{Items: items, SkippedMealIDs: skipped}
}

// FormatText renders the list as plain text, one item per line.
func FormatText(list GroceryList) string {
	var sb strings.Builder
	if len(list.Items) == 0 {
		sb.WriteString("Nothing to buy.\n")
	}
	for _, item := range list.Items {
		box := "[ ]"
		if item.Checked {
			box = "[x]"
		}
		fmt.Fprintf(&sb, "%s %s %s %s (%s)\n",
			box, item.Name, recipe.FormatQuantity(item.Quantity), item.Unit, strings.Join(item.FromRecipes, ", "))
	}
	if n := len(list.SkippedMealIDs); n > 0 {
		fmt.Fprintf(&sb, "Warning: %d planned meal(s) reference unknown recipes and were skipped.\n", n)
	}
	return sb.String()
}
