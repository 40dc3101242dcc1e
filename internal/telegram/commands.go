package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"household-organizer/internal/calendar"
	"household-organizer/internal/planner"
	"household-organizer/internal/recipe"
	"household-organizer/internal/shopping"
)

const helpText = "🍽 *Meal Planner*\n\n" +
	"/recipes - list recipes\n" +
	"/plan <recipe> <YYYY-MM-DD> <breakfast|lunch|dinner|snack> - plan a meal\n" +
	"/remove <meal id> - remove a planned meal\n" +
	"/day <YYYY-MM-DD> - meals for a day\n" +
	"/week - meals for the current week\n" +
	"/nextweek, /prevweek - move the week\n" +
	"/clearweek - remove every meal this week\n" +
	"/groceries - shopping list for the whole plan"

// Commands turns chat commands into meal plan operations. It has no Telegram
// dependency so it can be driven directly.
type Commands struct {
	store   *planner.Store
	catalog *recipe.Catalog
}

// NewCommands creates a Commands handler.
func NewCommands(store *planner.Store, catalog *recipe.Catalog) *Commands {
	return &Commands{store: store, catalog: catalog}
}

// Handle executes one message and returns the Markdown reply.
func (c *Commands) Handle(ctx context.Context, text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return helpText
	}
	// Strip "@BotName" suffixes used in group chats.
	cmd, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	args := fields[1:]

	reply, err := c.dispatch(ctx, cmd, args)
	if err != nil {
		var inErr *planner.InputError
		if errors.As(err, &inErr) {
			return fmt.Sprintf("⚠️ %s", inErr.Error())
		}
		log.Printf("Error handling command %s: %v", cmd, err)
		return "❌ Something went wrong, please try again."
	}
	return reply
}

func (c *Commands) dispatch(ctx context.Context, cmd string, args []string) (string, error) {
	switch cmd {
	case "/recipes":
		return formatRecipesMarkdown(c.catalog.List()), nil
	case "/plan":
		return c.plan(ctx, args)
	case "/remove":
		if len(args) != 1 {
			return "Usage: /remove <meal id>", nil
		}
		if err := c.store.RemoveMeal(ctx, args[0]); err != nil {
			return "", err
		}
		return "🗑 Removed.", nil
	case "/day":
		if len(args) != 1 {
			return "Usage: /day <YYYY-MM-DD>", nil
		}
		meals, err := c.store.MealsForDay(ctx, args[0])
		if err != nil {
			return "", err
		}
		return formatDayMarkdown(args[0], meals, c.catalog), nil
	case "/week":
		return c.week(ctx)
	case "/nextweek":
		c.store.NextWeek()
		return c.week(ctx)
	case "/prevweek":
		c.store.PreviousWeek()
		return c.week(ctx)
	case "/clearweek":
		n, err := c.store.ClearWeek(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("🧹 Removed %d meal(s) from the week of %s.", n, calendar.FormatDate(c.store.CurrentWeekStart())), nil
	case "/groceries":
		list, err := c.store.GenerateGroceryList(ctx)
		if err != nil {
			return "", err
		}
		return formatGroceryListMarkdown(list), nil
	default:
		return helpText, nil
	}
}

func (c *Commands) plan(ctx context.Context, args []string) (string, error) {
	if len(args) != 3 {
		return "Usage: /plan <recipe> <YYYY-MM-DD> <breakfast|lunch|dinner|snack>", nil
	}
	meal, err := c.store.AddMeal(ctx, args[0], args[1], args[2])
	if err != nil {
		return "", err
	}

	rec, ok := c.catalog.Get(meal.RecipeID)
	if !ok {
		return fmt.Sprintf("✅ Planned recipe %s for %s %s (id `%s`).\n⚠️ Recipe %s is not in the catalog and will be left out of the shopping list.",
			meal.RecipeID, meal.Date, meal.MealType, meal.ID, meal.RecipeID), nil
	}
	return fmt.Sprintf("✅ Planned *%s* for %s %s (id `%s`).", rec.Name, meal.Date, meal.MealType, meal.ID), nil
}

func (c *Commands) week(ctx context.Context) (string, error) {
	meals, err := c.store.MealsForWeek(ctx)
	if err != nil {
		return "", err
	}
	return formatWeekMarkdown(c.store.CurrentWeekStart(), meals, c.catalog), nil
}

func recipeName(lookup recipe.Lookup, id string) string {
	if r, ok := lookup.Get(id); ok {
		return r.Name
	}
	return "Unknown recipe " + id
}

func formatRecipesMarkdown(recipes []recipe.Recipe) string {
	var sb strings.Builder
	sb.WriteString("📖 *Recipes*\n\n")
	for _, r := range recipes {
		sb.WriteString(fmt.Sprintf("`%s` %s (serves %d)\n", r.ID, r.Name, r.Servings))
	}
	return sb.String()
}

func formatDayMarkdown(date string, meals []planner.PlannedMeal, lookup recipe.Lookup) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🗓 *%s*\n\n", date))
	if len(meals) == 0 {
		sb.WriteString("_Nothing planned_\n")
	}
	for _, m := range meals {
		sb.WriteString(fmt.Sprintf("• %s: %s `%s`\n", m.MealType, recipeName(lookup, m.RecipeID), m.ID))
	}
	return sb.String()
}

func formatWeekMarkdown(start time.Time, meals []planner.PlannedMeal, lookup recipe.Lookup) string {
	byDate := make(map[string][]planner.PlannedMeal)
	for _, m := range meals {
		byDate[m.Date] = append(byDate[m.Date], m)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 *Week of %s*\n\n", calendar.FormatDate(start)))
	for _, d := range calendar.WeekDays(start) {
		date := calendar.FormatDate(d)
		sb.WriteString(fmt.Sprintf("*%s %s*\n", d.Weekday(), date))
		dayMeals := byDate[date]
		if len(dayMeals) == 0 {
			sb.WriteString("_Nothing planned_\n")
		}
		for _, m := range dayMeals {
			sb.WriteString(fmt.Sprintf("• %s: %s\n", m.MealType, recipeName(lookup, m.RecipeID)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatGroceryListMarkdown(list shopping.GroceryList) string {
	var sb strings.Builder
	sb.WriteString("🛒 *Shopping List*\n\n")
	if len(list.Items) == 0 {
		sb.WriteString("_Nothing to buy_\n")
	}
	for _, item := range list.Items {
		sb.WriteString(fmt.Sprintf("• %s %s %s _(%s)_\n",
			item.Name, recipe.FormatQuantity(item.Quantity), item.Unit, strings.Join(item.FromRecipes, ", ")))
	}
	if n := len(list.SkippedMealIDs); n > 0 {
		sb.WriteString(fmt.Sprintf("\n⚠️ %d planned meal(s) use unknown recipes and were skipped.\n", n))
	}
	return sb.String()
}
