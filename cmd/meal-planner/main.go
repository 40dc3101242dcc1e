package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"household-organizer/internal/app"
	"household-organizer/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	application, err := app.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer application.Close()

	ctx := context.Background()
	if err := run(ctx, application, os.Args[1], os.Args[2:]); err != nil {
		application.Close()
		log.Fatalf("%s failed: %v", os.Args[1], err)
	}
}

func run(ctx context.Context, a *app.App, command string, args []string) error {
	out := os.Stdout

	switch command {
	case "recipes":
		cmd := flag.NewFlagSet("recipes", flag.ExitOnError)
		verbose := cmd.Bool("v", false, "Show ingredients")
		cmd.Parse(args)
		a.ListRecipes(out, *verbose)
		return nil
	case "add":
		cmd := flag.NewFlagSet("add", flag.ExitOnError)
		recipeID := cmd.String("recipe", "", "Recipe id from the catalog")
		date := cmd.String("date", time.Now().Format("2006-01-02"), "Date (YYYY-MM-DD)")
		mealType := cmd.String("meal", "dinner", "breakfast, lunch, dinner or snack")
		cmd.Parse(args)
		return a.AddMeal(ctx, out, *recipeID, *date, *mealType)
	case "remove":
		cmd := flag.NewFlagSet("remove", flag.ExitOnError)
		id := cmd.String("id", "", "Planned meal id")
		cmd.Parse(args)
		if *id == "" {
			cmd.Usage()
			return fmt.Errorf("-id is required")
		}
		return a.RemoveMeal(ctx, out, *id)
	case "day":
		cmd := flag.NewFlagSet("day", flag.ExitOnError)
		date := cmd.String("date", time.Now().Format("2006-01-02"), "Date (YYYY-MM-DD)")
		cmd.Parse(args)
		return a.Day(ctx, out, *date)
	case "week", "clear-week":
		cmd := flag.NewFlagSet(command, flag.ExitOnError)
		start := cmd.String("start", "", "Any date in the week (default: this week)")
		offset := cmd.Int("offset", 0, "Weeks to move forward (negative for back)")
		cmd.Parse(args)
		if command == "week" {
			return a.Week(ctx, out, *start, *offset)
		}
		return a.ClearWeek(ctx, out, *start, *offset)
	case "groceries":
		cmd := flag.NewFlagSet("groceries", flag.ExitOnError)
		save := cmd.Bool("save", false, "Save a snapshot of the list to EXPORT_PATH")
		cmd.Parse(args)
		return a.Groceries(ctx, out, *save)
	case "month":
		cmd := flag.NewFlagSet("month", flag.ExitOnError)
		now := time.Now()
		year := cmd.Int("year", now.Year(), "Year")
		month := cmd.Int("month", int(now.Month()), "Month (1-12)")
		cmd.Parse(args)
		return a.Month(ctx, out, *year, time.Month(*month))
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage() {
	fmt.Println("Usage: meal-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  recipes      List the recipe catalog")
	fmt.Println("  add          Plan a recipe for a day and meal")
	fmt.Println("  remove       Remove a planned meal")
	fmt.Println("  day          Show the meals planned for a day")
	fmt.Println("  week         Show the meals planned for a week")
	fmt.Println("  clear-week   Remove every meal planned in a week")
	fmt.Println("  groceries    Build the grocery list for the whole plan")
	fmt.Println("  month        Show a month calendar with planned meal counts")
	fmt.Println("\nSet DATABASE_PATH to keep the plan between runs.")
}
