package planner

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MealType is the slot of the day a recipe is planned into.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// MealTypes lists every meal type in the order a day is displayed.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

// ErrInvalidMealType is returned for a meal type outside MealTypes.
var ErrInvalidMealType = errors.New("invalid meal type")

// ParseMealType accepts a meal type name in any case.
func ParseMealType(s string) (MealType, error) {
	mt := MealType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range MealTypes {
		if mt == known {
			return mt, nil
		}
	}
	return "", fmt.Errorf("%w %q: want one of breakfast, lunch, dinner, snack", ErrInvalidMealType, s)
}

// PlannedMeal places a recipe into a meal slot. Entries are never edited;
// replacing a meal means removing it and adding a new one.
type PlannedMeal struct {
	ID        string    `json:"id"`
	RecipeID  string    `json:"recipe_id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	MealType  MealType  `json:"meal_type"`
	CreatedAt time.Time `json:"created_at"`
}

// InputError reports caller supplied data that was rejected at the boundary.
type InputError struct {
	Field string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}
