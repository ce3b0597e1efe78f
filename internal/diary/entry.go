package diary

import (
	"fmt"
	"time"
)

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

func (mt MealType) Valid() bool {
	switch mt {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// Entry is one food logged in the diary for a given day and meal.
type Entry struct {
	ID          int       `json:"id"`
	Day         time.Time `json:"day"`
	MealType    MealType  `json:"mealType"`
	FoodName    string    `json:"foodName"`
	ServingDesc string    `json:"servingDesc"`
	Calories    float64   `json:"calories"`
	Protein     float64   `json:"protein"`
	Carbs       float64   `json:"carbs"`
	Fat         float64   `json:"fat"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (e Entry) Validate() error {
	if e.FoodName == "" {
		return fmt.Errorf("food name empty")
	}
	if !e.MealType.Valid() {
		return fmt.Errorf("invalid meal type: %q", e.MealType)
	}
	if e.Calories < 0 || e.Protein < 0 || e.Carbs < 0 || e.Fat < 0 {
		return fmt.Errorf("negative nutrition values")
	}
	return nil
}

// DayTotals holds the running nutrition totals for one diary day. Totals
// are bookkept alongside entry mutations and can drift only through
// out-of-band writes; Recompute repairs them from the entries.
type DayTotals struct {
	Day      time.Time `json:"day"`
	Calories float64   `json:"calories"`
	Protein  float64   `json:"protein"`
	Carbs    float64   `json:"carbs"`
	Fat      float64   `json:"fat"`
}

// Day holds everything shown on a single diary day screen.
type Day struct {
	Totals  DayTotals `json:"totals"`
	Entries []Entry   `json:"entries"`
}

// DayOf normalizes a timestamp to its diary day (midnight, same location).
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
