package diary_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fitlog-app/backend/internal/diary"
)

func TestEntry_Validate(t *testing.T) {
	validEntry := diary.Entry{
		FoodName: "Banana",
		MealType: diary.MealSnack,
		Calories: 105,
		Carbs:    27,
	}
	assert.NoError(t, validEntry.Validate())

	noName := validEntry
	noName.FoodName = ""
	assert.ErrorContains(t, noName.Validate(), "food name empty")

	badMeal := validEntry
	badMeal.MealType = "second-breakfast"
	assert.ErrorContains(t, badMeal.Validate(), "invalid meal type")

	negative := validEntry
	negative.Fat = -1
	assert.ErrorContains(t, negative.Validate(), "negative nutrition values")
}

func TestMealType_Valid(t *testing.T) {
	for _, mt := range []diary.MealType{
		diary.MealBreakfast, diary.MealLunch, diary.MealDinner, diary.MealSnack,
	} {
		assert.True(t, mt.Valid(), mt)
	}
	assert.False(t, diary.MealType("").Valid())
	assert.False(t, diary.MealType("supper").Valid())
}

func TestDayOf(t *testing.T) {
	ts := time.Date(2026, 3, 2, 18, 45, 12, 999, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), diary.DayOf(ts))
}
