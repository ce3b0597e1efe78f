package test

import (
	"context"
	"time"

	"github.com/fitlog-app/backend/internal/diary"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) deleteAllDiaryData(ctx context.Context) {
	_, err := s.dbPool.Exec(ctx, "DELETE FROM diary_entry")
	require.NoError(s.T(), err)
	_, err = s.dbPool.Exec(ctx, "DELETE FROM diary_day")
	require.NoError(s.T(), err)
}

func (s *IntegrationTestSuite) TestDiary_TotalsBookkeeping() {
	ctx := context.Background()
	s.deleteAllDiaryData(ctx)
	repo := diary.NewRepo(s.dbPool)

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	oats, err := repo.AddEntry(ctx, diary.Entry{
		Day:      day,
		MealType: diary.MealBreakfast,
		FoodName: "Oatmeal",
		Calories: 350, Protein: 12, Carbs: 60, Fat: 6,
	})
	require.NoError(s.T(), err)

	_, err = repo.AddEntry(ctx, diary.Entry{
		Day:      day,
		MealType: diary.MealLunch,
		FoodName: "Chicken Salad",
		Calories: 450, Protein: 40, Carbs: 15, Fat: 22,
	})
	require.NoError(s.T(), err)

	got, err := repo.GetDay(ctx, day)
	require.NoError(s.T(), err)
	require.Len(s.T(), got.Entries, 2)
	assert.Equal(s.T(), 800.0, got.Totals.Calories)
	assert.Equal(s.T(), 52.0, got.Totals.Protein)
	assert.Equal(s.T(), 75.0, got.Totals.Carbs)
	assert.Equal(s.T(), 28.0, got.Totals.Fat)

	// shrinking an entry shrinks the totals by the same delta
	oats.Calories = 300
	oats.Carbs = 50
	require.NoError(s.T(), repo.UpdateEntry(ctx, oats))

	got, err = repo.GetDay(ctx, day)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 750.0, got.Totals.Calories)
	assert.Equal(s.T(), 65.0, got.Totals.Carbs)

	require.NoError(s.T(), repo.DeleteEntry(ctx, oats.ID))

	got, err = repo.GetDay(ctx, day)
	require.NoError(s.T(), err)
	require.Len(s.T(), got.Entries, 1)
	assert.Equal(s.T(), 450.0, got.Totals.Calories)
	assert.Equal(s.T(), 40.0, got.Totals.Protein)
}

func (s *IntegrationTestSuite) TestDiary_MoveEntryBetweenDays() {
	ctx := context.Background()
	s.deleteAllDiaryData(ctx)
	repo := diary.NewRepo(s.dbPool)

	day1 := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	entry, err := repo.AddEntry(ctx, diary.Entry{
		Day:      day1,
		MealType: diary.MealDinner,
		FoodName: "Pasta",
		Calories: 600, Protein: 20, Carbs: 90, Fat: 15,
	})
	require.NoError(s.T(), err)

	entry.Day = day2
	require.NoError(s.T(), repo.UpdateEntry(ctx, entry))

	got1, err := repo.GetDay(ctx, day1)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), got1.Entries)
	assert.Zero(s.T(), got1.Totals.Calories)

	got2, err := repo.GetDay(ctx, day2)
	require.NoError(s.T(), err)
	require.Len(s.T(), got2.Entries, 1)
	assert.Equal(s.T(), 600.0, got2.Totals.Calories)
}

func (s *IntegrationTestSuite) TestDiary_ListTotalsRange() {
	ctx := context.Background()
	s.deleteAllDiaryData(ctx)
	repo := diary.NewRepo(s.dbPool)

	for i := 0; i < 4; i++ {
		day := time.Date(2026, 3, 15+i, 0, 0, 0, 0, time.UTC)
		_, err := repo.AddEntry(ctx, diary.Entry{
			Day:      day,
			MealType: diary.MealSnack,
			FoodName: "Protein Bar",
			Calories: float64(200 + i*10), Protein: 20,
		})
		require.NoError(s.T(), err)
	}

	from := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)
	totals, err := repo.ListTotals(ctx, from, to)
	require.NoError(s.T(), err)
	require.Len(s.T(), totals, 2)
	assert.Equal(s.T(), 210.0, totals[0].Calories)
	assert.Equal(s.T(), 220.0, totals[1].Calories)
}

func (s *IntegrationTestSuite) TestDiary_RecomputeRepairsDrift() {
	ctx := context.Background()
	s.deleteAllDiaryData(ctx)
	repo := diary.NewRepo(s.dbPool)

	day := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	_, err := repo.AddEntry(ctx, diary.Entry{
		Day:      day,
		MealType: diary.MealBreakfast,
		FoodName: "Eggs",
		Calories: 250, Protein: 18, Fat: 18,
	})
	require.NoError(s.T(), err)

	// drift the totals out-of-band, recompute must repair them
	_, err = s.dbPool.Exec(ctx,
		"UPDATE diary_day SET calories = 9999 WHERE day = $1", day)
	require.NoError(s.T(), err)

	totals, err := repo.Recompute(ctx, day)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 250.0, totals.Calories)
	assert.Equal(s.T(), 18.0, totals.Protein)

	got, err := repo.GetDay(ctx, day)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 250.0, got.Totals.Calories)
}
