package test

import (
	"context"
	"time"

	"github.com/fitlog-app/backend/internal/workouts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) deleteAllWorkouts(ctx context.Context) {
	_, err := s.dbPool.Exec(ctx, "DELETE FROM workout")
	require.NoError(s.T(), err)
}

func (s *IntegrationTestSuite) TestWorkouts_AddGetRoundTrip() {
	ctx := context.Background()
	s.deleteAllWorkouts(ctx)
	repo := workouts.NewRepo(s.dbPool)

	workout := workouts.Workout{
		Name:      "Push Day",
		Notes:     "solid session",
		StartedAt: time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC),
		Source:    "fitlog-app",
		Exercises: []workouts.Exercise{
			{
				Name:        "Bench Press",
				MuscleGroup: "chest",
				Sets: []workouts.Set{
					{Kilos: 80, Reps: 8},
					{Kilos: 85, Reps: 6},
					{Kilos: 85, Reps: 5},
				},
			},
			{
				Name:        "Overhead Press",
				MuscleGroup: "shoulders",
				Sets: []workouts.Set{
					{Kilos: 40, Reps: 10},
				},
			},
		},
	}

	added, err := repo.Add(ctx, workout)
	require.NoError(s.T(), err)
	require.NotZero(s.T(), added.ID)

	got, err := repo.Get(ctx, added.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Push Day", got.Name)
	assert.True(s.T(), got.StartedAt.Equal(workout.StartedAt))

	// exercises and sets come back in insert order
	require.Len(s.T(), got.Exercises, 2)
	assert.Equal(s.T(), "Bench Press", got.Exercises[0].Name)
	require.Len(s.T(), got.Exercises[0].Sets, 3)
	assert.Equal(s.T(), workouts.Set{Kilos: 80, Reps: 8}, got.Exercises[0].Sets[0])
	assert.Equal(s.T(), workouts.Set{Kilos: 85, Reps: 6}, got.Exercises[0].Sets[1])
	assert.Equal(s.T(), workouts.Set{Kilos: 85, Reps: 5}, got.Exercises[0].Sets[2])
	assert.Equal(s.T(), "Overhead Press", got.Exercises[1].Name)
	require.Len(s.T(), got.Exercises[1].Sets, 1)
}

func (s *IntegrationTestSuite) TestWorkouts_DuplicateStartedAt() {
	ctx := context.Background()
	s.deleteAllWorkouts(ctx)
	repo := workouts.NewRepo(s.dbPool)

	startedAt := time.Date(2026, 3, 5, 7, 30, 0, 0, time.UTC)
	_, err := repo.Add(ctx, workouts.Workout{Name: "Morning", StartedAt: startedAt})
	require.NoError(s.T(), err)

	exists, err := repo.ExistsByStartedAt(ctx, startedAt)
	require.NoError(s.T(), err)
	assert.True(s.T(), exists)

	_, err = repo.Add(ctx, workouts.Workout{Name: "Morning Again", StartedAt: startedAt})
	require.ErrorIs(s.T(), err, workouts.ErrWorkoutExists)
}

func (s *IntegrationTestSuite) TestWorkouts_CountDayBoundary() {
	ctx := context.Background()
	s.deleteAllWorkouts(ctx)
	repo := workouts.NewRepo(s.dbPool)

	day2 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	day3 := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	day4 := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	_, err := repo.Add(ctx, workouts.Workout{
		Name:      "Noon Session",
		StartedAt: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(s.T(), err)
	// starts exactly at midnight, belongs to March 3rd only
	_, err = repo.Add(ctx, workouts.Workout{
		Name:      "Midnight Session",
		StartedAt: day3,
	})
	require.NoError(s.T(), err)

	count, err := repo.Count(ctx, workouts.WorkoutParams{From: &day2, To: &day3})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, count)

	count, err = repo.Count(ctx, workouts.WorkoutParams{From: &day3, To: &day4})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, count)

	count, err = repo.Count(ctx, workouts.WorkoutParams{From: &day2, To: &day4})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, count)
}

func (s *IntegrationTestSuite) TestWorkouts_UpdateReplacesExercises() {
	ctx := context.Background()
	s.deleteAllWorkouts(ctx)
	repo := workouts.NewRepo(s.dbPool)

	added, err := repo.Add(ctx, workouts.Workout{
		Name:      "Leg Day",
		StartedAt: time.Date(2026, 3, 6, 18, 0, 0, 0, time.UTC),
		Exercises: []workouts.Exercise{
			{Name: "Squat", Sets: []workouts.Set{{Kilos: 100, Reps: 5}}},
		},
	})
	require.NoError(s.T(), err)

	added.Exercises = []workouts.Exercise{
		{Name: "Front Squat", Sets: []workouts.Set{{Kilos: 80, Reps: 6}, {Kilos: 80, Reps: 6}}},
	}
	require.NoError(s.T(), repo.Update(ctx, added))

	got, err := repo.Get(ctx, added.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), got.Exercises, 1)
	assert.Equal(s.T(), "Front Squat", got.Exercises[0].Name)
	require.Len(s.T(), got.Exercises[0].Sets, 2)

	// old sets are gone via cascade
	var setCount int
	err = s.dbPool.QueryRow(ctx, "SELECT COUNT(*) FROM exercise_set").Scan(&setCount)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, setCount)
}

func (s *IntegrationTestSuite) TestWorkouts_DeleteCascades() {
	ctx := context.Background()
	s.deleteAllWorkouts(ctx)
	repo := workouts.NewRepo(s.dbPool)

	added, err := repo.Add(ctx, workouts.Workout{
		Name:      "Pull Day",
		StartedAt: time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC),
		Exercises: []workouts.Exercise{
			{Name: "Deadlift", Sets: []workouts.Set{{Kilos: 140, Reps: 5}}},
		},
	})
	require.NoError(s.T(), err)

	require.NoError(s.T(), repo.Delete(ctx, added.ID))

	_, err = repo.Get(ctx, added.ID)
	require.ErrorIs(s.T(), err, workouts.ErrWorkoutNotFound)

	var exerciseCount int
	err = s.dbPool.QueryRow(ctx, "SELECT COUNT(*) FROM workout_exercise").Scan(&exerciseCount)
	require.NoError(s.T(), err)
	assert.Zero(s.T(), exerciseCount)
}
