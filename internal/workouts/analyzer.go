package workouts

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fitlog-app/backend/internal/telemetry/tracing"
)

type analyzerRepo interface {
	ListAll(ctx context.Context, params WorkoutParams) ([]Workout, error)
}

type Analyzer struct {
	repo analyzerRepo
}

func NewAnalyzer(repo analyzerRepo) *Analyzer {
	return &Analyzer{repo: repo}
}

type ExerciseDayStats struct {
	Day       time.Time `json:"day"`
	AvgKilos  float64   `json:"avgKilos"`
	AvgReps   float64   `json:"avgReps"`
	SetsCount int       `json:"setsCount"`
}

type ExerciseHistory struct {
	ExerciseName string             `json:"exerciseName"`
	Stats        []ExerciseDayStats `json:"stats"`
}

type ProgressDayStats struct {
	Day           time.Time `json:"day"`
	MaxKilos      float64   `json:"maxKilos"`
	TotalVolume   float64   `json:"totalVolume"`
	ExerciseCount int       `json:"exerciseCount"`
}

type Progress struct {
	Stats []ProgressDayStats `json:"stats"`
}

// ExerciseHistory calculates per-day average weight, average reps and set
// count for a single exercise across all workouts matching the given params.
func (a *Analyzer) ExerciseHistory(
	ctx context.Context,
	exerciseName string,
	params WorkoutParams,
) (_ *ExerciseHistory, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workouts.analyzer.exerciseHistory")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	workouts, err := a.repo.ListAll(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	type dayAgg struct {
		kilosSum float64
		repsSum  int
		sets     int
	}
	perDay := make(map[time.Time]*dayAgg)
	for _, workout := range workouts {
		day := dayOf(workout.StartedAt)
		for _, exercise := range workout.Exercises {
			if !strings.EqualFold(exercise.Name, exerciseName) {
				continue
			}
			agg, ok := perDay[day]
			if !ok {
				agg = &dayAgg{}
				perDay[day] = agg
			}
			for _, set := range exercise.Sets {
				agg.kilosSum += set.Kilos
				agg.repsSum += set.Reps
				agg.sets++
			}
		}
	}

	stats := make([]ExerciseDayStats, 0, len(perDay))
	for day, agg := range perDay {
		if agg.sets == 0 {
			continue
		}
		stats = append(stats, ExerciseDayStats{
			Day:       day,
			AvgKilos:  agg.kilosSum / float64(agg.sets),
			AvgReps:   float64(agg.repsSum) / float64(agg.sets),
			SetsCount: agg.sets,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Day.Before(stats[j].Day)
	})

	return &ExerciseHistory{
		ExerciseName: exerciseName,
		Stats:        stats,
	}, nil
}

// Progress calculates per-day max lifted weight, total volume and number of
// distinct exercises across all workouts matching the given params.
func (a *Analyzer) Progress(ctx context.Context, params WorkoutParams) (_ *Progress, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workouts.analyzer.progress")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	workouts, err := a.repo.ListAll(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	type dayAgg struct {
		maxKilos  float64
		volume    float64
		exercises map[string]struct{}
	}
	perDay := make(map[time.Time]*dayAgg)
	for _, workout := range workouts {
		day := dayOf(workout.StartedAt)
		agg, ok := perDay[day]
		if !ok {
			agg = &dayAgg{exercises: make(map[string]struct{})}
			perDay[day] = agg
		}
		for _, exercise := range workout.Exercises {
			agg.exercises[strings.ToLower(exercise.Name)] = struct{}{}
			for _, set := range exercise.Sets {
				if set.Kilos > agg.maxKilos {
					agg.maxKilos = set.Kilos
				}
				agg.volume += set.Kilos * float64(set.Reps)
			}
		}
	}

	stats := make([]ProgressDayStats, 0, len(perDay))
	for day, agg := range perDay {
		stats = append(stats, ProgressDayStats{
			Day:           day,
			MaxKilos:      agg.maxKilos,
			TotalVolume:   agg.volume,
			ExerciseCount: len(agg.exercises),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Day.Before(stats[j].Day)
	})

	return &Progress{Stats: stats}, nil
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
