package workouts

import "time"

// Workout is a single training session, with its exercises
// in the order they were performed.
type Workout struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Notes     string     `json:"notes,omitempty"`
	StartedAt time.Time  `json:"startedAt"`
	Source    string     `json:"source,omitempty"`
	Exercises []Exercise `json:"exercises"`
}

type Exercise struct {
	Name        string `json:"name"`
	MuscleGroup string `json:"muscleGroup,omitempty"`
	Sets        []Set  `json:"sets"`
}

type Set struct {
	Kilos float64 `json:"kilos"`
	Reps  int     `json:"reps"`
}

// Volume is the total weight moved in the workout: Σ kilos × reps
func (w Workout) Volume() float64 {
	var volume float64
	for _, ex := range w.Exercises {
		for _, set := range ex.Sets {
			volume += set.Kilos * float64(set.Reps)
		}
	}
	return volume
}

// SetsCount returns the number of sets across all exercises
func (w Workout) SetsCount() int {
	var count int
	for _, ex := range w.Exercises {
		count += len(ex.Sets)
	}
	return count
}
