package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitlog-app/backend/internal/telemetry/tracing"
	"github.com/fitlog-app/backend/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrWorkoutExists   = errors.New("workout already exists")
)

// WorkoutParams filters workouts by muscle group, source and start time.
// From is inclusive, To is exclusive.
type WorkoutParams struct {
	MuscleGroup string
	Source      string
	From        *time.Time
	To          *time.Time
}

type ListParams struct {
	WorkoutParams
	Page int
	Size int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Add stores the workout with its nested exercises and sets in a single
// transaction. The positional order of exercises and sets is preserved.
func (r *Repo) Add(ctx context.Context, workout Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = tx.QueryRow(ctx, `
		INSERT INTO workout (name, notes, started_at, source)
		VALUES ($1, $2, $3, $4)
		RETURNING id;`,
		workout.Name, workout.Notes, workout.StartedAt, workout.Source,
	).Scan(&workout.ID)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrWorkoutExists
		}
		return nil, err
	}

	if err = r.insertExercises(ctx, tx, workout.ID, workout.Exercises); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("workout.id", workout.ID))
	return &workout, nil
}

func (r *Repo) insertExercises(ctx context.Context, tx pgx.Tx, workoutID int, exercises []Exercise) error {
	for exPos, ex := range exercises {
		var exerciseID int
		err := tx.QueryRow(ctx, `
			INSERT INTO workout_exercise (workout_id, position, name, muscle_group)
			VALUES ($1, $2, $3, $4)
			RETURNING id;`,
			workoutID, exPos, ex.Name, ex.MuscleGroup,
		).Scan(&exerciseID)
		if err != nil {
			return fmt.Errorf("insert exercise [%s]: %w", ex.Name, err)
		}

		for setPos, set := range ex.Sets {
			if _, err := tx.Exec(ctx, `
				INSERT INTO exercise_set (exercise_id, position, kilos, reps)
				VALUES ($1, $2, $3, $4);`,
				exerciseID, setPos, set.Kilos, set.Reps,
			); err != nil {
				return fmt.Errorf("insert set %d of exercise [%s]: %w", setPos, ex.Name, err)
			}
		}
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	workout := &Workout{}
	err = r.db.QueryRow(ctx, `
		SELECT id, name, notes, started_at, source
		FROM workout
		WHERE id = $1;`, id,
	).Scan(&workout.ID, &workout.Name, &workout.Notes, &workout.StartedAt, &workout.Source)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}

	workout.Exercises, err = r.workoutExercises(ctx, workout.ID)
	if err != nil {
		return nil, fmt.Errorf("get workout exercises: %w", err)
	}

	return workout, nil
}

// ExistsByStartedAt reports whether a workout with the exact started-at
// timestamp is already stored. Used by the CSV import for deduplication.
func (r *Repo) ExistsByStartedAt(ctx context.Context, startedAt time.Time) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.existsByStartedAt")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var exists bool
	err = r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM workout WHERE started_at = $1);`,
		startedAt,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// ListAll returns all workouts matching the given params, newest first.
func (r *Repo) ListAll(ctx context.Context, params WorkoutParams) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("muscle_group", params.MuscleGroup))
	span.SetAttributes(attribute.String("source", params.Source))
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT w.id, w.name, w.notes, w.started_at, w.source
		FROM workout w
		LEFT JOIN workout_exercise e ON e.workout_id = w.id
			WHERE ($1::text = '' OR e.muscle_group = $1)
			AND ($2::text = '' OR w.source = $2)
			AND ($3::timestamp IS NULL OR w.started_at >= $3)
			AND ($4::timestamp IS NULL OR w.started_at < $4)
		ORDER BY w.started_at DESC;`,
		params.MuscleGroup, params.Source,
		params.From, params.To,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return r.rows2workouts(ctx, rows)
}

// List is like ListAll, but returns the specific PAGE of workouts,
// i.e. is used for pagination.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Workout, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("page", params.Page))
	span.SetAttributes(attribute.Int("size", params.Size))

	if params.Page < 1 {
		return nil, -1, errors.New("page must be greater than 0")
	}
	if params.Size < 1 {
		return nil, -1, errors.New("size must be greater than 0")
	}

	limit := params.Size
	offset := (params.Page - 1) * params.Size
	countAll, err := r.Count(ctx, params.WorkoutParams)
	if err != nil {
		return nil, -1, err
	}

	if countAll <= limit {
		limit = countAll
		offset = 0
	}
	if countAll-offset < limit {
		offset = countAll - limit
	}

	span.SetAttributes(attribute.Int("count_all", countAll))

	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT w.id, w.name, w.notes, w.started_at, w.source
		FROM workout w
		LEFT JOIN workout_exercise e ON e.workout_id = w.id
			WHERE ($1::text = '' OR e.muscle_group = $1)
			AND ($2::text = '' OR w.source = $2)
			AND ($3::timestamp IS NULL OR w.started_at >= $3)
			AND ($4::timestamp IS NULL OR w.started_at < $4)
		ORDER BY w.started_at DESC
		LIMIT $5
		OFFSET $6;`,
		params.MuscleGroup, params.Source,
		params.From, params.To,
		limit, offset,
	)
	if err != nil {
		return nil, -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, -1, err
	}

	workouts, err := r.rows2workouts(ctx, rows)
	if err != nil {
		return nil, -1, err
	}
	return workouts, countAll, nil
}

func (r *Repo) Count(ctx context.Context, params WorkoutParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	err = r.db.QueryRow(ctx, `
		SELECT COUNT(DISTINCT w.id)
		FROM workout w
		LEFT JOIN workout_exercise e ON e.workout_id = w.id
			WHERE ($1::text = '' OR e.muscle_group = $1)
			AND ($2::text = '' OR w.source = $2)
			AND ($3::timestamp IS NULL OR w.started_at >= $3)
			AND ($4::timestamp IS NULL OR w.started_at < $4);`,
		params.MuscleGroup, params.Source,
		params.From, params.To,
	).Scan(&count)
	if err != nil {
		return -1, err
	}
	return count, nil
}

// Update replaces the workout record and its nested exercises/sets.
func (r *Repo) Update(ctx context.Context, workout *Workout) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", workout.ID))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	tag, err := tx.Exec(ctx, `
		UPDATE workout SET name = $1, notes = $2, started_at = $3, source = $4
		WHERE id = $5;`,
		workout.Name, workout.Notes, workout.StartedAt, workout.Source, workout.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}

	// exercises and sets are replaced wholesale, set rows go via cascade
	if _, err = tx.Exec(ctx, `
		DELETE FROM workout_exercise WHERE workout_id = $1;`, workout.ID,
	); err != nil {
		return fmt.Errorf("delete old exercises: %w", err)
	}

	return r.insertExercises(ctx, tx, workout.ID, workout.Exercises)
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `
		DELETE FROM workout WHERE id = $1;`, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

func (r *Repo) workoutExercises(ctx context.Context, workoutID int) ([]Exercise, error) {
	rows, err := r.db.Query(ctx, `
		SELECT e.position, e.name, e.muscle_group, s.kilos, s.reps
		FROM workout_exercise e
		LEFT JOIN exercise_set s ON s.exercise_id = e.id
		WHERE e.workout_id = $1
		ORDER BY e.position, s.position;`,
		workoutID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	exercises := make([]Exercise, 0)
	lastPosition := -1
	for rows.Next() {
		var position int
		var name, muscleGroup string
		var kilos *float64
		var reps *int
		if err := rows.Scan(&position, &name, &muscleGroup, &kilos, &reps); err != nil {
			return nil, err
		}

		if position != lastPosition {
			exercises = append(exercises, Exercise{
				Name:        name,
				MuscleGroup: muscleGroup,
				Sets:        make([]Set, 0),
			})
			lastPosition = position
		}

		// kilos/reps are NULL for exercises without sets
		if kilos != nil && reps != nil {
			ex := &exercises[len(exercises)-1]
			ex.Sets = append(ex.Sets, Set{Kilos: *kilos, Reps: *reps})
		}
	}

	return exercises, nil
}

func (r *Repo) rows2workouts(ctx context.Context, rows pgx.Rows) ([]Workout, error) {
	workouts := make([]Workout, 0)
	for rows.Next() {
		var w Workout
		if err := rows.Scan(&w.ID, &w.Name, &w.Notes, &w.StartedAt, &w.Source); err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}

	for i := range workouts {
		exercises, err := r.workoutExercises(ctx, workouts[i].ID)
		if err != nil {
			return nil, fmt.Errorf("get exercises for workout %d: %w", workouts[i].ID, err)
		}
		workouts[i].Exercises = exercises
	}

	return workouts, nil
}
