package diary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitlog-app/backend/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrEntryNotFound = errors.New("diary entry not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// AddEntry stores a new entry and bumps the day totals in the same
// transaction.
func (r *Repo) AddEntry(ctx context.Context, entry Entry) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.addEntry")
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

	entry.Day = DayOf(entry.Day)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO diary_entry (day, meal_type, food_name, serving_desc, calories, protein, carbs, fat, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`,
		entry.Day, entry.MealType, entry.FoodName, entry.ServingDesc,
		entry.Calories, entry.Protein, entry.Carbs, entry.Fat, entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return nil, err
	}

	if err = applyTotalsDelta(ctx, tx, entry.Day, entry.Calories, entry.Protein, entry.Carbs, entry.Fat); err != nil {
		return nil, err
	}

	return &entry, nil
}

// UpdateEntry replaces an entry and adjusts the day totals by the
// difference between the old and the new values. Moving an entry to
// another day moves its contribution too.
func (r *Repo) UpdateEntry(ctx context.Context, entry *Entry) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.updateEntry")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

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

	var old Entry
	err = tx.QueryRow(ctx, `
		SELECT day, calories, protein, carbs, fat
		FROM diary_entry WHERE id = $1
		FOR UPDATE
	`, entry.ID).Scan(&old.Day, &old.Calories, &old.Protein, &old.Carbs, &old.Fat)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrEntryNotFound
		}
		return err
	}

	entry.Day = DayOf(entry.Day)
	_, err = tx.Exec(ctx, `
		UPDATE diary_entry
		SET day = $1, meal_type = $2, food_name = $3, serving_desc = $4,
			calories = $5, protein = $6, carbs = $7, fat = $8
		WHERE id = $9
	`,
		entry.Day, entry.MealType, entry.FoodName, entry.ServingDesc,
		entry.Calories, entry.Protein, entry.Carbs, entry.Fat, entry.ID,
	)
	if err != nil {
		return err
	}

	if err = applyTotalsDelta(ctx, tx, old.Day, -old.Calories, -old.Protein, -old.Carbs, -old.Fat); err != nil {
		return err
	}
	return applyTotalsDelta(ctx, tx, entry.Day, entry.Calories, entry.Protein, entry.Carbs, entry.Fat)
}

// DeleteEntry removes an entry and subtracts it from the day totals.
func (r *Repo) DeleteEntry(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.deleteEntry")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

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

	var old Entry
	err = tx.QueryRow(ctx, `
		SELECT day, calories, protein, carbs, fat
		FROM diary_entry WHERE id = $1
		FOR UPDATE
	`, id).Scan(&old.Day, &old.Calories, &old.Protein, &old.Carbs, &old.Fat)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrEntryNotFound
		}
		return err
	}

	if _, err = tx.Exec(ctx, `DELETE FROM diary_entry WHERE id = $1`, id); err != nil {
		return err
	}

	return applyTotalsDelta(ctx, tx, old.Day, -old.Calories, -old.Protein, -old.Carbs, -old.Fat)
}

// GetDay returns the entries and totals of one diary day. A day without
// entries yields zero totals, not an error.
func (r *Repo) GetDay(ctx context.Context, day time.Time) (_ *Day, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.getDay")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	day = DayOf(day)

	rows, err := r.db.Query(ctx, `
		SELECT id, day, meal_type, food_name, serving_desc, calories, protein, carbs, fat, created_at
		FROM diary_entry
		WHERE day = $1
		ORDER BY created_at ASC, id ASC
	`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID, &e.Day, &e.MealType, &e.FoodName, &e.ServingDesc,
			&e.Calories, &e.Protein, &e.Carbs, &e.Fat, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totals := DayTotals{Day: day}
	err = r.db.QueryRow(ctx, `
		SELECT calories, protein, carbs, fat
		FROM diary_day
		WHERE day = $1
	`, day).Scan(&totals.Calories, &totals.Protein, &totals.Carbs, &totals.Fat)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	return &Day{
		Totals:  totals,
		Entries: entries,
	}, nil
}

// ListTotals returns day totals for the inclusive [from, to] range, oldest
// first. Days without entries are absent from the result.
func (r *Repo) ListTotals(ctx context.Context, from, to time.Time) (_ []DayTotals, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.listTotals")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT day, calories, protein, carbs, fat
		FROM diary_day
		WHERE day >= $1 AND day <= $2
		ORDER BY day ASC
	`, DayOf(from), DayOf(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []DayTotals
	for rows.Next() {
		var t DayTotals
		if err := rows.Scan(&t.Day, &t.Calories, &t.Protein, &t.Carbs, &t.Fat); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// Recompute rebuilds the totals of one day from its entries.
func (r *Repo) Recompute(ctx context.Context, day time.Time) (_ *DayTotals, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.recompute")
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

	day = DayOf(day)
	totals := DayTotals{Day: day}
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(calories), 0), COALESCE(SUM(protein), 0),
			COALESCE(SUM(carbs), 0), COALESCE(SUM(fat), 0)
		FROM diary_entry
		WHERE day = $1
	`, day).Scan(&totals.Calories, &totals.Protein, &totals.Carbs, &totals.Fat)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO diary_day (day, calories, protein, carbs, fat)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (day) DO UPDATE SET
			calories = EXCLUDED.calories,
			protein = EXCLUDED.protein,
			carbs = EXCLUDED.carbs,
			fat = EXCLUDED.fat
	`, day, totals.Calories, totals.Protein, totals.Carbs, totals.Fat)
	if err != nil {
		return nil, err
	}

	return &totals, nil
}

func applyTotalsDelta(
	ctx context.Context, tx pgx.Tx, day time.Time,
	calories, protein, carbs, fat float64,
) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO diary_day (day, calories, protein, carbs, fat)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (day) DO UPDATE SET
			calories = diary_day.calories + EXCLUDED.calories,
			protein = diary_day.protein + EXCLUDED.protein,
			carbs = diary_day.carbs + EXCLUDED.carbs,
			fat = diary_day.fat + EXCLUDED.fat
	`, day, calories, protein, carbs, fat)
	return err
}
