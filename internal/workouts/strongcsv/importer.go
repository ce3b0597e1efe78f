// Package strongcsv imports workout history from the CSV export of the
// Strong training app. Each CSV row is a single set; consecutive rows with
// the same date and workout name belong to the same workout.
package strongcsv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fitlog-app/backend/internal/telemetry/metrics"
	"github.com/fitlog-app/backend/internal/telemetry/tracing"
	"github.com/fitlog-app/backend/internal/workouts"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=strongcsv_mocks_test.go -package=strongcsv_test

const (
	dateLayout = "2006-01-02 15:04:05"

	// workouts created via import get this source tag
	SourceImport = "strong-import"
)

var expectedHeader = []string{
	"Date", "Workout Name", "Exercise Name", "Set Order",
	"Weight", "Reps", "Notes", "Workout Notes",
}

type workoutsRepo interface {
	Add(ctx context.Context, workout workouts.Workout) (*workouts.Workout, error)
	ExistsByStartedAt(ctx context.Context, startedAt time.Time) (bool, error)
}

// Report sums up a finished import run.
type Report struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

type row struct {
	date         time.Time
	workoutName  string
	exerciseName string
	setOrder     int
	weight       float64
	reps         int
	notes        string
	workoutNotes string

	// set when a numeric field of the row failed to parse; the row still
	// carries its date and workout name so the whole group can be failed
	err error
}

type Importer struct {
	repo    workoutsRepo
	metrics *metrics.Manager
}

func NewImporter(repo workoutsRepo, metricsManager *metrics.Manager) *Importer {
	return &Importer{
		repo:    repo,
		metrics: metricsManager,
	}
}

// Import reads a Strong CSV export and stores the workouts it contains.
// A workout whose start time already exists is counted as skipped, a
// workout with a malformed row or a failed store is counted as failed;
// neither aborts the rest of the run. An empty export yields an empty
// report.
func (i *Importer) Import(ctx context.Context, reader io.Reader) (_ *Report, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "strongcsv.import")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	startedAt := time.Now()
	defer func() {
		i.metrics.HistImportDuration.Observe(time.Since(startedAt).Seconds())
	}()

	rows, parseErrors, err := parse(reader)
	if err != nil {
		return nil, err
	}

	report := &Report{Errors: parseErrors}
	for _, group := range groupRows(rows) {
		workout := group.toWorkout()

		if rowErrors := group.rowErrors(); len(rowErrors) > 0 {
			report.Failed++
			for _, rowErr := range rowErrors {
				report.Errors = append(report.Errors, fmt.Sprintf(
					"workout [%s %s]: %s", workout.Name, workout.StartedAt.Format(dateLayout), rowErr,
				))
			}
			continue
		}

		exists, err := i.repo.ExistsByStartedAt(ctx, workout.StartedAt)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf(
				"workout [%s %s]: %s", workout.Name, workout.StartedAt.Format(dateLayout), err,
			))
			continue
		}
		if exists {
			log.Tracef("import: workout [%s %s] already present, skipping",
				workout.Name, workout.StartedAt.Format(dateLayout))
			report.Skipped++
			continue
		}

		if _, err := i.repo.Add(ctx, workout); err != nil {
			if errors.Is(err, workouts.ErrWorkoutExists) {
				report.Skipped++
				continue
			}
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf(
				"workout [%s %s]: %s", workout.Name, workout.StartedAt.Format(dateLayout), err,
			))
			continue
		}

		report.Imported++
		i.metrics.CounterWorkoutsImported.Inc()
	}

	log.Debugf("csv import done: %d imported, %d skipped, %d failed",
		report.Imported, report.Skipped, report.Failed)

	return report, nil
}

// parse reads and validates all CSV records. A row whose structure or
// date cannot be read is reported and dropped; a row whose numeric
// fields fail to parse is kept with its error attached so the importer
// can fail the whole workout group it belongs to. An empty input yields
// no rows and no error.
func parse(reader io.Reader) (_ []row, parseErrors []string, err error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = len(expectedHeader)

	header, err := csvReader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	for i, col := range expectedHeader {
		if strings.TrimSpace(header[i]) != col {
			return nil, nil, fmt.Errorf("unexpected header column %d: %q", i, header[i])
		}
	}

	var rows []row
	line := 1
	for {
		line++
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			parseErrors = append(parseErrors, fmt.Sprintf("line %d: %s", line, err))
			continue
		}

		parsed, err := parseRow(line, record)
		if err != nil {
			if errors.Is(err, errRestTimerRow) {
				continue
			}
			parseErrors = append(parseErrors, fmt.Sprintf("line %d: %s", line, err))
			continue
		}
		rows = append(rows, parsed)
	}

	return rows, parseErrors, nil
}

var errRestTimerRow = errors.New("rest timer row")

func parseRow(line int, record []string) (row, error) {
	setOrderStr := strings.TrimSpace(record[3])
	if strings.EqualFold(setOrderStr, "Rest Timer") {
		return row{}, errRestTimerRow
	}
	setOrder, err := strconv.Atoi(setOrderStr)
	if err != nil {
		return row{}, errRestTimerRow
	}

	date, err := time.Parse(dateLayout, strings.TrimSpace(record[0]))
	if err != nil {
		return row{}, fmt.Errorf("parse date %q: %w", record[0], err)
	}

	workoutName := strings.TrimSpace(record[1])
	if workoutName == "" {
		return row{}, errors.New("workout name empty")
	}
	exerciseName := strings.TrimSpace(record[2])
	if exerciseName == "" {
		return row{}, errors.New("exercise name empty")
	}

	parsed := row{
		date:         date,
		workoutName:  workoutName,
		exerciseName: exerciseName,
		setOrder:     setOrder,
		notes:        strings.TrimSpace(record[6]),
		workoutNotes: strings.TrimSpace(record[7]),
	}

	if w := strings.TrimSpace(record[4]); w != "" {
		parsed.weight, err = strconv.ParseFloat(w, 64)
		if err != nil {
			parsed.err = fmt.Errorf("line %d: parse weight %q: %w", line, record[4], err)
			return parsed, nil
		}
	}
	if r := strings.TrimSpace(record[5]); r != "" {
		parsed.reps, err = strconv.Atoi(r)
		if err != nil {
			parsed.err = fmt.Errorf("line %d: parse reps %q: %w", line, record[5], err)
			return parsed, nil
		}
	}

	return parsed, nil
}

type rowGroup struct {
	rows []row
}

// groupRows splits rows into workouts: consecutive rows sharing date and
// workout name form one workout.
func groupRows(rows []row) []rowGroup {
	var groups []rowGroup
	for _, r := range rows {
		if len(groups) > 0 {
			last := &groups[len(groups)-1]
			prev := last.rows[0]
			if prev.date.Equal(r.date) && prev.workoutName == r.workoutName {
				last.rows = append(last.rows, r)
				continue
			}
		}
		groups = append(groups, rowGroup{rows: []row{r}})
	}
	return groups
}

// rowErrors collects the numeric parse failures of the group's rows.
func (g rowGroup) rowErrors() []error {
	var errs []error
	for _, r := range g.rows {
		if r.err != nil {
			errs = append(errs, r.err)
		}
	}
	return errs
}

func (g rowGroup) toWorkout() workouts.Workout {
	workout := workouts.Workout{
		Name:      g.rows[0].workoutName,
		Notes:     g.rows[0].workoutNotes,
		StartedAt: g.rows[0].date,
		Source:    SourceImport,
	}

	// exercises keep the order in which they appear in the export,
	// sets follow the Set Order column
	exerciseIdx := make(map[string]int)
	exerciseRows := make(map[string][]row)
	for _, r := range g.rows {
		if _, ok := exerciseIdx[r.exerciseName]; !ok {
			workout.Exercises = append(workout.Exercises, workouts.Exercise{
				Name: r.exerciseName,
			})
			exerciseIdx[r.exerciseName] = len(workout.Exercises) - 1
		}
		exerciseRows[r.exerciseName] = append(exerciseRows[r.exerciseName], r)
	}

	for name, idx := range exerciseIdx {
		rows := exerciseRows[name]
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].setOrder < rows[j].setOrder
		})
		for _, r := range rows {
			workout.Exercises[idx].Sets = append(workout.Exercises[idx].Sets, workouts.Set{
				Kilos: r.weight,
				Reps:  r.reps,
			})
		}
	}

	return workout
}
