// Package healthsync pushes daily activity summaries (nutrition totals and
// workout counts) to an external health platform. The day of the last
// successful push is kept in redis per device, so a sync run only sends
// the days that are still missing.
package healthsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fitlog-app/backend/internal/diary"
	"github.com/fitlog-app/backend/internal/telemetry/metrics"
	"github.com/fitlog-app/backend/internal/telemetry/tracing"
	"github.com/fitlog-app/backend/internal/workouts"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=healthsync_mocks_test.go -package=healthsync

const (
	dayLayout = "2006-01-02"

	// how far back the first sync of a device reaches
	defaultBackfillDays = 7
)

type diaryRepo interface {
	ListTotals(ctx context.Context, from, to time.Time) ([]diary.DayTotals, error)
}

type workoutsRepo interface {
	Count(ctx context.Context, params workouts.WorkoutParams) (int, error)
}

// DaySummary is one day of activity as the health platform expects it.
type DaySummary struct {
	Day          string  `json:"day"`
	Calories     float64 `json:"calories"`
	Protein      float64 `json:"protein"`
	Carbs        float64 `json:"carbs"`
	Fat          float64 `json:"fat"`
	WorkoutCount int     `json:"workoutCount"`
}

// RunResult reports one finished sync run.
type RunResult struct {
	DaysSynced int       `json:"daysSynced"`
	SyncedUpTo time.Time `json:"syncedUpTo"`
}

// Status is the sync state of one device.
type Status struct {
	DeviceID   string     `json:"deviceId"`
	LastSynced *time.Time `json:"lastSynced,omitempty"`
}

type Service struct {
	rdb        *redis.Client
	diary      diaryRepo
	workouts   workoutsRepo
	httpClient *http.Client
	baseURL    string
	authToken  string
	metrics    *metrics.Manager

	nowFn func() time.Time
}

func NewService(
	rdb *redis.Client,
	diaryRepo diaryRepo,
	workoutsRepo workoutsRepo,
	httpClient *http.Client,
	baseURL string,
	authToken string,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		rdb:        rdb,
		diary:      diaryRepo,
		workouts:   workoutsRepo,
		httpClient: httpClient,
		baseURL:    baseURL,
		authToken:  authToken,
		metrics:    metricsManager,
		nowFn:      time.Now,
	}
}

func lastSyncKey(deviceID string) string {
	return fmt.Sprintf("healthsync::last::%s", deviceID)
}

// Run syncs all days after the device's last synced day up to and
// including yesterday. Today is never pushed, its totals are still
// changing.
func (s *Service) Run(ctx context.Context, deviceID string) (_ *RunResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "healthsync.run")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	now := s.nowFn()
	yesterday := diary.DayOf(now).AddDate(0, 0, -1)

	from := diary.DayOf(now).AddDate(0, 0, -defaultBackfillDays)
	lastSyncedStr, err := s.rdb.Get(ctx, lastSyncKey(deviceID)).Result()
	switch {
	case err == nil:
		lastSynced, parseErr := time.Parse(dayLayout, lastSyncedStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parse last synced day %q: %w", lastSyncedStr, parseErr)
		}
		from = lastSynced.AddDate(0, 0, 1)
	case err == redis.Nil:
		log.Debugf("healthsync: no cursor for device %s, backfilling %d days", deviceID, defaultBackfillDays)
	default:
		return nil, fmt.Errorf("get last synced day: %w", err)
	}

	if from.After(yesterday) {
		log.Tracef("healthsync: device %s already up to date", deviceID)
		return &RunResult{SyncedUpTo: yesterday}, nil
	}

	summaries, err := s.collectSummaries(ctx, from, yesterday)
	if err != nil {
		return nil, err
	}

	if err := s.push(ctx, deviceID, summaries); err != nil {
		return nil, err
	}

	if err := s.rdb.Set(ctx, lastSyncKey(deviceID), yesterday.Format(dayLayout), 0).Err(); err != nil {
		return nil, fmt.Errorf("set last synced day: %w", err)
	}

	s.metrics.CounterHealthSyncRuns.Inc()
	log.Debugf("healthsync: device %s synced %d days up to %s",
		deviceID, len(summaries), yesterday.Format(dayLayout))

	return &RunResult{
		DaysSynced: len(summaries),
		SyncedUpTo: yesterday,
	}, nil
}

// GetStatus returns the sync cursor of a device.
func (s *Service) GetStatus(ctx context.Context, deviceID string) (_ *Status, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "healthsync.status")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	status := &Status{DeviceID: deviceID}

	lastSyncedStr, err := s.rdb.Get(ctx, lastSyncKey(deviceID)).Result()
	if err == redis.Nil {
		return status, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get last synced day: %w", err)
	}

	lastSynced, err := time.Parse(dayLayout, lastSyncedStr)
	if err != nil {
		return nil, fmt.Errorf("parse last synced day %q: %w", lastSyncedStr, err)
	}
	status.LastSynced = &lastSynced

	return status, nil
}

// StartPeriodicSync runs a sync for the given device on every tick until
// the context is done. Failures are logged and retried on the next tick.
func (s *Service) StartPeriodicSync(ctx context.Context, deviceID string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Debugf("healthsync: periodic sync for device %s every %s", deviceID, interval)

	for {
		select {
		case <-ctx.Done():
			log.Debugf("healthsync: periodic sync for device %s stopped", deviceID)
			return
		case <-ticker.C:
			if _, err := s.Run(ctx, deviceID); err != nil {
				log.Errorf("healthsync: periodic sync for device %s: %s", deviceID, err)
			}
		}
	}
}

func (s *Service) collectSummaries(ctx context.Context, from, to time.Time) ([]DaySummary, error) {
	totals, err := s.diary.ListTotals(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list diary totals: %w", err)
	}

	totalsPerDay := make(map[string]diary.DayTotals, len(totals))
	for _, t := range totals {
		totalsPerDay[t.Day.Format(dayLayout)] = t
	}

	var summaries []DaySummary
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		nextDay := day.AddDate(0, 0, 1)
		workoutCount, err := s.workouts.Count(ctx, workouts.WorkoutParams{
			From: &day,
			To:   &nextDay,
		})
		if err != nil {
			return nil, fmt.Errorf("count workouts for %s: %w", day.Format(dayLayout), err)
		}

		dayKey := day.Format(dayLayout)
		dayTotals := totalsPerDay[dayKey]
		if workoutCount == 0 && dayTotals.Calories == 0 {
			// nothing logged that day, nothing to report
			continue
		}

		summaries = append(summaries, DaySummary{
			Day:          dayKey,
			Calories:     dayTotals.Calories,
			Protein:      dayTotals.Protein,
			Carbs:        dayTotals.Carbs,
			Fat:          dayTotals.Fat,
			WorkoutCount: workoutCount,
		})
	}

	return summaries, nil
}

func (s *Service) push(ctx context.Context, deviceID string, summaries []DaySummary) error {
	if len(summaries) == 0 {
		return nil
	}

	payload, err := json.Marshal(struct {
		DeviceID  string       `json:"deviceId"`
		Summaries []DaySummary `json:"summaries"`
	}{
		DeviceID:  deviceID,
		Summaries: summaries,
	})
	if err != nil {
		return fmt.Errorf("marshal summaries: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/daily", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.authToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("health platform status: %s", resp.Status)
	}

	return nil
}
