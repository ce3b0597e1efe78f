// Package settings stores per-device app settings as redis hashes, one
// hash per device under "settings::<deviceID>".
package settings

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fitlog-app/backend/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
)

const (
	UnitsKilograms = "kg"
	UnitsPounds    = "lb"

	defaultUnits       = UnitsKilograms
	defaultCalorieGoal = 2000
)

// Settings are the per-device preferences the app syncs on start.
type Settings struct {
	Units       string  `json:"units"`
	CalorieGoal int     `json:"calorieGoal"`
	WeightGoal  float64 `json:"weightGoal,omitempty"`
}

func (s Settings) Validate() error {
	if s.Units != UnitsKilograms && s.Units != UnitsPounds {
		return fmt.Errorf("invalid units: %q", s.Units)
	}
	if s.CalorieGoal <= 0 {
		return fmt.Errorf("calorie goal must be positive")
	}
	if s.WeightGoal < 0 {
		return fmt.Errorf("weight goal must not be negative")
	}
	return nil
}

// Defaults returned for a device that never saved settings.
func Defaults() Settings {
	return Settings{
		Units:       defaultUnits,
		CalorieGoal: defaultCalorieGoal,
	}
}

type Repo struct {
	rdb *redis.Client
}

func NewRepo(rdb *redis.Client) *Repo {
	return &Repo{rdb: rdb}
}

func settingsKey(deviceID string) string {
	return fmt.Sprintf("settings::%s", deviceID)
}

// Get returns the stored settings for a device, or defaults if the device
// never saved any.
func (r *Repo) Get(ctx context.Context, deviceID string) (_ *Settings, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "settings.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	fields, err := r.rdb.HGetAll(ctx, settingsKey(deviceID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	settings := Defaults()
	if len(fields) == 0 {
		return &settings, nil
	}

	if units, ok := fields["units"]; ok {
		settings.Units = units
	}
	if calGoalStr, ok := fields["calorie_goal"]; ok {
		calGoal, err := strconv.Atoi(calGoalStr)
		if err != nil {
			return nil, fmt.Errorf("parse calorie goal %q: %w", calGoalStr, err)
		}
		settings.CalorieGoal = calGoal
	}
	if weightGoalStr, ok := fields["weight_goal"]; ok {
		weightGoal, err := strconv.ParseFloat(weightGoalStr, 64)
		if err != nil {
			return nil, fmt.Errorf("parse weight goal %q: %w", weightGoalStr, err)
		}
		settings.WeightGoal = weightGoal
	}

	return &settings, nil
}

// Save stores the settings of a device, replacing all fields.
func (r *Repo) Save(ctx context.Context, deviceID string, settings Settings) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "settings.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := settings.Validate(); err != nil {
		return err
	}

	if err := r.rdb.HSet(ctx, settingsKey(deviceID),
		"units", settings.Units,
		"calorie_goal", strconv.Itoa(settings.CalorieGoal),
		"weight_goal", strconv.FormatFloat(settings.WeightGoal, 'f', -1, 64),
	).Err(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	return nil
}

// Reset drops the stored settings of a device, reverting it to defaults.
func (r *Repo) Reset(ctx context.Context, deviceID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "settings.reset")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := r.rdb.Del(ctx, settingsKey(deviceID)).Err(); err != nil {
		return fmt.Errorf("reset settings: %w", err)
	}
	return nil
}
