package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/fitlog-app/backend/internal"
	"github.com/fitlog-app/backend/internal/config"
	"github.com/fitlog-app/backend/internal/logging"
	"github.com/fitlog-app/backend/pkg"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    false,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        sentryDSN,
		SentryServerName: "fitlog-backend",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	adminUsername := os.Getenv("FITLOG_ADMIN_USERNAME")
	adminPasswordHash := os.Getenv("FITLOG_ADMIN_PASSWORD_HASH")
	if adminUsername == "" || adminPasswordHash == "" {
		log.Fatalf("admin username and password not set. use FITLOG_ADMIN_USERNAME and FITLOG_ADMIN_PASSWORD_HASH")
	}

	appSecret := os.Getenv("FITLOG_APP_SECRET")
	if appSecret == "" {
		log.Errorf("app secret not set. use FITLOG_APP_SECRET")
	}

	nutritionConsumerKey := os.Getenv("FITLOG_NUTRITION_CONSUMER_KEY")
	if nutritionConsumerKey == "" {
		log.Errorf("nutrition api consumer key not set. use FITLOG_NUTRITION_CONSUMER_KEY")
	}
	nutritionConsumerSecret := os.Getenv("FITLOG_NUTRITION_CONSUMER_SECRET")
	if nutritionConsumerSecret == "" {
		log.Errorf("nutrition api consumer secret not set. use FITLOG_NUTRITION_CONSUMER_SECRET")
	}

	healthSyncToken := os.Getenv("FITLOG_HEALTH_SYNC_TOKEN")
	if healthSyncToken == "" {
		log.Errorf("health sync token not set. use FITLOG_HEALTH_SYNC_TOKEN")
	}
	healthSyncDeviceID := os.Getenv("FITLOG_HEALTH_SYNC_DEVICE_ID")
	if healthSyncDeviceID == "" {
		log.Debugln("health sync device id not set, periodic sync disabled")
	}

	redisPassword := os.Getenv("FITLOG_REDIS_PASS")
	if redisPassword == "" {
		log.Errorf("redis password not set. use FITLOG_REDIS_PASS")
	}

	if otelServiceName := os.Getenv("OTEL_SERVICE_NAME"); otelServiceName == "" {
		log.Warnln("OTEL_SERVICE_NAME env var not set")
	}

	honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
	if honeycombEnabled {
		if honeycombApiKey := os.Getenv("HONEYCOMB_API_KEY"); honeycombApiKey == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
	} else {
		log.Debugln("honeycomb tracing disabled")
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			AppSecret:               appSecret,
			VersionInfo:             versionInfo,
			AdminUsername:           adminUsername,
			AdminPasswordHash:       adminPasswordHash,
			RedisPassword:           redisPassword,
			NutritionConsumerKey:    nutritionConsumerKey,
			NutritionConsumerSecret: nutritionConsumerSecret,
			HealthSyncToken:         healthSyncToken,
			HealthSyncDeviceID:      healthSyncDeviceID,
			HoneycombTracingEnabled: honeycombEnabled,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(ctx, cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}

// tryGetLastCommitHash will try to get the last commit hash
// assumes that the built main executable is in project root
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return pkg.BytesToString(stdout), nil
}
