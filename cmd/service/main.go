package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/calisthenics/internal"
	"github.com/2beens/calisthenics/internal/config"
	"github.com/2beens/calisthenics/internal/logging"
	"github.com/2beens/calisthenics/pkg"
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
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        sentryDSN,
		SentryServerName: "calisthenics-service",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)
	log.Debugf("using store: [%s], timezone: [%s]", cfg.StoreDriver, cfg.Timezone)

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	adminUsername := os.Getenv("CALISTHENICS_ADMIN_USERNAME")
	adminPasswordHash := os.Getenv("CALISTHENICS_ADMIN_PASSWORD_HASH")
	if adminUsername == "" || adminPasswordHash == "" {
		log.Errorf("admin username and password not set. use CALISTHENICS_ADMIN_USERNAME and CALISTHENICS_ADMIN_PASSWORD_HASH")
	}

	redisPassword := os.Getenv("CALISTHENICS_REDIS_PASS")
	if redisPassword == "" {
		log.Warnln("redis password not set. use CALISTHENICS_REDIS_PASS")
	}

	mcpSecret := os.Getenv("CALISTHENICS_MCP_SECRET")
	if mcpSecret == "" {
		log.Warnln("mcp secret not set, /mcp is disabled. use CALISTHENICS_MCP_SECRET")
	}

	telegramBotToken := os.Getenv("CALISTHENICS_TELEGRAM_BOT_TOKEN")
	if cfg.NotificationsEnabled && telegramBotToken == "" {
		log.Warnln("telegram bot token not set, notifications only logged. use CALISTHENICS_TELEGRAM_BOT_TOKEN")
	}

	var driveCredentials []byte
	if credsPath := os.Getenv("CALISTHENICS_GDRIVE_CREDENTIALS"); credsPath != "" {
		driveCredentials, err = os.ReadFile(credsPath)
		if err != nil {
			log.Errorf("read google drive credentials [%s]: %s", credsPath, err)
		}
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
			VersionInfo:             versionInfo,
			AdminUsername:           adminUsername,
			AdminPasswordHash:       adminPasswordHash,
			RedisPassword:           redisPassword,
			PostgresUser:            os.Getenv("CALISTHENICS_POSTGRES_USER"),
			PostgresPassword:        os.Getenv("CALISTHENICS_POSTGRES_PASS"),
			McpSecret:               mcpSecret,
			TelegramBotToken:        telegramBotToken,
			DriveCredentialsJSON:    driveCredentials,
			HoneycombTracingEnabled: honeycombEnabled,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	if err := server.Serve(); err != nil {
		log.Fatalf("serve: %s", err)
	}

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
	cancel()

	// go to sleep 🥱
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
	return strings.TrimSpace(pkg.BytesToString(stdout)), nil
}
