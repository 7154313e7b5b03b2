package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"google.golang.org/api/option"

	"github.com/2beens/calisthenics/internal"
	"github.com/2beens/calisthenics/internal/backup"
	"github.com/2beens/calisthenics/internal/config"
	"github.com/2beens/calisthenics/internal/tracker"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	credentialsFile := flag.String(
		"gd-creds",
		"",
		"google drive service account credentials json (empty to only write the export file)",
	)
	outDir := flag.String("out", ".", "directory for the export file (empty to skip)")
	logsPath := flag.String("logs-path", "", "logs file path (empty for stdout)")
	flag.Parse()

	loggingSetup(*logsPath)

	log.Println("starting calisthenics backup ...")

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	storage, err := internal.OpenStore(ctx, cfg, internal.OpenStoreParams{
		PostgresUser:     os.Getenv("CALISTHENICS_POSTGRES_USER"),
		PostgresPassword: os.Getenv("CALISTHENICS_POSTGRES_PASS"),
	})
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer storage.Close()

	params := tracker.ServiceParams{
		Store:        storage.Store,
		StoreTimeout: cfg.StoreTimeout(),
		Location:     cfg.Location(),
	}
	if *credentialsFile != "" {
		credentialsFileBytes, err := os.ReadFile(*credentialsFile)
		if err != nil {
			log.Fatalf("unable to read credentials file: %v", err)
		}
		uploader, err := backup.NewDriveUploader(ctx, cfg.DriveBackupFolderID, option.WithCredentialsJSON(credentialsFileBytes))
		if err != nil {
			log.Fatalf("failed to create google drive uploader: %s", err)
		}
		params.Uploader = uploader
	}
	service := tracker.NewService(params)

	if *outDir != "" {
		path, err := writeExport(ctx, service, *outDir)
		if err != nil {
			log.Fatalf("write export: %s", err)
		}
		log.Printf("export written: %s", path)
	}

	if *credentialsFile != "" {
		fileID, err := service.Backup(ctx)
		if err != nil {
			log.Fatalf("drive backup: %s", err)
		}
		log.Printf("drive backup done, file id: %s", fileID)
	}
}

func loggingSetup(logFileName string) {
	if logFileName == "" {
		log.SetOutput(os.Stdout)
		return
	}

	if !strings.HasSuffix(logFileName, ".log") {
		logFileName += ".log"
	}

	logFile, err := os.OpenFile(logFileName, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		log.Panicf("failed to open log file %q: %s", logFileName, err)
	}

	log.SetOutput(logFile)
}
