package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/zerogal/zerogalbackend/config"
	"github.com/zerogal/zerogalbackend/database"
	"github.com/zerogal/zerogalbackend/handlers"
	"github.com/zerogal/zerogalbackend/media"
	"github.com/zerogal/zerogalbackend/repository"
	"github.com/zerogal/zerogalbackend/storage"
	"github.com/zerogal/zerogalbackend/workers"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	if dbDir := filepath.Dir(cfg.DatabasePath); dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create database directory %s: %v", dbDir, err)
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database schema: %v", err)
	}

	albumRepo := repository.NewAlbumRepository(db)
	recordRepo := repository.NewDataRecordRepository(db)

	engine, err := storage.NewEngine(cfg, albumRepo, recordRepo)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize storage engine: %v", err)
	}

	codec := media.NewFFmpeg(cfg.FFmpegPath, cfg.FFprobePath, cfg.CodecTimeout)
	converter := media.NewUnifiedImageConverter(codec)

	previewWorker := workers.NewPreviewWorker(cfg, recordRepo, engine.Paths(), converter, codec)
	convertWorker := workers.NewConvertWorker(cfg, recordRepo, engine.Paths(), converter, codec)
	scavenger := workers.NewScavenger(albumRepo, recordRepo, engine.Paths())

	scheduler, err := workers.NewScheduler(cfg, previewWorker, convertWorker, scavenger)
	if err != nil {
		log.Fatalf("FATAL: Failed to schedule workers: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Printf("Storing data under: %s", cfg.DataFolder)
	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Preview max size (longest side): %dpx", cfg.PreviewMaxSize)

	router := handlers.NewRouter(cfg, engine)

	addr := ":" + getEnvOrDefaultPort()
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("FATAL: Server failed: %v", err)
	}
}

func getEnvOrDefaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8080"
}
