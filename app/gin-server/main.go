package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/soundpost/transcriptor/config"
	"github.com/soundpost/transcriptor/internal/api/handlers"
	"github.com/soundpost/transcriptor/internal/api/routes"
	"github.com/soundpost/transcriptor/internal/cache"
	"github.com/soundpost/transcriptor/internal/logger"
	"github.com/soundpost/transcriptor/internal/models"
	"github.com/soundpost/transcriptor/internal/providers/stt"
	pgrepo "github.com/soundpost/transcriptor/internal/repositories/postgres"
	"github.com/soundpost/transcriptor/internal/services"
	"github.com/soundpost/transcriptor/internal/storage"
	"github.com/soundpost/transcriptor/internal/transcode"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()
	cfg := config.Load()
	ctx := context.Background()

	db, err := config.NewPostgres(cfg.PostgresURI)
	if err != nil {
		log.WithError(err).Fatal("postgres init failed")
	}
	if err := db.AutoMigrate(&models.TranscriptionJob{}); err != nil {
		log.WithError(err).Fatal("postgres migration failed")
	}
	log.Info("postgres connected")

	rdb, err := config.NewRedis(ctx, cfg.RedisAddr)
	if err != nil {
		log.WithError(err).Fatal("redis init failed")
	}
	log.Info("redis connected")

	store, err := storage.NewGCS(ctx)
	if err != nil {
		log.WithError(err).Fatal("storage client init failed")
	}
	defer store.Close()

	speech, err := stt.NewGoogleSpeech(ctx, log)
	if err != nil {
		log.WithError(err).Fatal("speech client init failed")
	}
	defer speech.Close()
	speech.PollInterval = cfg.PollInterval
	speech.MaxPolls = cfg.MaxPolls
	speech.ResultTimeout = cfg.ResultTimeout

	jobRepo := pgrepo.NewJobRepo(db)
	redisCache := cache.NewRedisCache(rdb)

	ingestion := services.NewIngestionService(services.IngestionDeps{
		Store:      store,
		STT:        speech,
		Transcoder: transcode.FFmpeg{Bin: cfg.FFmpegBin},
		Jobs:       jobRepo,
		Cache:      redisCache,
		Notifier:   services.NewRedisNotifier(rdb),
		Log:        log,
		Language:   cfg.LanguageCode,
		StagingDir: cfg.StagingDir,
		DedupTTL:   cfg.DedupTTL,
	})
	jobs := services.NewJobService(jobRepo, redisCache)

	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, routes.Deps{
		Events:    handlers.NewEventHandler(ingestion, log),
		Jobs:      handlers.NewJobHandler(jobs),
		WS:        handlers.NewWSHandler(jobs, rdb),
		Log:       log,
		JWTSecret: cfg.JWTSecret,
		JWTIssuer: cfg.JWTIssuer,
	})

	log.WithField("port", cfg.Port).Info("listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
