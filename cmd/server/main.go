package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zsports/sports-history/internal/api"
	"zsports/sports-history/internal/config"
	"zsports/sports-history/internal/intervals"
	"zsports/sports-history/internal/logging"
	"zsports/sports-history/internal/repository/mongo"
	"zsports/sports-history/internal/service"
	"zsports/sports-history/internal/storage"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// @title Sports History API
// @version 1.0
// @description Published training charts and Polar trainings.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configPath := flag.String("config", ".", "directory with config.yaml and .env")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	logging.Setup(logging.SetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   true,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	if err := cfg.ValidateServer(); err != nil {
		log.Fatal(err)
	}
	log.Info("starting sports history server ...")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Info("disconnecting MongoDB ...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorf("failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Infof("connected to database %s", cfg.Database.Name)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
		log.Debug("index creation completed")
	}()

	// --- Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.Hetzner, cfg.Paths.DataRoot)
	if err != nil {
		log.Fatalf("failed to initialize S3 storage: %v", err)
	}

	// --- Services ---
	services := api.Services{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Auth:           service.NewAuthService(cfg.Admin.Email, cfg.Admin.PasswordHash, cfg.JWT.Secret, cfg.JWT.Expiration),
		Publish:        service.NewPublishService(cfg.Paths.PlotRoot, mongo.NewMongoArtifactRepository(appDB), fileStorage),
		Training:       service.NewTrainingService(mongo.NewMongoTrainingRepository(appDB)),
	}
	if err := cfg.ValidateIntervals(); err != nil {
		log.Warnf("sync disabled: %v", err)
	} else {
		client, err := intervals.NewClient(cfg.Intervals.BaseURL, cfg.Intervals.APIKey, cfg.Intervals.AthleteID, cfg.Paths.DataRoot, nil)
		if err != nil {
			log.Fatalf("failed to initialize intervals client: %v", err)
		}
		services.Sync = service.NewSyncService(client)
	}

	if log.GetLevel() < log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, services)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen and serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server ...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}
	log.Info("server exiting")
}
