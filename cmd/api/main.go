// server/cmd/api/main.go
package main

import (
	"context"
	"os"
	"time"

	"hospital-management-api-server/config"
	"hospital-management-api-server/internal/api/routes"
	"hospital-management-api-server/internal/auth"
	"hospital-management-api-server/internal/database"
	"hospital-management-api-server/internal/s3"
	"hospital-management-api-server/internal/socket"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// .env is optional, deployed environments inject real env vars.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	setupLogger(cfg.Log)

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}
	auth.SetSecret(cfg.JWT.Secret)

	jwtExpiration, err := time.ParseDuration(cfg.JWT.Expiration)
	if err != nil {
		log.Fatal().Err(err).Str("expiration", cfg.JWT.Expiration).Msg("invalid jwt expiration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, db, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("error disconnecting from MongoDB")
		}
	}()
	log.Info().Str("database", cfg.Mongo.DBName).Msg("connected to MongoDB")

	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("cannot create indexes")
	}

	if err := database.SeedSuperAdmin(db); err != nil {
		log.Fatal().Err(err).Msg("cannot seed superadmin account")
	}

	var s3Uploader *s3.Uploader
	if cfg.S3.Bucket != "" {
		s3Uploader, err = s3.NewUploader(cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot initialize S3 uploader")
		}
	} else {
		log.Warn().Msg("S3 not configured, report uploads are disabled")
	}

	wsHub := socket.NewHub()

	router := routes.SetupRouter(cfg, db, s3Uploader, wsHub, jwtExpiration)

	log.Info().Str("port", cfg.Server.Port).Msg("starting server")
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func setupLogger(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
