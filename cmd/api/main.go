package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"odontofast/internal/config"
	"odontofast/internal/db"
	apihttp "odontofast/internal/http"
	"odontofast/internal/ml"
	"odontofast/internal/repository"
	"odontofast/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	imageRepo := repository.NewPgUserImageRepository(pool)
	predictionRepo := repository.NewPgPredictionLogRepository(pool)

	modelManager, err := ml.NewModelManager(logger, cfg.ModelDir)
	if err != nil {
		logger.Fatal("model dir init", zap.Error(err))
	}
	trainer := ml.NewTrainer(logger)
	samples := ml.NewSyntheticSampleSource()

	trainWindow := time.Duration(cfg.TrainWindowMinutes) * time.Minute
	trainLimiter := service.NewMemoryTrainRateLimiter(trainWindow, cfg.TrainMaxPerWindow)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else if limiter := service.NewRedisTrainRateLimiter(redisClient, trainWindow, cfg.TrainMaxPerWindow); limiter != nil {
			trainLimiter = limiter
		}
		cancel()
	}

	jwtSvc := service.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	userSvc := service.NewUserService(logger, userRepo)
	imageSvc := service.NewUserImageService(logger, imageRepo, userRepo)
	predictorSvc := service.NewPredictorService(logger, userRepo, modelManager, trainer, samples, predictionRepo)
	recommenderSvc := service.NewRecommenderService(logger, userRepo)

	userHandler := apihttp.NewUserHandler(logger, userSvc, jwtSvc)
	imageHandler := apihttp.NewUserImageHandler(logger, imageSvc)
	iaHandler := apihttp.NewIAHandler(logger, predictorSvc, recommenderSvc, trainLimiter)
	router := apihttp.NewRouter(logger, jwtSvc, userHandler, imageHandler, iaHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
