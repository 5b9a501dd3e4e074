package main

import (
	"context"
	"log"
	"net/http"
	"path"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"questionnaire/internal/chart"
	"questionnaire/internal/config"
	apihttp "questionnaire/internal/http"
	"questionnaire/internal/repository"
	"questionnaire/internal/service"
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

	stores, err := repository.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("storage init", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	defer stores.Close()

	renderer := chart.NewEducationChartRenderer(logger, cfg.ChartDir, cfg.ChartFile)
	intakeSvc := service.NewIntakeService(logger, stores.Respondents, stores.Answers)
	statsSvc := service.NewStatisticsService(logger, stores.Respondents, stores.Answers, renderer)

	limiter := service.NewMemoryRateLimiter(cfg.IntakeRateWindow, cfg.IntakeRateLimit)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory rate limiter", zap.Error(err))
		} else {
			limiter = service.NewRedisRateLimiter(redisClient, cfg.IntakeRateWindow, cfg.IntakeRateLimit)
		}
		cancel()
	}

	surveyHandler := apihttp.NewSurveyHandler(logger, intakeSvc, statsSvc, limiter, path.Join("/static", cfg.ChartFile))
	healthHandler := apihttp.NewHealthHandler(logger, stores.Ping)
	router := apihttp.NewRouter(logger, surveyHandler, healthHandler, cfg.ChartDir)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("storage", cfg.StorageDriver),
		zap.String("chart", renderer.Path()),
	)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
