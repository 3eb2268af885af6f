package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/makeasinger/musicvideo/internal/client"
	"github.com/makeasinger/musicvideo/internal/config"
	"github.com/makeasinger/musicvideo/internal/handler"
	"github.com/makeasinger/musicvideo/internal/logging"
	"github.com/makeasinger/musicvideo/internal/middleware"
	"github.com/makeasinger/musicvideo/internal/pipeline"
	"github.com/makeasinger/musicvideo/internal/service"
	ws "github.com/makeasinger/musicvideo/internal/websocket"
	"github.com/makeasinger/musicvideo/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Init(cfg.Server.LogLevel, cfg.Server.Env)

	// Initialize Redis client
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis not available, queued jobs and rate limiting are degraded")
	}
	cancel()

	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()

	// Initialize WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Pipeline
	runner, err := service.NewStageRunner(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up pipeline")
	}
	orchestrator := pipeline.NewOrchestrator(runner, cfg.Pipeline.WorkDir)
	log.Info().Str("mode", cfg.Pipeline.Mode).Str("work_dir", cfg.Pipeline.WorkDir).Msg("pipeline ready")

	// Services
	jobService := service.NewJobService(redisClient, asynqClient)

	// Handlers
	routes := &handler.Routes{
		Landing: handler.NewLandingHandler(handler.LandingPage{
			Title:         "Music Video Generator",
			DefaultVision: cfg.Pipeline.DefaultVision,
			SampleVideo:   cfg.Pipeline.FallbackVideoURL,
		}),
		Health: handler.NewHealthHandler(handler.ServiceStatus{
			Grok:     client.NewGrokClient(&cfg.Grok).IsConfigured(),
			Suno:     client.NewSunoClient(&cfg.Suno).IsConfigured(),
			R2:       cfg.R2.Configured(),
			Pipeline: cfg.Pipeline.Mode,
		}),
		Create:      handler.NewCreateHandler(orchestrator, hub),
		Jobs:        handler.NewJobsHandler(jobService),
		Hub:         hub,
		RateLimiter: middleware.NewRateLimiter(redisClient),
		Limits:      cfg.RateLimit,
		StaticDir:   cfg.Server.StaticDir,
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handler.ErrorHandler,
		BodyLimit:    1024 * 1024,
		ReadTimeout:  30 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept",
		ExposeHeaders: "X-Job-Id",
	}))

	handler.Register(app, routes)

	// Start Asynq worker server
	workerServer := newWorkerServer(cfg, redisOpt)
	mux := asynq.NewServeMux()
	mux.Handle(service.TaskTypeJobProcess, worker.NewJobWorker(orchestrator, jobService, hub))
	if err := workerServer.Start(mux); err != nil {
		log.Error().Err(err).Msg("asynq worker not started")
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info().Msg("shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
		workerServer.Shutdown()
	}()

	// Start server
	addr := ":" + cfg.Server.Port
	log.Info().Str("addr", addr).Msg("server starting")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func newWorkerServer(cfg *config.Config, redisOpt asynq.RedisClientOpt) *asynq.Server {
	return asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 4,
		Queues: map[string]int{
			service.QueueJobs: 1,
		},
		Logger:   logging.NewAsynqLogger(),
		LogLevel: logging.AsynqLevel(cfg.Server.LogLevel),
	})
}
