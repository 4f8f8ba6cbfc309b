package main

import (
	"context"
	"log"
	"time"

	"comex-portal/internal/core/cache"
	"comex-portal/internal/core/config"
	"comex-portal/internal/core/logger"
	"comex-portal/internal/core/proxy"
	"comex-portal/internal/core/server"
	"comex-portal/internal/core/session"
	authadapter "comex-portal/internal/features/auth/adapters"
	authhandler "comex-portal/internal/features/auth/handler"
	authservice "comex-portal/internal/features/auth/service"
	cargoadapter "comex-portal/internal/features/cargo/adapters"
	cargohandler "comex-portal/internal/features/cargo/handler"
	cargoservice "comex-portal/internal/features/cargo/service"
	dutyadapter "comex-portal/internal/features/duties/adapters"
	dutyhandler "comex-portal/internal/features/duties/handler"
	dutyservice "comex-portal/internal/features/duties/service"
	instadapter "comex-portal/internal/features/instructions/adapters"
	insthandler "comex-portal/internal/features/instructions/handler"
	instservice "comex-portal/internal/features/instructions/service"
	quoteadapter "comex-portal/internal/features/quotes/adapters"
	quotehandler "comex-portal/internal/features/quotes/handler"
	quoteservice "comex-portal/internal/features/quotes/service"

	"go.uber.org/zap"
)

// @title Comex Portal API
// @version 1.0
// @description Customer portal API for importers: quotes, shipping instructions, cargo tracking and duty estimates.
// @contact.name API Support
// @contact.email soporte@comexportal.ec
// @license.name MIT
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	// Redis backs both sessions and the tariff cache
	redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()

	if err := redisCache.Ping(context.Background()); err != nil {
		l.Fatal("Redis ping failed", zap.Error(err))
	}
	l.Info("Redis connection verified")

	coreTimeout := time.Duration(cfg.CoreAPI.TimeoutSeconds) * time.Second
	authAdapter := authadapter.NewCoreAuthAdapter(cfg.CoreAPI.URL, coreTimeout)

	sessionStore := session.NewRedisStore(redisCache, time.Duration(cfg.Session.TTLHours)*time.Hour)
	sessionManager := session.NewManager(sessionStore, authAdapter)
	coreClient := session.NewClient(cfg.CoreAPI.URL, coreTimeout, sessionManager)

	authService := authservice.NewAuthService(authAdapter, sessionManager)
	authHandler := authhandler.NewAuthHandler(authService)

	quoteService := quoteservice.NewQuoteService(quoteadapter.NewCoreSalesAdapter(coreClient))
	quoteHandler := quotehandler.NewQuoteHandler(quoteService)

	instService := instservice.NewInstructionService(
		instadapter.NewCoreInstructionsAdapter(coreClient),
		quoteService,
	)
	instHandler := insthandler.NewInstructionHandler(instService)

	cargoService := cargoservice.NewCargoService(cargoadapter.NewCoreTrackingAdapter(coreClient))
	cargoHandler := cargohandler.NewCargoHandler(cargoService)

	proxySettings := proxy.Settings{
		Enabled:  cfg.Proxy.Enabled,
		Hostname: cfg.Proxy.Hostname,
		Port:     cfg.Proxy.Port,
		Username: cfg.Proxy.Username,
		Password: cfg.Proxy.Password,
	}
	tariffProvider := dutyadapter.NewCachedTariffProvider(
		dutyadapter.NewSenaeAdapter(cfg.Senae.TariffURL, proxySettings),
		redisCache,
		time.Duration(cfg.Senae.CacheTTLHours)*time.Hour,
	)
	dutyService := dutyservice.NewDutyService(tariffProvider)
	dutyHandler := dutyhandler.NewDutyHandler(dutyService)

	srv := server.New(cfg)

	srv.App.Post("/api/auth/login", authHandler.Login)

	authed := srv.App.Group("/api", session.Middleware(sessionManager))
	authed.Post("/auth/logout", authHandler.Logout)
	authed.Get("/auth/me", authHandler.Me)

	authed.Get("/quotes", quoteHandler.ListMySubmissions)
	authed.Post("/quotes", quoteHandler.CreateSubmission)
	authed.Get("/quotes/:id", quoteHandler.GetSubmission)
	authed.Post("/quotes/:id/approve", quoteHandler.ApproveSubmission)
	authed.Post("/quotes/:id/reject", quoteHandler.RejectSubmission)

	authed.Post("/instructions/init", instHandler.Init)
	authed.Get("/instructions/:id", instHandler.Get)
	authed.Get("/instructions/:id/form", instHandler.GetForm)
	authed.Patch("/instructions/:id/form", instHandler.SaveForm)
	authed.Post("/instructions/:id/documents", instHandler.UploadDocument)
	authed.Post("/instructions/:id/finalize", instHandler.Finalize)
	authed.Post("/instructions/:id/generate-ro", instHandler.GenerateRO)
	authed.Post("/instructions/:id/notify-forwarder", instHandler.NotifyForwarder)
	authed.Put("/instructions/:id/forwarder-reference", instHandler.SaveForwarderReference)

	authed.Get("/cargo", cargoHandler.ListCargo)
	authed.Get("/cargo/:id", cargoHandler.GetCargo)

	authed.Post("/duties/estimate", dutyHandler.Estimate)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
