package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"MedMonitor/internal/config"
	"MedMonitor/internal/handlers"
	"MedMonitor/internal/middleware"
	"MedMonitor/internal/repo"
	"MedMonitor/internal/service"
	"MedMonitor/internal/ws"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	userRepo := repo.NewUserRepository(gormDB)
	vitalsRepo := repo.NewVitalsRepository(gormDB)
	deviceRepo := repo.NewDeviceRepository(gormDB)
	alertRepo := repo.NewAlertRepository(gormDB)

	userService := service.NewUserService(userRepo)
	vitalsService := service.NewVitalsService(vitalsRepo, alertRepo, sugar)
	deviceService := service.NewDeviceService(deviceRepo)
	analyticsService := service.NewAnalyticsService(vitalsRepo, deviceRepo)

	hub := ws.NewHub(sugar)

	if cfg.Monitor {
		// фоновый генератор показателей для подключённых пользователей
		monitor := service.NewMonitorService(vitalsService, hub, hub.ConnectedUsers, sugar)
		go monitor.Run(ctx)
	}

	h := handlers.NewHandler(userService, vitalsService, deviceService, analyticsService, hub, sugar, cfg)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"DatabaseDSN", cfg.DatabaseDSN,
		"Monitor", cfg.Monitor,
	)

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
