package handlers

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"MedMonitor/internal/config"
	"MedMonitor/internal/middleware"
	"MedMonitor/internal/service"
	"MedMonitor/internal/ws"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	vitalsService *service.VitalsService,
	deviceService *service.DeviceService,
	analyticsService *service.AnalyticsService,
	hub *ws.Hub,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	// Handlers
	authHandler := NewAuthHandler(userService, logger, config)
	vitalsHandler := NewVitalsHandler(vitalsService, hub, logger)
	deviceHandler := NewDeviceHandler(deviceService, logger)
	analyticsHandler := NewAnalyticsHandler(analyticsService, logger)
	wsHandler := NewWSHandler(hub, logger, config)

	// Auth routes
	r.Post("/api/auth/register", authHandler.Register)
	r.Post("/api/auth/login", authHandler.Login)
	r.Post("/api/auth/refresh", authHandler.Refresh)
	r.Post("/api/auth/logout", authHandler.Logout)
	r.Get("/api/auth/me", authHandler.Me)
	r.Get("/api/auth/verify", authHandler.Verify)

	// Vitals routes
	r.Get("/api/vitals/dashboard", vitalsHandler.Dashboard)
	r.Get("/api/vitals/latest", vitalsHandler.Latest)
	r.Get("/api/vitals/history/{vitalType}", vitalsHandler.History)
	r.Get("/api/vitals/alerts", vitalsHandler.Alerts)
	r.Post("/api/vitals/", vitalsHandler.Add)

	// Devices routes
	r.Get("/api/devices", deviceHandler.List)
	r.Post("/api/devices", deviceHandler.Register)
	r.Delete("/api/devices/{deviceID}", deviceHandler.Delete)
	r.Patch("/api/devices/{deviceID}/status", deviceHandler.UpdateStatus)

	// Analytics routes
	r.Get("/api/analytics/summary", analyticsHandler.Summary)
	r.Get("/api/analytics/trends", analyticsHandler.Trends)
	r.Get("/api/analytics/devices/stats", analyticsHandler.DeviceStats)
	r.Get("/api/analytics/hourly", analyticsHandler.Hourly)

	// Live feed
	r.Get("/ws/{userID}", wsHandler.Serve)

	return &Handler{Router: r}
}
