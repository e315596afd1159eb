package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shiftbook/shiftbook-backend/internal/config"
	appHTTP "github.com/shiftbook/shiftbook-backend/internal/handler/http"
	"github.com/shiftbook/shiftbook-backend/internal/pkg/cron"
	"github.com/shiftbook/shiftbook-backend/internal/pkg/database"
	"github.com/shiftbook/shiftbook-backend/internal/pkg/jwt"
	"github.com/shiftbook/shiftbook-backend/internal/pkg/sse"
	"github.com/shiftbook/shiftbook-backend/internal/repository/postgresql"
	authService "github.com/shiftbook/shiftbook-backend/internal/service/auth"
	holidayService "github.com/shiftbook/shiftbook-backend/internal/service/holiday"
	notificationService "github.com/shiftbook/shiftbook-backend/internal/service/notification"
	overtimeService "github.com/shiftbook/shiftbook-backend/internal/service/overtime"
	reportService "github.com/shiftbook/shiftbook-backend/internal/service/report"
	timeentryService "github.com/shiftbook/shiftbook-backend/internal/service/timeentry"
	userService "github.com/shiftbook/shiftbook-backend/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.Connect(context.Background(), cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	entryRepo := postgresql.NewTimeEntryRepository(db)
	holidayRepo := postgresql.NewHolidayRequestRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	hub := sse.NewHub()

	notifService := notificationService.NewService(notificationRepo, hub, notificationService.Config{})
	defer notifService.Stop()

	overtimeSvc := overtimeService.NewService(userRepo, entryRepo)
	entrySvc := timeentryService.NewService(entryRepo, overtimeSvc)
	holidaySvc := holidayService.NewService(holidayRepo, userRepo, notifService)
	authSvc := authService.NewService(db, userRepo, jwtService, refreshTokenRepo, cfg.App.AuthRequestTimeout)
	userSvc := userService.NewService(userRepo, overtimeSvc)
	reportSvc := reportService.NewService(userRepo, entryRepo, holidayRepo)

	scheduler := cron.NewScheduler()
	cron.NewBalanceJobs(userRepo, overtimeSvc, cfg.App.ReconcileInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(cfg, jwtService, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(authSvc, jwtService),
		User:         appHTTP.NewUserHandler(userSvc),
		TimeEntry:    appHTTP.NewTimeEntryHandler(entrySvc),
		Holiday:      appHTTP.NewHolidayHandler(holidaySvc),
		Notification: appHTTP.NewNotificationHandler(notifService, jwtService),
		Admin:        appHTTP.NewAdminHandler(reportSvc),
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down...")
	if err := server.Close(); err != nil {
		slog.Error("Server close error", "error", err)
	}
}
