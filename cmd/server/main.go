package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/cityreport-backend/internal/config"
	"github.com/ignatzorin/cityreport-backend/internal/db"
	httpHandlers "github.com/ignatzorin/cityreport-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/cityreport-backend/internal/http/router"
	"github.com/ignatzorin/cityreport-backend/internal/logger"
	"github.com/ignatzorin/cityreport-backend/internal/repository"
	"github.com/ignatzorin/cityreport-backend/internal/service"
	"github.com/ignatzorin/cityreport-backend/internal/storage"
	"github.com/ignatzorin/cityreport-backend/internal/ws"
	"github.com/ignatzorin/cityreport-backend/migrations"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, warnings, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	appLog := logger.New(cfg.LogLevel, cfg.Env)
	for _, w := range warnings {
		appLog.Warn(w)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.DefaultPool)
	if err != nil {
		appLog.WithError(err).Fatal("main: ошибка подключения к базе")
	}
	defer safeClose(dbConn, appLog)

	if cfg.RunMigrations {
		if err := db.RunMigrations(ctx, dbConn, migrations.FS, appLog); err != nil {
			appLog.WithError(err).Fatal("main: ошибка миграций")
		}
	}

	photoStorage, err := storage.NewPhotoStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		appLog.WithError(err).Fatal("main: не удалось подготовить файловое хранилище")
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	officerRepo := repository.NewOfficerRepository(dbConn)
	categoryRepo := repository.NewCategoryRepository(dbConn)
	reportRepo := repository.NewReportRepository(dbConn)
	chatRepo := repository.NewChatRepository(dbConn)
	messageRepo := repository.NewMessageRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Реестр онлайн-участников живёт только в памяти процесса.
	registry := ws.NewRegistry()

	// Сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	authService := service.NewAuthService(userRepo, officerRepo, tokenManager, appLog)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, registry, appLog)
	chatService := service.NewChatService(chatRepo, messageRepo, reportRepo, notificationService, registry, appLog)

	var policy service.AssignmentPolicy = service.NoDefaultOfficer{}
	if cfg.AssignDefaultOfficer {
		policy = service.NewFirstInternalOfficerPolicy(officerRepo)
	}
	reportService := service.NewReportService(reportRepo, categoryRepo, userRepo, officerRepo, chatService, notificationService, policy, appLog)

	// HTTP хэндлеры.
	handlers := httpRouter.Handlers{
		Auth:          httpHandlers.NewAuthHandler(authService, tokenManager.TTL()),
		Reports:       httpHandlers.NewReportHandler(reportService, photoStorage, appLog),
		Chats:         httpHandlers.NewChatHandler(chatService, reportService),
		Notifications: httpHandlers.NewNotificationHandler(notificationService),
		WS:            httpHandlers.NewWSHandler(registry, tokenManager, cfg.AllowedOrigins, appLog),
		Health:        httpHandlers.NewHealthHandler(dbConn, registry),
	}

	engine := httpRouter.SetupRouter(cfg, handlers, tokenManager, appLog)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			appLog.WithError(err).Error("main: ошибка остановки http сервера")
		}
	}()

	appLog.WithField("port", cfg.HTTPPort).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		appLog.WithError(err).Fatal("main: сервер завершился с ошибкой")
	}
}

// safeClose закрывает соединение с базой.
func safeClose(conn *sqlx.DB, log logrus.FieldLogger) {
	if err := conn.Close(); err != nil {
		log.WithError(err).Error("main: ошибка закрытия базы")
	}
}
