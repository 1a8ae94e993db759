package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/cityreport-backend/internal/config"
	"github.com/ignatzorin/cityreport-backend/internal/http/handlers"
	"github.com/ignatzorin/cityreport-backend/internal/http/middleware"
	"github.com/ignatzorin/cityreport-backend/internal/models"
)

// Handlers набор хэндлеров приложения.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Reports       *handlers.ReportHandler
	Chats         *handlers.ChatHandler
	Notifications *handlers.NotificationHandler
	WS            *handlers.WSHandler
	Health        *handlers.HealthHandler
}

func SetupRouter(cfg *config.Config, h Handlers, tokens middleware.TokenParser, log logrus.FieldLogger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler(log))
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod, log))
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/officers/login", h.Auth.LoginOfficer)
	}

	// Публичные маршруты
	api.GET("/categories", h.Reports.ListCategories)
	api.GET("/ws", h.WS.Handle)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokens))

	citizen := middleware.RequireKind(models.PartyUser)
	officer := middleware.RequireKind(models.PartyOfficer)
	{
		protected.POST("/reports", citizen, h.Reports.CreateReport)
		protected.GET("/reports", h.Reports.ListReports)
		protected.GET("/reports/:id", middleware.IDValidator("id"), h.Reports.GetReport)
		protected.PUT("/reports/:id/status", officer, middleware.IDValidator("id"), h.Reports.UpdateStatus)
		protected.PUT("/reports/:id/officer", officer, middleware.IDValidator("id"), h.Reports.AssignOfficer)
		protected.PUT("/reports/:id/tech-agent", officer, middleware.IDValidator("id"), h.Reports.AssignTechAgent)

		protected.POST("/reports/:id/chats", officer, middleware.IDValidator("id"), h.Chats.CreateChat)
		protected.GET("/reports/:id/chats/:type/messages", middleware.IDValidator("id"), h.Chats.ListMessages)
		protected.POST("/chats/:chatId/messages", middleware.IDValidator("chatId"), h.Chats.SendMessage)

		protected.GET("/notifications", citizen, h.Notifications.ListNotifications)
		protected.GET("/notifications/unread/count", citizen, h.Notifications.CountUnread)
		protected.PUT("/notifications/read-all", citizen, h.Notifications.MarkAllAsRead)
		protected.PUT("/notifications/:id/read", citizen, middleware.IDValidator("id"), h.Notifications.MarkAsRead)
		protected.DELETE("/notifications/:id", citizen, middleware.IDValidator("id"), h.Notifications.DeleteNotification)
	}

	return r
}
