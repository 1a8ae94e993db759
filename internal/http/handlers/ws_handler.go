package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/cityreport-backend/internal/http/middleware"
	"github.com/ignatzorin/cityreport-backend/internal/http/response"
	"github.com/ignatzorin/cityreport-backend/internal/pkg/apperror"
	"github.com/ignatzorin/cityreport-backend/internal/ws"
)

// WSHandler отвечает за установку WebSocket соединений.
type WSHandler struct {
	registry *ws.Registry
	tokens   middleware.TokenParser
	upgrader websocket.Upgrader
	log      logrus.FieldLogger
}

// NewWSHandler создаёт новый хэндлер. Пустой allowedOrigins разрешает любой источник.
func NewWSHandler(registry *ws.Registry, tokens middleware.TokenParser, allowedOrigins []string, log logrus.FieldLogger) *WSHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return &WSHandler{
		registry: registry,
		tokens:   tokens,
		log:      log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(allowed) == 0 {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// Handle обслуживает GET /api/ws?token=...
func (h *WSHandler) Handle(c *gin.Context) {
	rawToken := c.Query("token")
	if rawToken == "" {
		response.Unauthorized(c, "access токен обязателен")
		return
	}

	claims, err := h.tokens.ParseAccess(rawToken)
	if err != nil {
		response.Error(c, apperror.New(apperror.ErrCodeUnauthorized, "невалидный access токен"))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже ответил клиенту.
		h.log.WithError(err).Debug("ws: upgrade не удался")
		return
	}

	client := ws.NewClient(conn, h.registry, claims.Party, h.log)
	if err := client.Run(c.Request.Context()); err != nil {
		h.log.WithError(err).Warn("ws: не удалось зарегистрировать подключение")
	}
}
