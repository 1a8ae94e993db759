package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/cityreport-backend/internal/http/response"
	"github.com/ignatzorin/cityreport-backend/internal/models"
	"github.com/ignatzorin/cityreport-backend/internal/pkg/apperror"
	"github.com/ignatzorin/cityreport-backend/internal/service"
)

// Context ключи для gin.Context.
const (
	ContextPartyKey    = "party"
	ContextUsernameKey = "username"
)

// TokenParser проверяет access токен.
type TokenParser interface {
	ParseAccess(token string) (*service.AccessClaims, error)
}

// AuthMiddleware проверяет JWT access токен и кладёт участника в контекст.
func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			response.Abort(c, apperror.ErrUnauthorized)
			return
		}

		claims, err := tokens.ParseAccess(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			response.Abort(c, apperror.New(apperror.ErrCodeUnauthorized, "токен невалиден"))
			return
		}

		c.Set(ContextPartyKey, claims.Party)
		c.Set(ContextUsernameKey, claims.Username)
		c.Next()
	}
}

// RequireKind пропускает только участников указанного вида.
func RequireKind(kind models.PartyKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		party, ok := PartyFrom(c)
		if !ok {
			response.Abort(c, apperror.ErrUnauthorized)
			return
		}
		if party.Kind != kind {
			response.Abort(c, apperror.ErrForbidden)
			return
		}
		c.Next()
	}
}

// PartyFrom возвращает аутентифицированного участника.
func PartyFrom(c *gin.Context) (models.Party, bool) {
	raw, exists := c.Get(ContextPartyKey)
	if !exists {
		return models.Party{}, false
	}
	party, ok := raw.(models.Party)
	return party, ok
}

// UsernameFrom возвращает логин аутентифицированного участника.
func UsernameFrom(c *gin.Context) (string, bool) {
	raw, exists := c.Get(ContextUsernameKey)
	if !exists {
		return "", false
	}
	username, ok := raw.(string)
	return username, ok && username != ""
}
