package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/cityreport-backend/internal/http/middleware"
	"github.com/ignatzorin/cityreport-backend/internal/http/response"
	"github.com/ignatzorin/cityreport-backend/internal/models"
	"github.com/ignatzorin/cityreport-backend/internal/pkg/apperror"
)

// currentParty извлекает участника из контекста. При отсутствии отвечает 401.
func currentParty(c *gin.Context) (models.Party, bool) {
	party, ok := middleware.PartyFrom(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized)
	}
	return party, ok
}

// currentUsername извлекает логин из контекста. При отсутствии отвечает 401.
func currentUsername(c *gin.Context) (string, bool) {
	username, ok := middleware.UsernameFrom(c)
	if !ok {
		response.Error(c, apperror.ErrUnauthorized)
	}
	return username, ok
}

// paramID читает числовой параметр пути. При ошибке отвечает 400.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "параметр "+name+" должен быть положительным числом")
		return 0, false
	}
	return id, true
}

func parseIntQuery(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// ownsReport сообщает, что гражданин является автором обращения.
func ownsReport(party models.Party, report *models.Report) bool {
	return party.Kind == models.PartyUser && report.User != nil && report.User.ID == party.ID
}
