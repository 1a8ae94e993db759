package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/cityreport-backend/internal/http/response"
)

// IDValidator проверяет, что параметр с указанным именем является положительным целым числом.
// Использование: router.GET("/reports/:id", IDValidator("id"), handler.GetReport)
func IDValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param(paramName)
		if idStr == "" {
			response.BadRequest(c, "параметр "+paramName+" обязателен")
			c.Abort()
			return
		}

		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil || id <= 0 {
			response.BadRequest(c, "параметр "+paramName+" должен быть положительным числом")
			c.Abort()
			return
		}

		c.Next()
	}
}
