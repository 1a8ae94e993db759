package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/cityreport-backend/internal/dto"
	"github.com/ignatzorin/cityreport-backend/internal/http/response"
)

// ListCategories обрабатывает GET /categories.
func (h *ReportHandler) ListCategories(c *gin.Context) {
	categories, err := h.reports.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewCategoryResponses(categories))
}
