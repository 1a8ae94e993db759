package handlers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/cityreport-backend/internal/dto"
	"github.com/ignatzorin/cityreport-backend/internal/http/response"
	"github.com/ignatzorin/cityreport-backend/internal/models"
	"github.com/ignatzorin/cityreport-backend/internal/pkg/apperror"
	"github.com/ignatzorin/cityreport-backend/internal/service"
	"github.com/ignatzorin/cityreport-backend/internal/storage"
)

// ReportHandler обслуживает маршруты обращений.
type ReportHandler struct {
	reports ReportUseCase
	photos  PhotoStore
	log     logrus.FieldLogger
}

// NewReportHandler создаёт новый хэндлер.
func NewReportHandler(reports ReportUseCase, photos PhotoStore, log logrus.FieldLogger) *ReportHandler {
	return &ReportHandler{reports: reports, photos: photos, log: log}
}

// CreateReport обрабатывает POST /reports (multipart/form-data, фотографии в полях "photos").
func (h *ReportHandler) CreateReport(c *gin.Context) {
	party, ok := currentParty(c)
	if !ok {
		return
	}

	var req dto.CreateReportRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "ожидается multipart/form-data")
		return
	}
	files := form.File["photos"]
	if len(files) < models.MinReportPhotos || len(files) > models.MaxReportPhotos {
		response.BadRequest(c, fmt.Sprintf("нужно приложить от %d до %d фотографий", models.MinReportPhotos, models.MaxReportPhotos))
		return
	}

	ctx := c.Request.Context()
	paths, err := h.savePhotos(ctx, files)
	if err != nil {
		response.Error(c, err)
		return
	}

	report, err := h.reports.CreateReport(ctx, service.ReportSubmission{
		UserID:      party.ID,
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Anonymous:   req.Anonymous,
		Photos:      paths,
	})
	if err != nil {
		h.discardPhotos(paths)
		response.Error(c, err)
		return
	}

	response.Created(c, dto.NewReportResponse(report))
}

// savePhotos сохраняет файлы. При ошибке уже сохранённые удаляются.
func (h *ReportHandler) savePhotos(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	paths := make([]string, 0, len(files))
	for _, fh := range files {
		path, err := h.savePhoto(ctx, fh)
		if err != nil {
			h.discardPhotos(paths)
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (h *ReportHandler) savePhoto(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", apperror.Invalid("не удалось прочитать файл %s", fh.Filename)
	}
	defer f.Close()

	path, _, err := h.photos.Save(ctx, f)
	switch {
	case errors.Is(err, storage.ErrUnsupportedType), errors.Is(err, storage.ErrTooLarge):
		return "", apperror.Invalid("%s: %s", fh.Filename, err.Error())
	case err != nil:
		return "", apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сохранить фотографию")
	}
	return path, nil
}

// discardPhotos удаляет файлы, которые не попали в обращение.
func (h *ReportHandler) discardPhotos(paths []string) {
	for _, p := range paths {
		if err := h.photos.Delete(context.Background(), p); err != nil {
			h.log.WithError(err).WithField("path", p).Warn("не удалось удалить фотографию")
		}
	}
}

// GetReport обрабатывает GET /reports/:id. Гражданин видит только свои обращения.
func (h *ReportHandler) GetReport(c *gin.Context) {
	party, ok := currentParty(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	report, err := h.reports.GetReport(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if party.Kind == models.PartyUser && !ownsReport(party, report) {
		response.Error(c, apperror.ErrForbidden)
		return
	}

	response.Success(c, dto.NewReportResponse(report))
}

// ListReports обрабатывает GET /reports.
// Сотрудник фильтрует по status, officer_id, user_id; гражданин получает только свои обращения.
func (h *ReportHandler) ListReports(c *gin.Context) {
	party, ok := currentParty(c)
	if !ok {
		return
	}

	filter := models.ReportFilter{
		Limit:  parseIntQuery(c, "limit", models.DefaultPageLimit),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if v := c.Query("status"); v != "" {
		status := models.ReportStatus(v)
		filter.Status = &status
	}

	if party.Kind == models.PartyUser {
		filter.UserID = &party.ID
	} else {
		if filter.OfficerID, ok = optionalIDQuery(c, "officer_id"); !ok {
			return
		}
		if filter.UserID, ok = optionalIDQuery(c, "user_id"); !ok {
			return
		}
	}

	// Ответ должен сообщать то окно, которое реально выбрано.
	filter.Normalize()

	reports, err := h.reports.ListReports(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dto.NewReportResponses(reports), len(reports), filter.Limit, filter.Offset)
}

func optionalIDQuery(c *gin.Context, key string) (*int64, bool) {
	v := c.Query(key)
	if v == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "параметр "+key+" должен быть положительным числом")
		return nil, false
	}
	return &id, true
}

// UpdateStatus обрабатывает PUT /reports/:id/status.
func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	report, err := h.reports.UpdateStatus(c.Request.Context(), id, models.ReportStatus(req.Status), req.Explanation)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.NewReportResponse(report))
}

// AssignOfficer обрабатывает PUT /reports/:id/officer.
func (h *ReportHandler) AssignOfficer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req dto.AssignOfficerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	report, err := h.reports.AssignOfficerByID(c.Request.Context(), id, req.OfficerID, req.LeadOfficerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.NewReportResponse(report))
}

// AssignTechAgent обрабатывает PUT /reports/:id/tech-agent.
// Руководителем по умолчанию считается сам вызывающий сотрудник.
func (h *ReportHandler) AssignTechAgent(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req dto.AssignTechAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}
	lead := req.TechLeadUsername
	if lead == "" {
		lead = username
	}

	report, err := h.reports.AssignTechAgent(c.Request.Context(), id, req.OfficerUsername, lead)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.NewReportResponse(report))
}
