package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/cityreport-backend/internal/dto"
	"github.com/ignatzorin/cityreport-backend/internal/http/response"
	"github.com/ignatzorin/cityreport-backend/internal/models"
	"github.com/ignatzorin/cityreport-backend/internal/pkg/apperror"
)

// ChatHandler обслуживает чаты обращений.
type ChatHandler struct {
	chats   ChatUseCase
	reports ReportUseCase
}

// NewChatHandler создаёт новый хэндлер.
func NewChatHandler(chats ChatUseCase, reports ReportUseCase) *ChatHandler {
	return &ChatHandler{chats: chats, reports: reports}
}

// CreateChat обрабатывает POST /reports/:id/chats. Повторный вызов возвращает тот же чат.
func (h *ChatHandler) CreateChat(c *gin.Context) {
	reportID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	chat, err := h.chats.EnsureChat(c.Request.Context(), reportID, models.ChatType(req.Type))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ChatSummary{ID: chat.ID, Type: string(chat.Type)})
}

// ListMessages обрабатывает GET /reports/:id/chats/:type/messages.
// Гражданин читает только чат с исполнителем по своему обращению.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	party, ok := currentParty(c)
	if !ok {
		return
	}
	reportID, ok := paramID(c, "id")
	if !ok {
		return
	}
	chatType := models.ChatType(c.Param("type"))
	ctx := c.Request.Context()

	if party.Kind == models.PartyUser {
		report, err := h.reports.GetReport(ctx, reportID)
		if err != nil {
			response.Error(c, err)
			return
		}
		if !ownsReport(party, report) || chatType != models.ChatTypeOfficerUser {
			response.Error(c, apperror.ErrForbidden)
			return
		}
	}

	messages, err := h.chats.MessagesForReport(ctx, reportID, chatType)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.NewMessageResponses(messages))
}

// SendMessage обрабатывает POST /chats/:chatId/messages.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	party, ok := currentParty(c)
	if !ok {
		return
	}
	chatID, ok := paramID(c, "chatId")
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	ctx := c.Request.Context()
	chat, report, err := h.chats.GetChat(ctx, chatID)
	if err != nil {
		response.Error(c, err)
		return
	}

	sender, err := senderFor(party, chat, report, models.SenderRole(req.SenderRole))
	if err != nil {
		response.Error(c, err)
		return
	}

	msg, err := h.chats.SendMessage(ctx, chat.ID, sender, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.NewMessageResponse(msg))
}

// senderFor определяет роль автора. Гражданин пишет только в свой чат с исполнителем.
// Сотрудник может указать роль явно, но только ту, что соответствует его месту в назначении
// обращения и виду чата. Без явной роли берётся первая допустимая.
func senderFor(party models.Party, chat *models.Chat, report *models.Report, requested models.SenderRole) (models.SenderRole, error) {
	if party.Kind == models.PartyUser {
		if !ownsReport(party, report) || chat.Type != models.ChatTypeOfficerUser {
			return "", apperror.ErrForbidden
		}
		return models.SenderCitizen, nil
	}

	if requested == models.SenderCitizen {
		return "", apperror.ErrForbidden
	}
	if requested != "" && !requested.IsValid() {
		return "", apperror.Invalid("неизвестная роль отправителя %q", requested)
	}

	allowed := officerRoles(party, chat, report)
	if len(allowed) == 0 {
		return "", apperror.ErrForbidden
	}
	if requested == "" {
		return allowed[0], nil
	}
	for _, role := range allowed {
		if role == requested {
			return role, nil
		}
	}
	return "", apperror.ErrForbidden
}

// officerRoles роли, от имени которых сотрудник может писать в чат, в порядке предпочтения.
func officerRoles(party models.Party, chat *models.Chat, report *models.Report) []models.SenderRole {
	isLead := report.LeadOfficer != nil && report.LeadOfficer.ID == party.ID
	isAssigned := report.Officer != nil && report.Officer.ID == party.ID

	var roles []models.SenderRole
	if isLead {
		roles = append(roles, models.SenderLead)
	}
	switch chat.Type {
	case models.ChatTypeOfficerUser:
		if isAssigned {
			roles = append(roles, models.SenderOfficer)
		}
	case models.ChatTypeLeadExternal:
		if isAssigned && report.Officer.External {
			roles = append(roles, models.SenderExternal)
		}
	}
	return roles
}
