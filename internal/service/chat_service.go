package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/cityreport-backend/internal/dto"
	"github.com/ignatzorin/cityreport-backend/internal/models"
	"github.com/ignatzorin/cityreport-backend/internal/pkg/apperror"
	"github.com/ignatzorin/cityreport-backend/internal/validation"
)

// NotificationRecorder сохраняет уведомление без отдельной живой доставки.
type NotificationRecorder interface {
	Record(ctx context.Context, userID int64, content, notificationType string) (*models.Notification, error)
}

// ChatService ведёт два вида чатов обращения и маршрутизирует сообщения.
type ChatService struct {
	chats         ChatStore
	messages      MessageStore
	reports       ReportStore
	notifications NotificationRecorder
	presence      Presence
	log           logrus.FieldLogger
}

// NewChatService создаёт сервис чатов.
func NewChatService(chats ChatStore, messages MessageStore, reports ReportStore, notifications NotificationRecorder, presence Presence, log logrus.FieldLogger) *ChatService {
	return &ChatService{
		chats:         chats,
		messages:      messages,
		reports:       reports,
		notifications: notifications,
		presence:      presence,
		log:           log.WithField("component", "chats"),
	}
}

// EnsureOfficerUserChat возвращает чат исполнителя с гражданином, создавая его при необходимости.
func (s *ChatService) EnsureOfficerUserChat(ctx context.Context, report *models.Report) (*models.Chat, error) {
	return s.ensure(ctx, report.ID, models.ChatTypeOfficerUser)
}

// EnsureLeadExternalChat возвращает чат руководителя с внешним исполнителем.
func (s *ChatService) EnsureLeadExternalChat(ctx context.Context, report *models.Report) (*models.Chat, error) {
	return s.ensure(ctx, report.ID, models.ChatTypeLeadExternal)
}

// EnsureChat создаёт чат указанного вида для существующего обращения.
func (s *ChatService) EnsureChat(ctx context.Context, reportID int64, chatType models.ChatType) (*models.Chat, error) {
	var ensure func(context.Context, *models.Report) (*models.Chat, error)
	switch chatType {
	case models.ChatTypeOfficerUser:
		ensure = s.EnsureOfficerUserChat
	case models.ChatTypeLeadExternal:
		ensure = s.EnsureLeadExternalChat
	default:
		return nil, apperror.Invalid("неизвестный вид чата %q", chatType)
	}

	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	return ensure(ctx, report)
}

func (s *ChatService) ensure(ctx context.Context, reportID int64, chatType models.ChatType) (*models.Chat, error) {
	existing, err := s.chats.FindByReportAndType(ctx, reportID, chatType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	// Уникальный индекс (report_id, type) защищает от гонки двух назначений.
	chat := &models.Chat{ReportID: reportID, Type: chatType}
	if err := s.chats.Create(ctx, chat); err != nil {
		return nil, fmt.Errorf("chat service: create %s: %w", chatType, err)
	}

	s.log.WithFields(logrus.Fields{"report_id": reportID, "chat_id": chat.ID, "type": chatType}).Info("чат создан")
	return chat, nil
}

// ChatsForReport возвращает чаты обращения.
func (s *ChatService) ChatsForReport(ctx context.Context, reportID int64) ([]models.Chat, error) {
	return s.chats.ListByReport(ctx, reportID)
}

// GetChat возвращает чат вместе с его обращением.
func (s *ChatService) GetChat(ctx context.Context, chatID int64) (*models.Chat, *models.Report, error) {
	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		return nil, nil, err
	}
	report, err := s.reports.GetByID(ctx, chat.ReportID)
	if err != nil {
		return nil, nil, err
	}
	return chat, report, nil
}

// SendMessage сохраняет сообщение и доставляет его адресату, определённому ролью автора.
func (s *ChatService) SendMessage(ctx context.Context, chatID int64, sender models.SenderRole, content string) (*models.Message, error) {
	if !sender.IsValid() {
		return nil, apperror.Invalid("неизвестная роль отправителя %q", sender)
	}
	if err := validation.ValidateMessageContent(content); err != nil {
		return nil, apperror.Invalid("%s", err.Error())
	}

	chat, report, err := s.GetChat(ctx, chatID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ChatID:  chat.ID,
		Content: strings.TrimSpace(content),
		Sender:  sender,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("chat service: create message: %w", err)
	}

	route := routeMessage(chat, report, sender)
	if route.audience == nil {
		s.log.WithFields(logrus.Fields{"chat_id": chat.ID, "sender": sender}).Debug("у сообщения нет адресата")
		return msg, nil
	}

	event := dto.MessageEvent{Message: dto.NewMessageResponse(msg)}
	if route.notify {
		n, err := s.notifications.Record(ctx, route.audience.ID, newMessageText(report), models.NotificationTypeNewMessage)
		if err != nil {
			return nil, err
		}
		event.Notification = dto.NewNotificationResponse(n)
	}

	pushLive(s.presence, s.log, *route.audience, EventNewMessage, event)
	return msg, nil
}

// MessagesForReport возвращает переписку чата указанного вида от старых сообщений к новым.
func (s *ChatService) MessagesForReport(ctx context.Context, reportID int64, chatType models.ChatType) ([]models.Message, error) {
	if !chatType.IsValid() {
		return nil, apperror.Invalid("неизвестный вид чата %q", chatType)
	}

	chat, err := s.chats.FindByReportAndType(ctx, reportID, chatType)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, apperror.ErrChatNotFound
	}

	messages, err := s.messages.ListByChat(ctx, chat.ID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

type messageRoute struct {
	audience *models.Party
	notify   bool
}

// routeMessage выбирает адресата. Гражданину пишут исполнитель и руководитель от его имени,
// такие сообщения дублируются уведомлением. Переписка сотрудников уведомлений не создаёт.
func routeMessage(chat *models.Chat, report *models.Report, sender models.SenderRole) messageRoute {
	citizen := func() *models.Party {
		if report.User == nil {
			return nil
		}
		p := models.UserParty(report.User.ID)
		return &p
	}
	officer := func(o *models.Officer) *models.Party {
		if o == nil {
			return nil
		}
		p := models.OfficerParty(o.ID)
		return &p
	}

	switch sender {
	case models.SenderOfficer:
		return messageRoute{audience: citizen(), notify: true}
	case models.SenderCitizen:
		return messageRoute{audience: officer(report.Officer)}
	case models.SenderLead:
		if chat.Type == models.ChatTypeOfficerUser {
			return messageRoute{audience: citizen(), notify: true}
		}
		return messageRoute{audience: officer(report.Officer)}
	case models.SenderExternal:
		return messageRoute{audience: officer(report.LeadOfficer)}
	}
	return messageRoute{}
}

func newMessageText(report *models.Report) string {
	return fmt.Sprintf("Новое сообщение от сотрудника по обращению «%s»", report.Title)
}
