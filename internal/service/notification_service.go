package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/cityreport-backend/internal/dto"
	"github.com/ignatzorin/cityreport-backend/internal/models"
	"github.com/ignatzorin/cityreport-backend/internal/pkg/apperror"
)

// NotificationService сохраняет уведомления граждан и доставляет их онлайн.
type NotificationService struct {
	repo     NotificationStore
	users    UserStore
	presence Presence
	log      logrus.FieldLogger
}

// NewNotificationService создаёт новый сервис уведомлений.
func NewNotificationService(repo NotificationStore, users UserStore, presence Presence, log logrus.FieldLogger) *NotificationService {
	return &NotificationService{
		repo:     repo,
		users:    users,
		presence: presence,
		log:      log.WithField("component", "notifications"),
	}
}

// Record сохраняет непрочитанное уведомление без живой доставки.
func (s *NotificationService) Record(ctx context.Context, userID int64, content, notificationType string) (*models.Notification, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperror.Invalid("текст уведомления обязателен")
	}
	if strings.TrimSpace(notificationType) == "" {
		return nil, apperror.Invalid("тип уведомления обязателен")
	}

	n := &models.Notification{
		UserID:  userID,
		Content: content,
		Type:    notificationType,
		IsRead:  false,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("notification service: create: %w", err)
	}
	return n, nil
}

// Notify сохраняет уведомление и отправляет его владельцу, если он на связи.
func (s *NotificationService) Notify(ctx context.Context, userID int64, content, notificationType string) (*models.Notification, error) {
	n, err := s.Record(ctx, userID, content, notificationType)
	if err != nil {
		return nil, err
	}

	pushLive(s.presence, s.log, models.UserParty(userID), EventNewNotification, dto.NewNotificationResponse(n))
	return n, nil
}

// ListForUser возвращает уведомления пользователя, новые первыми.
func (s *NotificationService) ListForUser(ctx context.Context, username string) ([]models.Notification, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, user.ID)
}

// CountUnread возвращает количество непрочитанных уведомлений.
func (s *NotificationService) CountUnread(ctx context.Context, username string) (int, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	return s.repo.CountUnread(ctx, user.ID)
}

// MarkRead отмечает уведомление как прочитанное.
func (s *NotificationService) MarkRead(ctx context.Context, id int64, username string) (*models.Notification, error) {
	n, err := s.owned(ctx, id, username)
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkAsRead(ctx, id); err != nil {
		return nil, err
	}
	n.IsRead = true
	return n, nil
}

// MarkAllRead отмечает все уведомления пользователя как прочитанные.
func (s *NotificationService) MarkAllRead(ctx context.Context, username string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.repo.MarkAllAsRead(ctx, user.ID)
}

// Delete удаляет уведомление владельца.
func (s *NotificationService) Delete(ctx context.Context, id int64, username string) error {
	if _, err := s.owned(ctx, id, username); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// owned проверяет, что уведомление существует и принадлежит пользователю.
func (s *NotificationService) owned(ctx context.Context, id int64, username string) (*models.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.ErrForbidden
		}
		return nil, err
	}

	if n.UserID != user.ID {
		return nil, apperror.ErrForbidden
	}
	return n, nil
}
