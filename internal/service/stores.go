package service

import (
	"context"

	"github.com/ignatzorin/cityreport-backend/internal/models"
	"github.com/ignatzorin/cityreport-backend/internal/ws"
)

// ReportStore хранилище обращений. GetByID загружает пользователя, категорию,
// исполнителя, руководителя, фотографии и чаты.
type ReportStore interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id int64) (*models.Report, error)
	Update(ctx context.Context, report *models.Report) error
	List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error)
}

// ChatStore хранилище чатов.
type ChatStore interface {
	GetByID(ctx context.Context, id int64) (*models.Chat, error)
	// FindByReportAndType возвращает nil без ошибки, если чата нет.
	FindByReportAndType(ctx context.Context, reportID int64, chatType models.ChatType) (*models.Chat, error)
	// Create идемпотентен по (report_id, type): при конфликте заполняет chat существующей записью.
	Create(ctx context.Context, chat *models.Chat) error
	ListByReport(ctx context.Context, reportID int64) ([]models.Chat, error)
}

// MessageStore хранилище сообщений.
type MessageStore interface {
	Create(ctx context.Context, msg *models.Message) error
	// ListByChat возвращает сообщения от старых к новым.
	ListByChat(ctx context.Context, chatID int64) ([]models.Message, error)
}

// NotificationStore хранилище уведомлений.
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id int64) (*models.Notification, error)
	// ListByUser возвращает уведомления от новых к старым.
	ListByUser(ctx context.Context, userID int64) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
	Delete(ctx context.Context, id int64) error
	CountUnread(ctx context.Context, userID int64) (int, error)
}

// OfficerDirectory справочник сотрудников.
type OfficerDirectory interface {
	GetByUsername(ctx context.Context, username string) (*models.Officer, error)
	GetByID(ctx context.Context, id int64) (*models.Officer, error)
	// FirstInternal возвращает внутреннего сотрудника с наименьшим id или nil.
	FirstInternal(ctx context.Context) (*models.Officer, error)
}

// UserStore хранилище граждан.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// CategoryStore справочник категорий.
type CategoryStore interface {
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

// Presence отвечает на вопрос, на связи ли участник.
type Presence interface {
	Lookup(party models.Party) (ws.LiveChannel, bool)
}
