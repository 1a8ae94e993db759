package handlers

import (
	"context"
	"io"

	"github.com/ignatzorin/cityreport-backend/internal/models"
	"github.com/ignatzorin/cityreport-backend/internal/service"
)

// AuthUseCase регистрация и вход.
type AuthUseCase interface {
	RegisterCitizen(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error)
	LoginCitizen(ctx context.Context, username, password string) (*service.AuthResult, error)
	LoginOfficer(ctx context.Context, username, password string) (*service.AuthResult, error)
}

// ReportUseCase жизненный цикл обращения.
type ReportUseCase interface {
	CreateReport(ctx context.Context, sub service.ReportSubmission) (*models.Report, error)
	GetReport(ctx context.Context, id int64) (*models.Report, error)
	ListReports(ctx context.Context, filter models.ReportFilter) ([]models.Report, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	UpdateStatus(ctx context.Context, id int64, status models.ReportStatus, explanation string) (*models.Report, error)
	AssignOfficerByID(ctx context.Context, reportID, officerID int64, leadOfficerID *int64) (*models.Report, error)
	AssignTechAgent(ctx context.Context, reportID int64, officerUsername, techLeadUsername string) (*models.Report, error)
}

// ChatUseCase переписка по обращению.
type ChatUseCase interface {
	EnsureChat(ctx context.Context, reportID int64, chatType models.ChatType) (*models.Chat, error)
	GetChat(ctx context.Context, chatID int64) (*models.Chat, *models.Report, error)
	SendMessage(ctx context.Context, chatID int64, sender models.SenderRole, content string) (*models.Message, error)
	MessagesForReport(ctx context.Context, reportID int64, chatType models.ChatType) ([]models.Message, error)
}

// NotificationUseCase уведомления гражданина.
type NotificationUseCase interface {
	ListForUser(ctx context.Context, username string) ([]models.Notification, error)
	CountUnread(ctx context.Context, username string) (int, error)
	MarkRead(ctx context.Context, id int64, username string) (*models.Notification, error)
	MarkAllRead(ctx context.Context, username string) error
	Delete(ctx context.Context, id int64, username string) error
}

// PhotoStore файловое хранилище фотографий.
type PhotoStore interface {
	Save(ctx context.Context, r io.Reader) (string, int64, error)
	Delete(ctx context.Context, relativePath string) error
}
