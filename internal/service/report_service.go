package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/cityreport-backend/internal/models"
	"github.com/ignatzorin/cityreport-backend/internal/pkg/apperror"
	"github.com/ignatzorin/cityreport-backend/internal/validation"
)

// ChatEnsurer создаёт чаты обращения идемпотентно.
type ChatEnsurer interface {
	EnsureOfficerUserChat(ctx context.Context, report *models.Report) (*models.Chat, error)
	EnsureLeadExternalChat(ctx context.Context, report *models.Report) (*models.Chat, error)
}

// Notifier сохраняет уведомление и доставляет его онлайн.
type Notifier interface {
	Notify(ctx context.Context, userID int64, content, notificationType string) (*models.Notification, error)
}

// ReportSubmission данные нового обращения. Photos содержит уже сохранённые относительные пути.
type ReportSubmission struct {
	UserID      int64
	CategoryID  int64
	Title       string
	Description string
	Latitude    float64
	Longitude   float64
	Anonymous   bool
	Photos      []string
}

// ReportService жизненный цикл обращения: создание, статусы и назначение исполнителей.
type ReportService struct {
	reports    ReportStore
	categories CategoryStore
	users      UserStore
	officers   OfficerDirectory
	chats      ChatEnsurer
	notifier   Notifier
	policy     AssignmentPolicy
	log        logrus.FieldLogger
}

// NewReportService создаёт сервис обращений. policy может быть nil.
func NewReportService(
	reports ReportStore,
	categories CategoryStore,
	users UserStore,
	officers OfficerDirectory,
	chats ChatEnsurer,
	notifier Notifier,
	policy AssignmentPolicy,
	log logrus.FieldLogger,
) *ReportService {
	if policy == nil {
		policy = NoDefaultOfficer{}
	}
	return &ReportService{
		reports:    reports,
		categories: categories,
		users:      users,
		officers:   officers,
		chats:      chats,
		notifier:   notifier,
		policy:     policy,
		log:        log.WithField("component", "reports"),
	}
}

// CreateReport создаёт обращение в статусе Pending Approval.
func (s *ReportService) CreateReport(ctx context.Context, sub ReportSubmission) (*models.Report, error) {
	if err := validateSubmission(sub); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, sub.UserID)
	if err != nil {
		return nil, err
	}
	category, err := s.categories.GetByID(ctx, sub.CategoryID)
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		Title:       strings.TrimSpace(sub.Title),
		Description: strings.TrimSpace(sub.Description),
		Latitude:    sub.Latitude,
		Longitude:   sub.Longitude,
		Status:      models.ReportStatusPendingApproval,
		Anonymous:   sub.Anonymous,
		User:        user,
		Category:    category,
	}
	for _, path := range sub.Photos {
		report.Photos = append(report.Photos, models.Photo{Path: path})
	}

	officer, err := s.policy.DefaultOfficer(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("report service: default officer: %w", err)
	}
	if officer != nil && officer.External {
		// Внешнему исполнителю нужен руководитель, которого при создании нет.
		s.log.WithField("officer_id", officer.ID).Warn("политика выбрала внешнего сотрудника, назначение пропущено")
		officer = nil
	}
	report.Officer = officer

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("report service: create: %w", err)
	}

	// Чат с гражданином привязан к id обращения, поэтому создаётся после записи.
	if officer != nil {
		chats, err := s.ensureChats(ctx, report, officer)
		if err != nil {
			return nil, err
		}
		report.Chats = mergeChats(report.Chats, chats)
	}

	s.log.WithFields(logrus.Fields{"report_id": report.ID, "user_id": user.ID}).Info("обращение создано")
	return report, nil
}

// GetReport возвращает обращение со всеми связями.
func (s *ReportService) GetReport(ctx context.Context, id int64) (*models.Report, error) {
	return s.reports.GetByID(ctx, id)
}

// ListCategories возвращает справочник категорий.
func (s *ReportService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// ListReports возвращает обращения по фильтру.
func (s *ReportService) ListReports(ctx context.Context, filter models.ReportFilter) ([]models.Report, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, apperror.Invalid("неизвестный статус %q", *filter.Status)
	}
	filter.Normalize()
	return s.reports.List(ctx, filter)
}

// UpdateStatus переводит обращение в новый статус и уведомляет автора.
// Таблица переходов не проверяется: сотрудник может исправить ошибочный статус.
func (s *ReportService) UpdateStatus(ctx context.Context, id int64, status models.ReportStatus, explanation string) (*models.Report, error) {
	if !status.IsValid() {
		return nil, apperror.Invalid("неизвестный статус %q", status)
	}
	if err := validation.ValidateExplanation(explanation); err != nil {
		return nil, apperror.Invalid("%s", err.Error())
	}

	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := report.Status
	updated := *report
	updated.Status = status
	updated.Explanation = explanation
	if err := s.reports.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("report service: update status: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"report_id": id,
		"from":      previous,
		"to":        status,
	}).Info("статус обращения изменён")

	if updated.User != nil {
		content := fmt.Sprintf("Статус вашего обращения «%s» изменён на «%s»", updated.Title, status)
		if _, err := s.notifier.Notify(ctx, updated.User.ID, content, models.NotificationTypeStatusChanged); err != nil {
			return nil, err
		}
	}
	return &updated, nil
}

// AssignOfficer назначает исполнителя. Внешнему исполнителю назначается руководитель и
// создаются оба чата, внутреннему только чат с гражданином, руководитель сбрасывается.
// Повторное назначение не создаёт дублей чатов.
func (s *ReportService) AssignOfficer(ctx context.Context, reportID int64, officer, lead *models.Officer) (*models.Report, error) {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if officer == nil {
		return nil, apperror.Invalid("исполнитель обязателен")
	}
	if officer.External {
		if lead == nil {
			return nil, apperror.Invalid("для внешнего исполнителя нужен руководитель")
		}
		if lead.External {
			return nil, apperror.Invalid("руководителем может быть только сотрудник муниципалитета")
		}
	} else {
		lead = nil
	}

	// Чаты создаются до записи обращения: обращение не должно ссылаться на несуществующий чат.
	ensured, err := s.ensureChats(ctx, report, officer)
	if err != nil {
		return nil, err
	}

	updated := *report
	updated.Officer = officer
	updated.LeadOfficer = lead
	updated.Chats = mergeChats(report.Chats, ensured)
	if err := s.reports.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("report service: assign officer: %w", err)
	}

	fields := logrus.Fields{"report_id": reportID, "officer_id": officer.ID, "external": officer.External}
	if lead != nil {
		fields["lead_officer_id"] = lead.ID
	}
	s.log.WithFields(fields).Info("исполнитель назначен")
	return &updated, nil
}

// AssignOfficerByID находит сотрудников по id и назначает их.
func (s *ReportService) AssignOfficerByID(ctx context.Context, reportID, officerID int64, leadOfficerID *int64) (*models.Report, error) {
	officer, err := s.officers.GetByID(ctx, officerID)
	if err != nil {
		return nil, err
	}

	var lead *models.Officer
	if leadOfficerID != nil && officer.External {
		lead, err = s.officers.GetByID(ctx, *leadOfficerID)
		if err != nil {
			return nil, asTechLeadNotFound(err)
		}
	}
	return s.AssignOfficer(ctx, reportID, officer, lead)
}

// AssignTechAgent используется руководителем, передающим обращение исполнителю.
// Исполнитель ищется первым, поэтому при двух отсутствующих сотрудниках ошибка OFFICER_NOT_FOUND.
func (s *ReportService) AssignTechAgent(ctx context.Context, reportID int64, officerUsername, techLeadUsername string) (*models.Report, error) {
	officer, err := s.officers.GetByUsername(ctx, officerUsername)
	if err != nil {
		return nil, err
	}

	lead, err := s.officers.GetByUsername(ctx, techLeadUsername)
	if err != nil {
		return nil, asTechLeadNotFound(err)
	}

	return s.AssignOfficer(ctx, reportID, officer, lead)
}

func asTechLeadNotFound(err error) error {
	if errors.Is(err, apperror.ErrOfficerNotFound) {
		return apperror.ErrTechLeadNotFound
	}
	return err
}

// ensureChats создаёт чаты, которых требует назначение officer.
func (s *ReportService) ensureChats(ctx context.Context, report *models.Report, officer *models.Officer) ([]models.Chat, error) {
	required := []func(context.Context, *models.Report) (*models.Chat, error){s.chats.EnsureOfficerUserChat}
	if officer.External {
		required = append(required, s.chats.EnsureLeadExternalChat)
	}
	ensured := make([]models.Chat, 0, len(required))
	for _, ensure := range required {
		chat, err := ensure(ctx, report)
		if err != nil {
			return nil, err
		}
		ensured = append(ensured, *chat)
	}
	return ensured, nil
}

// mergeChats заменяет чаты того же вида, сохраняя остальные.
func mergeChats(existing, ensured []models.Chat) []models.Chat {
	out := make([]models.Chat, 0, len(existing)+len(ensured))
	seen := make(map[models.ChatType]struct{}, len(ensured))
	for _, c := range ensured {
		seen[c.Type] = struct{}{}
	}
	for _, c := range existing {
		if _, ok := seen[c.Type]; !ok {
			out = append(out, c)
		}
	}
	return append(out, ensured...)
}

func validateSubmission(sub ReportSubmission) error {
	if err := validation.ValidateReportTitle(sub.Title); err != nil {
		return apperror.Invalid("%s", err.Error())
	}
	if err := validation.ValidateReportDescription(sub.Description); err != nil {
		return apperror.Invalid("%s", err.Error())
	}
	if err := validation.ValidateCoordinates(sub.Latitude, sub.Longitude); err != nil {
		return apperror.Invalid("%s", err.Error())
	}
	if n := len(sub.Photos); n < models.MinReportPhotos || n > models.MaxReportPhotos {
		return apperror.Invalid("к обращению нужно приложить от %d до %d фотографий", models.MinReportPhotos, models.MaxReportPhotos)
	}
	for _, p := range sub.Photos {
		if strings.TrimSpace(p) == "" {
			return apperror.Invalid("пустой путь фотографии")
		}
	}
	return nil
}
