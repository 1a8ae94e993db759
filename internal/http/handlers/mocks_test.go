package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/cityreport-backend/internal/http/middleware"
	"github.com/ignatzorin/cityreport-backend/internal/models"
	"github.com/ignatzorin/cityreport-backend/internal/service"
)

type mockAuth struct{ mock.Mock }

func (m *mockAuth) RegisterCitizen(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*service.AuthResult)
	return res, args.Error(1)
}

func (m *mockAuth) LoginCitizen(ctx context.Context, username, password string) (*service.AuthResult, error) {
	args := m.Called(ctx, username, password)
	res, _ := args.Get(0).(*service.AuthResult)
	return res, args.Error(1)
}

func (m *mockAuth) LoginOfficer(ctx context.Context, username, password string) (*service.AuthResult, error) {
	args := m.Called(ctx, username, password)
	res, _ := args.Get(0).(*service.AuthResult)
	return res, args.Error(1)
}

type mockReports struct{ mock.Mock }

func (m *mockReports) CreateReport(ctx context.Context, sub service.ReportSubmission) (*models.Report, error) {
	args := m.Called(ctx, sub)
	r, _ := args.Get(0).(*models.Report)
	return r, args.Error(1)
}

func (m *mockReports) GetReport(ctx context.Context, id int64) (*models.Report, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*models.Report)
	return r, args.Error(1)
}

func (m *mockReports) ListReports(ctx context.Context, filter models.ReportFilter) ([]models.Report, error) {
	args := m.Called(ctx, filter)
	r, _ := args.Get(0).([]models.Report)
	return r, args.Error(1)
}

func (m *mockReports) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).([]models.Category)
	return r, args.Error(1)
}

func (m *mockReports) UpdateStatus(ctx context.Context, id int64, status models.ReportStatus, explanation string) (*models.Report, error) {
	args := m.Called(ctx, id, status, explanation)
	r, _ := args.Get(0).(*models.Report)
	return r, args.Error(1)
}

func (m *mockReports) AssignOfficerByID(ctx context.Context, reportID, officerID int64, leadOfficerID *int64) (*models.Report, error) {
	args := m.Called(ctx, reportID, officerID, leadOfficerID)
	r, _ := args.Get(0).(*models.Report)
	return r, args.Error(1)
}

func (m *mockReports) AssignTechAgent(ctx context.Context, reportID int64, officerUsername, techLeadUsername string) (*models.Report, error) {
	args := m.Called(ctx, reportID, officerUsername, techLeadUsername)
	r, _ := args.Get(0).(*models.Report)
	return r, args.Error(1)
}

type mockChats struct{ mock.Mock }

func (m *mockChats) EnsureChat(ctx context.Context, reportID int64, chatType models.ChatType) (*models.Chat, error) {
	args := m.Called(ctx, reportID, chatType)
	r, _ := args.Get(0).(*models.Chat)
	return r, args.Error(1)
}

func (m *mockChats) GetChat(ctx context.Context, chatID int64) (*models.Chat, *models.Report, error) {
	args := m.Called(ctx, chatID)
	chat, _ := args.Get(0).(*models.Chat)
	report, _ := args.Get(1).(*models.Report)
	return chat, report, args.Error(2)
}

func (m *mockChats) SendMessage(ctx context.Context, chatID int64, sender models.SenderRole, content string) (*models.Message, error) {
	args := m.Called(ctx, chatID, sender, content)
	r, _ := args.Get(0).(*models.Message)
	return r, args.Error(1)
}

func (m *mockChats) MessagesForReport(ctx context.Context, reportID int64, chatType models.ChatType) ([]models.Message, error) {
	args := m.Called(ctx, reportID, chatType)
	r, _ := args.Get(0).([]models.Message)
	return r, args.Error(1)
}

type mockNotifications struct{ mock.Mock }

func (m *mockNotifications) ListForUser(ctx context.Context, username string) ([]models.Notification, error) {
	args := m.Called(ctx, username)
	r, _ := args.Get(0).([]models.Notification)
	return r, args.Error(1)
}

func (m *mockNotifications) CountUnread(ctx context.Context, username string) (int, error) {
	args := m.Called(ctx, username)
	return args.Int(0), args.Error(1)
}

func (m *mockNotifications) MarkRead(ctx context.Context, id int64, username string) (*models.Notification, error) {
	args := m.Called(ctx, id, username)
	r, _ := args.Get(0).(*models.Notification)
	return r, args.Error(1)
}

func (m *mockNotifications) MarkAllRead(ctx context.Context, username string) error {
	return m.Called(ctx, username).Error(0)
}

func (m *mockNotifications) Delete(ctx context.Context, id int64, username string) error {
	return m.Called(ctx, id, username).Error(0)
}

// memPhotos складывает файлы в память и запоминает удалённые пути.
type memPhotos struct {
	mu      sync.Mutex
	saved   []string
	deleted []string
	failOn  int
	err     error
}

func (m *memPhotos) Save(_ context.Context, r io.Reader) (string, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil && len(m.saved)+1 == m.failOn {
		return "", 0, m.err
	}
	n, _ := io.Copy(io.Discard, r)
	path := "reports/2026/10/photo-" + string(rune('a'+len(m.saved))) + ".jpg"
	m.saved = append(m.saved, path)
	return path, n, nil
}

func (m *memPhotos) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, path)
	return nil
}

// asParty подставляет аутентифицированного участника вместо JWT middleware.
func asParty(party models.Party, username string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextPartyKey, party)
		c.Set(middleware.ContextUsernameKey, username)
		c.Next()
	}
}

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func perform(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func nullLogger() logrus.FieldLogger {
	log, _ := logtest.NewNullLogger()
	return log
}
