package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ignatzorin/cityreport-backend/internal/models"
	"github.com/ignatzorin/cityreport-backend/internal/pkg/apperror"
	"github.com/ignatzorin/cityreport-backend/internal/ws"
)

// clock выдаёт возрастающее время, чтобы порядок записей в тестах был детерминирован.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *clock) tick() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// memChats реализует ChatStore.
type memChats struct {
	clock   *clock
	nextID  int64
	chats   map[int64]*models.Chat
	creates int
}

func newMemChats(c *clock) *memChats {
	return &memChats{clock: c, chats: make(map[int64]*models.Chat)}
}

func (m *memChats) GetByID(_ context.Context, id int64) (*models.Chat, error) {
	c, ok := m.chats[id]
	if !ok {
		return nil, apperror.ErrChatNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memChats) FindByReportAndType(_ context.Context, reportID int64, chatType models.ChatType) (*models.Chat, error) {
	for _, c := range m.chats {
		if c.ReportID == reportID && c.Type == chatType {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memChats) Create(ctx context.Context, chat *models.Chat) error {
	m.creates++
	if existing, _ := m.FindByReportAndType(ctx, chat.ReportID, chat.Type); existing != nil {
		*chat = *existing
		return nil
	}
	m.nextID++
	chat.ID = m.nextID
	chat.CreatedAt = m.clock.tick()
	cp := *chat
	m.chats[chat.ID] = &cp
	return nil
}

func (m *memChats) ListByReport(_ context.Context, reportID int64) ([]models.Chat, error) {
	var out []models.Chat
	for _, c := range m.chats {
		if c.ReportID == reportID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memChats) countByReport(reportID int64, chatType models.ChatType) int {
	n := 0
	for _, c := range m.chats {
		if c.ReportID == reportID && c.Type == chatType {
			n++
		}
	}
	return n
}

// memReports реализует ReportStore. Чаты подгружаются из memChats, как в настоящем репозитории.
type memReports struct {
	clock   *clock
	chats   *memChats
	nextID  int64
	reports map[int64]models.Report
	updates int
}

func newMemReports(c *clock, chats *memChats) *memReports {
	return &memReports{clock: c, chats: chats, reports: make(map[int64]models.Report)}
}

func (m *memReports) Create(_ context.Context, report *models.Report) error {
	m.nextID++
	report.ID = m.nextID
	report.CreatedAt = m.clock.tick()
	for i := range report.Photos {
		report.Photos[i].ID = int64(i + 1)
		report.Photos[i].ReportID = report.ID
	}
	m.reports[report.ID] = *report
	return nil
}

func (m *memReports) GetByID(ctx context.Context, id int64) (*models.Report, error) {
	r, ok := m.reports[id]
	if !ok {
		return nil, apperror.ErrReportNotFound
	}
	r.Photos = append([]models.Photo(nil), r.Photos...)
	chats, _ := m.chats.ListByReport(ctx, id)
	r.Chats = chats
	return &r, nil
}

func (m *memReports) Update(_ context.Context, report *models.Report) error {
	if _, ok := m.reports[report.ID]; !ok {
		return apperror.ErrReportNotFound
	}
	m.updates++
	m.reports[report.ID] = *report
	return nil
}

func (m *memReports) List(_ context.Context, filter models.ReportFilter) ([]models.Report, error) {
	var out []models.Report
	for _, r := range m.reports {
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// memMessages реализует MessageStore.
type memMessages struct {
	clock    *clock
	nextID   int64
	messages []models.Message
}

func newMemMessages(c *clock) *memMessages {
	return &memMessages{clock: c}
}

func (m *memMessages) Create(_ context.Context, msg *models.Message) error {
	m.nextID++
	msg.ID = m.nextID
	msg.CreatedAt = m.clock.tick()
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *memMessages) ListByChat(_ context.Context, chatID int64) ([]models.Message, error) {
	var out []models.Message
	// Обратный порядок: сервис обязан сортировать сам.
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].ChatID == chatID {
			out = append(out, m.messages[i])
		}
	}
	return out, nil
}

// memNotifications реализует NotificationStore.
type memNotifications struct {
	clock  *clock
	nextID int64
	items  map[int64]*models.Notification
}

func newMemNotifications(c *clock) *memNotifications {
	return &memNotifications{clock: c, items: make(map[int64]*models.Notification)}
}

func (m *memNotifications) Create(_ context.Context, n *models.Notification) error {
	m.nextID++
	n.ID = m.nextID
	n.CreatedAt = m.clock.tick()
	cp := *n
	m.items[n.ID] = &cp
	return nil
}

func (m *memNotifications) GetByID(_ context.Context, id int64) (*models.Notification, error) {
	n, ok := m.items[id]
	if !ok {
		return nil, apperror.ErrNotificationNotFound
	}
	cp := *n
	return &cp, nil
}

func (m *memNotifications) ListByUser(_ context.Context, userID int64) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range m.items {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memNotifications) MarkAsRead(_ context.Context, id int64) error {
	n, ok := m.items[id]
	if !ok {
		return apperror.ErrNotificationNotFound
	}
	n.IsRead = true
	return nil
}

func (m *memNotifications) MarkAllAsRead(_ context.Context, userID int64) error {
	for _, n := range m.items {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (m *memNotifications) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return apperror.ErrNotificationNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memNotifications) CountUnread(_ context.Context, userID int64) (int, error) {
	n := 0
	for _, item := range m.items {
		if item.UserID == userID && !item.IsRead {
			n++
		}
	}
	return n, nil
}

// memUsers реализует UserStore.
type memUsers struct {
	nextID int64
	byID   map[int64]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: make(map[int64]*models.User)}
}

func (m *memUsers) add(username string) *models.User {
	u := &models.User{Username: username, Email: username + "@example.com", Name: "Иван", Surname: "Петров"}
	_ = m.Create(context.Background(), u)
	return u
}

func (m *memUsers) Create(_ context.Context, user *models.User) error {
	for _, u := range m.byID {
		if u.Username == user.Username {
			return apperror.New(apperror.ErrCodeConflict, "имя пользователя занято")
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	m.byID[user.ID] = user
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, apperror.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range m.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperror.ErrUserNotFound
}

// memOfficers реализует OfficerDirectory. Идентификаторы начинаются со 100,
// но тесты намеренно используют и совпадающие с гражданами id.
type memOfficers struct {
	byID map[int64]*models.Officer
}

func newMemOfficers() *memOfficers {
	return &memOfficers{byID: make(map[int64]*models.Officer)}
}

func (m *memOfficers) add(id int64, username string, external bool) *models.Officer {
	o := &models.Officer{ID: id, Username: username, Name: "Сотрудник", Surname: username, External: external}
	if external {
		company := "ООО Подрядчик"
		o.CompanyName = &company
	}
	m.byID[id] = o
	return o
}

func (m *memOfficers) GetByUsername(_ context.Context, username string) (*models.Officer, error) {
	for _, o := range m.byID {
		if o.Username == username {
			return o, nil
		}
	}
	return nil, apperror.ErrOfficerNotFound
}

func (m *memOfficers) GetByID(_ context.Context, id int64) (*models.Officer, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, apperror.ErrOfficerNotFound
	}
	return o, nil
}

func (m *memOfficers) FirstInternal(_ context.Context) (*models.Officer, error) {
	var best *models.Officer
	for _, o := range m.byID {
		if o.External {
			continue
		}
		if best == nil || o.ID < best.ID {
			best = o
		}
	}
	return best, nil
}

// memCategories реализует CategoryStore.
type memCategories struct {
	items []models.Category
}

func newMemCategories() *memCategories {
	return &memCategories{items: []models.Category{{ID: 1, Name: "Дороги"}, {ID: 2, Name: "Освещение"}}}
}

func (m *memCategories) GetByID(_ context.Context, id int64) (*models.Category, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			c := m.items[i]
			return &c, nil
		}
	}
	return nil, apperror.ErrCategoryNotFound
}

func (m *memCategories) List(_ context.Context) ([]models.Category, error) {
	return m.items, nil
}

// pushed одна попытка живой доставки.
type pushed struct {
	Party   models.Party
	Event   string
	Payload any
}

// recordingPresence реализует Presence и запоминает все попытки доставки.
type recordingPresence struct {
	mu       sync.Mutex
	online   map[models.Party]bool
	attempts []pushed
	failing  bool
	panics   bool
}

func newRecordingPresence(online ...models.Party) *recordingPresence {
	p := &recordingPresence{online: make(map[models.Party]bool)}
	for _, party := range online {
		p.online[party] = true
	}
	return p
}

func (p *recordingPresence) Lookup(party models.Party) (ws.LiveChannel, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.online[party] {
		return nil, false
	}
	return &recordingChannel{presence: p, party: party}, true
}

func (p *recordingPresence) pushesTo(party models.Party) []pushed {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []pushed
	for _, a := range p.attempts {
		if a.Party == party {
			out = append(out, a)
		}
	}
	return out
}

func (p *recordingPresence) total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.attempts)
}

type recordingChannel struct {
	presence *recordingPresence
	party    models.Party
}

func (c *recordingChannel) Push(event string, payload any) error {
	c.presence.mu.Lock()
	c.presence.attempts = append(c.presence.attempts, pushed{Party: c.party, Event: event, Payload: payload})
	failing, panics := c.presence.failing, c.presence.panics
	c.presence.mu.Unlock()

	if panics {
		panic("канал закрыт")
	}
	if failing {
		return ws.ErrClientClosed
	}
	return nil
}

// fixture собирает сервисы поверх памяти.
type fixture struct {
	clock         *clock
	chats         *memChats
	reports       *memReports
	messages      *memMessages
	notifications *memNotifications
	users         *memUsers
	officers      *memOfficers
	categories    *memCategories
	presence      *recordingPresence

	notificationService *NotificationService
	chatService         *ChatService
	reportService       *ReportService
}

func newFixture(presence *recordingPresence) *fixture {
	c := newClock()
	chats := newMemChats(c)
	f := &fixture{
		clock:         c,
		chats:         chats,
		reports:       newMemReports(c, chats),
		messages:      newMemMessages(c),
		notifications: newMemNotifications(c),
		users:         newMemUsers(),
		officers:      newMemOfficers(),
		categories:    newMemCategories(),
		presence:      presence,
	}
	log := nullLogger()
	f.notificationService = NewNotificationService(f.notifications, f.users, presence, log)
	f.chatService = NewChatService(f.chats, f.messages, f.reports, f.notificationService, presence, log)
	f.reportService = NewReportService(f.reports, f.categories, f.users, f.officers, f.chatService, f.notificationService, nil, log)
	return f
}

// seedReport создаёт обращение гражданина напрямую в хранилище.
func (f *fixture) seedReport(user *models.User) *models.Report {
	r := &models.Report{
		Title:     "Яма на дороге",
		Latitude:  55.75,
		Longitude: 37.61,
		Status:    models.ReportStatusPendingApproval,
		User:      user,
		Category:  &models.Category{ID: 1, Name: "Дороги"},
		Photos:    []models.Photo{{Path: "reports/a.jpg"}},
	}
	_ = f.reports.Create(context.Background(), r)
	return r
}
