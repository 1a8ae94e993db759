package models

import "time"

// Category категория проблемы (дороги, освещение и т.п.).
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Photo фотография, приложенная к обращению.
type Photo struct {
	ID       int64  `db:"id" json:"id"`
	ReportID int64  `db:"report_id" json:"report_id"`
	Path     string `db:"path" json:"path"`
}

// Report обращение гражданина.
//
// LeadOfficer заполнен тогда и только тогда, когда Officer внешний.
type Report struct {
	ID          int64
	Title       string
	Description string
	Explanation string
	Latitude    float64
	Longitude   float64
	Status      ReportStatus
	Anonymous   bool
	CreatedAt   time.Time

	User        *User
	Category    *Category
	Officer     *Officer
	LeadOfficer *Officer
	Photos      []Photo
	Chats       []Chat
}

// OfficerID возвращает идентификатор исполнителя или nil.
func (r *Report) OfficerID() *int64 {
	if r.Officer == nil {
		return nil
	}
	return &r.Officer.ID
}

// LeadOfficerID возвращает идентификатор руководителя или nil.
func (r *Report) LeadOfficerID() *int64 {
	if r.LeadOfficer == nil {
		return nil
	}
	return &r.LeadOfficer.ID
}

// Chat возвращает чат указанного вида, если он уже загружен.
func (r *Report) Chat(chatType ChatType) *Chat {
	for i := range r.Chats {
		if r.Chats[i].Type == chatType {
			return &r.Chats[i]
		}
	}
	return nil
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// ReportFilter параметры выборки обращений.
type ReportFilter struct {
	Status    *ReportStatus
	OfficerID *int64
	UserID    *int64
	Limit     int
	Offset    int
}

// Normalize приводит окно выборки к допустимому: limit вне 1..MaxPageLimit заменяется на
// DefaultPageLimit, отрицательный offset на ноль.
func (f *ReportFilter) Normalize() {
	if f.Limit <= 0 || f.Limit > MaxPageLimit {
		f.Limit = DefaultPageLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}
