package dto

import (
	"time"

	"github.com/ignatzorin/cityreport-backend/internal/models"
)

// UserResponse is the public projection of a citizen
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
}

// OfficerResponse is the public projection of an officer
type OfficerResponse struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	Name        string  `json:"name"`
	Surname     string  `json:"surname"`
	External    bool    `json:"external"`
	CompanyName *string `json:"company_name,omitempty"`
	Role        *string `json:"role,omitempty"`
}

// ChatSummary describes a chat attached to a report
type ChatSummary struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// ReportResponse is the public projection of a report
type ReportResponse struct {
	ID          int64            `json:"id"`
	Latitude    float64          `json:"latitude"`
	Longitude   float64          `json:"longitude"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Anonymous   bool             `json:"anonymous"`
	User        *UserResponse    `json:"user,omitempty"`
	Category    string           `json:"category"`
	Status      string           `json:"status"`
	Explanation string           `json:"explanation"`
	Officer     *OfficerResponse `json:"officer,omitempty"`
	LeadOfficer *OfficerResponse `json:"lead_officer,omitempty"`
	Photos      []string         `json:"photos"`
	Chats       []ChatSummary    `json:"chats"`
	CreatedAt   time.Time        `json:"created_at"`
}

// MessageResponse is the public projection of a chat message
type MessageResponse struct {
	ID        int64     `json:"id"`
	ChatID    int64     `json:"chat_id"`
	Content   string    `json:"content"`
	Sender    string    `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationResponse is the public projection of a notification
type NotificationResponse struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageEvent is pushed to the citizen when an officer or lead writes to them
type MessageEvent struct {
	Message      MessageResponse       `json:"message"`
	Notification *NotificationResponse `json:"notification,omitempty"`
}

// AuthResponse carries an issued access token and the authenticated party.
// ExpiresIn is in seconds.
type AuthResponse struct {
	AccessToken string           `json:"access_token"`
	ExpiresIn   int64            `json:"expires_in"`
	Kind        string           `json:"kind"`
	User        *UserResponse    `json:"user,omitempty"`
	Officer     *OfficerResponse `json:"officer,omitempty"`
}

// CategoryResponse is the public projection of a category
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UnreadCountResponse carries the number of unread notifications
type UnreadCountResponse struct {
	Count int `json:"count"`
}

func NewUserResponse(u *models.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{ID: u.ID, Username: u.Username, Name: u.Name, Surname: u.Surname}
}

func NewOfficerResponse(o *models.Officer) *OfficerResponse {
	if o == nil {
		return nil
	}
	resp := &OfficerResponse{
		ID:          o.ID,
		Username:    o.Username,
		Name:        o.Name,
		Surname:     o.Surname,
		External:    o.External,
		CompanyName: o.CompanyName,
	}
	if o.Role != nil {
		name := o.Role.Name
		resp.Role = &name
	}
	return resp
}

// NewReportResponse builds the projection; anonymous reports hide their author
func NewReportResponse(r *models.Report) *ReportResponse {
	resp := &ReportResponse{
		ID:          r.ID,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Title:       r.Title,
		Description: r.Description,
		Anonymous:   r.Anonymous,
		Status:      string(r.Status),
		Explanation: r.Explanation,
		Officer:     NewOfficerResponse(r.Officer),
		LeadOfficer: NewOfficerResponse(r.LeadOfficer),
		Photos:      make([]string, 0, len(r.Photos)),
		Chats:       make([]ChatSummary, 0, len(r.Chats)),
		CreatedAt:   r.CreatedAt,
	}
	if !r.Anonymous {
		resp.User = NewUserResponse(r.User)
	}
	if r.Category != nil {
		resp.Category = r.Category.Name
	}
	for _, p := range r.Photos {
		resp.Photos = append(resp.Photos, p.Path)
	}
	for _, c := range r.Chats {
		resp.Chats = append(resp.Chats, ChatSummary{ID: c.ID, Type: string(c.Type)})
	}
	return resp
}

func NewReportResponses(reports []models.Report) []*ReportResponse {
	out := make([]*ReportResponse, 0, len(reports))
	for i := range reports {
		out = append(out, NewReportResponse(&reports[i]))
	}
	return out
}

func NewMessageResponse(m *models.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		ChatID:    m.ChatID,
		Content:   m.Content,
		Sender:    string(m.Sender),
		CreatedAt: m.CreatedAt,
	}
}

func NewMessageResponses(messages []models.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, NewMessageResponse(&messages[i]))
	}
	return out
}

func NewNotificationResponse(n *models.Notification) *NotificationResponse {
	if n == nil {
		return nil
	}
	return &NotificationResponse{
		ID:        n.ID,
		Content:   n.Content,
		Type:      n.Type,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func NewNotificationResponses(items []models.Notification) []*NotificationResponse {
	out := make([]*NotificationResponse, 0, len(items))
	for i := range items {
		out = append(out, NewNotificationResponse(&items[i]))
	}
	return out
}

func NewCategoryResponses(items []models.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(items))
	for _, c := range items {
		out = append(out, CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return out
}
