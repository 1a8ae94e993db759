package dto

// RegisterRequest represents a citizen sign-up request
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Surname  string `json:"surname" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is shared by citizen and officer login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateReportRequest holds the non-file fields of the multipart report form.
// Photos arrive as repeated "photos" file parts.
type CreateReportRequest struct {
	Title       string  `form:"title" binding:"required"`
	Description string  `form:"description"`
	CategoryID  int64   `form:"category_id" binding:"required"`
	Latitude    float64 `form:"latitude"`
	Longitude   float64 `form:"longitude"`
	Anonymous   bool    `form:"anonymous"`
}

// UpdateStatusRequest represents a report status transition
type UpdateStatusRequest struct {
	Status      string `json:"status" binding:"required"`
	Explanation string `json:"explanation"`
}

// AssignOfficerRequest assigns an officer by id; lead is required for external officers
type AssignOfficerRequest struct {
	OfficerID     int64  `json:"officer_id" binding:"required"`
	LeadOfficerID *int64 `json:"lead_officer_id"`
}

// AssignTechAgentRequest is used by a tech lead delegating a report to an agent.
// TechLeadUsername defaults to the authenticated officer.
type AssignTechAgentRequest struct {
	OfficerUsername  string `json:"officer_username" binding:"required"`
	TechLeadUsername string `json:"tech_lead_username"`
}

// CreateChatRequest asks for a chat of the given kind on a report
type CreateChatRequest struct {
	Type string `json:"type" binding:"required"`
}

// SendMessageRequest represents a chat message.
// SenderRole is only read for officers; citizens always speak as "citizen".
type SendMessageRequest struct {
	Content    string `json:"content" binding:"required"`
	SenderRole string `json:"sender_role"`
}
