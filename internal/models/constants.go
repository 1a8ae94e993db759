package models

// ReportStatus статус обращения.
type ReportStatus string

// Статусы обращений. Переходы между ними не ограничиваются.
const (
	ReportStatusPendingApproval ReportStatus = "Pending Approval"
	ReportStatusAssigned        ReportStatus = "Assigned"
	ReportStatusRejected        ReportStatus = "Rejected"
	ReportStatusInProgress      ReportStatus = "In Progress"
	ReportStatusResolved        ReportStatus = "Resolved"
)

// IsValid проверяет, что статус входит в закрытый набор.
func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusPendingApproval, ReportStatusAssigned, ReportStatusRejected,
		ReportStatusInProgress, ReportStatusResolved:
		return true
	}
	return false
}

// IsTerminal сообщает, что обращение закрыто.
func (s ReportStatus) IsTerminal() bool {
	return s == ReportStatusRejected || s == ReportStatusResolved
}

// ChatType вид чата обращения.
type ChatType string

const (
	// ChatTypeOfficerUser чат исполнителя (и руководителя) с гражданином.
	ChatTypeOfficerUser ChatType = "OFFICER_USER"
	// ChatTypeLeadExternal чат руководителя с внешним исполнителем.
	ChatTypeLeadExternal ChatType = "LEAD_EXTERNAL"
)

func (t ChatType) IsValid() bool {
	return t == ChatTypeOfficerUser || t == ChatTypeLeadExternal
}

// SenderRole роль автора сообщения.
type SenderRole string

const (
	SenderCitizen  SenderRole = "citizen"
	SenderOfficer  SenderRole = "officer"
	SenderLead     SenderRole = "lead"
	SenderExternal SenderRole = "external"
)

func (r SenderRole) IsValid() bool {
	switch r {
	case SenderCitizen, SenderOfficer, SenderLead, SenderExternal:
		return true
	}
	return false
}

// PartyKind пространство идентификаторов участника: граждане и сотрудники нумеруются независимо.
type PartyKind string

const (
	PartyUser    PartyKind = "user"
	PartyOfficer PartyKind = "officer"
)

func (k PartyKind) IsValid() bool {
	return k == PartyUser || k == PartyOfficer
}

// Типы уведомлений.
const (
	NotificationTypeStatusChanged = "status_changed"
	NotificationTypeNewMessage    = "new_message"
)

// Лимиты обращения.
const (
	MinReportPhotos = 1
	MaxReportPhotos = 3
)
