package models

import "time"

// Chat переписка по обращению. На обращение приходится не больше одного чата каждого вида.
type Chat struct {
	ID        int64     `db:"id" json:"id"`
	ReportID  int64     `db:"report_id" json:"report_id"`
	Type      ChatType  `db:"type" json:"type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Message сообщение в чате. После создания не изменяется.
type Message struct {
	ID        int64      `db:"id" json:"id"`
	ChatID    int64      `db:"chat_id" json:"chat_id"`
	Content   string     `db:"content" json:"content"`
	Sender    SenderRole `db:"sender" json:"sender"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// Notification событие для гражданина.
type Notification struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Content   string    `db:"content" json:"content"`
	Type      string    `db:"type" json:"type"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
