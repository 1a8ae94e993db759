package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/cityreport-backend/internal/models"
	"github.com/ignatzorin/cityreport-backend/internal/repository/common"
)

// MessageRepository отвечает за таблицу messages. Сообщения только добавляются.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository создаёт экземпляр репозитория.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create сохраняет сообщение.
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (chat_id, content, sender)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(ctx, query, msg.ChatID, msg.Content, msg.Sender).Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return common.DBError("message repository: create", err)
	}
	return nil
}

// ListByChat возвращает сообщения чата от старых к новым. id разрешает совпадения по времени.
func (r *MessageRepository) ListByChat(ctx context.Context, chatID int64) ([]models.Message, error) {
	var messages []models.Message
	query := `
		SELECT id, chat_id, content, sender, created_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY created_at, id
	`
	if err := r.db.SelectContext(ctx, &messages, query, chatID); err != nil {
		return nil, common.DBError("message repository: list by chat", err)
	}
	return messages, nil
}
