package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/cityreport-backend/internal/models"
	"github.com/ignatzorin/cityreport-backend/internal/pkg/apperror"
	"github.com/ignatzorin/cityreport-backend/internal/repository/common"
)

// ChatRepository отвечает за таблицу chats. На пару (report_id, type) есть уникальный индекс.
type ChatRepository struct {
	db *sqlx.DB
}

// NewChatRepository создаёт экземпляр репозитория.
func NewChatRepository(db *sqlx.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// GetByID возвращает чат по идентификатору.
func (r *ChatRepository) GetByID(ctx context.Context, id int64) (*models.Chat, error) {
	return common.GetByID[models.Chat](ctx, r.db, "chats", id, apperror.ErrChatNotFound)
}

// FindByReportAndType возвращает чат обращения указанного вида или nil.
func (r *ChatRepository) FindByReportAndType(ctx context.Context, reportID int64, chatType models.ChatType) (*models.Chat, error) {
	var chat models.Chat
	query := `SELECT id, report_id, type, created_at FROM chats WHERE report_id = $1 AND type = $2`
	if err := r.db.GetContext(ctx, &chat, query, reportID, chatType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, common.DBError("chat repository: find by report", err)
	}
	return &chat, nil
}

// Create создаёт чат. Если чат такого вида уже есть, chat заполняется существующей записью.
func (r *ChatRepository) Create(ctx context.Context, chat *models.Chat) error {
	// DO UPDATE вместо DO NOTHING, чтобы RETURNING вернул строку и при конфликте.
	query := `
		INSERT INTO chats (report_id, type)
		VALUES ($1, $2)
		ON CONFLICT (report_id, type) DO UPDATE SET type = EXCLUDED.type
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(ctx, query, chat.ReportID, chat.Type).Scan(&chat.ID, &chat.CreatedAt); err != nil {
		return common.DBError("chat repository: create", err)
	}
	return nil
}

// ListByReport возвращает чаты обращения.
func (r *ChatRepository) ListByReport(ctx context.Context, reportID int64) ([]models.Chat, error) {
	var chats []models.Chat
	query := `SELECT id, report_id, type, created_at FROM chats WHERE report_id = $1 ORDER BY id`
	if err := r.db.SelectContext(ctx, &chats, query, reportID); err != nil {
		return nil, common.DBError("chat repository: list by report", err)
	}
	return chats, nil
}

// selectChatsByReports загружает чаты нескольких обращений одним запросом.
func selectChatsByReports(ctx context.Context, q sqlx.QueryerContext, reportIDs []int64) (map[int64][]models.Chat, error) {
	out := make(map[int64][]models.Chat, len(reportIDs))
	if len(reportIDs) == 0 {
		return out, nil
	}

	var chats []models.Chat
	query := `SELECT id, report_id, type, created_at FROM chats WHERE report_id = ANY($1) ORDER BY id`
	if err := sqlx.SelectContext(ctx, q, &chats, query, pq.Array(reportIDs)); err != nil {
		return nil, common.DBError("chat repository: select by reports", err)
	}
	for _, c := range chats {
		out[c.ReportID] = append(out[c.ReportID], c)
	}
	return out, nil
}
