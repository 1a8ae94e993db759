package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/cityreport-backend/internal/models"
	"github.com/ignatzorin/cityreport-backend/internal/pkg/apperror"
)

func TestChatRepository_Create_Upserts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChatRepository(db)
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO chats \(report_id, type\)\s+VALUES \(\$1, \$2\)\s+ON CONFLICT \(report_id, type\) DO UPDATE`).
		WithArgs(int64(7), "OFFICER_USER").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(3, created))

	chat := &models.Chat{ReportID: 7, Type: models.ChatTypeOfficerUser}
	require.NoError(t, repo.Create(context.Background(), chat))
	assert.Equal(t, int64(3), chat.ID)
	assert.Equal(t, created, chat.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChatRepository_FindByReportAndType(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT id, report_id, type, created_at FROM chats WHERE report_id = \$1 AND type = \$2`).
		WithArgs(int64(7), "LEAD_EXTERNAL").
		WillReturnRows(sqlmock.NewRows([]string{"id", "report_id", "type", "created_at"}).
			AddRow(4, 7, "LEAD_EXTERNAL", time.Now()))

	chat, err := repo.FindByReportAndType(ctx, 7, models.ChatTypeLeadExternal)
	require.NoError(t, err)
	require.NotNil(t, chat)
	assert.Equal(t, models.ChatTypeLeadExternal, chat.Type)

	mock.ExpectQuery(`SELECT id, report_id, type, created_at FROM chats`).
		WithArgs(int64(8), "OFFICER_USER").
		WillReturnRows(sqlmock.NewRows([]string{"id", "report_id", "type", "created_at"}))

	chat, err = repo.FindByReportAndType(ctx, 8, models.ChatTypeOfficerUser)
	require.NoError(t, err)
	assert.Nil(t, chat)

	reset := errors.New("connection reset")
	mock.ExpectQuery(`SELECT id, report_id, type, created_at FROM chats`).
		WillReturnError(reset)

	_, err = repo.FindByReportAndType(ctx, 9, models.ChatTypeOfficerUser)
	assert.Equal(t, apperror.ErrCodeDatabaseError, apperror.CodeOf(err))
	assert.ErrorIs(t, err, reset)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChatRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChatRepository(db)

	mock.ExpectQuery(`SELECT \* FROM chats WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "report_id", "type", "created_at"}))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, apperror.ErrChatNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
