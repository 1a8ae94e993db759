package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/cityreport-backend/internal/models"
	"github.com/ignatzorin/cityreport-backend/internal/pkg/apperror"
	"github.com/ignatzorin/cityreport-backend/internal/repository/common"
)

const reportSelect = `
	SELECT r.id, r.title, r.description, r.explanation, r.latitude, r.longitude,
	       r.status, r.anonymous, r.created_at, r.officer_id, r.lead_officer_id,
	       u.id AS user_id, u.username AS user_username, u.email AS user_email,
	       u.name AS user_name, u.surname AS user_surname, u.created_at AS user_created_at,
	       c.id AS category_id, c.name AS category_name
	FROM reports r
	JOIN users u ON u.id = r.user_id
	JOIN categories c ON c.id = r.category_id
`

type reportRow struct {
	ID            int64         `db:"id"`
	Title         string        `db:"title"`
	Description   string        `db:"description"`
	Explanation   string        `db:"explanation"`
	Latitude      float64       `db:"latitude"`
	Longitude     float64       `db:"longitude"`
	Status        string        `db:"status"`
	Anonymous     bool          `db:"anonymous"`
	CreatedAt     time.Time     `db:"created_at"`
	OfficerID     sql.NullInt64 `db:"officer_id"`
	LeadOfficerID sql.NullInt64 `db:"lead_officer_id"`

	UserID        int64     `db:"user_id"`
	UserUsername  string    `db:"user_username"`
	UserEmail     string    `db:"user_email"`
	UserName      string    `db:"user_name"`
	UserSurname   string    `db:"user_surname"`
	UserCreatedAt time.Time `db:"user_created_at"`

	CategoryID   int64  `db:"category_id"`
	CategoryName string `db:"category_name"`
}

func (r reportRow) toModel() models.Report {
	return models.Report{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Explanation: r.Explanation,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Status:      models.ReportStatus(r.Status),
		Anonymous:   r.Anonymous,
		CreatedAt:   r.CreatedAt,
		User: &models.User{
			ID:        r.UserID,
			Username:  r.UserUsername,
			Email:     r.UserEmail,
			Name:      r.UserName,
			Surname:   r.UserSurname,
			CreatedAt: r.UserCreatedAt,
		},
		Category: &models.Category{ID: r.CategoryID, Name: r.CategoryName},
	}
}

// ReportRepository отвечает за таблицы reports и photos.
// Чаты создаёт ChatRepository, здесь они только читаются.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository создаёт экземпляр репозитория.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create сохраняет обращение вместе с фотографиями в одной транзакции.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	if report.User == nil || report.Category == nil {
		return fmt.Errorf("report repository: create: пользователь и категория обязательны")
	}

	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO reports (title, description, explanation, latitude, longitude, status, anonymous,
			                     user_id, category_id, officer_id, lead_officer_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id, created_at
		`
		if err := tx.QueryRowxContext(
			ctx, query,
			report.Title, report.Description, report.Explanation, report.Latitude, report.Longitude,
			report.Status, report.Anonymous, report.User.ID, report.Category.ID,
			nullableID(report.OfficerID()), nullableID(report.LeadOfficerID()),
		).Scan(&report.ID, &report.CreatedAt); err != nil {
			return common.DBError("report repository: create", err)
		}

		for i := range report.Photos {
			photo := &report.Photos[i]
			photo.ReportID = report.ID
			if err := tx.QueryRowxContext(
				ctx,
				`INSERT INTO photos (report_id, path) VALUES ($1, $2) RETURNING id`,
				photo.ReportID, photo.Path,
			).Scan(&photo.ID); err != nil {
				return common.DBError("report repository: create photo", err)
			}
		}
		return nil
	})
}

// GetByID возвращает обращение со всеми связями.
func (r *ReportRepository) GetByID(ctx context.Context, id int64) (*models.Report, error) {
	var row reportRow
	if err := r.db.GetContext(ctx, &row, reportSelect+` WHERE r.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrReportNotFound
		}
		return nil, common.DBError("report repository: get by id", err)
	}

	reports, err := r.hydrate(ctx, []reportRow{row})
	if err != nil {
		return nil, err
	}
	return &reports[0], nil
}

// Update сохраняет изменяемые поля обращения.
func (r *ReportRepository) Update(ctx context.Context, report *models.Report) error {
	query := `
		UPDATE reports
		SET title = $1, description = $2, explanation = $3, status = $4,
		    officer_id = $5, lead_officer_id = $6
		WHERE id = $7
	`
	result, err := r.db.ExecContext(
		ctx, query,
		report.Title, report.Description, report.Explanation, report.Status,
		nullableID(report.OfficerID()), nullableID(report.LeadOfficerID()),
		report.ID,
	)
	if err != nil {
		return common.DBError("report repository: update", err)
	}
	return common.EnsureAffected(result, apperror.ErrReportNotFound)
}

// List возвращает обращения по фильтру, новые первыми.
func (r *ReportRepository) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", len(args)))
	}
	if filter.OfficerID != nil {
		args = append(args, *filter.OfficerID)
		conditions = append(conditions, fmt.Sprintf("(r.officer_id = $%d OR r.lead_officer_id = $%d)", len(args), len(args)))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conditions = append(conditions, fmt.Sprintf("r.user_id = $%d", len(args)))
	}

	query := reportSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY r.created_at DESC, r.id DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var rows []reportRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, common.DBError("report repository: list", err)
	}
	return r.hydrate(ctx, rows)
}

// hydrate догружает сотрудников, фотографии и чаты тремя запросами на всю выборку.
func (r *ReportRepository) hydrate(ctx context.Context, rows []reportRow) ([]models.Report, error) {
	reports := make([]models.Report, 0, len(rows))
	if len(rows) == 0 {
		return reports, nil
	}

	reportIDs := make([]int64, 0, len(rows))
	var officerIDs []int64
	for _, row := range rows {
		reportIDs = append(reportIDs, row.ID)
		if row.OfficerID.Valid {
			officerIDs = append(officerIDs, row.OfficerID.Int64)
		}
		if row.LeadOfficerID.Valid {
			officerIDs = append(officerIDs, row.LeadOfficerID.Int64)
		}
	}

	officers, err := selectOfficersByIDs(ctx, r.db, officerIDs)
	if err != nil {
		return nil, err
	}
	photos, err := r.selectPhotos(ctx, reportIDs)
	if err != nil {
		return nil, err
	}
	chats, err := selectChatsByReports(ctx, r.db, reportIDs)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		report := row.toModel()
		if row.OfficerID.Valid {
			report.Officer = officers[row.OfficerID.Int64]
		}
		if row.LeadOfficerID.Valid {
			report.LeadOfficer = officers[row.LeadOfficerID.Int64]
		}
		report.Photos = photos[row.ID]
		report.Chats = chats[row.ID]
		reports = append(reports, report)
	}
	return reports, nil
}

func (r *ReportRepository) selectPhotos(ctx context.Context, reportIDs []int64) (map[int64][]models.Photo, error) {
	var photos []models.Photo
	query := `SELECT id, report_id, path FROM photos WHERE report_id = ANY($1) ORDER BY id`
	if err := r.db.SelectContext(ctx, &photos, query, pq.Array(reportIDs)); err != nil {
		return nil, common.DBError("report repository: select photos", err)
	}

	out := make(map[int64][]models.Photo, len(reportIDs))
	for _, p := range photos {
		out[p.ReportID] = append(out[p.ReportID], p)
	}
	return out, nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}
