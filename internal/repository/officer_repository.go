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

const officerSelect = `
	SELECT o.id, o.username, o.email, o.name, o.surname, o.password_hash,
	       o.external, o.company_name, o.role_id, ro.name AS role_name
	FROM officers o
	LEFT JOIN roles ro ON ro.id = o.role_id
`

type officerRow struct {
	ID           int64          `db:"id"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	Name         string         `db:"name"`
	Surname      string         `db:"surname"`
	PasswordHash string         `db:"password_hash"`
	External     bool           `db:"external"`
	CompanyName  sql.NullString `db:"company_name"`
	RoleID       sql.NullInt64  `db:"role_id"`
	RoleName     sql.NullString `db:"role_name"`
}

func (r officerRow) toModel() *models.Officer {
	o := &models.Officer{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		Name:         r.Name,
		Surname:      r.Surname,
		PasswordHash: r.PasswordHash,
		External:     r.External,
	}
	if r.CompanyName.Valid {
		company := r.CompanyName.String
		o.CompanyName = &company
	}
	if r.RoleID.Valid {
		o.Role = &models.Role{ID: r.RoleID.Int64, Name: r.RoleName.String}
	}
	return o
}

// OfficerRepository справочник сотрудников муниципалитета и подрядчиков.
type OfficerRepository struct {
	db *sqlx.DB
}

// NewOfficerRepository создаёт экземпляр репозитория.
func NewOfficerRepository(db *sqlx.DB) *OfficerRepository {
	return &OfficerRepository{db: db}
}

// GetByUsername возвращает сотрудника по логину.
func (r *OfficerRepository) GetByUsername(ctx context.Context, username string) (*models.Officer, error) {
	return r.getOne(ctx, officerSelect+` WHERE o.username = $1`, username)
}

// GetByID возвращает сотрудника по идентификатору.
func (r *OfficerRepository) GetByID(ctx context.Context, id int64) (*models.Officer, error) {
	return r.getOne(ctx, officerSelect+` WHERE o.id = $1`, id)
}

// FirstInternal возвращает внутреннего сотрудника с наименьшим id или nil, если таких нет.
func (r *OfficerRepository) FirstInternal(ctx context.Context) (*models.Officer, error) {
	officer, err := r.getOne(ctx, officerSelect+` WHERE o.external = FALSE ORDER BY o.id LIMIT 1`)
	if errors.Is(err, apperror.ErrOfficerNotFound) {
		return nil, nil
	}
	return officer, err
}

func (r *OfficerRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.Officer, error) {
	var row officerRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrOfficerNotFound
		}
		return nil, common.DBError("officer repository: get", err)
	}
	return row.toModel(), nil
}

// selectOfficersByIDs загружает сотрудников одним запросом.
func selectOfficersByIDs(ctx context.Context, q sqlx.QueryerContext, ids []int64) (map[int64]*models.Officer, error) {
	out := make(map[int64]*models.Officer, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []officerRow
	if err := sqlx.SelectContext(ctx, q, &rows, officerSelect+` WHERE o.id = ANY($1)`, pq.Array(ids)); err != nil {
		return nil, common.DBError("officer repository: select by ids", err)
	}
	for _, row := range rows {
		out[row.ID] = row.toModel()
	}
	return out, nil
}
