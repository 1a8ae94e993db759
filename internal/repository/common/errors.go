package common

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/ignatzorin/cityreport-backend/internal/pkg/apperror"
)

// uniqueViolation код ошибки PostgreSQL при нарушении уникального индекса.
const uniqueViolation = pq.ErrorCode("23505")

// IsUniqueViolation сообщает, что запись нарушила уникальный индекс.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// DBError оборачивает ошибку драйвера в DATABASE_ERROR, причина доступна через errors.Unwrap.
// Уже доменные ошибки возвращаются без изменений.
func DBError(op string, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Wrap(fmt.Errorf("%s: %w", op, err), apperror.ErrCodeDatabaseError, "ошибка базы данных")
}
