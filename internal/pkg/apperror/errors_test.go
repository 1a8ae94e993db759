package apperror

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundFamilyMapsTo404(t *testing.T) {
	for _, err := range []*AppError{
		ErrReportNotFound, ErrChatNotFound, ErrOfficerNotFound, ErrTechLeadNotFound,
		ErrNotificationNotFound, ErrUserNotFound, ErrCategoryNotFound,
	} {
		assert.Equal(t, http.StatusNotFound, err.HTTPStatus, err.Code)
		assert.True(t, IsNotFound(err), err.Code)
	}
	assert.False(t, IsNotFound(ErrForbidden))
	assert.Equal(t, http.StatusForbidden, ErrForbidden.HTTPStatus)
}

func TestIsComparesByCode(t *testing.T) {
	wrapped := fmt.Errorf("report service: %w", ErrOfficerNotFound)

	assert.True(t, errors.Is(wrapped, ErrOfficerNotFound))
	assert.True(t, errors.Is(New(ErrCodeOfficerNotFound, "другой текст"), ErrOfficerNotFound))
	assert.False(t, errors.Is(wrapped, ErrTechLeadNotFound))
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(sql.ErrConnDone, ErrCodeDatabaseError, "не удалось сохранить")

	assert.True(t, errors.Is(err, sql.ErrConnDone))
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
	assert.Contains(t, err.Error(), "DATABASE_ERROR")
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeChatNotFound, CodeOf(fmt.Errorf("x: %w", ErrChatNotFound)))
	assert.Equal(t, ErrCodeInternal, CodeOf(errors.New("boom")))
	assert.Equal(t, ErrCodeInvalidRequest, CodeOf(Invalid("поле %s обязательно", "title")))
}
