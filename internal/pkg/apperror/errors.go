package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeReportNotFound       ErrorCode = "REPORT_NOT_FOUND"
	ErrCodeChatNotFound         ErrorCode = "CHAT_NOT_FOUND"
	ErrCodeOfficerNotFound      ErrorCode = "OFFICER_NOT_FOUND"
	ErrCodeTechLeadNotFound     ErrorCode = "TECH_LEAD_NOT_FOUND"
	ErrCodeNotificationNotFound ErrorCode = "NOTIFICATION_NOT_FOUND"
	ErrCodeUserNotFound         ErrorCode = "USER_NOT_FOUND"
	ErrCodeCategoryNotFound     ErrorCode = "CATEGORY_NOT_FOUND"
	ErrCodeUnauthorized         ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden            ErrorCode = "FORBIDDEN"
	ErrCodeInvalidRequest       ErrorCode = "INVALID_REQUEST"
	ErrCodeConflict             ErrorCode = "CONFLICT"
	ErrCodeRateLimited          ErrorCode = "RATE_LIMITED"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
	ErrCodeDatabaseError        ErrorCode = "DATABASE_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is сравнивает ошибки по коду, сообщение не учитывается.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Invalid создаёт ошибку INVALID_REQUEST с форматированным сообщением.
func Invalid(format string, args ...any) *AppError {
	return New(ErrCodeInvalidRequest, fmt.Sprintf(format, args...))
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeReportNotFound, ErrCodeChatNotFound, ErrCodeOfficerNotFound, ErrCodeTechLeadNotFound,
		ErrCodeNotificationNotFound, ErrCodeUserNotFound, ErrCodeCategoryNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf возвращает код ошибки или INTERNAL_ERROR для посторонних ошибок.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.HTTPStatus == http.StatusNotFound
}

func IsForbidden(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeForbidden
}

func IsInvalid(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeInvalidRequest
}

var (
	ErrReportNotFound       = New(ErrCodeReportNotFound, "обращение не найдено")
	ErrChatNotFound         = New(ErrCodeChatNotFound, "чат не найден")
	ErrOfficerNotFound      = New(ErrCodeOfficerNotFound, "сотрудник не найден")
	ErrTechLeadNotFound     = New(ErrCodeTechLeadNotFound, "руководитель не найден")
	ErrNotificationNotFound = New(ErrCodeNotificationNotFound, "уведомление не найдено")
	ErrUserNotFound         = New(ErrCodeUserNotFound, "пользователь не найден")
	ErrCategoryNotFound     = New(ErrCodeCategoryNotFound, "категория не найдена")
	ErrUnauthorized         = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden            = New(ErrCodeForbidden, "недостаточно прав")
	ErrInvalidCredentials   = New(ErrCodeUnauthorized, "неверные учетные данные")
	ErrRateLimited          = New(ErrCodeRateLimited, "слишком много запросов, попробуйте позже")
)
