package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/cityreport-backend/internal/models"
	"github.com/ignatzorin/cityreport-backend/internal/pkg/apperror"
	"github.com/ignatzorin/cityreport-backend/internal/service"
)

func TestAuthHandler_Register(t *testing.T) {
	auth := new(mockAuth)
	auth.On("RegisterCitizen", mock.Anything, service.RegisterInput{
		Username: "ivan", Email: "ivan@example.com", Name: "Иван", Surname: "Петров", Password: "Password123",
	}).Return(&service.AuthResult{
		Party:       models.UserParty(1),
		Username:    "ivan",
		User:        &models.User{ID: 1, Username: "ivan", Name: "Иван", Surname: "Петров"},
		AccessToken: "token",
	}, nil)

	r := newTestEngine()
	r.POST("/auth/register", NewAuthHandler(auth, time.Hour).Register)

	body := `{"username":"ivan","email":"ivan@example.com","name":"Иван","surname":"Петров","password":"Password123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := perform(r, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"access_token":"token"`)
	assert.Contains(t, w.Body.String(), `"expires_in":3600`)
	assert.Contains(t, w.Body.String(), `"kind":"user"`)
	auth.AssertExpectations(t)
}

func TestAuthHandler_Register_BadJSON(t *testing.T) {
	r := newTestEngine()
	r.POST("/auth/register", NewAuthHandler(new(mockAuth), time.Hour).Register)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"username":`))
	req.Header.Set("Content-Type", "application/json")
	w := perform(r, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	auth := new(mockAuth)
	auth.On("LoginCitizen", mock.Anything, "ivan", "wrong").Return(nil, apperror.ErrInvalidCredentials)

	r := newTestEngine()
	r.POST("/auth/login", NewAuthHandler(auth, time.Hour).Login)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"ivan","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	w := perform(r, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestAuthHandler_LoginOfficer(t *testing.T) {
	auth := new(mockAuth)
	auth.On("LoginOfficer", mock.Anything, "lead", "Secret123").Return(&service.AuthResult{
		Party:       models.OfficerParty(5),
		Username:    "lead",
		Officer:     &models.Officer{ID: 5, Username: "lead"},
		AccessToken: "officer-token",
	}, nil)

	r := newTestEngine()
	r.POST("/auth/officers/login", NewAuthHandler(auth, time.Minute).LoginOfficer)

	req := httptest.NewRequest(http.MethodPost, "/auth/officers/login", strings.NewReader(`{"username":"lead","password":"Secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	w := perform(r, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"officer"`)
	assert.Contains(t, w.Body.String(), `"officer":{"id":5`)
	assert.NotContains(t, w.Body.String(), `"user":`)
}
