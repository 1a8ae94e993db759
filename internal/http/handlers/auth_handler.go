package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/cityreport-backend/internal/dto"
	"github.com/ignatzorin/cityreport-backend/internal/http/response"
	"github.com/ignatzorin/cityreport-backend/internal/service"
)

// AuthHandler обслуживает регистрацию и вход.
type AuthHandler struct {
	auth     AuthUseCase
	tokenTTL time.Duration
}

// NewAuthHandler создаёт новый хэндлер.
func NewAuthHandler(auth AuthUseCase, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, tokenTTL: tokenTTL}
}

// Register обрабатывает POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	res, err := h.auth.RegisterCitizen(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Surname:  req.Surname,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, h.authResponse(res))
}

// Login обрабатывает POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	res, err := h.auth.LoginCitizen(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, h.authResponse(res))
}

// LoginOfficer обрабатывает POST /auth/officers/login.
func (h *AuthHandler) LoginOfficer(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	res, err := h.auth.LoginOfficer(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, h.authResponse(res))
}

func (h *AuthHandler) authResponse(res *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		AccessToken: res.AccessToken,
		ExpiresIn:   int64(h.tokenTTL.Seconds()),
		Kind:        string(res.Party.Kind),
		User:        dto.NewUserResponse(res.User),
		Officer:     dto.NewOfficerResponse(res.Officer),
	}
}
