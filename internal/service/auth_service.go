package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/cityreport-backend/internal/models"
	"github.com/ignatzorin/cityreport-backend/internal/pkg/apperror"
	"github.com/ignatzorin/cityreport-backend/internal/validation"
)

// RegisterInput содержит данные гражданина при регистрации.
type RegisterInput struct {
	Username string
	Email    string
	Name     string
	Surname  string
	Password string
}

// AuthResult возвращает итог регистрации или входа.
type AuthResult struct {
	Party       models.Party
	Username    string
	User        *models.User
	Officer     *models.Officer
	AccessToken string
}

// AuthService регистрация и вход граждан и сотрудников.
type AuthService struct {
	users        UserStore
	officers     OfficerDirectory
	tokenManager *TokenManager
	log          logrus.FieldLogger
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(users UserStore, officers OfficerDirectory, tokenManager *TokenManager, log logrus.FieldLogger) *AuthService {
	return &AuthService{
		users:        users,
		officers:     officers,
		tokenManager: tokenManager,
		log:          log.WithField("component", "auth"),
	}
}

// RegisterCitizen создаёт гражданина и сразу выпускает ему токен.
func (s *AuthService) RegisterCitizen(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		return nil, apperror.New(apperror.ErrCodeConflict, "имя пользователя занято")
	} else if !errors.Is(err, apperror.ErrUserNotFound) {
		return nil, err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось захешировать пароль: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		Name:         strings.TrimSpace(in.Name),
		Surname:      strings.TrimSpace(in.Surname),
		PasswordHash: string(passHash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.WithField("user_id", user.ID).Info("гражданин зарегистрирован")
	return s.issue(models.UserParty(user.ID), user.Username, user, nil)
}

// LoginCitizen проверяет учётные данные гражданина.
func (s *AuthService) LoginCitizen(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}
	return s.issue(models.UserParty(user.ID), user.Username, user, nil)
}

// LoginOfficer проверяет учётные данные сотрудника.
func (s *AuthService) LoginOfficer(ctx context.Context, username, password string) (*AuthResult, error) {
	officer, err := s.officers.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(officer.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}
	return s.issue(models.OfficerParty(officer.ID), officer.Username, nil, officer)
}

func (s *AuthService) issue(party models.Party, username string, user *models.User, officer *models.Officer) (*AuthResult, error) {
	token, err := s.tokenManager.GenerateAccess(party, username)
	if err != nil {
		return nil, fmt.Errorf("auth service: выпуск токена: %w", err)
	}
	return &AuthResult{
		Party:       party,
		Username:    username,
		User:        user,
		Officer:     officer,
		AccessToken: token,
	}, nil
}

func validateRegistration(in RegisterInput) error {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return apperror.Invalid("%s", err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return apperror.Invalid("%s", err.Error())
	}
	if err := validation.ValidatePersonName("имя", in.Name); err != nil {
		return apperror.Invalid("%s", err.Error())
	}
	if err := validation.ValidatePersonName("фамилия", in.Surname); err != nil {
		return apperror.Invalid("%s", err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return apperror.Invalid("%s", err.Error())
	}
	return nil
}
