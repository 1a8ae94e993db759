package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/cityreport-backend/internal/models"
	"github.com/ignatzorin/cityreport-backend/internal/pkg/apperror"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	users := newMemUsers()
	tokens := NewTokenManager("access", time.Minute)
	svc := NewAuthService(users, newMemOfficers(), tokens, nullLogger())
	ctx := context.Background()

	res, err := svc.RegisterCitizen(ctx, RegisterInput{
		Username: "ivan.petrov",
		Email:    "Ivan@Example.com",
		Name:     "Иван",
		Surname:  "Петров",
		Password: "Password123",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PartyUser, res.Party.Kind)
	assert.Equal(t, "ivan@example.com", res.User.Email)
	assert.NotEqual(t, "Password123", res.User.PasswordHash)
	assert.NotEmpty(t, res.AccessToken)

	claims, err := tokens.ParseAccess(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.Party, claims.Party)
	assert.Equal(t, "ivan.petrov", claims.Username)

	login, err := svc.LoginCitizen(ctx, "ivan.petrov", "Password123")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = svc.LoginCitizen(ctx, "ivan.petrov", "wrong")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = svc.LoginCitizen(ctx, "nobody", "Password123")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_RegisterCitizen_Rejects(t *testing.T) {
	users := newMemUsers()
	users.add("taken")
	svc := NewAuthService(users, newMemOfficers(), NewTokenManager("access", time.Minute), nullLogger())

	valid := RegisterInput{Username: "newbie", Email: "n@example.com", Name: "Анна", Surname: "Смирнова", Password: "Password123"}

	dup := valid
	dup.Username = "taken"
	_, err := svc.RegisterCitizen(context.Background(), dup)
	assert.Equal(t, apperror.ErrCodeConflict, apperror.CodeOf(err))

	weak := valid
	weak.Password = "short"
	_, err = svc.RegisterCitizen(context.Background(), weak)
	assert.True(t, apperror.IsInvalid(err))

	badEmail := valid
	badEmail.Email = "not-an-email"
	_, err = svc.RegisterCitizen(context.Background(), badEmail)
	assert.True(t, apperror.IsInvalid(err))
}

func TestAuthService_LoginOfficer(t *testing.T) {
	officers := newMemOfficers()
	officer := officers.add(5, "lead", false)
	hash, err := bcrypt.GenerateFromPassword([]byte("Secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	officer.PasswordHash = string(hash)

	tokens := NewTokenManager("access", time.Minute)
	svc := NewAuthService(newMemUsers(), officers, tokens, nullLogger())

	res, err := svc.LoginOfficer(context.Background(), "lead", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, models.OfficerParty(5), res.Party)
	assert.Equal(t, officer, res.Officer)

	claims, err := tokens.ParseAccess(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.PartyOfficer, claims.Party.Kind)

	_, err = svc.LoginOfficer(context.Background(), "lead", "Wrong123")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestTokenManager_ParseAccess(t *testing.T) {
	tokens := NewTokenManager("access", time.Minute)

	token, err := tokens.GenerateAccess(models.OfficerParty(42), "agent")
	require.NoError(t, err)

	claims, err := tokens.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, models.OfficerParty(42), claims.Party)

	_, err = NewTokenManager("other", time.Minute).ParseAccess(token)
	assert.Error(t, err)

	expired, err := NewTokenManager("access", -time.Minute).GenerateAccess(models.UserParty(1), "u")
	require.NoError(t, err)
	_, err = tokens.ParseAccess(expired)
	assert.Error(t, err)

	_, err = tokens.ParseAccess("garbage")
	assert.Error(t, err)
}
