package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ignatzorin/cityreport-backend/internal/models"
)

// AccessClaims данные, извлечённые из access токена.
type AccessClaims struct {
	Party    models.Party
	Username string
}

// TokenManager отвечает за выпуск и проверку JWT.
type TokenManager struct {
	accessSecret []byte
	accessTTL    time.Duration
}

// NewTokenManager создаёт менеджер токенов.
func NewTokenManager(accessSecret string, accessTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret: []byte(accessSecret),
		accessTTL:    accessTTL,
	}
}

// TTL время жизни access токена.
func (m *TokenManager) TTL() time.Duration {
	return m.accessTTL
}

// GenerateAccess выпускает access токен участника.
func (m *TokenManager) GenerateAccess(party models.Party, username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatInt(party.ID, 10),
		"kind":     string(party.Kind),
		"username": username,
		"jti":      uuid.NewString(),
		"iat":      now.Unix(),
		"exp":      now.Add(m.accessTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.accessSecret)
}

// ParseAccess проверяет подпись и срок действия токена.
func (m *TokenManager) ParseAccess(token string) (*AccessClaims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный алгоритм подписи: %v", t.Header["alg"])
		}
		return m.accessSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil, jwt.ErrTokenInvalidClaims
	}

	kind, _ := claims["kind"].(string)
	party := models.Party{Kind: models.PartyKind(kind), ID: id}
	if !party.Kind.IsValid() {
		return nil, jwt.ErrTokenInvalidClaims
	}

	username, _ := claims["username"].(string)
	return &AccessClaims{Party: party, Username: username}, nil
}
