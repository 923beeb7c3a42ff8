package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("token is invalid")
	ErrExpiredToken = errors.New("token has expired")
)

const minSecretKeySize = 32

// Payload 登入後放在 request context 的身分資訊
type Payload struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiredAt time.Time `json:"expired_at"`
}

type Maker interface {
	CreateToken(userID, email string, duration time.Duration) (string, *Payload, error)
	VerifyToken(token string) (*Payload, error)
}

type claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JWTMaker HS256 簽章
type JWTMaker struct {
	secretKey []byte
	issuer    string
	now       func() time.Time
}

func NewJWTMaker(secretKey, issuer string) (*JWTMaker, error) {
	if len(secretKey) < minSecretKeySize {
		return nil, fmt.Errorf("invalid key size: must be at least %d characters", minSecretKeySize)
	}
	return &JWTMaker{secretKey: []byte(secretKey), issuer: issuer, now: time.Now}, nil
}

func (m *JWTMaker) CreateToken(userID, email string, duration time.Duration) (string, *Payload, error) {
	now := m.now()
	payload := &Payload{
		ID:        uuid.NewString(),
		UserID:    userID,
		Email:     email,
		IssuedAt:  now,
		ExpiredAt: now.Add(duration),
	}

	c := claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        payload.ID,
			Issuer:    m.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(payload.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(payload.ExpiredAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secretKey)
	if err != nil {
		return "", nil, err
	}
	return signed, payload, nil
}

func (m *JWTMaker) VerifyToken(token string) (*Payload, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return m.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if c.UserID == "" {
		return nil, ErrInvalidToken
	}

	payload := &Payload{
		ID:     c.ID,
		UserID: c.UserID,
		Email:  c.Email,
	}
	if c.IssuedAt != nil {
		payload.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		payload.ExpiredAt = c.ExpiresAt.Time
	}
	return payload, nil
}
