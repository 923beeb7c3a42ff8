package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/auth/token"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type LoginResponse struct {
	AccessToken string      `json:"accessToken"`
	ExpiresIn   int64       `json:"expiresIn"`
	User        *model.User `json:"user"`
}

type IUserService interface {
	// Register 建立帳號, email 不分大小寫
	// 錯誤:
	//   - er.Validation 400: 欄位空白, 密碼超過 72 bytes
	//   - er.EmailTaken 400: email 已被註冊
	Register(ctx context.Context, req RegisterRequest) (*model.User, error)
	// Login 驗證密碼並簽發 access token
	// 錯誤:
	//   - er.InvalidCredentials 401: 帳號或密碼錯誤
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	// Me 取得當前登入 user 資訊
	// 錯誤:
	//   - er.Unauthenticated 401
	Me(ctx context.Context, userID string) (*model.User, error)
}

type UserService struct {
	store         db.Store
	tokenMaker    token.Maker
	tokenDuration time.Duration
	bcryptCost    int
}

var _ IUserService = (*UserService)(nil)

func NewUserService(store db.Store, tokenMaker token.Maker, tokenDuration time.Duration) *UserService {
	if store == nil {
		panic("user service initialization failed: store cannot be nil")
	}
	if tokenMaker == nil {
		panic("user service initialization failed: tokenMaker cannot be nil")
	}
	if tokenDuration <= 0 {
		tokenDuration = constants.DefaultAccessTokenDuration
	}
	return &UserService{
		store:         store,
		tokenMaker:    tokenMaker,
		tokenDuration: tokenDuration,
		bcryptCost:    constants.BcryptCost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	email := normalizeEmail(req.Email)
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if email == "" || req.Password == "" || firstName == "" || lastName == "" {
		return nil, er.New(er.Validation, "all fields are required")
	}
	if len(req.Password) > constants.MaxPasswordBytes {
		return nil, er.Newf(er.Validation, "password must be at most %d bytes", constants.MaxPasswordBytes)
	}

	_, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, er.New(er.EmailTaken, "an account with this email already exists")
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, er.Wrap(er.Unexpected, "failed to check email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, er.Wrap(er.Unexpected, "failed to hash password", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		// 同時註冊時由 unique index 擋下
		if errors.Is(err, db.ErrDuplicate) {
			return nil, er.New(er.EmailTaken, "an account with this email already exists")
		}
		log.Error().Err(err).Str("email", email).Msg("failed to create user")
		return nil, er.Wrap(er.Unexpected, "failed to create user", err)
	}
	return user, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, er.New(er.InvalidCredentials, "invalid email or password")
		}
		return nil, er.Wrap(er.Unexpected, "failed to get user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, er.New(er.InvalidCredentials, "invalid email or password")
	}

	accessToken, payload, err := s.tokenMaker.CreateToken(user.ID, user.Email, s.tokenDuration)
	if err != nil {
		return nil, er.Wrap(er.Unexpected, "failed to create access token", err)
	}

	return &LoginResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(payload.ExpiredAt.Sub(payload.IssuedAt).Seconds()),
		User:        user,
	}, nil
}

func (s *UserService) Me(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, er.New(er.Unauthenticated, "you must be logged in")
	}
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, er.New(er.Unauthenticated, "you must be logged in")
		}
		return nil, er.Wrap(er.Unexpected, "failed to get user", err)
	}
	return user, nil
}
