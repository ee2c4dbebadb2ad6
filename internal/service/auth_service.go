package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hagwonlab/hagwon-api/internal/dto"
	"github.com/hagwonlab/hagwon-api/internal/repository"
	"github.com/hagwonlab/hagwon-api/pkg/identity"
)

var (
	// ErrInvalidCredentials indicates login failed for the given email and
	// password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrIdentityUnavailable indicates the identity directory could not
	// answer the request.
	ErrIdentityUnavailable = errors.New("identity directory unavailable")
)

// AuthService exchanges credentials for signed tokens.
type AuthService interface {
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
}

type authService struct {
	users     repository.UserRepository
	directory identity.Client
	validator *validator.Validate
	secret    []byte
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

// NewAuthService constructs the authentication service.
func NewAuthService(users repository.UserRepository, directory identity.Client, validator *validator.Validate, secret string, tokenTTL time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		directory: directory,
		validator: validator,
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	if _, err := s.directory.VerifyPassword(ctx, payload.Email, payload.Password); err != nil {
		switch {
		case errors.Is(err, identity.ErrNotFound):
			return dto.LoginResponse{}, ErrInvalidCredentials
		case errors.Is(err, identity.ErrUnavailable):
			s.logger.Error().Err(err).Msg("identity directory unreachable during login")
			return dto.LoginResponse{}, ErrIdentityUnavailable
		default:
			return dto.LoginResponse{}, err
		}
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// the directory knows the account but the application does
			// not; treat as a failed login rather than leaking state
			s.logger.Warn().Str("email", payload.Email).Msg("directory account without application user")
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(user.ID), 10),
		"email": user.Email,
		"name":  user.Name,
		"role":  user.RoleLevel,
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", user.RoleLevel).Msg("login succeeded")

	return dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.NewUserResponse(user),
	}, nil
}
