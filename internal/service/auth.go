package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ineedcourier/order-service/internal/entities"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type BusinessRepo interface {
	CreateBusiness(ctx context.Context, b entities.Business) (entities.Business, error)
	GetBusinessByEmail(ctx context.Context, email string) (entities.Business, error)
	GetBusinessByID(ctx context.Context, businessID string) (entities.Business, error)
}

var ErrInvalidToken = errors.New("invalid token")

type RegisterInput struct {
	Name          string
	Email         string
	Password      string
	ContactPerson string
	Phone         string
}

type authService struct {
	logger   *slog.Logger
	repo     BusinessRepo
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(logger *slog.Logger, repo BusinessRepo, secret string, tokenTTL time.Duration) *authService {
	return &authService{
		logger:   logger.With(slog.String("service", "auth")),
		repo:     repo,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (entities.Business, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return entities.Business{}, fmt.Errorf("failed to hash password: %w", err)
	}

	business, err := s.repo.CreateBusiness(ctx, entities.Business{
		Name:          input.Name,
		Email:         input.Email,
		PasswordHash:  hash,
		ContactPerson: input.ContactPerson,
		Phone:         input.Phone,
	})
	if err != nil {
		return entities.Business{}, err
	}

	s.logger.InfoContext(ctx, "business registered",
		slog.String("business_id", business.BusinessID),
		slog.String("email", business.Email),
	)
	return business, nil
}

// Login verifies credentials and issues a bearer token carrying the business
// identity. Unknown email and wrong password are indistinguishable to the
// caller.
func (s *authService) Login(ctx context.Context, email, password string) (string, entities.Business, error) {
	business, err := s.repo.GetBusinessByEmail(ctx, email)
	if errors.Is(err, entities.ErrBusinessNotFound) {
		return "", entities.Business{}, entities.ErrInvalidCredentials
	}
	if err != nil {
		return "", entities.Business{}, err
	}

	if err := bcrypt.CompareHashAndPassword(business.PasswordHash, []byte(password)); err != nil {
		return "", entities.Business{}, entities.ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   business.BusinessID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", entities.Business{}, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.InfoContext(ctx, "business logged in", slog.String("business_id", business.BusinessID))
	return signed, business, nil
}

// VerifyToken resolves a bearer token to the business id it was issued for.
func (s *authService) VerifyToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
