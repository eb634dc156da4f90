package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ineedcourier/order-service/internal/entities"
	"github.com/ineedcourier/order-service/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBusinessRepo struct {
	byEmail map[string]entities.Business
}

func newFakeBusinessRepo() *fakeBusinessRepo {
	return &fakeBusinessRepo{byEmail: make(map[string]entities.Business)}
}

func (r *fakeBusinessRepo) CreateBusiness(_ context.Context, b entities.Business) (entities.Business, error) {
	if _, ok := r.byEmail[b.Email]; ok {
		return entities.Business{}, entities.ErrEmailTaken
	}
	b.BusinessID = uuid.NewString()
	b.CreatedAt = time.Now().UTC()
	r.byEmail[b.Email] = b
	return b, nil
}

func (r *fakeBusinessRepo) GetBusinessByEmail(_ context.Context, email string) (entities.Business, error) {
	b, ok := r.byEmail[email]
	if !ok {
		return entities.Business{}, entities.ErrBusinessNotFound
	}
	return b, nil
}

func (r *fakeBusinessRepo) GetBusinessByID(_ context.Context, businessID string) (entities.Business, error) {
	for _, b := range r.byEmail {
		if b.BusinessID == businessID {
			return b, nil
		}
	}
	return entities.Business{}, entities.ErrBusinessNotFound
}

func newAuthService(repo service.BusinessRepo, secret string) interface {
	Register(ctx context.Context, input service.RegisterInput) (entities.Business, error)
	Login(ctx context.Context, email, password string) (string, entities.Business, error)
	VerifyToken(token string) (string, error)
} {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return service.NewAuthService(logger, repo, secret, time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	repo := newFakeBusinessRepo()
	svc := newAuthService(repo, "test-secret-key-32-bytes")
	ctx := context.Background()

	input := service.RegisterInput{
		Name:          "Pizza Palace",
		Email:         "info@pizzapalace.com",
		Password:      "password123",
		ContactPerson: "Mehmet Demir",
		Phone:         "+905559876543",
	}

	business, err := svc.Register(ctx, input)
	require.NoError(t, err)
	assert.NotEmpty(t, business.BusinessID)
	assert.Equal(t, input.Email, business.Email)
	assert.NotEqual(t, []byte(input.Password), business.PasswordHash, "password must be stored hashed")

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, input)
		require.ErrorIs(t, err, entities.ErrEmailTaken)
	})
}

func TestAuthService_Login(t *testing.T) {
	repo := newFakeBusinessRepo()
	svc := newAuthService(repo, "test-secret-key-32-bytes")
	ctx := context.Background()

	registered, err := svc.Register(ctx, service.RegisterInput{
		Name:     "Pizza Palace",
		Email:    "info@pizzapalace.com",
		Password: "password123",
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		token, business, err := svc.Login(ctx, "info@pizzapalace.com", "password123")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, registered.BusinessID, business.BusinessID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "info@pizzapalace.com", "wrong")
		require.ErrorIs(t, err, entities.ErrInvalidCredentials)
	})

	t.Run("unknown email looks like wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "password123")
		require.ErrorIs(t, err, entities.ErrInvalidCredentials)
	})
}

func TestAuthService_VerifyToken(t *testing.T) {
	repo := newFakeBusinessRepo()
	svc := newAuthService(repo, "test-secret-key-32-bytes")
	ctx := context.Background()

	registered, err := svc.Register(ctx, service.RegisterInput{
		Name:     "Pizza Palace",
		Email:    "info@pizzapalace.com",
		Password: "password123",
	})
	require.NoError(t, err)

	token, _, err := svc.Login(ctx, "info@pizzapalace.com", "password123")
	require.NoError(t, err)

	t.Run("round trip resolves subject", func(t *testing.T) {
		businessID, err := svc.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, registered.BusinessID, businessID)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.VerifyToken("not.a.token")
		require.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := newAuthService(repo, "another-secret-key-32-bytes")
		foreign, _, err := other.Login(ctx, "info@pizzapalace.com", "password123")
		require.NoError(t, err)

		_, err = svc.VerifyToken(foreign)
		require.ErrorIs(t, err, service.ErrInvalidToken)
	})
}
