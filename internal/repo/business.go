package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ineedcourier/order-service/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var businessColumns = []string{
	"business_id", "name", "email", "password_hash", "contact_person", "phone", "created_at",
}

const uniqueViolation = "23505"

type businessRepo struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func NewBusinessRepo(db *sqlx.DB) *businessRepo {
	return &businessRepo{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *businessRepo) CreateBusiness(ctx context.Context, b entities.Business) (entities.Business, error) {
	b.BusinessID = uuid.NewString()
	b.CreatedAt = time.Now().UTC()

	query, args := r.qb.Insert("businesses").
		Columns(businessColumns...).
		Values(
			b.BusinessID, b.Name, b.Email, b.PasswordHash,
			nullString(b.ContactPerson), nullString(b.Phone), b.CreatedAt,
		).
		MustSql()

	_, err := r.db.ExecContext(ctx, query, args...)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return entities.Business{}, entities.ErrEmailTaken
	}
	if err != nil {
		return entities.Business{}, fmt.Errorf("failed to insert business: %w", err)
	}
	return b, nil
}

func (r *businessRepo) GetBusinessByEmail(ctx context.Context, email string) (entities.Business, error) {
	query, args := r.qb.Select(businessColumns...).
		From("businesses").
		Where(sq.Eq{"email": email}).
		MustSql()

	var b Business
	err := r.db.GetContext(ctx, &b, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Business{}, entities.ErrBusinessNotFound
	}
	if err != nil {
		return entities.Business{}, fmt.Errorf("failed to get business: %w", err)
	}
	return BusinessToEntity(b), nil
}

func (r *businessRepo) GetBusinessByID(ctx context.Context, businessID string) (entities.Business, error) {
	query, args := r.qb.Select(businessColumns...).
		From("businesses").
		Where(sq.Eq{"business_id": businessID}).
		MustSql()

	var b Business
	err := r.db.GetContext(ctx, &b, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Business{}, entities.ErrBusinessNotFound
	}
	if err != nil {
		return entities.Business{}, fmt.Errorf("failed to get business: %w", err)
	}
	return BusinessToEntity(b), nil
}
