package contact

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/kimhabork/storefront-backend/pkg/errors"
)

// Repository persists contact messages.
type Repository interface {
	Create(ctx context.Context, msg *ContactMessage) error
	GetByID(ctx context.Context, id uuid.UUID) (*ContactMessage, error)
	List(ctx context.Context, limit, offset int) ([]ContactMessage, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, msg *ContactMessage) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing contact message")
	}
	return nil
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*ContactMessage, error) {
	var msg ContactMessage
	err := r.db.WithContext(ctx).First(&msg, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contact message not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading contact message")
	}
	return &msg, nil
}

func (r *gormRepository) List(ctx context.Context, limit, offset int) ([]ContactMessage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var msgs []ContactMessage
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&msgs).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing contact messages")
	}
	return msgs, nil
}
