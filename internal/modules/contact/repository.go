package contact

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, m *Message) error
	List(ctx context.Context) ([]Message, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Migrate creates or updates the contact_messages table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Message{})
}

func (r *gormRepository) Create(ctx context.Context, m *Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// List returns every message in submission order.
func (r *gormRepository) List(ctx context.Context) ([]Message, error) {
	var out []Message
	err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&out).Error
	return out, err
}

func (r *gormRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&Message{})
	return res.RowsAffected, res.Error
}
