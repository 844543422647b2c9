package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"natours/internal/query"
)

// Scope narrows every read, update and delete issued by a repository.
type Scope = func(*gorm.DB) *gorm.DB

// Repository defines the persistence operations shared by every entity.
type Repository[T any] interface {
	List(ctx context.Context, desc *query.Descriptor, preloads ...string) ([]T, error)
	FindByID(ctx context.Context, id uuid.UUID, preloads ...string) (*T, error)
	Create(ctx context.Context, rec *T) error
	Save(ctx context.Context, rec *T) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormRepository[T any] struct {
	db     *gorm.DB
	scopes []Scope
}

// NewRepository builds a GORM-backed repository. Scopes apply to every query it issues.
func NewRepository[T any](db *gorm.DB, scopes ...Scope) Repository[T] {
	return &gormRepository[T]{db: db, scopes: scopes}
}

func (r *gormRepository[T]) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Scopes(r.scopes...)
}

// List runs a descriptor produced by the query builder.
func (r *gormRepository[T]) List(ctx context.Context, desc *query.Descriptor, preloads ...string) ([]T, error) {
	tx := r.scoped(ctx).Model(new(T))
	for _, p := range preloads {
		tx = tx.Preload(p)
	}
	if desc != nil {
		tx = desc.Apply(tx)
	}

	records := make([]T, 0)
	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByID returns gorm.ErrRecordNotFound when no visible record has the id.
func (r *gormRepository[T]) FindByID(ctx context.Context, id uuid.UUID, preloads ...string) (*T, error) {
	tx := r.scoped(ctx)
	for _, p := range preloads {
		tx = tx.Preload(p)
	}

	var rec T
	if err := tx.Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create inserts a record. Associations are never written implicitly.
func (r *gormRepository[T]) Create(ctx context.Context, rec *T) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(rec).Error
}

// Save writes every column of rec and bumps its version.
func (r *gormRepository[T]) Save(ctx context.Context, rec *T) error {
	if v, ok := any(rec).(interface{ NextVersion() }); ok {
		v.NextVersion()
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(rec).Error
}

// Delete removes a record and reports gorm.ErrRecordNotFound when nothing matched.
func (r *gormRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.scoped(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
