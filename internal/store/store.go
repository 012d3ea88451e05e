// Package store is the persistence boundary for every entity: users, their
// external accounts, characters, jobs, the join rows between them, events and
// event rosters.
package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for health checks and migrations.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn inside one database transaction. The transaction
// commits when fn returns nil and rolls back on error or panic. fn's error
// is returned as is.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// exists reports whether a row with the given primary key is in model's table.
func (s *Store) exists(ctx context.Context, model interface{}, id uuid.UUID) (bool, error) {
	var count int64
	if err := s.conn(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// requireRefs checks each foreign key before an insert.
func (s *Store) requireRefs(ctx context.Context, entity string, refs ...ref) error {
	for _, r := range refs {
		ok, err := s.exists(ctx, r.model, r.id)
		if err != nil {
			return &StorageError{Op: "check " + r.field, Err: err}
		}
		if !ok {
			return &ReferenceError{Entity: entity, Field: r.field}
		}
	}
	return nil
}

type ref struct {
	field string
	model interface{}
	id    uuid.UUID
}
