// Package repository holds the gorm-backed stores used by the booking engine
// and the auth handlers.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"homecare-app-server/internal/booking"
)

// Store implements every store interface on top of one *gorm.DB, which may
// be a transaction.
type Store struct {
	db *gorm.DB
}

// New creates a Store.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithinTransaction runs fn against a Store bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) WithinTransaction(ctx context.Context, fn func(booking.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// notFound turns gorm.ErrRecordNotFound into a nil error so callers can
// test the returned pointer instead.
func notFound(err error) (bool, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	return false, err
}
