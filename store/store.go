// Package store wraps gorm with the small set of access primitives the event
// handlers need: get-or-null, existence checks and delete-if-present. Handlers
// receive a *gorm.DB (or transaction) rather than reaching into a global
// store, so tests can inject an in-memory database.
package store

import (
	"errors"

	"gorm.io/gorm"
)

// GetOrNull loads the entity with the given primary key, returning nil when
// no row exists. Any other storage failure is propagated.
func GetOrNull[T any](db *gorm.DB, id any) (*T, error) {
	var entity T
	err := db.First(&entity, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// GetByColumn loads the first entity whose column matches value, or nil.
func GetByColumn[T any](db *gorm.DB, column string, value any) (*T, error) {
	var entity T
	err := db.First(&entity, column+" = ?", value).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// DeleteByID removes the row with the given primary key. Deleting a missing
// row is a no-op, matching delete-if-present semantics.
func DeleteByID[T any](db *gorm.DB, id any) error {
	var entity T
	return db.Delete(&entity, "id = ?", id).Error
}

// Count returns the number of rows for the entity type.
func Count[T any](db *gorm.DB) (int64, error) {
	var entity T
	var n int64
	if err := db.Model(&entity).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
