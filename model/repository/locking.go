package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inventory.GO/model/entity"
)

// ForUpdate adds SELECT ... FOR UPDATE where the dialect supports row locks.
// sqlite serialises writers at the database level, so the clause is skipped there.
func ForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// NotFound maps gorm.ErrRecordNotFound onto entity.ErrNotFound.
func NotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.ErrNotFound
	}
	return err
}
