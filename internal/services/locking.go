package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate adds a FOR UPDATE row lock to the query so concurrent
// transactions touching the same row serialize. Under read-committed
// Postgres, a plain read-then-write transaction lets two writers act on the
// same snapshot; the row lock makes the second wait for the first to commit.
// SQLite allows a single writer at a time and rejects the clause, so it is
// skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
