package database

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// TxFunc - атомарный блок. Внутри нужно использовать только переданный tx.
type TxFunc func(tx *gorm.DB) error

// WithTransaction выполняет fn как единое целое: либо все изменения, либо ничего.
// Если db уже является транзакцией, GORM открывает savepoint, и откат
// вложенного блока не затрагивает внешний.
func WithTransaction(ctx context.Context, db *gorm.DB, fn TxFunc) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}

const pgUniqueViolation = "23505"

// IsUniqueViolation распознает нарушение уникального индекса для postgres и sqlite
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
