package db

import (
	"context"
	"database/sql"
	"fmt"
)

// NullIfEmpty helps store optional strings without wiping existing data.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// NullID turns a zero id into SQL NULL.
func NullID(id int64) any {
	if id <= 0 {
		return nil
	}
	return id
}

// WithTx runs fn inside a transaction. Rollback is guaranteed on every exit
// path: fn error, panic, or commit failure. Callers must never observe a
// partially applied multi-statement write.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
