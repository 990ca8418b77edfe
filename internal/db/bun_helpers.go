// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
)

// ExecRaw runs a raw statement on a *bun.DB or a bun.Tx.
func ExecRaw(ctx context.Context, idb bun.IDB, query string, args ...any) (sql.Result, error) {
	return idb.NewRaw(query, args...).Exec(ctx)
}

// QueryRawInto runs a raw query and scans the first row into dest.
func QueryRawInto(ctx context.Context, idb bun.IDB, dest any, query string, args ...any) error {
	return idb.NewRaw(query, args...).Scan(ctx, dest)
}

// WithTx runs fn in a transaction on bdb. A panic inside fn rolls back and
// is re-raised; an error rolls back and is returned.
func WithTx(ctx context.Context, bdb *bun.DB, fn func(ctx context.Context, tx bun.Tx) error) error {
	tx, err := bdb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			dbLogf("db: rollback failed: %v", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
