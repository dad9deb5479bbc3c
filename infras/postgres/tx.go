package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// TxFunc runs inside an open transaction. Returning an error rolls the transaction back.
type TxFunc func(ctx context.Context, tx *sqlx.Tx) error

// TxManager scopes a unit of work to a single transaction on the write pool.
type TxManager interface {
	RunInTx(ctx context.Context, fn TxFunc) error
}

type txManager struct {
	db   *sqlx.DB
	opts *sql.TxOptions
}

func NewTxManager(conn *Connection) TxManager {
	return NewTxManagerWithDB(conn.Write)
}

func NewTxManagerWithDB(db *sqlx.DB) TxManager {
	return &txManager{
		db:   db,
		opts: &sql.TxOptions{Isolation: sql.LevelReadCommitted},
	}
}

func (m *txManager) RunInTx(ctx context.Context, fn TxFunc) (err error) {
	tx, err := m.db.BeginTxx(ctx, m.opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			rollback(tx)
			panic(p)
		}

		if err != nil {
			rollback(tx)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func rollback(tx *sqlx.Tx) {
	if err := tx.Rollback(); err != nil {
		log.Error().Err(err).Msg("failed to rollback transaction")
	}
}
