// Package postgres implementa domain.Store sobre Postgres (lib/pq).
//
// Toda operação que movimenta dinheiro roda numa única transação SQL com
// lock pessimista (SELECT ... FOR UPDATE) na linha do usuário, de forma que
// checagem de saldo e mutação nunca se intercalam entre chamadas concorrentes.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	shareddb "github.com/radieske/esports-bet-engine/internal/shared/db"
)

//go:embed schema.sql
var schemaSQL string

type Store struct {
	db *sql.DB
}

// New abre a conexão com Postgres (pool configurado) e valida com ping.
func New(dsn string) (*Store, error) {
	db, err := shareddb.ConnectPostgres(dsn)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// NewWithDB injeta um *sql.DB já aberto (útil em testes e no seeder).
func NewWithDB(db *sql.DB) *Store { return &Store{db: db} }

// EnsureSchema aplica o DDL idempotente do motor de apostas.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }

// withTx executa fn dentro de uma transação, com rollback garantido em erro.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
