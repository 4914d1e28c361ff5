// Package sqlite implementa o armazenamento relacional transacional do motor
// de cotas, das denúncias e da agregação por empresa.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/necdetsanli/do-not-ghost-me-sub000/internal/core/ports"
)

//go:embed schema.sql
var schemaSQL string

// Store encapsula o banco SQLite. Transações abrem em modo IMMEDIATE, de
// forma que a sequência leitura-incremento-escrita do contador diário fica
// serializada entre transações concorrentes (sem updates perdidos).
type Store struct {
	db *sql.DB
}

var (
	_ ports.QuotaStore  = (*Store)(nil)
	_ ports.IntelStore  = (*Store)(nil)
	_ ports.ReportStore = (*Store)(nil)
)

// Open cria ou abre o banco no caminho dado, aplicando pragmas e o esquema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_txlock=immediate", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite aceita um único escritor por vez; limitar o pool evita
	// SQLITE_BUSY sob concorrência.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// WithinTx executa fn dentro de uma transação: qualquer erro de fn desfaz
// todos os efeitos, inclusive o incremento do contador diário.
func (s *Store) WithinTx(ctx context.Context, fn func(tx ports.QuotaTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&quotaTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// isUniqueViolation identifica a violação de unicidade/chave primária do
// driver; é o único lugar do repositório que inspeciona códigos do SQLite.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
