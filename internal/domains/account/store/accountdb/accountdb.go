// Package accountdb persists accounts in postgres.
package accountdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	accBus "github.com/hamidoujand/signup/internal/domains/account/bus"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	uniqueViolation = "23505"
)

type Store struct {
	db     *sqlx.DB
	tracer trace.Tracer
}

func NewStore(db *sqlx.DB, tracer trace.Tracer) *Store {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("accountdb")
	}

	return &Store{
		db:     db,
		tracer: tracer,
	}
}

func (s *Store) Create(ctx context.Context, acc accBus.Account) error {
	const q = `
	INSERT INTO accounts (id,name,email,password_hash,created_at,updated_at)
	VALUES (:id,:name,:email,:password_hash,:created_at,:updated_at)
	`

	ctx, span := s.tracer.Start(ctx, "account.store.create")
	defer span.End()

	if _, err := s.db.NamedExecContext(ctx, q, fromBusAccount(acc)); err != nil {
		var pgerror *pgconn.PgError
		if errors.As(err, &pgerror) && pgerror.Code == uniqueViolation {
			return accBus.ErrDuplicatedEmail
		}
		return fmt.Errorf("namedExecContext: %w", err)
	}

	return nil
}

func (s *Store) QueryByID(ctx context.Context, id uuid.UUID) (accBus.Account, error) {
	data := map[string]any{
		"id": id.String(),
	}

	const q = `
	SELECT id,name,email,password_hash,created_at,updated_at
	FROM accounts WHERE id = :id
	`

	ctx, span := s.tracer.Start(ctx, "account.store.queryByID")
	defer span.End()

	return s.queryOne(ctx, q, data)
}

func (s *Store) QueryByEmail(ctx context.Context, email string) (accBus.Account, error) {
	data := struct {
		Email string `db:"email"`
	}{
		Email: email,
	}

	const q = `
	SELECT id,name,email,password_hash,created_at,updated_at
	FROM accounts WHERE email = :email
	`

	ctx, span := s.tracer.Start(ctx, "account.store.queryByEmail")
	defer span.End()

	return s.queryOne(ctx, q, data)
}

func (s *Store) queryOne(ctx context.Context, q string, data any) (accBus.Account, error) {
	rows, err := s.db.NamedQueryContext(ctx, q, data)
	if err != nil {
		return accBus.Account{}, fmt.Errorf("namedQueryContext: %w", err)
	}

	defer rows.Close()

	//false means there is no row or the cursor failed
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return accBus.Account{}, fmt.Errorf("next: %w", err)
		}
		return accBus.Account{}, accBus.ErrAccountNotFound
	}

	var acc account
	if err := rows.StructScan(&acc); err != nil {
		return accBus.Account{}, fmt.Errorf("structScan: %w", err)
	}

	return toBusAccount(acc), nil
}
