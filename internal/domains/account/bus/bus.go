// Package bus provides the business rules around accounts.
package bus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicatedEmail       = errors.New("email already in use")
	ErrAccountNotFound       = errors.New("account not found")
	ErrAuthenticationFailure = errors.New("authentication failed")
)

type store interface {
	Create(ctx context.Context, acc Account) error
	QueryByID(ctx context.Context, id uuid.UUID) (Account, error)
	QueryByEmail(ctx context.Context, email string) (Account, error)
}

type Bus struct {
	store store
	cost  int
}

func New(store store) *Bus {
	return &Bus{store: store, cost: bcrypt.DefaultCost}
}

// WithCost overrides the bcrypt cost, tests use bcrypt.MinCost to stay fast.
func (b *Bus) WithCost(cost int) *Bus {
	b.cost = cost
	return b
}

// Add hashes the password and persists a brand new account.
func (b *Bus) Add(ctx context.Context, na NewAccount) (Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(na.Password), b.cost)
	if err != nil {
		return Account{}, fmt.Errorf("generateFromPassword: %w", err)
	}

	//strip the monotonic clock, postgres keeps microseconds only.
	now := time.Now().Truncate(time.Microsecond)

	acc := Account{
		ID:           uuid.New(),
		Name:         na.Name,
		Email:        na.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := b.store.Create(ctx, acc); err != nil {
		return Account{}, fmt.Errorf("create: %w", err)
	}

	return acc, nil
}

func (b *Bus) QueryByID(ctx context.Context, id uuid.UUID) (Account, error) {
	acc, err := b.store.QueryByID(ctx, id)
	if err != nil {
		return Account{}, fmt.Errorf("queryByID: %w", err)
	}

	return acc, nil
}

func (b *Bus) QueryByEmail(ctx context.Context, email string) (Account, error) {
	acc, err := b.store.QueryByEmail(ctx, email)
	if err != nil {
		return Account{}, fmt.Errorf("queryByEmail: %w", err)
	}

	return acc, nil
}

// Authenticate returns the account owning email when password matches its hash.
func (b *Bus) Authenticate(ctx context.Context, email string, password string) (Account, error) {
	acc, err := b.store.QueryByEmail(ctx, email)
	if errors.Is(err, ErrAccountNotFound) {
		return Account{}, ErrAuthenticationFailure
	}

	if err != nil {
		return Account{}, fmt.Errorf("queryByEmail: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)); err != nil {
		return Account{}, ErrAuthenticationFailure
	}

	return acc, nil
}
