package accountdb

import (
	"time"

	"github.com/google/uuid"
	accBus "github.com/hamidoujand/signup/internal/domains/account/bus"
)

type account struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func fromBusAccount(acc accBus.Account) account {
	return account{
		ID:           acc.ID,
		Name:         acc.Name,
		Email:        acc.Email,
		PasswordHash: acc.PasswordHash,
		CreatedAt:    acc.CreatedAt.UTC(),
		UpdatedAt:    acc.UpdatedAt.UTC(),
	}
}

func toBusAccount(acc account) accBus.Account {
	return accBus.Account{
		ID:           acc.ID,
		Name:         acc.Name,
		Email:        acc.Email,
		PasswordHash: acc.PasswordHash,
		CreatedAt:    acc.CreatedAt.In(time.Local),
		UpdatedAt:    acc.UpdatedAt.In(time.Local),
	}
}
