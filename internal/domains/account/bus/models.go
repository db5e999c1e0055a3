package bus

import (
	"time"

	"github.com/google/uuid"
)

// Account is the record produced once a signup has been persisted.
type Account struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewAccount is what a caller needs to provide to open an account.
type NewAccount struct {
	Name     string
	Email    string
	Password string
}
