package handler

import (
	"time"

	"github.com/hamidoujand/signup/internal/domains/account/bus"
)

type account struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// toAppAccount forwards the record as it was stored, password hash included.
func toAppAccount(acc bus.Account) account {
	return account{
		ID:        acc.ID.String(),
		Name:      acc.Name,
		Email:     acc.Email,
		Password:  string(acc.PasswordHash),
		CreatedAt: acc.CreatedAt.Format(time.RFC3339),
		UpdatedAt: acc.UpdatedAt.Format(time.RFC3339),
	}
}

type login struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type Token struct {
	Token string `json:"token"`
}
