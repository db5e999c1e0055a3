package auth

import (
	"context"
	"errors"

	"github.com/hamidoujand/signup/internal/domains/account/bus"
)

type key int

const claimsKey key = 1
const accountKey key = 2

func SetClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (Claims, error) {
	c, ok := ctx.Value(claimsKey).(Claims)
	if !ok {
		return Claims{}, errors.New("claims not found in context")
	}

	return c, nil
}

func SetAccount(ctx context.Context, acc bus.Account) context.Context {
	return context.WithValue(ctx, accountKey, acc)
}

func GetAccount(ctx context.Context) (bus.Account, error) {
	acc, ok := ctx.Value(accountKey).(bus.Account)
	if !ok {
		return bus.Account{}, errors.New("account not found in context")
	}

	return acc, nil
}
