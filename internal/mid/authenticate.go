package mid

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hamidoujand/signup/internal/auth"
	"github.com/hamidoujand/signup/internal/domains/account/bus"
	"github.com/hamidoujand/signup/internal/errs"
	"github.com/hamidoujand/signup/pkg/logger"
)

type accountQuerier interface {
	QueryByID(ctx context.Context, id uuid.UUID) (bus.Account, error)
}

// Authenticate verifies the bearer token and loads the account it belongs to
// into the request context.
func Authenticate(log *logger.Logger, a *auth.Auth, accounts accountQuerier) gin.HandlerFunc {
	return func(c *gin.Context) {
		//5 seconds to hit the db
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second*5)
		defer cancel()

		claims, err := a.VerifyToken(ctx, c.Request.Header.Get("Authorization"))
		if err != nil {
			unauthorized(c, err.Error())
			return
		}

		accountID, err := uuid.Parse(claims.Subject)
		if err != nil {
			unauthorized(c, fmt.Sprintf("invalid subject: %s", claims.Subject))
			return
		}

		acc, err := accounts.QueryByID(ctx, accountID)
		if errors.Is(err, bus.ErrAccountNotFound) {
			unauthorized(c, http.StatusText(http.StatusUnauthorized))
			return
		}

		if err != nil {
			log.Error(ctx, "queryByID", "err", err.Error())
			c.AbortWithStatusJSON(http.StatusInternalServerError, errs.Error{
				Code:    http.StatusInternalServerError,
				Message: http.StatusText(http.StatusInternalServerError),
			})
			return
		}

		reqCtx := auth.SetClaims(c.Request.Context(), claims)
		reqCtx = auth.SetAccount(reqCtx, acc)
		c.Request = c.Request.WithContext(reqCtx)

		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, errs.Error{
		Code:    http.StatusUnauthorized,
		Message: msg,
	})
}
