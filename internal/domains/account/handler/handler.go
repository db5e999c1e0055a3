// Package handler provides the http endpoints of the account domain.
package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/hamidoujand/signup/internal/auth"
	"github.com/hamidoujand/signup/internal/domains/account/bus"
	"github.com/hamidoujand/signup/internal/errs"
	"github.com/hamidoujand/signup/pkg/logger"
	"go.opentelemetry.io/otel/trace"
)

type handler struct {
	controller  *SignUpController
	accountBus  *bus.Bus
	a           *auth.Auth
	kid         string
	tokenMaxAge time.Duration
	tracer      trace.Tracer
	log         *logger.Logger
}

func (h *handler) signUp(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "account.handler.signUp")
	defer span.End()

	var body map[string]any
	//an empty body is handed to the controller as no params at all.
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.Error(errs.New(http.StatusBadRequest, fmt.Errorf("decode body: %w", err)))
		return
	}

	resp := h.controller.Handle(ctx, HttpRequest{Body: body})

	switch b := resp.Body.(type) {
	case bus.Account:
		c.JSON(resp.StatusCode, toAppAccount(b))
	case *errs.ServerError:
		h.log.Error(ctx, "signup failed", "err", b.Unwrap())
		c.JSON(resp.StatusCode, b)
	default:
		c.JSON(resp.StatusCode, b)
	}
}

func (h *handler) login(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "account.handler.login")
	defer span.End()

	var l login
	if err := c.ShouldBindJSON(&l); err != nil {
		//field errors are translated by the errors middleware.
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			err = errs.New(http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
		}
		c.Error(err)
		return
	}

	acc, err := h.accountBus.Authenticate(ctx, l.Email, l.Password)
	if errors.Is(err, bus.ErrAuthenticationFailure) {
		c.Error(errs.Newf(http.StatusUnauthorized, "invalid email or password"))
		return
	}

	if err != nil {
		c.Error(errs.Newf(http.StatusInternalServerError, "authenticate: %s", err))
		return
	}

	claims := h.a.NewClaims(acc.ID.String(), h.tokenMaxAge)
	token, err := h.a.GenerateToken(h.kid, claims)
	if err != nil {
		c.Error(errs.Newf(http.StatusInternalServerError, "generateToken: %s", err))
		return
	}

	c.JSON(http.StatusOK, Token{Token: token})
}

func (h *handler) me(c *gin.Context) {
	acc, err := auth.GetAccount(c.Request.Context())
	if err != nil {
		c.Error(errs.Newf(http.StatusUnauthorized, "%s", http.StatusText(http.StatusUnauthorized)))
		return
	}

	c.JSON(http.StatusOK, toAppAccount(acc))
}
