package handler

import (
	"context"
	"fmt"
	"math"
	"net/http"

	"github.com/hamidoujand/signup/internal/domains/account/bus"
	"github.com/hamidoujand/signup/internal/errs"
)

// HttpRequest is the transport independent view of an inbound signup call.
type HttpRequest struct {
	Body map[string]any
}

// HttpResponse is what the controller hands back to the transport. Body is
// either one of the errs param errors or the created bus.Account.
type HttpResponse struct {
	StatusCode int
	Body       any
}

// EmailValidator knows whether an email address is well formed.
type EmailValidator interface {
	IsValid(email string) (bool, error)
}

// AddAccount persists a new account.
type AddAccount interface {
	Add(ctx context.Context, na bus.NewAccount) (bus.Account, error)
}

var requiredFields = []string{"name", "email", "password", "passwordConfirmation"}

// SignUpController validates a signup request and opens the account.
type SignUpController struct {
	emailValidator EmailValidator
	addAccount     AddAccount
}

func NewSignUpController(emailValidator EmailValidator, addAccount AddAccount) *SignUpController {
	return &SignUpController{
		emailValidator: emailValidator,
		addAccount:     addAccount,
	}
}

// Handle runs the signup pipeline. It never returns an error: every failure is
// turned into a 400 or a 500 response.
func (sc *SignUpController) Handle(ctx context.Context, req HttpRequest) (resp HttpResponse) {
	defer func() {
		if rec := recover(); rec != nil {
			resp = serverError(fmt.Errorf("panic: %v", rec))
		}
	}()

	for _, field := range requiredFields {
		if isFalsy(req.Body[field]) {
			return badRequest(errs.NewMissingParamError(field))
		}
	}

	fields := make(map[string]string, len(requiredFields))
	for _, field := range requiredFields {
		s, ok := req.Body[field].(string)
		if !ok {
			return badRequest(errs.NewInvalidParamError(field))
		}
		fields[field] = s
	}

	if fields["password"] != fields["passwordConfirmation"] {
		return badRequest(errs.NewInvalidParamError("passwordConfirmation"))
	}

	name, email, password := fields["name"], fields["email"], fields["password"]

	valid, err := sc.emailValidator.IsValid(email)
	if err != nil {
		return serverError(fmt.Errorf("isValid: %w", err))
	}

	if !valid {
		return badRequest(errs.NewInvalidParamError(email))
	}

	acc, err := sc.addAccount.Add(ctx, bus.NewAccount{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return serverError(fmt.Errorf("add: %w", err))
	}

	return ok(acc)
}

// ==============================================================================

func badRequest(err error) HttpResponse {
	return HttpResponse{StatusCode: http.StatusBadRequest, Body: err}
}

func serverError(cause error) HttpResponse {
	return HttpResponse{StatusCode: http.StatusInternalServerError, Body: errs.NewServerError(cause)}
}

func ok(body any) HttpResponse {
	return HttpResponse{StatusCode: http.StatusOK, Body: body}
}

// isFalsy mirrors what a decoded json value means as "not provided".
func isFalsy(val any) bool {
	switch v := val.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case float64:
		return v == 0 || math.IsNaN(v)
	case int:
		return v == 0
	case int64:
		return v == 0
	default:
		return false
	}
}
