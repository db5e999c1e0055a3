// Package emailvalidator checks email addresses submitted on signup.
package emailvalidator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

type Adapter struct {
	validate *validator.Validate
}

func New() *Adapter {
	return &Adapter{validate: validator.New()}
}

// IsValid reports whether email is a well formed address. An error means the
// check itself could not run.
func (a *Adapter) IsValid(email string) (bool, error) {
	err := a.validate.Var(email, "required,email")
	if err == nil {
		return true, nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return false, nil
	}

	return false, fmt.Errorf("validate email: %w", err)
}
