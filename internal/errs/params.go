package errs

import "fmt"

// MissingParamError reports a required request field that was absent or empty.
type MissingParamError struct {
	Kind    string `json:"error"`
	Message string `json:"message"`
	Param   string `json:"param"`
}

func NewMissingParamError(param string) *MissingParamError {
	return &MissingParamError{
		Kind:    "MissingParamError",
		Message: fmt.Sprintf("missing param: %s", param),
		Param:   param,
	}
}

func (e *MissingParamError) Error() string {
	return e.Message
}

// InvalidParamError reports a field that was present but failed a semantic check.
// Param is either the field name or the offending value, depending on the check.
type InvalidParamError struct {
	Kind    string `json:"error"`
	Message string `json:"message"`
	Param   string `json:"param"`
}

func NewInvalidParamError(param string) *InvalidParamError {
	return &InvalidParamError{
		Kind:    "InvalidParamError",
		Message: fmt.Sprintf("invalid param: %s", param),
		Param:   param,
	}
}

func (e *InvalidParamError) Error() string {
	return e.Message
}

// ServerError hides any failure coming from a collaborator. The cause is kept
// for logging only and never leaves the process.
type ServerError struct {
	Kind    string `json:"error"`
	Message string `json:"message"`
	cause   error
}

func NewServerError(cause error) *ServerError {
	return &ServerError{
		Kind:    "ServerError",
		Message: "internal server error",
		cause:   cause,
	}
}

func (e *ServerError) Error() string {
	return e.Message
}

func (e *ServerError) Unwrap() error {
	return e.cause
}
