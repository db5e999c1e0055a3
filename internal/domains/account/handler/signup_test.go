package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/hamidoujand/signup/internal/domains/account/bus"
	"github.com/hamidoujand/signup/internal/errs"
)

func Test_SignUpMissingParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    map[string]any
		missing string
	}{
		{
			name:    "no_name",
			body:    map[string]any{"email": "email@gmail.com", "password": "password", "passwordConfirmation": "password"},
			missing: "name",
		},
		{
			name:    "no_email",
			body:    map[string]any{"name": "any_name", "password": "password", "passwordConfirmation": "password"},
			missing: "email",
		},
		{
			name:    "no_password",
			body:    map[string]any{"name": "any_name", "email": "email@gmail.com", "passwordConfirmation": "password"},
			missing: "password",
		},
		{
			name:    "no_password_confirmation",
			body:    map[string]any{"name": "any_name", "email": "email@gmail.com", "password": "password"},
			missing: "passwordConfirmation",
		},
		{
			name:    "empty_string_counts_as_missing",
			body:    map[string]any{"name": "", "email": "email@gmail.com", "password": "password", "passwordConfirmation": "password"},
			missing: "name",
		},
		{
			name:    "null_counts_as_missing",
			body:    map[string]any{"name": "any_name", "email": nil, "password": "password", "passwordConfirmation": "password"},
			missing: "email",
		},
		{
			name:    "false_and_zero_count_as_missing",
			body:    map[string]any{"name": "any_name", "email": "email@gmail.com", "password": false, "passwordConfirmation": float64(0)},
			missing: "password",
		},
		{
			name:    "first_missing_field_wins",
			body:    map[string]any{"password": "password"},
			missing: "name",
		},
		{
			name:    "empty_body",
			body:    nil,
			missing: "name",
		},
	}

	for _, ts := range tests {
		t.Run(ts.name, func(t *testing.T) {
			s := newSut()

			got := s.sc.Handle(context.Background(), HttpRequest{Body: ts.body})

			want := HttpResponse{
				StatusCode: http.StatusBadRequest,
				Body:       errs.NewMissingParamError(ts.missing),
			}

			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}

			if s.ev.calls != 0 || s.aa.calls != 0 {
				t.Errorf("collaborators must not be called, emailValidator=%d, addAccount=%d", s.ev.calls, s.aa.calls)
			}
		})
	}
}

func Test_SignUpPasswordConfirmationMismatch(t *testing.T) {
	t.Parallel()

	s := newSut()

	body := validBody()
	body["passwordConfirmation"] = "invalid_password"

	got := s.sc.Handle(context.Background(), HttpRequest{Body: body})

	want := HttpResponse{
		StatusCode: http.StatusBadRequest,
		Body:       errs.NewInvalidParamError("passwordConfirmation"),
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	//checked before the email validation.
	if s.ev.calls != 0 {
		t.Errorf("emailValidator calls=0, got=%d", s.ev.calls)
	}
}

func Test_SignUpNonStringField(t *testing.T) {
	t.Parallel()

	s := newSut()

	body := validBody()
	body["name"] = float64(42)

	got := s.sc.Handle(context.Background(), HttpRequest{Body: body})

	want := HttpResponse{
		StatusCode: http.StatusBadRequest,
		Body:       errs.NewInvalidParamError("name"),
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func Test_SignUpInvalidEmail(t *testing.T) {
	t.Parallel()

	s := newSut()
	s.ev.valid = false

	body := validBody()
	body["email"] = "invalid_email@mail.com"

	got := s.sc.Handle(context.Background(), HttpRequest{Body: body})

	//carries the submitted value, not the field name.
	want := HttpResponse{
		StatusCode: http.StatusBadRequest,
		Body:       errs.NewInvalidParamError("invalid_email@mail.com"),
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if s.aa.calls != 0 {
		t.Errorf("addAccount calls=0, got=%d", s.aa.calls)
	}
}

func Test_SignUpEmailValidatorReceivesEmail(t *testing.T) {
	t.Parallel()

	s := newSut()

	body := validBody()
	body["email"] = "any_email@mail.com"

	s.sc.Handle(context.Background(), HttpRequest{Body: body})

	if s.ev.calls != 1 {
		t.Fatalf("emailValidator calls=1, got=%d", s.ev.calls)
	}

	if s.ev.got != "any_email@mail.com" {
		t.Errorf("email=%s, got=%s", "any_email@mail.com", s.ev.got)
	}
}

func Test_SignUpEmailValidatorFails(t *testing.T) {
	t.Parallel()

	s := newSut()
	s.ev.err = errors.New("validator is down")

	got := s.sc.Handle(context.Background(), HttpRequest{Body: validBody()})

	assertServerError(t, got, s.ev.err)

	if s.aa.calls != 0 {
		t.Errorf("addAccount calls=0, got=%d", s.aa.calls)
	}
}

func Test_SignUpEmailValidatorPanics(t *testing.T) {
	t.Parallel()

	s := newSut()
	s.ev.panic = true

	got := s.sc.Handle(context.Background(), HttpRequest{Body: validBody()})

	assertServerError(t, got, nil)

	if s.aa.calls != 0 {
		t.Errorf("addAccount calls=0, got=%d", s.aa.calls)
	}
}

func Test_SignUpAddAccountReceivesInput(t *testing.T) {
	t.Parallel()

	s := newSut()

	s.sc.Handle(context.Background(), HttpRequest{Body: validBody()})

	if s.aa.calls != 1 {
		t.Fatalf("addAccount calls=1, got=%d", s.aa.calls)
	}

	want := bus.NewAccount{
		Name:     "valid_name",
		Email:    "valid_email",
		Password: "valid_password",
	}

	if diff := cmp.Diff(want, s.aa.got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func Test_SignUpAddAccountFails(t *testing.T) {
	t.Parallel()

	s := newSut()
	s.aa.err = bus.ErrDuplicatedEmail

	got := s.sc.Handle(context.Background(), HttpRequest{Body: validBody()})

	assertServerError(t, got, bus.ErrDuplicatedEmail)
}

func Test_SignUpSuccess(t *testing.T) {
	t.Parallel()

	s := newSut()

	got := s.sc.Handle(context.Background(), HttpRequest{Body: validBody()})

	want := HttpResponse{
		StatusCode: http.StatusOK,
		Body:       s.aa.account,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func Test_SignUpConcurrentCalls(t *testing.T) {
	t.Parallel()

	//stateless collaborators, the stubs above count calls and are not safe to share.
	ev := emailValidatorFunc(func(email string) (bool, error) { return true, nil })
	sc := NewSignUpController(ev, addAccountFunc(func(ctx context.Context, na bus.NewAccount) (bus.Account, error) {
		return bus.Account{ID: uuid.New(), Name: na.Name, Email: na.Email}, nil
	}))

	const n = 50
	results := make(chan HttpResponse, n)

	for range n {
		go func() {
			results <- sc.Handle(context.Background(), HttpRequest{Body: validBody()})
		}()
	}

	for range n {
		resp := <-results
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status=%d, got=%d", http.StatusOK, resp.StatusCode)
		}
	}
}

// =============================================================================

type sut struct {
	sc *SignUpController
	ev *emailValidatorStub
	aa *addAccountStub
}

func newSut() sut {
	ev := &emailValidatorStub{valid: true}
	aa := &addAccountStub{
		account: bus.Account{
			ID:           uuid.MustParse("7b0c5a8e-6b1e-4c1a-9a5f-3f1f2d6c9e10"),
			Name:         "valid_name",
			Email:        "valid_email",
			PasswordHash: []byte("valid_password"),
			CreatedAt:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			UpdatedAt:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	return sut{
		sc: NewSignUpController(ev, aa),
		ev: ev,
		aa: aa,
	}
}

func validBody() map[string]any {
	return map[string]any{
		"name":                 "valid_name",
		"email":                "valid_email",
		"password":             "valid_password",
		"passwordConfirmation": "valid_password",
	}
}

func assertServerError(t *testing.T, resp HttpResponse, cause error) {
	t.Helper()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status=%d, got=%d", http.StatusInternalServerError, resp.StatusCode)
	}

	serverErr, ok := resp.Body.(*errs.ServerError)
	if !ok {
		t.Fatalf("body=%T, got=%T", &errs.ServerError{}, resp.Body)
	}

	if serverErr.Message != "internal server error" {
		t.Errorf("message=%q, got=%q", "internal server error", serverErr.Message)
	}

	if cause != nil && !errors.Is(serverErr, cause) {
		t.Errorf("cause=%v, got=%v", cause, serverErr.Unwrap())
	}
}

type emailValidatorStub struct {
	valid bool
	err   error
	panic bool
	calls int
	got   string
}

func (s *emailValidatorStub) IsValid(email string) (bool, error) {
	s.calls++
	s.got = email

	if s.panic {
		panic("validator exploded")
	}

	return s.valid, s.err
}

type addAccountStub struct {
	account bus.Account
	err     error
	calls   int
	got     bus.NewAccount
}

func (s *addAccountStub) Add(ctx context.Context, na bus.NewAccount) (bus.Account, error) {
	s.calls++
	s.got = na

	if s.err != nil {
		return bus.Account{}, s.err
	}

	return s.account, nil
}

type emailValidatorFunc func(email string) (bool, error)

func (f emailValidatorFunc) IsValid(email string) (bool, error) {
	return f(email)
}

type addAccountFunc func(ctx context.Context, na bus.NewAccount) (bus.Account, error)

func (f addAccountFunc) Add(ctx context.Context, na bus.NewAccount) (bus.Account, error) {
	return f(ctx, na)
}
