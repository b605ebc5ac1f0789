package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pharmacare/pharmacy-web/internal/apiclient"
	"github.com/pharmacare/pharmacy-web/internal/shared"
)

// Backend is the subset of apiclient.Client used for sign-in.
type Backend interface {
	Do(ctx context.Context, req apiclient.Request, out any) error
}

// FailureError carries a message for the login or registration page.
type FailureError struct {
	Message string
	Err     error
}

func (e *FailureError) Error() string { return e.Message }

func (e *FailureError) Unwrap() error { return e.Err }

// Service signs users in against the backend.
type Service struct {
	api       Backend
	recorder  Recorder
	validator *shared.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewService constructs a Service. A nil recorder disables the audit trail.
func NewService(api Backend, recorder Recorder, validator *shared.Validator, logger *slog.Logger) *Service {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	if validator == nil {
		validator = shared.NewValidator()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: api, recorder: recorder, validator: validator, logger: logger, now: time.Now}
}

// Login exchanges form for a bearer token.
func (s *Service) Login(ctx context.Context, form LoginForm) (Credentials, error) {
	form.UsernameOrEmail = strings.TrimSpace(form.UsernameOrEmail)
	if err := s.validator.Struct(form); err != nil {
		return Credentials{}, err
	}
	body := map[string]string{"usernameOrEmail": form.UsernameOrEmail, "password": form.Password}
	return s.exchange(ctx, "/auth/login", body, InvalidCredentialsMessage)
}

// Register creates an account and signs it in.
func (s *Service) Register(ctx context.Context, form RegisterForm) (Credentials, error) {
	form.Username = strings.TrimSpace(form.Username)
	form.FullName = strings.TrimSpace(form.FullName)
	form.Email = strings.TrimSpace(form.Email)
	if err := s.validator.Struct(form); err != nil {
		if fe, ok := shared.AsFieldErrors(err); ok && fe.Has("agreeToTerms") {
			fe["agreeToTerms"] = TermsMessage
		}
		return Credentials{}, err
	}
	body := map[string]string{
		"username": form.Username,
		"email":    form.Email,
		"password": form.Password,
		"fullName": form.FullName,
	}
	return s.exchange(ctx, "/auth/register", body, RegistrationFailedMessage)
}

func (s *Service) exchange(ctx context.Context, path string, body any, fallback string) (Credentials, error) {
	var resp authResponse
	err := s.api.Do(ctx, apiclient.Request{Method: http.MethodPost, Path: path, Body: body, Raw: true}, &resp)
	if err != nil {
		switch {
		case errors.Is(err, apiclient.ErrNetwork):
			return Credentials{}, &FailureError{Message: BackendDownMessage, Err: err}
		case errors.Is(err, apiclient.ErrUnauthorized), errors.Is(err, apiclient.ErrForbidden):
			return Credentials{}, &FailureError{Message: fallback, Err: shared.ErrInvalidCredentials}
		default:
			msg := apiclient.Message(err)
			if msg == "" || strings.HasPrefix(msg, "HTTP error!") || msg == "Invalid response from server" {
				msg = fallback
			}
			return Credentials{}, &FailureError{Message: msg, Err: err}
		}
	}
	if strings.TrimSpace(resp.Token) == "" {
		msg := resp.Message
		if msg == "" {
			msg = fallback
		}
		return Credentials{}, &FailureError{Message: msg, Err: shared.ErrInvalidCredentials}
	}
	return Credentials{
		Token: resp.Token,
		User: shared.UserInfo{
			Username: resp.Username,
			Email:    resp.Email,
			FullName: resp.FullName,
			Role:     resp.Role,
		},
	}, nil
}

// RecordLogin audits a sign-in. Failures are logged and never block the login.
func (s *Service) RecordLogin(ctx context.Context, rec LoginRecord) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	if err := s.recorder.Start(ctx, rec); err != nil {
		s.logger.Warn("record login", slog.String("username", rec.Username), slog.Any("error", err))
	}
}

// RecordLogout stamps the end of an audited session.
func (s *Service) RecordLogout(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := s.recorder.End(ctx, sessionID, s.now()); err != nil {
		s.logger.Warn("record logout", slog.Any("error", err))
	}
}
