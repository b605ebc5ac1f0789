package profile

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/pharmacare/pharmacy-web/internal/apiclient"
	pharmacyShared "github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
	"github.com/pharmacare/pharmacy-web/internal/shared"
)

type envelope struct {
	Profile *Profile `json:"profile"`
}

// Service reads and updates profiles through the backend.
type Service struct {
	api       pharmacyShared.Backend
	validator *shared.Validator
}

// NewService constructs a Service.
func NewService(api pharmacyShared.Backend, validator *shared.Validator) *Service {
	if validator == nil {
		validator = shared.NewValidator()
	}
	return &Service{api: api, validator: validator}
}

// Current fetches the signed-in user's profile.
func (s *Service) Current(ctx context.Context, token string) (Profile, error) {
	return s.fetch(ctx, apiclient.Request{Method: http.MethodGet, Path: "/profile", Token: token})
}

// User fetches another account by id.
func (s *Service) User(ctx context.Context, token string, id int64) (Profile, error) {
	if id <= 0 {
		return Profile{}, pharmacyShared.ErrInvalidID
	}
	return s.fetch(ctx, apiclient.Request{Method: http.MethodGet, Path: "/profile/" + strconv.FormatInt(id, 10), Token: token})
}

// Update validates form and stores it.
func (s *Service) Update(ctx context.Context, token string, form Form) (Profile, error) {
	form.FullName = strings.TrimSpace(form.FullName)
	form.Email = strings.TrimSpace(form.Email)
	if err := s.validator.Struct(form); err != nil {
		return Profile{}, err
	}
	var out envelope
	if err := s.api.Do(ctx, apiclient.Request{Method: http.MethodPut, Path: "/profile", Token: token, Body: form}, &out); err != nil {
		return Profile{}, err
	}
	if out.Profile == nil {
		return Profile{FullName: form.FullName, Email: form.Email}, nil
	}
	return *out.Profile, nil
}

// ChangePassword validates form and sends it.
func (s *Service) ChangePassword(ctx context.Context, token string, form PasswordForm) error {
	if err := s.validator.Struct(form); err != nil {
		if fe, ok := shared.AsFieldErrors(err); ok && fe.Has("confirmPassword") && form.ConfirmPassword != "" {
			fe["confirmPassword"] = "New passwords do not match"
		}
		return err
	}
	return s.api.Do(ctx, apiclient.Request{Method: http.MethodPut, Path: "/profile/password", Token: token, Body: form}, nil)
}

func (s *Service) fetch(ctx context.Context, req apiclient.Request) (Profile, error) {
	var out envelope
	if err := s.api.Do(ctx, req, &out); err != nil {
		return Profile{}, err
	}
	if out.Profile == nil {
		return Profile{}, pharmacyShared.ErrNotFound
	}
	return *out.Profile, nil
}
