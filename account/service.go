/*
Package account implements the credential/profile flows around the engine:
signup, login, and password reset.

The portal stores passwords in plaintext and logs in by exact match. That
weakness is reproduced deliberately - the store contract specifies
exact-match verification - and is recorded as an open question in DESIGN.md
rather than silently hardened here.
*/
package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/employeecare/selfserve/engine"
)

var (
	// ErrFieldsRequired is returned when any signup/reset field is empty.
	ErrFieldsRequired = errors.New("all fields are required")

	// ErrPasswordMismatch is returned when password and confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrUsernameTaken is returned on signup when the username exists,
	// compared case-insensitively.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrUnknownUsername is returned on reset for an unregistered username.
	ErrUnknownUsername = errors.New("username not found")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Service runs the account flows over a ProfileStore.
type Service struct {
	Profiles engine.ProfileStore
}

func NewService(profiles engine.ProfileStore) *Service {
	return &Service{Profiles: profiles}
}

// SignUp registers a new profile. Every identity field is required, the
// password must match its confirmation, and the username must be unique
// case-insensitively.
func (s *Service) SignUp(ctx context.Context, profile engine.EmployeeProfile, confirmPassword string) error {
	if profile.Name == "" || profile.Department == "" || profile.Team == "" ||
		profile.Position == "" || profile.Username == "" || profile.Password == "" || confirmPassword == "" {
		return ErrFieldsRequired
	}
	if profile.Password != confirmPassword {
		return ErrPasswordMismatch
	}

	existing, err := s.Profiles.FindByUsername(ctx, profile.Username)
	if err != nil {
		return fmt.Errorf("lookup username: %w", err)
	}
	if existing != nil {
		return ErrUsernameTaken
	}

	return s.Profiles.Put(ctx, profile)
}

// LogIn verifies credentials by exact match and returns the profile.
func (s *Service) LogIn(ctx context.Context, username, password string) (*engine.EmployeeProfile, error) {
	if username == "" || password == "" {
		return nil, ErrFieldsRequired
	}

	profile, err := s.Profiles.Verify(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("verify credentials: %w", err)
	}
	if profile == nil {
		return nil, ErrInvalidCredentials
	}
	return profile, nil
}

// ResetPassword sets a new password for an existing username, looked up
// case-insensitively.
func (s *Service) ResetPassword(ctx context.Context, username, newPassword, confirmPassword string) error {
	if username == "" || newPassword == "" || confirmPassword == "" {
		return ErrFieldsRequired
	}
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	profile, err := s.Profiles.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("lookup username: %w", err)
	}
	if profile == nil {
		return ErrUnknownUsername
	}

	profile.Password = newPassword
	return s.Profiles.Put(ctx, *profile)
}
