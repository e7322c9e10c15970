package authflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/traceai/trace-client/internal/client/session"
	"github.com/traceai/trace-client/internal/models"
)

// AccountService handles the single-step account operations: login,
// sign-out, and changing the password of a logged-in account. It is the only
// writer of the session store besides sign-out itself.
type AccountService struct {
	api      AuthAPI
	sessions *session.Store
	log      *zap.Logger
}

// NewAccountService wires the service to the remote API and session store.
func NewAccountService(api AuthAPI, sessions *session.Store, log *zap.Logger) *AccountService {
	return &AccountService{api: api, sessions: sessions, log: log}
}

// Login authenticates and, on success, replaces the stored session with the
// identity the server returned. The returned string is empty on success and
// a user-facing message otherwise.
func (s *AccountService) Login(ctx context.Context, email, pwd string) string {
	if email == "" || pwd == "" {
		return "Email and password are required."
	}

	resp, err := s.api.Login(ctx, email, pwd)
	if err != nil {
		return userMessage(err, "Login Failed")
	}

	s.sessions.SetToken(resp.Token)
	if err := s.sessions.Save(resp.User); err != nil {
		s.log.Error("failed to persist session", zap.Error(err))
		return "Could not save your session."
	}
	s.log.Info("logged in",
		zap.String("email", resp.User.Email),
		zap.String("role", string(resp.User.Role)),
	)
	return ""
}

// SignOut clears the session wholesale.
func (s *AccountService) SignOut() error {
	s.log.Info("signing out")
	return s.sessions.Clear()
}

// ChangePassword updates the password of the logged-in account. The local
// rules mirror the settings form: the confirmation must match and the new
// password must be at least eight characters. On success it returns the
// server's confirmation message; otherwise the second return value carries
// the user-facing error.
func (s *AccountService) ChangePassword(ctx context.Context, current, newPwd, confirm string) (string, string) {
	if newPwd != confirm {
		return "", "New passwords do not match!"
	}
	if len(newPwd) < 8 {
		return "", "Password must be at least 8 characters long."
	}

	id, ok := s.sessions.Current()
	if !ok {
		id, ok = s.sessions.Load()
	}
	if !ok {
		return "", "You are signed out. Log in again."
	}

	msg, err := s.api.UpdatePassword(ctx, models.UpdatePasswordRequest{
		Email:           id.Email,
		CurrentPassword: current,
		NewPassword:     newPwd,
	})
	if err != nil {
		return "", userMessage(err, "Failed to update password. Check current password.")
	}
	if msg == "" {
		msg = "Password updated successfully!"
	}
	return msg, ""
}
