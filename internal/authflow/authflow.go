// Package authflow drives the multi-step authentication flows of the TRACE
// client: signup with email verification, password reset, login, and
// password change. Each flow is an explicit state machine; input is
// validated locally before anything touches the network, and every failure
// is reduced to a user-facing message instead of escaping the flow.
package authflow

import (
	"context"
	"errors"

	"github.com/traceai/trace-client/internal/client/api"
	"github.com/traceai/trace-client/internal/models"
)

// AuthAPI is the slice of the remote auth API the flows depend on.
type AuthAPI interface {
	Signup(ctx context.Context, req models.SignupRequest) error
	VerifyOTP(ctx context.Context, email, otp string) error
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
	UpdatePassword(ctx context.Context, req models.UpdatePasswordRequest) (string, error)
}

// ValidationError is a local, pre-network rejection. It never results in a
// request being sent.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// userMessage reduces a request error to the string shown to the user: the
// server's own message for a non-2xx response, otherwise the flow's fallback
// for transport failures.
func userMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// OTPLength is the exact number of digits in a verification code.
const OTPLength = 6

// SanitizeOTP filters code input the way the signup form does as the user
// types: non-digit characters are dropped and the result is capped at
// OTPLength digits.
func SanitizeOTP(input string) string {
	out := make([]byte, 0, OTPLength)
	for i := 0; i < len(input) && len(out) < OTPLength; i++ {
		if input[i] >= '0' && input[i] <= '9' {
			out = append(out, input[i])
		}
	}
	return string(out)
}

// isCompleteOTP reports whether code is exactly OTPLength digits.
func isCompleteOTP(code string) bool {
	if len(code) != OTPLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// validFullName matches the signup rule: letters and whitespace only, and at
// least one character.
func validFullName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r == ' ' || r == '\t':
		default:
			return false
		}
	}
	return true
}
