package authflow

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/traceai/trace-client/internal/models"
)

// ResetState enumerates the steps of the password-reset machine.
type ResetState int

const (
	// ResetRequestingCode is the initial email form.
	ResetRequestingCode ResetState = iota
	// ResetAwaitingReset means the server dispatched a reset code.
	ResetAwaitingReset
	// ResetDone means the password was changed; the user logs in again.
	ResetDone
)

func (s ResetState) String() string {
	switch s {
	case ResetRequestingCode:
		return "requesting_code"
	case ResetAwaitingReset:
		return "awaiting_reset"
	case ResetDone:
		return "done"
	default:
		return "unknown"
	}
}

// ResetFlow is the forgot-password state machine. Unlike signup, the reset
// step applies no client-side strength check on the new password; the server
// is the only gate there. That asymmetry is deliberate and preserved.
type ResetFlow struct {
	api AuthAPI
	log *zap.Logger

	mu        sync.Mutex
	state     ResetState
	busy      bool
	challenge *models.OtpChallenge
	errMsg    string
	banner    string
	reqID     string
}

// NewResetFlow returns a flow in the RequestingCode state.
func NewResetFlow(api AuthAPI, log *zap.Logger) *ResetFlow {
	return &ResetFlow{api: api, log: log}
}

// State returns the current machine state.
func (f *ResetFlow) State() ResetState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Err returns the current user-facing error message, empty when none.
func (f *ResetFlow) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// Banner returns the success banner shown after the code was dispatched.
func (f *ResetFlow) Banner() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.banner
}

// Email returns the address the pending reset code was sent to.
func (f *ResetFlow) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.challenge == nil {
		return ""
	}
	return f.challenge.Email
}

// Busy reports whether a request is in flight.
func (f *ResetFlow) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// RequestCode asks the server to dispatch a reset code. The only local check
// is a non-empty address; format policing is left to the server, and so is
// any rate limiting.
func (f *ResetFlow) RequestCode(ctx context.Context, email string) {
	f.mu.Lock()
	if f.state != ResetRequestingCode || f.busy {
		f.mu.Unlock()
		return
	}
	if email == "" {
		f.errMsg = "Enter your email address."
		f.mu.Unlock()
		return
	}
	f.errMsg = ""
	f.busy = true
	reqID := uuid.NewString()
	f.reqID = reqID
	f.mu.Unlock()

	err := f.api.ForgotPassword(ctx, email)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != ResetRequestingCode || f.reqID != reqID {
		f.log.Warn("discarding stale reset-code response", zap.String("request_id", reqID))
		return
	}
	f.busy = false
	if err != nil {
		f.errMsg = userMessage(err, "Email not found")
		return
	}
	f.state = ResetAwaitingReset
	f.challenge = &models.OtpChallenge{Email: email, Purpose: models.PurposePasswordReset}
	f.banner = "Verification code sent to your email!"
	f.log.Info("reset code dispatched", zap.String("email", email))
}

// Reset submits the code and the replacement password. A server rejection
// (bad or expired code) keeps the machine in AwaitingReset with the fields
// retained; success clears the flow and the caller redirects to login.
func (f *ResetFlow) Reset(ctx context.Context, code, newPassword string) {
	f.mu.Lock()
	if f.state != ResetAwaitingReset || f.busy || f.challenge == nil {
		f.mu.Unlock()
		return
	}
	email := f.challenge.Email
	f.errMsg = ""
	f.busy = true
	reqID := uuid.NewString()
	f.reqID = reqID
	f.mu.Unlock()

	err := f.api.ResetPassword(ctx, email, code, newPassword)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != ResetAwaitingReset || f.reqID != reqID {
		f.log.Warn("discarding stale reset response", zap.String("request_id", reqID))
		return
	}
	f.busy = false
	if err != nil {
		f.errMsg = userMessage(err, "Invalid Code or Error")
		return
	}
	f.state = ResetDone
	f.challenge = nil
	f.banner = ""
	f.log.Info("password reset completed")
}
