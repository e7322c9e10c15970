package authflow

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/traceai/trace-client/internal/models"
	"github.com/traceai/trace-client/internal/password"
)

// SignupState enumerates the steps of the signup machine.
type SignupState int

const (
	// SignupEditing is the registration form, before any request.
	SignupEditing SignupState = iota
	// SignupSubmitting means the registration request is in flight.
	SignupSubmitting
	// SignupAwaitingOtp means the server dispatched a verification code.
	SignupAwaitingOtp
	// SignupVerifying means the code submission is in flight.
	SignupVerifying
	// SignupDone means the account is verified. Signup does not create a
	// session; the user logs in separately.
	SignupDone
)

func (s SignupState) String() string {
	switch s {
	case SignupEditing:
		return "editing"
	case SignupSubmitting:
		return "submitting"
	case SignupAwaitingOtp:
		return "awaiting_otp"
	case SignupVerifying:
		return "verifying"
	case SignupDone:
		return "done"
	default:
		return "unknown"
	}
}

// SignupFlow is the signup state machine. At most one request is in flight
// at a time; the Submitting/Verifying states double as the loading flag.
// Each dispatch is tagged so a response arriving after the machine moved on
// is discarded instead of corrupting the newer state.
type SignupFlow struct {
	api AuthAPI
	log *zap.Logger

	mu        sync.Mutex
	state     SignupState
	draft     models.SignupDraft
	challenge *models.OtpChallenge
	errMsg    string
	reqID     string
}

// NewSignupFlow returns a flow in the Editing state.
func NewSignupFlow(api AuthAPI, log *zap.Logger) *SignupFlow {
	return &SignupFlow{api: api, log: log}
}

// State returns the current machine state.
func (f *SignupFlow) State() SignupState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Err returns the current user-facing error message, empty when none.
func (f *SignupFlow) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// Draft returns the form fields as last submitted, so a rejected submission
// does not wipe what the user typed.
func (f *SignupFlow) Draft() models.SignupDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Challenge returns the pending verification challenge, if any.
func (f *SignupFlow) Challenge() (models.OtpChallenge, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.challenge == nil {
		return models.OtpChallenge{}, false
	}
	return *f.challenge, true
}

// Busy reports whether a request is in flight.
func (f *SignupFlow) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state == SignupSubmitting || f.state == SignupVerifying
}

// validateDraft applies the local signup rules. No request is sent when any
// of them fails.
func validateDraft(draft models.SignupDraft) error {
	if draft.FullName == "" || draft.Email == "" || draft.Password == "" {
		return ValidationError("All fields are required.")
	}
	if !validFullName(draft.FullName) {
		return ValidationError("Full Name can only contain letters (A-Z).")
	}
	if draft.Role != "" && draft.Role != models.RoleStudent && draft.Role != models.RoleClinician {
		return ValidationError("Invalid role selection.")
	}
	if password.Evaluate(draft.Password).Score < password.MaxScore {
		return ValidationError("Password does not meet all strength requirements.")
	}
	return nil
}

// Submit validates the draft and, when it passes, sends the registration
// request. Success moves to AwaitingOtp; a rejected registration returns to
// Editing with the server's message and the entered fields intact.
func (f *SignupFlow) Submit(ctx context.Context, draft models.SignupDraft) {
	f.mu.Lock()
	if f.state != SignupEditing {
		f.mu.Unlock()
		return
	}
	f.draft = draft
	if err := validateDraft(draft); err != nil {
		f.errMsg = err.Error()
		f.mu.Unlock()
		return
	}
	if draft.Role == "" {
		draft.Role = models.RoleStudent
		f.draft.Role = models.RoleStudent
	}
	f.errMsg = ""
	f.state = SignupSubmitting
	reqID := uuid.NewString()
	f.reqID = reqID
	f.mu.Unlock()

	err := f.api.Signup(ctx, models.SignupRequest{
		FullName: draft.FullName,
		Email:    draft.Email,
		Password: draft.Password,
		Role:     draft.Role,
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != SignupSubmitting || f.reqID != reqID {
		f.log.Warn("discarding stale signup response", zap.String("request_id", reqID))
		return
	}
	if err != nil {
		f.state = SignupEditing
		f.errMsg = userMessage(err, "Registration Failed")
		return
	}
	f.state = SignupAwaitingOtp
	f.challenge = &models.OtpChallenge{Email: draft.Email, Purpose: models.PurposeSignupVerify}
	f.log.Info("signup code dispatched", zap.String("email", draft.Email))
}

// ChangeEmail abandons the pending challenge and returns to the form.
func (f *SignupFlow) ChangeEmail() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != SignupAwaitingOtp {
		return
	}
	f.state = SignupEditing
	f.challenge = nil
	f.errMsg = ""
	f.reqID = ""
}

// Verify submits the emailed code. A code that is not exactly six digits is
// rejected locally. A server rejection keeps the machine in AwaitingOtp and
// leaves the typed code for the user to edit.
func (f *SignupFlow) Verify(ctx context.Context, code string) {
	f.mu.Lock()
	if f.state != SignupAwaitingOtp || f.challenge == nil {
		f.mu.Unlock()
		return
	}
	if !isCompleteOTP(code) {
		f.errMsg = "Enter the 6-digit code from your email."
		f.mu.Unlock()
		return
	}
	email := f.challenge.Email
	f.errMsg = ""
	f.state = SignupVerifying
	reqID := uuid.NewString()
	f.reqID = reqID
	f.mu.Unlock()

	err := f.api.VerifyOTP(ctx, email, code)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != SignupVerifying || f.reqID != reqID {
		f.log.Warn("discarding stale verify response", zap.String("request_id", reqID))
		return
	}
	if err != nil {
		f.state = SignupAwaitingOtp
		f.errMsg = userMessage(err, "Invalid OTP")
		return
	}
	f.state = SignupDone
	f.draft = models.SignupDraft{}
	f.challenge = nil
	f.log.Info("signup verified", zap.String("email", email))
}
