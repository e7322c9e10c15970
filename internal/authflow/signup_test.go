package authflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/traceai/trace-client/internal/client/api"
	"github.com/traceai/trace-client/internal/models"
)

// fakeAPI implements AuthAPI for testing and counts every network call so
// tests can prove local rejections never dispatch a request.
type fakeAPI struct {
	calls int

	signupErr   error
	verifyErr   error
	loginResp   *models.LoginResponse
	loginErr    error
	forgotErr   error
	resetErr    error
	updateMsg   string
	updateErr   error
	lastSignup  models.SignupRequest
	lastOTP     string
	lastReset   models.ResetPasswordRequest
	lastUpdate  models.UpdatePasswordRequest
}

func (f *fakeAPI) Signup(ctx context.Context, req models.SignupRequest) error {
	f.calls++
	f.lastSignup = req
	return f.signupErr
}

func (f *fakeAPI) VerifyOTP(ctx context.Context, email, otp string) error {
	f.calls++
	f.lastOTP = otp
	return f.verifyErr
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	f.calls++
	return f.loginResp, f.loginErr
}

func (f *fakeAPI) ForgotPassword(ctx context.Context, email string) error {
	f.calls++
	return f.forgotErr
}

func (f *fakeAPI) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	f.calls++
	f.lastReset = models.ResetPasswordRequest{Email: email, OTP: otp, NewPassword: newPassword}
	return f.resetErr
}

func (f *fakeAPI) UpdatePassword(ctx context.Context, req models.UpdatePasswordRequest) (string, error) {
	f.calls++
	f.lastUpdate = req
	return f.updateMsg, f.updateErr
}

func validDraft() models.SignupDraft {
	return models.SignupDraft{
		FullName: "Ali Khan",
		Email:    "ali@example.com",
		Password: "Secure1!",
		Role:     models.RoleStudent,
	}
}

func TestSignupFlow_LocalRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.SignupDraft)
		wantErr string
	}{
		{
			name:    "weak password",
			mutate:  func(d *models.SignupDraft) { d.Password = "password" },
			wantErr: "Password does not meet all strength requirements.",
		},
		{
			name:    "score 3 password",
			mutate:  func(d *models.SignupDraft) { d.Password = "Password1" },
			wantErr: "Password does not meet all strength requirements.",
		},
		{
			name:    "name with digit",
			mutate:  func(d *models.SignupDraft) { d.FullName = "Ali Khan 3rd" },
			wantErr: "Full Name can only contain letters (A-Z).",
		},
		{
			name:    "name with symbol",
			mutate:  func(d *models.SignupDraft) { d.FullName = "Dr. Ali" },
			wantErr: "Full Name can only contain letters (A-Z).",
		},
		{
			name:    "missing email",
			mutate:  func(d *models.SignupDraft) { d.Email = "" },
			wantErr: "All fields are required.",
		},
		{
			name:    "admin not selectable",
			mutate:  func(d *models.SignupDraft) { d.Role = models.RoleAdmin },
			wantErr: "Invalid role selection.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAPI{}
			flow := NewSignupFlow(fake, zap.NewNop())

			draft := validDraft()
			tt.mutate(&draft)
			flow.Submit(context.Background(), draft)

			assert.Equal(t, SignupEditing, flow.State())
			assert.Equal(t, tt.wantErr, flow.Err())
			assert.Zero(t, fake.calls, "no network call may be made on local rejection")
			assert.Equal(t, draft, flow.Draft(), "entered fields must be retained")
		})
	}
}

func TestSignupFlow_SubmitSuccess(t *testing.T) {
	fake := &fakeAPI{}
	flow := NewSignupFlow(fake, zap.NewNop())

	flow.Submit(context.Background(), validDraft())

	require.Equal(t, SignupAwaitingOtp, flow.State())
	assert.Empty(t, flow.Err())
	assert.Equal(t, 1, fake.calls)

	challenge, ok := flow.Challenge()
	require.True(t, ok)
	assert.Equal(t, "ali@example.com", challenge.Email)
	assert.Equal(t, models.PurposeSignupVerify, challenge.Purpose)
}

func TestSignupFlow_DuplicateEmail(t *testing.T) {
	fake := &fakeAPI{signupErr: &api.Error{Status: 409, Message: "Email already exists"}}
	flow := NewSignupFlow(fake, zap.NewNop())

	draft := validDraft()
	flow.Submit(context.Background(), draft)

	assert.Equal(t, SignupEditing, flow.State())
	assert.Equal(t, "Email already exists", flow.Err())
	assert.Equal(t, draft, flow.Draft())
	_, ok := flow.Challenge()
	assert.False(t, ok, "AwaitingOtp must never be entered")
}

func TestSignupFlow_TransportFailureFallback(t *testing.T) {
	fake := &fakeAPI{signupErr: context.DeadlineExceeded}
	flow := NewSignupFlow(fake, zap.NewNop())

	flow.Submit(context.Background(), validDraft())

	assert.Equal(t, SignupEditing, flow.State())
	assert.Equal(t, "Registration Failed", flow.Err())
}

func TestSignupFlow_DefaultRole(t *testing.T) {
	fake := &fakeAPI{}
	flow := NewSignupFlow(fake, zap.NewNop())

	draft := validDraft()
	draft.Role = ""
	flow.Submit(context.Background(), draft)

	assert.Equal(t, models.RoleStudent, fake.lastSignup.Role)
}

func TestSignupFlow_ChangeEmail(t *testing.T) {
	fake := &fakeAPI{}
	flow := NewSignupFlow(fake, zap.NewNop())

	flow.Submit(context.Background(), validDraft())
	require.Equal(t, SignupAwaitingOtp, flow.State())

	flow.ChangeEmail()
	assert.Equal(t, SignupEditing, flow.State())
	_, ok := flow.Challenge()
	assert.False(t, ok, "challenge must be abandoned")
	assert.Equal(t, "ali@example.com", flow.Draft().Email, "draft survives for editing")
}

func TestSignupFlow_VerifyLocalRejection(t *testing.T) {
	fake := &fakeAPI{}
	flow := NewSignupFlow(fake, zap.NewNop())
	flow.Submit(context.Background(), validDraft())
	require.Equal(t, 1, fake.calls)

	for _, code := range []string{"", "123", "12345", "12a456"} {
		flow.Verify(context.Background(), code)
		assert.Equal(t, SignupAwaitingOtp, flow.State())
		assert.Equal(t, "Enter the 6-digit code from your email.", flow.Err())
	}
	assert.Equal(t, 1, fake.calls, "incomplete codes must never be submitted")
}

func TestSignupFlow_VerifyRejectedByServer(t *testing.T) {
	fake := &fakeAPI{verifyErr: &api.Error{Status: 400, Message: "Invalid OTP"}}
	flow := NewSignupFlow(fake, zap.NewNop())
	flow.Submit(context.Background(), validDraft())

	flow.Verify(context.Background(), "000000")

	assert.Equal(t, SignupAwaitingOtp, flow.State())
	assert.Equal(t, "Invalid OTP", flow.Err())
}

func TestSignupFlow_VerifySuccess(t *testing.T) {
	fake := &fakeAPI{}
	flow := NewSignupFlow(fake, zap.NewNop())
	flow.Submit(context.Background(), validDraft())

	flow.Verify(context.Background(), "123456")

	assert.Equal(t, SignupDone, flow.State())
	assert.Equal(t, "123456", fake.lastOTP)
	assert.Equal(t, models.SignupDraft{}, flow.Draft(), "draft is discarded after verification")
	_, ok := flow.Challenge()
	assert.False(t, ok)
}

func TestSignupFlow_SubmitIgnoredOutsideEditing(t *testing.T) {
	fake := &fakeAPI{}
	flow := NewSignupFlow(fake, zap.NewNop())
	flow.Submit(context.Background(), validDraft())
	require.Equal(t, SignupAwaitingOtp, flow.State())

	flow.Submit(context.Background(), validDraft())
	assert.Equal(t, SignupAwaitingOtp, flow.State())
	assert.Equal(t, 1, fake.calls)
}

func TestSanitizeOTP(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"123456", "123456"},
		{"12a3b45c6", "123456"},
		{"  1 2 3 ", "123"},
		{"1234567890", "123456"},
		{"abc", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeOTP(tt.in), "input %q", tt.in)
	}
}
