// Package models defines the core data structures shared by the TRACE client:
// the authenticated identity, roles, transient auth-flow state, and the
// request/response payloads of the remote auth API.
package models

// Role identifies the access level of an account.
type Role string

const (
	// RoleStudent is a medical student account, the least-privileged role.
	RoleStudent Role = "Student"
	// RoleClinician is a practicing clinician or doctor account.
	RoleClinician Role = "Clinician"
	// RoleAdmin is an administrator account. Admin is never selectable at
	// signup; elevation happens out-of-band on the server.
	RoleAdmin Role = "Admin"
)

// SignupRoles lists the roles a user may pick when registering.
var SignupRoles = []Role{RoleStudent, RoleClinician}

// Identity describes who is using the client right now. It is the only
// structure persisted between runs.
type Identity struct {
	// FullName is the display name entered at signup.
	FullName string `json:"fullName"`
	// Email is the account email, used as the account key by the server.
	Email string `json:"email"`
	// Role determines which navigation entries and routes are reachable.
	Role Role `json:"role"`
}

// SignupDraft holds the in-progress registration form. It exists only while
// the signup flow is active and is never persisted.
type SignupDraft struct {
	FullName string
	Email    string
	Password string
	Role     Role
}

// OtpPurpose distinguishes why a one-time code was dispatched.
type OtpPurpose string

const (
	// PurposeSignupVerify is the post-registration email verification code.
	PurposeSignupVerify OtpPurpose = "signup_verify"
	// PurposePasswordReset is the forgot-password code.
	PurposePasswordReset OtpPurpose = "password_reset"
)

// OtpChallenge records that the server acknowledged dispatching a code to an
// email address. It lives only inside a running flow; a restart abandons it.
type OtpChallenge struct {
	Email   string
	Purpose OtpPurpose
}

// SignupRequest is the payload for POST /api/auth/signup.
type SignupRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// VerifyOTPRequest is the payload for POST /api/auth/verify-otp.
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// LoginRequest is the payload for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the success body of POST /api/auth/login.
type LoginResponse struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}

// ForgotPasswordRequest is the payload for POST /api/auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the payload for POST /api/auth/reset-password.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// UpdatePasswordRequest is the payload for PUT /api/auth/update-password.
type UpdatePasswordRequest struct {
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
