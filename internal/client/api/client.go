// Package api implements the HTTP client for the remote TRACE auth API.
// Every call is a single request with no retries; non-2xx responses are
// decoded into *Error carrying the server's message.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/traceai/trace-client/internal/models"
)

const (
	pathSignup         = "/api/auth/signup"
	pathVerifyOTP      = "/api/auth/verify-otp"
	pathLogin          = "/api/auth/login"
	pathForgotPassword = "/api/auth/forgot-password"
	pathResetPassword  = "/api/auth/reset-password"
	pathUpdatePassword = "/api/auth/update-password"
)

// Error is a non-2xx response from the auth API.
type Error struct {
	// Status is the HTTP status code.
	Status int
	// Message is the server's "error" field, shown to the user verbatim.
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("auth api: %d %s", e.Status, e.Message)
}

// Client talks to the TRACE auth endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *zap.Logger
}

// New constructs a Client for the given base URL. timeout bounds each call
// in addition to any context deadline.
func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		log:        log,
	}
}

// Signup registers a new account and asks the server to dispatch a
// verification code.
func (c *Client) Signup(ctx context.Context, req models.SignupRequest) error {
	return c.do(ctx, http.MethodPost, pathSignup, req, nil)
}

// VerifyOTP completes signup by submitting the emailed code.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) error {
	return c.do(ctx, http.MethodPost, pathVerifyOTP, models.VerifyOTPRequest{Email: email, OTP: otp}, nil)
}

// Login authenticates and returns the token plus the identity the server
// knows for this account.
func (c *Client) Login(ctx context.Context, email, pwd string) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := c.do(ctx, http.MethodPost, pathLogin, models.LoginRequest{Email: email, Password: pwd}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword asks the server to dispatch a reset code.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, pathForgotPassword, models.ForgotPasswordRequest{Email: email}, nil)
}

// ResetPassword submits the reset code and the replacement password.
func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	req := models.ResetPasswordRequest{Email: email, OTP: otp, NewPassword: newPassword}
	return c.do(ctx, http.MethodPost, pathResetPassword, req, nil)
}

// UpdatePassword changes the password of a logged-in account and returns the
// server's confirmation message.
func (c *Client) UpdatePassword(ctx context.Context, req models.UpdatePasswordRequest) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPut, pathUpdatePassword, req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	// The request ID only correlates client logs; the server ignores it.
	reqID := uuid.NewString()
	req.Header.Set("X-Request-Id", reqID)

	c.log.Debug("auth api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", reqID),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		c.log.Debug("auth api error response",
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Int("status", resp.StatusCode),
		)
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
