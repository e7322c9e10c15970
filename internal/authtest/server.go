// Package authtest provides an in-memory stand-in for the remote TRACE auth
// API, used by the client's tests and by cmd/stubserver for local
// development. It mirrors the production contract — endpoint paths, status
// codes, and error strings — but keeps everything in memory and exposes the
// last dispatched code instead of sending email.
package authtest

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/traceai/trace-client/internal/models"
)

// OTPTTL is how long a dispatched code stays valid, matching production.
const OTPTTL = 5 * time.Minute

const tokenTTL = 12 * time.Hour

type user struct {
	FullName     string
	Email        string
	Role         models.Role
	PasswordHash []byte
}

type pending struct {
	FullName     string
	Email        string
	Role         models.Role
	PasswordHash []byte
	OTP          string
	ExpiresAt    time.Time
}

// Server is the in-memory auth API.
type Server struct {
	log *zap.Logger

	// Now is the clock used for OTP expiry; tests may override it.
	Now func() time.Time

	mu      sync.Mutex
	users   map[string]*user
	signups map[string]*pending
	resets  map[string]*pending
	lastOTP string
	secret  []byte
}

// NewServer returns an empty Server.
func NewServer(log *zap.Logger) *Server {
	return &Server{
		log:     log,
		Now:     time.Now,
		users:   make(map[string]*user),
		signups: make(map[string]*pending),
		resets:  make(map[string]*pending),
		secret:  []byte("authtest-signing-secret"),
	}
}

// Seed registers a verified account directly, bypassing the OTP step.
func (s *Server) Seed(fullName, email, pwd string, role models.Role) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.MinCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = &user{FullName: fullName, Email: email, Role: role, PasswordHash: hash}
	return nil
}

// LastOTP returns the most recently dispatched code. Tests use this in place
// of reading email.
func (s *Server) LastOTP() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOTP
}

// Router builds the chi handler serving the auth endpoints.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(s.withRequestLogging)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/verify-otp", s.handleVerifyOTP)
		r.Post("/login", s.handleLogin)
		r.Post("/forgot-password", s.handleForgotPassword)
		r.Post("/reset-password", s.handleResetPassword)
		r.Put("/update-password", s.handleUpdatePassword)
	})

	return r
}

func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", r.Header.Get("X-Request-Id")),
		)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// newOTP returns a random six-digit code.
func newOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing fields")
		return
	}
	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[req.Email]; exists {
		writeError(w, http.StatusBadRequest, "Email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to send email")
		return
	}
	otp, err := newOTP()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to send email")
		return
	}

	s.signups[req.Email] = &pending{
		FullName:     req.FullName,
		Email:        req.Email,
		Role:         role,
		PasswordHash: hash,
		OTP:          otp,
		ExpiresAt:    s.Now().Add(OTPTTL),
	}
	s.lastOTP = otp
	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent successfully"})
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.signups[req.Email]
	if !ok {
		writeError(w, http.StatusBadRequest, "User not found or Session Expired")
		return
	}
	if s.Now().After(p.ExpiresAt) {
		delete(s.signups, req.Email)
		writeError(w, http.StatusBadRequest, "OTP Expired (5 mins passed). Signup again.")
		return
	}
	if p.OTP != req.OTP {
		writeError(w, http.StatusBadRequest, "Invalid OTP")
		return
	}

	s.users[p.Email] = &user{FullName: p.FullName, Email: p.Email, Role: p.Role, PasswordHash: p.PasswordHash}
	delete(s.signups, req.Email)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Account Verified!"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[req.Email]
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid Password")
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": u.Email,
		"role":  string(u.Role),
		"exp":   s.Now().Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{
		Token: signed,
		User:  models.Identity{FullName: u.FullName, Email: u.Email, Role: u.Role},
	})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[req.Email]
	if !ok {
		writeError(w, http.StatusNotFound, "No account found with this email")
		return
	}

	otp, err := newOTP()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Email failed to send")
		return
	}
	s.resets[u.Email] = &pending{
		Email:     u.Email,
		OTP:       otp,
		ExpiresAt: s.Now().Add(OTPTTL),
	}
	s.lastOTP = otp
	writeJSON(w, http.StatusOK, map[string]string{"message": "Reset code sent to email"})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.resets[req.Email]
	if !ok {
		writeError(w, http.StatusBadRequest, "Request expired")
		return
	}
	if s.Now().After(p.ExpiresAt) {
		delete(s.resets, req.Email)
		writeError(w, http.StatusBadRequest, "OTP Expired. Please request a new code.")
		return
	}
	if p.OTP != req.OTP {
		writeError(w, http.StatusBadRequest, "Invalid Code")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.MinCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update password")
		return
	}
	s.users[req.Email].PasswordHash = hash
	delete(s.resets, req.Email)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully. Please Login."})
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req models.UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[req.Email]
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(req.CurrentPassword)) != nil {
		writeError(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.MinCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update password")
		return
	}
	u.PasswordHash = hash
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}
