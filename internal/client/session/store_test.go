package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/traceai/trace-client/internal/models"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	return NewStore(path, zap.NewNop()), path
}

func TestLoad_NoFile(t *testing.T) {
	s, _ := testStore(t)
	if id, ok := s.Load(); ok || id != nil {
		t.Fatalf("expected absent session, got %+v", id)
	}
}

func TestSaveThenLoad(t *testing.T) {
	s, _ := testStore(t)
	want := models.Identity{FullName: "Ali Khan", Email: "ali@example.com", Role: models.RoleAdmin}

	if err := s.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, ok := s.Load()
	if !ok {
		t.Fatal("expected a session after Save")
	}
	if *got != want {
		t.Errorf("Load = %+v; want %+v", *got, want)
	}
}

func TestSave_ReplacesWholesale(t *testing.T) {
	s, _ := testStore(t)
	if err := s.Save(models.Identity{FullName: "First", Email: "first@x.com", Role: models.RoleAdmin}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	second := models.Identity{FullName: "Second", Email: "second@x.com", Role: models.RoleStudent}
	if err := s.Save(second); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, _ := s.Load()
	if *got != second {
		t.Errorf("Load = %+v; want the replacing identity %+v", *got, second)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	s, path := testStore(t)
	if err := os.WriteFile(path, []byte("not json at all"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	id, ok := s.Load()
	if ok || id != nil {
		t.Fatalf("malformed file must read as absent, got %+v", id)
	}
}

func TestClear(t *testing.T) {
	s, path := testStore(t)
	if err := s.Save(models.Identity{Email: "a@b.com", Role: models.RoleAdmin}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	s.SetToken("opaque")

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := s.Load(); ok {
		t.Error("expected absent session after Clear")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected session file to be removed")
	}
	if s.Token() != "" {
		t.Error("expected token to be dropped on Clear")
	}
	// Clearing twice is fine.
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear failed: %v", err)
	}
}

func TestWatch(t *testing.T) {
	s, _ := testStore(t)

	var events []*models.Identity
	s.Watch(func(id *models.Identity) { events = append(events, id) })

	id := models.Identity{Email: "a@b.com", Role: models.RoleClinician}
	if err := s.Save(id); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 watch events, got %d", len(events))
	}
	if events[0] == nil || *events[0] != id {
		t.Errorf("first event = %+v; want %+v", events[0], id)
	}
	if events[1] != nil {
		t.Errorf("second event = %+v; want nil after Clear", events[1])
	}
}

func TestSetToken_ExpiryFromJWT(t *testing.T) {
	s, _ := testStore(t)

	exp := time.Now().Add(12 * time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "a@b.com",
		"exp":   exp.Unix(),
	})
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	s.SetToken(signed)
	got, ok := s.TokenExpiry()
	if !ok {
		t.Fatal("expected an expiry from the token")
	}
	if !got.Equal(exp) {
		t.Errorf("TokenExpiry = %v; want %v", got, exp)
	}
}

func TestSetToken_NotAJWT(t *testing.T) {
	s, _ := testStore(t)
	s.SetToken("opaque-session-value")

	if s.Token() != "opaque-session-value" {
		t.Errorf("Token = %q; want the raw value kept", s.Token())
	}
	if _, ok := s.TokenExpiry(); ok {
		t.Error("expected no expiry for a non-JWT token")
	}
}
