package session

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gonote/gonote/internal/models"
)

func TestLoadAbsentMeansLoggedOut(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, err := store.Load(); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("Load() err = %v, want ErrNotLoggedIn", err)
	}
	if _, err := Init(store); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("Init() err = %v, want ErrNotLoggedIn", err)
	}
}

func TestStartReplacesPriorSession(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, err := Start(store, &models.User{ID: "u1", Username: "alice", Token: "t1", FamilyID: "family-1"}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := Start(store, &models.User{ID: "u2", Username: "bob", Token: "t2"}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	sess, err := Init(store)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if sess.User.ID != "u2" || sess.User.FamilyID != "" {
		t.Errorf("session not replaced wholesale: %+v", sess.User)
	}
	if sess.Token() != "t2" {
		t.Errorf("Token() = %q", sess.Token())
	}

	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("session file perms = %o, want 600", perm)
	}
}

func TestTeardownClears(t *testing.T) {
	store := NewStore(t.TempDir())
	sess, err := Start(store, &models.User{ID: "u1", Username: "alice"})
	if err != nil {
		t.Fatal(err)
	}
	if err := sess.Teardown(); err != nil {
		t.Fatalf("Teardown: %v", err)
	}
	if sess.Token() != "" {
		t.Error("Token() should be empty after teardown")
	}
	if _, err := store.Load(); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("Load after teardown err = %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear should be a no-op, got %v", err)
	}
}

func TestSetFamilyPersists(t *testing.T) {
	store := NewStore(t.TempDir())
	sess, _ := Start(store, &models.User{ID: "u1", Username: "alice"})
	if err := sess.SetFamily("family-abc"); err != nil {
		t.Fatal(err)
	}
	user, _ := store.Load()
	if user.FamilyID != "family-abc" {
		t.Errorf("FamilyID = %q", user.FamilyID)
	}
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})
	signed, err := tok.SignedString([]byte("any-secret"))
	if err != nil {
		t.Fatal(err)
	}

	got, ok := TokenExpiry(signed)
	if !ok || !got.Equal(exp) {
		t.Errorf("TokenExpiry() = %v, %v; want %v", got, ok, exp)
	}
	if _, ok := TokenExpiry("mock-token"); ok {
		t.Error("non-JWT token should report ok=false")
	}
}

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		username, password string
		field              string
	}{
		{"", "secret1", "username"},
		{"ab", "secret1", "username"},
		{"abcdefghijklmnopqrstu", "secret1", "username"},
		{"alice", "", "password"},
		{"alice", "12345", "password"},
		{"alice", "123456", ""},
	}
	for _, tt := range tests {
		err := ValidateCredentials(tt.username, tt.password)
		if tt.field == "" {
			if err != nil {
				t.Errorf("ValidateCredentials(%q, %q) = %v, want nil", tt.username, tt.password, err)
			}
			continue
		}
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Field != tt.field {
			t.Errorf("ValidateCredentials(%q, %q) = %v, want %s error", tt.username, tt.password, err, tt.field)
		}
	}
}
