// Package session persists the logged-in user across runs. A Session is
// passed explicitly to whatever needs identity; there is no package-level
// current user.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gonote/gonote/internal/models"
)

const sessionFile = "session.json"

// ErrNotLoggedIn is returned when no session is persisted.
var ErrNotLoggedIn = errors.New("not logged in")

// Store reads and writes the session file under a fixed directory.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the session file path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, sessionFile)
}

// Load reads the persisted user. Returns ErrNotLoggedIn if absent.
func (s *Store) Load() (*models.User, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if user.ID == "" {
		return nil, ErrNotLoggedIn
	}
	return &user, nil
}

// Save replaces any prior session wholesale (0600 perms).
func (s *Store) Save(user *models.User) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path(), data, 0600)
}

// Clear removes the session file. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.Path())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Session is the identity context handed to components.
type Session struct {
	User  *models.User
	store *Store
}

// Init reads the persisted session on startup.
func Init(store *Store) (*Session, error) {
	user, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Session{User: user, store: store}, nil
}

// Start persists user and returns the new session.
func Start(store *Store, user *models.User) (*Session, error) {
	if err := store.Save(user); err != nil {
		return nil, err
	}
	return &Session{User: user, store: store}, nil
}

// SetFamily records a family membership change and persists it.
func (s *Session) SetFamily(familyID string) error {
	s.User.FamilyID = familyID
	return s.store.Save(s.User)
}

// Teardown clears the persisted session. The Session must not be used afterwards.
func (s *Session) Teardown() error {
	s.User = nil
	return s.store.Clear()
}

// Token returns the bearer token, empty when logged out.
func (s *Session) Token() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.Token
}

// TokenExpiry returns the exp claim of a JWT without verifying its
// signature. ok is false when the token is not a JWT or carries no exp.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
