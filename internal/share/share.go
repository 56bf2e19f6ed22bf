// Package share implements the note sharing rules: public links,
// the public permission and per-user collaborators. Every function mutates
// the ShareConfig it is given; callers commit the result.
package share

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/gonote/gonote/internal/models"
)

var (
	ErrUnknownAction        = errors.New("unknown share action")
	ErrCollaboratorNotFound = errors.New("collaborator not found")
	ErrEmptyUsername        = errors.New("username is required")
)

// Palette is the set of avatar colors handed to invited collaborators.
var Palette = []string{"bg-red-500", "bg-blue-500", "bg-green-500", "bg-yellow-500"}

// RandomColor picks a palette color.
func RandomColor() string {
	return Palette[rand.IntN(len(Palette))]
}

// Action is a collaborator permission change. ActionRemove drops the
// collaborator instead of changing the permission.
type Action string

const (
	ActionRead   Action = Action(models.PermissionRead)
	ActionEdit   Action = Action(models.PermissionEdit)
	ActionRemove Action = "remove"
)

// ParseAction parses "read", "edit" or "remove".
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionRead, ActionEdit, ActionRemove:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q (want read, edit or remove)", ErrUnknownAction, s)
}

// PublicURL joins the share base URL and an opaque token.
func PublicURL(baseURL, token string) string {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return baseURL + token
}

// TogglePublic flips public sharing. The first time it turns on, a link is
// generated from token(); the link survives toggling off and on again.
func TogglePublic(cfg *models.ShareConfig, baseURL string, token func() string) {
	cfg.IsPublic = !cfg.IsPublic
	if cfg.IsPublic && cfg.URL == "" {
		cfg.URL = PublicURL(baseURL, token())
	}
	if !cfg.PublicPermission.Valid() {
		cfg.PublicPermission = models.PermissionRead
	}
}

// SetPublicPermission sets the access level of the public link.
func SetPublicPermission(cfg *models.ShareConfig, p models.Permission) error {
	if !p.Valid() {
		return fmt.Errorf("invalid permission %q", p)
	}
	cfg.PublicPermission = p
	return nil
}

// Invite appends a read-only collaborator. Existing entries with the same
// username are left alone; duplicates are appended as is.
func Invite(cfg *models.ShareConfig, userID, username, color string) (models.Collaborator, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.Collaborator{}, ErrEmptyUsername
	}
	c := models.Collaborator{
		UserID:      userID,
		Username:    username,
		AvatarColor: color,
		Permission:  models.PermissionRead,
	}
	cfg.Collaborators = append(cfg.Collaborators, c)
	return c, nil
}

// Apply changes a collaborator's permission, or removes them for
// ActionRemove.
func Apply(cfg *models.ShareConfig, userID string, action Action) error {
	if action == ActionRemove {
		return Remove(cfg, userID)
	}
	return SetPermission(cfg, userID, models.Permission(action))
}

// SetPermission updates every collaborator entry for userID.
func SetPermission(cfg *models.ShareConfig, userID string, p models.Permission) error {
	if !p.Valid() {
		return fmt.Errorf("invalid permission %q", p)
	}
	found := false
	for i := range cfg.Collaborators {
		if cfg.Collaborators[i].UserID == userID {
			cfg.Collaborators[i].Permission = p
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrCollaboratorNotFound, userID)
	}
	return nil
}

// Remove drops every collaborator entry for userID.
func Remove(cfg *models.ShareConfig, userID string) error {
	kept := cfg.Collaborators[:0]
	for _, c := range cfg.Collaborators {
		if c.UserID != userID {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(cfg.Collaborators) {
		return fmt.Errorf("%w: %s", ErrCollaboratorNotFound, userID)
	}
	cfg.Collaborators = kept
	return nil
}

// Find returns the collaborator for userID or, failing that, the first
// one with a matching username.
func Find(cfg models.ShareConfig, ref string) (models.Collaborator, bool) {
	for _, c := range cfg.Collaborators {
		if c.UserID == ref {
			return c, true
		}
	}
	for _, c := range cfg.Collaborators {
		if strings.EqualFold(c.Username, ref) {
			return c, true
		}
	}
	return models.Collaborator{}, false
}
