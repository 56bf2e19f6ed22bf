package editor

import (
	"github.com/gonote/gonote/internal/ids"
	"github.com/gonote/gonote/internal/models"
	"github.com/gonote/gonote/internal/share"
)

func randomColor() string { return share.RandomColor() }

// updateShare mutates a copy of the draft share config and commits it.
func (e *Editor) updateShare(fn func(cfg *models.ShareConfig) error) (models.ShareConfig, error) {
	cfg := e.draft.Share.Clone()
	if err := fn(&cfg); err != nil {
		return models.ShareConfig{}, err
	}
	if _, err := e.commit(func(n *models.Note) { n.ShareConfig = cfg.Clone() }, false); err != nil {
		return models.ShareConfig{}, err
	}
	e.draft.Share = cfg
	return cfg.Clone(), nil
}

// TogglePublicShare flips public sharing and commits.
func (e *Editor) TogglePublicShare() (models.ShareConfig, error) {
	return e.updateShare(func(cfg *models.ShareConfig) error {
		share.TogglePublic(cfg, e.shareBaseURL, e.shareToken)
		return nil
	})
}

// SetPublicPermission changes the public link permission and commits.
func (e *Editor) SetPublicPermission(p models.Permission) (models.ShareConfig, error) {
	return e.updateShare(func(cfg *models.ShareConfig) error {
		return share.SetPublicPermission(cfg, p)
	})
}

// Invite adds a read-only collaborator and commits. An empty userID gets a
// generated one.
func (e *Editor) Invite(userID, username string) (models.Collaborator, error) {
	if userID == "" {
		userID = ids.New()
	}
	var added models.Collaborator
	_, err := e.updateShare(func(cfg *models.ShareConfig) error {
		c, err := share.Invite(cfg, userID, username, e.color())
		added = c
		return err
	})
	return added, err
}

// SetCollaboratorPermission changes or removes a collaborator and commits.
func (e *Editor) SetCollaboratorPermission(userID string, action share.Action) (models.ShareConfig, error) {
	return e.updateShare(func(cfg *models.ShareConfig) error {
		return share.Apply(cfg, userID, action)
	})
}
