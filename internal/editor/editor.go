// Package editor is the note editing surface. It keeps a draft of the
// active note; title and body edits stay in the draft until Blur, while
// attachments, comments and sharing changes commit immediately.
package editor

import (
	"context"
	"errors"
	"strings"

	"github.com/gonote/gonote/internal/clock"
	"github.com/gonote/gonote/internal/ids"
	"github.com/gonote/gonote/internal/models"
	"github.com/gonote/gonote/internal/session"
)

var (
	ErrNoNote     = errors.New("no note is open")
	ErrNoPolisher = errors.New("no polish service configured")
)

// Committer is the store the editor commits to.
type Committer interface {
	Note(id string) (*models.Note, error)
	UpdateNote(note *models.Note) (*models.Note, error)
}

// Polisher improves a body of text.
type Polisher interface {
	Polish(ctx context.Context, text string) (string, error)
}

// Draft is the editor's working copy of a note's mutable fields.
type Draft struct {
	Title       string
	Body        string
	Attachments []models.Attachment
	Comments    []models.Comment
	Share       models.ShareConfig
}

func draftOf(n *models.Note) Draft {
	if n == nil {
		return Draft{
			Attachments: []models.Attachment{},
			Comments:    []models.Comment{},
			Share:       models.DefaultShareConfig(),
		}
	}
	c := n.Clone()
	return Draft{
		Title:       c.Title,
		Body:        c.Content,
		Attachments: c.Attachments,
		Comments:    c.Comments,
		Share:       c.ShareConfig,
	}
}

func (d Draft) clone() Draft {
	d.Attachments = append([]models.Attachment{}, d.Attachments...)
	d.Comments = append([]models.Comment{}, d.Comments...)
	d.Share = d.Share.Clone()
	return d
}

// Option configures an Editor.
type Option func(*Editor)

// WithClock sets the clock used for commit and comment timestamps.
func WithClock(c clock.Clock) Option { return func(e *Editor) { e.clock = c } }

// WithPolisher sets the AI polish service.
func WithPolisher(p Polisher) Option { return func(e *Editor) { e.polisher = p } }

// WithShareBaseURL sets the prefix for generated public links.
func WithShareBaseURL(u string) Option { return func(e *Editor) { e.shareBaseURL = u } }

// WithShareToken overrides the public link token generator.
func WithShareToken(fn func() string) Option { return func(e *Editor) { e.shareToken = fn } }

// WithColor overrides the collaborator color picker.
func WithColor(fn func() string) Option { return func(e *Editor) { e.color = fn } }

// Editor edits one note at a time.
type Editor struct {
	store        Committer
	session      *session.Session
	clock        clock.Clock
	polisher     Polisher
	shareBaseURL string
	shareToken   func() string
	color        func() string

	noteID   string
	draft    Draft
	baseline Draft
	sel      Selection
	quote    string
}

// New creates an editor committing to store on behalf of the session user.
func New(store Committer, sess *session.Session, opts ...Option) *Editor {
	e := &Editor{
		store:        store,
		session:      sess,
		clock:        clock.Real(),
		shareBaseURL: "https://gonote.app/s/",
		shareToken:   ids.ShareToken,
		draft:        draftOf(nil),
	}
	e.color = randomColor
	for _, opt := range opts {
		opt(e)
	}
	e.baseline = e.draft.clone()
	return e
}

// Open loads a draft from note. A nil note yields empty defaults.
func (e *Editor) Open(note *models.Note) {
	e.noteID = ""
	if note != nil {
		e.noteID = note.ID
	}
	e.draft = draftOf(note)
	e.baseline = e.draft.clone()
	e.sel = Selection{}
	e.quote = ""
}

// NoteID returns the id of the open note, empty when none.
func (e *Editor) NoteID() string { return e.noteID }

// Draft returns a copy of the current draft.
func (e *Editor) Draft() Draft { return e.draft.clone() }

// SetTitle changes the draft title only.
func (e *Editor) SetTitle(title string) { e.draft.Title = title }

// SetBody changes the draft body only. The selection is clamped.
func (e *Editor) SetBody(body string) {
	e.draft.Body = body
	e.sel = e.sel.clamp(runeLen(body))
}

// Dirty reports uncommitted title or body changes.
func (e *Editor) Dirty() bool {
	return e.draft.Title != e.baseline.Title || e.draft.Body != e.baseline.Body
}

// Blur commits the full draft with updatedAt = now.
func (e *Editor) Blur() (*models.Note, error) {
	if e.noteID == "" {
		return nil, nil
	}
	return e.commit(func(n *models.Note) {
		n.Title = e.draft.Title
		n.Content = e.draft.Body
		n.Attachments = append([]models.Attachment{}, e.draft.Attachments...)
		n.Comments = append([]models.Comment{}, e.draft.Comments...)
		n.ShareConfig = e.draft.Share.Clone()
	}, true)
}

// commit applies mutate to the stored note and writes it back. Immediate
// commits leave draft title and body out; only Blur writes those.
func (e *Editor) commit(mutate func(n *models.Note), full bool) (*models.Note, error) {
	if e.noteID == "" {
		return nil, ErrNoNote
	}
	n, err := e.store.Note(e.noteID)
	if err != nil {
		return nil, err
	}
	mutate(n)
	n.UpdatedAt = clock.Millis(e.clock)
	saved, err := e.store.UpdateNote(n)
	if err != nil {
		return nil, err
	}
	if full {
		e.baseline = e.draft.clone()
	} else {
		e.baseline.Attachments = append([]models.Attachment{}, saved.Attachments...)
		e.baseline.Comments = append([]models.Comment{}, saved.Comments...)
		e.baseline.Share = saved.ShareConfig.Clone()
	}
	return saved, nil
}

// Polish sends the draft body to the polish service and replaces the draft
// body with the result. On error the draft is unchanged. Nothing is
// committed; the next Blur persists the polished body.
func (e *Editor) Polish(ctx context.Context) error {
	if e.polisher == nil {
		return ErrNoPolisher
	}
	out, err := e.polisher.Polish(ctx, e.draft.Body)
	if err != nil {
		return err
	}
	e.SetBody(out)
	return nil
}

// AddAttachment records a file reference and commits immediately.
func (e *Editor) AddAttachment(name, mimeType string, size int64, data string) (models.Attachment, error) {
	a := models.Attachment{
		ID:        ids.New(),
		Name:      name,
		Type:      mimeType,
		Size:      size,
		Data:      data,
		CreatedAt: clock.Millis(e.clock),
	}
	next := append(append([]models.Attachment{}, e.draft.Attachments...), a)
	if _, err := e.commit(func(n *models.Note) { n.Attachments = next }, false); err != nil {
		return models.Attachment{}, err
	}
	e.draft.Attachments = next
	return a, nil
}

// RemoveAttachment filters an attachment out and commits immediately.
func (e *Editor) RemoveAttachment(id string) error {
	next := make([]models.Attachment, 0, len(e.draft.Attachments))
	for _, a := range e.draft.Attachments {
		if a.ID != id {
			next = append(next, a)
		}
	}
	if len(next) == len(e.draft.Attachments) {
		return errors.New("attachment not found: " + id)
	}
	if _, err := e.commit(func(n *models.Note) { n.Attachments = next }, false); err != nil {
		return err
	}
	e.draft.Attachments = next
	return nil
}

// SetQuote captures the selected body text as the excerpt for the next
// comment. An empty selection clears it.
func (e *Editor) SetQuote() string {
	e.quote = e.SelectedText()
	return e.quote
}

// Quote returns the pending comment excerpt.
func (e *Editor) Quote() string { return e.quote }

// SubmitComment appends a comment carrying the pending excerpt and commits
// immediately. Blank text is a no-op and returns nil.
func (e *Editor) SubmitComment(text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if e.noteID == "" {
		return nil, ErrNoNote
	}
	if e.session == nil || e.session.User == nil {
		return nil, session.ErrNotLoggedIn
	}
	user := e.session.User

	c := models.Comment{
		ID:         ids.TimeID(e.clock),
		UserID:     user.ID,
		Username:   user.Username,
		Content:    text,
		QuotedText: e.quote,
		CreatedAt:  clock.Millis(e.clock),
	}
	next := append(append([]models.Comment{}, e.draft.Comments...), c)
	if _, err := e.commit(func(n *models.Note) { n.Comments = next }, false); err != nil {
		return nil, err
	}
	e.draft.Comments = next
	e.quote = ""
	return &c, nil
}
