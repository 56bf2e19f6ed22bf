package editor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gonote/gonote/internal/clock"
	"github.com/gonote/gonote/internal/models"
	"github.com/gonote/gonote/internal/session"
	"github.com/gonote/gonote/internal/share"
	"github.com/gonote/gonote/internal/workspace"
)

type fakePolisher struct {
	out string
	err error
}

func (f fakePolisher) Polish(_ context.Context, text string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

func setup(t *testing.T, opts ...Option) (*Editor, *workspace.Store, *clock.FakeClock) {
	t.Helper()
	fc := clock.Fake(time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC))
	store := workspace.New(fc, models.SeedFolders(), "")
	store.Load(models.SeedNotes(clock.Millis(fc)))
	sess := &session.Session{User: &models.User{ID: "u1", Username: "you"}}
	opts = append([]Option{WithClock(fc), WithShareToken(func() string { return "abc" })}, opts...)
	e := New(store, sess, opts...)
	n, err := store.Note("ideas-note")
	if err != nil {
		t.Fatal(err)
	}
	e.Open(n)
	return e, store, fc
}

func TestOpenNilGivesEmptyDraft(t *testing.T) {
	e, _, _ := setup(t)
	e.Open(nil)
	d := e.Draft()
	if d.Title != "" || d.Body != "" || len(d.Attachments) != 0 || d.Share.IsPublic {
		t.Errorf("draft = %+v", d)
	}
	if n, err := e.Blur(); n != nil || err != nil {
		t.Errorf("Blur with no note = %v, %v", n, err)
	}
}

func TestEditsStayInDraftUntilBlur(t *testing.T) {
	e, store, fc := setup(t)
	e.SetTitle("Roadmap 2")
	e.SetBody("new body")
	if !e.Dirty() {
		t.Error("Dirty() = false after edits")
	}

	stored, _ := store.Note("ideas-note")
	if stored.Title != "Project Roadmap" {
		t.Fatalf("edit leaked into store: %q", stored.Title)
	}

	fc.Advance(time.Minute)
	saved, err := e.Blur()
	if err != nil {
		t.Fatalf("Blur: %v", err)
	}
	if saved.Title != "Roadmap 2" || saved.Content != "new body" {
		t.Errorf("saved = %+v", saved)
	}
	if saved.UpdatedAt != clock.Millis(fc) {
		t.Errorf("UpdatedAt = %d, want %d", saved.UpdatedAt, clock.Millis(fc))
	}
	if e.Dirty() {
		t.Error("Dirty() = true after Blur")
	}
}

func TestDraftIsNotStoreReference(t *testing.T) {
	e, store, _ := setup(t)
	d := e.Draft()
	d.Comments = append(d.Comments, models.Comment{ID: "x"})
	stored, _ := store.Note("ideas-note")
	if len(stored.Comments) != 0 {
		t.Error("draft shares comment slice with store")
	}
}

func TestFormatWrapsSelection(t *testing.T) {
	tests := []struct {
		action  Action
		body    string
		start   int
		end     int
		want    string
		wantSel Selection
	}{
		{Bold, "make this bold", 5, 9, "make **this** bold", Selection{7, 11}},
		{Italic, "abc", 0, 3, "*abc*", Selection{1, 4}},
		{Heading, "title", 0, 0, "### title", Selection{4, 4}},
		{List, "todo", 0, 0, "- [ ] todo", Selection{6, 6}},
		{Code, "x := 1", 0, 6, "```\nx := 1\n```", Selection{4, 10}},
		{Mention, "hi ", 3, 3, "hi @", Selection{4, 4}},
		{Bold, "héllo", 1, 2, "h**é**llo", Selection{3, 4}},
	}
	for _, tt := range tests {
		e, _, _ := setup(t)
		e.SetBody(tt.body)
		e.Select(tt.start, tt.end)
		sel := e.Format(tt.action)
		if got := e.Draft().Body; got != tt.want {
			t.Errorf("%s: body = %q, want %q", tt.action, got, tt.want)
		}
		if sel != tt.wantSel {
			t.Errorf("%s: selection = %+v, want %+v", tt.action, sel, tt.wantSel)
		}
	}
}

func TestSelectClamps(t *testing.T) {
	e, _, _ := setup(t)
	e.SetBody("abc")
	e.Select(10, -2)
	if got := e.Selection(); got != (Selection{0, 3}) {
		t.Errorf("Selection() = %+v", got)
	}
}

func TestInsertMentionAndColor(t *testing.T) {
	e, store, _ := setup(t)
	e.SetBody("hello ")
	e.Select(6, 6)
	e.InsertMention("alice")
	if got := e.Draft().Body; got != "hello @alice " {
		t.Errorf("body = %q", got)
	}
	e.Select(0, 5)
	e.ApplyColor("red")
	if got := e.Draft().Body; got != `<span style="color: red">hello</span> @alice ` {
		t.Errorf("body = %q", got)
	}
	stored, _ := store.Note("ideas-note")
	if stored.Content == e.Draft().Body {
		t.Error("formatting must not commit")
	}
}

func TestSubmitComment(t *testing.T) {
	e, store, _ := setup(t)
	e.SetBody("quote this part")
	e.Select(6, 10)
	if q := e.SetQuote(); q != "this" {
		t.Errorf("quote = %q", q)
	}

	c, err := e.SubmitComment("Looks good")
	if err != nil {
		t.Fatalf("SubmitComment: %v", err)
	}
	if c.QuotedText != "this" || c.Username != "you" || c.UserID != "u1" {
		t.Errorf("comment = %+v", c)
	}
	stored, _ := store.Note("ideas-note")
	if len(stored.Comments) != 1 {
		t.Fatalf("stored comments = %d, want 1", len(stored.Comments))
	}
	if stored.Content == "quote this part" {
		t.Error("comment commit should not persist the uncommitted body")
	}
	if e.Quote() != "" {
		t.Error("quote should reset after submit")
	}
}

func TestBlankCommentIsNoop(t *testing.T) {
	e, store, _ := setup(t)
	var changes int
	store.Subscribe(func(workspace.Change) { changes++ })

	c, err := e.SubmitComment("   \n\t")
	if c != nil || err != nil {
		t.Errorf("SubmitComment = %v, %v", c, err)
	}
	if changes != 0 {
		t.Errorf("store committed %d times, want 0", changes)
	}
	if len(e.Draft().Comments) != 0 {
		t.Error("draft comment list changed")
	}
}

func TestAttachmentsCommitImmediately(t *testing.T) {
	e, store, _ := setup(t)
	a, err := e.AddAttachment("plan.pdf", "application/pdf", 2048, "file:///tmp/plan.pdf")
	if err != nil {
		t.Fatalf("AddAttachment: %v", err)
	}
	stored, _ := store.Note("ideas-note")
	if len(stored.Attachments) != 1 || stored.Attachments[0].ID != a.ID {
		t.Fatalf("stored attachments = %+v", stored.Attachments)
	}

	if err := e.RemoveAttachment(a.ID); err != nil {
		t.Fatalf("RemoveAttachment: %v", err)
	}
	stored, _ = store.Note("ideas-note")
	if len(stored.Attachments) != 0 {
		t.Errorf("attachment not removed: %+v", stored.Attachments)
	}
	if err := e.RemoveAttachment(a.ID); err == nil {
		t.Error("removing twice should fail")
	}
}

func TestShareCommitsImmediately(t *testing.T) {
	e, store, _ := setup(t, WithShareBaseURL("https://gonote.app/s/"), WithColor(func() string { return "bg-red-500" }))

	cfg, err := e.TogglePublicShare()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.URL != "https://gonote.app/s/abc" {
		t.Errorf("URL = %q", cfg.URL)
	}
	c, err := e.Invite("u2", "alice")
	if err != nil {
		t.Fatal(err)
	}
	if c.AvatarColor != "bg-red-500" {
		t.Errorf("color = %q", c.AvatarColor)
	}
	if _, err := e.SetCollaboratorPermission("u2", share.ActionEdit); err != nil {
		t.Fatal(err)
	}

	stored, _ := store.Note("ideas-note")
	if !stored.ShareConfig.IsPublic || len(stored.ShareConfig.Collaborators) != 1 ||
		stored.ShareConfig.Collaborators[0].Permission != models.PermissionEdit {
		t.Errorf("stored share = %+v", stored.ShareConfig)
	}

	if _, err := e.SetCollaboratorPermission("u2", share.ActionRemove); err != nil {
		t.Fatal(err)
	}
	stored, _ = store.Note("ideas-note")
	if len(stored.ShareConfig.Collaborators) != 0 {
		t.Errorf("collaborator not removed")
	}
}

func TestPolish(t *testing.T) {
	e, store, _ := setup(t, WithPolisher(fakePolisher{out: "Better text."}))
	e.SetBody("better txt")
	if err := e.Polish(context.Background()); err != nil {
		t.Fatalf("Polish: %v", err)
	}
	if e.Draft().Body != "Better text." {
		t.Errorf("body = %q", e.Draft().Body)
	}
	stored, _ := store.Note("ideas-note")
	if stored.Content == "Better text." {
		t.Error("polish must not commit")
	}
}

func TestPolishFailureKeepsDraft(t *testing.T) {
	boom := errors.New("AI service error")
	e, _, _ := setup(t, WithPolisher(fakePolisher{err: boom}))
	e.SetBody("original")
	if err := e.Polish(context.Background()); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
	if e.Draft().Body != "original" {
		t.Errorf("body = %q, want unchanged", e.Draft().Body)
	}

	e2, _, _ := setup(t)
	if err := e2.Polish(context.Background()); !errors.Is(err, ErrNoPolisher) {
		t.Errorf("err = %v, want ErrNoPolisher", err)
	}
}
