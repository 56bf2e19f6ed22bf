package models

import "testing"

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 Bytes"},
		{512, "512 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5 MB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in, 2); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNoteCloneIsDeep(t *testing.T) {
	n := &Note{
		ID:          "n1",
		Attachments: []Attachment{{ID: "a1"}},
		Comments:    []Comment{{ID: "c1"}},
		ShareConfig: ShareConfig{Collaborators: []Collaborator{{UserID: "u1", Permission: PermissionRead}}},
	}
	c := n.Clone()
	c.Attachments[0].ID = "changed"
	c.Comments = append(c.Comments, Comment{ID: "c2"})
	c.ShareConfig.Collaborators[0].Permission = PermissionEdit

	if n.Attachments[0].ID != "a1" {
		t.Error("attachment slice shared with clone")
	}
	if len(n.Comments) != 1 {
		t.Error("comment slice shared with clone")
	}
	if n.ShareConfig.Collaborators[0].Permission != PermissionRead {
		t.Error("collaborator slice shared with clone")
	}
}

func TestDisplayTitle(t *testing.T) {
	if got := (&Note{}).DisplayTitle(); got != "Untitled" {
		t.Errorf("DisplayTitle() = %q, want Untitled", got)
	}
	if got := (&Note{Title: "Roadmap"}).DisplayTitle(); got != "Roadmap" {
		t.Errorf("DisplayTitle() = %q, want Roadmap", got)
	}
}

func TestPermissionValid(t *testing.T) {
	if !PermissionRead.Valid() || !PermissionEdit.Valid() {
		t.Error("read/edit should be valid")
	}
	if Permission("remove").Valid() {
		t.Error("remove is not a permission")
	}
}
