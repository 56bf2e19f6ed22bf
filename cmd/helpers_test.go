package cmd

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/gonote/gonote/internal/cache"
	"github.com/gonote/gonote/internal/models"
	"github.com/gonote/gonote/internal/syncq"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		in         string
		start, end int
		wantErr    bool
	}{
		{"0:5", 0, 5, false},
		{" 3 : 9 ", 3, 9, false},
		{"7", 7, 7, false},
		{"9:2", 2, 9, false},
		{"", 0, 0, true},
		{"a:b", 0, 0, true},
		{"-1:4", 0, 0, true},
	}
	for _, tt := range tests {
		start, end, err := parseRange(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseRange(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && (start != tt.start || end != tt.end) {
			t.Errorf("parseRange(%q) = %d:%d, want %d:%d", tt.in, start, end, tt.start, tt.end)
		}
	}
}

func TestMergeNotesKeepsOwnCopy(t *testing.T) {
	own := []models.Note{{ID: "a", Title: "mine"}}
	family := []models.Note{{ID: "a", Title: "dup"}, {ID: "f", FamilyID: "F1"}}
	got := mergeNotes(own, family)
	if len(got) != 2 || got[0].Title != "mine" || got[1].ID != "f" {
		t.Errorf("mergeNotes = %+v", got)
	}
}

func TestOverlayEvents(t *testing.T) {
	fetched := []models.CalendarEvent{{ID: "e1"}, {ID: "e2"}}
	pending := []cache.PendingTask{
		{Task: syncq.Task{Kind: syncq.CreateEvent, EventID: "local", Event: &models.CalendarEvent{ID: "local"}}},
		{Task: syncq.Task{Kind: syncq.DeleteEvent, EventID: "e1"}},
	}
	got := overlayEvents(fetched, pending)
	if len(got) != 2 || got[0].ID != "e2" || got[1].ID != "local" {
		t.Errorf("overlayEvents = %+v", got)
	}
}

func TestDetectMIME(t *testing.T) {
	if got := detectMIME("photo.png", nil); got != "image/png" {
		t.Errorf("detectMIME(png) = %q", got)
	}
	if got := detectMIME("README", []byte("plain words")); got != "text/plain; charset=utf-8" {
		t.Errorf("detectMIME(sniffed) = %q", got)
	}
}

func TestNormalizeFlagName(t *testing.T) {
	if got := normalizeFlagName(nil, "log_level"); got != "log-level" {
		t.Errorf("normalizeFlagName = %q", got)
	}

	c := &cobra.Command{Use: "x"}
	c.Flags().String("log-level", "", "")
	c.SetGlobalNormalizationFunc(normalizeFlagName)
	if got := c.Flags().Lookup("log_level"); got == nil || got.Name != "log-level" {
		t.Errorf("--log_level should resolve to --log-level, got %v", got)
	}
}

func TestLogLevelOr(t *testing.T) {
	old := logLevel
	defer func() { logLevel = old }()

	logLevel = ""
	if got := logLevelOr("", "info"); got != "info" {
		t.Errorf("default = %q", got)
	}
	if got := logLevelOr("warn", "info"); got != "warn" {
		t.Errorf("env = %q", got)
	}
	logLevel = "debug"
	if got := logLevelOr("warn", "info"); got != "debug" {
		t.Errorf("flag = %q", got)
	}
}
