package editor

import "testing"

func TestScrollSyncMapsFraction(t *testing.T) {
	s := &ScrollSync{Mode: ModeSplit}
	edit := Metrics{Offset: 50, Content: 120, Viewport: 20}
	preview := Metrics{Offset: 0, Content: 220, Viewport: 20}

	target, ok := s.OnScroll(PaneEdit, edit, preview)
	if !ok || target != 100 {
		t.Fatalf("OnScroll = %d, %v, want 100, true", target, ok)
	}

	// the programmatic move of the preview pane echoes back and is swallowed
	preview.Offset = target
	if _, ok := s.OnScroll(PanePreview, preview, edit); ok {
		t.Error("feedback scroll was not suppressed")
	}

	// the next genuine scroll goes through again
	preview.Offset = 200
	target, ok = s.OnScroll(PanePreview, preview, edit)
	if !ok || target != 100 {
		t.Errorf("OnScroll = %d, %v, want 100, true", target, ok)
	}
}

func TestScrollSyncOnlyInSplit(t *testing.T) {
	s := &ScrollSync{Mode: ModeEdit}
	if _, ok := s.OnScroll(PaneEdit, Metrics{Offset: 1, Content: 10, Viewport: 5}, Metrics{Content: 10, Viewport: 5}); ok {
		t.Error("sync should be inactive outside split mode")
	}
}

func TestScrollSyncNoScrollableRange(t *testing.T) {
	s := &ScrollSync{Mode: ModeSplit}
	target, ok := s.OnScroll(PaneEdit, Metrics{Content: 5, Viewport: 10}, Metrics{Content: 50, Viewport: 10})
	if !ok || target != 0 {
		t.Errorf("OnScroll = %d, %v, want 0, true", target, ok)
	}
}
