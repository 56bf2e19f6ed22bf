package editor

import "math"

// ViewMode is the layout of the editor surface.
type ViewMode string

const (
	ModeEdit    ViewMode = "edit"
	ModeSplit   ViewMode = "split"
	ModePreview ViewMode = "preview"
)

// Pane identifies one side of the split view.
type Pane int

const (
	PaneEdit Pane = iota
	PanePreview
)

// Metrics describes a scrollable pane: Offset is the current top line,
// Content the total lines and Viewport the visible lines.
type Metrics struct {
	Offset   int
	Content  int
	Viewport int
}

func (m Metrics) scrollRange() int { return m.Content - m.Viewport }

// ScrollSync keeps the raw and preview panes at the same scroll fraction.
// After it moves a pane, the scroll event that move produces is swallowed.
type ScrollSync struct {
	Mode    ViewMode
	syncing bool
}

// OnScroll handles a scroll of src. It returns the offset to apply to the
// other pane, or ok=false when nothing should move.
func (s *ScrollSync) OnScroll(src Pane, from, to Metrics) (target int, ok bool) {
	if s.Mode != ModeSplit {
		return 0, false
	}
	if s.syncing {
		s.syncing = false
		return 0, false
	}

	var pct float64
	if r := from.scrollRange(); r > 0 {
		pct = float64(from.Offset) / float64(r)
	}
	pct = math.Min(math.Max(pct, 0), 1)

	target = int(math.Round(pct * float64(max(to.scrollRange(), 0))))
	s.syncing = true
	return target, true
}

// Unchanged clears the guard after a move that left the target pane where
// it was, since no echo scroll will follow.
func (s *ScrollSync) Unchanged() { s.syncing = false }
