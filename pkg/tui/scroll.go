package tui

import (
	"github.com/gonote/gonote/internal/editor"
	"github.com/gonote/gonote/internal/render"
)

// renderPreview re-renders the preview pane when the body changed
func (m *Model) renderPreview(force bool) {
	body := m.body.Value()
	if !force && body == m.rendered {
		return
	}
	out, err := render.Terminal(body, m.store, m.preview.Width)
	if err != nil {
		m.log.Debug().Err(err).Msg("render preview")
		out = body
	}
	m.preview.SetContent(out)
	m.raw.SetContent(body)
	m.rendered = body
}

// trackEditOffset follows the textarea's own scrolling: the top line only
// moves when the cursor leaves the visible window.
func (m *Model) trackEditOffset() {
	line, h := m.body.Line(), max(m.body.Height(), 1)
	if line < m.editOff {
		m.editOff = line
	}
	if line >= m.editOff+h {
		m.editOff = line - h + 1
	}
}

// metrics describes pane p. The raw pane is the textarea while it has
// focus and a read-only viewport otherwise.
func (m Model) metrics(p editor.Pane) editor.Metrics {
	if p == editor.PanePreview {
		return editor.Metrics{Offset: m.preview.YOffset, Content: m.preview.TotalLineCount(), Viewport: m.preview.Height}
	}
	if m.focus == FocusBody {
		return editor.Metrics{Offset: m.editOff, Content: m.body.LineCount(), Viewport: m.body.Height()}
	}
	return editor.Metrics{Offset: m.raw.YOffset, Content: m.raw.TotalLineCount(), Viewport: m.raw.Height}
}

// setOffset moves pane p programmatically and reports whether it moved
func (m *Model) setOffset(p editor.Pane, target int) bool {
	before := m.metrics(p).Offset
	if p == editor.PanePreview {
		m.preview.SetYOffset(target)
	} else {
		m.raw.SetYOffset(target)
		m.editOff = m.raw.YOffset
	}
	return m.metrics(p).Offset != before
}

func other(p editor.Pane) editor.Pane {
	if p == editor.PaneEdit {
		return editor.PanePreview
	}
	return editor.PaneEdit
}

// syncScroll detects scrolls since the last call and mirrors them onto
// the other pane
func (m *Model) syncScroll() {
	for _, p := range []editor.Pane{editor.PaneEdit, editor.PanePreview} {
		if off := m.metrics(p).Offset; off != m.last[p] {
			m.last[p] = off
			m.scrolled(p)
		}
	}
}

// scrolled feeds a scroll of src to the sync guard and applies the result
func (m *Model) scrolled(src editor.Pane) {
	dst := other(src)
	target, ok := m.scroll.OnScroll(src, m.metrics(src), m.metrics(dst))
	if !ok {
		return
	}
	if m.setOffset(dst, target) {
		// the move produces its own scroll event, which the guard swallows
		m.scroll.OnScroll(dst, m.metrics(dst), m.metrics(src))
	} else {
		m.scroll.Unchanged()
	}
	m.last[dst] = m.metrics(dst).Offset
}

// resetScrollBaseline forgets pending offset changes, used after layout
// or focus changes that are not user scrolls
func (m *Model) resetScrollBaseline() {
	m.last[editor.PaneEdit] = m.metrics(editor.PaneEdit).Offset
	m.last[editor.PanePreview] = m.metrics(editor.PanePreview).Offset
}
