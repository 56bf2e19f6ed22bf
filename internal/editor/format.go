package editor

import "fmt"

// Selection is a range over the body in rune offsets. Start == End is a
// cursor.
type Selection struct {
	Start int
	End   int
}

func (s Selection) clamp(n int) Selection {
	s.Start = min(max(s.Start, 0), n)
	s.End = min(max(s.End, 0), n)
	if s.End < s.Start {
		s.Start, s.End = s.End, s.Start
	}
	return s
}

// Action is a toolbar formatting action.
type Action string

const (
	Bold    Action = "bold"
	Italic  Action = "italic"
	Heading Action = "heading"
	List    Action = "list"
	Code    Action = "code"
	Mention Action = "mention"
)

var wraps = map[Action][2]string{
	Bold:    {"**", "**"},
	Italic:  {"*", "*"},
	Heading: {"### ", ""},
	List:    {"- [ ] ", ""},
	Code:    {"```\n", "\n```"},
	Mention: {"@", ""},
}

// ParseAction parses a formatting action name.
func ParseAction(s string) (Action, error) {
	if _, ok := wraps[Action(s)]; !ok {
		return "", fmt.Errorf("unknown format %q (want bold, italic, heading, list, code or mention)", s)
	}
	return Action(s), nil
}

// Select sets the body selection.
func (e *Editor) Select(start, end int) {
	e.sel = Selection{start, end}.clamp(runeLen(e.draft.Body))
}

// Selection returns the body selection.
func (e *Editor) Selection() Selection { return e.sel }

// SelectedText returns the selected body text.
func (e *Editor) SelectedText() string {
	r := []rune(e.draft.Body)
	s := e.sel.clamp(len(r))
	return string(r[s.Start:s.End])
}

// Format applies a toolbar action to the selection.
func (e *Editor) Format(a Action) Selection {
	w, ok := wraps[a]
	if !ok {
		return e.sel
	}
	return e.InsertText(w[0], w[1])
}

// InsertText wraps the selection in before/after and moves the selection
// to the same text inside the wrap. Draft only.
func (e *Editor) InsertText(before, after string) Selection {
	r := []rune(e.draft.Body)
	s := e.sel.clamp(len(r))

	out := make([]rune, 0, len(r)+len(before)+len(after))
	out = append(out, r[:s.Start]...)
	out = append(out, []rune(before)...)
	out = append(out, r[s.Start:s.End]...)
	out = append(out, []rune(after)...)
	out = append(out, r[s.End:]...)

	shift := runeLen(before)
	e.draft.Body = string(out)
	e.sel = Selection{s.Start + shift, s.End + shift}
	return e.sel
}

// InsertMention inserts "@username " at the selection.
func (e *Editor) InsertMention(username string) Selection {
	return e.InsertText("@"+username+" ", "")
}

// ApplyColor wraps the selection in a colored span.
func (e *Editor) ApplyColor(color string) Selection {
	return e.InsertText(fmt.Sprintf(`<span style="color: %s">`, color), "</span>")
}

// Highlight wraps the selection in a highlighted span.
func (e *Editor) Highlight() Selection {
	return e.InsertText(`<span style="background:#FDECC8">`, "</span>")
}

func runeLen(s string) int { return len([]rune(s)) }
