// Package render turns note bodies into preview output. @mentions and
// [[wiki links]] are textual substitutions on the raw body, applied before
// markdown rendering, code fences included.
package render

import (
	"fmt"
	"html"
	"regexp"

	"github.com/gonote/gonote/internal/models"
)

var (
	wikiLinkRe = regexp.MustCompile(`\[\[(.*?)\]\]`)
	// wiki links come first so an @name inside [[...]] stays part of the title
	inlineRe = regexp.MustCompile(`\[\[(.*?)\]\]|@(\w+)`)
)

// Resolver looks up a note by exact title.
type Resolver interface {
	FindByTitle(title string) (*models.Note, bool)
}

// Notes is a Resolver over a slice of notes.
type Notes []models.Note

// FindByTitle returns the first note whose title equals title.
func (ns Notes) FindByTitle(title string) (*models.Note, bool) {
	for i := range ns {
		if ns[i].Title == title {
			return ns[i].Clone(), true
		}
	}
	return nil, false
}

// Link is one [[Title]] reference in a body.
type Link struct {
	Title    string
	NoteID   string
	Resolved bool
}

// Links lists the wiki links in body in order of appearance.
func Links(body string, r Resolver) []Link {
	var out []Link
	for _, m := range wikiLinkRe.FindAllStringSubmatch(body, -1) {
		l := Link{Title: m[1]}
		if n, ok := r.FindByTitle(m[1]); ok {
			l.NoteID = n.ID
			l.Resolved = true
		}
		out = append(out, l)
	}
	return out
}

// substitute replaces each wiki link and mention in one left-to-right
// pass, so the two never rewrite each other's output.
func substitute(body string, mention func(name string) string, link func(title string) string) string {
	return inlineRe.ReplaceAllStringFunc(body, func(match string) string {
		m := inlineRe.FindStringSubmatch(match)
		if m[2] != "" {
			return mention(m[2])
		}
		return link(m[1])
	})
}

// Substitute rewrites mentions into pills and wiki links into note links
// or broken-link spans, producing HTML fragments inside the markdown.
func Substitute(body string, r Resolver) string {
	return substitute(body,
		func(name string) string { return `<span class="mention-pill">@` + name + `</span>` },
		func(title string) string {
			if n, ok := r.FindByTitle(title); ok {
				return fmt.Sprintf(`<a href="#note-%s" data-note-id="%s" class="wiki-link">📄 %s</a>`,
					html.EscapeString(n.ID), html.EscapeString(n.ID), html.EscapeString(title))
			}
			return fmt.Sprintf(`<span class="wiki-link-broken" title="Page not created yet">📄 %s</span>`, html.EscapeString(title))
		})
}

// substituteTerminal is Substitute for terminal output, where HTML spans
// would be shown literally.
func substituteTerminal(body string, r Resolver) string {
	return substitute(body,
		func(name string) string { return "**@" + name + "**" },
		func(title string) string {
			if _, ok := r.FindByTitle(title); ok {
				return "**📄 " + title + "**"
			}
			return "📄 " + title + " _(missing)_"
		})
}
