package render

import (
	"bytes"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const minWidth = 20

var (
	htmlOnce     sync.Once
	htmlMarkdown goldmark.Markdown
)

func htmlRenderer() goldmark.Markdown {
	htmlOnce.Do(func() {
		htmlMarkdown = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		)
	})
	return htmlMarkdown
}

// HTML renders body as preview HTML. Inline substitutions pass through as
// raw HTML.
func HTML(body string, r Resolver) (string, error) {
	var buf bytes.Buffer
	if err := htmlRenderer().Convert([]byte(Substitute(body, r)), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Terminal renders body for a terminal of the given width using glamour.
func Terminal(body string, r Resolver, width int) (string, error) {
	if strings.TrimSpace(body) == "" {
		return "", nil
	}
	if width < minWidth {
		width = minWidth
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}

	rendered, err := renderer.Render(substituteTerminal(body, r))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(rendered, "\n"), nil
}
