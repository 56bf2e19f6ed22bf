package keymap

import (
	"strings"
)

// FooterHelp renders a compact "key:description" line for the context.
// Keys bound to the same command are shown once, first binding wins.
func (r *Registry) FooterHelp(context Context) string {
	seen := make(map[Command]bool)
	var parts []string
	for _, b := range r.BindingsForContext(context) {
		if seen[b.Command] || b.Description == "" {
			continue
		}
		seen[b.Command] = true
		parts = append(parts, formatKey(b.Key)+":"+strings.ToLower(b.Description))
	}
	return strings.Join(parts, "  ")
}

// formatKey formats a key string for display
func formatKey(key string) string {
	replacements := []struct{ old, new string }{
		{"pgup", "PgUp"},
		{"pgdown", "PgDn"},
		{"shift+tab", "S-Tab"},
		{"up", "↑"},
		{"down", "↓"},
		{"enter", "Enter"},
		{"esc", "Esc"},
		{"tab", "Tab"},
		{"ctrl+", "^"},
		{"g g", "gg"},
	}

	result := key
	for _, r := range replacements {
		result = strings.ReplaceAll(result, r.old, r.new)
	}
	return result
}
