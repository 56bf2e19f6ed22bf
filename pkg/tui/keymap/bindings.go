package keymap

// DefaultBindings returns the default key bindings for the workspace TUI.
func DefaultBindings() []Binding {
	return []Binding{
		// Global
		{Key: "ctrl+c", Command: CmdQuit, Context: ContextGlobal, Description: "Quit"},

		// Sidebar
		{Key: "q", Command: CmdQuit, Context: ContextSidebar, Description: "Quit"},
		{Key: "?", Command: CmdToggleHelp, Context: ContextSidebar, Description: "Toggle help"},
		{Key: "j", Command: CmdCursorDown, Context: ContextSidebar, Description: "Move down"},
		{Key: "down", Command: CmdCursorDown, Context: ContextSidebar, Description: "Move down"},
		{Key: "k", Command: CmdCursorUp, Context: ContextSidebar, Description: "Move up"},
		{Key: "up", Command: CmdCursorUp, Context: ContextSidebar, Description: "Move up"},
		{Key: "g g", Command: CmdCursorTop, Context: ContextSidebar, Description: "Go to top"},
		{Key: "G", Command: CmdCursorBottom, Context: ContextSidebar, Description: "Go to bottom"},
		{Key: "enter", Command: CmdOpenNote, Context: ContextSidebar, Description: "Open"},
		{Key: "tab", Command: CmdNextFolder, Context: ContextSidebar, Description: "Next folder"},
		{Key: "shift+tab", Command: CmdPrevFolder, Context: ContextSidebar, Description: "Previous folder"},
		{Key: "/", Command: CmdSearch, Context: ContextSidebar, Description: "Search"},
		{Key: "n", Command: CmdNewNote, Context: ContextSidebar, Description: "New note"},
		{Key: "x", Command: CmdDeleteNote, Context: ContextSidebar, Description: "Delete note"},
		{Key: "e", Command: CmdEditBody, Context: ContextSidebar, Description: "Edit"},
		{Key: "T", Command: CmdEditTitle, Context: ContextSidebar, Description: "Rename"},
		{Key: "l", Command: CmdFocusPreview, Context: ContextSidebar, Description: "Scroll preview"},
		{Key: "m", Command: CmdCycleMode, Context: ContextSidebar, Description: "Cycle view mode"},
		{Key: "p", Command: CmdTogglePublic, Context: ContextSidebar, Description: "Toggle public link"},
		{Key: ":", Command: CmdComment, Context: ContextSidebar, Description: "Comment"},
		{Key: "P", Command: CmdPolish, Context: ContextSidebar, Description: "AI polish"},
		{Key: "c", Command: CmdCalendar, Context: ContextSidebar, Description: "Calendar"},

		// Text inputs
		{Key: "enter", Command: CmdConfirm, Context: ContextSearch, Description: "Apply"},
		{Key: "esc", Command: CmdCancel, Context: ContextSearch, Description: "Close"},
		{Key: "enter", Command: CmdConfirm, Context: ContextTitle, Description: "Save"},
		{Key: "esc", Command: CmdCancel, Context: ContextTitle, Description: "Save and leave"},
		{Key: "esc", Command: CmdCancel, Context: ContextEditor, Description: "Save and leave"},
		{Key: "ctrl+k", Command: CmdComment, Context: ContextEditor, Description: "Comment on line"},
		{Key: "enter", Command: CmdConfirm, Context: ContextComment, Description: "Post"},
		{Key: "esc", Command: CmdCancel, Context: ContextComment, Description: "Discard"},

		// Preview
		{Key: "j", Command: CmdScrollDown, Context: ContextPreview, Description: "Scroll down"},
		{Key: "down", Command: CmdScrollDown, Context: ContextPreview, Description: "Scroll down"},
		{Key: "k", Command: CmdScrollUp, Context: ContextPreview, Description: "Scroll up"},
		{Key: "up", Command: CmdScrollUp, Context: ContextPreview, Description: "Scroll up"},
		{Key: "ctrl+d", Command: CmdPageDown, Context: ContextPreview, Description: "Page down"},
		{Key: "pgdown", Command: CmdPageDown, Context: ContextPreview, Description: "Page down"},
		{Key: "ctrl+u", Command: CmdPageUp, Context: ContextPreview, Description: "Page up"},
		{Key: "pgup", Command: CmdPageUp, Context: ContextPreview, Description: "Page up"},
		{Key: "esc", Command: CmdCancel, Context: ContextPreview, Description: "Back"},
		{Key: "h", Command: CmdCancel, Context: ContextPreview, Description: "Back"},
		{Key: "q", Command: CmdQuit, Context: ContextPreview, Description: "Quit"},

		// Calendar
		{Key: "[", Command: CmdPrevMonth, Context: ContextCalendar, Description: "Previous month"},
		{Key: "]", Command: CmdNextMonth, Context: ContextCalendar, Description: "Next month"},
		{Key: "t", Command: CmdToday, Context: ContextCalendar, Description: "Today"},
		{Key: "c", Command: CmdCalendar, Context: ContextCalendar, Description: "Notes"},
		{Key: "esc", Command: CmdCalendar, Context: ContextCalendar, Description: "Notes"},
		{Key: "q", Command: CmdQuit, Context: ContextCalendar, Description: "Quit"},
	}
}

// RegisterDefaults registers all default bindings with the registry
func RegisterDefaults(r *Registry) {
	r.RegisterBindings(DefaultBindings())
}
