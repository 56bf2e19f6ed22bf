package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gonote/gonote/internal/editor"
	"github.com/gonote/gonote/internal/input"
	"github.com/gonote/gonote/internal/models"
	"github.com/gonote/gonote/internal/output"
	"github.com/gonote/gonote/internal/render"
	"github.com/gonote/gonote/internal/workspace"
)

var noteCmd = &cobra.Command{
	Use:     "note",
	Aliases: []string{"notes", "n"},
	Short:   "Create, view, edit and search notes",
	GroupID: "notes",
}

var noteNewCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a note in the active folder",
	Example: `  gonote note new "Meeting notes"
  gonote note new "Groceries" --folder family --content "- [ ] milk"
  gonote note new                      # untitled, opens $EDITOR`,
	Args: cobra.MaximumNArgs(1),
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		folder, _ := cmd.Flags().GetString("folder")
		n, err := a.store.CreateNote(folder)
		if err != nil {
			return err
		}

		ed := a.editor()
		ed.Open(n)
		if len(args) == 1 {
			ed.SetTitle(args[0])
		}
		if cmd.Flags().Changed("content") {
			content, err := contentFlag(cmd, "content")
			if err != nil {
				return err
			}
			ed.SetBody(content)
		} else if len(args) == 0 {
			body, err := openEditorForContent("")
			if err != nil {
				return err
			}
			ed.SetBody(body)
		}
		if ed.Dirty() {
			if n, err = ed.Blur(); err != nil {
				return err
			}
		}

		fmt.Printf("CREATED %s %s\n", n.ID, n.DisplayTitle())
		return nil
	}),
}

var noteListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List notes in the active folder",
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		folder, _ := cmd.Flags().GetString("folder")
		all, _ := cmd.Flags().GetBool("all")
		if folder != "" {
			if err := a.store.SetActiveFolder(folder); err != nil {
				return err
			}
		}

		notes := a.store.Filtered()
		if all {
			notes = a.store.Notes()
		}
		return printNotes(cmd, a, notes)
	}),
}

var noteSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search titles and bodies in the active folder",
	Args:  cobra.MinimumNArgs(1),
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		folder, _ := cmd.Flags().GetString("folder")
		if folder == "" {
			folder = a.store.State().ActiveFolderID
		}
		return printNotes(cmd, a, a.store.Search(folder, strings.Join(args, " ")))
	}),
}

var noteShowCmd = &cobra.Command{
	Use:   "show [id|title]",
	Short: "Show a note rendered for the terminal",
	Long:  `Show a note. Without an argument the active note is shown. The note becomes the active note.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		_, n, err := a.openNote(argOr(args, 0))
		if err != nil {
			return err
		}
		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return output.JSON(n)
		}

		fmt.Println(output.Title(n.DisplayTitle()) + "  " + output.Subtle(n.ID))
		if st := a.store.SyncStatus(n.ID); st.State != workspace.Synced {
			fmt.Println(output.FormatSyncStatus(st))
		}
		fmt.Println()

		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			fmt.Println(n.Content)
		} else {
			rendered, err := render.Terminal(n.Content, a.store, output.TerminalWidth(80))
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}
			fmt.Println(rendered)
		}

		if len(n.Attachments) > 0 {
			fmt.Print(output.SectionHeader("attachments"))
			for _, att := range n.Attachments {
				fmt.Printf("  %s  %s  %s\n", att.ID, att.Name, output.Subtle(att.HumanSize()))
			}
		}
		if len(n.Comments) > 0 {
			fmt.Print(output.SectionHeader("comments"))
			for _, c := range n.Comments {
				fmt.Println("  " + formatComment(c))
			}
		}
		return nil
	}),
}

var noteEditCmd = &cobra.Command{
	Use:   "edit [id|title]",
	Short: "Edit a note's title or body",
	Long: `Edit a note. Without --title or --content the body opens in $EDITOR.
The change is committed when the edit finishes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		ed, n, err := a.openNote(argOr(args, 0))
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("title") {
			title, _ := cmd.Flags().GetString("title")
			ed.SetTitle(title)
		}
		if cmd.Flags().Changed("content") {
			content, err := contentFlag(cmd, "content")
			if err != nil {
				return err
			}
			ed.SetBody(content)
		}
		appendText, err := contentFlag(cmd, "append")
		if err != nil {
			return err
		}
		if appendText != "" {
			body := ed.Draft().Body
			if body != "" && !strings.HasSuffix(body, "\n") {
				body += "\n"
			}
			ed.SetBody(body + appendText)
		}
		if !cmd.Flags().Changed("title") && !cmd.Flags().Changed("content") && !cmd.Flags().Changed("append") {
			body, err := openEditorForContent(n.Content)
			if err != nil {
				return err
			}
			ed.SetBody(body)
		}

		if !ed.Dirty() {
			output.Info("No changes to %s", n.ID)
			return nil
		}
		if _, err := ed.Blur(); err != nil {
			return err
		}
		output.Success("UPDATED %s", n.ID)
		return nil
	}),
}

var noteFormatCmd = &cobra.Command{
	Use:   "format <id|title> <action>",
	Short: "Apply a toolbar action to a range of the body",
	Long: `Apply a formatting action to the body range given by --range (rune offsets,
start:end). Actions: bold, italic, heading, list, code, mention, color, highlight.`,
	Example: `  gonote note format Roadmap bold --range 0:7
  gonote note format Roadmap color --range 10:20 --color "#E03E3E"
  gonote note format Roadmap mention --range 5:5 --user alice`,
	Args: cobra.ExactArgs(2),
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		ed, n, err := a.openNote(args[0])
		if err != nil {
			return err
		}
		rng, _ := cmd.Flags().GetString("range")
		start, end, err := parseRange(rng)
		if err != nil {
			return err
		}
		ed.Select(start, end)

		var sel editor.Selection
		switch args[1] {
		case "color":
			color, _ := cmd.Flags().GetString("color")
			if color == "" {
				return fmt.Errorf("--color is required")
			}
			sel = ed.ApplyColor(color)
		case "highlight":
			sel = ed.Highlight()
		case "mention":
			user, _ := cmd.Flags().GetString("user")
			if user == "" {
				sel = ed.Format(editor.Mention)
			} else {
				sel = ed.InsertMention(user)
			}
		default:
			action, err := editor.ParseAction(args[1])
			if err != nil {
				return err
			}
			sel = ed.Format(action)
		}

		if _, err := ed.Blur(); err != nil {
			return err
		}
		output.Success("UPDATED %s selection %d:%d", n.ID, sel.Start, sel.End)
		return nil
	}),
}

var noteDeleteCmd = &cobra.Command{
	Use:     "delete <id|title>",
	Aliases: []string{"rm"},
	Short:   "Delete a note",
	Args:    cobra.ExactArgs(1),
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		n, err := a.note(args[0])
		if err != nil {
			return err
		}
		if err := a.store.DeleteNote(n.ID); err != nil {
			return err
		}
		output.Success("DELETED %s %s", n.ID, n.DisplayTitle())
		if next := a.store.ActiveNote(); next != nil {
			output.Info("Active note: %s %s", next.ID, next.DisplayTitle())
		}
		return nil
	}),
}

var noteLinksCmd = &cobra.Command{
	Use:   "links [id|title]",
	Short: "List the [[wiki links]] in a note",
	Args:  cobra.MaximumNArgs(1),
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		n, err := a.note(argOr(args, 0))
		if err != nil {
			return err
		}
		links := render.Links(n.Content, a.store)
		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return output.JSON(links)
		}
		if len(links) == 0 {
			output.Info("No links in %s", n.DisplayTitle())
			return nil
		}
		for _, l := range links {
			if l.Resolved {
				fmt.Printf("📄 %s  %s\n", l.Title, output.Subtle(l.NoteID))
			} else {
				fmt.Printf("📄 %s  %s\n", l.Title, output.Subtle("(missing)"))
			}
		}
		return nil
	}),
}

var noteOpenCmd = &cobra.Command{
	Use:   "open <title>",
	Short: "Follow a wiki link: select the note titled <title> and its folder",
	Args:  cobra.MinimumNArgs(1),
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		title := strings.Join(args, " ")
		n, ok := a.store.FindByTitle(title)
		if !ok {
			return fmt.Errorf("page not created yet: %s", title)
		}
		if !a.store.Navigate(n.ID) {
			return fmt.Errorf("%w: %s", workspace.ErrNoteNotFound, n.ID)
		}
		st := a.store.State()
		output.Success("Opened %s %s in folder %s", n.ID, n.DisplayTitle(), st.ActiveFolderID)
		return nil
	}),
}

var noteExportCmd = &cobra.Command{
	Use:   "export [id|title]",
	Short: "Export a note as HTML or markdown",
	Args:  cobra.MaximumNArgs(1),
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		n, err := a.note(argOr(args, 0))
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		var out string
		switch format {
		case "html":
			body, err := render.HTML(n.Content, a.store)
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}
			out = body
		case "md", "markdown":
			out = n.Content
		default:
			return fmt.Errorf("unknown format %q (want html or md)", format)
		}

		path, _ := cmd.Flags().GetString("output")
		if path == "" || path == "-" {
			fmt.Println(out)
			return nil
		}
		if err := os.WriteFile(path, []byte(out), 0644); err != nil {
			return err
		}
		output.Success("Wrote %s", path)
		return nil
	}),
}

func printNotes(cmd *cobra.Command, a *app, notes []models.Note) error {
	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return output.JSON(notes)
	}
	if len(notes) == 0 {
		output.Info("No notes")
		return nil
	}
	now := a.clock.Now()
	active := a.store.State().ActiveNoteID
	for i := range notes {
		n := &notes[i]
		marker := "  "
		if n.ID == active {
			marker = "> "
		}
		line := marker + output.FormatNoteShort(n, now)
		if st := a.store.SyncStatus(n.ID); st.State != workspace.Synced {
			line += "  " + output.FormatSyncStatus(st)
		}
		fmt.Println(line)
	}
	return nil
}

func argOr(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func openEditorForContent(initial string) (string, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	tmpFile, err := os.CreateTemp("", "gonote-*.md")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if initial != "" {
		if _, err := tmpFile.WriteString(initial); err != nil {
			tmpFile.Close()
			return "", fmt.Errorf("write temp file: %w", err)
		}
	}
	tmpFile.Close()

	// Split editor command in case it includes args (e.g. "code --wait")
	parts := strings.Fields(editor)
	editorCmd := exec.Command(parts[0], append(parts[1:], tmpFile.Name())...)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return "", fmt.Errorf("editor exited with error: %w", err)
	}

	data, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		return "", fmt.Errorf("read edited file: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// contentFlag reads a text flag, expanding - and @file
func contentFlag(cmd *cobra.Command, name string) (string, error) {
	v, _ := cmd.Flags().GetString(name)
	return input.Text(v, cmd.InOrStdin())
}

func init() {
	rootCmd.AddCommand(noteCmd)
	noteCmd.AddCommand(noteNewCmd, noteListCmd, noteSearchCmd, noteShowCmd, noteEditCmd,
		noteFormatCmd, noteDeleteCmd, noteLinksCmd, noteOpenCmd, noteExportCmd)

	noteNewCmd.Flags().String("folder", "", "folder id (default: active folder, `family` for the family pool)")
	noteNewCmd.Flags().String("content", "", "note body (skips $EDITOR); - reads stdin, @file reads a file")

	noteListCmd.Flags().String("folder", "", "switch the active folder first")
	noteListCmd.Flags().Bool("all", false, "list notes in every folder")
	noteListCmd.Flags().Bool("json", false, "JSON output")

	noteSearchCmd.Flags().String("folder", "", "folder to search (default: active folder)")
	noteSearchCmd.Flags().Bool("json", false, "JSON output")

	noteShowCmd.Flags().Bool("raw", false, "print the markdown source")
	noteShowCmd.Flags().Bool("json", false, "JSON output")

	noteEditCmd.Flags().String("title", "", "new title")
	noteEditCmd.Flags().String("content", "", "replace the body; - reads stdin, @file reads a file")
	noteEditCmd.Flags().String("append", "", "append text to the body; - reads stdin, @file reads a file")

	noteFormatCmd.Flags().String("range", "0:0", "selection as start:end rune offsets")
	noteFormatCmd.Flags().String("color", "", "text color for the color action")
	noteFormatCmd.Flags().String("user", "", "username for the mention action")

	noteLinksCmd.Flags().Bool("json", false, "JSON output")

	noteExportCmd.Flags().String("format", "html", "html or md")
	noteExportCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
}
