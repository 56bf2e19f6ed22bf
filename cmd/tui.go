package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gonote/gonote/internal/ai"
	"github.com/gonote/gonote/internal/logging"
	"github.com/gonote/gonote/internal/output"
	"github.com/gonote/gonote/pkg/tui"
	"github.com/gonote/gonote/pkg/tui/keymap"
)

const tuiLogFile = "tui.log"

var tuiCmd = &cobra.Command{
	Use:     "tui",
	Aliases: []string{"ui"},
	Short:   "Open the interactive workspace",
	GroupID: "notes",
	Long: `Open the full-screen workspace: folders and notes on the left, the editor
with a synchronized raw/preview split on the right.

Key bindings:
  j/k, gg/G      Move through notes (opens the note)
  tab/shift+tab  Switch folder
  /              Search
  e, T           Edit body, rename
  esc            Leave the editor (saves)
  n, x           New note, delete note
  m              Cycle view mode: split, preview, edit
  l              Scroll the preview
  :              Comment (ctrl+k from the editor quotes the cursor line)
  p              Toggle the public link
  P              AI polish
  c              Calendar ([ and ] change month, t jumps to today)
  ?              Toggle help
  q              Quit

Bindings can be overridden in keymap.json in the config directory, e.g.
{"bindings": {"calendar:h": "prev-month"}}. Logs go to tui.log.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer a.close()

		logFile, err := os.OpenFile(filepath.Join(a.dir, tuiLogFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer logFile.Close()
		a.log = logging.Setup(logFile, logLevelOr(os.Getenv("GONOTE_LOG_LEVEL"), "info"), os.Getenv("GONOTE_LOG_FORMAT"))

		if a.sess == nil {
			if err := a.interactiveLogin(cmd); err != nil {
				output.Error("%v", err)
				return err
			}
		}
		if err := a.load(cmd.Context()); err != nil {
			output.Error("%v", err)
			return err
		}

		keys := keymap.NewRegistry()
		keymap.RegisterDefaults(keys)
		kcfg, err := keymap.LoadConfig(keymap.ConfigPath(a.dir))
		if err != nil {
			output.Warning("ignoring %s: %v", keymap.ConfigPath(a.dir), err)
		} else {
			keymap.ApplyConfig(keys, kcfg)
		}

		opts := tui.Options{
			Store:         a.store,
			Editor:        a.editor(),
			Keymap:        keys,
			Clock:         a.clock,
			Logger:        a.log,
			UserID:        a.sess.User.ID,
			Username:      a.sess.User.Username,
			Pending:       a.queue.Pending,
			Polish:        ai.New(a.cfg.GetAIEndpoint(), a.cfg.GetAIAPIKey(), a.cfg.GetAIModel(), a.cfg.GetAITimeout()).Polish,
			PolishTimeout: a.cfg.GetAITimeout(),
		}

		p := tea.NewProgram(tui.New(opts), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(cmd.Context()))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running workspace: %w", err)
		}
		return nil
	},
}

// interactiveLogin runs the login form before the workspace opens
func (a *app) interactiveLogin(cmd *cobra.Command) error {
	username, password, err := promptCredentials("Log in to GoNote", "")
	if err != nil {
		return err
	}
	user, err := a.client.Login(cmd.Context(), username, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := a.startSession(user); err != nil {
		return err
	}
	a.client.Token = user.Token
	a.store.SetFamilyID(user.FamilyID)
	return nil
}

// logLevelOr picks --log-level, then the environment, then fallback
func logLevelOr(env, fallback string) string {
	if logLevel != "" {
		return logLevel
	}
	if env != "" {
		return env
	}
	return fallback
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
