package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gonote/gonote/internal/ai"
	"github.com/gonote/gonote/internal/output"
)

var polishCmd = &cobra.Command{
	Use:     "polish [id|title]",
	Short:   "Rewrite a note body with the AI service",
	GroupID: "notes",
	Long: `Send the body to the configured chat-completions service and replace it with
the polished text. Set GONOTE_AI_API_KEY (or ai.api_key in config.yaml, or a
.env.local file). Use --dry-run to print the result without saving it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		ed, n, err := a.openNote(argOr(args, 0))
		if err != nil {
			return err
		}
		if err := ed.Polish(cmd.Context()); err != nil {
			if errors.Is(err, ai.ErrNotConfigured) {
				return fmt.Errorf("%w: set GONOTE_AI_API_KEY", err)
			}
			return fmt.Errorf("polish: %w", err)
		}
		if dry, _ := cmd.Flags().GetBool("dry-run"); dry {
			fmt.Println(ed.Draft().Body)
			return nil
		}
		if !ed.Dirty() {
			output.Info("Nothing to change in %s", n.DisplayTitle())
			return nil
		}
		if _, err := ed.Blur(); err != nil {
			return err
		}
		output.Success("Polished %s", n.DisplayTitle())
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(polishCmd)
	polishCmd.Flags().Bool("dry-run", false, "print the polished body without saving")
}
