package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gonote/gonote/internal/input"
	"github.com/gonote/gonote/internal/models"
	"github.com/gonote/gonote/internal/output"
)

var commentCmd = &cobra.Command{
	Use:     "comment",
	Short:   "Comment on notes",
	GroupID: "collab",
}

var commentAddCmd = &cobra.Command{
	Use:   "add <id|title> <text>",
	Short: "Add a comment, optionally quoting part of the body",
	Example: `  gonote comment add Roadmap "Looks good"
  gonote comment add Roadmap "Which database?" --range 40:58`,
	Args: cobra.MinimumNArgs(2),
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		ed, n, err := a.openNote(args[0])
		if err != nil {
			return err
		}
		if rng, _ := cmd.Flags().GetString("range"); rng != "" {
			start, end, err := parseRange(rng)
			if err != nil {
				return err
			}
			ed.Select(start, end)
			ed.SetQuote()
		}

		text, err := input.Text(strings.Join(args[1:], " "), cmd.InOrStdin())
		if err != nil {
			return err
		}
		c, err := ed.SubmitComment(text)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("comment text is empty")
		}
		output.Success("Commented on %s", n.DisplayTitle())
		return nil
	}),
}

var commentListCmd = &cobra.Command{
	Use:     "list [id|title]",
	Aliases: []string{"ls"},
	Short:   "List a note's comments",
	Args:    cobra.MaximumNArgs(1),
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		n, err := a.note(argOr(args, 0))
		if err != nil {
			return err
		}
		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return output.JSON(n.Comments)
		}
		if len(n.Comments) == 0 {
			output.Info("No comments on %s", n.DisplayTitle())
			return nil
		}
		for _, c := range n.Comments {
			fmt.Println(formatComment(c))
		}
		return nil
	}),
}

func formatComment(c models.Comment) string {
	line := fmt.Sprintf("%s %s: %s", output.Subtle(output.FormatTimeAgo(time.UnixMilli(c.CreatedAt))), output.Title(c.Username), c.Content)
	if c.QuotedText != "" {
		line += output.Subtle(fmt.Sprintf(" (on %q)", c.QuotedText))
	}
	return line
}

func init() {
	rootCmd.AddCommand(commentCmd)
	commentCmd.AddCommand(commentAddCmd, commentListCmd)

	commentAddCmd.Flags().String("range", "", "quote the body range start:end (rune offsets)")
	commentListCmd.Flags().Bool("json", false, "JSON output")
}
