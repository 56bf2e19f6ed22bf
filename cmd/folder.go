package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gonote/gonote/internal/output"
	"github.com/gonote/gonote/internal/suggest"
	"github.com/gonote/gonote/internal/workspace"
)

var folderCmd = &cobra.Command{
	Use:     "folder",
	Short:   "List folders and switch the active one",
	GroupID: "notes",
}

var folderListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List folders",
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		active := a.store.State().ActiveFolderID
		for _, f := range a.store.Folders() {
			marker := "  "
			if f.ID == active {
				marker = "> "
			}
			count := len(a.store.Search(f.ID, ""))
			fmt.Printf("%s%s %s  %s\n", marker, f.Icon, f.Name, output.Subtle(fmt.Sprintf("%s, %d notes", f.ID, count)))
		}
		return nil
	}),
}

var folderUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Make a folder active",
	Args:  cobra.ExactArgs(1),
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.store.SetActiveFolder(args[0]); err != nil {
			if errors.Is(err, workspace.ErrFolderNotFound) {
				var known []string
				for _, f := range a.store.Folders() {
					known = append(known, f.ID)
				}
				return fmt.Errorf("%w%s", err, suggest.Hint(suggest.Closest(args[0], known)))
			}
			return err
		}
		output.Success("Active folder: %s", args[0])
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(folderCmd)
	folderCmd.AddCommand(folderListCmd, folderUseCmd)
}
