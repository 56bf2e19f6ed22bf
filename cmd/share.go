package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gonote/gonote/internal/models"
	"github.com/gonote/gonote/internal/output"
	"github.com/gonote/gonote/internal/share"
)

var shareCmd = &cobra.Command{
	Use:     "share",
	Short:   "Public links and collaborators",
	GroupID: "collab",
}

var shareShowCmd = &cobra.Command{
	Use:   "show [id|title]",
	Short: "Show a note's sharing settings",
	Args:  cobra.MaximumNArgs(1),
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		n, err := a.note(argOr(args, 0))
		if err != nil {
			return err
		}
		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return output.JSON(n.ShareConfig)
		}
		printShare(n.ShareConfig)
		return nil
	}),
}

var sharePublicCmd = &cobra.Command{
	Use:   "public [id|title]",
	Short: "Toggle the public link",
	Long: `Toggle public sharing. The link is generated the first time and kept when
sharing is switched off, so switching it back on reuses it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		ed, _, err := a.openNote(argOr(args, 0))
		if err != nil {
			return err
		}
		cfg, err := ed.TogglePublicShare()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("permission") {
			perm, _ := cmd.Flags().GetString("permission")
			if cfg, err = ed.SetPublicPermission(models.Permission(perm)); err != nil {
				return err
			}
		}
		printShare(cfg)
		return nil
	}),
}

var sharePermCmd = &cobra.Command{
	Use:   "perm <id|title> <user> <read|edit|remove>",
	Short: "Change or remove a collaborator",
	Args:  cobra.ExactArgs(3),
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		return applyShareAction(a, args[0], args[1], args[2])
	}),
}

var shareRemoveCmd = &cobra.Command{
	Use:   "remove <id|title> <user>",
	Short: "Remove a collaborator",
	Args:  cobra.ExactArgs(2),
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		return applyShareAction(a, args[0], args[1], string(share.ActionRemove))
	}),
}

var shareInviteCmd = &cobra.Command{
	Use:   "invite <id|title> <username>",
	Short: "Invite a collaborator with read access",
	Long: `Invite a collaborator. The user is looked up on the server when possible;
invites are not deduplicated.`,
	Args: cobra.ExactArgs(2),
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		ed, n, err := a.openNote(args[0])
		if err != nil {
			return err
		}
		username := strings.TrimSpace(args[1])

		userID := ""
		if !offline && username != "" {
			users, err := a.client.SearchUsers(cmd.Context(), username)
			if err != nil {
				a.log.Debug().Err(err).Str("username", username).Msg("user lookup")
			}
			for _, u := range users {
				if strings.EqualFold(u.Username, username) {
					userID = u.ID
					break
				}
			}
		}

		c, err := ed.Invite(userID, username)
		if err != nil {
			return err
		}
		output.Success("Invited %s to %s (%s)", c.Username, n.DisplayTitle(), c.Permission)
		return nil
	}),
}

func applyShareAction(a *app, noteRef, userRef, act string) error {
	action, err := share.ParseAction(act)
	if err != nil {
		return err
	}
	ed, n, err := a.openNote(noteRef)
	if err != nil {
		return err
	}
	c, ok := share.Find(n.ShareConfig, userRef)
	if !ok {
		return fmt.Errorf("%w: %s", share.ErrCollaboratorNotFound, userRef)
	}
	cfg, err := ed.SetCollaboratorPermission(c.UserID, action)
	if err != nil {
		return err
	}
	printShare(cfg)
	return nil
}

func printShare(cfg models.ShareConfig) {
	if cfg.IsPublic {
		output.Info("Public: %s (%s)", cfg.URL, cfg.PublicPermission)
	} else if cfg.URL != "" {
		output.Info("Public: off %s", output.Subtle("(link kept: "+cfg.URL+")"))
	} else {
		output.Info("Public: off")
	}
	if len(cfg.Collaborators) == 0 {
		return
	}
	fmt.Print(output.SectionHeader("collaborators"))
	for _, c := range cfg.Collaborators {
		fmt.Printf("  %s  %s  %s\n", c.Username, c.Permission, output.Subtle(c.UserID))
	}
}

func init() {
	rootCmd.AddCommand(shareCmd)
	shareCmd.AddCommand(shareShowCmd, sharePublicCmd, sharePermCmd, shareRemoveCmd, shareInviteCmd)

	shareShowCmd.Flags().Bool("json", false, "JSON output")
	sharePublicCmd.Flags().String("permission", "", "public link permission: read or edit")
}
