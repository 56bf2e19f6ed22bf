package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gonote/gonote/internal/models"
	"github.com/gonote/gonote/internal/output"
)

var familyCmd = &cobra.Command{
	Use:     "family",
	Short:   "Family groups: a shared note pool and calendar",
	GroupID: "collab",
}

var familyCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a family and become its owner",
	Args:  cobra.ExactArgs(1),
	RunE: sessionCmd(func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.requireLogin(); err != nil {
			return err
		}
		fam, err := a.client.CreateFamily(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("create family: %w", err)
		}
		if err := a.sess.SetFamily(fam.FamilyID); err != nil {
			return err
		}
		output.Success("Created family %s (id %s). Share the id so others can join.", args[0], fam.FamilyID)
		return nil
	}),
}

var familyJoinCmd = &cobra.Command{
	Use:   "join <family-id>",
	Short: "Join a family by id",
	Args:  cobra.ExactArgs(1),
	RunE: sessionCmd(func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.requireLogin(); err != nil {
			return err
		}
		if err := a.client.JoinFamily(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("join family: %w", err)
		}
		if err := a.sess.SetFamily(args[0]); err != nil {
			return err
		}
		output.Success("Joined family %s", args[0])
		return nil
	}),
}

var familyLeaveCmd = &cobra.Command{
	Use:   "leave",
	Short: "Leave your family",
	RunE: sessionCmd(func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.requireLogin(); err != nil {
			return err
		}
		if err := a.client.LeaveFamily(cmd.Context()); err != nil {
			return fmt.Errorf("leave family: %w", err)
		}
		if err := a.sess.SetFamily(""); err != nil {
			return err
		}
		output.Success("Left the family")
		return nil
	}),
}

var familyMembersCmd = &cobra.Command{
	Use:   "members",
	Short: "List family members",
	RunE: sessionCmd(func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.requireLogin(); err != nil {
			return err
		}
		id, members, err := a.client.FamilyMembers(cmd.Context())
		if err != nil {
			return fmt.Errorf("family members: %w", err)
		}
		if id != a.sess.User.FamilyID {
			// the server is the source of truth for membership
			if err := a.sess.SetFamily(id); err != nil {
				return err
			}
		}
		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return output.JSON(map[string]any{"familyId": id, "members": members})
		}
		if id == "" {
			output.Info("Not in a family")
			return nil
		}
		output.Info("Family %s", output.Title(id))
		for _, m := range members {
			fmt.Printf("  %s  %s\n", m.Username, output.Subtle(m.UserID))
		}
		return nil
	}),
}

var familyNotesCmd = &cobra.Command{
	Use:   "notes",
	Short: "List the family note pool",
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.store.SetActiveFolder(models.FamilyFolderID); err != nil {
			return err
		}
		return printNotes(cmd, a, a.store.Filtered())
	}),
}

var familyEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List family events",
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		if a.store.FamilyID() == "" {
			output.Info("Not in a family")
			return nil
		}
		now := a.clock.Now()
		var family []models.CalendarEvent
		for _, e := range a.store.Events() {
			if e.FamilyID != "" {
				family = append(family, e)
			}
		}
		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return output.JSON(family)
		}
		if len(family) == 0 {
			output.Info("No family events")
		}
		for _, e := range family {
			fmt.Println(formatEvent(e, now, now.Location()))
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(familyCmd)
	familyCmd.AddCommand(familyCreateCmd, familyJoinCmd, familyLeaveCmd, familyMembersCmd, familyNotesCmd, familyEventsCmd)

	familyMembersCmd.Flags().Bool("json", false, "JSON output")
	familyNotesCmd.Flags().Bool("json", false, "JSON output")
	familyEventsCmd.Flags().Bool("json", false, "JSON output")
}
