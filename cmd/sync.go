package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gonote/gonote/internal/output"
	"github.com/gonote/gonote/internal/syncq"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Short:   "Inspect and retry failed server writes",
	GroupID: "system",
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List writes that have not reached the server",
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		pending, err := a.cache.Pending()
		if err != nil {
			return err
		}
		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return output.JSON(pending)
		}
		if len(pending) == 0 {
			output.Success("Everything is synced")
			return nil
		}
		for _, p := range pending {
			fmt.Printf("%d  %s  %s  %s\n", p.ID, p.Task, output.Subtle(output.FormatTimeAgo(time.UnixMilli(p.FailedAt))), p.Error)
		}
		return nil
	}),
}

var syncRetryCmd = &cobra.Command{
	Use:   "retry",
	Short: "Replay failed writes in their original order",
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		if offline {
			return fmt.Errorf("cannot retry while --offline")
		}
		pending, err := a.cache.Pending()
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			output.Success("Nothing to retry")
			return nil
		}

		// failures are recorded again by the queue
		if err := a.cache.ClearPending(); err != nil {
			return err
		}
		for _, p := range pending {
			if err := a.queue.Enqueue(refresh(a, p.Task)); err != nil {
				return err
			}
		}

		ctx, cancel := contextWithTimeout(cmd, a.cfg.GetSyncTimeout())
		defer cancel()
		before := a.queue.Failed()
		if err := a.queue.Drain(ctx); err != nil {
			return fmt.Errorf("retry: %w", err)
		}
		if failed := a.queue.Failed() - before; failed > 0 {
			return fmt.Errorf("%d of %d writes failed again", failed, len(pending))
		}
		output.Success("Retried %d writes", len(pending))
		return nil
	}),
}

// refresh swaps a recorded note snapshot for the current local copy so a
// retry never writes older content than the store holds.
func refresh(a *app, t syncq.Task) syncq.Task {
	if t.Kind != syncq.CreateNote && t.Kind != syncq.UpdateNote {
		return t
	}
	if n, err := a.store.Note(t.NoteID); err == nil {
		t.Note = n
	}
	return t
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.AddCommand(syncStatusCmd, syncRetryCmd)
	syncStatusCmd.Flags().Bool("json", false, "JSON output")
}
