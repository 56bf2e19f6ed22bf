package cmd

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gonote/gonote/internal/output"
)

// maxInlineSize caps attachments stored as data URLs in the note itself.
const maxInlineSize = 5 << 20

var attachCmd = &cobra.Command{
	Use:     "attach",
	Short:   "Manage note attachments",
	GroupID: "notes",
}

var attachAddCmd = &cobra.Command{
	Use:   "add <id|title> <file>",
	Short: "Attach a file to a note",
	Long: `Attach a file. By default the file is embedded as a data URL; with --upload
it is sent to the server and the note keeps the returned URL.`,
	Args: cobra.ExactArgs(2),
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		ed, n, err := a.openNote(args[0])
		if err != nil {
			return err
		}
		path := args[1]
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		name := filepath.Base(path)
		mimeType := detectMIME(name, data)
		size := int64(len(data))

		var ref string
		if upload, _ := cmd.Flags().GetBool("upload"); upload {
			if offline {
				return fmt.Errorf("--upload needs the server: %w", errOffline)
			}
			res, err := a.client.Upload(cmd.Context(), name, data)
			if err != nil {
				return fmt.Errorf("upload: %w", err)
			}
			ref = res.URL
			if res.Type != "" {
				mimeType = res.Type
			}
			if res.Size > 0 {
				size = res.Size
			}
		} else {
			if size > maxInlineSize {
				return fmt.Errorf("%s is larger than %d bytes, use --upload", name, maxInlineSize)
			}
			ref = "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
		}

		att, err := ed.AddAttachment(name, mimeType, size, ref)
		if err != nil {
			return err
		}
		output.Success("Attached %s (%s) to %s  %s", att.Name, att.HumanSize(), n.DisplayTitle(), output.Subtle(att.ID))
		return nil
	}),
}

var attachRemoveCmd = &cobra.Command{
	Use:     "rm <id|title> <attachment-id>",
	Aliases: []string{"remove"},
	Short:   "Remove an attachment",
	Args:    cobra.ExactArgs(2),
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		ed, n, err := a.openNote(args[0])
		if err != nil {
			return err
		}
		if err := ed.RemoveAttachment(args[1]); err != nil {
			return err
		}
		output.Success("Removed %s from %s", args[1], n.DisplayTitle())
		return nil
	}),
}

var attachListCmd = &cobra.Command{
	Use:     "list [id|title]",
	Aliases: []string{"ls"},
	Short:   "List attachments",
	Args:    cobra.MaximumNArgs(1),
	RunE: workspaceCmd(func(cmd *cobra.Command, args []string, a *app) error {
		n, err := a.note(argOr(args, 0))
		if err != nil {
			return err
		}
		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return output.JSON(n.Attachments)
		}
		if len(n.Attachments) == 0 {
			output.Info("No attachments on %s", n.DisplayTitle())
			return nil
		}
		for _, att := range n.Attachments {
			fmt.Printf("%s  %s  %s  %s\n", att.ID, att.Name, att.Type, output.Subtle(att.HumanSize()))
		}
		return nil
	}),
}

// detectMIME prefers the extension and falls back to content sniffing.
func detectMIME(name string, data []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return http.DetectContentType(data)
}

func init() {
	rootCmd.AddCommand(attachCmd)
	attachCmd.AddCommand(attachAddCmd, attachRemoveCmd, attachListCmd)

	attachAddCmd.Flags().Bool("upload", false, "upload to the server instead of embedding")
	attachListCmd.Flags().Bool("json", false, "JSON output")
}
