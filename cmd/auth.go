package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gonote/gonote/internal/config"
	"github.com/gonote/gonote/internal/models"
	"github.com/gonote/gonote/internal/output"
	"github.com/gonote/gonote/internal/session"
)

var loginCmd = &cobra.Command{
	Use:     "login",
	Short:   "Log in to the GoNote server",
	GroupID: "session",
	Example: `  gonote login
  gonote login --username alice < password.txt`,
	RunE: sessionCmd(func(cmd *cobra.Command, args []string, a *app) error {
		username, _ := cmd.Flags().GetString("username")
		username, password, err := promptCredentials("Log in", username)
		if err != nil {
			return err
		}

		user, err := a.client.Login(cmd.Context(), username, password)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		return a.startSession(user)
	}),
}

var registerCmd = &cobra.Command{
	Use:     "register",
	Short:   "Create an account",
	GroupID: "session",
	Long: `Create an account. With the two-step flow (the default) the server sends a
verification code; finish with --code.`,
	Example: `  gonote register --username alice
  gonote register --username alice --code 123456`,
	RunE: sessionCmd(func(cmd *cobra.Command, args []string, a *app) error {
		username, _ := cmd.Flags().GetString("username")
		code, _ := cmd.Flags().GetString("code")
		ctx := cmd.Context()

		if code != "" {
			if err := session.ValidateUsername(username); err != nil {
				return err
			}
			user, err := a.client.RegisterVerify(ctx, strings.TrimSpace(username), strings.TrimSpace(code))
			if err != nil {
				return fmt.Errorf("verify: %w", err)
			}
			return a.startSession(user)
		}

		username, password, err := promptCredentials("Register", username)
		if err != nil {
			return err
		}

		if a.cfg.GetRegisterMode() == config.RegisterSingle {
			user, err := a.client.Register(ctx, username, password)
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}
			return a.startSession(user)
		}

		msg, err := a.client.RegisterRequest(ctx, username, password)
		if err != nil {
			return fmt.Errorf("register: %w", err)
		}
		if msg != "" {
			output.Info("%s", msg)
		}
		output.Info("Finish with: gonote register --username %s --code <code>", username)
		return nil
	}),
}

var logoutCmd = &cobra.Command{
	Use:     "logout",
	Short:   "Log out and clear the local cache",
	GroupID: "session",
	RunE: sessionCmd(func(cmd *cobra.Command, args []string, a *app) error {
		if a.sess == nil {
			output.Info("Not logged in")
			return nil
		}
		name := a.sess.User.Username
		if err := a.sess.Teardown(); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		a.sess = nil
		if err := a.cache.Reset(); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
		output.Success("Logged out %s", name)
		return nil
	}),
}

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Short:   "Show the logged-in user",
	GroupID: "session",
	RunE: sessionCmd(func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.requireLogin(); err != nil {
			return err
		}
		u := a.sess.User
		jsonOut, _ := cmd.Flags().GetBool("json")
		if jsonOut {
			safe := *u
			safe.Token = ""
			return output.JSON(safe)
		}

		output.Info("%s %s", output.Title(u.Username), output.Subtle("("+u.ID+")"))
		output.Info("Server: %s", a.cfg.GetServerURL())
		if u.FamilyID != "" {
			output.Info("Family: %s", u.FamilyID)
		}
		if exp, ok := session.TokenExpiry(u.Token); ok {
			state := "expires"
			if exp.Before(time.Now()) {
				state = "expired"
			}
			output.Info("Token %s %s", state, exp.Local().Format("2006-01-02 15:04"))
		}
		return nil
	}),
}

// startSession persists user and drops the previous user's cached workspace.
func (a *app) startSession(user *models.User) error {
	sess, err := session.Start(a.sessions, user)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	a.sess = sess
	if err := a.cache.Reset(); err != nil {
		return fmt.Errorf("reset cache: %w", err)
	}
	output.Success("Logged in as %s", user.Username)
	return nil
}

// promptCredentials asks for a username and password. On a terminal it
// shows a form; otherwise the password is read from the first line of stdin.
func promptCredentials(title, username string) (string, string, error) {
	var password string
	stdinFd := int(os.Stdin.Fd())

	switch {
	case term.IsTerminal(stdinFd) && username == "":
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&username).
				Validate(session.ValidateUsername),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(session.ValidatePassword),
		).Title(title))
		if err := form.Run(); err != nil {
			return "", "", err
		}
	case term.IsTerminal(stdinFd):
		fmt.Print("Password: ")
		b, err := term.ReadPassword(stdinFd)
		fmt.Println()
		if err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		password = string(b)
	default:
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", "", fmt.Errorf("read password from stdin: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	username = strings.TrimSpace(username)
	if err := session.ValidateCredentials(username, password); err != nil {
		return "", "", err
	}
	return username, password, nil
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)

	loginCmd.Flags().StringP("username", "u", "", "username (prompted when omitted)")
	registerCmd.Flags().StringP("username", "u", "", "username (prompted when omitted)")
	registerCmd.Flags().String("code", "", "verification code from the server (two-step registration)")
	whoamiCmd.Flags().Bool("json", false, "JSON output")
}
