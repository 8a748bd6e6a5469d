package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"igresolve/pkg/auth"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored Instagram sessions",
	Long: `Manage the Instagram web sessions used for remote media lookups.

Sessions are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (IGRESOLVE_SESSION_ID, IGRESOLVE_CSRF_TOKEN)

Never share your session cookies or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Store an Instagram session",
	Long: `Store an Instagram web session for API access.

To get the cookie values:
1. Log into Instagram in your browser
2. Open Developer Tools (F12)
3. Go to Application/Storage > Cookies > https://www.instagram.com
4. Copy the sessionid and csrftoken values`,
	Example: `  # Interactive login
  igresolve auth login

  # Login with username
  igresolve auth login myusername`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout <username>",
	Short: "Remove a stored session",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogout,
}

// statusCmd represents the auth status command
var statusCmd = &cobra.Command{
	Use:   "status [username]",
	Short: "Show a stored session with secrets masked",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)

	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		fmt.Print("Instagram username: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		username = strings.TrimSpace(line)
	}
	if username == "" {
		return fmt.Errorf("username is required")
	}

	sessionID, err := promptSecret(reader, "Session ID (sessionid cookie): ")
	if err != nil {
		return err
	}
	csrfToken, err := promptSecret(reader, "CSRF token (csrftoken cookie): ")
	if err != nil {
		return err
	}

	fmt.Print("User agent (optional, Enter for default): ")
	userAgent, err := reader.ReadString('\n')
	if err != nil {
		return err
	}

	session := &auth.Session{
		Username:  username,
		SessionID: sessionID,
		CSRFToken: csrfToken,
		UserAgent: strings.TrimSpace(userAgent),
	}
	if err := manager.Save(session); err != nil {
		return err
	}

	fmt.Printf("Session for %s stored.\n", username)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	if err := manager.Delete(args[0]); err != nil {
		return err
	}
	fmt.Printf("Session for %s removed.\n", args[0])
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}

	var session *auth.Session
	if len(args) > 0 {
		session, err = manager.Load(args[0])
	} else {
		session, err = manager.Default()
	}
	if err != nil {
		return err
	}

	r := session.Redacted()
	fmt.Printf("Username:   %s\n", r.Username)
	fmt.Printf("Session ID: %s\n", r.SessionID)
	fmt.Printf("CSRF token: %s\n", r.CSRFToken)
	if r.UserAgent != "" {
		fmt.Printf("User agent: %s\n", r.UserAgent)
	}
	if !r.AddedAt.IsZero() {
		fmt.Printf("Added:      %s\n", r.AddedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// promptSecret reads a value without echoing when stdin is a terminal.
func promptSecret(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	if term.IsTerminal(int(syscall.Stdin)) {
		value, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(value)), nil
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
