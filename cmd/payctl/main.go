// payctl is a terminal client for the payment backend. It mirrors what
// the mobile app does: admins create and send split requests, users see
// their pending shares and get the MoMo transfer details for paying.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vantungdz/payment/internal/api"
	"github.com/vantungdz/payment/internal/store"
	"github.com/vantungdz/payment/pkg/logging"
)

var (
	serverURL  string
	tokenPath  string
	selfReport bool
)

var rootCmd = &cobra.Command{
	Use:   "payctl",
	Short: "Split bills and track payment requests",
	Long: `payctl talks to the payment backend to create, send and settle
split payment requests.

Admin commands: create, send, users, stats
User commands:  view, pay
Shared:         login, register, whoami, logout, list`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	logging.Setup()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("PAYCTL_SERVER", "http://localhost:8080"), "backend base URL")
	rootCmd.PersistentFlags().StringVar(&tokenPath, "token-file", defaultTokenPath(), "file holding the session token")
	rootCmd.PersistentFlags().BoolVar(&selfReport, "self-report", false, "allow marking your own share as paid on the server")

	rootCmd.AddCommand(loginCmd, registerCmd, whoamiCmd, logoutCmd)
	rootCmd.AddCommand(listCmd, createCmd, sendCmd, payCmd, viewCmd, usersCmd, statsCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".payctl-token"
	}
	return filepath.Join(home, ".payctl", "token")
}

// newClient builds an API client with the saved token, if any.
func newClient() *api.Client {
	session := &api.Session{}
	if data, err := os.ReadFile(tokenPath); err == nil {
		session.SetToken(strings.TrimSpace(string(data)))
	}
	return api.New(api.Config{BaseURL: serverURL}, session)
}

// newStore builds the request store over the API client.
func newStore(client *api.Client) *store.Store {
	return store.New(client, store.Config{SelfReportPayments: selfReport})
}

func saveToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(tokenPath), 0o700); err != nil {
		return fmt.Errorf("failed to create token dir: %w", err)
	}
	if err := os.WriteFile(tokenPath, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

func clearToken() {
	os.Remove(tokenPath)
}

// printJSON renders any value as indented JSON for --json output.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
