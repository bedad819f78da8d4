package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vantungdz/payment/internal/api"
	"github.com/vantungdz/payment/internal/models"
)

var registerFlags struct {
	fullName string
	phone    string
	email    string
	admin    bool
}

var loginCmd = &cobra.Command{
	Use:   "login <username> <password>",
	Short: "Log in and save the session token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		result, err := client.Login(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if err := saveToken(result.Token); err != nil {
			return err
		}
		fmt.Printf("Logged in as %s (%s)\n", result.User.Username, result.User.Role)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <username> <password>",
	Short: "Create an account and save the session token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role := models.RoleUser
		if registerFlags.admin {
			role = models.RoleAdmin
		}
		client := newClient()
		result, err := client.Register(cmd.Context(), api.RegisterParams{
			Username: args[0],
			Password: args[1],
			FullName: registerFlags.fullName,
			Phone:    registerFlags.phone,
			Email:    registerFlags.email,
			Role:     role,
		})
		if err != nil {
			return err
		}
		if err := saveToken(result.Token); err != nil {
			return err
		}
		fmt.Printf("Registered %s (%s)\n", result.User.Username, result.User.Role)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := newClient().Me(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\nPhone: %s\nRole: %s\n", user.Username, user.FullName, user.Phone, user.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard the session token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Best effort: the token is discarded locally even when the
		// server call fails.
		if err := newClient().Logout(cmd.Context()); err != nil {
			fmt.Println("Warning:", err)
		}
		clearToken()
		fmt.Println("Logged out")
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerFlags.fullName, "name", "", "full display name")
	registerCmd.Flags().StringVar(&registerFlags.phone, "phone", "", "phone number (required)")
	registerCmd.Flags().StringVar(&registerFlags.email, "email", "", "email address")
	registerCmd.Flags().BoolVar(&registerFlags.admin, "admin", false, "register as an admin account")
	registerCmd.MarkFlagRequired("phone")
}
