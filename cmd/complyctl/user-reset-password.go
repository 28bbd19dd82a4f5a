package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/doracomply/doracomply/pkg/encryption"
	"github.com/doracomply/doracomply/pkg/model"
)

// userResetPasswordCmd represents the user reset-password command
var userResetPasswordCmd = &cobra.Command{
	Use:   "reset-password <email>",
	Short: "Reset a user's password",
	Long: `Reset the password for a user.

A new random password is generated and printed to stdout unless one is
supplied with --password.

Example:
  complyctl user reset-password alice@example.com`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		email := args[0]
		password, _ := cmd.Flags().GetString("password")

		generated, err := resetUserPassword(email, password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to reset password for %s: %v\n", email, err)
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "Password reset for '%s'\n", email)
		if generated != "" {
			fmt.Printf("New password for %s: %s\n", email, generated)
		}
	},
}

func init() {
	userCmd.AddCommand(userResetPasswordCmd)
	userResetPasswordCmd.Flags().StringP("password", "P", "", "Password (generated when omitted)")
}

func resetUserPassword(email, password string) (generatedPassword string, err error) {
	database, err := connectWithDataKey()
	if err != nil {
		return "", err
	}

	var count int64
	database.Model(&model.User{}).Where("email = ?", email).Count(&count)
	if count == 0 {
		return "", fmt.Errorf("user not found: %s", email)
	}

	if password == "" {
		raw, err := encryption.RandomBytes(18)
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		password = base64.URLEncoding.EncodeToString(raw)
		generatedPassword = password
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	if err := database.Model(&model.User{}).Where("email = ?", email).
		Update("password_hash", hash).Error; err != nil {
		return "", fmt.Errorf("failed to update password: %w", err)
	}

	return generatedPassword, nil
}
