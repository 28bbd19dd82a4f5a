package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/doracomply/doracomply/pkg/db"
	"github.com/doracomply/doracomply/pkg/encryption"
	"github.com/doracomply/doracomply/pkg/model"
)

// userCreateCmd represents the user create command
var userCreateCmd = &cobra.Command{
	Use:   "create <email>",
	Short: "Create a dashboard user",
	Long: `Create a dashboard user.

The organization named by --org is created if it does not exist yet. If no
password is supplied a random one is generated and printed to stdout.

Example:
  complyctl user create alice@example.com --org acme
  complyctl user create admin@example.com --org acme --role admin`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		email := strings.TrimSpace(args[0])
		org, _ := cmd.Flags().GetString("org")
		role, _ := cmd.Flags().GetString("role")
		displayName, _ := cmd.Flags().GetString("display-name")
		password, _ := cmd.Flags().GetString("password")

		generated, err := createUser(email, org, role, displayName, password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create user: %v\n", err)
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "Created user '%s' in organization '%s'\n", email, org)
		if generated != "" {
			fmt.Printf("Password for %s: %s\n", email, generated)
		}
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
	userCreateCmd.Flags().StringP("org", "o", "default", "Organization name")
	userCreateCmd.Flags().StringP("role", "r", model.UserRoleMember, "User role (admin or member)")
	userCreateCmd.Flags().StringP("display-name", "d", "", "Display name")
	userCreateCmd.Flags().StringP("password", "P", "", "Password (generated when omitted)")
}

func createUser(email, orgName, role, displayName, password string) (generatedPassword string, err error) {
	if email == "" {
		return "", fmt.Errorf("email is required")
	}
	if role != model.UserRoleAdmin && role != model.UserRoleMember {
		return "", fmt.Errorf("unknown role: %s", role)
	}

	database, err := connectWithDataKey()
	if err != nil {
		return "", err
	}

	// Check for an existing user before touching the organization
	var count int64
	database.Model(&model.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return "", fmt.Errorf("user '%s' already exists", email)
	}

	var org model.Organization
	if err := database.Where("name = ?", orgName).First(&org).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return "", err
		}
		org = model.Organization{Name: orgName}
		if err := database.Create(&org).Error; err != nil {
			return "", fmt.Errorf("failed to create organization: %w", err)
		}
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

	user := model.User{
		OrganizationID: org.ID,
		Email:          email,
		DisplayName:    displayName,
		PasswordHash:   hash,
		Role:           role,
	}
	if err := database.Create(&user).Error; err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	return generatedPassword, nil
}

// connectWithDataKey opens the database using the cipher derived from
// COMPLY_DATA_KEY, matching what the server uses at runtime.
func connectWithDataKey() (*gorm.DB, error) {
	dataKeyB64, ok := os.LookupEnv("COMPLY_DATA_KEY")
	if !ok {
		return nil, fmt.Errorf("COMPLY_DATA_KEY environment variable is required")
	}

	dataKey, err := base64.StdEncoding.DecodeString(dataKeyB64)
	if err != nil {
		return nil, fmt.Errorf("invalid COMPLY_DATA_KEY: %w", err)
	}

	cipher, err := encryption.NewSymmetric(dataKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	return db.Connect(db.Config{Cipher: cipher})
}
