package main

import (
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/doracomply/doracomply/pkg/config"
	"github.com/doracomply/doracomply/pkg/db"
	"github.com/doracomply/doracomply/pkg/encryption"
	"github.com/doracomply/doracomply/pkg/scoring"
	"github.com/doracomply/doracomply/pkg/server"
	"github.com/doracomply/doracomply/pkg/server/endpoints"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the compliance application server",
	Long: `Run the compliance application server.

Requires the environment variables COMPLY_DATA_KEY and DATABASE_URL.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Validate required environment variables first (fail fast)
		dataKeyB64, ok := os.LookupEnv("COMPLY_DATA_KEY")
		if !ok {
			fmt.Fprintln(os.Stderr, "COMPLY_DATA_KEY environment variable is required")
			os.Exit(1)
		}

		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}

		// Run migrations unless --no-migrate is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		dataKey, err := base64.StdEncoding.DecodeString(dataKeyB64)
		if err != nil {
			fmt.Println("Bad COMPLY_DATA_KEY:", err)
			os.Exit(1)
		}

		cipher, err := encryption.NewSymmetric(dataKey)
		if err != nil {
			fmt.Println("Unable to initiate cipher:", err)
			os.Exit(1)
		}

		gormDB, err := db.Connect(db.Config{
			URL:    os.Getenv("DATABASE_URL"),
			Cipher: cipher,
		})
		if err != nil {
			fmt.Println("Unable to connect to DB:", err)
			os.Exit(1)
		}

		if overrides, _ := cmd.Flags().GetString("frameworks-file"); overrides != "" {
			if err := scoring.DefaultRegistry.LoadOverrides(overrides); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to load framework overrides: %v\n", err)
				os.Exit(1)
			}
		}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(cfg, cipher, sessionSigningKey(dataKey), gormDB, host, port)

		endpoints.RegisterAll(s)

		log.Printf("Running server at http://%s:%s...\n", host, port)
		log.Fatal(s.Start())
	},
}

// sessionSigningKey returns the HMAC key for session tokens. A dedicated key
// can be supplied via COMPLY_SESSION_KEY; otherwise the data key is reused.
func sessionSigningKey(dataKey []byte) []byte {
	if b64, ok := os.LookupEnv("COMPLY_SESSION_KEY"); ok {
		if key, err := base64.StdEncoding.DecodeString(b64); err == nil && len(key) > 0 {
			return key
		}
		fmt.Fprintln(os.Stderr, "Warning: COMPLY_SESSION_KEY is not valid base64, falling back to data key")
	}
	return dataKey
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
	serverCmd.Flags().String("frameworks-file", "", "YAML file with framework mapping overrides")
}
