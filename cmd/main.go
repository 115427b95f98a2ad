package main

import (
	"fmt"
	"os"

	"go-hospital-internment/cmd/bootstrap"
	"go-hospital-internment/config"
	"go-hospital-internment/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hospital-internment",
		Short: "Hospital internment API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the internment API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	// Initialize application with all dependencies
	app, err := bootstrap.New()
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}

	// Run the application
	app.Run()
	return nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending store_documents migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return bootstrap.Migrate()
		},
	}
}

// tokenCmd mints a staff access token for operators and local testing
func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a staff access token signed with JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			roleName, _ := cmd.Flags().GetString("role")
			name, _ := cmd.Flags().GetString("name")
			userID, _ := cmd.Flags().GetString("user-id")

			role, err := jwt.ParseRole(roleName)
			if err != nil {
				return fmt.Errorf("%w: %q", err, roleName)
			}
			if userID == "" {
				userID = uuid.NewString()
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			svc := jwt.NewJWTService(cfg.JWT)
			token, tokenID, err := svc.GenerateAccessToken(userID, name, role)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "token %s for %s (%s) expires in %s\n", tokenID, name, role, svc.GetAccessExpiry())
			return nil
		},
	}
	cmd.Flags().String("role", string(jwt.RoleNurse), "Staff role: admin, doctor or nurse")
	cmd.Flags().String("name", "Operador", "Display name carried by the token")
	cmd.Flags().String("user-id", "", "Subject id, random when empty")
	return cmd
}
