package command

import (
	"fmt"

	"libmanage/internal/microservices/http-api/middleware"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	tokenUser     string
	tokenUsername string
	tokenRole     string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development access token",
	Long: `Signs a bearer token with JWT_SECRET. Production tokens come from the
identity provider; this is for local testing only.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := uuid.Parse(tokenUser); err != nil {
			return fmt.Errorf("--user must be a UUID: %w", err)
		}

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		token, err := middleware.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry).Generate(tokenUser, tokenUsername, tokenRole)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id (UUID)")
	tokenCmd.Flags().StringVar(&tokenUsername, "username", "", "display name")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "member", "role claim (member or admin)")
	_ = tokenCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(tokenCmd)
}
