package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/scorecard/internal/auth"
)

var tokenCmd = &cobra.Command{
	Use:   "token <client>",
	Short: "Mint a bearer token for the HTTP API",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ttl := cfg.TokenTTL
		if d, _ := cmd.Flags().GetDuration("ttl"); d > 0 {
			ttl = d
		}

		tokens, err := auth.NewJWTService(cfg.JWTSecret, ttl)
		if err != nil {
			return fmt.Errorf("%w: set SCORECARD_JWT_SECRET or server.jwt_secret", err)
		}
		token, err := tokens.GenerateToken(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().Duration("ttl", 0, "Token lifetime (overrides server.token_ttl)")
}
