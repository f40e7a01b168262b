// Package token issues operator bearer tokens for local testing and scripts.
package token

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/auth"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/config"
	"github.com/Saaayurii/Chat-sub000/internal/shared/utils"
)

var (
	env string
	ttl time.Duration
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token <operator-id>",
		Short: "Issue an operator token",
		Long:  `Sign a bearer token for the given operator id with the configured auth secret.`,
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	operatorID := args[0]
	if !utils.IsOpaqueID(operatorID) {
		return fmt.Errorf("invalid operator id %q", operatorID)
	}
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive")
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	signed, err := auth.NewJWTService(cfg.Auth.JWTSecret).Sign(operatorID, ttl)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), signed)
	return nil
}
