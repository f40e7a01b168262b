// Package supervisor manages the persisted supervisor grants.
package supervisor

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/config"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/database"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/permission"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
	"github.com/Saaayurii/Chat-sub000/internal/shared/utils"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "supervisor",
		Short: "Manage supervisor grants",
		Long:  `Grant, revoke and list the operators holding the supervisor role. Grants are stored in the database and read by every instance on startup.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "grant <operator-id>",
			Short: "Grant the supervisor role",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withEnforcer(func(e *permission.Enforcer) error {
					if !utils.IsOpaqueID(args[0]) {
						return fmt.Errorf("invalid operator id %q", args[0])
					}
					return e.PromoteSupervisor(args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "revoke <operator-id>",
			Short: "Revoke the supervisor role",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withEnforcer(func(e *permission.Enforcer) error {
					return e.DemoteSupervisor(args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List supervisors",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withEnforcer(func(e *permission.Enforcer) error {
					ids, err := e.Supervisors()
					if err != nil {
						return err
					}
					for _, id := range ids {
						fmt.Fprintln(cmd.OutOrStdout(), id)
					}
					return nil
				})
			},
		},
	)

	return cmd
}

func withEnforcer(fn func(e *permission.Enforcer) error) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger, false); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	e, err := permission.NewEnforcer(database.Get(), cfg.Auth.Supervisors, logger.NewLogger())
	if err != nil {
		return err
	}
	return fn(e)
}
