package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Saaayurii/Chat-sub000/internal/interfaces/cli/migrate"
	"github.com/Saaayurii/Chat-sub000/internal/interfaces/cli/operator"
	"github.com/Saaayurii/Chat-sub000/internal/interfaces/cli/server"
	"github.com/Saaayurii/Chat-sub000/internal/interfaces/cli/supervisor"
	"github.com/Saaayurii/Chat-sub000/internal/interfaces/cli/token"
)

// @title Chat Router API
// @version 1.0
// @description Transfer negotiation between support operators and visitor queue assignment.
// @BasePath /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Operator JWT as "Bearer <token>".
func main() {
	rootCmd := &cobra.Command{
		Use:   "chatrouter",
		Short: "Chat router - operator transfers and visitor queue",
		Long:  `Chat router negotiates conversation transfers between support operators and assigns queued visitors.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		token.NewCommand(),
		supervisor.NewCommand(),
		operator.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
