package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rihcare/assistant-runtime/internal/app"
	"github.com/rihcare/assistant-runtime/internal/config"
)

const version = "0.1.0"

func NewRoot(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "assistant-runtime",
		Short: "Campus health triage assistant for Retriever Integrated Health",
	}

	root.AddCommand(newServeCommand(logger))
	root.AddCommand(newChatCommand(logger))
	root.AddCommand(newRespondCommand(logger))
	root.AddCommand(newVersionCommand())

	return root
}

func newServeCommand(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with reload watcher and refresh scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			runtime, err := app.New(ctx, cfg, version, logger)
			if err != nil {
				return err
			}
			defer runtime.Close()
			return runtime.Run(ctx)
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print CLI version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version)
		},
	}
}
