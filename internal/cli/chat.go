package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rihcare/assistant-runtime/internal/answer"
	"github.com/rihcare/assistant-runtime/internal/app"
	"github.com/rihcare/assistant-runtime/internal/config"
	"github.com/rihcare/assistant-runtime/internal/dispatch"
)

func newChatCommand(logger *slog.Logger) *cobra.Command {
	var showTrace bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			assistant, err := app.NewAssistant(cfg, logger)
			if err != nil {
				return err
			}
			auditStore := openAudit(cfg, logger)
			if auditStore != nil {
				defer auditStore.Close()
			}

			cmd.Println(answer.Disclaimer)
			cmd.Println("Type exit to quit.")

			scanner := bufio.NewScanner(cmd.InOrStdin())
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for {
				cmd.Print("you> ")
				if !scanner.Scan() {
					break
				}
				text := strings.TrimSpace(scanner.Text())
				if text == "" {
					continue
				}
				switch strings.ToLower(text) {
				case "exit", "quit", "/exit", "/quit":
					return nil
				}

				result := assistant.Respond(cmd.Context(), text)
				recordInteraction(auditStore, logger, result)
				printReply(cmd, strings.TrimSpace(result.Text))
				if showTrace {
					printTrace(cmd, result)
				}
			}
			return scanner.Err()
		},
	}
	cmd.Flags().BoolVar(&showTrace, "trace", false, "print each decision trace as JSON on stderr")
	return cmd
}

func newRespondCommand(logger *slog.Logger) *cobra.Command {
	var showTrace bool

	cmd := &cobra.Command{
		Use:   "respond [message]",
		Short: "Answer a single message and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return fmt.Errorf("message is empty")
			}

			cfg := config.FromEnv()
			assistant, err := app.NewAssistant(cfg, logger)
			if err != nil {
				return err
			}
			auditStore := openAudit(cfg, logger)
			if auditStore != nil {
				defer auditStore.Close()
			}

			result := assistant.Respond(cmd.Context(), text)
			recordInteraction(auditStore, logger, result)
			cmd.Println(strings.TrimSpace(result.Text))
			if showTrace {
				printTrace(cmd, result)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showTrace, "trace", false, "print the decision trace as JSON on stderr")
	return cmd
}

func printTrace(cmd *cobra.Command, result dispatch.Result) {
	payload, err := json.MarshalIndent(result.Trace, "", "  ")
	if err != nil {
		cmd.PrintErrf("trace marshal failed: %v\n", err)
		return
	}
	cmd.PrintErrln(string(payload))
}

func printReply(cmd *cobra.Command, reply string) {
	if reply == "" {
		cmd.Println("assistant> (no reply)")
		return
	}
	for index, line := range strings.Split(reply, "\n") {
		line = strings.TrimRight(line, "\r")
		if index == 0 {
			cmd.Printf("assistant> %s\n", line)
			continue
		}
		cmd.Printf("           %s\n", line)
	}
}
