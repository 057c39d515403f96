// Command complete sends one prompt to the configured completion provider and
// prints the result.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/upb/llm-completion/app"
	"github.com/upb/llm-completion/internal/observability"
	"github.com/upb/llm-completion/services/providers"
)

var version = "0.1.0"

// errFailed marks a completion that returned a Failure result; the message is already printed
var errFailed = errors.New("completion failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(app.EnvFromOS(), os.Stdin).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

type options struct {
	maxAttempts int
	pause       time.Duration
	timeout     time.Duration
	logLevel    string
}

func newRootCmd(env app.Env, stdin io.Reader) *cobra.Command {
	defaults := providers.DefaultRetryPolicy()
	opts := options{}

	cmd := &cobra.Command{
		Use:   "complete [prompt]",
		Short: "Get a text completion from OpenAI, Azure OpenAI or Cohere",
		Long: `complete sends a prompt to the first provider configured in the environment
(OPENAI_API_KEY, then AZURE_OPENAI_API_KEY, then COHERE_API_KEY) and prints the completion.
OpenAI also needs OPENAI_MODEL, and Azure needs AZURE_OPENAI_ENDPOINT.
The prompt is taken from the arguments, or from standard input when it is not a terminal.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := readPrompt(args, stdin)
			if err != nil {
				return err
			}

			logger, err := observability.NewLogger(opts.logLevel, "console")
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			client, err := app.SelectClient(env, providers.RetryPolicy{
				MaxAttempts: opts.maxAttempts,
				Pause:       opts.pause,
				Timeout:     opts.timeout,
			}, logger, nil)
			if err != nil {
				return err
			}

			result, err := client.Complete(cmd.Context(), prompt)
			if err != nil {
				logger.Debug("completion errored", zap.Error(err))
				return err
			}
			if !result.OK() {
				fmt.Fprintln(cmd.ErrOrStderr(), result.Message())
				return errFailed
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.Data())
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.maxAttempts, "max-attempts", defaults.MaxAttempts, "retries after the first attempt for transient failures")
	cmd.Flags().DurationVar(&opts.pause, "pause", defaults.Pause, "delay between attempts")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", defaults.Timeout, "timeout of a single HTTP attempt (0 disables it)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	return cmd
}

// readPrompt joins the arguments, or reads stdin when no arguments are given and stdin is piped
func readPrompt(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", errors.New("no prompt given: pass it as an argument or pipe it on stdin")
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read prompt from stdin: %w", err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", errors.New("empty prompt")
	}
	return prompt, nil
}
