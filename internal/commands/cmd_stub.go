package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/csheth/tdamcheck/internal/llm"
	"github.com/csheth/tdamcheck/internal/logging"
	"github.com/csheth/tdamcheck/internal/stubserver"
)

const reviewerRules = "rules"

type StubCmd struct {
	flags *Flags

	addr  string
	delay time.Duration

	reviewer    string
	model       string
	llmEndpoint string
}

// NewStubCmd creates the stub service command
func NewStubCmd(flags *Flags) *StubCmd {
	return &StubCmd{flags: flags}
}

// Register adds the stub command to the application
func (cmd *StubCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "stub",
		Usage: "Run a local stand-in for the compliance service",
		Description: `Serves POST /upload with the same contract as the compliance service.
Reviews come from fixed rules by default. Pass --reviewer ollama or
--reviewer openai to have a language model comment on each chunk instead.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       stubserver.DefaultAddr,
				Destination: &cmd.addr,
			},
			&cli.DurationFlag{
				Name:        "delay",
				Usage:       "artificial latency added to each review",
				Value:       3 * time.Second,
				Destination: &cmd.delay,
			},
			&cli.StringFlag{
				Name:        "reviewer",
				Usage:       "rules, ollama or openai",
				Value:       reviewerRules,
				Sources:     cli.EnvVars("TDAM_STUB_REVIEWER"),
				Destination: &cmd.reviewer,
			},
			&cli.StringFlag{
				Name:        "model",
				Usage:       "model name for the LLM reviewer (defaults to OLLAMA_MODEL or OPENAI_MODEL)",
				Destination: &cmd.model,
			},
			&cli.StringFlag{
				Name:        "llm-endpoint",
				Usage:       "base URL of the LLM API (defaults to OLLAMA_HOST or OPENAI_BASE_URL)",
				Destination: &cmd.llmEndpoint,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *StubCmd) run(ctx context.Context, _ *cli.Command) error {
	settings := cmd.flags.Settings()
	opts := stubserver.Options{
		FieldName: settings.FieldName,
		Delay:     cmd.delay,
	}
	if cmd.reviewer != "" && cmd.reviewer != reviewerRules {
		client, err := llm.NewFromEnv(llm.Config{
			Provider: cmd.reviewer,
			Model:    cmd.model,
			Endpoint: cmd.llmEndpoint,
		})
		if err != nil {
			return fmt.Errorf("stub reviewer: %w", err)
		}
		logger := logging.Component("stub")
		logger.Info().Str("reviewer", client.Name()).Msg("using model-backed reviews")
		opts.Reviewer = client
	}
	server := stubserver.New(opts)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cmd.addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
