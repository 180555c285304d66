package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/csheth/tdamcheck/internal/tui"
)

type TuiCmd struct {
	flags *Flags

	noAltScreen bool
	dir         string
}

// NewTuiCmd creates the interactive command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{flags: flags}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "no-alt-screen",
			Usage:       "disable the alternate screen buffer",
			Destination: &cmd.noAltScreen,
		},
		&cli.StringFlag{
			Name:        "dir",
			Aliases:     []string{"d"},
			Usage:       "directory the file picker starts in (overrides picker.start_dir)",
			Destination: &cmd.dir,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	settings := cmd.flags.Settings()
	if cmd.dir != "" {
		settings.Picker.StartDir = cmd.dir
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if !cmd.noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	log.Debug().Str("endpoint", settings.Endpoint).Str("dir", settings.Picker.StartDir).Msg("starting tui")
	program := tea.NewProgram(tui.New(tui.Config{Settings: settings, Context: ctx}), opts...)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
