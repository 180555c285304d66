package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

type ConfigCmd struct {
	flags *Flags
	out   io.Writer
}

// NewConfigCmd creates the config command
func NewConfigCmd(flags *Flags, out io.Writer) *ConfigCmd {
	if out == nil {
		out = os.Stdout
	}
	return &ConfigCmd{flags: flags, out: out}
}

// Register adds the config command to the application
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:   "config",
		Usage:  "Print the effective configuration as YAML",
		Action: cmd.run,
	})
	return app
}

func (cmd *ConfigCmd) run(_ context.Context, _ *cli.Command) error {
	settings := cmd.flags.Settings()
	if path := cmd.flags.ConfigPath; path != "" {
		if _, err := fmt.Fprintf(cmd.out, "# %s\n", path); err != nil {
			return err
		}
	}
	enc := yaml.NewEncoder(cmd.out)
	enc.SetIndent(2)
	if err := enc.Encode(settings); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
