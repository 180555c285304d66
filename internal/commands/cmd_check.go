package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/csheth/tdamcheck/internal/compliance"
	"github.com/csheth/tdamcheck/internal/document"
	"github.com/csheth/tdamcheck/internal/render"
)

const defaultCheckWidth = 100

type CheckCmd struct {
	flags *Flags
	out   io.Writer

	asJSON bool
	width  int
}

// NewCheckCmd creates the headless upload command. Output goes to out.
func NewCheckCmd(flags *Flags, out io.Writer) *CheckCmd {
	if out == nil {
		out = os.Stdout
	}
	return &CheckCmd{flags: flags, out: out}
}

// Register adds the check command to the application
func (cmd *CheckCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "check",
		Usage:     "Upload a document and print the review",
		UsageText: "tdamcheck check [options] FILE",
		Description: `Uploads FILE to the compliance service and prints every returned chunk
next to its generated comment, with flagged passages highlighted.

Use --json to print the decoded chunks instead.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the decoded response as JSON",
				Destination: &cmd.asJSON,
			},
			&cli.IntFlag{
				Name:        "width",
				Aliases:     []string{"w"},
				Usage:       "panel width (defaults to the terminal width)",
				Destination: &cmd.width,
			},
		},
		Action: cmd.run,
	})
	return app
}

type checkReport struct {
	RequestID string             `json:"request_id"`
	File      string             `json:"file"`
	Duration  string             `json:"duration"`
	Chunks    []compliance.Chunk `json:"chunks"`
}

func (cmd *CheckCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one FILE argument")
	}
	path := c.Args().First()

	info, err := document.Inspect(path)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", path, err)
	}
	if !info.Supported() {
		log.Warn().Str("file", path).Msg("file type is not one the service extracts")
	}

	settings := cmd.flags.Settings()
	client, err := compliance.New(compliance.Config{
		Endpoint:  settings.Endpoint,
		FieldName: settings.FieldName,
		Timeout:   settings.Timeout,
	})
	if err != nil {
		return err
	}

	result, err := client.UploadFile(ctx, compliance.NewRequestID(), path)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("upload failed")
		return fmt.Errorf("%s: %w", compliance.UserMessage(err), err)
	}

	if cmd.asJSON {
		enc := json.NewEncoder(cmd.out)
		enc.SetIndent("", "  ")
		return enc.Encode(checkReport{
			RequestID: result.RequestID,
			File:      filepath.Base(path),
			Duration:  result.Duration.String(),
			Chunks:    result.Chunks,
		})
	}

	width, tty := cmd.outputWidth()
	renderer := render.New(render.Options{
		Width:        width,
		DefaultColor: settings.Highlight.DefaultColor,
		FromAnchors:  settings.Highlight.FromAnchors,
		Plain:        !tty,
	})
	if len(result.Chunks) == 0 {
		_, err := fmt.Fprintln(cmd.out, "The service returned no chunks for this document.")
		return err
	}
	_, err = fmt.Fprintln(cmd.out, renderer.Chunks(result.Chunks))
	return err
}

// outputWidth prefers --width, then the terminal size, then a fixed default.
func (cmd *CheckCmd) outputWidth() (int, bool) {
	f, ok := cmd.out.(*os.File)
	tty := ok && term.IsTerminal(int(f.Fd()))
	if cmd.width > 0 {
		return cmd.width, tty
	}
	if tty {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w, true
		}
	}
	return defaultCheckWidth, tty
}
