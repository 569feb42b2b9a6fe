package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/tracemap/internal/errors"
	"github.com/hpungsan/tracemap/internal/ops"
	"github.com/hpungsan/tracemap/internal/trace"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp() *cli.App {
	app := &cli.App{
		Name:    "tracemap",
		Usage:   "Validate and normalize source-code provenance trace records",
		Version: Version,
		Commands: []*cli.Command{
			createCmd(os.Stderr),
			validateCmd(os.Stderr),
		},
	}
	// The default handler calls os.Exit; tests need the error back instead.
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// createCmd creates the create command.
func createCmd(errOut io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Normalize a draft, validate it, and write the finished record",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, Usage: "Draft document path (JSON, or YAML by extension)"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: "Output record path (written only on success)"},
			&cli.StringFlag{Name: "vcs-type", Usage: "VCS type: git|jj|hg|svn"},
			&cli.StringFlag{Name: "revision", Usage: "VCS revision the line numbers refer to"},
			&cli.StringFlag{Name: "tool-name", Usage: "Name of the record-producing tool"},
			&cli.StringFlag{Name: "tool-version", Usage: "Version of the record-producing tool"},
			&cli.StringFlag{Name: "schema", Usage: "Schema profile path (default: bundled schema)"},
			&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print the written record"},
		},
		Action: func(c *cli.Context) error {
			_, violations, err := ops.Create(ops.CreateInput{
				InputPath:   c.String("input"),
				OutputPath:  c.String("output"),
				VcsType:     c.String("vcs-type"),
				Revision:    c.String("revision"),
				ToolName:    c.String("tool-name"),
				ToolVersion: c.String("tool-version"),
				SchemaPath:  c.String("schema"),
				Pretty:      c.Bool("pretty"),
			})
			if err != nil {
				return outputError(err)
			}
			if len(violations) > 0 {
				return outputViolations(errOut, violations)
			}
			// Success prints nothing; the record is in the output file.
			return nil
		},
	}
}

// validateCmd creates the validate command.
func validateCmd(errOut io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Check a record against the active schema (read-only)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, Usage: "Record or draft path to validate"},
			&cli.StringFlag{Name: "schema", Usage: "Schema profile path (default: bundled schema)"},
		},
		Action: func(c *cli.Context) error {
			violations, err := ops.Validate(ops.ValidateInput{
				InputPath:  c.String("input"),
				SchemaPath: c.String("schema"),
			})
			if err != nil {
				return outputError(err)
			}
			if len(violations) > 0 {
				return outputViolations(errOut, violations)
			}
			return nil
		},
	}
}

// Helper functions

// outputViolations prints each violation on its own line (path, code,
// message) and returns a non-zero exit.
func outputViolations(w io.Writer, violations trace.Violations) error {
	for _, v := range violations {
		fmt.Fprintln(w, v.String())
	}
	return cli.Exit(fmt.Sprintf("%d violation(s)", len(violations)), 1)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if tErr, ok := err.(*errors.TraceError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", tErr.Code, tErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
