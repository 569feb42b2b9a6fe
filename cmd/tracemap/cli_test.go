package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
)

// newTestApp builds the CLI app with violation output captured.
func newTestApp(errOut io.Writer) *cli.App {
	app := &cli.App{
		Name: "tracemap",
		Commands: []*cli.Command{
			createCmd(errOut),
			validateCmd(errOut),
		},
	}
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const draftJSON = `{
  "files": [
    {
      "path": "src/app.ts",
      "conversations": [
        {
          "contributor": {"type": "ai", "model_id": "anthropic/claude-opus-4-5"},
          "ranges": [{"start_line": 10, "end_line": 35}]
        }
      ]
    }
  ]
}`

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	coder, ok := err.(cli.ExitCoder)
	if !ok {
		t.Fatalf("error is %T, want cli.ExitCoder: %v", err, err)
	}
	return coder.ExitCode()
}

func TestCreateCommand(t *testing.T) {
	input := writeFile(t, "draft.json", draftJSON)
	output := filepath.Join(t.TempDir(), "record.json")

	var errOut bytes.Buffer
	app := newTestApp(&errOut)

	err := app.Run([]string{"tracemap", "create",
		"-i", input, "-o", output,
		"--vcs-type", "git", "--revision", "abc123",
	})
	if err != nil {
		t.Fatalf("create failed: %v\n%s", err, errOut.String())
	}
	if errOut.Len() != 0 {
		t.Errorf("create printed on success: %q", errOut.String())
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("output record missing: %v", err)
	}

	// The record the command wrote must pass a standalone validate run.
	if err := app.Run([]string{"tracemap", "validate", "-i", output}); err != nil {
		t.Errorf("validate of created record failed: %v\n%s", err, errOut.String())
	}
}

func TestCreateCommandViolations(t *testing.T) {
	input := writeFile(t, "draft.json", `{
  "files": [
    {
      "path": "src/app.ts",
      "conversations": [
        {"ranges": [{"start_line": 35, "end_line": 10}]}
      ]
    }
  ]
}`)
	output := filepath.Join(t.TempDir(), "record.json")

	var errOut bytes.Buffer
	app := newTestApp(&errOut)

	err := app.Run([]string{"tracemap", "create", "-i", input, "-o", output})
	if code := exitCode(t, err); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut.String(), "range.end_before_start") {
		t.Errorf("violation output = %q", errOut.String())
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Error("output file exists after failed create")
	}
}

func TestValidateCommand(t *testing.T) {
	input := writeFile(t, "record.json", `{
  "version": "0.1.0",
  "id": "4b2b1ca9-8b7f-4a6e-9b3d-2f1a5c8d9e0f",
  "timestamp": "2026-08-24T10:15:30Z",
  "files": [{"path": "main.go", "conversations": []}]
}`)

	var errOut bytes.Buffer
	app := newTestApp(&errOut)

	if err := app.Run([]string{"tracemap", "validate", "-i", input}); err != nil {
		t.Errorf("validate failed: %v\n%s", err, errOut.String())
	}
}

func TestValidateCommandUnparseable(t *testing.T) {
	input := writeFile(t, "record.json", "just prose")

	var errOut bytes.Buffer
	app := newTestApp(&errOut)

	err := app.Run([]string{"tracemap", "validate", "-i", input})
	if code := exitCode(t, err); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut.String(), "document.unparseable") {
		t.Errorf("violation output = %q", errOut.String())
	}
}

func TestCreateCommandMissingInput(t *testing.T) {
	var errOut bytes.Buffer
	app := newTestApp(&errOut)

	err := app.Run([]string{"tracemap", "create",
		"-i", filepath.Join(t.TempDir(), "nope.json"),
		"-o", filepath.Join(t.TempDir(), "record.json"),
	})
	if code := exitCode(t, err); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(err.Error(), "[INPUT_ERROR]") {
		t.Errorf("error = %q, want INPUT_ERROR tag", err.Error())
	}
}

func TestIsCLIMode(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"no args", []string{"tracemap"}, false},
		{"create", []string{"tracemap", "create"}, true},
		{"validate", []string{"tracemap", "validate"}, true},
		{"help flag", []string{"tracemap", "--help"}, true},
		{"version flag", []string{"tracemap", "-v"}, true},
		{"unknown", []string{"tracemap", "bogus"}, false},
	}

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			if got := isCLIMode(); got != tt.want {
				t.Errorf("isCLIMode() = %v, want %v", got, tt.want)
			}
		})
	}
}
