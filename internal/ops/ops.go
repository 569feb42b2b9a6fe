package ops

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/hpungsan/tracemap/internal/errors"
	"github.com/hpungsan/tracemap/internal/trace"
)

// readDocument reads and parses a draft or record file. Drafts may be
// written as JSON or, by extension (.yaml/.yml), as YAML; records are
// always emitted as JSON. An I/O failure is an InputError; text that is
// not structured data at all comes back as a document.unparseable
// violation instead of an error.
func readDocument(path string) (any, trace.Violations, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.NewInput(path, err)
	}

	parse := trace.ParseDocument
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parse = trace.ParseYAMLDocument
	}

	doc, err := parse(data)
	if err != nil {
		return nil, trace.UnparseableViolations(err), nil
	}
	return doc, nil, nil
}

// LoadSchema loads the active schema: the bundled default when path is
// empty, otherwise the given profile. Any failure is a SchemaError so
// operators fix the schema file, not the record.
func LoadSchema(path string) (*trace.Schema, error) {
	if path == "" {
		return trace.DefaultSchema(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewSchema(path, err)
	}
	schema, err := trace.ParseSchema(data)
	if err != nil {
		return nil, errors.NewSchema(path, err)
	}
	return schema, nil
}

// WriteRecord serializes a validated record to path. The write goes to a
// temp file first and is renamed into place, so a failure preserves any
// existing file.
func WriteRecord(path string, rec *trace.Record, pretty bool) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(rec, "", "  ")
	} else {
		data, err = json.Marshal(rec)
	}
	if err != nil {
		return errors.NewInternal(err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create output directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"

	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to write output file: %w", err))
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.NewInternal(fmt.Errorf("failed to finalize output file: %w", err))
	}
	return nil
}
