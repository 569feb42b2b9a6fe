package trace

import (
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ParseDocument parses structured text into a generic document. A parse
// failure means the input is not structured data at all; callers report it
// as a single document.unparseable violation rather than an empty (and
// therefore "valid"-looking) violation list.
func ParseDocument(data []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseYAMLDocument parses a YAML draft into a generic document. Drafts
// written by hand are often YAML; records are always emitted as JSON.
func ParseYAMLDocument(data []byte) (any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// UnparseableViolations wraps a parse failure as the single violation the
// validator contract requires for inputs that are not structured data.
func UnparseableViolations(err error) Violations {
	msg := "input is not parseable as a structured document"
	if err != nil {
		msg = "input is not parseable as a structured document: " + err.Error()
	}
	return Violations{{Path: "", Code: CodeUnparseable, Message: msg}}
}
