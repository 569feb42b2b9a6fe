package trace

import (
	_ "embed"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

//go:embed schema.json
var defaultSchemaJSON []byte

// Schema is a minimal JSON Schema subset: enough to express the structural
// contract of a trace record (types, required keys, enums, array shapes)
// while staying swappable via --schema. Constraints the subset cannot
// express live in the cross-field pass instead.
type Schema struct {
	Type       string             `json:"type,omitempty"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	Enum       []any              `json:"enum,omitempty"`
	Minimum    *float64           `json:"minimum,omitempty"`
	MinItems   *int               `json:"minItems,omitempty"`
}

// schemaTypes lists the type names the interpreter understands.
var schemaTypes = map[string]bool{
	"":        true, // unconstrained
	"object":  true,
	"array":   true,
	"string":  true,
	"integer": true,
	"number":  true,
	"boolean": true,
	"null":    true,
}

var defaultSchema = mustParseSchema(defaultSchemaJSON)

// DefaultSchema returns the bundled structural contract for trace records.
func DefaultSchema() *Schema {
	return defaultSchema
}

// ParseSchema parses and sanity-checks a schema document. The returned
// schema is treated as a pure input and never mutated.
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("invalid schema document: %w", err)
	}
	if err := checkSchema(&s, "/"); err != nil {
		return nil, err
	}
	return &s, nil
}

func mustParseSchema(data []byte) *Schema {
	s, err := ParseSchema(data)
	if err != nil {
		panic("trace: bundled schema is invalid: " + err.Error())
	}
	return s
}

// checkSchema rejects schema documents the interpreter cannot honor, so a
// broken profile surfaces as a SchemaError instead of silently validating
// nothing.
func checkSchema(s *Schema, at string) error {
	if s == nil {
		return nil
	}
	if !schemaTypes[s.Type] {
		return fmt.Errorf("unsupported type %q at %s", s.Type, at)
	}
	if s.Items != nil {
		if err := checkSchema(s.Items, at+"items/"); err != nil {
			return err
		}
	}
	for name, prop := range s.Properties {
		if err := checkSchema(prop, at+name+"/"); err != nil {
			return err
		}
	}
	return nil
}

// checkStructure walks the document against the schema, appending one
// violation per structural failure. Traversal order is deterministic:
// required keys first, then present scalar fields, then nested containers,
// arrays in index order.
func checkStructure(s *Schema, v any, path string, out *Violations) {
	if s == nil {
		return
	}

	if s.Type != "" && !matchesType(s.Type, v) {
		*out = append(*out, Violation{
			Path:    path,
			Code:    fieldName(path) + ".invalid_type",
			Message: fmt.Sprintf("expected %s, got %s", s.Type, typeName(v)),
		})
		return
	}

	if len(s.Enum) > 0 {
		checkEnum(s, v, path, out)
	}
	if s.Minimum != nil {
		if n, ok := numberValue(v); ok && n < *s.Minimum {
			*out = append(*out, Violation{
				Path:    path,
				Code:    fieldName(path) + ".too_small",
				Message: fmt.Sprintf("must be at least %v, got %v", *s.Minimum, v),
			})
		}
	}

	switch val := v.(type) {
	case map[string]any:
		for _, key := range s.Required {
			if _, ok := val[key]; !ok {
				*out = append(*out, Violation{
					Path:    path,
					Code:    key + ".required",
					Message: fmt.Sprintf("missing required key %q", key),
				})
			}
		}
		for _, name := range orderedProperties(s) {
			child, ok := val[name]
			if !ok {
				continue
			}
			checkStructure(s.Properties[name], child, path+"/"+name, out)
		}
	case []any:
		if s.MinItems != nil && len(val) < *s.MinItems {
			*out = append(*out, Violation{
				Path:    path,
				Code:    fieldName(path) + ".empty",
				Message: fmt.Sprintf("must contain at least %d item(s), got %d", *s.MinItems, len(val)),
			})
		}
		if s.Items != nil {
			for i, item := range val {
				checkStructure(s.Items, item, path+"/"+strconv.Itoa(i), out)
			}
		}
	}
}

// checkEnum reports a value outside the accepted set. Enum fields named
// "type" get a dedicated message so an unknown vcs or contributor type
// reads differently from a missing one.
func checkEnum(s *Schema, v any, path string, out *Violations) {
	for _, allowed := range s.Enum {
		if v == allowed {
			return
		}
	}
	accepted := make([]string, len(s.Enum))
	for i, allowed := range s.Enum {
		accepted[i] = fmt.Sprintf("%v", allowed)
	}

	name := fieldName(path)
	code := name + ".invalid_enum"
	msg := fmt.Sprintf("invalid value %q: must be one of {%s}", v, strings.Join(accepted, ", "))
	if name == "type" {
		parent := fieldName(parentPath(path))
		code = parent + ".unknown_type"
		msg = fmt.Sprintf("unknown %s type %q: must be one of {%s}", parent, v, strings.Join(accepted, ", "))
	}
	*out = append(*out, Violation{Path: path, Code: code, Message: msg})
}

// orderedProperties returns property names with scalar fields before
// nested objects and arrays, alphabetical within each group. This keeps
// reports in the order a reader scans the document.
func orderedProperties(s *Schema) []string {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	group := func(name string) int {
		switch s.Properties[name].Type {
		case "array":
			return 2
		case "object":
			return 1
		default:
			return 0
		}
	}
	sort.Slice(names, func(i, j int) bool {
		gi, gj := group(names[i]), group(names[j])
		if gi != gj {
			return gi < gj
		}
		return names[i] < names[j]
	})
	return names
}

func parentPath(path string) string {
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[:idx]
	}
	return ""
}

// matchesType reports whether v is an instance of the named schema type.
func matchesType(typ string, v any) bool {
	switch typ {
	case "object":
		_, ok := v.(map[string]any)
		return ok
	case "array":
		_, ok := v.([]any)
		return ok
	case "string":
		_, ok := v.(string)
		return ok
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "null":
		return v == nil
	case "number":
		_, ok := numberValue(v)
		return ok
	case "integer":
		n, ok := numberValue(v)
		return ok && n == math.Trunc(n)
	default:
		return true
	}
}

// numberValue unifies the numeric types produced by the JSON and YAML
// decoders.
func numberValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// typeName names v's type in schema vocabulary for error messages.
func typeName(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		if n, ok := numberValue(v); ok {
			if n == math.Trunc(n) {
				return "integer"
			}
			return "number"
		}
		return fmt.Sprintf("%T", v)
	}
}
