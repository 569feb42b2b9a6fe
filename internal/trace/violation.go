package trace

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Stable violation codes produced outside the schema walker. Codes emitted
// by the walker derive from the offending field, e.g. "ranges.required",
// "files.invalid_type", "contributor.unknown_type".
const (
	CodeUnparseable      = "document.unparseable"
	CodeInvalidUUID      = "id.invalid_uuid"
	CodeInvalidTimestamp = "timestamp.invalid_format"
	CodeEndBeforeStart   = "range.end_before_start"
)

// Violation is one reported deviation from the active schema or a
// cross-field rule. Path is a JSON-pointer-style location; Code is a
// machine-stable short identifier; Message is for humans.
type Violation struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// String renders the violation as a single report line.
func (v Violation) String() string {
	path := v.Path
	if path == "" {
		path = "/"
	}
	return fmt.Sprintf("%s: %s: %s", path, v.Code, v.Message)
}

// Violations is an ordered collection of violations. An empty collection
// means the document is valid.
type Violations []Violation

// Error summarizes the first few violations.
func (vs Violations) Error() string {
	if len(vs) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(vs), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		path := vs[i].Path
		if path == "" {
			path = "/"
		}
		fmt.Fprintf(b, "%s at %s", vs[i].Code, path)
	}
	if len(vs) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(vs))
	}
	return b.String()
}

// fieldRank orders sibling fields the way a reader encounters them in a
// record, so reports follow document order rather than schema-definition
// order. Unknown fields sort after known ones, alphabetically.
var fieldRank = map[string]int{
	"version":   0,
	"id":        1,
	"timestamp": 2,
	"vcs":       3,
	"tool":      4,
	"metadata":  5,
	"files":     6,

	"path":          10,
	"url":           11,
	"contributor":   12,
	"ranges":        13,
	"related":       14,
	"conversations": 15,

	"start_line":   20,
	"end_line":     21,
	"content_hash": 22,
	"type":         23,
	"revision":     24,
	"name":         25,
	"model_id":     26,
}

const unknownFieldRank = 90

func rankOf(segment string) int {
	if r, ok := fieldRank[segment]; ok {
		return r
	}
	return unknownFieldRank
}

// splitPointer splits a JSON-pointer path into segments; the root path
// has none.
func splitPointer(p string) []string {
	if p == "" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(p, "/"), "/")
}

// pathLess orders two JSON-pointer paths in document order: array indices
// numerically, object fields by record layout, parents before children.
func pathLess(a, b string) bool {
	as := splitPointer(a)
	bs := splitPointer(b)
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] == bs[i] {
			continue
		}
		ai, aErr := strconv.Atoi(as[i])
		bi, bErr := strconv.Atoi(bs[i])
		if aErr == nil && bErr == nil {
			return ai < bi
		}
		ra, rb := rankOf(as[i]), rankOf(bs[i])
		if ra != rb {
			return ra < rb
		}
		return as[i] < bs[i]
	}
	return len(as) < len(bs)
}

// sortViolations orders violations in document order, keeping the emission
// order stable for violations at the same location.
func sortViolations(vs Violations) {
	sort.SliceStable(vs, func(i, j int) bool {
		return pathLess(vs[i].Path, vs[j].Path)
	})
}

// fieldName returns the nearest named segment of a path, skipping array
// indices, or "document" for the root.
func fieldName(path string) string {
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] == "" {
			continue
		}
		if _, err := strconv.Atoi(segments[i]); err != nil {
			return segments[i]
		}
	}
	return "document"
}
