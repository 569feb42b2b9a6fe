package trace

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Validate checks a candidate record against the active schema and the
// cross-field rules the schema cannot express, returning every violation
// in document order. An empty result means the record is valid.
//
// The two passes stay separate so the schema remains swappable while the
// cross-field rules hold across schema versions. Validate never tightens
// behavior beyond the active schema: rules a profile does not state (such
// as non-empty ranges) are not enforced here.
func Validate(doc any, schema *Schema) Violations {
	if schema == nil {
		schema = DefaultSchema()
	}

	var out Violations
	checkStructure(schema, doc, "", &out)
	if obj, ok := doc.(map[string]any); ok {
		checkRules(obj, &out)
	}
	sortViolations(out)
	return out
}

// checkRules is the cross-field pass: constraints between values that pure
// shape checking cannot see. Fields the structural pass already rejected
// (missing or mistyped) are skipped to avoid double-reporting.
func checkRules(doc map[string]any, out *Violations) {
	if id, ok := doc["id"].(string); ok {
		if _, err := uuid.Parse(id); err != nil {
			*out = append(*out, Violation{
				Path:    "/id",
				Code:    CodeInvalidUUID,
				Message: fmt.Sprintf("%q is not a valid UUID", id),
			})
		}
	}

	if ts, ok := doc["timestamp"].(string); ok {
		if _, err := time.Parse(time.RFC3339, ts); err != nil {
			*out = append(*out, Violation{
				Path:    "/timestamp",
				Code:    CodeInvalidTimestamp,
				Message: fmt.Sprintf("%q is not a valid RFC3339 date-time", ts),
			})
		}
	}

	files, _ := doc["files"].([]any)
	for i, f := range files {
		file, ok := f.(map[string]any)
		if !ok {
			continue
		}
		conversations, _ := file["conversations"].([]any)
		for j, c := range conversations {
			conversation, ok := c.(map[string]any)
			if !ok {
				continue
			}
			ranges, _ := conversation["ranges"].([]any)
			for k, r := range ranges {
				rng, ok := r.(map[string]any)
				if !ok {
					continue
				}
				start, okStart := numberValue(rng["start_line"])
				end, okEnd := numberValue(rng["end_line"])
				if okStart && okEnd && end < start {
					path := "/files/" + strconv.Itoa(i) +
						"/conversations/" + strconv.Itoa(j) +
						"/ranges/" + strconv.Itoa(k)
					*out = append(*out, Violation{
						Path:    path,
						Code:    CodeEndBeforeStart,
						Message: fmt.Sprintf("end_line %v is before start_line %v", end, start),
					})
				}
			}
		}
	}
}
