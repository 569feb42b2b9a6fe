package trace

import (
	"time"

	"github.com/google/uuid"
)

// DefaultVersion is the record format version stamped on drafts that do
// not set one.
const DefaultVersion = "0.1.0"

// Context carries side-channel metadata merged into a draft during
// normalization. Context values never override fields the draft already
// sets: explicit draft values win.
type Context struct {
	VcsType     string
	Revision    string
	ToolName    string
	ToolVersion string
}

// now is swapped out by tests.
var now = time.Now

// Normalize fills the required-but-derivable fields of a draft document:
// a missing id becomes a fresh UUIDv4, a missing timestamp the current UTC
// instant (RFC3339, second precision), a missing version DefaultVersion.
// VCS and tool context attach only when the draft has no such block.
//
// The draft is not mutated; a shallow copy is returned. Normalize
// guarantees completeness of required keys, not correctness of values;
// the validator judges those.
func Normalize(draft map[string]any, ctx Context) (map[string]any, error) {
	doc := make(map[string]any, len(draft)+4)
	for k, v := range draft {
		doc[k] = v
	}

	if _, ok := doc["version"]; !ok {
		doc["version"] = DefaultVersion
	}
	if _, ok := doc["id"]; !ok {
		id, err := uuid.NewRandom()
		if err != nil {
			return nil, err
		}
		doc["id"] = id.String()
	}
	if _, ok := doc["timestamp"]; !ok {
		doc["timestamp"] = now().UTC().Truncate(time.Second).Format(time.RFC3339)
	}

	if _, ok := doc["vcs"]; !ok && ctx.VcsType != "" && ctx.Revision != "" {
		doc["vcs"] = map[string]any{
			"type":     ctx.VcsType,
			"revision": ctx.Revision,
		}
	}
	if _, ok := doc["tool"]; !ok && ctx.ToolName != "" {
		tool := map[string]any{"name": ctx.ToolName}
		if ctx.ToolVersion != "" {
			tool["version"] = ctx.ToolVersion
		}
		doc["tool"] = tool
	}

	return doc, nil
}
