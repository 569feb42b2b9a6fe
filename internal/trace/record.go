package trace

import (
	json "github.com/goccy/go-json"
)

// VcsType identifies the version-control system a revision belongs to.
type VcsType string

const (
	VcsGit VcsType = "git"
	VcsJj  VcsType = "jj"
	VcsHg  VcsType = "hg"
	VcsSvn VcsType = "svn"
)

// VcsTypes lists the accepted vcs.type values in canonical order.
var VcsTypes = []string{string(VcsGit), string(VcsJj), string(VcsHg), string(VcsSvn)}

// ContributorType identifies the party credited for a range or conversation.
type ContributorType string

const (
	ContributorHuman   ContributorType = "human"
	ContributorAI      ContributorType = "ai"
	ContributorMixed   ContributorType = "mixed"
	ContributorUnknown ContributorType = "unknown"
)

// ContributorTypes lists the accepted contributor.type values in canonical order.
var ContributorTypes = []string{
	string(ContributorHuman), string(ContributorAI),
	string(ContributorMixed), string(ContributorUnknown),
}

// Record is a trace record: a snapshot mapping file line ranges, at one
// version-control revision, to the conversations and contributors
// responsible for them. Line numbers are 1-indexed and meaningful only
// relative to vcs.revision.
type Record struct {
	// Version is the record format version (semantic-version string).
	Version string `json:"version"`

	// ID is a UUID that uniquely identifies this record.
	ID string `json:"id"`

	// Timestamp is the creation instant, RFC3339 UTC with second precision.
	Timestamp string `json:"timestamp"`

	// Vcs identifies the revision the line numbers refer to.
	Vcs *VcsContext `json:"vcs,omitempty"`

	// Tool identifies the program that produced the record.
	Tool *ToolContext `json:"tool,omitempty"`

	// Files holds the attributed files in document order.
	Files []FileEntry `json:"files"`

	// Metadata is an open mapping; keys are conventionally namespaced in
	// reverse-domain form to avoid collisions.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// VcsContext pins a record to one revision. Both fields are present
// together or the whole object is absent.
type VcsContext struct {
	Type     VcsType `json:"type"`
	Revision string  `json:"revision"`
}

// ToolContext identifies the record-producing program.
type ToolContext struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// FileEntry attributes one repository-relative file.
type FileEntry struct {
	Path          string              `json:"path"`
	Conversations []ConversationEntry `json:"conversations"`
}

// ConversationEntry groups the ranges produced by one conversation.
// Ranges is a required key but may be an empty sequence.
type ConversationEntry struct {
	URL         string       `json:"url,omitempty"`
	Contributor *Contributor `json:"contributor,omitempty"`
	Ranges      []RangeEntry `json:"ranges"`
	Related     []Related    `json:"related,omitempty"`
}

// Related is an advisory cross-link to another resource.
type Related struct {
	Type string `json:"type,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Contributor credits a party for a range or conversation. ModelID is
// conventionally provider/model-name and is meaningful only for ai and
// mixed contributors (advisory, not schema-enforced).
type Contributor struct {
	Type    ContributorType `json:"type"`
	ModelID string          `json:"model_id,omitempty"`
}

// RangeEntry attributes a 1-indexed, inclusive line range. A range-level
// Contributor shadows the conversation-level one for this range only.
type RangeEntry struct {
	StartLine   int          `json:"start_line"`
	EndLine     int          `json:"end_line"`
	ContentHash string       `json:"content_hash,omitempty"`
	Contributor *Contributor `json:"contributor,omitempty"`
}

// ResolveContributor returns the contributor credited for a range:
// the range-level override when present, else the conversation-level
// default, else nil. Most specific wins; there are only two levels.
func ResolveContributor(conv, rng *Contributor) *Contributor {
	if rng != nil {
		return rng
	}
	return conv
}

// DecodeRecord converts a validated generic document into a typed Record.
// Marshaling the typed record back out yields the canonical field layout.
func DecodeRecord(doc map[string]any) (*Record, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
