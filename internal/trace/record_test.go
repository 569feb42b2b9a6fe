package trace

import (
	"testing"
)

func TestResolveContributor(t *testing.T) {
	human := &Contributor{Type: ContributorHuman}
	ai := &Contributor{Type: ContributorAI, ModelID: "anthropic/claude-opus-4-5"}

	tests := []struct {
		name string
		conv *Contributor
		rng  *Contributor
		want *Contributor
	}{
		{"range override wins", human, ai, ai},
		{"conversation default applies", human, nil, human},
		{"range only", nil, ai, ai},
		{"neither", nil, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveContributor(tt.conv, tt.rng); got != tt.want {
				t.Errorf("ResolveContributor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeRecord(t *testing.T) {
	rec, err := DecodeRecord(validDoc())
	if err != nil {
		t.Fatalf("DecodeRecord() error: %v", err)
	}

	if rec.Version != "0.1.0" {
		t.Errorf("Version = %q", rec.Version)
	}
	if rec.Vcs == nil || rec.Vcs.Type != VcsGit || rec.Vcs.Revision != "abc123" {
		t.Errorf("Vcs = %+v", rec.Vcs)
	}
	if len(rec.Files) != 1 || rec.Files[0].Path != "src/app.ts" {
		t.Fatalf("Files = %+v", rec.Files)
	}
	conv := rec.Files[0].Conversations[0]
	if conv.Contributor == nil || conv.Contributor.Type != ContributorAI {
		t.Errorf("Contributor = %+v", conv.Contributor)
	}
	if len(conv.Ranges) != 1 || conv.Ranges[0].StartLine != 10 || conv.Ranges[0].EndLine != 35 {
		t.Errorf("Ranges = %+v", conv.Ranges)
	}
}

func TestSummarize(t *testing.T) {
	ai := &Contributor{Type: ContributorAI, ModelID: "anthropic/claude-opus-4-5"}
	human := &Contributor{Type: ContributorHuman}

	rec := &Record{
		Files: []FileEntry{
			{
				Path: "src/app.ts",
				Conversations: []ConversationEntry{
					{
						Contributor: ai,
						Ranges: []RangeEntry{
							// 26 lines for the AI, then a 2-line handoff.
							{StartLine: 10, EndLine: 35},
							{StartLine: 40, EndLine: 41, Contributor: human},
						},
					},
				},
			},
			{
				Path: "src/util.ts",
				Conversations: []ConversationEntry{
					{
						Ranges: []RangeEntry{
							{StartLine: 1, EndLine: 3}, // unattributed: 3 lines
						},
					},
				},
			},
		},
	}

	s := Summarize(rec)
	if s.Files != 2 || s.Conversations != 2 || s.Ranges != 3 || s.Lines != 31 {
		t.Fatalf("totals = %+v", s)
	}
	if len(s.Contributors) != 3 {
		t.Fatalf("Contributors = %+v, want 3 buckets", s.Contributors)
	}

	// Ordered by line count descending.
	first := s.Contributors[0]
	if first.Type != ContributorAI || first.ModelID != "anthropic/claude-opus-4-5" || first.Lines != 26 || first.Ranges != 1 {
		t.Errorf("Contributors[0] = %+v", first)
	}
	second := s.Contributors[1]
	if second.Type != ContributorUnknown || second.Lines != 3 {
		t.Errorf("Contributors[1] = %+v", second)
	}
	third := s.Contributors[2]
	if third.Type != ContributorHuman || third.Lines != 2 {
		t.Errorf("Contributors[2] = %+v", third)
	}
}
