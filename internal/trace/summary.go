package trace

import "sort"

// Summary aggregates a record by resolved contributor.
type Summary struct {
	Files         int                 `json:"files"`
	Conversations int                 `json:"conversations"`
	Ranges        int                 `json:"ranges"`
	Lines         int                 `json:"lines"`
	Contributors  []ContributorCredit `json:"contributors"`
}

// ContributorCredit is one contributor's share of a record.
type ContributorCredit struct {
	Type    ContributorType `json:"type"`
	ModelID string          `json:"model_id,omitempty"`
	Ranges  int             `json:"ranges"`
	Lines   int             `json:"lines"`
}

// Summarize aggregates range and line counts per resolved contributor.
// Ranges with no contributor at either level count as unknown. The record
// is assumed valid; degenerate ranges contribute zero lines.
func Summarize(rec *Record) *Summary {
	s := &Summary{Files: len(rec.Files)}
	credits := make(map[Contributor]*ContributorCredit)

	for _, file := range rec.Files {
		s.Conversations += len(file.Conversations)
		for _, conv := range file.Conversations {
			for _, rng := range conv.Ranges {
				who := ResolveContributor(conv.Contributor, rng.Contributor)
				key := Contributor{Type: ContributorUnknown}
				if who != nil {
					key = *who
				}
				credit, ok := credits[key]
				if !ok {
					credit = &ContributorCredit{Type: key.Type, ModelID: key.ModelID}
					credits[key] = credit
				}

				lines := rng.EndLine - rng.StartLine + 1
				if lines < 0 {
					lines = 0
				}
				credit.Ranges++
				credit.Lines += lines
				s.Ranges++
				s.Lines += lines
			}
		}
	}

	for _, credit := range credits {
		s.Contributors = append(s.Contributors, *credit)
	}
	sort.Slice(s.Contributors, func(i, j int) bool {
		if s.Contributors[i].Lines != s.Contributors[j].Lines {
			return s.Contributors[i].Lines > s.Contributors[j].Lines
		}
		if s.Contributors[i].Type != s.Contributors[j].Type {
			return s.Contributors[i].Type < s.Contributors[j].Type
		}
		return s.Contributors[i].ModelID < s.Contributors[j].ModelID
	})
	return s
}
