package domain

import (
	"encoding/json"
	"sort"
	"strconv"
)

// StudentID is a canonical, fixed-width student identifier.
type StudentID int64

// String returns the decimal form of the identifier.
func (id StudentID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// MarshalText lets StudentID be used as a JSON object key.
func (id StudentID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText parses the decimal form of the identifier.
func (id *StudentID) UnmarshalText(text []byte) error {
	v, err := strconv.ParseInt(string(text), 10, 64)
	if err != nil {
		return err
	}
	*id = StudentID(v)
	return nil
}

// Score is a submission's original score. Valid is false when the dataset
// has no score column and the entry only records presence.
type Score struct {
	Value float64
	Valid bool
}

// ScoreOf returns a valid score.
func ScoreOf(v float64) Score {
	return Score{Value: v, Valid: true}
}

// MarshalJSON encodes a presence-only score as null.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// UnmarshalJSON accepts a number or null.
func (s *Score) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Score{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = ScoreOf(v)
	return nil
}

// TierEntries maps a student to the score recorded for one project tier.
type TierEntries map[StudentID]Score

// ByProject is the project-indexed aggregate: project → tier → SID → score.
type ByProject map[string]map[string]TierEntries

// BySID is the student-indexed aggregate: SID → tier → project → score.
type BySID map[StudentID]map[string]map[string]Score

// NameMap maps canonical identifiers to display names.
type NameMap map[StudentID]string

// Quad is one classified submission, independent of the index it came from.
type Quad struct {
	Project string
	Tier    string
	SID     StudentID
	Score   Score
}

// Quads flattens the aggregate into a deterministic, sorted list.
func (p ByProject) Quads() []Quad {
	var quads []Quad
	for project, tiers := range p {
		for tier, entries := range tiers {
			for sid, score := range entries {
				quads = append(quads, Quad{Project: project, Tier: tier, SID: sid, Score: score})
			}
		}
	}
	sortQuads(quads)
	return quads
}

// Quads flattens the aggregate into a deterministic, sorted list.
func (s BySID) Quads() []Quad {
	var quads []Quad
	for sid, tiers := range s {
		for tier, projects := range tiers {
			for project, score := range projects {
				quads = append(quads, Quad{Project: project, Tier: tier, SID: sid, Score: score})
			}
		}
	}
	sortQuads(quads)
	return quads
}

// Projects returns the project names in sorted order.
func (p ByProject) Projects() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SIDs returns the identifiers in ascending order.
func (s BySID) SIDs() []StudentID {
	ids := make([]StudentID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortQuads(quads []Quad) {
	sort.Slice(quads, func(i, j int) bool {
		a, b := quads[i], quads[j]
		if a.Project != b.Project {
			return a.Project < b.Project
		}
		if a.Tier != b.Tier {
			return a.Tier < b.Tier
		}
		return a.SID < b.SID
	})
}
