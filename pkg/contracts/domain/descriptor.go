package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// DatasetDescriptor describes one per-project source table: where it lives,
// which columns carry the SID, lateness and score, and the per-tier
// lateness thresholds.
//
// Thresholds are written as flat numeric keys next to the other fields:
//
//	{"project_name": "P1", "file_name": "p1.csv", "late_field": "Late",
//	 "sid_field": "SID", "skip_rows": 0, "level2": 1.0, "level1": 1.1}
type DatasetDescriptor struct {
	ProjectName        string             `json:"project_name" yaml:"project_name" validate:"required"`
	FileName           string             `json:"file_name" yaml:"file_name" validate:"required"`
	Sheet              string             `json:"sheet,omitempty" yaml:"sheet,omitempty"`
	LateField          string             `json:"late_field" yaml:"late_field" validate:"required"`
	SIDField           string             `json:"sid_field" yaml:"sid_field" validate:"required"`
	OriginalScoreField string             `json:"original_score_field,omitempty" yaml:"original_score_field,omitempty"`
	SkipRows           int                `json:"skip_rows" yaml:"skip_rows" validate:"gte=0"`
	Thresholds         map[string]float64 `json:"-" yaml:"-" validate:"required,min=1"`
}

// descriptorFields are the keys that are never read as tier thresholds.
var descriptorFields = map[string]bool{
	"project_name":         true,
	"file_name":            true,
	"sheet":                true,
	"late_field":           true,
	"sid_field":            true,
	"original_score_field": true,
	"skip_rows":            true,
}

// IsDescriptorField reports whether key is a fixed descriptor field rather
// than a tier threshold.
func IsDescriptorField(key string) bool {
	return descriptorFields[key]
}

type descriptorAlias DatasetDescriptor

// UnmarshalJSON decodes the fixed fields and collects every other key as a
// tier threshold. Non-numeric extra keys are rejected.
func (d *DatasetDescriptor) UnmarshalJSON(data []byte) error {
	var base descriptorAlias
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	base.Thresholds = make(map[string]float64)
	for key, value := range raw {
		if IsDescriptorField(key) {
			continue
		}
		var threshold float64
		if err := json.Unmarshal(value, &threshold); err != nil {
			return fmt.Errorf("threshold %q is not a number: %w", key, err)
		}
		base.Thresholds[key] = threshold
	}

	*d = DatasetDescriptor(base)
	return nil
}

// MarshalJSON writes thresholds back as flat keys.
func (d DatasetDescriptor) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"project_name": d.ProjectName,
		"file_name":    d.FileName,
		"late_field":   d.LateField,
		"sid_field":    d.SIDField,
		"skip_rows":    d.SkipRows,
	}
	if d.Sheet != "" {
		out["sheet"] = d.Sheet
	}
	if d.OriginalScoreField != "" {
		out["original_score_field"] = d.OriginalScoreField
	}
	for tier, threshold := range d.Thresholds {
		out[tier] = threshold
	}
	return json.Marshal(out)
}

// Tiers returns the descriptor's thresholds arranged in the given check
// order. A tier missing from the descriptor is reported as an error.
func (d DatasetDescriptor) Tiers(order []string) ([]Tier, error) {
	tiers := make([]Tier, 0, len(order))
	var missing []string
	for _, name := range order {
		threshold, ok := d.Thresholds[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		tiers = append(tiers, Tier{Name: name, Threshold: threshold})
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("project %q has no threshold for tiers %v", d.ProjectName, missing)
	}
	return tiers, nil
}

// RosterDescriptor describes the table mapping SIDs to display names.
type RosterDescriptor struct {
	FileName  string `json:"file_name" yaml:"file_name" validate:"required"`
	Sheet     string `json:"sheet,omitempty" yaml:"sheet,omitempty"`
	SIDField  string `json:"sid_field" yaml:"sid_field" validate:"required"`
	NameField string `json:"name_field" yaml:"name_field" validate:"required"`
	SkipRows  int    `json:"skip_rows,omitempty" yaml:"skip_rows,omitempty" validate:"gte=0"`
}

// Tier is a named lateness bucket. A row belongs to the first tier, in
// check order, whose threshold its lateness strictly exceeds.
type Tier struct {
	Name      string  `json:"name"`
	Threshold float64 `json:"threshold"`
}
