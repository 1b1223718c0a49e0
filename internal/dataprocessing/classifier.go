package dataprocessing

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"latetrack/internal/sid"
	"latetrack/pkg/contracts/domain"
)

// OutcomeKind tells what the classifier did with a row.
type OutcomeKind int

const (
	// Classified rows carry an Entry.
	Classified OutcomeKind = iota
	// Unclassified rows exceeded no tier threshold; they are on time.
	Unclassified
	// Skipped rows had an unusable identifier, lateness or score.
	Skipped
)

// String returns the metric label of the outcome.
func (k OutcomeKind) String() string {
	switch k {
	case Classified:
		return "classified"
	case Unclassified:
		return "unclassified"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Entry is a classified submission.
type Entry struct {
	Tier     string
	SID      domain.StudentID
	Score    domain.Score
	Lateness float64
}

// Outcome is the result of classifying one row. Entry is set only for
// Classified outcomes and Err only for Skipped ones.
type Outcome struct {
	Kind  OutcomeKind
	Entry Entry
	Err   error
}

// Columns are the resolved column indexes of a dataset. Score is -1 when the
// dataset has no score column.
type Columns struct {
	SID   int
	Late  int
	Score int
}

// BindColumns resolves the descriptor's configured fields against the table
// header. All missing columns are reported together.
func BindColumns(t *Table, d domain.DatasetDescriptor) (Columns, error) {
	cols := Columns{Score: -1}
	var errs []error
	var err error

	if cols.SID, err = t.Column(d.SIDField); err != nil {
		errs = append(errs, err)
	}
	if cols.Late, err = t.Column(d.LateField); err != nil {
		errs = append(errs, err)
	}
	if d.OriginalScoreField != "" {
		if cols.Score, err = t.Column(d.OriginalScoreField); err != nil {
			errs = append(errs, err)
		}
	}

	return cols, errors.Join(errs...)
}

var errNotFinite = errors.New("not a finite number")

// Classifier assigns rows of one dataset to lateness tiers.
type Classifier struct {
	normalizer *sid.Normalizer
	columns    Columns
	tiers      []domain.Tier
	lateField  string
	scoreField string
}

// NewClassifier creates a classifier for one dataset. Tiers are checked in
// the given order.
func NewClassifier(normalizer *sid.Normalizer, d domain.DatasetDescriptor, columns Columns, tiers []domain.Tier) *Classifier {
	return &Classifier{
		normalizer: normalizer,
		columns:    columns,
		tiers:      append([]domain.Tier(nil), tiers...),
		lateField:  d.LateField,
		scoreField: d.OriginalScoreField,
	}
}

// Classify assigns row to the first tier whose threshold its lateness
// strictly exceeds.
func (c *Classifier) Classify(row Row) Outcome {
	id, err := c.normalizer.Normalize(row.Get(c.columns.SID))
	if err != nil {
		return Outcome{Kind: Skipped, Err: err}
	}

	late, err := ParseNumber(c.lateField, row.Get(c.columns.Late))
	if err != nil {
		return Outcome{Kind: Skipped, Err: err}
	}

	var score domain.Score
	if c.columns.Score >= 0 {
		v, err := ParseNumber(c.scoreField, row.Get(c.columns.Score))
		if err != nil {
			return Outcome{Kind: Skipped, Err: err}
		}
		score = domain.ScoreOf(v)
	}

	for _, tier := range c.tiers {
		if late > tier.Threshold {
			return Outcome{
				Kind:  Classified,
				Entry: Entry{Tier: tier.Name, SID: id, Score: score, Lateness: late},
			}
		}
	}
	return Outcome{Kind: Unclassified}
}

// ParseNumber parses a lateness or score cell. An empty cell reads as 0 and
// a trailing percent sign is dropped without rescaling ("110%" is 110).
func ParseNumber(field, value string) (float64, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, nil
	}
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &FieldParseError{Field: field, Value: value, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &FieldParseError{Field: field, Value: value, Err: errNotFinite}
	}
	return v, nil
}
