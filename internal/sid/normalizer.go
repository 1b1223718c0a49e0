// Package sid canonicalizes student identifiers.
//
// Student identifiers have been issued with several lengths over the years.
// Shorter historical forms are the trailing digits of the current full form,
// so a short identifier is completed by borrowing the missing leading digits
// from a fixed prefix mask:
//
//	mask   = ["81", "01", "95", "000"]   (full prefix "810195000")
//	"123"        -> 810195123
//	"00123"      -> 810100123
//	"9500123"    -> 819500123
//	"810195123"  -> 810195123
package sid

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"latetrack/pkg/contracts/domain"
)

// maxWidth keeps canonical identifiers within int64.
const maxWidth = 18

var (
	// ErrInvalidIdentifierLength is returned when a raw identifier does not
	// have one of the accepted lengths.
	ErrInvalidIdentifierLength = errors.New("invalid identifier length")

	// ErrInvalidMask is returned for an unusable prefix mask.
	ErrInvalidMask = errors.New("invalid identifier mask")
)

// Normalizer maps raw identifiers onto the canonical identifier space.
// It is immutable and safe to share.
type Normalizer struct {
	mask     []string
	width    int
	prefixes map[int]string
	lengths  []int
}

// NewNormalizer builds the length → prefix table for the given mask segments,
// ordered from the oldest (leftmost) segment to the newest.
func NewNormalizer(mask []string) (*Normalizer, error) {
	if len(mask) == 0 {
		return nil, fmt.Errorf("%w: no segments", ErrInvalidMask)
	}
	for i, segment := range mask {
		if segment == "" || !isDigits(segment) {
			return nil, fmt.Errorf("%w: segment %d %q is not a digit string", ErrInvalidMask, i, segment)
		}
	}
	if strings.HasPrefix(mask[0], "0") {
		return nil, fmt.Errorf("%w: leading segment %q starts with 0", ErrInvalidMask, mask[0])
	}

	full := strings.Join(mask, "")
	if len(full) > maxWidth {
		return nil, fmt.Errorf("%w: %d digits exceeds %d", ErrInvalidMask, len(full), maxWidth)
	}

	n := &Normalizer{
		mask:     append([]string(nil), mask...),
		width:    len(full),
		prefixes: make(map[int]string, len(mask)),
	}

	suffix := 0
	for i := len(mask) - 1; i >= 0; i-- {
		suffix += len(mask[i])
		n.prefixes[suffix] = full[:len(full)-suffix]
		n.lengths = append(n.lengths, suffix)
	}
	sort.Ints(n.lengths)

	return n, nil
}

// Normalize returns the canonical identifier for raw. Surrounding whitespace
// is ignored, as is an all-zero fractional part left by spreadsheet number
// formatting ("9500123.0").
func (n *Normalizer) Normalize(raw string) (domain.StudentID, error) {
	digits := strings.TrimSpace(raw)
	if i := strings.IndexByte(digits, '.'); i >= 0 && strings.Trim(digits[i+1:], "0") == "" {
		digits = digits[:i]
	}

	prefix, ok := n.prefixes[len(digits)]
	if !ok || !isDigits(digits) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIdentifierLength, raw)
	}

	id, err := strconv.ParseInt(prefix+digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIdentifierLength, raw)
	}
	return domain.StudentID(id), nil
}

// AcceptedLengths returns the raw lengths Normalize accepts, shortest first.
func (n *Normalizer) AcceptedLengths() []int {
	return append([]int(nil), n.lengths...)
}

// Width is the number of digits in a canonical identifier.
func (n *Normalizer) Width() int {
	return n.width
}

// Mask returns a copy of the configured mask segments.
func (n *Normalizer) Mask() []string {
	return append([]string(nil), n.mask...)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
