package alignment

import (
	"iter"

	"github.com/matzehuels/msaview/pkg/errors"
)

// Special bytes recognised in sequence bodies.
const (
	Gap       byte = '-' // gap, never votes and fills empty consensus columns
	Space     byte = ' ' // padding, never votes
	TieMarker byte = '+' // consensus byte for columns with a tied top count
)

// ConsensusLabel is the label of the synthetic row 0.
const ConsensusLabel = "Consensus"

// Sequence is one row of an alignment.
type Sequence struct {
	Label    []byte // Header text without the leading '>'
	Residues []byte // Aligned residues, gaps included
	Dummy    bool   // Synthetic row (the consensus)
}

// Alignment is a parsed MSA with its consensus row at index 0.
//
// The zero value is not usable. Use [Parse] or [ParseReader].
type Alignment struct {
	rows   []Sequence
	scores []float32
	glyphs [256]int

	maxSequenceLength int
	maxLabelLength    int
	totalLabelLength  int
}

// SequenceCount returns the number of rows including the consensus row.
func (a *Alignment) SequenceCount() int { return len(a.rows) }

// RealCount returns the number of rows excluding the consensus row.
func (a *Alignment) RealCount() int { return len(a.rows) - 1 }

// MaxSequenceLength returns the longest real row length.
func (a *Alignment) MaxSequenceLength() int { return a.maxSequenceLength }

// MaxLabelLength returns the longest real row label, in bytes.
func (a *Alignment) MaxLabelLength() int { return a.maxLabelLength }

// TotalLabelLength returns the summed label length of all real rows.
func (a *Alignment) TotalLabelLength() int { return a.totalLabelLength }

// GlyphCounts returns how often each byte occurs across the real rows as
// they were parsed. Rows added later through AddOrReplaceSequence are not
// counted.
func (a *Alignment) GlyphCounts() [256]int { return a.glyphs }

// Sequence returns row i. The returned slices alias internal storage and
// must not be modified.
func (a *Alignment) Sequence(i int) (Sequence, error) {
	if i < 0 || i >= len(a.rows) {
		return Sequence{}, errors.New(errors.ErrCodeOutOfRange, "sequence index %d out of range [0,%d)", i, len(a.rows))
	}
	return a.rows[i], nil
}

// Label returns the label bytes of row i.
func (a *Alignment) Label(i int) ([]byte, error) {
	s, err := a.Sequence(i)
	if err != nil {
		return nil, err
	}
	return s.Label, nil
}

// LabelString returns the label of row i as a string.
func (a *Alignment) LabelString(i int) (string, error) {
	l, err := a.Label(i)
	if err != nil {
		return "", err
	}
	return string(l), nil
}

// Consensus returns the consensus row.
func (a *Alignment) Consensus() Sequence { return a.rows[0] }

// ConsensusScore returns the consensus confidence of column col in [0,1].
func (a *Alignment) ConsensusScore(col int) (float32, error) {
	if col < 0 || col >= len(a.scores) {
		return 0, errors.New(errors.ErrCodeOutOfRange, "consensus column %d out of range [0,%d)", col, len(a.scores))
	}
	return a.scores[col], nil
}

// Sequences iterates over the real rows with their row index.
func (a *Alignment) Sequences() iter.Seq2[int, Sequence] {
	return func(yield func(int, Sequence) bool) {
		for i := 1; i < len(a.rows); i++ {
			if !yield(i, a.rows[i]) {
				return
			}
		}
	}
}

// AddOrReplaceSequence appends s when i equals SequenceCount and replaces
// row i when it is smaller. Length and label statistics are recomputed over
// the real rows. The consensus row only changes when i is 0.
func (a *Alignment) AddOrReplaceSequence(i int, s Sequence) error {
	switch {
	case i < 0 || i > len(a.rows):
		return errors.New(errors.ErrCodeOutOfRange, "sequence index %d out of range [0,%d]", i, len(a.rows))
	case i == len(a.rows):
		a.rows = append(a.rows, s)
	default:
		a.rows[i] = s
	}
	a.updateStats()
	return nil
}

func (a *Alignment) updateStats() {
	a.maxSequenceLength, a.maxLabelLength, a.totalLabelLength = 0, 0, 0
	for _, s := range a.rows[1:] {
		a.maxSequenceLength = max(a.maxSequenceLength, len(s.Residues))
		a.maxLabelLength = max(a.maxLabelLength, len(s.Label))
		a.totalLabelLength += len(s.Label)
	}
}
