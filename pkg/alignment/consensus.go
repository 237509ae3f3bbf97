package alignment

import "bytes"

// computeConsensus fills row 0 and the per-column scores from the real rows.
// Each column is counted with one fixed 256-entry counter, so the auxiliary
// memory is the output itself.
func (a *Alignment) computeConsensus() {
	n := a.maxSequenceLength
	cons := bytes.Repeat([]byte{Gap}, n)
	scores := make([]float32, n)
	voters := a.RealCount()

	var counts [256]int
	for x := 0; x < n; x++ {
		counts = [256]int{}
		for _, s := range a.rows[1:] {
			if x >= len(s.Residues) {
				continue
			}
			g := s.Residues[x]
			if g == Gap || g == Space {
				continue
			}
			counts[g]++
		}

		best, bestN, tied := byte(0), 0, false
		for g, c := range counts {
			switch {
			case c == 0:
			case c > bestN:
				best, bestN, tied = byte(g), c, false
			case c == bestN:
				tied = true
			}
		}
		if bestN == 0 {
			continue
		}

		scores[x] = float32(bestN) / float32(voters)
		if tied {
			cons[x] = TieMarker
		} else {
			cons[x] = best
		}
	}

	a.rows[0].Residues = cons
	a.scores = scores
}

// Alphabet classifies the residues of an alignment for colour scheme
// selection by a presentation layer.
type Alphabet int

const (
	// AlphabetGeneral covers proteins and anything that is not clearly DNA.
	AlphabetGeneral Alphabet = iota
	// AlphabetNucleotide means A, C, G and T dominate the residues.
	AlphabetNucleotide
)

// String returns the alphabet name.
func (a Alphabet) String() string {
	if a == AlphabetNucleotide {
		return "nucleotide"
	}
	return "general"
}

// nucleotideThreshold is the share of A/C/G/T residues above which an
// alignment is treated as nucleotide data.
const nucleotideThreshold = 0.8

// Alphabet guesses the residue alphabet from the parsed glyph counts.
// Gaps and spaces are ignored.
func (a *Alignment) Alphabet() Alphabet {
	total, acgt := 0, 0
	for g, c := range a.glyphs {
		if byte(g) == Gap || byte(g) == Space {
			continue
		}
		total += c
		switch byte(g) {
		case 'A', 'C', 'G', 'T', 'a', 'c', 'g', 't':
			acgt += c
		}
	}
	if total == 0 {
		return AlphabetGeneral
	}
	if float64(acgt)/float64(total) > nucleotideThreshold {
		return AlphabetNucleotide
	}
	return AlphabetGeneral
}
