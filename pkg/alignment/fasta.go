package alignment

import (
	"bufio"
	"io"
)

// WriteFASTA writes the real rows of a as FASTA, one body line per record.
// With includeConsensus the consensus row is written first.
func WriteFASTA(w io.Writer, a *Alignment, includeConsensus bool) error {
	bw := bufio.NewWriter(w)
	write := func(s Sequence) {
		bw.WriteByte('>')
		bw.Write(s.Label)
		bw.WriteByte('\n')
		bw.Write(s.Residues)
		bw.WriteByte('\n')
	}
	if includeConsensus {
		write(a.Consensus())
	}
	for _, s := range a.Sequences() {
		write(s)
	}
	return bw.Flush()
}
