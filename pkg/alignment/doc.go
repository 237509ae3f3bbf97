// Package alignment stores a parsed multiple sequence alignment (MSA) and its
// derived consensus row.
//
// # Overview
//
// An [Alignment] is an ordered set of [Sequence] rows that share one column
// coordinate origin. Rows may have different physical lengths; shorter rows
// are treated as gap-padded by every reader ([Alignment.Region] zero-fills)
// but are never padded in storage.
//
// Row 0 is always the synthetic consensus row, labelled "Consensus" and
// marked [Sequence.Dummy]. Real rows start at index 1.
//
// # Parsing
//
// [Parse] and [ParseReader] accept FASTA text: a line starting with '>' opens
// a record whose label is the rest of the line, and every following non-blank
// line is appended to the record body without separators. A trailing '\r' is
// stripped from each line.
//
//	aln, err := alignment.Parse(raw)
//	if errors.Is(err, errors.ErrCodeNoHeaderFound) {
//	    // aln is empty but usable
//	}
//
// Input without any header line still yields a structurally valid
// [Alignment] together with an error carrying ErrCodeNoHeaderFound.
//
// # Consensus
//
// For each column the consensus byte is the most frequent residue among the
// real rows that cover the column. Gap ('-') and space bytes never vote.
// Columns without any vote keep the gap byte and score 0. When the two most
// frequent residues are tied the column gets the tie marker '+'.
//
// The score is the winning count divided by the number of real rows, not the
// number of rows covering the column, so a column that some rows do not
// reach can never score 1.0.
//
// # Concurrency
//
// An Alignment is not safe for concurrent mutation. Concurrent readers are
// fine as long as nobody calls [Alignment.AddOrReplaceSequence].
package alignment
