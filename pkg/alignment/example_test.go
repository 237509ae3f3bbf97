package alignment_test

import (
	"fmt"

	"github.com/matzehuels/msaview/pkg/alignment"
)

func ExampleParse() {
	aln, err := alignment.Parse([]byte(">seq1\nAAA\n>seq2\nAAT\n>seq3\nATT\n"))
	if err != nil {
		panic(err)
	}

	fmt.Println("Rows:", aln.SequenceCount())
	fmt.Println("Columns:", aln.MaxSequenceLength())
	fmt.Println("Consensus:", string(aln.Consensus().Residues))
	for col := 0; col < aln.MaxSequenceLength(); col++ {
		score, _ := aln.ConsensusScore(col)
		fmt.Printf("Column %d: %.2f\n", col, score)
	}
	// Output:
	// Rows: 4
	// Columns: 3
	// Consensus: AAT
	// Column 0: 1.00
	// Column 1: 0.67
	// Column 2: 0.67
}

func ExampleAlignment_Region() {
	aln, _ := alignment.Parse([]byte(">a\nACGT\n>b\nAC\n"))

	// Rows 1..2, columns 2..3; the short row is zero-filled.
	region, _ := aln.Region(2, 3, 1, 2)
	fmt.Println(region)
	// Output:
	// [71 84 0 0]
}
