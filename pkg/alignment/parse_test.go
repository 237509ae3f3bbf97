package alignment

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/msaview/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		labels    []string
		residues  []string
		maxSeqLen int
		maxLabel  int
		totalLbl  int
	}{
		{
			name:      "simple",
			input:     ">a\nAAA\n>bb\nAAT\n>ccc\nATT\n",
			labels:    []string{"a", "bb", "ccc"},
			residues:  []string{"AAA", "AAT", "ATT"},
			maxSeqLen: 3,
			maxLabel:  3,
			totalLbl:  6,
		},
		{
			name:      "multiline bodies and CRLF",
			input:     ">one\r\nAC\r\nGT\r\n>two\r\nA\r\n",
			labels:    []string{"one", "two"},
			residues:  []string{"ACGT", "A"},
			maxSeqLen: 4,
			maxLabel:  3,
			totalLbl:  6,
		},
		{
			name:      "blank lines ignored",
			input:     "\n>x\n\n  \nAC\n\n>y\nG\n\n",
			labels:    []string{"x", "y"},
			residues:  []string{"AC", "G"},
			maxSeqLen: 2,
			maxLabel:  1,
			totalLbl:  2,
		},
		{
			name:      "empty body retained",
			input:     ">empty\n>full\nAC\n>tail\n",
			labels:    []string{"empty", "full", "tail"},
			residues:  []string{"", "AC", ""},
			maxSeqLen: 2,
			maxLabel:  5,
			totalLbl:  13,
		},
		{
			name:      "no trailing newline",
			input:     ">x\nACGT",
			labels:    []string{"x"},
			residues:  []string{"ACGT"},
			maxSeqLen: 4,
			maxLabel:  1,
			totalLbl:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aln, err := Parse([]byte(tt.input))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if got, want := aln.SequenceCount(), len(tt.labels)+1; got != want {
				t.Fatalf("SequenceCount() = %d, want %d", got, want)
			}

			var labels, residues []string
			for _, s := range aln.Sequences() {
				labels = append(labels, string(s.Label))
				residues = append(residues, string(s.Residues))
			}
			if diff := cmp.Diff(tt.labels, labels); diff != "" {
				t.Errorf("labels mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.residues, residues); diff != "" {
				t.Errorf("residues mismatch (-want +got):\n%s", diff)
			}
			if aln.MaxSequenceLength() != tt.maxSeqLen {
				t.Errorf("MaxSequenceLength() = %d, want %d", aln.MaxSequenceLength(), tt.maxSeqLen)
			}
			if aln.MaxLabelLength() != tt.maxLabel {
				t.Errorf("MaxLabelLength() = %d, want %d", aln.MaxLabelLength(), tt.maxLabel)
			}
			if aln.TotalLabelLength() != tt.totalLbl {
				t.Errorf("TotalLabelLength() = %d, want %d", aln.TotalLabelLength(), tt.totalLbl)
			}
		})
	}
}

func TestParseConsensusRow(t *testing.T) {
	aln, err := Parse([]byte(">a\nAC\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	s, err := aln.Sequence(0)
	if err != nil {
		t.Fatalf("Sequence(0) error: %v", err)
	}
	if !s.Dummy {
		t.Error("row 0 should be a dummy row")
	}
	if string(s.Label) != ConsensusLabel {
		t.Errorf("row 0 label = %q, want %q", s.Label, ConsensusLabel)
	}
	if string(s.Residues) != "AC" {
		t.Errorf("row 0 residues = %q, want %q", s.Residues, "AC")
	}
}

func TestParseNoHeader(t *testing.T) {
	for _, input := range []string{"", "\n\n", "ACGT\nACGT\n"} {
		aln, err := Parse([]byte(input))
		if !errors.Is(err, errors.ErrCodeNoHeaderFound) {
			t.Fatalf("Parse(%q) error = %v, want NO_HEADER_FOUND", input, err)
		}
		if aln == nil {
			t.Fatalf("Parse(%q) returned nil alignment", input)
		}
		if aln.SequenceCount() != 1 || aln.MaxSequenceLength() != 0 {
			t.Errorf("Parse(%q) = %d rows, max length %d, want empty alignment",
				input, aln.SequenceCount(), aln.MaxSequenceLength())
		}
		if _, err := aln.Sequence(0); err != nil {
			t.Errorf("consensus row missing: %v", err)
		}
	}
}

func TestParseReaderMatchesParse(t *testing.T) {
	input := ">s1 first\nMKV-LA\nQQ\n>s2\nMKVALA\n>s3\nM--LAQ Q\n"
	want, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	got, err := ParseReader(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseReader() error: %v", err)
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(Alignment{})); diff != "" {
		t.Errorf("ParseReader mismatch (-Parse +ParseReader):\n%s", diff)
	}
}

func TestParseReaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ParseReader(ctx, strings.NewReader(">a\nA\n")); err != context.Canceled {
		t.Errorf("ParseReader() error = %v, want context.Canceled", err)
	}
}

func TestGlyphCounts(t *testing.T) {
	aln, _ := Parse([]byte(">a\nAC-\n>b\nAA\n"))
	counts := aln.GlyphCounts()
	if counts['A'] != 3 || counts['C'] != 1 || counts['-'] != 1 {
		t.Errorf("GlyphCounts A=%d C=%d -=%d, want 3 1 1", counts['A'], counts['C'], counts['-'])
	}
}

func TestAccessorsOutOfRange(t *testing.T) {
	aln, _ := Parse([]byte(">a\nAC\n"))

	if _, err := aln.Sequence(2); !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("Sequence(2) error = %v, want OUT_OF_RANGE", err)
	}
	if _, err := aln.Sequence(-1); !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("Sequence(-1) error = %v, want OUT_OF_RANGE", err)
	}
	if _, err := aln.Label(5); !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("Label(5) error = %v, want OUT_OF_RANGE", err)
	}
	if _, err := aln.ConsensusScore(2); !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("ConsensusScore(2) error = %v, want OUT_OF_RANGE", err)
	}
	if l, err := aln.LabelString(1); err != nil || l != "a" {
		t.Errorf("LabelString(1) = %q, %v, want \"a\"", l, err)
	}
}

func TestAddOrReplaceSequence(t *testing.T) {
	aln, _ := Parse([]byte(">a\nAC\n>b\nAG\n"))
	consensus := string(aln.Consensus().Residues)

	// Append.
	if err := aln.AddOrReplaceSequence(3, Sequence{Label: []byte("longer-label"), Residues: []byte("ACGTACGT")}); err != nil {
		t.Fatalf("append error: %v", err)
	}
	if aln.SequenceCount() != 4 {
		t.Errorf("SequenceCount() = %d, want 4", aln.SequenceCount())
	}
	if aln.MaxSequenceLength() != 8 {
		t.Errorf("MaxSequenceLength() = %d, want 8", aln.MaxSequenceLength())
	}
	if aln.MaxLabelLength() != 12 {
		t.Errorf("MaxLabelLength() = %d, want 12", aln.MaxLabelLength())
	}
	if got := string(aln.Consensus().Residues); got != consensus {
		t.Errorf("consensus changed to %q after append", got)
	}

	// Replace shrinks the stats again.
	if err := aln.AddOrReplaceSequence(3, Sequence{Label: []byte("c"), Residues: []byte("A")}); err != nil {
		t.Fatalf("replace error: %v", err)
	}
	if aln.MaxSequenceLength() != 2 || aln.TotalLabelLength() != 3 {
		t.Errorf("after replace max=%d total=%d, want 2 3", aln.MaxSequenceLength(), aln.TotalLabelLength())
	}

	// Gaps past the end fail.
	if err := aln.AddOrReplaceSequence(10, Sequence{}); !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("AddOrReplaceSequence(10) error = %v, want OUT_OF_RANGE", err)
	}

	// Explicit consensus replace.
	if err := aln.AddOrReplaceSequence(0, Sequence{Label: []byte(ConsensusLabel), Residues: []byte("XX"), Dummy: true}); err != nil {
		t.Fatalf("replace consensus error: %v", err)
	}
	if got := string(aln.Consensus().Residues); got != "XX" {
		t.Errorf("consensus = %q, want XX", got)
	}
}
