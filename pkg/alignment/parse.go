package alignment

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/matzehuels/msaview/pkg/errors"
)

// ctxCheckInterval is how many lines ParseReader reads between
// cancellation checks.
const ctxCheckInterval = 4096

// Parse parses FASTA bytes into an Alignment.
//
// When raw contains no header line Parse returns an empty Alignment and an
// error with code ErrCodeNoHeaderFound. Both values are non-nil in that case.
func Parse(raw []byte) (*Alignment, error) {
	var p parser
	for len(raw) > 0 {
		line := raw
		if i := bytes.IndexByte(raw, '\n'); i >= 0 {
			line, raw = raw[:i], raw[i+1:]
		} else {
			raw = nil
		}
		p.line(line)
	}
	return p.finish()
}

// ParseReader parses FASTA text from r. It stops early with ctx.Err() if
// the context is cancelled, which lets a driver abandon a large load.
func ParseReader(ctx context.Context, r io.Reader) (*Alignment, error) {
	var p parser
	br := bufio.NewReaderSize(r, 64*1024)
	for n := 0; ; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			p.line(bytes.TrimSuffix(line, []byte{'\n'}))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read alignment: %w", err)
		}
	}
	return p.finish()
}

// parser accumulates records line by line.
type parser struct {
	rows        []Sequence
	glyphs      [256]int
	label       []byte
	body        []byte
	open        bool
	headerFound bool
}

func (p *parser) line(l []byte) {
	l = bytes.TrimSuffix(l, []byte{'\r'})
	if len(bytes.TrimSpace(l)) == 0 {
		return
	}
	if l[0] == '>' {
		p.flush()
		p.headerFound = true
		p.open = true
		p.label = bytes.Clone(l[1:])
		p.body = nil
		return
	}
	// Body text before the first header has no record to belong to.
	if !p.open {
		return
	}
	p.body = append(p.body, l...)
}

func (p *parser) flush() {
	if !p.open {
		return
	}
	if p.body == nil {
		p.body = []byte{}
	}
	for _, g := range p.body {
		p.glyphs[g]++
	}
	p.rows = append(p.rows, Sequence{Label: p.label, Residues: p.body})
	p.open = false
}

func (p *parser) finish() (*Alignment, error) {
	p.flush()

	a := &Alignment{glyphs: p.glyphs}
	a.rows = make([]Sequence, 0, len(p.rows)+1)
	a.rows = append(a.rows, Sequence{Label: []byte(ConsensusLabel), Dummy: true})
	a.rows = append(a.rows, p.rows...)
	a.updateStats()
	a.computeConsensus()

	if !p.headerFound {
		return a, errors.New(errors.ErrCodeNoHeaderFound, "no sequence labels found in FASTA input")
	}
	return a, nil
}
