package alignment

import (
	"math"

	"github.com/matzehuels/msaview/pkg/errors"
)

// Region copies the inclusive rectangle [startX,endX]×[startY,endY] of the
// global row/column space into a new row-major buffer. Cells past the end of
// a row or below the last row are zero.
//
// Row indices are global: row 0 is the consensus row.
func (a *Alignment) Region(startX, endX, startY, endY int) ([]byte, error) {
	if err := checkSpan("x", startX, endX); err != nil {
		return nil, err
	}
	if err := checkSpan("y", startY, endY); err != nil {
		return nil, err
	}
	w := endX - startX + 1
	h := endY - startY + 1
	buf := make([]byte, w*h)
	for row := 0; row < h; row++ {
		y := startY + row
		if y >= len(a.rows) {
			break
		}
		res := a.rows[y].Residues
		if startX >= len(res) {
			continue
		}
		copy(buf[row*w:(row+1)*w], res[startX:min(endX+1, len(res))])
	}
	return buf, nil
}

// ConsensusBytesPerCell is the stride of ConsensusRegion output.
const ConsensusBytesPerCell = 2

// ConsensusRegion packs columns [startX,endX] of the consensus row as byte
// pairs: the consensus byte and the score scaled to 0..255. Columns past
// the end are zero.
func (a *Alignment) ConsensusRegion(startX, endX int) ([]byte, error) {
	if err := checkSpan("x", startX, endX); err != nil {
		return nil, err
	}
	cons := a.rows[0].Residues
	buf := make([]byte, (endX-startX+1)*ConsensusBytesPerCell)
	for x := startX; x <= endX && x < len(cons); x++ {
		i := (x - startX) * ConsensusBytesPerCell
		buf[i] = cons[x]
		if x < len(a.scores) {
			buf[i+1] = byte(math.Round(float64(a.scores[x]) * 255))
		}
	}
	return buf, nil
}

func checkSpan(axis string, start, end int) error {
	if start < 0 || end < start {
		return errors.New(errors.ErrCodeOutOfRange, "invalid %s span [%d,%d]", axis, start, end)
	}
	return nil
}
