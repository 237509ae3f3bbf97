package viewport

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/msaview/pkg/errors"
)

// Position is a shareable view location: the cell at the alignment pane's
// top-left and a zoom level roughly equal to the number of visible rows.
type Position struct {
	Column int
	Row    int
	Zoom   int
}

// String formats the position as "column,row,zoom".
func (p Position) String() string {
	return fmt.Sprintf("%d,%d,%d", p.Column, p.Row, p.Zoom)
}

// ParsePosition parses a "column,row,zoom" triple. Surrounding whitespace
// around each number is ignored.
func ParsePosition(s string) (Position, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Position{}, errors.New(errors.ErrCodeInvalidPosition,
			"position must be three integers separated by commas, got %q", s)
	}
	var vals [3]int
	for i, name := range []string{"column", "row", "zoom"} {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return Position{}, errors.Wrap(errors.ErrCodeInvalidPosition, err, "%s is not a valid integer", name)
		}
		vals[i] = n
	}
	return Position{Column: vals[0], Row: vals[1], Zoom: vals[2]}, nil
}

// Apply moves v to p.
func (p Position) Apply(v *Viewport) error {
	return v.SetAbsolutePosition(p.Column, p.Row, p.Zoom)
}
