package cli

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	msaerrors "github.com/matzehuels/msaview/pkg/errors"
	"github.com/matzehuels/msaview/pkg/geometry"
	"github.com/matzehuels/msaview/pkg/session"
	"github.com/matzehuels/msaview/pkg/viewport"
)

// cellPixels is the canvas size of one terminal character. The viewer sets
// the initial cell size to the same value, so after a reset one character
// shows one residue.
const cellPixels = 16.0

// chromeLines is the number of terminal lines below the canvas.
const chromeLines = 2

// Residue styles
var (
	styleResidueA   = lipgloss.NewStyle().Foreground(colorGreen)
	styleResidueC   = lipgloss.NewStyle().Foreground(colorBlue)
	styleResidueG   = lipgloss.NewStyle().Foreground(colorYellow)
	styleResidueT   = lipgloss.NewStyle().Foreground(colorRed)
	styleResidueGap = lipgloss.NewStyle().Foreground(colorDim)
	styleResidue    = lipgloss.NewStyle().Foreground(colorWhite)
	styleConsensus  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleLabel      = lipgloss.NewStyle().Foreground(colorGray)
	styleChrome     = lipgloss.NewStyle().Foreground(colorDim)
	styleThumb      = lipgloss.NewStyle().Foreground(colorGray)
)

func residueStyle(b byte) lipgloss.Style {
	switch b {
	case 'A', 'a':
		return styleResidueA
	case 'C', 'c':
		return styleResidueC
	case 'G', 'g':
		return styleResidueG
	case 'T', 't', 'U', 'u':
		return styleResidueT
	case '-', '.':
		return styleResidueGap
	}
	return styleResidue
}

// drag is an active pointer drag.
type drag struct {
	x, y   int
	target viewport.Target
	bar    viewport.Scrollbar
	thumb  bool
}

// viewerModel is the bubbletea model of the terminal alignment viewer.
type viewerModel struct {
	sess *session.Session
	keys viewerKeyMap
	help help.Model

	input   textinput.Model
	editing bool

	width, height int
	sized         bool
	pending       *viewport.Position
	drag          *drag

	hover  string
	errMsg string
	glyphs map[byte]string
}

func newViewerModel(sess *session.Session, start *viewport.Position) viewerModel {
	ti := textinput.New()
	ti.Placeholder = "column,row,zoom"
	ti.Prompt = "go to: "
	ti.CharLimit = 40

	return viewerModel{
		sess:    sess,
		keys:    defaultViewerKeyMap(),
		help:    help.New(),
		input:   ti,
		pending: start,
		glyphs:  make(map[byte]string),
	}
}

func (m viewerModel) Init() tea.Cmd {
	return nil
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.apply(m.resize())
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)

	case tea.MouseMsg:
		m.updateMouse(msg)
		return m, nil
	}
	return m, nil
}

func (m *viewerModel) resize() error {
	w, h := m.canvasSize()
	if w <= 0 || h <= 0 {
		return nil
	}
	if err := m.sess.Viewport().Resize(w, h); err != nil {
		return err
	}
	if !m.sized {
		m.sized = true
		m.sess.Viewport().Reset()
	}
	if m.pending != nil {
		p := *m.pending
		m.pending = nil
		return p.Apply(m.sess.Viewport())
	}
	return nil
}

func (m viewerModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.editing = false
		m.input.Blur()
		pos, err := viewport.ParsePosition(m.input.Value())
		if err == nil {
			err = pos.Apply(m.sess.Viewport())
		}
		m.apply(err)
		return m, nil
	case tea.KeyEsc:
		m.editing = false
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m viewerModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.sess.Viewport()
	l := v.Layout()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.GoTo):
		m.editing = true
		m.input.SetValue(v.Position().String())
		m.input.CursorEnd()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Up):
		m.apply(v.Pan(viewport.TargetAlignment, geometry.Point{Y: -cellPixels}))
	case key.Matches(msg, m.keys.Down):
		m.apply(v.Pan(viewport.TargetAlignment, geometry.Point{Y: cellPixels}))
	case key.Matches(msg, m.keys.Left):
		m.apply(v.Pan(viewport.TargetAlignment, geometry.Point{X: -cellPixels}))
	case key.Matches(msg, m.keys.Right):
		m.apply(v.Pan(viewport.TargetAlignment, geometry.Point{X: cellPixels}))
	case key.Matches(msg, m.keys.PageUp):
		m.apply(v.Pan(viewport.TargetAlignment, geometry.Point{Y: -l.Alignment.H}))
	case key.Matches(msg, m.keys.PageDown):
		m.apply(v.Pan(viewport.TargetAlignment, geometry.Point{Y: l.Alignment.H}))
	case key.Matches(msg, m.keys.ZoomIn):
		m.apply(v.Zoom(1.25, centre(l.Alignment)))
	case key.Matches(msg, m.keys.ZoomOut):
		m.apply(v.Zoom(0.8, centre(l.Alignment)))
	case key.Matches(msg, m.keys.SepLeft):
		m.apply(v.Pan(viewport.TargetSeparator, geometry.Point{X: -cellPixels}))
	case key.Matches(msg, m.keys.SepRight):
		m.apply(v.Pan(viewport.TargetSeparator, geometry.Point{X: cellPixels}))
	case key.Matches(msg, m.keys.LabelsFwd):
		m.apply(v.Pan(viewport.TargetLabels, geometry.Point{X: cellPixels}))
	case key.Matches(msg, m.keys.LabelsBwd):
		m.apply(v.Pan(viewport.TargetLabels, geometry.Point{X: -cellPixels}))
	case key.Matches(msg, m.keys.Reset):
		v.Reset()
		m.apply(nil)
	}
	return m, nil
}

// updateMouse handles wheel scrolling, drags and hover. Drags move the
// content along with the pointer; the separator and scrollbar thumbs follow
// the pointer directly.
func (m *viewerModel) updateMouse(msg tea.MouseMsg) {
	v := m.sess.Viewport()
	l := v.Layout()
	px, py := toCanvas(msg.X, msg.Y)
	region := l.HitTest(px, py)

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if msg.Ctrl {
			scale := 1.25
			if msg.Button == tea.MouseButtonWheelDown {
				scale = 0.8
			}
			m.apply(v.Zoom(scale, l.Alignment.Local(geometry.Point{X: px, Y: py})))
			return
		}
		dy := 3 * cellPixels
		if msg.Button == tea.MouseButtonWheelUp {
			dy = -dy
		}
		m.apply(v.Pan(viewport.TargetAlignment, geometry.Point{Y: dy}))
		return
	case tea.MouseButtonWheelLeft, tea.MouseButtonWheelRight:
		dx := 3 * cellPixels
		if msg.Button == tea.MouseButtonWheelLeft {
			dx = -dx
		}
		target := viewport.TargetAlignment
		if region == geometry.RegionLabels || region == geometry.RegionLabelsHScroll {
			target = viewport.TargetLabels
		}
		m.apply(v.Pan(target, geometry.Point{X: dx}))
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		d := &drag{x: msg.X, y: msg.Y}
		if bar, ok := viewport.ScrollbarFor(region); ok {
			if !v.Thumb(bar).Contains(px, py) {
				v.PageTrack(bar, geometry.Point{X: px, Y: py})
				m.apply(nil)
				return
			}
			d.bar, d.thumb = bar, true
		} else if target, ok := viewport.TargetFor(region); ok {
			d.target = target
		} else {
			return
		}
		m.drag = d

	case tea.MouseActionMotion:
		if m.drag == nil {
			m.updateHover(px, py)
			return
		}
		dx := float64(msg.X-m.drag.x) * cellPixels
		dy := float64(msg.Y-m.drag.y) * cellPixels
		m.drag.x, m.drag.y = msg.X, msg.Y

		switch {
		case m.drag.thumb && m.drag.bar == viewport.ScrollbarAlignmentVertical:
			m.apply(v.DragThumb(m.drag.bar, dy))
		case m.drag.thumb:
			m.apply(v.DragThumb(m.drag.bar, dx))
		case m.drag.target == viewport.TargetSeparator:
			m.apply(v.Pan(viewport.TargetSeparator, geometry.Point{X: dx}))
		default:
			m.apply(v.Pan(m.drag.target, geometry.Point{X: -dx, Y: -dy}))
		}

	case tea.MouseActionRelease:
		m.drag = nil
	}
}

func (m *viewerModel) updateHover(px, py float64) {
	info, ok := m.sess.Hover(px, py)
	if !ok {
		m.hover = ""
		return
	}
	m.hover = info.String()
}

// apply records the outcome of a viewport operation for the status line.
// Non-finite camera state is reported and undone with a reset.
func (m *viewerModel) apply(err error) {
	if err == nil {
		err = m.sess.Viewport().Validate()
		if msaerrors.Is(err, msaerrors.ErrCodeNonFinite) {
			m.sess.Viewport().Reset()
		}
	}
	if err != nil {
		m.errMsg = msaerrors.UserMessage(err)
		return
	}
	m.errMsg = ""
}

func (m viewerModel) canvasSize() (float64, float64) {
	return float64(m.width) * cellPixels, float64(m.height-chromeLines) * cellPixels
}

func toCanvas(x, y int) (float64, float64) {
	return (float64(x) + 0.5) * cellPixels, (float64(y) + 0.5) * cellPixels
}

func centre(r geometry.Rect) geometry.Point {
	return geometry.Point{X: r.W / 2, Y: r.H / 2}
}

func (m viewerModel) View() string {
	if m.width == 0 || m.height <= chromeLines {
		return ""
	}
	var b strings.Builder
	rows := m.height - chromeLines
	for y := 0; y < rows; y++ {
		for x := 0; x < m.width; x++ {
			b.WriteString(m.cell(x, y))
		}
		b.WriteByte('\n')
	}
	b.WriteString(m.statusLine())
	b.WriteByte('\n')
	if m.editing {
		b.WriteString(m.input.View())
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

// cell renders the terminal character at (x, y) by sampling the canvas at
// the character's centre.
func (m viewerModel) cell(x, y int) string {
	v := m.sess.Viewport()
	l := v.Layout()
	px, py := toCanvas(x, y)
	region := l.HitTest(px, py)

	switch region {
	case geometry.RegionAlignment:
		col, row, ok := v.CellAt(viewport.PaneAlignment, l.Alignment.Local(geometry.Point{X: px, Y: py}))
		if !ok {
			return " "
		}
		seq, err := m.sess.Alignment().Sequence(row)
		if err != nil || col >= len(seq.Residues) {
			return " "
		}
		if row == 0 {
			return styleConsensus.Render(string(seq.Residues[col]))
		}
		return m.glyph(seq.Residues[col])

	case geometry.RegionLabels:
		col, row, ok := v.CellAt(viewport.PaneLabels, l.Labels.Local(geometry.Point{X: px, Y: py}))
		if !ok {
			return " "
		}
		label, err := m.sess.Alignment().Label(row)
		if err != nil || col >= len(label) {
			return " "
		}
		return styleLabel.Render(string(label[col]))

	case geometry.RegionSeparator:
		return styleChrome.Render("│")
	}

	if bar, ok := viewport.ScrollbarFor(region); ok {
		if v.Thumb(bar).Contains(px, py) {
			return styleThumb.Render("█")
		}
		return styleChrome.Render("░")
	}
	return " "
}

// glyph returns the rendered residue, memoised per byte.
func (m viewerModel) glyph(b byte) string {
	if s, ok := m.glyphs[b]; ok {
		return s
	}
	s := residueStyle(b).Render(string(b))
	m.glyphs[b] = s
	return s
}

func (m viewerModel) statusLine() string {
	parts := []string{StyleHighlight.Render(m.sess.Viewport().Position().String())}
	if m.hover != "" {
		parts = append(parts, StyleValue.Render(m.hover))
	}
	if m.errMsg != "" {
		parts = append(parts, StyleWarning.Render(m.errMsg))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}
