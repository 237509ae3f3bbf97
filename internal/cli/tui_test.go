package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/msaview/pkg/session"
	"github.com/matzehuels/msaview/pkg/viewport"
)

func newTestViewer(t *testing.T, start *viewport.Position) viewerModel {
	t.Helper()
	raw := ">seq1\n" + strings.Repeat("ACGT", 50) + "\n>seq2\n" + strings.Repeat("AC-T", 50) + "\n"
	sess, err := session.New(context.Background(), []byte(raw), session.Options{
		TileSize:        256,
		InitialCellSize: cellPixels,
		LabelCharWidth:  1,
	})
	if err != nil {
		t.Fatalf("session.New() error: %v", err)
	}
	m := newViewerModel(sess, start)
	return send(m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

func send(m viewerModel, msg tea.Msg) viewerModel {
	next, _ := m.Update(msg)
	return next.(viewerModel)
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestViewerInitialView(t *testing.T) {
	m := newTestViewer(t, nil)

	if got := m.sess.Viewport().Position(); got.Column != 0 || got.Row != 0 {
		t.Errorf("initial Position() = %+v, want top-left", got)
	}

	out := m.View()
	for _, want := range []string{"Consensus", "seq1", "seq2", "0,0,"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
	if lines := strings.Count(out, "\n"); lines < 23 {
		t.Errorf("View() has %d lines, want at least 23", lines)
	}
}

func TestViewerEmptyBeforeResize(t *testing.T) {
	sess, err := session.New(context.Background(), []byte(">a\nAC\n"), session.Options{TileSize: 32})
	if err != nil {
		t.Fatal(err)
	}
	if got := newViewerModel(sess, nil).View(); got != "" {
		t.Errorf("View() before WindowSizeMsg = %q, want empty", got)
	}
}

func TestViewerPanKeys(t *testing.T) {
	m := newTestViewer(t, nil)
	v := m.sess.Viewport()

	for i := 0; i < 3; i++ {
		m = send(m, tea.KeyMsg{Type: tea.KeyRight})
	}
	if got := v.Position().Column; got != 3 {
		t.Errorf("after 3x right Column = %d, want 3", got)
	}

	m = send(m, runeKey('h'))
	if got := v.Position().Column; got != 2 {
		t.Errorf("after h Column = %d, want 2", got)
	}

	m = send(m, runeKey('r'))
	if got := v.Position().Column; got != 0 {
		t.Errorf("after reset Column = %d, want 0", got)
	}
	if m.errMsg != "" {
		t.Errorf("unexpected status error %q", m.errMsg)
	}
}

func TestViewerZoomKeys(t *testing.T) {
	m := newTestViewer(t, nil)
	v := m.sess.Viewport()

	before := v.CameraZ()
	m = send(m, runeKey('+'))
	if v.CameraZ() >= before {
		t.Errorf("zoom in: CameraZ() = %g, want < %g", v.CameraZ(), before)
	}
	zoomed := v.CameraZ()
	send(m, runeKey('-'))
	if v.CameraZ() <= zoomed {
		t.Errorf("zoom out: CameraZ() = %g, want > %g", v.CameraZ(), zoomed)
	}
}

func TestViewerGoTo(t *testing.T) {
	m := newTestViewer(t, nil)

	m = send(m, runeKey('g'))
	if !m.editing {
		t.Fatal("g did not open the position prompt")
	}
	m.input.SetValue("10,0,20")
	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.editing {
		t.Error("prompt still open after enter")
	}
	if got := m.sess.Viewport().Position().Column; got != 10 {
		t.Errorf("Column = %d, want 10", got)
	}
}

func TestViewerGoToInvalid(t *testing.T) {
	m := newTestViewer(t, nil)

	m = send(m, runeKey('g'))
	m.input.SetValue("nope")
	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.errMsg == "" {
		t.Error("invalid position did not set a status error")
	}
	if !strings.Contains(m.View(), m.errMsg) {
		t.Error("status line does not show the error")
	}
}

func TestViewerGoToCancel(t *testing.T) {
	m := newTestViewer(t, nil)

	m = send(m, runeKey('g'))
	m.input.SetValue("10,0,20")
	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.editing {
		t.Error("prompt still open after esc")
	}
	if got := m.sess.Viewport().Position().Column; got != 0 {
		t.Errorf("Column = %d after cancel, want 0", got)
	}
}

func TestViewerStartPosition(t *testing.T) {
	m := newTestViewer(t, &viewport.Position{Column: 20, Row: 0, Zoom: 20})

	if m.pending != nil {
		t.Error("start position still pending after first resize")
	}
	if got := m.sess.Viewport().Position().Column; got != 20 {
		t.Errorf("Column = %d, want 20", got)
	}
}

func TestViewerHelpToggle(t *testing.T) {
	m := newTestViewer(t, nil)

	m = send(m, runeKey('?'))
	if !m.help.ShowAll {
		t.Error("? did not expand help")
	}
	m = send(m, runeKey('?'))
	if m.help.ShowAll {
		t.Error("? did not collapse help")
	}
}

func TestViewerQuit(t *testing.T) {
	m := newTestViewer(t, nil)

	_, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestViewerMouseDrag(t *testing.T) {
	m := newTestViewer(t, nil)
	v := m.sess.Viewport()

	// Character 40 sits well inside the alignment pane.
	m = send(m, tea.MouseMsg{X: 40, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	m = send(m, tea.MouseMsg{X: 35, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	m = send(m, tea.MouseMsg{X: 35, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})

	if got := v.Position().Column; got != 5 {
		t.Errorf("drag left by 5 chars: Column = %d, want 5", got)
	}
	if m.drag != nil {
		t.Error("drag not cleared on release")
	}
}

func TestViewerHover(t *testing.T) {
	m := newTestViewer(t, nil)

	// Row 1 is seq1; character 40 is over the alignment.
	m = send(m, tea.MouseMsg{X: 40, Y: 1, Button: tea.MouseButtonNone, Action: tea.MouseActionMotion})
	if !strings.HasPrefix(m.hover, "seq1") {
		t.Errorf("hover = %q, want seq1 label", m.hover)
	}

	m = send(m, tea.MouseMsg{X: 0, Y: 1, Button: tea.MouseButtonNone, Action: tea.MouseActionMotion})
	if m.hover != "" {
		t.Errorf("hover over labels = %q, want empty", m.hover)
	}
}

func TestResidueStyle(t *testing.T) {
	if residueStyle('A').GetForeground() != colorGreen {
		t.Error("A not green")
	}
	if residueStyle('-').GetForeground() != colorDim {
		t.Error("gap not dim")
	}
	if residueStyle('X').GetForeground() != colorWhite {
		t.Error("unknown residue not white")
	}
}
