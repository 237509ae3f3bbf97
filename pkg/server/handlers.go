package server

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/msaview/pkg/alignment"
	"github.com/matzehuels/msaview/pkg/buildinfo"
	msaerrors "github.com/matzehuels/msaview/pkg/errors"
	"github.com/matzehuels/msaview/pkg/geometry"
	"github.com/matzehuels/msaview/pkg/linalg"
	"github.com/matzehuels/msaview/pkg/session"
	"github.com/matzehuels/msaview/pkg/tilemap"
	"github.com/matzehuels/msaview/pkg/upload"
	"github.com/matzehuels/msaview/pkg/viewport"
)

// =============================================================================
// Response types
// =============================================================================

type sessionInfo struct {
	ID          string    `json:"id"`
	Hash        string    `json:"hash"`
	CreatedAt   time.Time `json:"created_at"`
	Sequences   int       `json:"sequences"`
	Columns     int       `json:"columns"`
	MaxLabel    int       `json:"max_label_length"`
	Alphabet    string    `json:"alphabet"`
	Consensus   string    `json:"consensus"`
	TileWidth   int       `json:"tile_width"`
	TileHeight  int       `json:"tile_height"`
	Tiles       int       `json:"tiles"`
	ChunkCount  int       `json:"consensus_chunks"`
	ChunkLength int       `json:"consensus_chunk_columns"`
}

type tileList struct {
	TotalWidth  int            `json:"total_width"`
	TotalHeight int            `json:"total_height"`
	TileWidth   int            `json:"tile_width"`
	TileHeight  int            `json:"tile_height"`
	Stride      int            `json:"stride"`
	Tiles       []tilemap.Tile `json:"tiles"`
}

type paneView struct {
	Position      linalg.Vec3 `json:"position"`
	TopLeft       linalg.Vec3 `json:"top_left"`
	BottomRight   linalg.Vec3 `json:"bottom_right"`
	WorldToScreen linalg.Mat4 `json:"world_to_screen"`
	View          linalg.Mat4 `json:"view"`
	Projection    linalg.Mat4 `json:"projection"`
}

type viewState struct {
	Position  string                   `json:"position"`
	Zoom      float64                  `json:"zoom"`
	Layout    geometry.Layout          `json:"layout"`
	Alignment paneView                 `json:"alignment"`
	Labels    paneView                 `json:"labels"`
	Thumbs    map[string]geometry.Rect `json:"thumbs"`
}

type hoverResponse struct {
	session.HoverInfo
	Text string `json:"text"`
}

// =============================================================================
// Request types
// =============================================================================

type panRequest struct {
	Target string  `json:"target"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
}

type zoomRequest struct {
	Scale float64 `json:"scale"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type positionRequest struct {
	Position string `json:"position"`
}

type resizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type scrollRequest struct {
	Scrollbar string   `json:"scrollbar"`
	Drag      *float64 `json:"drag,omitempty"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
}

var targets = map[string]viewport.Target{
	"alignment": viewport.TargetAlignment,
	"labels":    viewport.TargetLabels,
	"separator": viewport.TargetSeparator,
}

var scrollbars = map[string]viewport.Scrollbar{
	"labels":      viewport.ScrollbarLabels,
	"alignment-h": viewport.ScrollbarAlignmentHorizontal,
	"alignment-v": viewport.ScrollbarAlignmentVertical,
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.store.Len(),
		"build":    buildinfo.Get(),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	width, err := floatQuery(r, "width", session.DefaultCanvasWidth)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	height, err := floatQuery(r, "height", session.DefaultCanvasHeight)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body := r.Body
	if limit := s.cfg.Server.MaxUploadBytes; limit > 0 {
		body = http.MaxBytesReader(w, r.Body, limit)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := session.New(r.Context(), raw, s.cfg.SessionOptions(width, height))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("session created", "id", sess.ID(),
		"sequences", sess.Alignment().RealCount(), "columns", sess.Alignment().MaxSequenceLength())

	w.Header().Set("Location", "/sessions/"+sess.ID())
	writeJSON(w, http.StatusCreated, infoFor(sess))
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Lock()
	defer sess.Unlock()
	writeJSON(w, http.StatusOK, infoFor(sess))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), sessionFrom(r).ID()); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFASTA(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Lock()
	defer sess.Unlock()

	var buf bytes.Buffer
	if err := alignment.WriteFASTA(&buf, sess.Alignment(), r.URL.Query().Get("consensus") == "true"); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/x-fasta")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleTiles(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Lock()
	defer sess.Unlock()

	tm := sess.TileMap()
	writeJSON(w, http.StatusOK, tileList{
		TotalWidth:  tm.TotalWidth,
		TotalHeight: tm.TotalHeight,
		TileWidth:   tm.TileWidth,
		TileHeight:  tm.TileHeight,
		Stride:      tm.Stride,
		Tiles:       tm.Tiles(),
	})
}

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	index, err := intParam(r, "index")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess := sessionFrom(r)
	sess.Lock()
	defer sess.Unlock()

	tile, err := sess.TileMap().Tile(index)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := s.uploader.Tile(r.Context(), sess, index)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Tile-Start-X", strconv.Itoa(tile.StartX))
	w.Header().Set("X-Tile-Start-Y", strconv.Itoa(tile.StartY))
	writeBytes(w, data)
}

func (s *Server) handleConsensus(w http.ResponseWriter, r *http.Request) {
	chunk, err := intParam(r, "chunk")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess := sessionFrom(r)
	sess.Lock()
	defer sess.Unlock()

	data, err := s.uploader.Consensus(r.Context(), sess, chunk)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeBytes(w, data)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Lock()
	defer sess.Unlock()
	writeJSON(w, http.StatusOK, viewFor(sess.Viewport()))
}

func (s *Server) handlePan(w http.ResponseWriter, r *http.Request) {
	var req panRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	target, ok := targets[req.Target]
	if !ok {
		s.writeError(w, r, msaerrors.New(msaerrors.ErrCodeInvalidInput, "unknown pan target %q", req.Target))
		return
	}
	s.mutate(w, r, func(v *viewport.Viewport) error {
		return v.Pan(target, geometry.Point{X: req.DX, Y: req.DY})
	})
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	var req zoomRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(v *viewport.Viewport) error {
		return v.Zoom(req.Scale, geometry.Point{X: req.X, Y: req.Y})
	})
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	pos, err := viewport.ParsePosition(req.Position)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, pos.Apply)
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(v *viewport.Viewport) error {
		return v.Resize(req.Width, req.Height)
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(v *viewport.Viewport) error {
		v.Reset()
		return nil
	})
}

func (s *Server) handleScroll(w http.ResponseWriter, r *http.Request) {
	var req scrollRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	bar, ok := scrollbars[req.Scrollbar]
	if !ok {
		s.writeError(w, r, msaerrors.New(msaerrors.ErrCodeInvalidInput, "unknown scrollbar %q", req.Scrollbar))
		return
	}
	s.mutate(w, r, func(v *viewport.Viewport) error {
		if req.Drag != nil {
			return v.DragThumb(bar, *req.Drag)
		}
		v.PageTrack(bar, geometry.Point{X: req.X, Y: req.Y})
		return nil
	})
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	x, err := floatQuery(r, "x", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	y, err := floatQuery(r, "y", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess := sessionFrom(r)
	sess.Lock()
	defer sess.Unlock()

	info, ok := sess.Hover(x, y)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, hoverResponse{HoverInfo: info, Text: info.String()})
}

// mutate applies fn to the session's viewport under its lock, validates the
// resulting camera and responds with the new view state.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(*viewport.Viewport) error) {
	sess := sessionFrom(r)
	sess.Lock()
	defer sess.Unlock()

	v := sess.Viewport()
	saved := v.Snapshot()
	err := fn(v)
	if err == nil {
		err = v.Validate()
	}
	if err != nil {
		v.Restore(saved)
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewFor(v))
}

// =============================================================================
// Helpers
// =============================================================================

func infoFor(sess *session.Session) sessionInfo {
	aln := sess.Alignment()
	tm := sess.TileMap()
	return sessionInfo{
		ID:          sess.ID(),
		Hash:        sess.Hash(),
		CreatedAt:   sess.CreatedAt(),
		Sequences:   aln.RealCount(),
		Columns:     aln.MaxSequenceLength(),
		MaxLabel:    aln.MaxLabelLength(),
		Alphabet:    aln.Alphabet().String(),
		Consensus:   string(aln.Consensus().Residues),
		TileWidth:   tm.TileWidth,
		TileHeight:  tm.TileHeight,
		Tiles:       tm.Len(),
		ChunkCount:  upload.ConsensusChunks(tm),
		ChunkLength: upload.ChunkColumns(tm),
	}
}

func paneFor(v *viewport.Viewport, p viewport.Pane) paneView {
	m := v.Matrices(p)
	return paneView{
		Position:      v.PanePosition(p),
		TopLeft:       v.TopLeft(p),
		BottomRight:   v.BottomRight(p),
		WorldToScreen: m.WorldToScreen,
		View:          m.View,
		Projection:    m.Projection,
	}
}

func viewFor(v *viewport.Viewport) viewState {
	return viewState{
		Position:  v.Position().String(),
		Zoom:      v.CameraZ(),
		Layout:    v.Layout(),
		Alignment: paneFor(v, viewport.PaneAlignment),
		Labels:    paneFor(v, viewport.PaneLabels),
		Thumbs: map[string]geometry.Rect{
			"labels":      v.Thumb(viewport.ScrollbarLabels),
			"alignment-h": v.Thumb(viewport.ScrollbarAlignmentHorizontal),
			"alignment-v": v.Thumb(viewport.ScrollbarAlignmentVertical),
		},
	}
}

func intParam(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, msaerrors.Wrap(msaerrors.ErrCodeInvalidInput, err, "%s must be an integer", name)
	}
	return n, nil
}

func floatQuery(r *http.Request, name string, def float64) (float64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, msaerrors.Wrap(msaerrors.ErrCodeInvalidInput, err, "%s must be a number", name)
	}
	return f, nil
}
