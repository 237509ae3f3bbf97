package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/msaview/pkg/buildinfo"
	"github.com/matzehuels/msaview/pkg/config"
)

const fasta = ">seq1\nACGT\n>seq2\nACGA\n>seq3\nACTT\n"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.Viewer.TileSize = 32
	cfg.Server.MaxUploadBytes = 1024
	srv := New(Options{Config: cfg, Logger: log.New(io.Discard)})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func createSession(t *testing.T, ts *httptest.Server) sessionInfo {
	t.Helper()
	resp := do(t, http.MethodPost, ts.URL+"/sessions/", fasta)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	return decode[sessionInfo](t, resp)
}

func TestCreateSession(t *testing.T) {
	ts := newTestServer(t)
	info := createSession(t, ts)

	if info.ID == "" || len(info.Hash) != 64 {
		t.Errorf("info = %+v, want id and hash", info)
	}
	if info.Sequences != 3 || info.Columns != 4 {
		t.Errorf("shape = %d x %d, want 3 x 4", info.Sequences, info.Columns)
	}
	if info.Tiles != 1 || info.TileWidth != 32 {
		t.Errorf("tiles = %d of width %d, want 1 of 32", info.Tiles, info.TileWidth)
	}
	if info.Consensus != "ACGT" {
		t.Errorf("consensus = %q, want ACGT", info.Consensus)
	}

	resp := do(t, http.MethodGet, ts.URL+"/sessions/"+info.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("get status = %d", resp.StatusCode)
	}
}

func TestCreateSessionErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		url  string
		body string
		want int
	}{
		{"no header", "/sessions/", "ACGT\n", http.StatusUnprocessableEntity},
		{"too large", "/sessions/", ">a\n" + strings.Repeat("A", 2048), http.StatusRequestEntityTooLarge},
		{"bad width", "/sessions/?width=wide", fasta, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+tt.url, tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestUnknownSession(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/sessions/nope/view", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	body := decode[errorBody](t, resp)
	if body.Code != "SESSION_NOT_FOUND" {
		t.Errorf("code = %q", body.Code)
	}
}

func TestTiles(t *testing.T) {
	ts := newTestServer(t)
	info := createSession(t, ts)
	base := ts.URL + "/sessions/" + info.ID

	list := decode[tileList](t, do(t, http.MethodGet, base+"/tiles", ""))
	if len(list.Tiles) != 1 || list.TotalWidth != 32 {
		t.Fatalf("tile list = %+v", list)
	}

	resp := do(t, http.MethodGet, base+"/tiles/0", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("tile status = %d", resp.StatusCode)
	}
	data, _ := io.ReadAll(resp.Body)
	if len(data) != 32*32 {
		t.Fatalf("tile length = %d, want %d", len(data), 32*32)
	}
	if got := string(data[32 : 32+4]); got != "ACGT" {
		t.Errorf("row 1 = %q, want ACGT", got)
	}

	if resp := do(t, http.MethodGet, base+"/tiles/5", ""); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("out of range tile status = %d, want 400", resp.StatusCode)
	}
	if resp := do(t, http.MethodGet, base+"/tiles/x", ""); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("non-numeric tile status = %d, want 400", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, base+"/consensus/0", "")
	data, _ = io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || data[0] != 'A' {
		t.Errorf("consensus chunk status %d, first byte %q", resp.StatusCode, data[0])
	}
}

func TestViewInteraction(t *testing.T) {
	ts := newTestServer(t)
	info := createSession(t, ts)
	base := ts.URL + "/sessions/" + info.ID

	view := decode[viewState](t, do(t, http.MethodGet, base+"/view", ""))
	if view.Position == "" || view.Layout.CanvasWidth != 1920 {
		t.Errorf("view = %+v", view)
	}

	resp := do(t, http.MethodPost, base+"/pan", `{"target":"alignment","dx":10,"dy":0}`)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("pan status = %d", resp.StatusCode)
	}
	resp = do(t, http.MethodPost, base+"/pan", `{"target":"sideways"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad target status = %d, want 400", resp.StatusCode)
	}

	resp = do(t, http.MethodPost, base+"/zoom", `{"scale":1.5,"x":400,"y":300}`)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("zoom status = %d", resp.StatusCode)
	}

	resp = do(t, http.MethodPut, base+"/position", `{"position":"0,0,40"}`)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("position status = %d", resp.StatusCode)
	}
	resp = do(t, http.MethodPut, base+"/position", `{"position":"a,b"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad position status = %d, want 400", resp.StatusCode)
	}

	resp = do(t, http.MethodPost, base+"/resize", `{"width":800,"height":600}`)
	view = decode[viewState](t, resp)
	if view.Layout.CanvasWidth != 800 {
		t.Errorf("canvas width after resize = %g", view.Layout.CanvasWidth)
	}

	resp = do(t, http.MethodPost, base+"/reset", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("reset status = %d", resp.StatusCode)
	}

	resp = do(t, http.MethodPost, base+"/scroll", `{"scrollbar":"alignment-h","drag":5}`)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("scroll status = %d", resp.StatusCode)
	}
}

func TestPanOverflowKeepsCamera(t *testing.T) {
	ts := newTestServer(t)
	info := createSession(t, ts)
	base := ts.URL + "/sessions/" + info.ID

	before := decode[viewState](t, do(t, http.MethodGet, base+"/view", ""))

	resp := do(t, http.MethodPost, base+"/pan", `{"target":"alignment","dx":1e308,"dy":0}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("overflowing pan status = %d, want 400", resp.StatusCode)
	}
	if body := decode[errorBody](t, resp); body.Code != "NON_FINITE" {
		t.Errorf("code = %q, want NON_FINITE", body.Code)
	}

	after := decode[viewState](t, do(t, http.MethodGet, base+"/view", ""))
	if after.Position != before.Position {
		t.Errorf("position after rejected pan = %q, want %q", after.Position, before.Position)
	}

	resp = do(t, http.MethodPost, base+"/pan", `{"target":"alignment","dx":1,"dy":0}`)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("follow-up pan status = %d, want 200", resp.StatusCode)
	}
}

func TestHover(t *testing.T) {
	ts := newTestServer(t)
	info := createSession(t, ts)
	base := ts.URL + "/sessions/" + info.ID

	view := decode[viewState](t, do(t, http.MethodGet, base+"/view", ""))
	a := view.Layout.Alignment

	// Column 2 of row 3 (seq3), one pixel inside the cell.
	url := base + "/hover?x=" + ftoa(a.X+2*24+1) + "&y=" + ftoa(a.Y+3*24+1)
	resp := do(t, http.MethodGet, url, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("hover status = %d", resp.StatusCode)
	}
	h := decode[hoverResponse](t, resp)
	if h.Label != "seq3" || h.Text != "seq3 (66.67% Consensus)" {
		t.Errorf("hover = %+v", h)
	}

	resp = do(t, http.MethodGet, base+"/hover?x=1&y=1500", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("hover outside status = %d, want 204", resp.StatusCode)
	}
}

func TestFASTAAndDelete(t *testing.T) {
	ts := newTestServer(t)
	info := createSession(t, ts)
	base := ts.URL + "/sessions/" + info.ID

	resp := do(t, http.MethodGet, base+"/fasta", "")
	body, _ := io.ReadAll(resp.Body)
	if string(body) != fasta {
		t.Errorf("fasta = %q, want %q", body, fasta)
	}

	if resp := do(t, http.MethodDelete, base, ""); resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodGet, base, ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d", resp.StatusCode)
	}
	body := decode[struct {
		Status   string         `json:"status"`
		Sessions int            `json:"sessions"`
		Build    buildinfo.Info `json:"build"`
	}](t, resp)
	if body.Status != "ok" || body.Sessions != 0 {
		t.Errorf("health = %+v", body)
	}
	if body.Build != buildinfo.Get() {
		t.Errorf("health build = %+v, want %+v", body.Build, buildinfo.Get())
	}
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
