package upload

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/msaview/pkg/cache"
	msaerrors "github.com/matzehuels/msaview/pkg/errors"
	"github.com/matzehuels/msaview/pkg/session"
	"github.com/matzehuels/msaview/pkg/tilemap"
)

const fixture = ">a\nACGTAC\n>b\nAC-TA\n"

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	s, err := session.New(context.Background(), []byte(fixture), session.Options{TileSize: 4})
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	return s
}

func quietUploader(c cache.Cache) *Uploader {
	return &Uploader{Cache: c, Logger: log.New(io.Discard), Workers: 2}
}

func TestUploadTiles(t *testing.T) {
	s := newTestSession(t)
	sink := NewMemorySink()

	stats, err := quietUploader(nil).Upload(context.Background(), s, sink)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if stats.Tiles != 2 || stats.ConsensusChunks != 1 {
		t.Errorf("stats = %+v, want 2 tiles and 1 chunk", stats)
	}

	// Row 0 holds the consensus; compare the sequence rows.
	tests := []struct {
		index int
		want  string
	}{
		{0, "ACGTAC-T\x00\x00\x00\x00"},
		{1, "AC\x00\x00A\x00\x00\x00\x00\x00\x00\x00"},
	}
	for _, tt := range tests {
		got := sink.Tiles[tt.index]
		if len(got) != 16 {
			t.Fatalf("tile %d length = %d, want 16", tt.index, len(got))
		}
		if diff := cmp.Diff([]byte(tt.want), got[4:]); diff != "" {
			t.Errorf("tile %d mismatch (-want +got):\n%s", tt.index, diff)
		}
	}

	cons := sink.Consensus[0]
	if len(cons) != ChunkBytes(s.TileMap()) {
		t.Fatalf("consensus chunk length = %d, want %d", len(cons), ChunkBytes(s.TileMap()))
	}
	if cons[0] != 'A' || cons[1] != 255 {
		t.Errorf("consensus column 0 = (%q, %d), want ('A', 255)", cons[0], cons[1])
	}
}

func TestUploadMatchesRegion(t *testing.T) {
	s := newTestSession(t)
	sink := NewMemorySink()
	if _, err := quietUploader(nil).Upload(context.Background(), s, sink); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	for _, tile := range s.TileMap().Tiles() {
		want, err := s.Alignment().Region(tile.StartX, tile.EndX, tile.StartY, tile.EndY)
		if err != nil {
			t.Fatalf("Region: %v", err)
		}
		if diff := cmp.Diff(want, sink.Tiles[tile.Index]); diff != "" {
			t.Errorf("tile %d mismatch (-want +got):\n%s", tile.Index, diff)
		}
	}
}

func TestUploadUsesCache(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	u := quietUploader(fc)
	s := newTestSession(t)

	first, err := u.Upload(ctx, s, NewMemorySink())
	if err != nil {
		t.Fatalf("first Upload: %v", err)
	}
	if first.CacheHits != 0 {
		t.Errorf("first upload hits = %d, want 0", first.CacheHits)
	}

	// A fresh session over the same bytes shares the content hash.
	second, err := u.Upload(ctx, newTestSession(t), NewMemorySink())
	if err != nil {
		t.Fatalf("second Upload: %v", err)
	}
	if second.CacheHits != 3 {
		t.Errorf("second upload hits = %d, want 3", second.CacheHits)
	}
}

type failingSink struct{ *MemorySink }

func (failingSink) UploadTile(context.Context, int, tilemap.Tile, []byte) error {
	return errors.New("device lost")
}

func TestUploadSinkError(t *testing.T) {
	s := newTestSession(t)
	_, err := quietUploader(nil).Upload(context.Background(), s, failingSink{NewMemorySink()})
	if err == nil {
		t.Fatal("expected sink error")
	}
}

func TestUploadSurvivesCacheErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	// Cache errors are logged; the tiles still come from the alignment.
	stats, err := quietUploader(fc).Upload(ctx, newTestSession(t), NewMemorySink())
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if stats.Tiles != 2 {
		t.Errorf("tiles = %d, want 2", stats.Tiles)
	}
}

func TestConsensusOutOfRange(t *testing.T) {
	s := newTestSession(t)
	_, err := quietUploader(nil).Consensus(context.Background(), s, 1)
	if !msaerrors.Is(err, msaerrors.ErrCodeOutOfRange) {
		t.Errorf("Consensus(1) error = %v, want OUT_OF_RANGE", err)
	}
	if _, err := quietUploader(nil).Tile(context.Background(), s, 9); err == nil {
		t.Error("Tile(9) should fail")
	}
}

func TestDirSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tiles")
	s := newTestSession(t)
	sink, err := NewDirSink(dir, s.Hash(), s.TileMap())
	if err != nil {
		t.Fatalf("NewDirSink: %v", err)
	}
	if _, err := quietUploader(nil).Upload(context.Background(), s, sink); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := sink.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if len(m.Tiles) != 2 || len(m.Consensus) != 1 {
		t.Fatalf("manifest lists %d tiles and %d chunks, want 2 and 1", len(m.Tiles), len(m.Consensus))
	}
	if m.Tiles[0].Index != 0 || m.Tiles[1].StartX != 4 {
		t.Errorf("manifest tiles = %+v", m.Tiles)
	}
	if m.Hash != s.Hash() {
		t.Errorf("manifest hash = %q, want %q", m.Hash, s.Hash())
	}

	tile1, err := os.ReadFile(filepath.Join(dir, m.Tiles[1].File))
	if err != nil {
		t.Fatalf("read tile: %v", err)
	}
	if len(tile1) != 16 {
		t.Errorf("tile file length = %d, want 16", len(tile1))
	}
}
