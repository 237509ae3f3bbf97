package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopParseHooks{}
	p.OnParseStart(ctx, 1024)
	p.OnParseComplete(ctx, 5, 120, time.Second, nil)

	tl := NoopTileHooks{}
	tl.OnTileBuilt(ctx, 0, 1<<20)
	tl.OnUploadComplete(ctx, 4, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "tile")
	c.OnCacheMiss(ctx, "consensus")
	c.OnCacheSet(ctx, "tile", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Parse().(NoopParseHooks); !ok {
		t.Error("Parse() should return NoopParseHooks by default")
	}
	if _, ok := Tile().(NoopTileHooks); !ok {
		t.Error("Tile() should return NoopTileHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customParse := &testParseHooks{}
	SetParseHooks(customParse)
	if Parse() != customParse {
		t.Error("SetParseHooks should set custom hooks")
	}

	customTile := &testTileHooks{}
	SetTileHooks(customTile)
	if Tile() != customTile {
		t.Error("SetTileHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Parse().(NoopParseHooks); !ok {
		t.Error("Reset() should restore NoopParseHooks")
	}
	if _, ok := Tile().(NoopTileHooks); !ok {
		t.Error("Reset() should restore NoopTileHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testParseHooks{}
	SetParseHooks(custom)
	SetParseHooks(nil)

	if Parse() != custom {
		t.Error("SetParseHooks(nil) should be ignored")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	h := &testParseHooks{}
	SetParseHooks(h)

	ctx := context.Background()
	Parse().OnParseStart(ctx, 42)
	Parse().OnParseComplete(ctx, 3, 7, time.Millisecond, nil)

	if h.started != 42 {
		t.Errorf("started = %d, want 42", h.started)
	}
	if h.rows != 3 || h.cols != 7 {
		t.Errorf("shape = %dx%d, want 3x7", h.rows, h.cols)
	}
}

// Test implementations
type testParseHooks struct {
	NoopParseHooks
	started    int
	rows, cols int
}

func (h *testParseHooks) OnParseStart(_ context.Context, size int) { h.started = size }

func (h *testParseHooks) OnParseComplete(_ context.Context, rows, cols int, _ time.Duration, _ error) {
	h.rows, h.cols = rows, cols
}

type testTileHooks struct {
	NoopTileHooks
	built int
}

type testCacheHooks struct {
	NoopCacheHooks
	hits int
}
