// Package upload hands the residue tiles of a session to a rendering sink.
//
// The viewer keeps one texture per [tilemap.Tile]. An [Uploader] walks the
// tile map, extracts each tile's residue bytes from the alignment (or reads
// them from a [cache.Cache]) and passes them to a [Sink] together with the
// tile's position. Consensus bytes travel separately in fixed-size chunks.
//
// Extraction runs on a bounded worker pool; sink calls are serialised, so
// sinks need no locking of their own.
package upload

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/msaview/pkg/alignment"
	"github.com/matzehuels/msaview/pkg/cache"
	"github.com/matzehuels/msaview/pkg/errors"
	"github.com/matzehuels/msaview/pkg/observability"
	"github.com/matzehuels/msaview/pkg/session"
	"github.com/matzehuels/msaview/pkg/tilemap"
)

// DefaultWorkers bounds concurrent tile extraction when Uploader.Workers is 0.
const DefaultWorkers = 4

// Sink receives extracted tile data.
type Sink interface {
	// UploadTile receives the row-major residue bytes of one tile.
	UploadTile(ctx context.Context, index int, tile tilemap.Tile, data []byte) error

	// UploadConsensus receives one chunk of packed consensus bytes starting
	// at column startX.
	UploadConsensus(ctx context.Context, index int, startX int, data []byte) error
}

// Stats summarises one Upload call.
type Stats struct {
	Tiles           int
	ConsensusChunks int
	CacheHits       int
	Bytes           int
	Duration        time.Duration
}

// Uploader extracts tiles and passes them to a Sink.
type Uploader struct {
	Cache   cache.Cache // nil disables caching
	Keyer   cache.Keyer // nil uses cache.NewDefaultKeyer
	TTL     time.Duration
	Logger  *log.Logger // nil uses log.Default
	Workers int
}

// Upload sends every tile and consensus chunk of sess to sink. The session
// must not be mutated concurrently.
func (u *Uploader) Upload(ctx context.Context, sess *session.Session, sink Sink) (Stats, error) {
	logger := u.logger()
	start := time.Now()
	tm := sess.TileMap()

	workers := u.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	var (
		mu    sync.Mutex
		stats Stats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, t := range tm.Tiles() {
		g.Go(func() error {
			data, hit, err := u.tile(gctx, sess, t)
			if err != nil {
				return err
			}
			observability.Tile().OnTileBuilt(gctx, t.Index, len(data))

			mu.Lock()
			defer mu.Unlock()
			if err := sink.UploadTile(gctx, t.Index, t, data); err != nil {
				return fmt.Errorf("upload tile %d: %w", t.Index, err)
			}
			stats.Tiles++
			stats.Bytes += len(data)
			if hit {
				stats.CacheHits++
			}
			logger.Debug("tile uploaded", "index", t.Index, "x", t.StartX, "y", t.StartY, "cached", hit)
			return nil
		})
	}
	err := g.Wait()

	if err == nil {
		err = u.uploadConsensus(ctx, sess, sink, &stats)
	}

	stats.Duration = time.Since(start)
	observability.Tile().OnUploadComplete(ctx, stats.Tiles, stats.Duration, err)
	if err != nil {
		return stats, err
	}
	logger.Debug("upload complete", "tiles", stats.Tiles, "chunks", stats.ConsensusChunks, "hits", stats.CacheHits)
	return stats, nil
}

func (u *Uploader) uploadConsensus(ctx context.Context, sess *session.Session, sink Sink, stats *Stats) error {
	n := ConsensusChunks(sess.TileMap())
	for i := 0; i < n; i++ {
		data, hit, err := u.consensus(ctx, sess, i)
		if err != nil {
			return err
		}
		if err := sink.UploadConsensus(ctx, i, i*ChunkColumns(sess.TileMap()), data); err != nil {
			return fmt.Errorf("upload consensus chunk %d: %w", i, err)
		}
		stats.ConsensusChunks++
		stats.Bytes += len(data)
		if hit {
			stats.CacheHits++
		}
	}
	return nil
}

// Tile returns the residue bytes of one tile, using the cache when set.
func (u *Uploader) Tile(ctx context.Context, sess *session.Session, index int) ([]byte, error) {
	t, err := sess.TileMap().Tile(index)
	if err != nil {
		return nil, err
	}
	data, _, err := u.tile(ctx, sess, t)
	return data, err
}

// Consensus returns the packed bytes of one consensus chunk.
func (u *Uploader) Consensus(ctx context.Context, sess *session.Session, index int) ([]byte, error) {
	if n := ConsensusChunks(sess.TileMap()); index < 0 || index >= n {
		return nil, errors.New(errors.ErrCodeOutOfRange, "consensus chunk %d out of range [0,%d)", index, n)
	}
	data, _, err := u.consensus(ctx, sess, index)
	return data, err
}

func (u *Uploader) tile(ctx context.Context, sess *session.Session, t tilemap.Tile) ([]byte, bool, error) {
	tm := sess.TileMap()
	key := ""
	if sess.Hash() != "" {
		key = u.keyer().TileKey(sess.Hash(), tm.TileWidth, tm.TileHeight, t.Index)
	}
	return u.cached(ctx, key, func() ([]byte, error) {
		return sess.Alignment().Region(t.StartX, t.EndX, t.StartY, t.EndY)
	})
}

func (u *Uploader) consensus(ctx context.Context, sess *session.Session, index int) ([]byte, bool, error) {
	tm := sess.TileMap()
	key := ""
	if sess.Hash() != "" {
		key = u.keyer().ConsensusKey(sess.Hash(), tm.TileWidth, tm.TileHeight, index)
	}
	cols := ChunkColumns(tm)
	return u.cached(ctx, key, func() ([]byte, error) {
		return sess.Alignment().ConsensusRegion(index*cols, (index+1)*cols-1)
	})
}

// cached returns the value under key, building and storing it on a miss.
// An empty key bypasses the cache. Cache failures are logged and never
// fail the upload.
func (u *Uploader) cached(ctx context.Context, key string, build func() ([]byte, error)) ([]byte, bool, error) {
	if u.Cache != nil && key != "" {
		data, ok, err := u.Cache.Get(ctx, key)
		if err != nil {
			u.logger().Warn("cache read failed", "key", key, "error", err)
		} else if ok {
			return data, true, nil
		}
	}

	data, err := build()
	if err != nil {
		return nil, false, err
	}

	if u.Cache != nil && key != "" {
		if err := u.Cache.Set(ctx, key, data, u.TTL); err != nil {
			u.logger().Warn("cache write failed", "key", key, "error", err)
		}
	}
	return data, false, nil
}

func (u *Uploader) keyer() cache.Keyer {
	if u.Keyer == nil {
		return cache.NewDefaultKeyer()
	}
	return u.Keyer
}

func (u *Uploader) logger() *log.Logger {
	if u.Logger == nil {
		return log.Default()
	}
	return u.Logger
}

// ChunkColumns is the number of consensus columns per chunk: one tile's
// worth of cells.
func ChunkColumns(tm *tilemap.TileMap) int {
	return tm.TileWidth * tm.TileHeight
}

// ConsensusChunks is the number of chunks covering the tile map width.
func ConsensusChunks(tm *tilemap.TileMap) int {
	cols := ChunkColumns(tm)
	return max(1, (tm.TotalWidth+cols-1)/cols)
}

// ChunkBytes is the length of one consensus chunk.
func ChunkBytes(tm *tilemap.TileMap) int {
	return ChunkColumns(tm) * alignment.ConsensusBytesPerCell
}
