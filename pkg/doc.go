// Package pkg provides the core libraries of the msaview alignment viewer.
//
// # Overview
//
// msaview turns a FASTA multiple sequence alignment into GPU-ready tiles and
// drives a two-pane camera over them: a labels pane on the left, the
// alignment on the right, split by a draggable separator. The pkg directory
// is organized into three areas:
//
//  1. Core model: [alignment], [tilemap], [viewport], [geometry], [linalg]
//  2. Orchestration: [session], [upload]
//  3. Infrastructure: [cache], [config], [observability], [server], [errors]
//
// # Architecture
//
// The typical data flow:
//
//	FASTA bytes
//	     ↓
//	[alignment] (parse, consensus row, region extraction)
//	     ↓
//	[tilemap] (tile grid over the padded alignment)
//	     ↓
//	[viewport] (camera matrices, pan, zoom, scrollbars)
//	     ↓
//	[upload] → Sink (renderer, directory, HTTP client)
//
// # Quick Start
//
//	sess, err := session.New(ctx, raw, session.Options{})
//	if err != nil {
//	    return err
//	}
//	v := sess.Viewport()
//	_ = v.Zoom(1.25, geometry.Point{X: 100, Y: 100})
//	fmt.Println(v.Position()) // "column,row,zoom"
//
//	u := &upload.Uploader{Cache: cache.NewNullCache()}
//	stats, err := u.Upload(ctx, sess, upload.NewMemorySink())
//
// # Main Packages
//
// [alignment] - FASTA parsing into an alignment whose row 0 is the synthetic
// consensus. Region and consensus byte extraction for tile uploads.
//
// [tilemap] - The tile grid covering the padded alignment, with per-tile
// pixel offsets and sizes.
//
// [viewport] - Perspective cameras for both panes, clamped to the content.
// Pan, zoom, deep-link positions and scrollbar geometry.
//
// [geometry] - Canvas layout (panes, separator, scrollbars) and hit testing.
//
// [session] - One loaded alignment with its tiles and camera, plus a TTL
// session store for the HTTP server.
//
// [upload] - Concurrent, cache-backed tile and consensus chunk production.
//
// [cache] - Byte caches keyed by content hash: file, Redis and null backends.
//
// [server] - The HTTP API exposing sessions, tiles and camera controls.
//
// # Testing
//
//	go test ./pkg/...
//	go test ./pkg/viewport/...
package pkg
