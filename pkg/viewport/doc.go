// Package viewport owns the camera state of the two viewer panes and the
// matrices that map between pane pixels and alignment world space.
//
// # World space
//
// One world unit is one tile. A cell at (column, row) sits at
// worldX = column/TileWidth and worldY = -row/TileHeight, so world y
// decreases downward while pixel y grows downward. Both panes look straight
// down onto the z=0 plane through a 90° perspective camera; the camera z is
// the inverse zoom (smaller is closer).
//
// # Panes
//
// The alignment pane position (x, y, z) is the single source of truth for
// the shared vertical position and zoom. The label pane only owns its own
// x; its y and z are read from the alignment pane every time matrices are
// built.
//
// # Matrices
//
// For each pane the world→screen matrix is
//
//	Scale(w/2, -h/2, 1) · Translate(1, -1, -d) · Projection · View
//
// where d is the projected depth of the world origin, and screen→world is
// its exact inverse. Points are transformed with a homogeneous divide.
//
// # Clamping
//
// [Viewport.RecomputeMatrices] with clamping pins each pane so that its
// top-left never precedes the content origin and its bottom-right never
// passes the content end. The alignment pane clamps both axes, the label
// pane clamps x only. Clamping is a fixed point: a second clamp without
// other changes leaves the matrices untouched.
//
// A Viewport is not safe for concurrent use.
package viewport
