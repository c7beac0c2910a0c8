package scene

// Package scene turns asset files into preview frames: glTF/GLB payloads
// are parsed and rasterized with a fixed camera, flat map images are decoded
// directly, and both come back as disposable scenes sized for a grid tile.
