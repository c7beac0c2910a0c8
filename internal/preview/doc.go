package preview

// Package preview implements the bounded preview lifecycle for the asset
// grid: a geometric visibility tracker, an admission controller that keeps
// at most a fixed number of live scene handles, sticky per-slot failure
// flags, and grid sessions that tear one generation of slots down before
// building the next.
