package platform

// Package platform contains OS integration helpers: filesystem utilities
// and opening or revealing downloaded asset files in the host system.
