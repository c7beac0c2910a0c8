package download

// Package download implements the asset download pipeline: a task service
// with a parallelism bound, HTTP streaming into part files, progress and
// speed propagation to the UI, stop/restart handling, and a retry pass for
// flaky transfers.
