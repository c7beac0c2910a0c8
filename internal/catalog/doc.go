package catalog

// Package catalog talks to the asset backend: it fetches category listings
// over HTTP, normalizes their drifting field spellings into model types in
// exactly one place, and builds the file-store URLs that previews and
// downloads share.
