package ui

// Package ui contains the Fyne-based desktop user interface for the gallery.
// It wires the asset grid to the preview session, user actions to the
// download service, and renders the downloads panel, notifications, and
// settings. All UI strings are localized via Localization.
