package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconRetry    = "↻"
	IconDownload = "⬇"
	IconFolder   = "📁"
	IconCube     = "◳"
	IconMapPin   = "▦"
	IconClose    = "×"
	IconError    = "❌"
	IconLanguage = "🌐"
	IconSearch   = "🔍"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
)

// Layout sizing (asset cards / gallery grid)
const (
	CardWidth       float32 = 176
	CardHeight      float32 = 208
	CardPreviewSize float32 = 160
	CardPadding     float32 = 8

	GridMinWidth  float32 = 560
	GridMinHeight float32 = 360
)

// Layout sizing (download rows)
const (
	StatusLabelWidth  float32 = 84
	SpeedLabelWidth   float32 = 100
	PercentLabelWidth float32 = 48

	RowMinWidth  float32 = 400
	RowMinHeight float32 = 56

	DownloadsPanelHeight float32 = 220
)

// Toast notification sizing and behavior
const (
	ToastWidth    float32 = 300
	ToastHeight   float32 = 120
	ToastMargin   float32 = 20
	ToastAutoHide         = 5 * time.Second
)

// How long transient status notifications stay visible
const NotificationHideDelay = 2 * time.Second

// Debounce durations
const (
	SearchDebounce   = 300 * time.Millisecond
	UIUpdateDebounce = 100 * time.Millisecond
)

// Category select entries
const (
	CategoryAll = "all"
)
