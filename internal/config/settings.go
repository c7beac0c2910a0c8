package config

import (
	"strings"

	"fyne.io/fyne/v2"

	"github.com/meshvault/mesh-gallery/internal/platform"
	"github.com/meshvault/mesh-gallery/internal/preview"
)

// Settings keys for Fyne preferences
const (
	KeyAPIBaseURL         = "api_base_url"
	KeyDownloadDir        = "download_directory"
	KeyMaxParallel        = "max_parallel_downloads"
	KeyPreviewCap         = "preview_cap"
	KeyPreviewMargin      = "preview_margin"
	KeyCategories         = "catalog_categories"
	KeyLanguage           = "app_language"
	KeyAutoRevealComplete = "auto_reveal_on_complete"
)

// Default values
const (
	DefaultAPIBaseURL         = "https://assets.meshvault.io"
	DefaultMaxParallel        = 2
	DefaultCategories         = "models,maps"
	DefaultLanguage           = "system"
	DefaultAutoRevealComplete = true
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetAPIBaseURL returns the asset backend base URL
func (s *Settings) GetAPIBaseURL() string {
	base := s.app.Preferences().String(KeyAPIBaseURL)
	if base == "" {
		s.SetAPIBaseURL(DefaultAPIBaseURL)
		return DefaultAPIBaseURL
	}
	return base
}

// SetAPIBaseURL sets the asset backend base URL
func (s *Settings) SetAPIBaseURL(base string) {
	s.app.Preferences().SetString(KeyAPIBaseURL, base)
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		// Use system default Downloads directory
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = "/tmp/downloads"
		}
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetMaxParallelDownloads returns the maximum number of parallel downloads
func (s *Settings) GetMaxParallelDownloads() int {
	value := s.app.Preferences().Int(KeyMaxParallel)
	if value <= 0 {
		s.SetMaxParallelDownloads(DefaultMaxParallel)
		return DefaultMaxParallel
	}
	return value
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Settings) SetMaxParallelDownloads(count int) {
	if count < 1 {
		count = 1
	}
	if count > 10 {
		count = 10
	}
	s.app.Preferences().SetInt(KeyMaxParallel, count)
}

// GetPreviewCap returns the bound on simultaneously live grid previews
func (s *Settings) GetPreviewCap() int {
	value := s.app.Preferences().Int(KeyPreviewCap)
	if value <= 0 {
		s.SetPreviewCap(preview.DefaultCap)
		return preview.DefaultCap
	}
	return value
}

// SetPreviewCap sets the bound on simultaneously live grid previews
func (s *Settings) SetPreviewCap(cap int) {
	if cap < 1 {
		cap = 1
	}
	if cap > 48 {
		cap = 48
	}
	s.app.Preferences().SetInt(KeyPreviewCap, cap)
}

// GetPreviewMargin returns the visibility margin around the viewport in
// pixels. Zero is a valid configuration, so the stored value is read with a
// fallback instead of a write-back.
func (s *Settings) GetPreviewMargin() float32 {
	return float32(s.app.Preferences().IntWithFallback(KeyPreviewMargin, int(preview.DefaultMargin)))
}

// SetPreviewMargin sets the visibility margin around the viewport in pixels
func (s *Settings) SetPreviewMargin(margin int) {
	if margin < 0 {
		margin = 0
	}
	if margin > 2000 {
		margin = 2000
	}
	s.app.Preferences().SetInt(KeyPreviewMargin, margin)
}

// GetCategories returns the catalog categories to load
func (s *Settings) GetCategories() []string {
	raw := s.app.Preferences().String(KeyCategories)
	if raw == "" {
		s.app.Preferences().SetString(KeyCategories, DefaultCategories)
		raw = DefaultCategories
	}

	parts := strings.Split(raw, ",")
	categories := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			categories = append(categories, p)
		}
	}
	return categories
}

// SetCategories sets the catalog categories to load
func (s *Settings) SetCategories(categories []string) {
	s.app.Preferences().SetString(KeyCategories, strings.Join(categories, ","))
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetAutoRevealOnComplete returns whether to auto-reveal completed downloads
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealComplete, DefaultAutoRevealComplete)
}

// SetAutoRevealOnComplete sets whether to auto-reveal completed downloads
func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealComplete, autoReveal)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}
