package ui

import (
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/meshvault/mesh-gallery/internal/config"
)

// Dialog size constants
const (
	SettingsDialogWidth  = 500
	SettingsDialogHeight = 580
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	apiBaseEntry       *widget.Entry
	categoriesEntry    *widget.Entry
	downloadDirEntry   *widget.Entry
	maxParallelEntry   *widget.Entry
	autoRevealCheck    *widget.Check
	previewCapEntry    *widget.Entry
	previewMarginEntry *widget.Entry
	languageSelect     *widget.Select
}

// ShowSettingsDialog creates the settings dialog and displays it. onSaved
// runs after a confirmed save so the caller can re-apply configuration.
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func()) {
	sd := NewSettingsDialog(settings, localization, window, onSaved)
	sd.Show()
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	loc := sd.localization

	// Asset backend base URL
	sd.apiBaseEntry = widget.NewEntry()
	sd.apiBaseEntry.SetPlaceHolder(config.DefaultAPIBaseURL)

	// Comma-separated catalog categories
	sd.categoriesEntry = widget.NewEntry()
	sd.categoriesEntry.SetPlaceHolder(config.DefaultCategories)

	// Download directory selection
	sd.downloadDirEntry = widget.NewEntry()
	sd.downloadDirEntry.SetPlaceHolder("Download directory path")

	browseDirBtn := widget.NewButton(loc.GetText(KeyBrowse), sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	// Max parallel downloads
	sd.maxParallelEntry = widget.NewEntry()
	sd.maxParallelEntry.SetPlaceHolder("1-10")

	sd.autoRevealCheck = widget.NewCheck(loc.GetText(KeyAutoReveal), nil)

	// Preview cap and margin
	sd.previewCapEntry = widget.NewEntry()
	sd.previewCapEntry.SetPlaceHolder("1-48")

	sd.previewMarginEntry = widget.NewEntry()
	sd.previewMarginEntry.SetPlaceHolder("0-2000")

	// Language selection
	languageOptions := []string{}
	languageLabels := sd.settings.GetLanguageOptions()
	for code := range languageLabels {
		languageOptions = append(languageOptions, code)
	}
	sd.languageSelect = widget.NewSelect(languageOptions, nil)
	sd.languageSelect.PlaceHolder = "Select language"

	// Create form
	form := container.NewVBox(
		widget.NewLabel("Catalog Settings"),
		widget.NewSeparator(),

		widget.NewLabel(loc.GetText(KeyAPIBaseURL)+":"),
		sd.apiBaseEntry,

		widget.NewLabel(loc.GetText(KeyCatalogCategories)+":"),
		sd.categoriesEntry,

		widget.NewSeparator(),
		widget.NewLabel("Download Settings"),
		widget.NewSeparator(),

		widget.NewLabel(loc.GetText(KeyDownloadDirectory)+":"),
		downloadDirRow,

		widget.NewLabel(loc.GetText(KeyMaxParallel)+":"),
		sd.maxParallelEntry,
		sd.autoRevealCheck,

		widget.NewSeparator(),
		widget.NewLabel("Interface Settings"),
		widget.NewSeparator(),

		widget.NewLabel(loc.GetText(KeyPreviewCap)+":"),
		sd.previewCapEntry,

		widget.NewLabel(loc.GetText(KeyPreviewMargin)+":"),
		sd.previewMarginEntry,

		widget.NewLabel(loc.GetText(KeyLanguage)+":"),
		sd.languageSelect,
	)

	// Create dialog with buttons
	sd.dialog = dialog.NewCustomConfirm(
		loc.GetText(KeySettings),
		loc.GetText(KeySave),
		loc.GetText(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.apiBaseEntry.SetText(sd.settings.GetAPIBaseURL())
	sd.categoriesEntry.SetText(strings.Join(sd.settings.GetCategories(), ", "))
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.maxParallelEntry.SetText(strconv.Itoa(sd.settings.GetMaxParallelDownloads()))
	sd.autoRevealCheck.SetChecked(sd.settings.GetAutoRevealOnComplete())
	sd.previewCapEntry.SetText(strconv.Itoa(sd.settings.GetPreviewCap()))
	sd.previewMarginEntry.SetText(strconv.Itoa(int(sd.settings.GetPreviewMargin())))
	sd.languageSelect.SetSelected(sd.settings.GetLanguage())
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	// Validate and save the asset server URL
	if base := sd.apiBaseEntry.Text; base != "" {
		sd.settings.SetAPIBaseURL(base)
	}

	// Save catalog categories, skipping blank segments
	if raw := sd.categoriesEntry.Text; raw != "" {
		categories := []string{}
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				categories = append(categories, part)
			}
		}
		if len(categories) > 0 {
			sd.settings.SetCategories(categories)
		}
	}

	// Validate and save download directory
	if downloadDir := sd.downloadDirEntry.Text; downloadDir != "" {
		sd.settings.SetDownloadDirectory(downloadDir)
	}

	// Validate and save max parallel downloads
	if maxParallelStr := sd.maxParallelEntry.Text; maxParallelStr != "" {
		if maxParallel, err := strconv.Atoi(maxParallelStr); err == nil {
			sd.settings.SetMaxParallelDownloads(maxParallel)
		}
	}

	// Validate and save preview bounds
	if capStr := sd.previewCapEntry.Text; capStr != "" {
		if cap, err := strconv.Atoi(capStr); err == nil {
			sd.settings.SetPreviewCap(cap)
		}
	}

	if marginStr := sd.previewMarginEntry.Text; marginStr != "" {
		if margin, err := strconv.Atoi(marginStr); err == nil {
			sd.settings.SetPreviewMargin(margin)
		}
	}

	sd.settings.SetAutoRevealOnComplete(sd.autoRevealCheck.Checked)

	// Save language
	if sd.languageSelect.Selected != "" {
		sd.settings.SetLanguage(sd.languageSelect.Selected)
	}

	if sd.onSaved != nil {
		sd.onSaved()
	}

	// Show confirmation
	dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeySettingsSaved), sd.window)
}
