package ui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/meshvault/mesh-gallery/internal/catalog"
	"github.com/meshvault/mesh-gallery/internal/config"
	"github.com/meshvault/mesh-gallery/internal/download"
	"github.com/meshvault/mesh-gallery/internal/model"
	"github.com/meshvault/mesh-gallery/internal/platform"
	"github.com/meshvault/mesh-gallery/internal/preview"
)

// RootUI represents the main UI structure
type RootUI struct {
	window fyne.Window

	settings     *config.Settings
	localization *Localization

	catalogClient *catalog.Client
	locator       *catalog.Locator
	downloadSvc   download.Downloader
	sceneLoader   preview.SceneLoader
	session       *preview.Session

	// Gallery
	grid           *AssetGrid
	searchEntry    *widget.Entry
	categorySelect *widget.Select
	statusLabel    *widget.Label

	catalogMutex      sync.Mutex
	categories        []model.Category
	categoryKeys      []string
	loadedCategories  string
	visibleAssetCount int

	// Downloads panel
	downloadsList  *widget.List
	downloadsPanel *fyne.Container
	downloadTasks  []*model.DownloadTask

	// Search debouncing
	searchMutex sync.Mutex
	searchTimer *time.Timer

	// UI update debouncing
	uiUpdateMutex sync.Mutex
	lastUIUpdate  time.Time
	taskStatuses  map[string]model.TaskStatus

	// Notification panel
	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationSpinner   *widget.ProgressBarInfinite
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, downloadSvc download.Downloader, sceneLoader preview.SceneLoader) *RootUI {
	// Initialize settings
	settings := config.NewSettings(app)

	// Initialize localization
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	// Get configured downloads directory and make sure it exists
	downloadsDir := settings.GetDownloadDirectory()
	platform.CreateDirectoryIfNotExists(downloadsDir)
	downloadSvc.SetDownloadDirectory(downloadsDir)
	downloadSvc.SetMaxParallelDownloads(settings.GetMaxParallelDownloads())

	baseURL := settings.GetAPIBaseURL()

	ui := &RootUI{
		window:        window,
		settings:      settings,
		localization:  localization,
		catalogClient: catalog.NewClient(baseURL),
		locator:       catalog.NewLocator(baseURL),
		downloadSvc:   downloadSvc,
		sceneLoader:   sceneLoader,
		taskStatuses:  make(map[string]model.TaskStatus),
	}

	log.Printf("RootUI initialized with download service: %v", ui.downloadSvc != nil)

	// Set window title
	window.SetTitle(localization.GetText(KeyAppTitle))

	// Set up callback for download updates
	ui.downloadSvc.SetUpdateCallback(ui.onTaskUpdate)

	ui.setupUI()
	ui.rebuildPreviewSession()

	// Fetch the catalog in the background once the shell is up
	go ui.loadCatalog()

	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	// Create menu
	ui.createMenu()

	// Create search entry
	ui.searchEntry = widget.NewEntry()
	ui.searchEntry.SetPlaceHolder(IconSearch + " " + ui.localization.GetText(KeySearchAssets))
	ui.searchEntry.OnChanged = ui.onSearchChanged

	// Create category selector; options arrive with the catalog
	ui.categorySelect = widget.NewSelect(
		[]string{ui.localization.GetText(KeyAllCategories)},
		func(string) { ui.applyFilter() },
	)
	ui.categoryKeys = []string{CategoryAll}
	ui.categorySelect.SetSelectedIndex(0)

	// Create settings button
	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	// Create catalog refresh button
	refreshBtn := widget.NewButton(IconRetry, func() {
		go ui.loadCatalog()
	})
	refreshBtn.Importance = widget.LowImportance

	// Create downloads panel toggle
	downloadsBtn := widget.NewButton(IconDownload+" "+ui.localization.GetText(KeyDownloads), ui.onToggleDownloads)
	downloadsBtn.Importance = widget.LowImportance

	// Create logo
	logo, err := LoadLogoResource()
	var logoImage *canvas.Image
	if err == nil {
		logoImage = canvas.NewImageFromResource(logo)
		logoImage.SetMinSize(fyne.NewSize(32, 32))
		logoImage.FillMode = canvas.ImageFillContain
	}

	// Create top panel with search in the middle
	leftItems := []fyne.CanvasObject{}
	if logoImage != nil {
		leftItems = append(leftItems, logoImage)
	}
	leftItems = append(leftItems, settingsBtn, ui.categorySelect)
	rightItems := container.NewHBox(refreshBtn, downloadsBtn)
	topPanel := container.NewBorder(nil, nil, container.NewHBox(leftItems...), rightItems, ui.searchEntry)

	// Create notification panel under the toolbar (hidden by default)
	ui.notificationLabel = widget.NewLabel("")
	ui.notificationLabel.Alignment = fyne.TextAlignLeading
	ui.notificationSpinner = widget.NewProgressBarInfinite()
	ui.notificationSpinner.Hide()
	ui.notificationContainer = container.NewHBox(ui.notificationSpinner, container.NewPadded(ui.notificationLabel))
	ui.notificationContainer.Hide()

	topCombined := container.NewVBox(topPanel, ui.notificationContainer)

	// Create the gallery grid
	ui.grid = NewAssetGrid(ui.localization, ui.locator, ui.onDownloadAsset)

	// Create downloads list
	ui.downloadsList = widget.NewList(
		func() int {
			return len(ui.downloadTasks)
		},
		func() fyne.CanvasObject { return ui.createDownloadItem() },
		func(id widget.ListItemID, obj fyne.CanvasObject) { ui.updateDownloadItem(id, obj) },
	)

	clearBtn := widget.NewButton(ui.localization.GetText(KeyClearFinished), ui.onClearFinished)
	clearBtn.Importance = widget.LowImportance

	downloadsTitle := widget.NewLabel(ui.localization.GetText(KeyDownloads))
	downloadsTitle.TextStyle = fyne.TextStyle{Bold: true}
	downloadsHeader := container.NewBorder(nil, nil, downloadsTitle, clearBtn)

	// Fix the panel height with a transparent spacer underneath
	panelSpacer := canvas.NewRectangle(color.RGBA{0, 0, 0, 0})
	panelSpacer.SetMinSize(fyne.NewSize(0, DownloadsPanelHeight))
	panelBody := container.NewBorder(downloadsHeader, nil, nil, nil, ui.downloadsList)
	ui.downloadsPanel = container.NewStack(panelSpacer, panelBody)
	ui.downloadsPanel.Hide()

	// Status bar
	ui.statusLabel = widget.NewLabel("")

	bottom := container.NewVBox(ui.downloadsPanel, ui.statusLabel)

	content := container.NewBorder(
		topCombined,          // top
		bottom,               // bottom
		nil,                  // left
		nil,                  // right
		ui.grid.Container(),  // center - the gallery
	)

	ui.window.SetContent(content)

	log.Printf("UI setup completed successfully")
}

// rebuildPreviewSession replaces the preview session using the current
// settings. The previous session's handles are disposed on teardown.
func (ui *RootUI) rebuildPreviewSession() {
	if ui.session != nil {
		ui.session.Teardown()
	}

	ui.session = preview.NewSession(preview.SessionConfig{
		Cap:      ui.settings.GetPreviewCap(),
		Margin:   ui.settings.GetPreviewMargin(),
		Loader:   ui.sceneLoader,
		Schedule: fyne.Do,
		OnState:  ui.grid.ApplyDisplayState,
	})
	ui.grid.SetSession(ui.session)
}

// Shutdown releases preview resources; call when the window closes
func (ui *RootUI) Shutdown() {
	if ui.session != nil {
		ui.session.Teardown()
	}
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	// Settings menu item
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	// Language submenu
	languageMenu := fyne.NewMenu(IconLanguage + " " + ui.localization.GetText(KeyLanguage))

	availableLanguages := ui.localization.GetAvailableLanguages()
	for code, name := range availableLanguages {
		langCode := code // Capture for closure
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})

		// Mark current language
		if ui.localization.GetCurrentLanguage() == code {
			langItem.Checked = true
		}

		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	// Create main menu
	mainMenu := fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		languageMenu,
	)

	ui.window.SetMainMenu(mainMenu)
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	// Update localization
	ui.localization.SetLanguage(langCode)

	// Save to settings
	ui.settings.SetLanguage(langCode)

	// Update UI texts
	ui.refreshUITexts()

	// Recreate menu to update checkmarks
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	// Update window title
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))

	// Update UI elements
	ui.searchEntry.SetPlaceHolder(IconSearch + " " + ui.localization.GetText(KeySearchAssets))
	ui.rebuildCategoryOptions()

	// Rebuild cards so button texts pick up the new language
	ui.applyFilter()
}

// loadCatalog fetches the configured categories from the asset backend
func (ui *RootUI) loadCatalog() {
	ui.showNotification(ui.localization.GetText(KeyLoadingCatalog), true)

	ctx, cancel := context.WithTimeout(context.Background(), catalog.DefaultFetchTimeout)
	defer cancel()

	requested := ui.settings.GetCategories()
	categories, err := ui.catalogClient.FetchAll(ctx, requested)

	fyne.Do(func() {
		if err != nil {
			log.Printf("Catalog load failed: %v", err)
			ui.showNotification(ui.localization.GetText(KeyCatalogFailed)+": "+err.Error(), false)
			return
		}

		ui.catalogMutex.Lock()
		ui.categories = categories
		ui.loadedCategories = strings.Join(requested, ",")
		ui.catalogMutex.Unlock()

		ui.rebuildCategoryOptions()
		ui.applyFilter()

		ui.showNotification(ui.localization.GetText(KeyCatalogLoaded), false)
		go func() {
			time.Sleep(NotificationHideDelay)
			ui.hideNotification()
		}()

		log.Printf("Catalog loaded with %d categories", len(categories))
	})
}

// rebuildCategoryOptions refreshes the category selector entries while
// keeping the current selection when it still exists
func (ui *RootUI) rebuildCategoryOptions() {
	selectedKey := ui.selectedCategoryKey()

	ui.catalogMutex.Lock()
	categories := ui.categories
	ui.catalogMutex.Unlock()

	options := []string{ui.localization.GetText(KeyAllCategories)}
	keys := []string{CategoryAll}
	selectedIndex := 0
	for _, cat := range categories {
		if cat.Key == selectedKey {
			selectedIndex = len(options)
		}
		options = append(options, cat.Key)
		keys = append(keys, cat.Key)
	}

	ui.categoryKeys = keys
	ui.categorySelect.Options = options
	ui.categorySelect.SetSelectedIndex(selectedIndex)
}

// selectedCategoryKey returns the key of the selected category
func (ui *RootUI) selectedCategoryKey() string {
	index := ui.categorySelect.SelectedIndex()
	if index < 0 || index >= len(ui.categoryKeys) {
		return CategoryAll
	}
	return ui.categoryKeys[index]
}

// onSearchChanged debounces search input before filtering the gallery
func (ui *RootUI) onSearchChanged(string) {
	ui.searchMutex.Lock()
	defer ui.searchMutex.Unlock()

	if ui.searchTimer != nil {
		ui.searchTimer.Stop()
	}
	ui.searchTimer = time.AfterFunc(SearchDebounce, func() {
		fyne.Do(ui.applyFilter)
	})
}

// applyFilter rebuilds the gallery from the selected category and search
// query. Must run on the UI goroutine.
func (ui *RootUI) applyFilter() {
	query := strings.TrimSpace(ui.searchEntry.Text)
	selectedKey := ui.selectedCategoryKey()

	ui.catalogMutex.Lock()
	categories := ui.categories
	ui.catalogMutex.Unlock()

	var assets []model.Asset
	for _, cat := range categories {
		if selectedKey != CategoryAll && cat.Key != selectedKey {
			continue
		}
		assets = append(assets, cat.FilterAssets(query)...)
	}

	ui.visibleAssetCount = len(assets)
	ui.grid.SetAssets(assets)
	ui.updateStatusBar()
}

// updateStatusBar refreshes the bottom status line
func (ui *RootUI) updateStatusBar() {
	text := fmt.Sprintf("%d %s", ui.visibleAssetCount, ui.localization.GetText(KeyAssetsCount))
	if active := ui.downloadSvc.ActiveCount(); active > 0 {
		text += MiddleDotSeparator + fmt.Sprintf("%d %s", active, strings.ToLower(ui.localization.GetText(KeyDownloads)))
	}
	ui.statusLabel.SetText(text)
}

// showNotification displays a message in the notification panel under the
// toolbar. When spinning is true, a spinner indicates background activity.
func (ui *RootUI) showNotification(message string, spinning bool) {
	if ui.notificationLabel == nil || ui.notificationContainer == nil || ui.notificationSpinner == nil {
		return
	}
	fyne.Do(func() {
		ui.notificationLabel.SetText(message)
		if spinning {
			ui.notificationSpinner.Show()
		} else {
			ui.notificationSpinner.Hide()
		}
		ui.notificationContainer.Show()
		ui.notificationContainer.Refresh()
	})
}

// hideNotification hides the notification panel.
func (ui *RootUI) hideNotification() {
	if ui.notificationContainer == nil || ui.notificationSpinner == nil {
		return
	}
	fyne.Do(func() {
		ui.notificationSpinner.Hide()
		ui.notificationContainer.Hide()
	})
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, ui.applySettings)
}

// applySettings pushes saved settings into the running services
func (ui *RootUI) applySettings() {
	downloadsDir := ui.settings.GetDownloadDirectory()
	platform.CreateDirectoryIfNotExists(downloadsDir)
	ui.downloadSvc.SetDownloadDirectory(downloadsDir)
	ui.downloadSvc.SetMaxParallelDownloads(ui.settings.GetMaxParallelDownloads())

	// Cap and margin are baked into the session, so swap it out
	ui.rebuildPreviewSession()

	if base := ui.settings.GetAPIBaseURL(); base != ui.catalogClient.BaseURL() {
		log.Printf("Asset server changed to %s, reloading catalog", base)
		ui.catalogClient = catalog.NewClient(base)
		ui.locator = catalog.NewLocator(base)
		go ui.loadCatalog()
		return
	}

	ui.catalogMutex.Lock()
	loaded := ui.loadedCategories
	ui.catalogMutex.Unlock()
	if keys := strings.Join(ui.settings.GetCategories(), ","); keys != loaded {
		log.Printf("Catalog categories changed to %s, reloading", keys)
		go ui.loadCatalog()
		return
	}

	ui.applyFilter()
}

// onToggleDownloads shows or hides the downloads panel
func (ui *RootUI) onToggleDownloads() {
	if ui.downloadsPanel.Visible() {
		ui.downloadsPanel.Hide()
	} else {
		ui.refreshDownloads()
		ui.downloadsPanel.Show()
	}

	// The gallery viewport changed height, so re-report geometry
	fyne.Do(ui.grid.RefreshGeometry)
}

// showDownloadsPanel reveals the downloads panel if hidden
func (ui *RootUI) showDownloadsPanel() {
	if !ui.downloadsPanel.Visible() {
		ui.onToggleDownloads()
	}
}

// onDownloadAsset queues the asset file for download
func (ui *RootUI) onDownloadAsset(asset model.Asset) {
	url := ui.locator.ResourceURL(asset)
	log.Printf("Adding download task for asset %s: %s", asset.ID, url)

	task, err := ui.downloadSvc.AddTask(url, asset.DisplayName()+asset.FileExt())
	if err != nil {
		if errors.Is(err, download.ErrTaskExists) {
			widget.ShowPopUp(widget.NewLabel(ui.localization.GetText(KeyAlreadyInQueue)), ui.window.Canvas())
		} else {
			widget.ShowPopUp(widget.NewLabel("Error: "+err.Error()), ui.window.Canvas())
		}
		return
	}

	log.Printf("Task added successfully: ID=%s, Status=%s", task.ID, task.Status)

	ui.refreshDownloads()
	ui.showDownloadsPanel()
	widget.ShowPopUp(widget.NewLabel(ui.localization.GetText(KeyDownloadStarted)), ui.window.Canvas())
}

// createDownloadItem creates a new download row widget
func (ui *RootUI) createDownloadItem() fyne.CanvasObject {
	row := NewDownloadRow(nil, ui.localization)
	row.SetCallbacks(ui.onStopResumeTask, ui.onRevealFile, ui.onOpenFile, ui.onCopyPath, ui.onRemoveTask)
	return row
}

// updateDownloadItem updates a download row with current data
func (ui *RootUI) updateDownloadItem(id widget.ListItemID, item fyne.CanvasObject) {
	if id >= len(ui.downloadTasks) {
		return
	}

	task := ui.downloadTasks[id]
	if task == nil {
		return
	}

	if row, ok := item.(*DownloadRow); ok {
		// Re-set callbacks so recycled rows stay connected
		row.SetCallbacks(ui.onStopResumeTask, ui.onRevealFile, ui.onOpenFile, ui.onCopyPath, ui.onRemoveTask)
		row.UpdateTask(task)
	}
}

// refreshDownloads snapshots the service's tasks and refreshes the panel.
// Must run on the UI goroutine.
func (ui *RootUI) refreshDownloads() {
	ui.downloadTasks = ui.downloadSvc.GetAllTasks()
	ui.downloadsList.Refresh()
	ui.updateStatusBar()
}

// onStopResumeTask stops an active download or restarts a settled one
func (ui *RootUI) onStopResumeTask(taskID string) {
	log.Printf("onStopResumeTask called for task %s", taskID)

	task, exists := ui.downloadSvc.GetTask(taskID)
	if !exists {
		log.Printf("Task %s not found", taskID)
		widget.ShowPopUp(widget.NewLabel("Task not found"), ui.window.Canvas())
		return
	}

	switch task.Status {
	case model.TaskStatusStarting, model.TaskStatusDownloading:
		log.Printf("Stopping task %s", taskID)
		if err := ui.downloadSvc.StopTask(taskID); err != nil {
			log.Printf("Error stopping task %s: %v", taskID, err)
			widget.ShowPopUp(widget.NewLabel("Error stopping task: "+err.Error()), ui.window.Canvas())
		}
	case model.TaskStatusStopped, model.TaskStatusError:
		log.Printf("Restarting task %s", taskID)
		if err := ui.downloadSvc.RestartTask(taskID); err != nil {
			log.Printf("Error restarting task %s: %v", taskID, err)
			widget.ShowPopUp(widget.NewLabel("Error restarting task: "+err.Error()), ui.window.Canvas())
		}
	default:
		log.Printf("Cannot stop/resume task %s in status: %s", taskID, task.Status)
	}
}

// onRevealFile handles revealing a file in the system file manager
func (ui *RootUI) onRevealFile(filePath string) {
	log.Printf("onRevealFile called for path: %s", filePath)

	if filePath == "" || strings.HasPrefix(filePath, "http") {
		log.Printf("Error: onRevealFile called with invalid path: %s", filePath)
		widget.ShowPopUp(widget.NewLabel("Error: No file path provided"), ui.window.Canvas())
		return
	}

	if err := platform.OpenFileInManager(filePath); err != nil {
		log.Printf("Error revealing file %s: %v", filePath, err)
		widget.ShowPopUp(widget.NewLabel(ui.localization.GetText(KeyErrorOpeningFile)+": "+err.Error()), ui.window.Canvas())
		return
	}

	log.Printf("File revealed successfully: %s", filePath)
}

// onOpenFile handles opening a downloaded file with the default application
func (ui *RootUI) onOpenFile(filePath string) {
	log.Printf("onOpenFile called for path: %s", filePath)

	if filePath == "" || strings.HasPrefix(filePath, "http") {
		log.Printf("Error: onOpenFile called with invalid path: %s", filePath)
		widget.ShowPopUp(widget.NewLabel("Error: No file path provided"), ui.window.Canvas())
		return
	}

	if err := platform.OpenFileWithDefaultApp(filePath); err != nil {
		log.Printf("Error opening file %s: %v", filePath, err)
		widget.ShowPopUp(widget.NewLabel(ui.localization.GetText(KeyErrorOpeningFile)+": "+err.Error()), ui.window.Canvas())
		return
	}

	log.Printf("File opened successfully: %s", filePath)
}

// onCopyPath copies the completed file's path to the clipboard
func (ui *RootUI) onCopyPath(filePath string) {
	if filePath == "" || strings.HasPrefix(filePath, "http") {
		log.Printf("Error: onCopyPath called with invalid path: %s", filePath)
		return
	}

	fyne.CurrentApp().Clipboard().SetContent(filePath)
	log.Printf("Copied path to clipboard: %s", filePath)
}

// onRemoveTask handles removing a task from the list
func (ui *RootUI) onRemoveTask(taskID string) {
	log.Printf("onRemoveTask called for task %s", taskID)

	if err := ui.downloadSvc.RemoveTask(taskID); err != nil {
		log.Printf("Error removing task %s: %v", taskID, err)
		widget.ShowPopUp(widget.NewLabel("Error removing task: "+err.Error()), ui.window.Canvas())
		return
	}

	ui.refreshDownloads()
}

// onClearFinished drops completed, stopped and failed tasks from the panel
func (ui *RootUI) onClearFinished() {
	removed := ui.downloadSvc.ClearFinished()
	log.Printf("Cleared %d finished tasks", removed)
	ui.refreshDownloads()
}

// onTaskUpdate handles task updates from the download service
func (ui *RootUI) onTaskUpdate(task *model.DownloadTask) {
	log.Printf("Task update received: id=%s status=%s percent=%d progress=%.2f output=%s",
		task.ID, task.Status, task.Percent, task.Progress, task.OutputPath)

	ui.uiUpdateMutex.Lock()
	prev, known := ui.taskStatuses[task.ID]
	ui.taskStatuses[task.ID] = task.Status
	wasCompleted := known && prev != model.TaskStatusCompleted && task.Status == model.TaskStatusCompleted

	// Progress ticks are frequent; coalesce refreshes between status changes
	tooSoon := false
	if known && prev == task.Status && task.Status == model.TaskStatusDownloading {
		tooSoon = time.Since(ui.lastUIUpdate) < UIUpdateDebounce
	}
	if !tooSoon {
		ui.lastUIUpdate = time.Now()
	}
	ui.uiUpdateMutex.Unlock()

	if wasCompleted {
		log.Printf("Task %s completed, OutputPath: %s", task.ID, task.OutputPath)
		ui.sendCompletionNotification(task)

		// Auto-reveal if enabled
		if ui.settings.GetAutoRevealOnComplete() && task.OutputPath != "" {
			log.Printf("Auto-revealing completed task %s: %s", task.ID, task.OutputPath)
			ui.onRevealFile(task.OutputPath)
		}
	}

	if tooSoon {
		return
	}

	fyne.Do(ui.refreshDownloads)
}

// sendCompletionNotification sends a system notification for completed downloads
func (ui *RootUI) sendCompletionNotification(task *model.DownloadTask) {
	if task.Status != model.TaskStatusCompleted {
		return
	}

	fyne.CurrentApp().SendNotification(&fyne.Notification{
		Title:   ui.localization.GetText(KeyDownloadCompleted),
		Content: task.GetDisplayTitle(),
	})

	// Show in-app toast notification with action buttons
	ui.showToastNotification(task)
}

// showToastNotification shows an in-app toast notification with action buttons
func (ui *RootUI) showToastNotification(task *model.DownloadTask) {
	fyne.Do(func() {
		titleLabel := widget.NewLabel(ui.localization.GetText(KeyDownloadCompleted))
		titleLabel.TextStyle = fyne.TextStyle{Bold: true}

		messageLabel := widget.NewLabel(task.GetDisplayTitle())
		messageLabel.Truncation = fyne.TextTruncateEllipsis

		revealBtn := widget.NewButton(ui.localization.GetText(KeyReveal), func() {
			if task.OutputPath != "" {
				ui.onRevealFile(task.OutputPath)
			} else {
				widget.ShowPopUp(widget.NewLabel("File path not available"), ui.window.Canvas())
			}
		})
		revealBtn.Importance = widget.HighImportance

		openBtn := widget.NewButton(ui.localization.GetText(KeyOpen), func() {
			if task.OutputPath != "" {
				ui.onOpenFile(task.OutputPath)
			} else {
				widget.ShowPopUp(widget.NewLabel("File path not available"), ui.window.Canvas())
			}
		})
		openBtn.Importance = widget.MediumImportance

		var toastPopup *widget.PopUp
		closeBtn := widget.NewButton(IconClose, func() {
			if toastPopup != nil {
				toastPopup.Hide()
			}
		})
		closeBtn.Importance = widget.LowImportance

		header := container.NewBorder(nil, nil, titleLabel, closeBtn)
		actions := container.NewHBox(revealBtn, openBtn)
		content := container.NewVBox(
			header,
			messageLabel,
			actions,
		)

		toastPopup = widget.NewPopUp(content, ui.window.Canvas())

		// Position in top-right corner
		canvasSize := ui.window.Canvas().Size()
		toastSize := fyne.NewSize(ToastWidth, ToastHeight)
		toastPos := fyne.NewPos(canvasSize.Width-toastSize.Width-ToastMargin, ToastMargin)

		toastPopup.Resize(toastSize)
		toastPopup.Move(toastPos)
		toastPopup.Show()

		// Auto-hide after configured time
		go func() {
			time.Sleep(ToastAutoHide)
			fyne.Do(func() {
				if toastPopup != nil {
					toastPopup.Hide()
				}
			})
		}()
	})
}
