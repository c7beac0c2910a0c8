package ui

import (
	"fmt"
	"image/color"
	"log"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/meshvault/mesh-gallery/internal/model"
)

// Progress calculation constants
const (
	MaxProgressPercent  = 100
	MinProgressPercent  = 1
	RoundingCoefficient = 0.5
)

// DownloadRow represents a compact download task row widget
type DownloadRow struct {
	widget.BaseWidget

	task         *model.DownloadTask
	localization *Localization

	// UI components
	titleLabel    *widget.Label
	statusLabel   *widget.Label
	progressLabel *widget.Label
	speedEtaLabel *widget.Label

	// Action buttons
	stopResumeBtn *widget.Button
	revealBtn     *widget.Button
	openBtn       *widget.Button
	copyBtn       *widget.Button
	removeBtn     *widget.Button

	// Callbacks
	onStopResume func(taskID string)
	onReveal     func(filePath string)
	onOpen       func(filePath string)
	onCopyPath   func(filePath string)
	onRemove     func(taskID string)
}

// NewDownloadRow creates a new download row widget
func NewDownloadRow(task *model.DownloadTask, localization *Localization) *DownloadRow {
	if task == nil {
		log.Printf("Warning: NewDownloadRow called with nil task")
		task = &model.DownloadTask{
			ID:        "placeholder",
			Status:    model.TaskStatusPending,
			AssetName: "...",
		}
	}

	dr := &DownloadRow{
		task:         task,
		localization: localization,
	}
	dr.ExtendBaseWidget(dr)
	dr.createUI()
	dr.updateFromTask()
	return dr
}

// SetCallbacks sets the action callbacks
func (dr *DownloadRow) SetCallbacks(
	onStopResume func(taskID string),
	onReveal func(filePath string),
	onOpen func(filePath string),
	onCopyPath func(filePath string),
	onRemove func(taskID string),
) {
	dr.onStopResume = onStopResume
	dr.onReveal = onReveal
	dr.onOpen = onOpen
	dr.onCopyPath = onCopyPath
	dr.onRemove = onRemove
}

// UpdateTask updates the row with new task data
func (dr *DownloadRow) UpdateTask(task *model.DownloadTask) {
	if task == nil {
		log.Printf("Warning: UpdateTask called with nil task for existing task %s", dr.task.ID)
		return
	}

	dr.task = task
	dr.updateFromTask()
	dr.Refresh()
}

// createUI creates the UI components
func (dr *DownloadRow) createUI() {
	dr.titleLabel = widget.NewLabel("")
	dr.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	dr.titleLabel.Truncation = fyne.TextTruncateEllipsis
	dr.titleLabel.Alignment = fyne.TextAlignLeading

	dr.statusLabel = widget.NewLabel("")
	dr.statusLabel.Alignment = fyne.TextAlignTrailing
	dr.progressLabel = widget.NewLabel("")
	dr.progressLabel.Alignment = fyne.TextAlignTrailing
	dr.speedEtaLabel = widget.NewLabel("")
	dr.speedEtaLabel.Alignment = fyne.TextAlignLeading
	dr.speedEtaLabel.TextStyle = fyne.TextStyle{Monospace: true}

	dr.stopResumeBtn = widget.NewButton(dr.localization.GetText(KeyStop), func() {
		if dr.onStopResume != nil {
			dr.onStopResume(dr.task.ID)
		} else {
			log.Printf("onStopResume callback is nil for task %s", dr.task.ID)
		}
	})
	dr.stopResumeBtn.Importance = widget.MediumImportance

	dr.revealBtn = widget.NewButton(IconFolder+" "+dr.localization.GetText(KeyReveal), func() {
		currentTask := dr.task
		if !hasLocalOutputPath(currentTask) {
			widget.ShowPopUp(widget.NewLabel("File path not available yet. Wait for download to complete."),
				fyne.CurrentApp().Driver().CanvasForObject(dr.revealBtn))
			return
		}
		if dr.onReveal != nil {
			dr.onReveal(currentTask.OutputPath)
		}
	})
	dr.revealBtn.Importance = widget.MediumImportance

	dr.openBtn = widget.NewButton(dr.localization.GetText(KeyOpen), func() {
		currentTask := dr.task
		if !hasLocalOutputPath(currentTask) {
			widget.ShowPopUp(widget.NewLabel("File path not available"),
				fyne.CurrentApp().Driver().CanvasForObject(dr.openBtn))
			return
		}
		if dr.onOpen != nil {
			dr.onOpen(currentTask.OutputPath)
		}
	})
	dr.openBtn.Importance = widget.MediumImportance

	dr.copyBtn = widget.NewButton("path", func() {
		currentTask := dr.task
		if !hasLocalOutputPath(currentTask) {
			widget.ShowPopUp(widget.NewLabel("Copy path not available"),
				fyne.CurrentApp().Driver().CanvasForObject(dr.copyBtn))
			return
		}
		if dr.onCopyPath != nil {
			dr.onCopyPath(currentTask.OutputPath)
		} else {
			log.Printf("onCopyPath callback is nil for task %s", currentTask.ID)
		}
	})
	dr.copyBtn.Importance = widget.MediumImportance

	dr.removeBtn = widget.NewButton(IconClose, func() {
		if dr.onRemove != nil {
			dr.onRemove(dr.task.ID)
		} else {
			log.Printf("onRemove callback is nil for task %s", dr.task.ID)
		}
	})
	dr.removeBtn.Importance = widget.LowImportance
}

// hasLocalOutputPath reports whether the task's output path points at a real
// local file rather than being empty or still a remote URL
func hasLocalOutputPath(task *model.DownloadTask) bool {
	if task.OutputPath == "" || strings.HasPrefix(task.OutputPath, "http") {
		return false
	}
	return strings.Contains(task.OutputPath, "/") || strings.Contains(task.OutputPath, "\\")
}

// updateFromTask updates UI components based on task state
func (dr *DownloadRow) updateFromTask() {
	if dr.task == nil {
		log.Printf("Warning: updateFromTask called with nil task")
		return
	}

	dr.titleLabel.SetText(dr.task.GetDisplayTitle())

	// Update status label color and text
	switch dr.task.Status {
	case model.TaskStatusError:
		dr.statusLabel.Importance = widget.DangerImportance
		dr.statusLabel.SetText(IconError + " " + dr.task.Status.String())
	case model.TaskStatusCompleted:
		dr.statusLabel.Importance = widget.SuccessImportance
		dr.statusLabel.SetText(dr.task.Status.String())
	case model.TaskStatusDownloading:
		dr.statusLabel.Importance = widget.HighImportance
		dr.statusLabel.SetText("▶ " + dr.task.Status.String())
	case model.TaskStatusPending:
		dr.statusLabel.Importance = widget.MediumImportance
		dr.statusLabel.SetText("⏳ " + dr.task.Status.String())
	case model.TaskStatusStopped, model.TaskStatusStopping:
		dr.statusLabel.Importance = widget.MediumImportance
		dr.statusLabel.SetText("⏹ " + dr.task.Status.String())
	default:
		dr.statusLabel.Importance = widget.MediumImportance
		dr.statusLabel.SetText(dr.task.Status.String())
	}

	// Update progress label, falling back to the fractional progress when the
	// integer percent has not been sampled yet
	effectivePercent := dr.task.Percent
	if dr.task.Status == model.TaskStatusCompleted {
		effectivePercent = MaxProgressPercent
	} else if effectivePercent <= 0 && dr.task.Progress > 0 {
		effectivePercent = int(dr.task.Progress*MaxProgressPercent + RoundingCoefficient)
		if effectivePercent == 0 {
			effectivePercent = MinProgressPercent
		}
	}
	if effectivePercent < 0 {
		effectivePercent = 0
	}
	if effectivePercent > MaxProgressPercent {
		effectivePercent = MaxProgressPercent
	}
	if dr.task.Status == model.TaskStatusCompleted {
		dr.progressLabel.SetText("")
	} else {
		dr.progressLabel.SetText(fmt.Sprintf(ProgressLabelFormat, effectivePercent))
	}

	// Update speed and ETA
	speedEtaText := ""
	switch dr.task.Status {
	case model.TaskStatusDownloading:
		if dr.task.Speed != "" {
			speedEtaText = dr.task.Speed
		}
		if dr.task.ETASec > 0 {
			if speedEtaText != "" {
				speedEtaText += MiddleDotSeparator
			}
			speedEtaText += dr.task.GetETAString()
		}
		if speedEtaText == "" {
			speedEtaText = DashPlaceholder
		}
	case model.TaskStatusCompleted:
		speedEtaText = dr.task.GetSizeString()
	case model.TaskStatusError:
		speedEtaText = dr.task.LastError
	}
	dr.speedEtaLabel.SetText(speedEtaText)

	dr.updateButtons()
}

// updateButtons updates button states based on task status
func (dr *DownloadRow) updateButtons() {
	switch dr.task.Status {
	case model.TaskStatusStarting, model.TaskStatusDownloading:
		dr.stopResumeBtn.Enable()
		dr.stopResumeBtn.SetText(dr.localization.GetText(KeyStop))
	case model.TaskStatusStopped, model.TaskStatusError:
		dr.stopResumeBtn.Enable()
		dr.stopResumeBtn.SetText(dr.localization.GetText(KeyResume))
	case model.TaskStatusStopping:
		dr.stopResumeBtn.Disable()
		dr.stopResumeBtn.SetText(dr.localization.GetText(KeyStop))
	default: // pending, completed
		dr.stopResumeBtn.Disable()
		dr.stopResumeBtn.SetText(dr.localization.GetText(KeyStop))
	}

	// Reveal, Open and Copy only make sense once the file landed on disk
	if hasLocalOutputPath(dr.task) && dr.task.Status == model.TaskStatusCompleted {
		dr.revealBtn.Enable()
		dr.openBtn.Enable()
		dr.copyBtn.Enable()
	} else {
		dr.revealBtn.Disable()
		dr.openBtn.Disable()
		dr.copyBtn.Disable()
	}

	// Remove is blocked while the transfer is active
	if dr.task.Status.IsActive() {
		dr.removeBtn.Disable()
	} else {
		dr.removeBtn.Enable()
	}
}

// CreateRenderer creates the widget renderer
func (dr *DownloadRow) CreateRenderer() fyne.WidgetRenderer {
	return &downloadRowRenderer{row: dr}
}

// downloadRowRenderer renders the download row widget
type downloadRowRenderer struct {
	row    *DownloadRow
	layout *fyne.Container
}

// Layout arranges the components
func (r *downloadRowRenderer) Layout(size fyne.Size) {
	if r.layout == nil {
		r.createLayout()
	}
	if size.Width < RowMinWidth {
		size.Width = RowMinWidth
	}
	if size.Height < RowMinHeight {
		size.Height = RowMinHeight
	}
	r.layout.Resize(size)
}

// MinSize returns the minimum size
func (r *downloadRowRenderer) MinSize() fyne.Size {
	if r.layout != nil {
		return r.layout.MinSize()
	}
	return fyne.NewSize(RowMinWidth, RowMinHeight)
}

// Refresh refreshes the renderer
func (r *downloadRowRenderer) Refresh() {
	if r.layout == nil {
		r.createLayout()
	}
	r.layout.Refresh()
}

// Objects returns the container objects
func (r *downloadRowRenderer) Objects() []fyne.CanvasObject {
	if r.layout == nil {
		r.createLayout()
	}
	return []fyne.CanvasObject{r.layout}
}

// Destroy cleans up the renderer
func (r *downloadRowRenderer) Destroy() {}

// createLayout creates the main layout
func (r *downloadRowRenderer) createLayout() {
	dr := r.row

	// Helper to fix width using a transparent rectangle underneath
	fixedWidth := func(w float32, obj fyne.CanvasObject) fyne.CanvasObject {
		spacer := canvas.NewRectangle(color.RGBA{0, 0, 0, 0})
		spacer.SetMinSize(fyne.NewSize(w, obj.MinSize().Height))
		return container.NewStack(spacer, obj)
	}

	// Compact info: status on the first row, speed and percent on the second
	rightSide := container.NewVBox(
		fixedWidth(StatusLabelWidth, dr.statusLabel),
		container.NewHBox(
			fixedWidth(SpeedLabelWidth, dr.speedEtaLabel),
			fixedWidth(PercentLabelWidth, dr.progressLabel),
		),
	)

	actionRow := container.NewHBox(
		dr.stopResumeBtn,
		dr.revealBtn,
		dr.openBtn,
		dr.copyBtn,
		dr.removeBtn,
	)

	// Buttons pinned to the right edge, info next to them, title fills the rest
	rightCluster := container.NewBorder(nil, nil, nil, actionRow, rightSide)
	mainContent := container.NewBorder(nil, nil, nil, rightCluster, dr.titleLabel)

	r.layout = container.NewVBox(
		mainContent,
		widget.NewSeparator(),
	)
}
