package ui

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/meshvault/mesh-gallery/internal/model"
	"github.com/meshvault/mesh-gallery/internal/preview"
)

// AssetCard represents one gallery cell: a rendered preview above the asset
// name and actions. The preview area follows the slot's display state, which
// the grid pushes in via ApplyState: a kind icon while idle, a spinner while
// loading, the rendered frame when ready, and an error message with a retry
// button when the load failed.
type AssetCard struct {
	widget.BaseWidget

	asset model.Asset
	state model.PreviewState

	localization *Localization

	// UI components
	previewImage *canvas.Image
	placeholder  *widget.Label
	loadingBar   *widget.ProgressBarInfinite
	errorLabel   *widget.Label
	nameLabel    *widget.Label
	kindLabel    *widget.Label

	// Action buttons
	retryBtn    *widget.Button
	downloadBtn *widget.Button

	// Callbacks
	onRetry    func(slotID string)
	onDownload func(asset model.Asset)
}

// NewAssetCard creates a new asset card widget
func NewAssetCard(asset model.Asset, localization *Localization) *AssetCard {
	ac := &AssetCard{
		asset:        asset,
		state:        model.PreviewStateIdle,
		localization: localization,
	}
	ac.ExtendBaseWidget(ac)
	ac.createUI()
	ac.updateFromState()
	return ac
}

// SetCallbacks sets the action callbacks
func (ac *AssetCard) SetCallbacks(onRetry func(slotID string), onDownload func(asset model.Asset)) {
	ac.onRetry = onRetry
	ac.onDownload = onDownload
}

// SlotID returns the preview slot identifier backing this card
func (ac *AssetCard) SlotID() string {
	return ac.asset.ID
}

// Asset returns the asset rendered by this card
func (ac *AssetCard) Asset() model.Asset {
	return ac.asset
}

// ApplyState updates the preview area for a display state transition.
// scene is non-nil only for the ready state. Must run on the UI goroutine.
func (ac *AssetCard) ApplyState(state model.PreviewState, scene preview.Scene) {
	ac.state = state

	if state == model.PreviewStateReady && scene != nil {
		if img := scene.Image(); img != nil {
			ac.previewImage.Image = img
		}
	} else {
		// Idle, loading and failed slots hold no pixels
		ac.previewImage.Image = nil
	}

	ac.updateFromState()
	ac.Refresh()
}

// createUI creates the UI components
func (ac *AssetCard) createUI() {
	ac.previewImage = &canvas.Image{}
	ac.previewImage.FillMode = canvas.ImageFillContain
	ac.previewImage.ScaleMode = canvas.ImageScaleFastest
	ac.previewImage.SetMinSize(fyne.NewSize(CardPreviewSize, CardPreviewSize))

	kindIcon := IconCube
	if ac.asset.Kind == model.AssetMap {
		kindIcon = IconMapPin
	}
	ac.placeholder = widget.NewLabel(kindIcon)
	ac.placeholder.Alignment = fyne.TextAlignCenter

	ac.loadingBar = widget.NewProgressBarInfinite()
	ac.loadingBar.Hide()

	ac.errorLabel = widget.NewLabel(IconError + " " + ac.localization.GetText(KeyPreviewFailed))
	ac.errorLabel.Alignment = fyne.TextAlignCenter
	ac.errorLabel.Importance = widget.DangerImportance
	ac.errorLabel.Hide()

	ac.nameLabel = widget.NewLabel(ac.asset.DisplayName())
	ac.nameLabel.TextStyle = fyne.TextStyle{Bold: true}
	ac.nameLabel.Truncation = fyne.TextTruncateEllipsis

	ac.kindLabel = widget.NewLabel(string(ac.asset.Kind))
	ac.kindLabel.TextStyle = fyne.TextStyle{Italic: true}

	ac.retryBtn = widget.NewButton(IconRetry+" "+ac.localization.GetText(KeyRetry), func() {
		if ac.onRetry != nil {
			ac.onRetry(ac.asset.ID)
		} else {
			log.Printf("onRetry callback is nil for asset %s", ac.asset.ID)
		}
	})
	ac.retryBtn.Importance = widget.HighImportance
	ac.retryBtn.Hide()

	ac.downloadBtn = widget.NewButton(IconDownload, func() {
		if ac.onDownload != nil {
			ac.onDownload(ac.asset)
		} else {
			log.Printf("onDownload callback is nil for asset %s", ac.asset.ID)
		}
	})
	ac.downloadBtn.Importance = widget.MediumImportance
}

// updateFromState shows the preview layer matching the current display state
func (ac *AssetCard) updateFromState() {
	switch ac.state {
	case model.PreviewStateLoading:
		ac.placeholder.Hide()
		ac.loadingBar.Show()
		ac.errorLabel.Hide()
		ac.retryBtn.Hide()
	case model.PreviewStateReady:
		ac.placeholder.Hide()
		ac.loadingBar.Hide()
		ac.errorLabel.Hide()
		ac.retryBtn.Hide()
	case model.PreviewStateFailed:
		ac.placeholder.Hide()
		ac.loadingBar.Hide()
		ac.errorLabel.Show()
		ac.retryBtn.Show()
	default: // idle
		ac.placeholder.Show()
		ac.loadingBar.Hide()
		ac.errorLabel.Hide()
		ac.retryBtn.Hide()
	}
}

// CreateRenderer creates the widget renderer
func (ac *AssetCard) CreateRenderer() fyne.WidgetRenderer {
	return &assetCardRenderer{card: ac}
}

// assetCardRenderer renders the asset card widget
type assetCardRenderer struct {
	card   *AssetCard
	layout *fyne.Container
}

// Layout arranges the components
func (r *assetCardRenderer) Layout(size fyne.Size) {
	if r.layout == nil {
		r.createLayout()
	}
	r.layout.Resize(size)
}

// MinSize returns the minimum size
func (r *assetCardRenderer) MinSize() fyne.Size {
	return fyne.NewSize(CardWidth, CardHeight)
}

// Refresh refreshes the renderer
func (r *assetCardRenderer) Refresh() {
	if r.layout == nil {
		r.createLayout()
	}
	r.card.previewImage.Refresh()
	r.layout.Refresh()
}

// Objects returns the container objects
func (r *assetCardRenderer) Objects() []fyne.CanvasObject {
	if r.layout == nil {
		r.createLayout()
	}
	return []fyne.CanvasObject{r.layout}
}

// Destroy cleans up the renderer
func (r *assetCardRenderer) Destroy() {}

// createLayout creates the main layout
func (r *assetCardRenderer) createLayout() {
	ac := r.card

	// Preview area: image at the back, state overlays stacked on top
	failedBox := container.NewVBox(ac.errorLabel, container.NewCenter(ac.retryBtn))
	previewArea := container.NewStack(
		ac.previewImage,
		container.NewCenter(ac.placeholder),
		container.NewVBox(layout.NewSpacer(), ac.loadingBar),
		container.NewCenter(failedBox),
	)

	// Info bar: name and kind on the left, download pinned right
	labels := container.NewVBox(ac.nameLabel, ac.kindLabel)
	infoBar := container.NewBorder(nil, nil, nil, ac.downloadBtn, labels)

	r.layout = container.NewBorder(nil, infoBar, nil, nil, previewArea)
}
