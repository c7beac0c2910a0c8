package ui

import (
	"log"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/meshvault/mesh-gallery/internal/catalog"
	"github.com/meshvault/mesh-gallery/internal/model"
	"github.com/meshvault/mesh-gallery/internal/preview"
)

// AssetGrid is the scrollable gallery of asset cards. It owns the mapping
// between the widget tree and the preview session: every card is one preview
// slot, scrolling pushes the viewport into the session, and display state
// transitions flow back into the cards via ApplyDisplayState.
type AssetGrid struct {
	localization *Localization
	locator      *catalog.Locator

	scroll  *container.Scroll
	content *fyne.Container
	root    *fyne.Container
	empty   *widget.Label

	mu      sync.Mutex
	session *preview.Session
	cards   map[string]*AssetCard

	// Callbacks
	onDownload func(asset model.Asset)
}

// NewAssetGrid creates an empty gallery grid
func NewAssetGrid(localization *Localization, locator *catalog.Locator, onDownload func(asset model.Asset)) *AssetGrid {
	g := &AssetGrid{
		localization: localization,
		locator:      locator,
		cards:        make(map[string]*AssetCard),
		onDownload:   onDownload,
	}

	g.content = container.NewGridWrap(fyne.NewSize(CardWidth+CardPadding, CardHeight+CardPadding))
	g.scroll = container.NewScroll(g.content)
	g.scroll.SetMinSize(fyne.NewSize(GridMinWidth, GridMinHeight))
	g.scroll.OnScrolled = func(fyne.Position) {
		g.syncGeometry()
	}

	g.empty = widget.NewLabel(localization.GetText(KeyNoResults))
	g.empty.Alignment = fyne.TextAlignCenter
	g.empty.Hide()

	g.root = container.NewStack(g.scroll, container.NewCenter(g.empty))
	return g
}

// SetSession attaches the preview session driving this grid
func (g *AssetGrid) SetSession(session *preview.Session) {
	g.mu.Lock()
	g.session = session
	g.mu.Unlock()
}

// Container returns the grid's top-level canvas object
func (g *AssetGrid) Container() fyne.CanvasObject {
	return g.root
}

// SetAssets replaces the gallery content and installs a matching slot
// generation in the preview session. Must run on the UI goroutine.
func (g *AssetGrid) SetAssets(assets []model.Asset) {
	cards := make(map[string]*AssetCard, len(assets))
	objects := make([]fyne.CanvasObject, 0, len(assets))
	slots := make([]preview.Slot, 0, len(assets))

	for _, asset := range assets {
		if _, dup := cards[asset.ID]; dup {
			// Identifiers key preview slots, so repeats across categories collapse
			continue
		}

		card := NewAssetCard(asset, g.localization)
		card.SetCallbacks(g.onRetryPreview, g.onDownload)
		cards[asset.ID] = card
		objects = append(objects, card)
		slots = append(slots, preview.Slot{ID: asset.ID, Locator: g.locator.ResourceURL(asset)})
	}

	g.mu.Lock()
	g.cards = cards
	session := g.session
	g.mu.Unlock()

	g.content.Objects = objects
	g.content.Refresh()

	if len(objects) == 0 {
		g.empty.Show()
	} else {
		g.empty.Hide()
	}

	if session != nil {
		session.Rebuild(slots)
	}

	log.Printf("gallery: grid rebuilt with %d cards", len(objects))

	// Slot geometry only exists after the layout pass the refresh queued,
	// so push it on the next UI iteration
	fyne.Do(g.syncGeometry)
}

// RefreshGeometry re-reads card positions and the scroll viewport and pushes
// them into the session. Call on the UI goroutine after layout changes.
func (g *AssetGrid) RefreshGeometry() {
	g.syncGeometry()
}

// ApplyDisplayState is the preview state callback. It may fire on any
// goroutine, so the card update hops onto the UI thread.
func (g *AssetGrid) ApplyDisplayState(slotID string, state model.PreviewState, scene preview.Scene) {
	// A ready transition whose scene was already disposed is stale
	if state == model.PreviewStateReady && (scene == nil || scene.Image() == nil) {
		return
	}

	fyne.Do(func() {
		g.mu.Lock()
		card, ok := g.cards[slotID]
		g.mu.Unlock()
		if !ok {
			return
		}
		card.ApplyState(state, scene)
	})
}

// onRetryPreview forwards a card's retry press to the session
func (g *AssetGrid) onRetryPreview(slotID string) {
	g.mu.Lock()
	session := g.session
	g.mu.Unlock()
	if session == nil {
		return
	}

	log.Printf("gallery: retry requested for %s", slotID)
	session.Retry(slotID)
}

// syncGeometry pushes the current card bounds and scroll viewport into the
// session, both in the grid content's coordinate space.
func (g *AssetGrid) syncGeometry() {
	g.mu.Lock()
	session := g.session
	g.mu.Unlock()
	if session == nil {
		return
	}

	viewSize := g.scroll.Size()
	if viewSize.Width <= 0 || viewSize.Height <= 0 {
		return
	}

	objects := g.content.Objects

	// Until the first layout pass every card still sits at the origin;
	// pushing those bounds would mark the whole catalog visible at once
	if len(objects) > 1 && objects[1].Position().IsZero() {
		return
	}

	for _, obj := range objects {
		card, ok := obj.(*AssetCard)
		if !ok {
			continue
		}

		pos := card.Position()
		size := card.Size()
		if size.Width <= 0 || size.Height <= 0 {
			size = fyne.NewSize(CardWidth, CardHeight)
		}

		session.SetSlotBounds(card.SlotID(), preview.Rect{X: pos.X, Y: pos.Y, W: size.Width, H: size.Height})
	}

	session.SetViewport(preview.Rect{
		X: g.scroll.Offset.X,
		Y: g.scroll.Offset.Y,
		W: viewSize.Width,
		H: viewSize.Height,
	})
}
