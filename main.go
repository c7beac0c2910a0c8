package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/meshvault/mesh-gallery/internal/config"
	"github.com/meshvault/mesh-gallery/internal/download"
	"github.com/meshvault/mesh-gallery/internal/platform"
	"github.com/meshvault/mesh-gallery/internal/scene"
	"github.com/meshvault/mesh-gallery/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.meshvault.mesh-gallery"
	AppName = "Mesh Gallery"
	AppIcon = "mesh-gallery.png"

	WindowWidth  = 1000
	WindowHeight = 700
)

func main() {
	// Log version information
	fmt.Printf("Mesh Gallery v%s starting...\n", version)

	// Create new Fyne app
	myApp := app.NewWithID(AppID)

	// Apply compact theme
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	// Initialize services
	settings := config.NewSettings(myApp)
	downloadsDir := settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(downloadsDir); err != nil {
		fmt.Printf("failed to ensure downloads dir: %v\n", err)
	}

	downloadSvc := download.NewService(downloadsDir, settings.GetMaxParallelDownloads())
	sceneLoader := scene.NewLoader()

	// Create and setup UI
	rootUI := ui.NewRootUI(myWindow, myApp, downloadSvc, sceneLoader)
	myWindow.SetOnClosed(rootUI.Shutdown)

	// Show and run
	myWindow.ShowAndRun()
}
