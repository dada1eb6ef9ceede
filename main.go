package main

import (
	"embed"
	"log"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/windows"

	"wprefix/internal/app"
	"wprefix/internal/config"
	gerrors "wprefix/internal/infrastructure/errors"
	"wprefix/internal/infrastructure/logging"
	"wprefix/internal/switcher"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfg, err := config.Load(os.Getenv("WPREFIX_CONFIG"), os.Getenv("WPREFIX_ENVIRONMENT"))
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.NewLogger(os.Stderr, cfg.LogLevel, cfg.PrettyLogs)
	gerrors.SetRetryLogger(gerrors.NewLoggerBridge(logger))

	application := app.NewApp(cfg, logger)

	err = wails.Run(&options.App{
		// The title is how the switcher recognizes its own window.
		Title:             switcher.Title,
		Width:             480,
		Height:            320,
		MinWidth:          240,
		MinHeight:         80,
		DisableResize:     true,
		Fullscreen:        false,
		Frameless:         true,
		StartHidden:       true,
		HideWindowOnClose: true,
		AlwaysOnTop:       true,
		BackgroundColour:  &options.RGBA{R: 240, G: 240, B: 240, A: 255},
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Menu:             nil,
		Logger:           logging.NewWailsLoggerAdapter(logger),
		LogLevel:         logging.WailsLogLevel(cfg.LogLevel),
		OnStartup:        application.Startup,
		OnDomReady:       application.DomReady,
		OnBeforeClose:    application.BeforeClose,
		OnShutdown:       application.Shutdown,
		WindowStartState: options.Normal,
		Bind: []interface{}{
			application,
		},
		Windows: &windows.Options{
			WebviewIsTransparent: false,
			WindowIsTranslucent:  false,
			DisableWindowIcon:    true,
			WebviewUserDataPath:  "",
			ZoomFactor:           1.0,
		},
	})

	if err != nil {
		log.Fatal(err)
	}
}
