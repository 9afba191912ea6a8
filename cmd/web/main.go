// Command web serves the trade import API.
package main

import (
	"log/slog"
	"os"

	"github.com/gwilson152/TradePulse-new/internal/app"
	"github.com/gwilson152/TradePulse-new/internal/infrastructure"
)

func main() {
	application, err := app.NewApplication()
	if err != nil {
		infrastructure.GetLogger().Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		infrastructure.GetLogger().Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
