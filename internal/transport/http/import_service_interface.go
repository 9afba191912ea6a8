package http

import (
	"context"

	"github.com/gwilson152/TradePulse-new/internal/platforms"
	"github.com/gwilson152/TradePulse-new/internal/services"
)

// ImportServiceInterface defines the import operations the handlers need
type ImportServiceInterface interface {
	Platforms() []platforms.Info
	Platform(id string) (platforms.Info, bool)
	Preview(ctx context.Context, req services.PreviewRequest) (*services.Preview, error)
}
