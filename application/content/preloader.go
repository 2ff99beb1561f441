package content

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Preloader warms the cache with a configured list of critical documents
// in the background. Fetches run one at a time with a spacing delay so
// warm-up never competes with interactive traffic.
type Preloader struct {
	fetcher *Fetcher
	paths   []string
	spacing time.Duration
	logger  *zap.Logger
}

// NewPreloader creates a preloader for the given paths
func NewPreloader(fetcher *Fetcher, paths []string, spacing time.Duration, logger *zap.Logger) *Preloader {
	return &Preloader{
		fetcher: fetcher,
		paths:   paths,
		spacing: spacing,
		logger:  logger,
	}
}

// Run fetches each configured path through the cache, stopping early if
// the context is cancelled
func (p *Preloader) Run(ctx context.Context) {
	for _, path := range p.paths {
		select {
		case <-ctx.Done():
			return
		default:
		}

		p.fetcher.FetchContent(ctx, path, true)

		select {
		case <-ctx.Done():
			return
		case <-time.After(p.spacing):
		}
	}

	p.logger.Info("critical content preloaded", zap.Int("count", len(p.paths)))
}
