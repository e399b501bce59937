package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfmark/shelfmark-server/internal/config"
	"github.com/shelfmark/shelfmark-server/internal/logger"
	"github.com/shelfmark/shelfmark-server/internal/metadata/googlebooks"
)

// CatalogClient wraps the Google Books client.
type CatalogClient struct {
	*googlebooks.Client
}

// ProvideCatalogClient provides the book catalog client.
func ProvideCatalogClient(i do.Injector) (*CatalogClient, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	var opts []googlebooks.Option
	if cfg.Catalog.BaseURL != "" {
		opts = append(opts, googlebooks.WithBaseURL(cfg.Catalog.BaseURL))
	}
	if cfg.Catalog.MaxResults > 0 {
		opts = append(opts, googlebooks.WithMaxResults(cfg.Catalog.MaxResults))
	}
	if cfg.Catalog.RequestsPerSecond > 0 {
		opts = append(opts, googlebooks.WithRPS(cfg.Catalog.RequestsPerSecond))
	}

	client := googlebooks.NewClient(log.Logger, opts...)

	log.Info("Catalog client initialized",
		"max_results", cfg.Catalog.MaxResults,
		"requests_per_second", cfg.Catalog.RequestsPerSecond,
	)

	return &CatalogClient{Client: client}, nil
}
