package usecase

import (
	"context"
	"time"

	"whiskd-backend/internal/catalog"
	"whiskd-backend/internal/domain"
	"whiskd-backend/pkg/cache"
	"whiskd-backend/pkg/logger"
)

const catalogCacheKey = "catalog:products"

type CatalogUsecase struct {
	source domain.VariantRowSource
	cache  cache.CacheService
	ttl    time.Duration
}

// NewCatalogUsecase builds the catalog loader. A zero ttl or nil cache fetches on every call.
func NewCatalogUsecase(source domain.VariantRowSource, cache cache.CacheService, ttl time.Duration) *CatalogUsecase {
	return &CatalogUsecase{
		source: source,
		cache:  cache,
		ttl:    ttl,
	}
}

// LoadCatalog never fails: fetch errors are logged and an empty menu is returned.
func (uc *CatalogUsecase) LoadCatalog(ctx context.Context) []domain.Product {
	if uc.cacheEnabled() {
		if cached, found := uc.cache.Get(catalogCacheKey); found {
			if products, ok := cached.([]domain.Product); ok {
				return products
			}
		}
	}

	start := time.Now()
	rows, err := uc.source.FetchVariantRows(ctx)
	if err != nil {
		logger.WithContext(ctx).Error().Err(err).Msg("Failed to fetch catalog")
		return []domain.Product{}
	}

	products := catalog.Normalize(rows)
	logger.WithContext(ctx).Debug().
		Int("rows", len(rows)).
		Int("products", len(products)).
		Dur("duration_ms", time.Since(start)).
		Msg("Catalog loaded")

	// Empty menus are not cached so the next page load retries
	if uc.cacheEnabled() && len(products) > 0 {
		uc.cache.Set(catalogCacheKey, products, uc.ttl)
	}
	return products
}

func (uc *CatalogUsecase) cacheEnabled() bool {
	return uc.cache != nil && uc.ttl > 0
}
