// Package businessflow contains use cases for browsing the bean catalog
package businessflow

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/DavidIrvine-TW/tombola/app/dto"
	"github.com/DavidIrvine-TW/tombola/models"
	"github.com/DavidIrvine-TW/tombola/repository"
	"github.com/redis/go-redis/v9"
)

const (
	facetColoursCacheKey   = "tombola:facets:colours"
	facetCountriesCacheKey = "tombola:facets:countries"
)

// CatalogFlow defines read operations over the bean catalog
type CatalogFlow interface {
	ListBeans(ctx context.Context, req *dto.ListBeansRequest, metadata *ClientMetadata) (*dto.ListBeansResponse, error)
	GetBean(ctx context.Context, id uint, metadata *ClientMetadata) (*dto.BeanDTO, error)
	ListColours(ctx context.Context, metadata *ClientMetadata) (*dto.FacetListResponse, error)
	ListCountries(ctx context.Context, metadata *ClientMetadata) (*dto.FacetListResponse, error)
}

type CatalogFlowImpl struct {
	beanRepo repository.BeanRepository
	cache    *redis.Client
	facetTTL time.Duration
}

// NewCatalogFlow creates the catalog flow. The cache client is optional; when
// nil the distinct-value facets are read from the database on every call.
func NewCatalogFlow(beanRepo repository.BeanRepository, cache *redis.Client, facetTTL time.Duration) CatalogFlow {
	if facetTTL <= 0 {
		facetTTL = 5 * time.Minute
	}
	return &CatalogFlowImpl{
		beanRepo: beanRepo,
		cache:    cache,
		facetTTL: facetTTL,
	}
}

// ListBeans returns catalog beans ordered by their seed index, applying the
// optional search and exact-match filters ANDed together.
func (f *CatalogFlowImpl) ListBeans(ctx context.Context, req *dto.ListBeansRequest, metadata *ClientMetadata) (*dto.ListBeansResponse, error) {
	filter := models.BeanFilter{}
	if req.Search != "" {
		filter.Search = &req.Search
	}
	if req.Country != "" {
		filter.Country = &req.Country
	}
	if req.Colour != "" {
		filter.Colour = &req.Colour
	}

	beans, err := f.beanRepo.ByFilter(ctx, filter, "index ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("LIST_BEANS_FAILED", "Failed to list beans", err)
	}

	items := make([]dto.BeanDTO, 0, len(beans))
	for _, b := range beans {
		items = append(items, ToBeanDTO(*b))
	}

	return &dto.ListBeansResponse{
		Message: "Beans retrieved successfully",
		Items:   items,
	}, nil
}

// GetBean returns a single bean by id
func (f *CatalogFlowImpl) GetBean(ctx context.Context, id uint, metadata *ClientMetadata) (*dto.BeanDTO, error) {
	bean, err := f.beanRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("GET_BEAN_FAILED", "Failed to load bean", err)
	}
	if bean == nil {
		return nil, ErrBeanNotFound
	}

	d := ToBeanDTO(*bean)
	return &d, nil
}

// ListColours returns the distinct roast types, sorted ascending
func (f *CatalogFlowImpl) ListColours(ctx context.Context, metadata *ClientMetadata) (*dto.FacetListResponse, error) {
	values, err := f.facet(ctx, facetColoursCacheKey, f.beanRepo.DistinctColours)
	if err != nil {
		return nil, NewBusinessError("LIST_COLOURS_FAILED", "Failed to list colours", err)
	}
	return &dto.FacetListResponse{
		Message: "Colours retrieved successfully",
		Items:   values,
	}, nil
}

// ListCountries returns the distinct origin countries, sorted ascending
func (f *CatalogFlowImpl) ListCountries(ctx context.Context, metadata *ClientMetadata) (*dto.FacetListResponse, error) {
	values, err := f.facet(ctx, facetCountriesCacheKey, f.beanRepo.DistinctCountries)
	if err != nil {
		return nil, NewBusinessError("LIST_COUNTRIES_FAILED", "Failed to list countries", err)
	}
	return &dto.FacetListResponse{
		Message: "Countries retrieved successfully",
		Items:   values,
	}, nil
}

// facet serves a distinct-value list through the cache when one is
// configured. Cache failures degrade to the database read; they are logged
// and never surfaced to callers.
func (f *CatalogFlowImpl) facet(ctx context.Context, key string, load func(context.Context) ([]string, error)) ([]string, error) {
	if f.cache != nil {
		raw, err := f.cache.Get(ctx, key).Result()
		if err == nil {
			var cached []string
			if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
				return cached, nil
			}
		} else if err != redis.Nil {
			log.Printf("facet cache read failed for %s: %v", key, err)
		}
	}

	values, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		if raw, jsonErr := json.Marshal(values); jsonErr == nil {
			if err := f.cache.Set(ctx, key, raw, f.facetTTL).Err(); err != nil {
				log.Printf("facet cache write failed for %s: %v", key, err)
			}
		}
	}

	return values, nil
}
