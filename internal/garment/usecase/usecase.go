package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-uniform-service/internal/garment"
	"github.com/fekuna/omnipos-uniform-service/internal/garment/dto"
	"github.com/fekuna/omnipos-uniform-service/internal/model"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/search"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	indexName    = "garments"
	listCacheTTL = 5 * time.Minute
)

type garmentUseCase struct {
	repo   garment.Repository
	cache  *cache.RedisClient
	es     *search.Client
	logger logger.ZapLogger
	now    func() time.Time
}

// NewGarmentUseCase builds the catalogue use case. cache and es may be nil.
func NewGarmentUseCase(repo garment.Repository, cache *cache.RedisClient, es *search.Client, log logger.ZapLogger) garment.UseCase {
	return &garmentUseCase{
		repo:   repo,
		cache:  cache,
		es:     es,
		logger: log,
		now:    time.Now,
	}
}

func (uc *garmentUseCase) CreateGarment(ctx context.Context, input *dto.CreateGarmentInput) (*model.Garment, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, garment.ErrNameRequired
	}

	now := uc.now()
	g := &model.Garment{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:        name,
		Description: optional(input.Description),
		IsActive:    true,
	}
	if err := uc.repo.Create(ctx, g); err != nil {
		return nil, err
	}

	uc.invalidateListCache(ctx)
	go uc.syncToElastic(context.Background(), g)

	return g, nil
}

func (uc *garmentUseCase) GetGarment(ctx context.Context, id string) (*model.Garment, error) {
	g, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, garment.ErrNotFound
	}
	return g, nil
}

type cachedList struct {
	Garments []model.Garment
	Count    int
}

func (uc *garmentUseCase) ListGarments(ctx context.Context, filters *dto.GarmentFilters) ([]model.Garment, int, error) {
	cacheKey := ""
	if uc.cache != nil {
		if key, err := listCacheKey(filters); err == nil {
			cacheKey = key
			var hit cachedList
			if err := uc.cache.GetJSON(ctx, cacheKey, &hit); err == nil {
				return hit.Garments, hit.Count, nil
			}
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		garments, count, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return garments, count, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	garments, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" {
		if err := uc.cache.SetJSON(ctx, cacheKey, cachedList{Garments: garments, Count: count}, listCacheTTL); err != nil {
			uc.logger.Warn("failed to cache garment list", zap.Error(err))
		}
	}
	return garments, count, nil
}

// searchQuery matches every term of the user's text as a prefix. Only the
// PREFIX operator is enabled, so quotes, brackets and field syntax in the
// input are plain text.
func searchQuery(filters *dto.GarmentFilters) map[string]interface{} {
	terms := strings.Fields(filters.SearchQuery)
	for i, t := range terms {
		terms[i] = strings.TrimRight(t, "*") + "*"
	}
	must := []map[string]interface{}{
		{
			"simple_query_string": map[string]interface{}{
				"query":            strings.Join(terms, " "),
				"fields":           []string{"name^3", "description"},
				"default_operator": "and",
				"flags":            "PREFIX",
			},
		},
	}
	if filters.IsActive != nil {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"is_active": *filters.IsActive}})
	}
	q := map[string]interface{}{
		"query": map[string]interface{}{"bool": map[string]interface{}{"must": must}},
	}
	if filters.PageSize > 0 {
		page := filters.Page
		if page < 1 {
			page = 1
		}
		q["from"] = (page - 1) * filters.PageSize
		q["size"] = filters.PageSize
	}
	return q
}

func (uc *garmentUseCase) searchElastic(ctx context.Context, filters *dto.GarmentFilters) ([]model.Garment, int, error) {
	res, err := uc.es.Search(ctx, indexName, searchQuery(filters))
	if err != nil {
		return nil, 0, err
	}
	garments := make([]model.Garment, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var g model.Garment
		if err := json.Unmarshal(hit.Source, &g); err == nil {
			garments = append(garments, g)
		}
	}
	return garments, res.Hits.Total.Value, nil
}

func (uc *garmentUseCase) UpdateGarment(ctx context.Context, input *dto.UpdateGarmentInput) (*model.Garment, error) {
	g, err := uc.GetGarment(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, garment.ErrNameRequired
	}

	g.Name = name
	g.Description = optional(input.Description)
	g.IsActive = input.IsActive
	g.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, g); err != nil {
		return nil, err
	}

	uc.invalidateListCache(ctx)
	go uc.syncToElastic(context.Background(), g)

	return g, nil
}

func (uc *garmentUseCase) DeactivateGarment(ctx context.Context, id string) error {
	g, err := uc.GetGarment(ctx, id)
	if err != nil {
		return err
	}
	if !g.IsActive {
		return nil
	}

	g.IsActive = false
	g.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, g); err != nil {
		return err
	}

	uc.invalidateListCache(ctx)
	go uc.syncToElastic(context.Background(), g)
	return nil
}

func (uc *garmentUseCase) syncToElastic(ctx context.Context, g *model.Garment) {
	if uc.es == nil {
		return
	}
	mapping := `{
		"mappings": {
			"properties": {
				"name": { "type": "text" },
				"description": { "type": "text" },
				"is_active": { "type": "boolean" },
				"created_at": { "type": "date" }
			}
		}
	}`
	_ = uc.es.CreateIndex(ctx, indexName, mapping)

	if err := uc.es.Index(ctx, indexName, g.ID, g); err != nil {
		uc.logger.Error("failed to index garment", zap.String("garment_id", g.ID), zap.Error(err))
	}
}

func (uc *garmentUseCase) invalidateListCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeletePattern(ctx, "garments:list:*"); err != nil {
		uc.logger.Warn("failed to invalidate garment cache", zap.Error(err))
	}
}

func listCacheKey(filters *dto.GarmentFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("garments:list:%x", md5.Sum(data)), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
