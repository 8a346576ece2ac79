// Package catalog caches the nivel, municipio and asunto catalogs and routes
// their mutations to the backend.
package catalog

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"turnos/common"
	"turnos/common/constant"
	"turnos/common/errs"
	"turnos/common/otel"
	"turnos/core/validate"
	"turnos/model"

	"go.opentelemetry.io/otel/attribute"
)

type Source interface {
	ListCatalog(ctx context.Context, category model.Category) ([]model.CatalogEntry, error)
	CreateCatalogEntry(ctx context.Context, category model.Category, name string) (model.CatalogEntry, error)
	RenameCatalogEntry(ctx context.Context, category model.Category, id int64, name string) (model.CatalogEntry, error)
	DeleteCatalogEntry(ctx context.Context, category model.Category, id int64) error
}

type Store struct {
	source    Source
	cache     Cache
	validator *validate.Validator

	// generations counts invalidations per category. A fetch that started
	// before an invalidation must not write its snapshot back.
	mu          sync.Mutex
	generations map[model.Category]uint64
}

func NewStore(source Source, cache Cache, validator *validate.Validator) *Store {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Store{source: source, cache: cache, validator: validator, generations: make(map[model.Category]uint64)}
}

// Load returns the category's entries, fetching them once per cache lifetime.
func (s *Store) Load(ctx context.Context, category model.Category) ([]model.CatalogEntry, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}

	ctx, span := otel.Tracer.Start(ctx, "CatalogStore.Load")
	defer span.End()
	span.SetAttributes(attribute.String(constant.LogFieldCategory, string(category)))

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	categoryAttr := slog.String(constant.LogFieldCategory, string(category))

	entries, ok, err := s.cache.Get(ctx, category)
	if err != nil {
		slog.WarnContext(ctx, "catalog cache read failed", traceIdAttr, categoryAttr, slog.Any(constant.LogFieldErr, err))
	}
	if ok {
		return entries, nil
	}

	s.mu.Lock()
	generation := s.generations[category]
	s.mu.Unlock()

	entries, err = s.source.ListCatalog(ctx, category)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch catalog", traceIdAttr, categoryAttr, slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		return nil, err
	}

	for i := range entries {
		entries[i].Category = category
	}

	s.store(ctx, category, generation, entries)

	slog.DebugContext(ctx, "catalog loaded", traceIdAttr, categoryAttr, slog.Int(constant.LogFieldResponse, len(entries)))
	return entries, nil
}

// store caches entries unless the category was invalidated after the fetch
// began.
func (s *Store) store(ctx context.Context, category model.Category, generation uint64, entries []model.CatalogEntry) {
	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	categoryAttr := slog.String(constant.LogFieldCategory, string(category))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generations[category] != generation {
		slog.DebugContext(ctx, "catalog changed during fetch, snapshot not cached", traceIdAttr, categoryAttr)
		return
	}

	if err := s.cache.Set(ctx, category, entries); err != nil {
		slog.WarnContext(ctx, "catalog cache write failed", traceIdAttr, categoryAttr, slog.Any(constant.LogFieldErr, err))
	}
}

// Refresh drops the cached snapshot and fetches it again.
func (s *Store) Refresh(ctx context.Context, category model.Category) ([]model.CatalogEntry, error) {
	if err := s.Invalidate(ctx, category); err != nil {
		return nil, err
	}
	return s.Load(ctx, category)
}

func (s *Store) Invalidate(ctx context.Context, category model.Category) error {
	if err := checkCategory(category); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.generations[category]++
	if err := s.cache.Invalidate(ctx, category); err != nil {
		slog.ErrorContext(ctx, "catalog cache invalidation failed",
			slog.String(constant.LogFieldCategory, string(category)), slog.Any(constant.LogFieldErr, err))
		return err
	}
	return nil
}

func (s *Store) Add(ctx context.Context, category model.Category, name string) (model.CatalogEntry, error) {
	name, err := s.checkName(category, name)
	if err != nil {
		return model.CatalogEntry{}, err
	}

	entry, err := s.source.CreateCatalogEntry(ctx, category, name)
	if err != nil {
		return model.CatalogEntry{}, err
	}

	s.invalidateAfterWrite(ctx, category)
	entry.Category = category
	return entry, nil
}

func (s *Store) Rename(ctx context.Context, category model.Category, id int64, name string) (model.CatalogEntry, error) {
	name, err := s.checkName(category, name)
	if err != nil {
		return model.CatalogEntry{}, err
	}

	entry, err := s.source.RenameCatalogEntry(ctx, category, id, name)
	if err != nil {
		return model.CatalogEntry{}, err
	}

	s.invalidateAfterWrite(ctx, category)
	entry.Category = category
	return entry, nil
}

func (s *Store) Remove(ctx context.Context, category model.Category, id int64) error {
	if err := checkCategory(category); err != nil {
		return err
	}

	if err := s.source.DeleteCatalogEntry(ctx, category, id); err != nil {
		return err
	}

	s.invalidateAfterWrite(ctx, category)
	return nil
}

// invalidateAfterWrite never fails the mutation: the backend already
// accepted it, a stale snapshot is corrected by the next refresh.
func (s *Store) invalidateAfterWrite(ctx context.Context, category model.Category) {
	_ = s.Invalidate(ctx, category)
}

func (s *Store) checkName(category model.Category, name string) (string, error) {
	if err := checkCategory(category); err != nil {
		return "", err
	}

	name = strings.TrimSpace(name)
	result := s.validator.Validate([]validate.Field{{Name: "name", Value: name, Required: true}})
	if !result.Valid {
		return "", &errs.ValidationError{Fields: map[string]string{"name": constant.MsgNameRequired}}
	}
	return name, nil
}

func checkCategory(category model.Category) error {
	if !category.Valid() {
		return &errs.ValidationError{Fields: map[string]string{"category": constant.MsgInvalidCategory}}
	}
	return nil
}
