package dashboard

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"turnos/common"
	"turnos/common/constant"
	"turnos/common/errs"
	"turnos/common/otel"
	"turnos/model"

	"go.opentelemetry.io/otel/attribute"
)

type Source interface {
	SearchTickets(ctx context.Context, req model.AdminSearchRequest) ([]model.Ticket, error)
	DashboardStats(ctx context.Context, municipio string) (model.DashboardStats, error)
}

type Loader interface {
	Load(ctx context.Context, category model.Category) ([]model.CatalogEntry, error)
}

// Series is one chart's labels with the Resuelto and Pendiente values at the
// same positions.
type Series struct {
	Labels    []string `json:"labels"`
	Resuelto  []int    `json:"resuelto"`
	Pendiente []int    `json:"pendiente"`
}

type Charts struct {
	Total       Series `json:"total"`
	ByMunicipio Series `json:"by_municipio"`
}

// Board owns the last successful stats of one dashboard view until Dispose.
type Board struct {
	source   Source
	catalogs Loader

	mu     sync.RWMutex
	last   *model.DashboardStats
	filter string
}

func NewBoard(source Source, catalogs Loader) *Board {
	return &Board{source: source, catalogs: catalogs, filter: constant.AllMunicipios}
}

// Init preloads the municipality catalog. A failure is only logged.
func (b *Board) Init(ctx context.Context) {
	if b.catalogs == nil {
		return
	}

	if _, err := b.catalogs.Load(ctx, model.CategoryMunicipio); err != nil {
		slog.WarnContext(ctx, "dashboard catalog preload failed", common.ExtractTraceIDFromCtx(ctx),
			slog.String(constant.LogFieldCategory, string(model.CategoryMunicipio)), slog.Any(constant.LogFieldErr, err))
	}
}

// Refresh aggregates the full ticket collection for filter and keeps the
// result. On failure the previous stats are kept.
func (b *Board) Refresh(ctx context.Context, filter string) (model.DashboardStats, error) {
	ctx, span := otel.Tracer.Start(ctx, "Dashboard.Refresh")
	defer span.End()
	span.SetAttributes(attribute.String("municipio", filter))

	tickets, err := b.source.SearchTickets(ctx, model.AdminSearchRequest{})
	if err != nil {
		slog.ErrorContext(ctx, "failed to load tickets for dashboard", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		return model.DashboardStats{}, err
	}

	stats := Aggregate(tickets, filter)
	b.store(stats, filter)
	return stats, nil
}

// FetchServerStats uses the backend's own aggregation instead of the ticket
// list.
func (b *Board) FetchServerStats(ctx context.Context, filter string) (model.DashboardStats, error) {
	ctx, span := otel.Tracer.Start(ctx, "Dashboard.FetchServerStats")
	defer span.End()

	municipio := filter
	if municipio == constant.AllMunicipios {
		municipio = ""
	}

	stats, err := b.source.DashboardStats(ctx, municipio)
	if err != nil {
		common.UtilSpanError(span, err)
		return model.DashboardStats{}, err
	}

	stats = ZeroFill(stats)
	b.store(stats, filter)
	return stats, nil
}

func (b *Board) store(stats model.DashboardStats, filter string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.last = &stats
	if filter == "" {
		filter = constant.AllMunicipios
	}
	b.filter = filter
}

// Last returns the stats of the last successful refresh and its filter.
func (b *Board) Last() (model.DashboardStats, string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.last == nil {
		return model.DashboardStats{}, b.filter, false
	}
	return *b.last, b.filter, true
}

// ChartSeries builds the chart data from the last stats, municipalities in
// name order.
func (b *Board) ChartSeries() (Charts, error) {
	stats, _, ok := b.Last()
	if !ok {
		return Charts{}, errs.ErrInvalidState
	}
	return ChartsFor(stats), nil
}

func ChartsFor(stats model.DashboardStats) Charts {
	names := make([]string, 0, len(stats.ByMunicipio))
	for m := range stats.ByMunicipio {
		names = append(names, m)
	}
	slices.Sort(names)

	byMunicipio := Series{
		Labels:    names,
		Resuelto:  make([]int, len(names)),
		Pendiente: make([]int, len(names)),
	}
	for i, m := range names {
		count := stats.ByMunicipio[m]
		byMunicipio.Resuelto[i] = count.Resuelto
		byMunicipio.Pendiente[i] = count.Pendiente
	}

	return Charts{
		Total: Series{
			Labels:    []string{string(model.StatusResuelto), string(model.StatusPendiente)},
			Resuelto:  []int{stats.Total.Resuelto},
			Pendiente: []int{stats.Total.Pendiente},
		},
		ByMunicipio: byMunicipio,
	}
}

// Dispose drops the held stats; the board can be refreshed again afterwards.
func (b *Board) Dispose() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.last = nil
	b.filter = constant.AllMunicipios
}
