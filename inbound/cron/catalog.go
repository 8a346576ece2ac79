package cron

import (
	"context"
	"log/slog"
	"time"

	"turnos/common"
	"turnos/common/constant"
	"turnos/model"

	"github.com/spf13/viper"
)

type CatalogRefresher interface {
	Refresh(ctx context.Context, category model.Category) ([]model.CatalogEntry, error)
}

// CatalogCron reloads every catalog snapshot on a fixed interval.
type CatalogCron struct {
	Cfg     *viper.Viper
	Catalog CatalogRefresher
}

func (in CatalogCron) Start(ctx context.Context) {
	refreshTicker := time.NewTicker(in.Cfg.GetDuration("cron.catalog.refresh.interval"))
	defer refreshTicker.Stop()

	in.refresh(ctx)

	slog.Info("catalog cron started")

	for {
		select {
		case <-refreshTicker.C:
			in.refresh(ctx)
		case <-ctx.Done():
			slog.Info("catalog cron stopped")
			return
		}
	}
}

// refresh reloads each category independently; a failing one keeps its
// previous snapshot until the next tick.
func (in CatalogCron) refresh(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, in.Cfg.GetDuration("cron.catalog.refresh.timeout"))
	defer cancel()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	slog.DebugContext(ctx, "refreshing catalogs", traceIdAttr)

	refreshed := 0
	for _, category := range model.Categories {
		entries, err := in.Catalog.Refresh(ctx, category)
		if err != nil {
			slog.ErrorContext(ctx, "failed to refresh catalog", traceIdAttr,
				slog.String(constant.LogFieldCategory, string(category)), slog.Any(constant.LogFieldErr, err))
			continue
		}

		refreshed++
		slog.DebugContext(ctx, "catalog refreshed", traceIdAttr,
			slog.String(constant.LogFieldCategory, string(category)), slog.Int(constant.LogFieldResponse, len(entries)))
	}

	return refreshed
}
