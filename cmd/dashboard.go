package cmd

import (
	"context"
	"log"
	"os"

	"turnos/common/constant"
	"turnos/core/catalog"
	"turnos/core/dashboard"
	"turnos/core/validate"
	"turnos/outbound/backend"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func runDashboardCmd(ctx context.Context, municipio string, server bool) {
	cfg := newCfg("env")

	shutdownTracing := newTracing(ctx, cfg)
	defer shutdownTracing()

	client := backend.NewFromConfig(cfg)
	catalogs := catalog.NewStore(client, nil, validate.New())

	board := dashboard.NewBoard(client, catalogs)
	defer board.Dispose()

	board.Init(ctx)

	if municipio == "" {
		municipio = constant.AllMunicipios
	}

	var err error
	if server {
		_, err = board.FetchServerStats(ctx, municipio)
	} else {
		_, err = board.Refresh(ctx, municipio)
	}
	if err != nil {
		log.Fatalln("unable to load dashboard stats", err)
	}

	stats, filter, _ := board.Last()
	if err := dashboard.WriteReport(os.Stdout, message.NewPrinter(language.Spanish), stats, filter); err != nil {
		log.Fatalln("unable to write dashboard report", err)
	}
}
