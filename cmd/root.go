package cmd

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func Start() {
	cfg := newCfg("env")
	slog.SetLogLoggerLevel(slog.Level(cfg.GetInt("log.level")))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var (
		municipio   string
		serverStats bool
	)

	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print ticket counts per status and municipality",
		Run: func(cmd *cobra.Command, args []string) {
			runDashboardCmd(ctx, municipio, serverStats)
		},
	}
	dashboardCmd.Flags().StringVar(&municipio, "municipio", "todos", "municipality to count, todos for every one")
	dashboardCmd.Flags().BoolVar(&serverStats, "server", false, "use the backend aggregation instead of the ticket list")

	rootCmd := &cobra.Command{Use: "turnos"}
	cmd := []*cobra.Command{
		{
			Use:   "serve-http",
			Short: "Run HTTP server",
			Run: func(cmd *cobra.Command, args []string) {
				runHttpServerCmd(ctx)
			},
		},
		{
			Use:   "serve-queue:email",
			Short: "Run queue email server",
			Run: func(cmd *cobra.Command, args []string) {
				runQueueEmailCmd(ctx)
			},
		},
		dashboardCmd,
		{
			Use:   "dev",
			Short: "Run dev server, for testing purpose",
			Run: func(cmd *cobra.Command, args []string) {
				runHttpServerCmd(ctx)
			},
			PreRun: func(cmd *cobra.Command, args []string) {
				go func() {
					runQueueEmailCmd(ctx)
				}()
			},
		},
	}

	rootCmd.AddCommand(cmd...)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalln(err)
	}
}
