package cli

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/turtacn/MolParse/internal/application/parsing"
	"github.com/turtacn/MolParse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolParse/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/MolParse/internal/interfaces/http"
	"github.com/turtacn/MolParse/internal/interfaces/http/handlers"
)

// newServeCmd runs a standalone parse API without any backing services: no
// database, cache, or broker.  The apiserver binary is the fully wired
// deployment; this command exists for local experiments and demos.
func newServeCmd(opts *RootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local parse-only API server",
		Long:  "Serve the parse API on the local machine with no database, cache,\nor broker attached.  Parse requests work; persistence is ignored.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logCfg := logging.LogConfig{Level: "info", Format: "console"}
			if opts.Verbose {
				logCfg.Level = "debug"
			}
			logger, err := logging.NewLogger(logCfg)
			if err != nil {
				return err
			}

			collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
				Namespace: "molparse",
			}, logger.Named("metrics"))
			if err != nil {
				return err
			}
			metrics := prometheus.NewAppMetrics(collector)

			svc := parsing.NewService(nil, nil, nil, metrics, logger.Named("parsing"), parsing.Config{})

			health := handlers.NewHealthHandler(logger.Named("health"))
			router := httpserver.NewRouter(httpserver.RouterConfig{
				Molecules: handlers.NewMoleculeHandler(svc, logger.Named("http")),
				Health:    health,
				Logger:    logger.Named("http"),
				Metrics:   metrics,
				Collector: collector,
				Mode:      gin.ReleaseMode,
			})

			server := httpserver.NewServer(router, httpserver.ServerConfig{Port: port}, logger)

			errCh := make(chan error, 1)
			go func() { errCh <- server.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}
			return server.Stop(context.Background())
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "listen port")
	return cmd
}
