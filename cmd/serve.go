package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pable/go-hoops-stats/internal/config"
	"github.com/pable/go-hoops-stats/internal/server"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the record store API and stats views over HTTP",
	Long: `Start an HTTP server over the configured backend. It exposes the record store API
under /v1/records/{players,games}, which another hoopstats instance can use with
--backend remote, plus read views and PUT /games/{id}/stats for recording box scores.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (default 4000, env HOOPS_PORT)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	port := cfg.Port
	if cmd.Flags().Changed("port") {
		settings := config.Wrap(map[string]string{config.PortKey: servePort})
		p, ok := settings[config.PortKey].(int)
		if !ok {
			return fmt.Errorf("invalid port %q", servePort)
		}
		port = p
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.New(a.Coordinator, logger, server.Options{
		RateLimit:   cfg.RateLimit,
		RateBurst:   cfg.RateBurst,
		CORSOrigins: cfg.CORSOrigins,
	})
	return srv.ListenAndServe(ctx, ":"+strconv.Itoa(port))
}
