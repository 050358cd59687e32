package cmd

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jsphweid/supernovae/server"
	"github.com/jsphweid/supernovae/store"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serves stored runs",
	Long: `Serves stored runs as JSON:

  GET /runs
  GET /runs/{id}
  GET /runs/{id}/notes
  GET /runs/{id}/frames/{index}
  DELETE /runs/{id}`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func serve() error {
	st, err := store.Open(cfg.DatabasePath())
	if err != nil {
		return err
	}
	defer st.Close()

	log.Infow("serving", "addr", cfg.Addr, "db", cfg.DatabasePath())
	return http.ListenAndServe(cfg.Addr, server.New(st, log))
}
