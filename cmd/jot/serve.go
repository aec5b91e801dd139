package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jotdown/jot/internal/devserver"
	"github.com/jotdown/jot/internal/logging"
	"github.com/jotdown/jot/internal/ui"
)

var (
	serveAddr    string
	serveAPIPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the development note backend",
	Long: `Run an in-memory implementation of the remote note protocol.

Point a jot client at it with JOT_BACKEND_URL=http://localhost:8585 to
exercise the sync path end to end. The collection lives in memory only.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := logging.New("[devserver] ", "")
		srv := devserver.New(logger)

		httpSrv := &http.Server{
			Addr:         serveAddr,
			Handler:      srv.Handler(serveAPIPath),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}

		go func() {
			fmt.Printf("%s Dev backend listening on %s (API at %s)\n",
				ui.RenderAccent("▸"), serveAddr, serveAPIPath)
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
				os.Exit(1)
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		fmt.Println("\nShutting down")
		_ = httpSrv.Close()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8585", "listen address")
	serveCmd.Flags().StringVar(&serveAPIPath, "api-path", "/api", "API path prefix")
}
