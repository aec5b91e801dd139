// Command jot is an offline-first note client that opportunistically
// synchronizes with a remote backend when one is configured.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jotdown/jot/internal/config"
	"github.com/jotdown/jot/internal/logging"
	"github.com/jotdown/jot/internal/notestore"
	"github.com/jotdown/jot/internal/remote"
	"github.com/jotdown/jot/internal/session"
	"github.com/jotdown/jot/internal/storage"
	syncpkg "github.com/jotdown/jot/internal/sync"
	"github.com/jotdown/jot/internal/ui"
)

const welcomeTitle = "Welcome to jot"

const welcomeContent = `Welcome to jot

Your notes live on this machine and keep working with no network at all.
Configure a backend (JOT_BACKEND_URL) and jot will sync opportunistically,
falling back to local storage whenever the backend is unreachable.`

var rootCmd = &cobra.Command{
	Use:   "jot",
	Short: "Offline-first notes with opportunistic sync",
	Long: `jot is a note-taking client that works fully offline and syncs with a
remote backend when one is configured.

Every operation completes locally even when the backend is down: one remote
attempt, one local fallback, never an error you have to care about.`,
	SilenceUsage: true,
}

// app bundles everything a command needs, assembled from configuration.
type app struct {
	cfg     config.Config
	kv      storage.Store
	store   *notestore.Store
	client  syncpkg.Client
	session *session.Session
	logger  *log.Logger
}

// newApp wires storage -> note store -> gateway -> sync client -> session.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := logging.New("[jot] ", cfg.LogFile)

	kv, err := storage.Open(cfg.StorageBackend, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	store := notestore.New(kv, logging.New("[notestore] ", cfg.LogFile))
	store.EnsureSeed(welcomeTitle, welcomeContent)

	var gw *remote.Gateway
	if base := cfg.BaseURL(); base != "" {
		gw = remote.New(remote.Config{
			BaseURL: base,
			Timeout: cfg.RequestTimeout,
			Logger:  logging.New("[remote] ", cfg.LogFile),
		})
	}

	client := syncpkg.New(store, gw, logging.New("[sync] ", cfg.LogFile))

	sess := session.New(client, session.Config{
		QuietInterval: cfg.QuietInterval,
		Logger:        logging.New("[session] ", cfg.LogFile),
		Notify: func(n session.Notification) {
			if n.Failed() {
				fmt.Fprintf(os.Stderr, "%s %s\n", ui.RenderFail("!"), n.Message)
			}
		},
	})
	sess.SetFilter(cfg.HideEmpty)

	return &app{
		cfg:     cfg,
		kv:      kv,
		store:   store,
		client:  client,
		session: sess,
		logger:  logger,
	}, nil
}

// close flushes pending work and releases storage.
func (a *app) close() {
	a.session.Flush()
	if err := a.kv.Close(); err != nil {
		a.logger.Printf("Error closing storage: %v", err)
	}
}

func main() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
