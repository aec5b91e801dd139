package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jotdown/jot/internal/events"
	"github.com/jotdown/jot/internal/logging"
	"github.com/jotdown/jot/internal/session"
	"github.com/jotdown/jot/internal/storage"
	"github.com/jotdown/jot/internal/ui"
	"github.com/jotdown/jot/internal/watch"
)

var watchEventsAddr string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the store and broadcast session events",
	Long: `Keep a session loaded, reload it when another process rewrites the
local store, and broadcast note and connectivity events to WebSocket
observers at /ws.`,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer a.close()

		eventsLogger := logging.New("[events] ", a.cfg.LogFile)
		eventsSrv := events.NewServer(&events.Config{Addr: watchEventsAddr, Logger: eventsLogger})
		if err := eventsSrv.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting events server: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = eventsSrv.Stop() }()

		handler := events.NewHandler(eventsSrv, eventsLogger)

		// Rebuild the session so its notifications reach the broadcast.
		sess := session.New(a.client, session.Config{
			QuietInterval: a.cfg.QuietInterval,
			Logger:        logging.New("[session] ", a.cfg.LogFile),
			Notify:        handler.OnNotification,
		})
		sess.Seed(a.store.List())
		if err := sess.Load(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading notes: %v\n", err)
			os.Exit(1)
		}
		handler.OnConnectivity(sess.StatusLabel())

		// Only the file backend has a directory to observe.
		fileStore, ok := a.kv.(*storage.FileStore)
		if !ok {
			fmt.Fprintln(os.Stderr, "Error: watch requires the file storage backend")
			os.Exit(1)
		}

		watcher, err := watch.New(fileStore.Dir(), 0, logging.New("[watch] ", a.cfg.LogFile))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating watcher: %v\n", err)
			os.Exit(1)
		}
		if err := watcher.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting watcher: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = watcher.Stop() }()

		fmt.Printf("%s Watching %s, events on %s\n",
			ui.RenderAccent("▸"), fileStore.Dir(), eventsSrv.Addr())

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		for {
			select {
			case <-stop:
				fmt.Println("\nShutting down")
				sess.Flush()
				return

			case _, ok := <-watcher.Reloads():
				if !ok {
					return
				}
				sess.Seed(a.store.List())
				handler.OnReload()
				handler.OnConnectivity(sess.StatusLabel())
			}
		}
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchEventsAddr, "events-addr", ":8484", "events WebSocket listen address")
}
