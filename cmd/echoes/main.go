package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"echoes/internal/catalog"
	"echoes/internal/config"
	"echoes/internal/gallery"
	"echoes/internal/remote"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "echoes",
		Short:         "Audio-reactive 3D media gallery",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "echoes.toml", "config file path")

	root.AddCommand(runCmd(), relayCmd(), importCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Logging) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func openProvider(cfg config.Catalog) (catalog.Provider, func(), error) {
	if cfg.DBPath != "" {
		store, err := catalog.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
	return catalog.NewFileProvider(cfg.FilePath), func() {}, nil
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open the gallery window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			log := newLogger(cfg.Logging)

			provider, closeProvider, err := openProvider(cfg.Catalog)
			if err != nil {
				return err
			}
			defer closeProvider()

			items, err := provider.Items(cmd.Context())
			if err != nil {
				return err
			}
			log.Info("catalog loaded", "items", len(items))

			var audio *gallery.AudioEngine
			if cfg.Audio.Enabled {
				audio, err = gallery.NewAudioEngine(log)
				if err != nil {
					log.Warn("audio unavailable, continuing silent", "error", err)
				} else {
					defer audio.Close()
				}
			}

			opts := gallery.RunOptions{
				Title:  cfg.Viewer.Title,
				Width:  cfg.Viewer.Width,
				Height: cfg.Viewer.Height,
				Items:  items,
				Seed:   cfg.Viewer.Seed,
				Zoom:   cfg.Viewer.Zoom,
				Audio:  audio,
				Log:    log,
			}

			if cfg.Viewer.RelayURL != "" {
				url := strings.TrimRight(cfg.Viewer.RelayURL, "/") +
					"/ws/session/" + cfg.Viewer.Session
				viewer, err := remote.DialRelay(url, log)
				if err != nil {
					log.Warn("relay unavailable, running local only", "url", url, "error", err)
				} else {
					defer viewer.Close()
					opts.Events = viewer.Events()
					opts.OnScene = viewer.BindScene
					log.Info("joined relay session", "url", url)
				}
			}

			return gallery.RunDesktop(opts)
		},
	}
}

func relayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "relay",
		Short: "Run the control relay server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			log := newLogger(cfg.Logging)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			hub := remote.NewHub()
			if cfg.Relay.ValkeyAddr != "" {
				bus, err := remote.NewBus(cfg.Relay.ValkeyAddr, cfg.Relay.BusChannel, log)
				if err != nil {
					return err
				}
				defer bus.Close()
				hub.Publish = bus.Publish
				go func() {
					if err := bus.Subscribe(ctx, hub); err != nil {
						log.Error("bus subscription lost", "error", err)
					}
				}()
				log.Info("bus connected", "addr", cfg.Relay.ValkeyAddr)
			}
			go hub.Run()

			server := &http.Server{
				Addr:    cfg.Relay.Bind,
				Handler: remote.NewServer(hub, log).Router(),
			}
			go func() {
				<-ctx.Done()
				_ = server.Shutdown(context.Background())
			}()

			log.Info("relay listening", "bind", cfg.Relay.Bind)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <catalog.json>",
		Short: "Import a JSON catalog into the SQLite store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			log := newLogger(cfg.Logging)

			if cfg.Catalog.DBPath == "" {
				return fmt.Errorf("import needs catalog.db_path in the config")
			}
			store, err := catalog.Open(cfg.Catalog.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Import(cmd.Context(), catalog.NewFileProvider(args[0]))
			if err != nil {
				return err
			}
			log.Info("catalog imported", "items", n, "db", cfg.Catalog.DBPath)
			return nil
		},
	}
}
