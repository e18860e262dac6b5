// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/abnt-engine/internal/library"
	"github.com/pdiddy/abnt-engine/internal/metadata"
	"github.com/pdiddy/abnt-engine/internal/server"
	"github.com/pdiddy/abnt-engine/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve starts the JSON API used by the web client: reference formatting,
validation, and sync under /api/references, citation generation at
/api/citations, metadata extraction at /api/extract-url and
/api/extract-doi, and the library
under /api/library and /api/projects.

The server stops gracefully on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :3000)")
	serveCmd.Flags().String("mode", "", "gin mode: debug, release, test")

	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("server.mode", serveCmd.Flags().Lookup("mode"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())

	level := slog.LevelInfo
	if cfg.Server.Mode == types.ModeDebug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	store, err := library.Open(cfg.Library)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := server.New(cfg.Server, server.Deps{
		Store:     store,
		Extractor: metadata.NewHTMLExtractor(cfg.Extract),
		Resolver:  metadata.NewOpenAlexResolver(cfg.Lookup),
		Logger:    logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("library opened", "path", cfg.Library.Path)
	return srv.Run(ctx)
}
