package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkjournal/pkg/export"
	"github.com/aretw0/inkjournal/pkg/server"
)

var (
	serveAddr      string
	serveAdvertise bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the journal over HTTP",
	Long: `Serve exposes the journal as a JSON API with PDF and PNG exports, and streams
changes to websocket clients on /events. With --advertise the server is
announced on the local network over mDNS.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc, cfg := openJournal()
		logger := slog.Default()

		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		exportOpts := export.DefaultOptions()
		exportOpts.Smooth = cfg.Export.Smooth
		exportOpts.Window = cfg.Smoothing.Window

		srv := server.New(svc,
			server.WithLogger(logger),
			server.WithWindow(cfg.Smoothing.Window),
			server.WithExportOptions(exportOpts),
		)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		l, err := net.Listen("tcp", addr)
		if err != nil {
			fatal("Failed to listen", err)
		}

		if serveAdvertise || cfg.Server.Advertise {
			port := l.Addr().(*net.TCPAddr).Port
			mdnsServer, err := server.Advertise(cfg.Server.Name, port)
			if err != nil {
				logger.Warn("mDNS advertisement failed", "error", err)
			} else {
				defer mdnsServer.Shutdown()
				logger.Info("advertising journal", "service", server.ServiceType, "port", port)
			}
		}

		if err := srv.Serve(ctx, l); err != nil {
			fatal("Server failed", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: from config)")
	serveCmd.Flags().BoolVar(&serveAdvertise, "advertise", false, "Announce the server over mDNS")
}
