package main

import (
	"fmt"
	"io"

	"github.com/jonathan/resume-analyzer/internal/server"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	port       int
	configPath string
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  `Start an HTTP server that exposes the résumé upload, skill extraction and skill analysis endpoints.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
	cmd.Flags().IntVar(&opts.port, "port", 0, "Port to listen on (overrides config and PORT)")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML or JSON config file")
	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.port != 0 {
		cfg.Server.Port = opts.port
	}

	p, err := buildPipeline(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Port:            cfg.Server.Port,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		MaxUploadBytes:  cfg.Server.MaxUploadBytes,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Extractor:       p.extractor,
		Analyzer:        p.analyzer,
		Closers:         []io.Closer{p},
	})
	if err != nil {
		_ = p.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
