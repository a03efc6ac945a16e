package main

import (
	"fmt"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/spf13/cobra"
)

type extractOptions struct {
	json       bool
	configPath string
}

func newExtractCmd() *cobra.Command {
	opts := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract skills and entities from a résumé file",
		Long:  "Extract the text of a PDF, DOCX or HTML résumé and print the skills, organizations, locations and persons found in it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the result as JSON")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML or JSON config file")
	return cmd
}

func runExtract(cmd *cobra.Command, path string, opts *extractOptions) error {
	doc, err := ingestion.IngestFromFile(path)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	p, err := buildPipeline(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	extraction, err := p.extractor.ExtractSkills(cmd.Context(), doc.Text)
	if err != nil {
		return fmt.Errorf("failed to extract skills: %w", err)
	}

	if opts.json {
		return writeJSON(cmd, extraction)
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintDocument(doc)
	printer.PrintExtraction(extraction)
	return nil
}
