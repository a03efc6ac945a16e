package main

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/types"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	skills     []string
	file       string
	json       bool
	configPath string
}

func newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score a skill set against the skill categories",
		Long: `Score a skill set against the skill categories and print strengths, top categories and recommended skills.

Skills are given with --skills, or extracted from a résumé with --file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, opts)
		},
	}
	cmd.Flags().StringSliceVarP(&opts.skills, "skills", "s", nil, "Comma-separated skills to analyze")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Résumé file to extract skills from")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the result as JSON")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML or JSON config file")
	cmd.MarkFlagsMutuallyExclusive("skills", "file")
	cmd.MarkFlagsOneRequired("skills", "file")
	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *analyzeOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	p, err := buildPipeline(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	skillList := opts.skills
	var extraction *types.SkillExtraction
	if opts.file != "" {
		doc, err := ingestion.IngestFromFile(opts.file)
		if err != nil {
			return err
		}
		extraction, err = p.extractor.ExtractSkills(cmd.Context(), doc.Text)
		if err != nil {
			return fmt.Errorf("failed to extract skills: %w", err)
		}
		skillList = extraction.Skills
	}

	analysis, err := p.analyzer.AnalyzeSkills(cmd.Context(), trimAll(skillList))
	if err != nil {
		return fmt.Errorf("failed to analyze skills: %w", err)
	}

	if opts.json {
		return writeJSON(cmd, analysis)
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintExtraction(extraction)
	printer.PrintAnalysis(analysis)
	return nil
}

// trimAll trims each value and drops the empty ones.
func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
