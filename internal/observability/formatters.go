// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// barWidth is the width of a score bar
	barWidth = 16
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// PrintDocument outputs a summary of an ingested résumé document.
func (p *Printer) PrintDocument(doc *ingestion.Document) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:     %s\n", doc.Filename))
	sb.WriteString(fmt.Sprintf("Format:   %s\n", doc.Format))
	sb.WriteString(fmt.Sprintf("Length:   %d characters\n", doc.TextLength))
	sb.WriteString(fmt.Sprintf("SHA-256:  %s", truncate(doc.Hash, 16)))

	p.printBox("DOCUMENT", sb.String())
}

// PrintExtraction outputs the skills and entities found in a résumé.
func (p *Printer) PrintExtraction(extraction *types.SkillExtraction) {
	if extraction == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total entities: %d\n", extraction.TotalEntities))
	if extraction.Degraded {
		sb.WriteString("Mode: pattern matching only\n")
	}
	sb.WriteString("\n")

	writeList(&sb, "Skills", extraction.Skills)
	writeList(&sb, "Organizations", extraction.Organizations)
	writeList(&sb, "Locations", extraction.Locations)
	writeList(&sb, "Persons", extraction.Persons)

	p.printBox("EXTRACTED SKILLS", strings.TrimSuffix(sb.String(), "\n"))
}

// writeList appends a bulleted section, skipping empty lists.
func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("%s (%d):\n", title, len(items)))
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
	sb.WriteString("\n")
}

// PrintAnalysis outputs category scores, top categories and recommendations.
func (p *Printer) PrintAnalysis(analysis *types.SkillAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Skills analyzed: %d\n\n", analysis.TotalSkillsAnalyzed))

	for _, cs := range analysis.CategoryScores {
		sb.WriteString(fmt.Sprintf("%-18s %s %.3f %s\n", truncate(cs.Category, 18), scoreBar(cs.Score), cs.Score, cs.Strength))
	}

	if len(analysis.TopCategories) > 0 {
		names := make([]string, len(analysis.TopCategories))
		for i, cs := range analysis.TopCategories {
			names[i] = cs.Category
		}
		sb.WriteString(fmt.Sprintf("\nTop: %s\n", strings.Join(names, ", ")))
	}

	if len(analysis.RecommendedSkills) > 0 {
		sb.WriteString("\nRecommended:\n")
		for _, skill := range analysis.RecommendedSkills {
			sb.WriteString(fmt.Sprintf("  • %s\n", skill))
		}
	}

	p.printBox("SKILL ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// scoreBar renders a score in [0,1] as a fixed-width bar.
func scoreBar(score float64) string {
	filled := int(score*barWidth + 0.5)
	filled = max(0, min(filled, barWidth))
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}
