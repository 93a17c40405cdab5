// Package reporter renders a scan result for the terminal or for machine
// consumption.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/reclaim/internal/classify"
	"github.com/fenilsonani/reclaim/internal/scanner"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
	FormatSummary OutputFormat = "summary"
)

// Reporter handles report generation
type Reporter struct {
	writer io.Writer
	format OutputFormat
}

// New creates a new Reporter
func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{
		writer: writer,
		format: format,
	}
}

// Report renders the scan result in the configured format.
func (r *Reporter) Report(result *scanner.ScanResult) error {
	switch r.format {
	case FormatTable:
		return r.reportTable(result)
	case FormatJSON:
		return r.reportJSON(result)
	case FormatYAML:
		return r.reportYAML(result)
	case FormatSummary:
		return r.reportSummary(result)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

// reportSummary prints totals and a per-category breakdown.
func (r *Reporter) reportSummary(result *scanner.ScanResult) error {
	fmt.Fprintf(r.writer, "=== Scan Summary ===\n")
	fmt.Fprintf(r.writer, "Candidate Folders: %d\n", len(result.Folders))
	fmt.Fprintf(r.writer, "Total Size: %s\n", humanize.IBytes(result.TotalSizeBytes))
	fmt.Fprintf(r.writer, "\nBreakdown by Category:\n")

	counts := make(map[classify.Category]int)
	sizes := make(map[classify.Category]uint64)
	for _, folder := range result.Folders {
		counts[folder.Category]++
		sizes[folder.Category] += folder.SizeBytes
	}
	for _, category := range classify.Categories {
		if counts[category] == 0 {
			continue
		}
		fmt.Fprintf(r.writer, "  %s: %d folders, %s\n",
			category, counts[category], humanize.IBytes(sizes[category]))
	}

	if result.SoftErrors > 0 {
		fmt.Fprintf(r.writer, "\nUnreadable entries skipped: %d\n", result.SoftErrors)
	}

	return nil
}

// reportTable prints one row per candidate folder, largest first.
func (r *Reporter) reportTable(result *scanner.ScanResult) error {
	rule := strings.Repeat("-", 110)

	fmt.Fprintf(r.writer, "%-60s | %-12s | %s\n", "Path", "Size", "Category")
	fmt.Fprintf(r.writer, "%s\n", rule)

	for _, folder := range result.Folders {
		path := folder.Path
		if len(path) > 60 {
			path = "..." + path[len(path)-57:]
		}
		fmt.Fprintf(r.writer, "%-60s | %-12s | %s\n",
			path, humanize.IBytes(folder.SizeBytes), folder.Category)
	}

	fmt.Fprintf(r.writer, "%s\n", rule)
	fmt.Fprintf(r.writer, "Total: %d folders, %s\n", len(result.Folders), humanize.IBytes(result.TotalSizeBytes))

	return nil
}

// reportJSON emits the result in its canonical wire shape, indented.
func (r *Reporter) reportJSON(result *scanner.ScanResult) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// reportYAML emits the result as YAML.
func (r *Reporter) reportYAML(result *scanner.ScanResult) error {
	report := struct {
		TotalSizeBytes uint64                    `yaml:"total_size_bytes"`
		Folders        []scanner.CandidateFolder `yaml:"folders"`
		SoftErrors     uint64                    `yaml:"soft_errors,omitempty"`
	}{
		TotalSizeBytes: result.TotalSizeBytes,
		Folders:        result.Folders,
		SoftErrors:     result.SoftErrors,
	}

	return yaml.NewEncoder(r.writer).Encode(report)
}

// ValidFormat reports whether s names a supported output format.
func ValidFormat(s string) bool {
	switch OutputFormat(s) {
	case FormatTable, FormatJSON, FormatYAML, FormatSummary:
		return true
	}
	return false
}
