// Package exporter writes the pipeline's CSV artifacts.
//
// This package contains two main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, appending, and optional UTF-8 BOM for Excel compatibility.
// Relative file names resolve against the configured output directory.
//
// SummaryExporter: Writes the cycle summary table (one row per cycle
// record, in accumulation order) and the grouped per-cycle-type statistics,
// and reads the summary table back for downstream tools. Floats use the
// shortest round-trip formatting so identical inputs produce byte-identical
// files.
//
// Example usage:
//
//	summaryExporter := exporter.NewSummaryExporter(paths)
//
//	// Write the two artifacts
//	err := summaryExporter.WriteCycleSummary(records, config.CycleSummaryFileName)
//	err = summaryExporter.WriteCycleTypeSummary(summary.ByType, config.CycleTypeSummaryFileName)
//
//	// Load the table back
//	records, err := summaryExporter.ReadCycleSummary(config.CycleSummaryFileName)
package exporter
