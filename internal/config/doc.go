// Package config provides centralized configuration management for the
// battery dataset pipeline. It handles loading configuration from
// multiple sources, validation, and a type-safe API for the file system
// layout of a run.
//
// # Configuration Sources
//
// Configuration is resolved in layers, later layers winning:
//
//	1. Built-in defaults (data/MIT, output, plots, logs)
//	2. Optional config.yaml (or configs/config.yaml)
//	3. Environment variables
//	4. Command-line flags, applied by the caller via ApplyOverrides
//
// # Environment Variables
//
// All environment variables follow the pattern BATT_* for namespacing,
// with nested-struct key layout:
//
//	BATT_PATHS_DATA_DIR=data/MIT
//	BATT_PATHS_OUTPUT_DIR=output
//	BATT_PATHS_PLOTS_DIR=plots
//	BATT_LOGGING_LEVEL=info
//
// # Path Management
//
// The Paths type is the single source of truth for where a run reads
// and writes. It derives the cycle-type input directories and the
// well-known output files from the three configured directories:
//
//	paths := cfg.ResolvePaths()
//	chargeDir := paths.ChargeDir()
//	summaryCSV := paths.CycleSummaryCSV()
//
// EnsureDirectories creates the writable directories (output, plots,
// logs); the data root is validated, never created.
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
