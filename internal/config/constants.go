package config

// Application constants for the battery dataset pipeline
const (
	// Application Info
	AppName    = "battexplorer"
	AppVersion = "1.0.0"

	// Directory defaults (relative to the working directory)
	DefaultDataDir   = "data/MIT"
	DefaultOutputDir = "output"
	DefaultPlotsDir  = "plots"
	DefaultLogsDir   = "logs"

	// Well-known output files
	CycleSummaryFileName     = "battery_cycle_summary.csv"
	CycleTypeSummaryFileName = "battery_cycle_type_summary.csv"

	// Log Settings
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultLogOutput   = "both"
	DefaultLogFilePath = "logs/app.log"
)
