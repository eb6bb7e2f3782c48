// Package app provides application initialization and pipeline execution
// for the battery dataset explorer. It wires every component together at
// startup and runs the extract, summarize, export, and plot stages in
// order.
//
// # Architecture
//
// The app package follows a dependency injection pattern where all
// components are wired together at startup. This ensures loose coupling
// and testability: tests build an Application over temporary directories
// and a buffered console writer.
//
// # Pipeline Flow
//
// Run executes one pass over the dataset:
//
//	1. Validate the environment (data directories hold files, output
//	   directories are writable)
//	2. Load the charge and partial-charge containers through the Extractor
//	3. Summarize capacity statistics globally and per cycle type
//	4. Print the console report
//	5. Write the per-cycle and grouped-statistics CSV artifacts
//	6. Render one capacity-fade plot per battery group
//
// # Usage
//
// The main entry point is typically:
//
//	application, err := app.NewApplication(cfg, logger)
//	if err != nil {
//	    // handle
//	}
//	if err := application.Run(ctx); err != nil {
//	    // handle
//	}
//
// # Error Handling
//
// Every stage is fatal on error: Run returns the first failure unchanged
// and produces no partial results beyond the files already written. The
// app does not call os.Exit() directly, allowing the main function to
// control the exit process.
package app
