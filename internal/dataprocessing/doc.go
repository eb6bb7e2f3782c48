// Package dataprocessing turns decoded dataset files into the summary table
// and its capacity statistics. It covers the middle stages of the pipeline,
// between the dataset decoder below it and the CSV exporter above it.
//
// # Architecture
//
// The package is organized into two components:
//
// 1. Extractor: walks each file's battery and cycle structures, computes
// per-cycle features (mean and max of the four signals, the flattened
// capacity scalar), and accumulates CycleRecords and BatteryGroups in
// load order.
//
// 2. Summarizer: computes capacity statistics over the accumulated table,
// globally and grouped by cycle type, and renders the console report.
//
// # Usage
//
// Loading both cycle types and summarizing:
//
//	extractor := dataprocessing.NewExtractor(logger, "data/MIT")
//	for _, ct := range domain.AllCycleTypes {
//	    if _, err := extractor.LoadCycleType(ctx, ct); err != nil {
//	        return err
//	    }
//	}
//
//	summarizer := dataprocessing.NewSummarizer(logger)
//	summary, err := summarizer.Summarize(ctx, extractor.Records(), extractor.GroupCount())
//	if err != nil {
//	    return err
//	}
//	summarizer.WriteReport(os.Stdout, summary)
//
// # Error Handling
//
// Any failure is fatal to the run: unreadable or malformed files abort the
// load, an empty signal aborts feature extraction naming the field, battery
// and cycle, and an empty record table aborts summarization. There is no
// partial-success mode.
package dataprocessing
