// Package files provides file system discovery utilities for the
// battery dataset pipeline.
//
// Discovery enumerates the MAT containers of a cycle-type directory and
// the CSV outputs of earlier runs. Results come back in lexical filename
// order, which the extractor relies on: batteries are numbered in load
// order, so enumeration has to be deterministic across runs and
// platforms.
//
// Example usage:
//
//	discovery := files.NewDiscovery("/path/to/data")
//
//	// Find the charge containers in load order
//	matFiles, err := discovery.FindMatFiles("charge")
package files
