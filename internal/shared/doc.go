// Package shared provides common utilities and test helpers used across the
// battery dataset pipeline. It serves as a central location for shared
// functionality that doesn't belong to any specific domain or architectural
// layer.
//
// # Structure
//
// The package is organized into the following components:
//
// - testutil: Testing utilities including MAT container fixtures and a
//   buffered slog handler for log assertions
//
// # Usage Guidelines
//
// This package should only contain:
//
// 1. Test utilities used by multiple packages
// 2. Generic helper functions with no domain-specific logic
//
// It should NOT contain:
//
// 1. Business logic or domain-specific code
// 2. Circular dependencies with other internal packages
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//	- Builders that encode synthetic MAT 5 containers byte by byte, so
//	  decoder and pipeline tests control exactly what is on disk
//	- A buffered slog.Handler that captures records for assertions
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, handler := testutil.NewTestLogger(t)
//	    // run the code under test with logger
//	    testutil.AssertLogContains(t, handler, slog.LevelInfo, "cycle type loaded")
//	}
package shared
