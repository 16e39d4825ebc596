// Package core provides a small, stable facade over SafeType's internal
// engine for external integrations. It re-exports a narrow API surface so
// other tools can depend on a stable import path without importing internal
// packages.
//
// Example:
//
//	for _, r := range core.Scan(text) {
//		fmt.Printf("%s %.2f %q\n", r.Type, r.Confidence, r.Match)
//	}
package core
