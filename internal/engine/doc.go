// Package engine contains the core scanning logic for SafeType. Scanner.Scan
// runs every catalog rule over a text buffer and returns ordered detection
// results; ScanFiles walks files and git blobs and feeds them through a shared
// Scanner. This package is internal; external consumers should use the stable
// facade in pkg/core.
package engine
