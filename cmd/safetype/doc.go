// Package safetype provides the command-line interface for SafeType. It
// configures subcommands (scan, rules, diagnostics, demo, etc.), parses
// flags, and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/safetype/safetype/cmd/safetype"
//	func main() { safetype.Execute() }
package safetype
