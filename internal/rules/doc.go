// Package rules holds the detection rule catalog used by SafeType. A catalog
// is an ordered, immutable list of rules; each rule pairs a compiled pattern
// with the type, base confidence, message and context keywords reported for
// its matches. Adding a detectable secret type means appending one entry to
// the built-in table or registering a custom rule; engine logic never changes.
package rules
