// Package config loads SafeType configuration from local and global YAML files.
// Fields are pointers so the CLI can tell "unset" from a zero value when it
// applies precedence (flags, then the local file, then the global file).
package config
