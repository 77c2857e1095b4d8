// Package logging builds the slog loggers used by inform-compile.
//
// Two formats are supported: a console format for people watching a build
// and JSON for log collection. Verbosity flags map onto levels through
// LevelForVerbosity. Attribute helpers keep the keys for run IDs, source files
// and components consistent across packages.
package logging
