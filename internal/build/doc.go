// Package build drives a batch compile: for each source file it extracts
// metadata, resolves the story file target, runs the compiler and
// post-processes the produced artifact.
//
// Files are handled strictly in order. Missing inputs, non-source files and
// existing outputs are skipped with a warning; a missing output directory,
// a failed compile or a missing artifact aborts the remaining run.
package build
