// Package metadata extracts build metadata from the header block of Inform 6
// source files.
//
// The header is the run of lines before the first blank line. Three line
// families are recognized: "! key: value" comments, "Release N" directives,
// and `Serial "NNNNNN"` directives. Files are decoded from whatever character
// set they were saved in before scanning, so Latin-1 and UTF-16 sources yield
// the same fields as UTF-8 ones.
package metadata
