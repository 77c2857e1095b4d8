// Package storyfile names, inspects, and post-processes compiled Z-machine
// story files.
//
// Resolve derives the output path for a source file from the output options
// and the source header metadata. After compilation, Inspect reports the
// artifact checksum and size, ReadHeader decodes the Z-machine header, WriteJS
// produces the Base64 JavaScript wrapper consumed by web interpreters, and
// LinkLatest maintains a stable symlink to the newest build.
package storyfile
