// Package compiler builds Inform 6 compiler command lines and runs the
// compiler binary.
//
// Invocation captures everything one compile needs and renders it as a flat
// argument list; Client executes it through an Executor so tests can replace
// the subprocess. Compiler diagnostics are streamed line by line to the
// configured writer as they are produced.
package compiler
