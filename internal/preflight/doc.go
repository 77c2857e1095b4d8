// Package preflight provides readiness checks for the compiler binary and the
// filesystem paths a build depends on.
//
// These checks run in two contexts:
//   - The build command calls RunAll before compiling anything and aborts on
//     the first failed required check.
//   - The CLI "check" command renders every result as a status line.
package preflight
