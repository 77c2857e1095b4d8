// Package history persists a record of every successful compile in SQLite.
//
// Each row captures the story file that was produced together with the
// release, serial, checksum and size reported after the build, grouped by the
// run identifier of the invocation that produced it. Schema changes ship as
// numbered SQL files under migrations/ and are applied on Open.
package history
