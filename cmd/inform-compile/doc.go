// Command inform-compile compiles Inform 6 sources into Z-machine story files.
//
// The root command takes one or more .inf files and compiles each in turn,
// naming the story file after the release and serial found in the source
// header. Subcommands cover the build history (history), environment checks
// (check) and configuration management (config init, config validate).
package main
