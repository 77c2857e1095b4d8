package main

import (
	"github.com/spf13/cobra"
)

// version is overridden at link time.
var version = "0.5.0"

func newRootCommand() *cobra.Command {
	var configFlag string
	var verbosity int
	flags := &buildFlags{}

	ctx := newCommandContext(&configFlag, &verbosity)

	rootCmd := &cobra.Command{
		Use:           "inform-compile [flags] <infiles>...",
		Short:         "Compile Inform 6 source to story files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, ctx, flags, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Print info (-vv for debug)")

	registerBuildFlags(rootCmd, flags)
	rootCmd.MarkFlagsMutuallyExclusive("dev", "release")

	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
