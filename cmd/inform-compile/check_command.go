package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"informcompile/internal/language"
	"informcompile/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the compiler binary and directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			color := colorEnabled(out)

			configMsg := ctx.configPath
			configKind := checkOK
			if !ctx.configExists {
				configMsg += " (not found, defaults used)"
				configKind = checkInfo
			}
			fmt.Fprintln(out, formatCheck("Config", configKind, configMsg, color))

			results := preflight.RunAll(preflight.Settings{
				CompilerBinary: cfg.Compiler.Binary,
				TempDir:        cfg.Compiler.TempDir,
				OutputDir:      cfg.Output.Directory,
			})
			for _, r := range results {
				kind := checkOK
				if !r.Passed {
					kind = checkFail
					if r.Optional {
						kind = checkWarn
					}
				}
				fmt.Fprintln(out, formatCheck(r.Name, kind, r.Detail, color))
			}

			langKind := checkOK
			langName, known := language.Resolve(cfg.Compiler.Language)
			langMsg := langName
			if !known {
				langKind = checkWarn
				langMsg = fmt.Sprintf("%q not recognized, compiling as %s", cfg.Compiler.Language, langName)
			}
			fmt.Fprintln(out, formatCheck("Language", langKind, langMsg, color))
			fmt.Fprintln(out, formatCheck("History", checkInfo, fmt.Sprintf("%s (enabled: %s)", cfg.History.Path, yesNo(cfg.History.Enabled)), color))

			if preflight.Failed(results) {
				return errors.New("preflight checks failed")
			}
			return nil
		},
	}
}
