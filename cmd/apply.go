package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Romelium/mpatch/internal/config"
	"github.com/Romelium/mpatch/internal/exitcode"
	"github.com/Romelium/mpatch/internal/patch"
)

var (
	applyDryRun     bool
	applyStrict     bool
	applyFuzz       float64
	applyRoot       string
	applyIgnore     []string
	applyTargetPath string
)

var applyCmd = &cobra.Command{
	Use:   "apply <patch-file|->",
	Short: "Apply a patch (unified diff, Markdown-fenced diff, or conflict markers) to files under root",
	Args:  cobra.ExactArgs(1),
	RunE:  runApply,
}

func init() {
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Report what would change without writing files")
	applyCmd.Flags().BoolVar(&applyStrict, "strict", false, "Fail a whole patch if any of its hunks fail to apply")
	applyCmd.Flags().Float64Var(&applyFuzz, "fuzz-factor", patch.DefaultFuzzFactor, "Minimum similarity for fuzzy hunk matching (0 disables fuzzy matching)")
	applyCmd.Flags().StringVar(&applyRoot, "root", ".", "Root directory patches are applied under")
	applyCmd.Flags().StringArrayVar(&applyIgnore, "ignore", nil, "Glob (doublestar syntax) of paths the Safe-Path Guard should reject")
	applyCmd.Flags().StringVar(&applyTargetPath, "target", "", "Explicit target path, required for conflict-marker patches")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	input, err := readPatchInput(args[0])
	if err != nil {
		return fmt.Errorf("reading patch input: %w", err)
	}

	patches, err := patch.ParseAuto(input)
	if err != nil {
		return err
	}
	if len(patches) == 0 {
		return exitcode.NoPatches("no patches found in input")
	}

	opts := applyOptions(cmd)
	driver := patch.NewDriver(applyRoot)

	var reports []patch.PatchReport
	for _, p := range patches {
		reports = append(reports, driver.ApplyToPath(p, applyTargetPath, opts))
	}

	anyFailure := printReports(cmd.OutOrStdout(), reports)
	if anyFailure {
		return exitcode.Partial("one or more hunks failed to apply")
	}
	return nil
}

// applyOptions merges loaded config defaults with any flags the user
// actually set, so an unset --fuzz-factor doesn't silently override a
// configured value with the flag's own default. --ignore globs are added
// to the configured ones.
func applyOptions(cmd *cobra.Command) patch.ApplyOptions {
	opts := patch.NewApplyOptions()
	if cfg, err := config.Load(); err == nil {
		opts = cfg.ToApplyOptions()
	}

	opts.DryRun = applyDryRun
	if cmd.Flags().Changed("strict") {
		opts.Strict = applyStrict
	}
	if cmd.Flags().Changed("fuzz-factor") {
		opts.FuzzFactor = applyFuzz
	}
	if len(applyIgnore) > 0 {
		opts.IgnoreGlobs = append(opts.IgnoreGlobs, applyIgnore...)
	}
	return opts
}

func readPatchInput(arg string) (string, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(arg)
	return string(data), err
}

func printReports(w io.Writer, reports []patch.PatchReport) (anyFailure bool) {
	for _, r := range reports {
		if r.FatalError != nil {
			anyFailure = true
			fmt.Fprintf(w, "%s: FAILED (%v)\n", r.Path, r.FatalError)
			continue
		}
		fmt.Fprintf(w, "%s: %d/%d hunks applied\n", r.Path, r.SuccessCount(), len(r.HunkStatuses))
		for i, s := range r.HunkStatuses {
			if s.Applied {
				fmt.Fprintf(w, "  hunk %d: applied (%s match at line %d)\n", i+1, s.Location.MatchType, s.Location.StartIndex+1)
				continue
			}
			anyFailure = true
			fmt.Fprintf(w, "  hunk %d: FAILED (%s) %s\n", i+1, s.FailureKind, s.Detail)
		}
	}
	return anyFailure
}
