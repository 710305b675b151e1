package cmd

import (
	"github.com/huangsam/almanac/core"
	"github.com/huangsam/almanac/internal/contract"
	"github.com/spf13/cobra"
)

// inspectCmd shows how a single page is classified and extracted.
var inspectCmd = &cobra.Command{
	Use:   "inspect <year|url|file>",
	Short: "Show how one season page is classified and extracted",
	Long: `Run the classifier and extractors over a single page and print what they
found, without validating or storing anything.

The target is a season year, an http(s) URL or a saved markup file.

Examples:
  # Inspect the 1961 page
  almanac inspect 1961

  # Inspect a saved page, telling the extractor which season it is
  almanac inspect ./pages/al1961.html --year 1961`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := sharedSetup(cmd, args); err != nil {
			return err
		}
		cfg.Target = args[0]
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteInspect(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run inspect", err)
		}
	},
}
