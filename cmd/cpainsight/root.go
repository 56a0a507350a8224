package main

import (
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "cpainsight",
	Short: "Competency analytics for clinical performance assessments",
	Long: "cpainsight turns long-format assessment exports into per-evaluation\n" +
		"records and scores competency trends, recency-weighted, per student.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}
