package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("dockwork %s\n", buildInfo.Version)
		fmt.Printf("commit: %s\n", buildInfo.Commit)
		fmt.Printf("built: %s\n", buildInfo.BuildDate)
		fmt.Printf("go: %s\n", buildInfo.GoVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
