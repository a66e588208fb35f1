package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "musicstream",
	Short: "MusicStream is a personal music library service backed by GitHub repositories.",
	Run: func(cmd *cobra.Command, args []string) {
		// Default action is the same as `musicstream server`.
		serverCmd.Run(cmd, args)
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
