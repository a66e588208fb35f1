package cmd

import (
	"github.com/muntasir-dev/MusicStream/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the MusicStream server",
	Long:  `Start the MusicStream HTTP server, serving the library API and the import engine.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
