package cmd

import (
	"github.com/spf13/cobra"

	"rhythmbox/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	Long:  `Start the rhythmbox HTTP server serving the favorites, search and playlist API.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
