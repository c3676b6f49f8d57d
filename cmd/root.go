package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rhythmbox/server"
)

var rootCmd = &cobra.Command{
	Use:   "rhythmbox",
	Short: "Rhythmbox is a personal favorites manager on top of Spotify.",
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
