package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"rhythmbox/config"
	"rhythmbox/core/spotify"
)

var spotifyCmd = &cobra.Command{
	Use:   "spotify",
	Short: "Test the Spotify API connection",
	Long:  `Request an app token with the configured credentials and run a one-item search.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		client := spotify.NewClient(cfg)

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := client.TestConnection(ctx); err != nil {
			log.Fatalf("Spotify API check failed: %v", err)
		}
		fmt.Println("Spotify API check OK")
	},
}

func init() {
	rootCmd.AddCommand(spotifyCmd)
}
