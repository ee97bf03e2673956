package main

import (
	"newsdash/rssfeeds"

	"github.com/spf13/cobra"
)

var feedsCmd = &cobra.Command{
	Use:   "feeds",
	Short: "List RSS feed presets and the configured feeds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cmd.Println("Available feed presets:")
		for _, name := range rssfeeds.SortedPresetNames() {
			p := rssfeeds.FeedPresets[name]
			cmd.Printf("  %-12s %-20s %s\n", name, p.Name, p.URL)
		}

		fromFile, err := rssfeeds.LoadFeedsFile(cfg.Providers.FeedsFile)
		if err != nil {
			return err
		}
		configured := rssfeeds.ResolveFeeds(cfg.Providers.Feeds, fromFile)
		cmd.Println()
		if len(configured) == 0 {
			cmd.Println("No user feeds configured. Add presets or URLs under providers.feeds or in a feeds file.")
			return nil
		}
		cmd.Println("Configured feeds:")
		for _, u := range configured {
			cmd.Printf("  %s\n", u)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(feedsCmd)
}
