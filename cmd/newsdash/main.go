// Command newsdash searches news providers for a keyword and prints, serves or
// exports the deduplicated, optionally summarized results.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
