// Command airbnb-reviews acquires and ranks Airbnb listing reviews.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"airbnb-reviews/config"
	"airbnb-reviews/utils"
)

var (
	cfg    *config.Config
	logger = utils.NewLogger()
)

var rootCmd = &cobra.Command{
	Use:           "airbnb-reviews",
	Short:         "Airbnb review acquisition and ranking",
	Long:          "Fetches guest reviews for Airbnb listings through a browser, direct HTTP or generated fallback, and picks the most useful ones.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		cfg = config.Load()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
