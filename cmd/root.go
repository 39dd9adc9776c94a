package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "billing-service",
	Short: "Subscription billing service",
	Long:  "A subscription billing service that charges recurrent payment tokens on schedule and manages their retry chains.",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// .env is optional; containers inject real environment variables
		_ = godotenv.Load()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
