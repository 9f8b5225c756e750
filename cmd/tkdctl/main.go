package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "tkdctl",
	Short: "Operator tool for the taekwondo competition server",
	Long: `tkdctl runs database migrations, recomputes pool standings, previews
brackets and replays PSS frames against a running server.

Database commands read DATABASE_URL (and the rest of the server
configuration) from the environment or a .env file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tkdctl: %s\n", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
