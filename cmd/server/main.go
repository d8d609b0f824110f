// Command server runs the Buildrr API, its schema migration and the
// notification worker.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "buildrr",
	Short:         "Buildrr agency backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		// A missing .env is fine; the environment may already be set.
		_ = godotenv.Load()
	},
}

func init() {
	serveCmd.Flags().Bool("with-worker", false, "also consume the notification queue (NOTIFY_MODE=queue)")
	rootCmd.AddCommand(serveCmd, migrateCmd, workerCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
