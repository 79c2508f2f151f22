package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "xenon",
	Short: "Xenon - chat-based storefront",
	Long: `Xenon is a chat-based storefront: users create an account, browse the
catalog, build a cart, and place orders through a multi-step conversation.
A single configured administrator manages the catalog.

Commands:
  serve    Run a local chat session against the store
  migrate  Apply the database schema
  config   Inspect the resolved configuration`,
	Version: "1.2.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}
