package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "hireloop",
	Short: "Hireloop is a durable AI recruitment pipeline",
	Long: `Hireloop runs recruitment jobs as a resumable workflow: JD generation,
posting, applicant monitoring, shortlisting, voice prescreening and
interview scheduling, with human approval gates in between.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to the YAML config file")
}
