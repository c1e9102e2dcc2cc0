package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of hireloop",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hireloop version %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
