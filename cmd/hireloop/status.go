package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hireloop/hireloop/internal/workflow"
)

var statusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Print a job's workflow status",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		state := mustLoadState(cmd, args[0])

		out, err := json.MarshalIndent(workflow.BuildStatus(state), "", "  ")
		if err != nil {
			fmt.Printf("Error encoding status: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
