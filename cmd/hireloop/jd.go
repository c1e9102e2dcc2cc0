package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hireloop/hireloop/internal/config"
	"github.com/hireloop/hireloop/internal/tui"
	"github.com/hireloop/hireloop/internal/workflow"
)

var jdCmd = &cobra.Command{
	Use:   "jd <job-id>",
	Short: "Render a job's generated description in the terminal",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		state := mustLoadState(cmd, args[0])
		if state.JD.GeneratedJD == nil {
			fmt.Println("No job description generated yet.")
			os.Exit(1)
		}

		render := tui.NewRenderer()
		out, err := render(tui.JDMarkdown(*state.JD.GeneratedJD))
		if err != nil {
			fmt.Printf("Error rendering job description: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(out)
		fmt.Printf("Approval: %s  Attempts: %d\n", state.JD.ApprovalStatus, state.JD.GenerationAttempts)
	},
}

// mustLoadState opens the configured store and reads one job's state,
// exiting on any failure.
func mustLoadState(cmd *cobra.Command, jobID string) *workflow.WorkflowState {
	_ = godotenv.Load()

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		fmt.Printf("Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	state, err := store.Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, workflow.ErrCheckpointNotFound) {
			fmt.Printf("Job %s not found.\n", jobID)
		} else {
			fmt.Printf("Error reading job: %v\n", err)
		}
		os.Exit(1)
	}
	return state
}

func init() {
	rootCmd.AddCommand(jdCmd)
}
