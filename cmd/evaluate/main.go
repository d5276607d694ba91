package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	reps     int
	provider string
)

var rootCmd = &cobra.Command{
	Use:   "evaluate <model> <file.pdf>",
	Short: "Generate MCQs for every topic of a document",
	Long: `Builds the multiple-choice pipeline for a PDF, reads the topic list from
the JSON file next to it (file.pdf -> file.json) and writes every generated
question, valid or not, to <pdf dir>/<model>/<file>.json.`,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runEvaluate,
}

func init() {
	rootCmd.Flags().IntVarP(&reps, "reps", "r", 1, "number of questions per topic")
	rootCmd.Flags().StringVarP(&provider, "provider", "p", "", "LLM provider (defaults to LLM_PROVIDER)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
