// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"
)

// TaskOptions captures the flags used when creating a task.
type TaskOptions struct {
	Description string
	Category    string
	Priority    string
	Estimate    int
	Due         string
	Focus       bool
}

// AddTaskArgs wires task creation flags on the provided command.
func AddTaskArgs(cmd *cobra.Command, o *TaskOptions) {
	cmd.Flags().StringVarP(&o.Description, "describe", "d", "",
		"Longer description for the task.")
	cmd.Flags().StringVarP(&o.Category, "category", "c", "",
		"Category name, created on first use.")
	cmd.Flags().StringVarP(&o.Priority, "priority", "p", "",
		"Priority: low, medium, or high.")
	cmd.Flags().IntVarP(&o.Estimate, "estimate", "e", 0,
		"Estimated effort in minutes.")
	cmd.Flags().StringVar(&o.Due, "due", "",
		"Due timestamp, RFC3339.")
	cmd.Flags().BoolVarP(&o.Focus, "focus", "f", false,
		"Put the task at the end of today's agenda.")
}

// FilterOptions captures the flags used when listing tasks.
type FilterOptions struct {
	Status     string
	Category   string
	Priority   string
	Search     string
	Focus      bool
	Categories bool
}

// AddFilterArgs wires listing filters on the provided command.
func AddFilterArgs(cmd *cobra.Command, o *FilterOptions) {
	cmd.Flags().StringVarP(&o.Status, "status", "s", "",
		"Filter by status: open, done, or snoozed.")
	cmd.Flags().StringVarP(&o.Category, "category", "c", "",
		"Filter by category name.")
	cmd.Flags().StringVarP(&o.Priority, "priority", "p", "",
		"Filter by priority: low, medium, or high.")
	cmd.Flags().StringVar(&o.Search, "search", "",
		"Case-insensitive title substring.")
	cmd.Flags().BoolVarP(&o.Focus, "focus", "f", false,
		"Show the agenda instead of the full list.")
	cmd.Flags().BoolVar(&o.Categories, "categories", false,
		"List categories instead of tasks.")
}

// IDOptions captures identifier display flags.
type IDOptions struct {
	ShowID bool
}

// AddShowIDArgs registers the show-id flag.
func AddShowIDArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().BoolVarP(&o.ShowID, "show-id", "k", false,
		"Show the ID of each task.")
}
