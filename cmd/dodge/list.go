package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dodge/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List session categories",
	Long:  `Shows every category a session can be played in.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	cats := registry.List()

	if len(cats) == 0 {
		fmt.Println("No categories available.")
		return
	}

	fmt.Println("Categories:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, c := range cats {
		maxIDLen = max(maxIDLen, len(c.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Description")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----------")

	for _, c := range cats {
		fmt.Printf("  %-*s  %s\n", maxIDLen, c.ID, c.Description)
	}

	fmt.Println()
	fmt.Println("Run 'dodge play <id>' to play.")
}
