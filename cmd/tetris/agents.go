package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/registry"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List all available agents",
	Long:  `Shows a list of all move-evaluation agents registered in tetris.`,
	Run:   runAgents,
}

func runAgents(_ *cobra.Command, _ []string) {
	agents := registry.List()

	if len(agents) == 0 {
		fmt.Println("No agents available.")
		return
	}

	fmt.Println("Available agents:")
	fmt.Println()

	maxNameLen := 4 // "Name" header
	for _, a := range agents {
		maxNameLen = max(maxNameLen, len(a.Name))
	}

	fmt.Printf("  %-*s  %s\n", maxNameLen, "Name", "Description")
	fmt.Printf("  %-*s  %s\n", maxNameLen, "----", "-----------")
	for _, a := range agents {
		fmt.Printf("  %-*s  %s\n", maxNameLen, a.Name, a.Description)
	}

	fmt.Println()
	fmt.Println("Run 'tetris watch <name>' to watch an agent play.")
}
