package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/supernovae-st/nika/internal/flowgraph"
	"github.com/supernovae-st/nika/internal/validator"
	"github.com/supernovae-st/nika/internal/workflow"
)

func planCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <file>",
		Short: "Print the topological execution order and graph-layer warnings, without executing",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runPlan(args[0])
		},
	}
}

func runPlan(path string) error {
	w, err := workflow.LoadFile(path)
	if err != nil {
		return err
	}

	g := flowgraph.FromWorkflow(w)
	order, err := g.TopoSort()
	if err != nil {
		return err
	}

	fmt.Println("Execution order:")
	for i, id := range order {
		fmt.Printf("  %d. %s\n", i+1, id)
	}

	warnings := validator.ValidateGraph(w)
	if len(warnings) == 0 {
		return nil
	}
	fmt.Println(strings.Repeat("-", 40))
	fmt.Println("Graph warnings:")
	for _, issue := range warnings {
		fmt.Printf("  %s\n", issue)
	}
	return nil
}
