package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/supernovae-st/nika/internal/rules"
	"github.com/supernovae-st/nika/internal/validator"
	"github.com/supernovae-st/nika/internal/workflow"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Parse and run the five validation layers over a workflow document",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

var reportedLayers = []validator.Layer{
	validator.LayerSchema,
	validator.LayerNodes,
	validator.LayerEdges,
	validator.LayerParadigms,
	validator.LayerGraph,
}

func runValidate(path string) error {
	w, err := workflow.LoadFile(path)
	if err != nil {
		return err
	}

	nodeTypes, err := loadNodeTypes(path)
	if err != nil {
		return err
	}
	matrix, err := rules.DefaultParadigmMatrix()
	if err != nil {
		return err
	}

	result := validator.New(nodeTypes, matrix).Validate(w)

	byLayer := make(map[validator.Layer][]validator.Issue, len(reportedLayers))
	for _, issue := range result.Errors {
		byLayer[issue.Layer] = append(byLayer[issue.Layer], issue)
	}
	for _, issue := range result.Warnings {
		byLayer[issue.Layer] = append(byLayer[issue.Layer], issue)
	}

	for _, layer := range reportedLayers {
		issues := byLayer[layer]
		fmt.Printf("%s: %d issue(s)\n", layer, len(issues))
		for _, issue := range issues {
			fmt.Printf("  %s\n", issue)
		}
	}
	fmt.Printf("\n%d error(s), %d warning(s)\n", len(result.Errors), len(result.Warnings))

	if !result.IsValid() {
		return fmt.Errorf("validation failed with %d error(s)", len(result.Errors))
	}
	return nil
}

// loadNodeTypes returns the built-in node-type registry merged with any
// `.nika/nodes/*.node.yaml` custom nodes declared alongside the workflow
// file, so Layer 2 sees the same lookup table a real project would use.
func loadNodeTypes(workflowPath string) (*rules.NodeTypes, error) {
	nodeTypes, err := rules.DefaultNodeTypes()
	if err != nil {
		return nil, err
	}
	custom, err := rules.DiscoverCustomNodes(rules.OSFileReader{}, filepath.Dir(workflowPath))
	if err != nil {
		return nil, err
	}
	nodeTypes.MergeCustomNodes(custom)
	return nodeTypes, nil
}
