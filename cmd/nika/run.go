package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/supernovae-st/nika/internal/event"
	"github.com/supernovae-st/nika/internal/executor"
	"github.com/supernovae-st/nika/internal/flowgraph"
	"github.com/supernovae-st/nika/internal/mcp"
	"github.com/supernovae-st/nika/internal/provider"
	"github.com/supernovae-st/nika/internal/rules"
	"github.com/supernovae-st/nika/internal/runner"
	"github.com/supernovae-st/nika/internal/validator"
	"github.com/supernovae-st/nika/internal/workflow"
	"github.com/supernovae-st/nika/pkg/config"
	"github.com/supernovae-st/nika/pkg/logger"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run a workflow document to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventsPath, _ := cmd.Flags().GetString("events")
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runRun(cmd.Context(), args[0], eventsPath, cfg)
		},
	}
	cmd.Flags().String("events", "", "stream the run's JSON event log to this path (\"-\" for stdout)")
	return cmd
}

func runRun(ctx context.Context, path, eventsPath string, cfg *config.Config) error {
	log := newLogger(cfg)
	ctx = logger.ContextWithLogger(ctx, log)

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
	if result := validator.New(nodeTypes, matrix).Validate(w); !result.IsValid() {
		return fmt.Errorf("workflow failed pre-flight validation with %d error(s); run `nika validate` for details", len(result.Errors))
	}

	g := flowgraph.FromWorkflow(w)

	providerName, model := cfg.Provider.Name, cfg.Provider.Model
	if w.Provider != "" && w.Provider != providerName {
		providerName, model = w.Provider, ""
	}
	if w.Model != "" {
		model = w.Model
	}
	servers := cfg.ToMCPServers()
	for name, s := range w.MCP {
		servers[name] = mcp.ServerConfig{Name: name, Command: s.Command, Args: s.Args, Env: s.Env}
	}
	exec := executor.New(provider.Name(providerName), model, servers)
	run := runner.New(w, g, exec)

	var (
		wg       sync.WaitGroup
		sinkOpen bool
	)
	if eventsPath != "" {
		sink, closeSink, err := openEventsSink(eventsPath)
		if err != nil {
			return err
		}
		sinkOpen = true
		defer closeSink()

		events := run.Log().Subscribe(256)
		wg.Add(1)
		go func() {
			defer wg.Done()
			streamEvents(sink, events)
		}()
	}

	output, err := run.Run(ctx)
	if sinkOpen {
		run.Log().Close()
		wg.Wait()
	}
	if err != nil {
		return err
	}

	fmt.Println(output)
	return nil
}

func openEventsSink(path string) (io.Writer, func(), error) {
	if path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open events file %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}

// streamEvents pretty-prints each event as it's emitted, one multi-line
// JSON object per event, until the channel closes (the run's event log is
// closed).
func streamEvents(w io.Writer, events <-chan event.Event) {
	for evt := range events {
		raw, err := json.Marshal(evt)
		if err != nil {
			continue
		}
		_, _ = w.Write(pretty.Pretty(raw))
	}
}
