package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leaxer/engine/pkg/node/builtin"
	"github.com/leaxer/engine/pkg/registry"
	"github.com/leaxer/engine/pkg/runner"
	"github.com/leaxer/engine/pkg/workflow"

	// Register all inference providers via their init() functions.
	_ "github.com/leaxer/engine/pkg/inference/providers"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		customNodes string
		hotReload   bool
	)

	root := &cobra.Command{
		Use:   "leaxer",
		Short: "Leaxer workflow graph execution engine",
		Long: `Leaxer validates and executes visual node-graph workflows.

A workflow is a JSON graph of typed nodes and port-to-port edges. The engine
checks structural and type-level well-formedness, converts the graph into
ordered parallel-execution layers, and can run the layers with the builtin
reference runner.`,
	}

	root.PersistentFlags().StringVar(&customNodes, "custom-nodes", envOr("LEAXER_CUSTOM_NODES", ""),
		"directory of .hcl custom node manifests")
	root.PersistentFlags().BoolVar(&hotReload, "hot-reload", envBool("LEAXER_HOT_RELOAD"),
		"allow rescanning custom node manifests at runtime")

	opts := func() registry.Options {
		return registry.Options{CustomNodesDir: customNodes, HotReload: hotReload}
	}

	root.AddCommand(validateCmd(opts))
	root.AddCommand(planCmd(opts))
	root.AddCommand(runCmd(opts))
	root.AddCommand(nodesCmd(opts))
	root.AddCommand(graphCmd(opts))
	return root
}

// buildRegistry populates builtins and performs the startup scan of the
// custom-nodes directory.
func buildRegistry(opts registry.Options) (*registry.Registry, error) {
	reg := registry.New(opts)
	builtin.RegisterAll(reg)
	if _, err := reg.LoadCustomNodes(); err != nil {
		return nil, fmt.Errorf("load custom nodes: %w", err)
	}
	return reg, nil
}

func loadGraph(path string) (*workflow.Graph, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return workflow.ParseJSON(src)
}

// ─── validate ─────────────────────────────────────────────────────────────────

func validateCmd(opts func() registry.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <workflow.json>",
		Short: "Check a workflow for structural and type errors without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			reg, err := buildRegistry(opts())
			if err != nil {
				return err
			}
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			if err := workflow.Validate(g, reg); err != nil {
				return err
			}
			fmt.Printf("workflow OK: %d nodes, %d edges\n", len(g.Nodes), len(g.Edges))
			return nil
		},
	}
}

// ─── plan ─────────────────────────────────────────────────────────────────────

func planCmd(opts func() registry.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <workflow.json>",
		Short: "Print the ordered execution layers of a workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			reg, err := buildRegistry(opts())
			if err != nil {
				return err
			}
			eng, err := workflow.NewEngine(reg)
			if err != nil {
				return err
			}
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			plan, err := eng.Plan(g)
			if err != nil {
				return err
			}
			for i, layer := range plan {
				fmt.Printf("layer %d: %s\n", i+1, strings.Join(layer, ", "))
			}
			return nil
		},
	}
}

// ─── run ──────────────────────────────────────────────────────────────────────

func runCmd(opts func() registry.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "run <workflow.json>",
		Short: "Validate, schedule and execute a workflow with the reference runner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := buildRegistry(opts())
			if err != nil {
				return err
			}
			eng, err := workflow.NewEngine(reg)
			if err != nil {
				return err
			}
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			plan, err := eng.Plan(g)
			if err != nil {
				return err
			}
			outputs, err := runner.New(reg).Run(cmd.Context(), g, plan)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(outputs)
		},
	}
}

// ─── nodes ────────────────────────────────────────────────────────────────────

func nodesCmd(opts func() registry.Options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "List all registered node types",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			reg, err := buildRegistry(opts())
			if err != nil {
				return err
			}
			all := reg.ListAllWithMetadata()

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(all)
			}

			maxType := 4
			for _, m := range all {
				if len(m.Type) > maxType {
					maxType = len(m.Type)
				}
			}
			for _, m := range all {
				fmt.Printf("  %-*s  %-8s  %s  (%s)\n", maxType, m.Type, m.Source, m.Category, m.Label)
			}
			s := reg.Stats()
			fmt.Printf("\n%d types registered (%d builtin, %d custom)\n", s.Total, s.Builtin, s.Custom)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit machine-readable JSON")
	return cmd
}

// ─── helpers ──────────────────────────────────────────────────────────────────

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
