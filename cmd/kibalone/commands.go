package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Nyukimin/kibalone_studio/internal/application/orchestrator"
	"github.com/Nyukimin/kibalone_studio/internal/domain/execution"
	"github.com/Nyukimin/kibalone_studio/internal/domain/task"
	"github.com/Nyukimin/kibalone_studio/internal/domain/tool"
)

func newPlanCommand(configPath func() string) *cobra.Command {
	var (
		execute bool
		mode    string
	)

	cmd := &cobra.Command{
		Use:   "plan <prompt...>",
		Short: "Build an orchestration plan for a prompt and optionally execute it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseModeFlag(mode)
			if err != nil {
				return err
			}

			deps, err := loadDependencies(configPath(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			resp, err := deps.service.Orchestrate(cmd.Context(), orchestrator.OrchestrateRequest{
				Prompt:  strings.Join(args, " "),
				Execute: execute,
				Mode:    m,
				Source:  task.SourceCLI,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().BoolVar(&execute, "execute", false, "execute the plan against the configured services")
	cmd.Flags().StringVar(&mode, "mode", "", "execution mode: best-effort or strict (default from config)")
	return cmd
}

func newDispatchCommand(configPath func() string) *cobra.Command {
	var (
		execute bool
		mode    string
	)

	cmd := &cobra.Command{
		Use:   "dispatch <prompt...>",
		Short: "Classify a prompt and return a direct action or an orchestration plan",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseModeFlag(mode)
			if err != nil {
				return err
			}

			deps, err := loadDependencies(configPath(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			resp, err := deps.service.Dispatch(cmd.Context(), orchestrator.DispatchRequest{
				Prompt:  strings.Join(args, " "),
				Execute: execute,
				Mode:    m,
				Source:  task.SourceCLI,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().BoolVar(&execute, "execute", false, "execute the plan when the prompt is orchestrated")
	cmd.Flags().StringVar(&mode, "mode", "", "execution mode: best-effort or strict (default from config)")
	return cmd
}

func newToolsCommand(configPath func() string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tool registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := loadDependencies(configPath(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			defs := deps.service.Tools()
			if asJSON {
				return printJSON(cmd.OutOrStdout(), defs)
			}
			printTools(cmd.OutOrStdout(), defs)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the registry as JSON")
	return cmd
}

func parseModeFlag(s string) (execution.Mode, error) {
	if s == "" {
		return "", nil
	}
	return execution.ParseMode(s)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// printTools は分類ごとにツールを表示
func printTools(w io.Writer, defs []tool.Definition) {
	grouped := make(map[tool.Category][]tool.Definition)
	for _, def := range defs {
		grouped[def.Category] = append(grouped[def.Category], def)
	}

	categories := make([]string, 0, len(grouped))
	for category := range grouped {
		categories = append(categories, string(category))
	}
	sort.Strings(categories)

	for _, category := range categories {
		fmt.Fprintf(w, "%s:\n", category)
		for _, def := range grouped[tool.Category(category)] {
			endpoint := def.Endpoint
			if endpoint == "" {
				endpoint = "-"
			}
			fmt.Fprintf(w, "  %-20s %-45s %s\n", def.Name, endpoint, def.Description)
		}
	}
	fmt.Fprintf(w, "%d tools\n", len(defs))
}
