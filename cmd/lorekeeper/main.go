// Package main implements the lorekeeper CLI: an interactive worldbuilding
// assistant for tabletop RPGs. The default command starts the REPL; `run`
// executes a single command and exits, which is handy for scripting and
// debugging.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"lorekeeper/internal/app"
	"lorekeeper/internal/config"
)

var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		dataDir    string
		configPath string
	)

	root := &cobra.Command{
		Use:     "lorekeeper",
		Short:   "A worldbuilding assistant for tabletop RPGs",
		Version: version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp(cmd.Context(), dataDir, configPath)
			if err != nil {
				return err
			}
			defer a.Close()
			return runRepl(cmd.Context(), a)
		},
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "override the data directory")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")

	runOne := &cobra.Command{
		Use:   "run [input...]",
		Short: "Run a single command and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), dataDir, configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			output, err := a.Command(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				output = err.Error()
			}
			rendered, renderErr := renderMarkdown(output)
			if renderErr != nil {
				rendered = output
			}
			fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
	root.AddCommand(runOne)

	return root
}

func buildApp(ctx context.Context, dataDir, configPath string) (*app.App, error) {
	cfg := config.Default()
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if configPath == "" {
		configPath = config.Path(cfg.DataDir)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	return app.New(ctx, cfg)
}

func renderMarkdown(markdown string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(rendered, "\n"), nil
}
