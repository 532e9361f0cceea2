// Package main is the conformance harness CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/networkd-conformance/harness/internal/config"
	"github.com/networkd-conformance/harness/internal/scenario"
	"github.com/networkd-conformance/harness/internal/suite"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	root := &cobra.Command{
		Use:   "networkd-conformance",
		Short: "Conformance test harness for systemd-networkd",
	}

	root.AddCommand(runCommand(), listCommand())

	err := root.Execute()
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func runCommand() *cobra.Command {
	var configPath string

	opts := scenario.RunOptions{}

	cmd := &cobra.Command{
		Use:          "run",
		Short:        "Run the conformance scenarios",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			runner := scenario.NewRunner(cfg)
			results := runner.Run(cmd.Context(), suite.All(), opts)
			if len(results) == 0 {
				return fmt.Errorf("no scenarios matched group %q case %q", opts.Group, opts.Case)
			}

			report := scenario.Report{Results: results}
			report.Write(os.Stdout)

			if report.Failed() {
				return fmt.Errorf("conformance failures")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML configuration file")
	cmd.Flags().StringVar(&opts.Group, "group", "", "Run only this scenario group")
	cmd.Flags().StringVar(&opts.Case, "case", "", "Run only this case")

	return cmd
}

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the scenario groups and cases",
		Run: func(_ *cobra.Command, _ []string) {
			for _, g := range suite.All() {
				for _, c := range g.Cases {
					gated := ""
					if c.RequiresModule != "" {
						gated = " (requires module " + c.RequiresModule + ")"
					}

					fmt.Printf("%s/%s%s\n", g.Name, c.Name, gated)
				}
			}
		},
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}

	return config.Load(path)
}
