package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/boundlint/boundlint/config"
	"github.com/boundlint/boundlint/issue"
	"github.com/boundlint/boundlint/lint"
	"github.com/boundlint/boundlint/project"
)

// run executes the root command and returns the process exit status: 0 when
// clean, the maximum configured per-rule status otherwise, 3 on operational
// failure.
func run() int {
	status := 0
	cmd := newRootCmd(&status)
	if err := cmd.Execute(); err != nil {
		return 3
	}
	return status
}

func newRootCmd(status *int) *cobra.Command {
	var (
		configPath    string
		baselinePath  string
		writeBaseline bool
		workers       int
		verbose       bool
	)

	cmd := &cobra.Command{
		Use:          "boundlint [path]",
		Short:        "boundlint is an architectural boundary linter for Elixir projects",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "boundlint"})
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}

			start := "."
			if len(args) == 1 {
				start = args[0]
			}
			located, err := project.NewLocator().Locate(start)
			if err != nil {
				return fmt.Errorf("locating project: %w", err)
			}
			logger.Debug("located project", "root", located.RootPath, "type", located.Type, "name", located.Name)

			if configPath == "" {
				candidate := filepath.Join(located.RootPath, ".boundlint.yml")
				if _, statErr := os.Stat(candidate); statErr == nil {
					configPath = candidate
				}
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			baseline, err := issue.LoadBaseline(baselinePath)
			if err != nil {
				return err
			}

			options := []lint.Option{lint.WithWorkers(workers)}
			if !writeBaseline {
				options = append(options, lint.WithBaseline(baseline))
			}
			engine, err := lint.New(cfg, options...)
			if err != nil {
				return err
			}

			fs := project.New()
			files, err := project.Sources(fs, located.RootPath, cfg.SourceRoots, cfg.SkipDirs)
			if err != nil {
				return fmt.Errorf("enumerating sources: %w", err)
			}
			logger.Debug("enumerated sources", "files", len(files))

			report, err := engine.Run(cmd.Context(), files)
			if err != nil {
				return err
			}

			if writeBaseline {
				if baselinePath == "" {
					baselinePath = filepath.Join(located.RootPath, ".boundlint.baseline.toml")
				}
				if err := issue.WriteBaseline(baselinePath, report.Issues); err != nil {
					return err
				}
				logger.Info("baseline written", "path", baselinePath, "findings", len(report.Issues))
				return nil
			}

			for _, is := range report.Issues {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:%d: %s [%s/%s] %s\n",
					is.File, is.Line, is.Severity, is.Category, is.RuleID, is.Message)
			}
			if report.Clean() {
				logger.Info("no boundary violations", "files", report.Files)
			} else {
				logger.Warn("boundary violations found", "files", report.Files, "issues", len(report.Issues))
			}
			*status = report.ExitStatus()
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to .boundlint.yml (default: project root)")
	cmd.Flags().StringVar(&baselinePath, "baseline", "", "path to a baseline TOML of accepted findings")
	cmd.Flags().BoolVar(&writeBaseline, "write-baseline", false, "write the current findings as the baseline and exit")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of analysis workers (default: number of CPUs)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}
