package cmd

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/upgradenotes/application"
	"github.com/rios0rios0/upgradenotes/config"
	"github.com/rios0rios0/upgradenotes/infrastructure/discover"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	workDir    string
	reportOnly bool
	dryRun     bool
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate outdated packages and run the upgrade-notes pipeline",
	Long: `Evaluate which dependencies of the project are outdated, collect and
categorize upgrade notes for each, and, unless --report-only is set,
interactively select, write, and install the updates.`,
	RunE: runPipeline,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	runCmd.Flags().StringVar(&workDir, "dir", ".",
		"Project directory containing the manifest")
	runCmd.Flags().BoolVar(&reportOnly, "report-only", false,
		"Only fetch, categorize, and report; do not update anything")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"Show what would be written and installed without doing it")
	rootCmd.AddCommand(runCmd)
}

func runPipeline(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := application.RunOptions{
		ReportOnly: reportOnly,
		DryRun:     dryRun,
		Verbose:    verbose,
	}

	container, buildErr := buildContainer(cfg, opts, workDir)
	if buildErr != nil {
		return fmt.Errorf("failed to wire components: %w", buildErr)
	}

	return container.Invoke(func(
		evaluator *discover.Evaluator,
		service *application.PipelineService,
	) error {
		candidates, evalErr := evaluator.Evaluate(ctx, workDir)
		if evalErr != nil {
			return fmt.Errorf("failed to evaluate outdated packages: %w", evalErr)
		}

		return service.Run(ctx, candidates, cfg.EnrichmentOptions(), opts)
	})
}

func loadConfig() (*config.Config, error) {
	cfgPath := configPath
	if cfgPath == "" {
		found, findErr := config.FindConfigFile()
		if findErr != nil {
			logger.Debug("No config file found, using defaults")
			return config.Default(), nil
		}
		cfgPath = found
	}

	logger.Infof("Using config file: %s", cfgPath)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
