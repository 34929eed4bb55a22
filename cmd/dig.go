package cmd

import (
	"time"

	"go.uber.org/dig"

	"github.com/rios0rios0/upgradenotes/application"
	"github.com/rios0rios0/upgradenotes/config"
	"github.com/rios0rios0/upgradenotes/infrastructure/console"
	"github.com/rios0rios0/upgradenotes/infrastructure/discover"
	"github.com/rios0rios0/upgradenotes/infrastructure/enrich"
	"github.com/rios0rios0/upgradenotes/infrastructure/install"
	"github.com/rios0rios0/upgradenotes/infrastructure/manifest"
	"github.com/rios0rios0/upgradenotes/infrastructure/source"
	"github.com/rios0rios0/upgradenotes/infrastructure/source/changelog"
	"github.com/rios0rios0/upgradenotes/infrastructure/source/commitlog"
	"github.com/rios0rios0/upgradenotes/infrastructure/source/releasenotes"
)

// buildContainer wires every component through DIG. Constructors are
// registered bottom-up: fetchers -> resolver -> collaborators -> service.
func buildContainer(
	cfg *config.Config,
	opts application.RunOptions,
	workDir string,
) (*dig.Container, error) {
	container := dig.New()
	timeout := time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second

	constructors := []interface{}{
		func() *config.Config { return cfg },

		func(c *config.Config) *releasenotes.Fetcher {
			return releasenotes.New(c.Fetch.GitHubToken, timeout)
		},
		func() *changelog.Fetcher { return changelog.New(timeout) },
		func() *commitlog.Fetcher { return commitlog.New(timeout) },
		func(
			notes *releasenotes.Fetcher,
			docs *changelog.Fetcher,
			commits *commitlog.Fetcher,
		) *source.Resolver {
			// Fixed priority order of the fallback chain.
			return source.NewResolver(notes, docs, commits)
		},

		func(c *config.Config) *enrich.Registry {
			return enrich.NewRegistry(
				enrich.NewOpenAI(c.Enrichment.OpenAIAPIKey, timeout),
				enrich.NewAnthropic(c.Enrichment.AnthropicAPIKey, timeout),
			)
		},

		console.NewConfirmer,
		console.NewSelector,
		func(c *config.Config) *console.Reporter { return console.NewReporter(c.Report.Dir) },
		func() *manifest.Writer { return manifest.NewWriter(workDir, opts.DryRun) },
		func(c *config.Config) *install.Runner {
			return install.NewRunner(c.Manager, workDir, opts.DryRun)
		},
		func(c *config.Config) *discover.Evaluator {
			return discover.NewEvaluator(c.Manager, "", timeout)
		},

		func(
			resolver *source.Resolver,
			confirmer *console.Confirmer,
			enrichment *enrich.Registry,
			selector *console.Selector,
			writer *manifest.Writer,
			runner *install.Runner,
			reporter *console.Reporter,
		) *application.PipelineService {
			return application.NewPipelineService(
				resolver, confirmer, enrichment, selector, writer, runner, reporter,
			)
		},
	}

	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return nil, err
		}
	}

	return container, nil
}
