// Package install runs the package manager's install command after the
// manifest has been rewritten.
package install

import (
	"context"
	"fmt"
	"os/exec"

	logger "github.com/sirupsen/logrus"
)

// Runner implements domain.Installer by shelling out to the configured
// package manager.
type Runner struct {
	manager string
	dir     string
	dryRun  bool
}

// NewRunner creates an install runner for the project in dir.
func NewRunner(manager, dir string, dryRun bool) *Runner {
	return &Runner{manager: manager, dir: dir, dryRun: dryRun}
}

// Install executes "<manager> install" in the project directory. The
// command inherits the context, so cancelling the run kills it.
func (r *Runner) Install(ctx context.Context) error {
	if r.dryRun {
		logger.Infof("[install] [DRY RUN] Would run %q in %s", r.manager+" install", r.dir)
		return nil
	}

	logger.Infof("[install] Running %q in %s", r.manager+" install", r.dir)

	cmd := exec.CommandContext(ctx, r.manager, "install")
	cmd.Dir = r.dir

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s install failed: %w\n%s", r.manager, err, output)
	}

	logger.Debugf("[install] %s", output)
	return nil
}
