// Package manifest writes the selected latest versions back into the
// project's package.json, preserving range prefixes.
package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/upgradenotes/domain"
)

const manifestFileMode = 0o644

// dependencySections are the package.json blocks that may pin a version.
var dependencySections = []string{
	"dependencies",
	"devDependencies",
	"optionalDependencies",
}

// Writer implements domain.ManifestWriter for npm-style package.json
// manifests.
type Writer struct {
	dir    string
	dryRun bool
}

// NewWriter creates a manifest writer for the project in dir.
func NewWriter(dir string, dryRun bool) *Writer {
	return &Writer{dir: dir, dryRun: dryRun}
}

// Write rewrites the version strings of the selected packages. The range
// prefix of each existing entry (^, ~, >=) is preserved.
func (w *Writer) Write(_ context.Context, selected []*domain.PackageCandidate) error {
	path := filepath.Join(w.dir, "package.json")

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", path, err)
	}

	var doc map[string]json.RawMessage
	if unmarshalErr := json.Unmarshal(data, &doc); unmarshalErr != nil {
		return fmt.Errorf("invalid manifest %q: %w", path, unmarshalErr)
	}

	updated := 0
	for _, section := range dependencySections {
		raw, ok := doc[section]
		if !ok {
			continue
		}

		var deps map[string]string
		if depsErr := json.Unmarshal(raw, &deps); depsErr != nil {
			return fmt.Errorf("invalid %q section in %q: %w", section, path, depsErr)
		}

		changed := false
		for _, candidate := range selected {
			spec, present := deps[candidate.Name]
			if !present {
				continue
			}
			deps[candidate.Name] = rangePrefix(spec) + candidate.Metadata.Latest
			changed = true
			updated++
			logger.Debugf(
				"[manifest] %s: %s -> %s", candidate.Name, spec, deps[candidate.Name],
			)
		}

		if changed {
			encoded, marshalErr := json.Marshal(deps)
			if marshalErr != nil {
				return fmt.Errorf("failed to encode %q section: %w", section, marshalErr)
			}
			doc[section] = encoded
		}
	}

	if updated == 0 {
		logger.Info("[manifest] No manifest entries matched the selection")
		return nil
	}

	if w.dryRun {
		logger.Infof("[manifest] [DRY RUN] Would update %d entries in %s", updated, path)
		return nil
	}

	output, marshalErr := json.MarshalIndent(doc, "", "  ")
	if marshalErr != nil {
		return fmt.Errorf("failed to encode manifest: %w", marshalErr)
	}

	if writeErr := os.WriteFile(path, append(output, '\n'), manifestFileMode); writeErr != nil {
		return fmt.Errorf("failed to write %q: %w", path, writeErr)
	}

	logger.Infof("[manifest] Updated %d entries in %s", updated, path)
	return nil
}

// rangePrefix returns the leading range operator of a version spec, so
// "^1.2.3" keeps its caret after the rewrite.
func rangePrefix(spec string) string {
	trimmed := strings.TrimLeft(spec, "^~>=<")
	return spec[:len(spec)-len(trimmed)]
}
