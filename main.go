package main

import (
	"errors"
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/upgradenotes/application"
	"github.com/rios0rios0/upgradenotes/cmd"
)

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	if err := cmd.Execute(); err != nil {
		if errors.Is(err, application.ErrRunCancelled) {
			logger.Warn("Aborted: run cancelled by user")
			os.Exit(1)
		}
		logger.Fatalf("Error executing 'upgradenotes': %s", err)
	}
}
