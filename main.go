package main

import (
	"os"

	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"

	"github.com/matt-demers/setup-fragile-tests-for-rescan/output"
	"github.com/matt-demers/setup-fragile-tests-for-rescan/step"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := log.NewLogger()
	rescanner := createStep(logger)

	config, err := rescanner.ProcessConfig()
	if err != nil {
		logger.Errorf("Process config: %s", err)
		return 1
	}

	result, err := rescanner.Run(config)
	if err != nil {
		logger.Errorf("Run: %s", err)
		return 1
	}

	if err := rescanner.ExportOutputs(result); err != nil {
		logger.Errorf("Export outputs: %s", err)
		return 1
	}

	return 0
}

func createStep(logger log.Logger) step.FragileTestRescanner {
	envRepository := env.NewRepository()
	inputParser := stepconf.NewInputParser(envRepository)
	pathChecker := pathutil.NewPathChecker()
	pathModifier := pathutil.NewPathModifier()
	commandFactory := command.NewFactory(envRepository)
	outputExporter := output.NewExporter(logger, export.NewExporter(commandFactory))

	return step.NewFragileTestRescanner(inputParser, logger, pathChecker, pathModifier, outputExporter)
}
