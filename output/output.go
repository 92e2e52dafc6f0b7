package output

import (
	"strings"

	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-utils/v2/log"
)

const (
	passedTestsEnvVarKey = "FRAGILE_RESCAN_PASSED_TESTS"
	failedTestsEnvVarKey = "FRAGILE_RESCAN_FAILED_TESTS"
)

// Exporter ...
type Exporter interface {
	ExportTestLists(passedTests, failedTests []string) error
}

type exporter struct {
	logger         log.Logger
	outputExporter export.Exporter
}

// NewExporter ...
func NewExporter(logger log.Logger, outputExporter export.Exporter) Exporter {
	return &exporter{
		logger:         logger,
		outputExporter: outputExporter,
	}
}

// ExportTestLists exposes the passed and failed test lists for subsequent
// steps, one identifier per line.
func (e exporter) ExportTestLists(passedTests, failedTests []string) error {
	if err := e.outputExporter.ExportOutputNoExpand(passedTestsEnvVarKey, strings.Join(passedTests, "\n")); err != nil {
		return err
	}
	e.logger.Printf("- %s: %d test(s)", passedTestsEnvVarKey, len(passedTests))

	if err := e.outputExporter.ExportOutputNoExpand(failedTestsEnvVarKey, strings.Join(failedTests, "\n")); err != nil {
		return err
	}
	e.logger.Printf("- %s: %d test(s)", failedTestsEnvVarKey, len(failedTests))

	return nil
}
