package step

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/olekukonko/tablewriter"

	"github.com/matt-demers/setup-fragile-tests-for-rescan/junitreport"
	"github.com/matt-demers/setup-fragile-tests-for-rescan/output"
	"github.com/matt-demers/setup-fragile-tests-for-rescan/xcscheme"
)

const suppressedTestsTableTitle = "setup_fragile_tests_for_rescan suppressed the following tests"

var supportedPlatforms = []string{"ios", "mac"}

// Input ...
type Input struct {
	ProjectPath    string `env:"project_path,required"`
	Scheme         string `env:"scheme,required"`
	ReportFilePath string `env:"report_filepath,required"`
	Platform       string `env:"platform,required"`

	AvoidDuplicateSkippedTests bool `env:"avoid_duplicate_skipped_tests,opt[yes,no]"`

	// Debug
	Verbose bool `env:"verbose,opt[yes,no]"`
}

// Config ...
type Config struct {
	ProjectPath    string
	Scheme         string
	ReportFilePath string

	AvoidDuplicateSkippedTests bool
}

// Result lists the report's tests by outcome, every entry in
// buildableName/ClassName/methodName form.
type Result struct {
	PassedTests []string
	FailedTests []string
}

// FragileTestRescanner marks every test that passed in a previous run as
// skipped in the project's scheme, so a rescan only executes the tests that
// failed.
type FragileTestRescanner struct {
	inputParser    stepconf.InputParser
	logger         log.Logger
	pathChecker    pathutil.PathChecker
	pathModifier   pathutil.PathModifier
	outputExporter output.Exporter
}

// NewFragileTestRescanner ...
func NewFragileTestRescanner(inputParser stepconf.InputParser, logger log.Logger, pathChecker pathutil.PathChecker, pathModifier pathutil.PathModifier, outputExporter output.Exporter) FragileTestRescanner {
	return FragileTestRescanner{
		inputParser:    inputParser,
		logger:         logger,
		pathChecker:    pathChecker,
		pathModifier:   pathModifier,
		outputExporter: outputExporter,
	}
}

// ProcessConfig ...
func (s FragileTestRescanner) ProcessConfig() (Config, error) {
	var input Input
	if err := s.inputParser.Parse(&input); err != nil {
		return Config{}, fmt.Errorf("failed to parse step inputs: %w", err)
	}

	stepconf.Print(input)
	s.logger.Println()
	s.logger.EnableDebugLog(input.Verbose)

	s.logger.Printf("Platform: %s", input.Platform)
	if !slices.Contains(supportedPlatforms, input.Platform) {
		return Config{}, fmt.Errorf("unsupported platform (%s), supported platforms: %s", input.Platform, strings.Join(supportedPlatforms, ", "))
	}

	projectPath, err := s.pathModifier.AbsPath(input.ProjectPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute project path: %w", err)
	}
	if filepath.Ext(projectPath) != ".xcodeproj" {
		return Config{}, fmt.Errorf("invalid project file (%s), extension should be .xcodeproj", projectPath)
	}
	if exist, err := s.pathChecker.IsDirExists(projectPath); err != nil {
		return Config{}, fmt.Errorf("failed to check project path (%s): %w", projectPath, err)
	} else if !exist {
		return Config{}, fmt.Errorf("project directory does not exist: %s", projectPath)
	}

	pbxprojPth := filepath.Join(projectPath, "project.pbxproj")
	if exist, err := s.pathChecker.IsPathExists(pbxprojPth); err != nil {
		return Config{}, fmt.Errorf("failed to check project.pbxproj (%s): %w", pbxprojPth, err)
	} else if !exist {
		return Config{}, fmt.Errorf("not a valid Xcode project (%s): project.pbxproj not found", projectPath)
	}

	if exist, err := s.pathChecker.IsPathExists(input.ReportFilePath); err != nil {
		return Config{}, fmt.Errorf("failed to check test report (%s): %w", input.ReportFilePath, err)
	} else if !exist {
		return Config{}, fmt.Errorf("test report does not exist: %s", input.ReportFilePath)
	}

	return Config{
		ProjectPath:                projectPath,
		Scheme:                     input.Scheme,
		ReportFilePath:             input.ReportFilePath,
		AvoidDuplicateSkippedTests: input.AvoidDuplicateSkippedTests,
	}, nil
}

// Run ...
func (s FragileTestRescanner) Run(cfg Config) (Result, error) {
	var result Result

	s.logger.Println()
	s.logger.Infof("Reading test report")
	report, err := junitreport.Open(cfg.ReportFilePath)
	if err != nil {
		return result, err
	}
	s.logger.Printf("- %d test bundle(s) in the report", len(report.SuiteGroups))

	// Failed tests are split off for the whole report before any scheme work,
	// so only passing cases reach the skip injection below.
	type classifiedGroup struct {
		group  junitreport.SuiteGroup
		passed []junitreport.TestCase
	}
	var classified []classifiedGroup
	for _, group := range report.SuiteGroups {
		passed, failed := group.Partition()
		for _, testCase := range failed {
			result.FailedTests = append(result.FailedTests, group.BuildableName()+"/"+testCase.DisplayIdentifier())
		}
		classified = append(classified, classifiedGroup{group: group, passed: passed})
	}

	s.logger.Println()
	s.logger.Infof("Opening scheme")
	schemePth, err := s.schemeFilePath(cfg.ProjectPath, cfg.Scheme)
	if err != nil {
		return result, err
	}
	s.logger.Printf("- scheme file: %s", schemePth)

	scheme, err := xcscheme.Open(schemePth)
	if err != nil {
		return result, err
	}

	var suppressed []string
	for _, entry := range classified {
		// The group name is matched verbatim, extension included.
		testable := scheme.TestableWithBuildableName(entry.group.Name)
		if testable == nil {
			return result, fmt.Errorf("scheme (%s) has no testable with buildable name (%s), the report does not belong to this scheme", cfg.Scheme, entry.group.Name)
		}

		for _, testCase := range entry.passed {
			identifier := testCase.Identifier()
			if !cfg.AvoidDuplicateSkippedTests || !testable.HasSkippedTest(identifier) {
				testable.AddSkippedTest(identifier)
				suppressed = append(suppressed, identifier)
			}
			result.PassedTests = append(result.PassedTests, entry.group.BuildableName()+"/"+identifier)
		}
	}

	s.logger.Println()
	if len(suppressed) == 0 {
		if len(result.PassedTests) == 0 {
			s.logger.Warnf("No passing tests found in the report, the scheme was left untouched")
		} else {
			s.logger.Warnf("All passing tests are already suppressed in the scheme, nothing to save")
		}
		return result, nil
	}

	if err := scheme.Save(); err != nil {
		return result, err
	}

	s.logger.Donef("Saved scheme: %s", schemePth)
	s.printSuppressedTests(suppressed)

	return result, nil
}

// ExportOutputs ...
func (s FragileTestRescanner) ExportOutputs(result Result) error {
	s.logger.Println()
	s.logger.Infof("Exporting outputs")
	return s.outputExporter.ExportTestLists(result.PassedTests, result.FailedTests)
}

// schemeFilePath looks up the scheme file in the project's shared scheme
// storage first, then in the current user's private scheme storage.
func (s FragileTestRescanner) schemeFilePath(projectPath, schemeName string) (string, error) {
	sharedPth := xcscheme.SharedSchemeFilePath(projectPath, schemeName)
	if exist, err := s.pathChecker.IsPathExists(sharedPth); err != nil {
		return "", fmt.Errorf("failed to check shared scheme (%s): %w", sharedPth, err)
	} else if exist {
		return sharedPth, nil
	}

	userPth, err := xcscheme.UserSchemeFilePath(projectPath, schemeName)
	if err != nil {
		return "", err
	}
	if exist, err := s.pathChecker.IsPathExists(userPth); err != nil {
		return "", fmt.Errorf("failed to check user scheme (%s): %w", userPth, err)
	} else if exist {
		return userPth, nil
	}

	return "", fmt.Errorf("scheme (%s) not found in shared (%s) or user (%s) scheme storage", schemeName, sharedPth, userPth)
}

func (s FragileTestRescanner) printSuppressedTests(identifiers []string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{suppressedTestsTableTitle})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, identifier := range identifiers {
		table.Append([]string{identifier})
	}
	table.Render()
}
