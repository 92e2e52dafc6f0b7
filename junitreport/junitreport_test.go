package junitreport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReport = `<?xml version="1.0" encoding="UTF-8"?>
<testsuites name="MyAppTests.xctest" tests="2" failures="1">
	<testsuite name="FooTests" tests="2" failures="1">
		<testcase classname="com.example.FooTests" name="testBar" time="0.01"/>
		<testcase classname="FooTests" name="testBaz" time="0.02">
			<failure message="XCTAssertTrue failed">Assertion failed</failure>
		</testcase>
	</testsuite>
</testsuites>`

func Test_GivenSampleReport_WhenParsed_ThenClassifiesCases(t *testing.T) {
	// When
	report, err := Parse(strings.NewReader(sampleReport))

	// Then
	require.NoError(t, err)
	require.Equal(t, 1, len(report.SuiteGroups))

	group := report.SuiteGroups[0]
	assert.Equal(t, "MyAppTests.xctest", group.Name)
	assert.Equal(t, "MyAppTests", group.BuildableName())

	passed, failed := group.Partition()
	require.Equal(t, 1, len(passed))
	require.Equal(t, 1, len(failed))
	assert.Equal(t, "FooTests/testBar()", passed[0].Identifier())
	assert.Equal(t, "FooTests/testBaz", failed[0].Identifier())
	assert.Equal(t, "XCTAssertTrue failed", failed[0].Failures[0].Message)
}

func Test_GivenMultipleTopLevelGroups_WhenParsed_ThenCollectsAll(t *testing.T) {
	// Given
	document := `<testsuites name="UnitTests.xctest">
	<testsuite name="A">
		<testcase classname="A" name="test1"/>
	</testsuite>
</testsuites>
<testsuites name="UITests.xctest">
	<testsuite name="B">
		<testcase classname="B" name="test2"/>
	</testsuite>
</testsuites>`

	// When
	report, err := Parse(strings.NewReader(document))

	// Then
	require.NoError(t, err)
	require.Equal(t, 2, len(report.SuiteGroups))
	assert.Equal(t, "UnitTests.xctest", report.SuiteGroups[0].Name)
	assert.Equal(t, "UITests.xctest", report.SuiteGroups[1].Name)
}

func Test_GivenEmptyDocument_WhenParsed_ThenFailsWithNoRootElement(t *testing.T) {
	for _, document := range []string{"", `<?xml version="1.0"?>`, "   \n"} {
		_, err := Parse(strings.NewReader(document))

		require.ErrorIs(t, err, ErrNoRootElement, "document: %q", document)
	}
}

func Test_GivenMalformedXML_WhenParsed_ThenFailsWithNoRootElement(t *testing.T) {
	// Given
	document := `<testsuites name="X.xctest"><testsuite name="A"></testsuites>`

	// When
	_, err := Parse(strings.NewReader(document))

	// Then
	require.ErrorIs(t, err, ErrNoRootElement)
}

func Test_GivenNonReportDocument_WhenParsed_ThenFailsWithNoTestSuites(t *testing.T) {
	// Given
	document := `<plist version="1.0"><dict></dict></plist>`

	// When
	_, err := Parse(strings.NewReader(document))

	// Then
	require.ErrorIs(t, err, ErrNoTestSuites)
}

func Test_GivenFailureNestedInWrapperElement_WhenParsed_ThenCaseCountsAsFailed(t *testing.T) {
	// Given
	document := `<testsuites name="MyAppTests.xctest">
	<testsuite name="FooTests">
		<testcase classname="FooTests" name="testFlaky">
			<flakyFailure message="retried">
				<failure message="XCTAssertEqual failed">first attempt</failure>
			</flakyFailure>
		</testcase>
		<testcase classname="FooTests" name="testStable">
			<system-out>some output</system-out>
		</testcase>
	</testsuite>
</testsuites>`

	// When
	report, err := Parse(strings.NewReader(document))

	// Then
	require.NoError(t, err)
	passed, failed := report.SuiteGroups[0].Partition()
	require.Equal(t, 1, len(failed))
	assert.Equal(t, "FooTests/testFlaky", failed[0].Identifier())
	assert.Equal(t, "XCTAssertEqual failed", failed[0].Failures[0].Message)
	require.Equal(t, 1, len(passed))
	assert.Equal(t, "FooTests/testStable", passed[0].Identifier())
}

func Test_GivenReportFile_WhenOpened_ThenParses(t *testing.T) {
	// Given
	pth := filepath.Join(t.TempDir(), "report.xml")
	require.NoError(t, os.WriteFile(pth, []byte(sampleReport), 0600))

	// When
	report, err := Open(pth)

	// Then
	require.NoError(t, err)
	require.Equal(t, 1, len(report.SuiteGroups))
}

func Test_GivenMissingReportFile_WhenOpened_ThenFails(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.xml"))

	require.Error(t, err)
}

func TestIdentifier(t *testing.T) {
	tests := []struct {
		name       string
		className  string
		methodName string
		want       string
	}{
		{
			name:       "Swift style classname gets () suffix and last segment",
			className:  "com.example.FooTests",
			methodName: "testBar",
			want:       "FooTests/testBar()",
		},
		{
			name:       "Objective-C style classname kept verbatim",
			className:  "FooTests",
			methodName: "testBaz",
			want:       "FooTests/testBaz",
		},
		{
			name:       "single dot prefix still counts as Swift style",
			className:  "MyModule.BarTests",
			methodName: "testQux",
			want:       "BarTests/testQux()",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testCase := TestCase{ClassName: tt.className, Name: tt.methodName}

			require.Equal(t, tt.want, testCase.Identifier())
		})
	}
}

func TestDisplayIdentifier(t *testing.T) {
	swift := TestCase{ClassName: "com.example.FooTests", Name: "testBar"}
	assert.Equal(t, "FooTests/testBar", swift.DisplayIdentifier())

	objc := TestCase{ClassName: "FooTests", Name: "testBaz"}
	assert.Equal(t, "FooTests/testBaz", objc.DisplayIdentifier())
}
