package junitreport

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for the two report validation failures, so callers can tell
// a broken file apart from a well-formed XML file that is not a test report.
var (
	ErrNoRootElement = errors.New("malformed XML: no root element found")
	ErrNoTestSuites  = errors.New("not a test report: no testsuites element found")
)

// Report is the parsed contents of a JUnit style Xcode test report.
//
// A report file may hold more than one top level testsuites element (trainer
// writes one per test bundle), so the document is read with a token walk
// instead of a single Unmarshal call.
type Report struct {
	SuiteGroups []SuiteGroup
}

// SuiteGroup maps to one top level testsuites element. Its name attribute
// carries the test bundle file name (for example MyAppTests.xctest) and is
// matched verbatim against the scheme's testable references.
type SuiteGroup struct {
	Name   string      `xml:"name,attr"`
	Suites []TestSuite `xml:"testsuite"`
}

// TestSuite ...
type TestSuite struct {
	Name      string     `xml:"name,attr"`
	TestCases []TestCase `xml:"testcase"`
}

// TestCase ...
type TestCase struct {
	ClassName string
	Name      string
	Failures  []Failure
}

// Failure ...
type Failure struct {
	Message string `xml:"message,attr"`
	Content string `xml:",chardata"`
}

// UnmarshalXML collects failure elements at any depth under the testcase
// element, so markers wrapped by dialect specific containers (flakyFailure,
// rerunFailure) still mark the case as failed.
func (c *TestCase) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "classname":
			c.ClassName = attr.Value
		case "name":
			c.Name = attr.Value
		}
	}

	depth := 0
	for {
		token, err := d.Token()
		if err != nil {
			return err
		}

		switch element := token.(type) {
		case xml.StartElement:
			if element.Name.Local == "failure" {
				var failure Failure
				if err := d.DecodeElement(&failure, &element); err != nil {
					return err
				}
				c.Failures = append(c.Failures, failure)
			} else {
				depth++
			}
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

// Open reads and parses the report file at pth.
func Open(pth string) (Report, error) {
	f, err := os.Open(pth)
	if err != nil {
		return Report{}, fmt.Errorf("failed to open test report: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	report, err := Parse(f)
	if err != nil {
		return Report{}, fmt.Errorf("failed to parse test report (%s): %w", pth, err)
	}

	return report, nil
}

// Parse reads a report document from r.
//
// It returns an error wrapping ErrNoRootElement if the document is empty or
// not well formed, and one wrapping ErrNoTestSuites if the document carries
// no top level testsuites element.
func Parse(r io.Reader) (Report, error) {
	decoder := xml.NewDecoder(r)

	var groups []SuiteGroup
	sawElement := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Report{}, fmt.Errorf("%w: %s", ErrNoRootElement, err)
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		sawElement = true

		if start.Name.Local != "testsuites" {
			if err := decoder.Skip(); err != nil {
				return Report{}, fmt.Errorf("%w: %s", ErrNoRootElement, err)
			}
			continue
		}

		var group SuiteGroup
		if err := decoder.DecodeElement(&group, &start); err != nil {
			return Report{}, fmt.Errorf("%w: %s", ErrNoRootElement, err)
		}
		groups = append(groups, group)
	}

	if !sawElement {
		return Report{}, ErrNoRootElement
	}
	if len(groups) == 0 {
		return Report{}, ErrNoTestSuites
	}

	return Report{SuiteGroups: groups}, nil
}

// BuildableName is the group name with its trailing file extension removed,
// for example MyAppTests for MyAppTests.xctest. It labels the group's tests
// in the result lists.
func (g SuiteGroup) BuildableName() string {
	return strings.TrimSuffix(g.Name, filepath.Ext(g.Name))
}

// Partition splits the group's test cases into passed and failed ones,
// keeping document order within each list. A case failed if it has at least
// one failure child.
func (g SuiteGroup) Partition() (passed, failed []TestCase) {
	for _, suite := range g.Suites {
		for _, testCase := range suite.TestCases {
			if testCase.Failed() {
				failed = append(failed, testCase)
			} else {
				passed = append(passed, testCase)
			}
		}
	}
	return passed, failed
}

// Failed ...
func (c TestCase) Failed() bool {
	return len(c.Failures) > 0
}

// Identifier derives the skip identifier of the test case:
// the last dot separated segment of classname, a slash, then the method name.
// For Swift style cases (classname contains a dot) the method gets a ()
// suffix. The identifier is always recomputed from classname and name, never
// read from the report's own identifier fields.
func (c TestCase) Identifier() string {
	className := c.ClassName
	swiftStyle := strings.Contains(className, ".")
	if swiftStyle {
		segments := strings.Split(className, ".")
		className = segments[len(segments)-1]
	}

	methodName := c.Name
	if swiftStyle {
		methodName += "()"
	}

	return className + "/" + methodName
}

// DisplayIdentifier is the identifier with any trailing () stripped, used
// for the failed tests listing.
func (c TestCase) DisplayIdentifier() string {
	return strings.TrimSuffix(c.Identifier(), "()")
}
