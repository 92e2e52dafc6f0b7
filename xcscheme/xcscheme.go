package xcscheme

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
)

// Scheme is an Xcode scheme (.xcscheme) document.
//
// The file is kept as a DOM so that saving preserves every element,
// attribute and comment Xcode wrote: the only mutation this package performs
// is adding SkippedTests entries to a testable reference.
type Scheme struct {
	doc *etree.Document

	Name string
	Path string
}

// TestableReference is one test bundle entry of the scheme's test action.
type TestableReference struct {
	element *etree.Element
}

// Open parses the scheme file at pth.
func Open(pth string) (*Scheme, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(pth); err != nil {
		return nil, fmt.Errorf("failed to read scheme file (%s): %w", pth, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("invalid scheme file (%s): no root element found", pth)
	}
	if root.Tag != "Scheme" {
		return nil, fmt.Errorf("invalid scheme file (%s): root element is %s, expected Scheme", pth, root.Tag)
	}

	return &Scheme{
		doc:  doc,
		Name: strings.TrimSuffix(filepath.Base(pth), filepath.Ext(pth)),
		Path: pth,
	}, nil
}

// Save writes the scheme back to the path it was opened from.
func (s *Scheme) Save() error {
	if s.Path == "" {
		return fmt.Errorf("scheme (%s) has no file path set", s.Name)
	}
	return s.SaveToPath(s.Path)
}

// SaveToPath serializes the scheme to pth, overwriting any existing file.
func (s *Scheme) SaveToPath(pth string) error {
	if err := s.doc.WriteToFile(pth); err != nil {
		return fmt.Errorf("failed to write scheme file (%s): %w", pth, err)
	}
	return nil
}

// TestableWithBuildableName returns the test action's testable reference
// whose buildable name equals name, or nil if the scheme has none.
func (s *Scheme) TestableWithBuildableName(name string) *TestableReference {
	for _, element := range s.doc.FindElements("//TestAction/Testables/TestableReference") {
		buildableReference := element.SelectElement("BuildableReference")
		if buildableReference == nil {
			continue
		}
		if buildableReference.SelectAttrValue("BuildableName", "") == name {
			return &TestableReference{element: element}
		}
	}
	return nil
}

// BuildableName ...
func (t *TestableReference) BuildableName() string {
	buildableReference := t.element.SelectElement("BuildableReference")
	if buildableReference == nil {
		return ""
	}
	return buildableReference.SelectAttrValue("BuildableName", "")
}

// SkippedTestIdentifiers returns the identifiers of the testable's skip list
// entries, in document order.
func (t *TestableReference) SkippedTestIdentifiers() []string {
	skippedTests := t.element.SelectElement("SkippedTests")
	if skippedTests == nil {
		return nil
	}

	var identifiers []string
	for _, test := range skippedTests.SelectElements("Test") {
		identifiers = append(identifiers, test.SelectAttrValue("Identifier", ""))
	}
	return identifiers
}

// HasSkippedTest ...
func (t *TestableReference) HasSkippedTest(identifier string) bool {
	skippedTests := t.element.SelectElement("SkippedTests")
	if skippedTests == nil {
		return false
	}
	for _, test := range skippedTests.SelectElements("Test") {
		if test.SelectAttrValue("Identifier", "") == identifier {
			return true
		}
	}
	return false
}

// AddSkippedTest appends a skip entry for identifier to the testable.
func (t *TestableReference) AddSkippedTest(identifier string) {
	skippedTests := t.element.SelectElement("SkippedTests")
	if skippedTests == nil {
		skippedTests = t.element.CreateElement("SkippedTests")
	}
	test := skippedTests.CreateElement("Test")
	test.CreateAttr("Identifier", identifier)
}
