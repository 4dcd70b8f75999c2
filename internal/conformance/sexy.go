// Package conformance extracts literate test scenarios from Markdown, in
// the style of strager/zong's sexy test format: a heading names a
// scenario, a fenced "program" code block holds the JSON-encoded input
// program, and one or more fenced "expect-*" blocks hold the assertions
// against the generated assembly.
package conformance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// AssertionType names what an expectation fence checks.
type AssertionType string

const (
	// ExpectContains asserts the generated assembly contains the fence's
	// trimmed text as a substring.
	ExpectContains AssertionType = "expect-contains"
	// ExpectNotContains asserts the generated assembly does NOT contain the
	// fence's trimmed text as a substring.
	ExpectNotContains AssertionType = "expect-not-contains"
	// ExpectErrors asserts code generation records a fatal error containing
	// the fence's trimmed text.
	ExpectErrors AssertionType = "expect-errors"
	// ExpectStdout asserts that assembling, linking and running the
	// generated program with Scenario.Argv produces exactly this stdout.
	ExpectStdout AssertionType = "expect-stdout"
	// ExpectExit asserts that running the generated program exits with
	// this status code.
	ExpectExit AssertionType = "expect-exit"
)

// Assertion is one expectation attached to a Scenario.
type Assertion struct {
	Type    AssertionType
	Content string
}

// Scenario is one "Test: <name>" section of a scenarios document: a
// program to generate code for, and the assertions its output must
// satisfy.
type Scenario struct {
	Name       string
	Program    string
	// Argv is the process argument vector (excluding argv[0]) the scenario
	// is run with, taken from an "argv" fence holding a JSON string array.
	// Empty when the scenario has no such fence.
	Argv       []string
	Assertions []Assertion
}

func isAssertionFence(lang string) bool {
	switch AssertionType(lang) {
	case ExpectContains, ExpectNotContains, ExpectErrors, ExpectStdout, ExpectExit:
		return true
	default:
		return false
	}
}

// ExtractScenarios parses a Markdown document into its scenarios. Each
// "Test: " heading starts a new scenario; a "program" fence supplies its
// input; any expect-* fence appends an assertion.
func ExtractScenarios(markdown string) ([]Scenario, error) {
	md := goldmark.New()
	source := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(source))

	var scenarios []Scenario
	var current *Scenario

	err := gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gast.Heading:
			heading := extractText(node, source)
			if strings.HasPrefix(heading, "Test: ") {
				if current != nil {
					if err := validate(current); err != nil {
						return gast.WalkStop, err
					}
					scenarios = append(scenarios, *current)
				}
				current = &Scenario{Name: strings.TrimPrefix(heading, "Test: ")}
			}
		case *gast.FencedCodeBlock:
			if current == nil {
				return gast.WalkContinue, nil
			}
			lang := string(node.Language(source))
			content := extractCodeBlock(node, source)
			switch {
			case lang == "program":
				current.Program = strings.TrimRight(content, "\n")
			case lang == "argv":
				var argv []string
				if err := json.Unmarshal([]byte(content), &argv); err != nil {
					return gast.WalkStop, fmt.Errorf("scenario %q: invalid argv fence: %w", current.Name, err)
				}
				current.Argv = argv
			case AssertionType(lang) == ExpectStdout:
				// Only the single trailing newline the Markdown fence itself
				// adds is stripped: unlike the substring checks below, exact
				// stdout may legitimately end with its own "\n".
				current.Assertions = append(current.Assertions, Assertion{
					Type:    ExpectStdout,
					Content: strings.TrimSuffix(content, "\n"),
				})
			case isAssertionFence(lang):
				current.Assertions = append(current.Assertions, Assertion{
					Type:    AssertionType(lang),
					Content: strings.TrimRight(content, "\n"),
				})
			}
		}
		return gast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking scenarios document: %w", err)
	}

	if current != nil {
		if err := validate(current); err != nil {
			return nil, err
		}
		scenarios = append(scenarios, *current)
	}

	return scenarios, nil
}

func validate(s *Scenario) error {
	if s.Program == "" {
		return fmt.Errorf("scenario %q has no program fence", s.Name)
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("scenario %q has no expectation fences", s.Name)
	}
	return nil
}

func extractText(n gast.Node, source []byte) string {
	var buf bytes.Buffer
	gast.Walk(n, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*gast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return gast.WalkContinue, nil
	})
	return buf.String()
}

func extractCodeBlock(block *gast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	for i := 0; i < block.Lines().Len(); i++ {
		line := block.Lines().At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}
