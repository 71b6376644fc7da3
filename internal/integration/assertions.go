package integration

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/HartBrook/promptbench/internal/errors"
)

// Asserter provides assertion helpers for command output.
type Asserter struct {
	t      *testing.T
	result Result
}

// NewAsserter creates an asserter for the given result.
func NewAsserter(t *testing.T, result Result) *Asserter {
	return &Asserter{t: t, result: result}
}

// ContainsText checks if the output contains a substring.
func (a *Asserter) ContainsText(text string) bool {
	return strings.Contains(a.result.Output, text)
}

// ErrorCode returns the code of the command's error, or "" if it has none.
func (a *Asserter) ErrorCode() string {
	if be, ok := errors.As(a.result.Err); ok {
		return string(be.Code)
	}
	return ""
}

// JSONValue looks up a dotted path in the output parsed as JSON.
// Numeric segments index arrays.
func (a *Asserter) JSONValue(path string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(a.result.Output), &v); err != nil {
		return nil, fmt.Errorf("output is not JSON: %w", err)
	}

	for _, key := range strings.Split(path, ".") {
		switch node := v.(type) {
		case map[string]any:
			next, ok := node[key]
			if !ok {
				return nil, fmt.Errorf("%s: no key %q", path, key)
			}
			v = next
		case []any:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("%s: bad index %q", path, key)
			}
			v = node[i]
		default:
			return nil, fmt.Errorf("%s: cannot descend into %T at %q", path, v, key)
		}
	}
	return v, nil
}

// RunAssertions runs all assertions from a fixture definition.
func (a *Asserter) RunAssertions(assertions FixtureAssertions) {
	a.t.Helper()

	if assertions.ErrorCode != "" {
		if a.result.Err == nil {
			a.t.Errorf("expected error %s, but command succeeded", assertions.ErrorCode)
		} else if got := a.ErrorCode(); got != assertions.ErrorCode {
			a.t.Errorf("expected error %s, got %q (%v)", assertions.ErrorCode, got, a.result.Err)
		}
	} else if a.result.Err != nil {
		a.t.Errorf("unexpected error: %v", a.result.Err)
	}

	for _, text := range assertions.Contains {
		if !a.ContainsText(text) {
			a.t.Errorf("expected output to contain %q\n%s", text, a.result.Output)
		}
	}

	for _, text := range assertions.NotContains {
		if a.ContainsText(text) {
			a.t.Errorf("expected output not to contain %q", text)
		}
	}

	for path, want := range assertions.JSON {
		got, err := a.JSONValue(path)
		if err != nil {
			a.t.Error(err)
			continue
		}
		// YAML ints and JSON float64s print alike.
		if fmt.Sprint(got) != fmt.Sprint(want) {
			a.t.Errorf("%s = %v, want %v", path, got, want)
		}
	}
}
