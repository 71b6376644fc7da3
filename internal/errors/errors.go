// Package errors provides typed errors for promptbench.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode identifies the type of error.
type ErrorCode string

const (
	ErrFileNotFound         ErrorCode = "FILE_NOT_FOUND"
	ErrFileReadFailed       ErrorCode = "FILE_READ_FAILED"
	ErrConfigNotFound       ErrorCode = "CONFIG_NOT_FOUND"
	ErrConfigInvalid        ErrorCode = "CONFIG_INVALID"
	ErrPatternInvalid       ErrorCode = "PATTERN_INVALID"
	ErrNoFilesMatched       ErrorCode = "NO_FILES_MATCHED"
	ErrTokenizerUnavailable ErrorCode = "TOKENIZER_UNAVAILABLE"
	ErrLabelInvalid         ErrorCode = "LABEL_INVALID"
)

// BenchError represents a typed error with a user-friendly hint.
type BenchError struct {
	Code    ErrorCode
	Message string
	Hint    string
	Cause   error
}

func (e *BenchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *BenchError) Unwrap() error {
	return e.Cause
}

// New creates a new BenchError.
func New(code ErrorCode, message, hint string) *BenchError {
	return &BenchError{
		Code:    code,
		Message: message,
		Hint:    hint,
	}
}

// Wrap creates a new BenchError wrapping an existing error.
func Wrap(code ErrorCode, message, hint string, cause error) *BenchError {
	return &BenchError{
		Code:    code,
		Message: message,
		Hint:    hint,
		Cause:   cause,
	}
}

// As finds the first BenchError in err's chain.
func As(err error) (*BenchError, bool) {
	var be *BenchError
	if stderrors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// HasCode reports whether err's chain holds a BenchError with code.
func HasCode(err error, code ErrorCode) bool {
	be, ok := As(err)
	return ok && be.Code == code
}

// FileNotFound returns an error for a missing input file.
func FileNotFound(path string) *BenchError {
	return &BenchError{
		Code:    ErrFileNotFound,
		Message: fmt.Sprintf("file not found: %s", path),
		Hint:    "Check the path, or quote glob patterns so the shell does not expand them",
	}
}

// FileReadFailed returns an error for an input file that exists but cannot be read.
func FileReadFailed(path string, cause error) *BenchError {
	return &BenchError{
		Code:    ErrFileReadFailed,
		Message: fmt.Sprintf("failed to read %s", path),
		Cause:   cause,
	}
}

// ConfigNotFound returns an error for missing config file.
func ConfigNotFound(path string) *BenchError {
	return &BenchError{
		Code:    ErrConfigNotFound,
		Message: fmt.Sprintf("config file not found: %s", path),
		Hint:    "Run `promptbench init` to create a configuration",
	}
}

// ConfigInvalid returns an error for invalid config.
func ConfigInvalid(reason string) *BenchError {
	return &BenchError{
		Code:    ErrConfigInvalid,
		Message: fmt.Sprintf("invalid config: %s", reason),
		Hint:    "Check promptbench.yaml or ~/.config/promptbench/config.yaml",
	}
}

// PatternInvalid returns an error for a malformed glob or exclude pattern.
func PatternInvalid(pattern string, cause error) *BenchError {
	return &BenchError{
		Code:    ErrPatternInvalid,
		Message: fmt.Sprintf("invalid pattern %q", pattern),
		Hint:    "Glob syntax: *, ?, [a-z]; exclude patterns use .gitignore syntax",
		Cause:   cause,
	}
}

// NoFilesMatched returns an error when discovery finds nothing to count.
func NoFilesMatched(patterns []string) *BenchError {
	return &BenchError{
		Code:    ErrNoFilesMatched,
		Message: fmt.Sprintf("no files matched %v", patterns),
		Hint:    "Directories are searched for the extensions in discovery.extensions (default .md)",
	}
}

// LabelInvalid returns an error for comparison labels that cannot key JSON output.
func LabelInvalid(reason string) *BenchError {
	return &BenchError{
		Code:    ErrLabelInvalid,
		Message: fmt.Sprintf("invalid labels: %s", reason),
		Hint:    `Pass two distinct --label1/--label2 values other than "difference"`,
	}
}

// TokenizerUnavailable returns an error for an unknown or unloadable tokenizer.
func TokenizerUnavailable(name string, cause error) *BenchError {
	return &BenchError{
		Code:    ErrTokenizerUnavailable,
		Message: fmt.Sprintf("tokenizer %s unavailable", name),
		Hint:    "Use --tokenizer heuristic, bpe or runes; bpe accepts --encoding cl100k_base, p50k_base or r50k_base",
		Cause:   cause,
	}
}
